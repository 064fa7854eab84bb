// Package config fills the encodecfg option struct from the TOML config
// file, ENCODECFG_ environment variables and command line flags, and
// watches files for runtime reloads.
package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// EnvPrefix is prepended to every env tag when reading overrides.
const EnvPrefix = "ENCODECFG_"

// LoadConfig fills opts, a pointer to a flat options struct, from three
// layers: the TOML file named by its Config field, then ENCODECFG_ env vars,
// then flags the user set on cmd. Fields opt in with `toml:"section.key"`
// and `env:"KEY"` tags. A missing config file is not an error.
func LoadConfig(opts any, cmd *cobra.Command) error {
	v := reflect.ValueOf(opts).Elem()
	t := v.Type()
	fromFlags := setFlags(cmd)

	// Fields the user pinned on the command line keep their flag value.
	layered := func(apply func(field reflect.Value, sf reflect.StructField)) {
		for i := range v.NumField() {
			sf := t.Field(i)
			if fromFlags[fieldNameToFlag(sf.Name)] {
				continue
			}
			apply(v.Field(i), sf)
		}
	}

	if path := configPath(v); path != "" {
		tree, err := readTree(path)
		if err != nil {
			return err
		}
		layered(func(field reflect.Value, sf reflect.StructField) {
			key := sf.Tag.Get("toml")
			if key == "" {
				return
			}
			if value := getNestedValue(tree, key); value != nil {
				setFieldValue(field, value)
			}
		})
	}

	layered(func(field reflect.Value, sf reflect.StructField) {
		key := sf.Tag.Get("env")
		if key == "" {
			return
		}
		if value := os.Getenv(EnvPrefix + key); value != "" {
			setFieldValueFromString(field, value)
		}
	})
	return nil
}

// setFlags returns the names of flags given explicitly on cmd.
func setFlags(cmd *cobra.Command) map[string]bool {
	names := make(map[string]bool)
	if cmd == nil {
		return names
	}
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			names[f.Name] = true
		}
	})
	return names
}

func configPath(v reflect.Value) string {
	if f := v.FieldByName("Config"); f.IsValid() && f.Kind() == reflect.String {
		return f.String()
	}
	return ""
}

// readTree decodes path into a generic TOML tree. A missing or unreadable
// file yields nil so the env and flag layers still apply.
func readTree(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil
	}
	var tree map[string]any
	if err := toml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("config %s is not valid TOML: %w", path, err)
	}
	return tree, nil
}

// fieldNameToFlag turns a field name into its humacli flag name,
// "SettingsWatchDebounce" -> "settings-watch-debounce".
func fieldNameToFlag(fieldName string) string {
	var b strings.Builder
	for i, r := range fieldName {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte('-')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// getNestedValue looks up a dotted key such as "server.port" in tree.
func getNestedValue(tree map[string]any, key string) any {
	section, rest, nested := strings.Cut(key, ".")
	if !nested {
		return tree[section]
	}
	sub, ok := tree[section].(map[string]any)
	if !ok {
		return nil
	}
	return getNestedValue(sub, rest)
}

// setFieldValue assigns a decoded TOML value. Values of the wrong type are
// ignored and the field keeps its default.
func setFieldValue(field reflect.Value, value any) {
	if !field.CanSet() {
		return
	}

	switch field.Kind() {
	case reflect.String:
		if s, ok := value.(string); ok {
			field.SetString(s)
		}
	case reflect.Bool:
		if b, ok := value.(bool); ok {
			field.SetBool(b)
		}
	case reflect.Int:
		switch i := value.(type) {
		case int64:
			field.SetInt(i)
		case int:
			field.SetInt(int64(i))
		}
	case reflect.Float64:
		// TOML integers decode as int64, so "step = 1" is accepted too
		switch f := value.(type) {
		case float64:
			field.SetFloat(f)
		case int64:
			field.SetFloat(float64(f))
		}
	case reflect.Slice:
		arr, ok := value.([]any)
		if !ok || field.Type().Elem().Kind() != reflect.String {
			return
		}
		list := make([]string, len(arr))
		for i, item := range arr {
			list[i], _ = item.(string)
		}
		field.Set(reflect.ValueOf(list))
	}
}

// setFieldValueFromString parses an env var into the field's kind.
// Unparsable values are ignored.
func setFieldValueFromString(field reflect.Value, value string) {
	if !field.CanSet() {
		return
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Bool:
		if b, err := strconv.ParseBool(value); err == nil {
			field.SetBool(b)
		}
	case reflect.Int:
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			field.SetInt(i)
		}
	case reflect.Float64:
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			field.SetFloat(f)
		}
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return
		}
		// Comma separated, e.g. ENCODECFG_X="a, b"
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		field.Set(reflect.ValueOf(parts))
	}
}
