package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spf13/cobra"
)

// testOptions mirrors the shape of the service options.
type testOptions struct {
	Config string `help:"Config file path"`

	Port         string   `toml:"server.port" env:"SERVER_PORT"`
	QualityStep  float64  `toml:"settings.quality_step" env:"SETTINGS_QUALITY_STEP"`
	AdvancedTab  bool     `toml:"settings.show_advanced_tab" env:"SETTINGS_SHOW_ADVANCED_TAB"`
	SessionLimit int      `toml:"server.session_limit" env:"SERVER_SESSION_LIMIT"`
	Encoders     []string `toml:"encoders.enabled" env:"ENCODERS_ENABLED"`
	LoggingLevel string   `toml:"logging.level" env:"LOGGING_LEVEL"`
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

const sampleConfig = `
[server]
port = ":9000"
session_limit = 16

[settings]
quality_step = 0.5
show_advanced_tab = true

[encoders]
enabled = ["x264", "x265"]

[logging]
level = "debug"
`

func TestLoadConfigFromTOML(t *testing.T) {
	opts := &testOptions{Config: writeConfig(t, sampleConfig)}

	if err := LoadConfig(opts, nil); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	want := &testOptions{
		Config:       opts.Config,
		Port:         ":9000",
		QualityStep:  0.5,
		AdvancedTab:  true,
		SessionLimit: 16,
		Encoders:     []string{"x264", "x265"},
		LoggingLevel: "debug",
	}
	if !reflect.DeepEqual(opts, want) {
		t.Errorf("LoadConfig() = %+v, want %+v", opts, want)
	}
}

func TestLoadConfigIntegerForFloat(t *testing.T) {
	opts := &testOptions{Config: writeConfig(t, "[settings]\nquality_step = 1\n")}

	if err := LoadConfig(opts, nil); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if opts.QualityStep != 1 {
		t.Errorf("QualityStep = %v, want 1", opts.QualityStep)
	}
}

func TestLoadConfigEnvOverridesTOML(t *testing.T) {
	t.Setenv(EnvPrefix+"SETTINGS_QUALITY_STEP", "0.2")
	t.Setenv(EnvPrefix+"ENCODERS_ENABLED", " vp8 , theora ")
	t.Setenv(EnvPrefix+"SERVER_SESSION_LIMIT", "not a number")

	opts := &testOptions{Config: writeConfig(t, sampleConfig)}
	if err := LoadConfig(opts, nil); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if opts.QualityStep != 0.2 {
		t.Errorf("QualityStep = %v, want 0.2 from env", opts.QualityStep)
	}
	if !reflect.DeepEqual(opts.Encoders, []string{"vp8", "theora"}) {
		t.Errorf("Encoders = %v, want [vp8 theora]", opts.Encoders)
	}
	if opts.SessionLimit != 16 {
		t.Errorf("unparseable env value should keep TOML value, got %d", opts.SessionLimit)
	}
	if opts.Port != ":9000" {
		t.Errorf("Port = %q, want TOML value", opts.Port)
	}
}

func TestLoadConfigIgnoresUnprefixedEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", ":1234")

	opts := &testOptions{Port: ":8090"}
	if err := LoadConfig(opts, nil); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if opts.Port != ":8090" {
		t.Errorf("Port = %q, want default", opts.Port)
	}
}

func TestLoadConfigChangedFlagsWin(t *testing.T) {
	t.Setenv(EnvPrefix+"SERVER_PORT", ":7000")

	opts := &testOptions{Config: writeConfig(t, sampleConfig)}
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringVar(&opts.Port, "port", ":8090", "")
	cmd.Flags().Float64Var(&opts.QualityStep, "quality-step", 0.25, "")
	if err := cmd.Flags().Parse([]string{"--port", ":6000"}); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}

	if err := LoadConfig(opts, cmd); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if opts.Port != ":6000" {
		t.Errorf("Port = %q, want flag value", opts.Port)
	}
	if opts.QualityStep != 0.5 {
		t.Errorf("unchanged flag should take the TOML value, got %v", opts.QualityStep)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	opts := &testOptions{Config: filepath.Join(t.TempDir(), "missing.toml")}
	if err := LoadConfig(opts, nil); err != nil {
		t.Fatalf("LoadConfig should not fail for missing file: %v", err)
	}
}

func TestLoadConfigInvalidTOML(t *testing.T) {
	opts := &testOptions{Config: writeConfig(t, "[server\nport = \n")}
	if err := LoadConfig(opts, nil); err == nil {
		t.Error("expected error for invalid TOML")
	}
}

func TestGetNestedValue(t *testing.T) {
	data := map[string]any{
		"settings": map[string]any{
			"quality_step": 0.5,
			"advanced": map[string]any{
				"enabled": true,
			},
		},
		"version": int64(1),
	}

	tests := []struct {
		path string
		want any
	}{
		{"version", int64(1)},
		{"settings.quality_step", 0.5},
		{"settings.advanced.enabled", true},
		{"missing", nil},
		{"settings.missing", nil},
		{"version.child", nil},
	}

	for _, tt := range tests {
		if got := getNestedValue(data, tt.path); got != tt.want {
			t.Errorf("getNestedValue(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestSetFieldValueFromString(t *testing.T) {
	type target struct {
		S string
		B bool
		I int
		F float64
	}

	s := &target{}
	v := reflect.ValueOf(s).Elem()

	setFieldValueFromString(v.FieldByName("S"), "text")
	setFieldValueFromString(v.FieldByName("B"), "true")
	setFieldValueFromString(v.FieldByName("I"), "12")
	setFieldValueFromString(v.FieldByName("F"), "0.75")

	if *s != (target{S: "text", B: true, I: 12, F: 0.75}) {
		t.Errorf("unexpected result %+v", s)
	}
}

func TestLoadLoggingConfig(t *testing.T) {
	path := writeConfig(t, `
[logging]
level = "warn"
format = "json"
controller = "debug"
presets = "error"
`)

	cfg := LoadLoggingConfig(path)
	if cfg.Level != "warn" || cfg.Format != "json" {
		t.Errorf("level/format = %s/%s, want warn/json", cfg.Level, cfg.Format)
	}
	if cfg.Modules["controller"] != "debug" || cfg.Modules["presets"] != "error" {
		t.Errorf("module levels = %v", cfg.Modules)
	}

	def := LoadLoggingConfig("")
	if def.Level != "info" || def.Format != "text" || len(def.Modules) != 0 {
		t.Errorf("defaults = %+v", def)
	}
}

func TestFieldNameToFlag(t *testing.T) {
	tests := map[string]string{
		"Port":                  "port",
		"SettingsWatchDebounce": "settings-watch-debounce",
		"AuthUsername":          "auth-username",
	}
	for in, want := range tests {
		if got := fieldNameToFlag(in); got != want {
			t.Errorf("fieldNameToFlag(%q) = %q, want %q", in, got, want)
		}
	}
}
