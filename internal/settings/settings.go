// Package settings holds the site-wide user settings that the controller
// consults, backed by the [settings] table of a TOML file.
package settings

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/smazurov/encodecfg/internal/config"
	"github.com/smazurov/encodecfg/internal/events"
	"github.com/smazurov/encodecfg/internal/logging"
)

// Setting keys
const (
	KeyQualityStep     = "quality_step"
	KeyShowAdvancedTab = "show_advanced_tab"
)

// Publisher receives setting change events.
type Publisher interface {
	Publish(ev events.Event)
}

type file struct {
	Settings map[string]any `toml:"settings"`
}

// Store is a concurrency safe key/value view of the settings file.
type Store struct {
	mu       sync.RWMutex
	path     string
	defaults map[string]any
	values   map[string]any
	bus      Publisher
	logger   *slog.Logger
}

// New creates a store for path. defaults answer lookups for keys the file
// does not set. bus may be nil.
func New(path string, defaults map[string]any, bus Publisher) *Store {
	if path == "" {
		path = "settings.toml"
	}
	return &Store{
		path:     path,
		defaults: maps.Clone(defaults),
		values:   maps.Clone(defaults),
		bus:      bus,
		logger:   logging.GetLogger("settings"),
	}
}

// Float returns the numeric setting key, or def when unset or not a number.
func (s *Store) Float(key string, def float64) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch v := s.values[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return def
}

// Bool returns the boolean setting key, or def when unset or not a bool.
func (s *Store) Bool(key string, def bool) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if v, ok := s.values[key].(bool); ok {
		return v
	}
	return def
}

// Snapshot returns a copy of all values.
func (s *Store) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.values)
}

// Set stores value under key, writes the file and publishes a change event
// when the value differs. The store is left unchanged if the write fails.
func (s *Store) Set(key string, value any) error {
	s.mu.Lock()
	if old, ok := s.values[key]; ok && reflect.DeepEqual(old, value) {
		s.mu.Unlock()
		return nil
	}
	next := maps.Clone(s.values)
	if next == nil {
		next = make(map[string]any)
	}
	next[key] = value
	if err := s.write(next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.values = next
	s.mu.Unlock()

	s.publish([]string{key}, map[string]any{key: value})
	return nil
}

// Load reads the file without publishing events. A missing file keeps the defaults.
func (s *Store) Load() error {
	values, err := LoadFile(s.path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = s.merge(values)
	return nil
}

// Reload re-reads the file and publishes one event per changed key.
// Returns the changed keys in sorted order.
func (s *Store) Reload() ([]string, error) {
	values, err := LoadFile(s.path)
	if err != nil {
		return nil, err
	}
	return s.Apply(values), nil
}

// Apply replaces the file values with values and publishes one event per
// changed key.
func (s *Store) Apply(values map[string]any) []string {
	s.mu.Lock()
	next := s.merge(values)
	var changed []string
	for key := range keysOf(s.values, next) {
		if !reflect.DeepEqual(s.values[key], next[key]) {
			changed = append(changed, key)
		}
	}
	slices.Sort(changed)
	s.values = next
	s.mu.Unlock()

	if len(changed) > 0 {
		s.logger.Info("Settings changed", "keys", changed)
		s.publish(changed, next)
	}
	return changed
}

// Watch reloads the store whenever the settings file changes. The caller
// stops the returned watcher.
func (s *Store) Watch(debounce time.Duration) (*config.Watcher[map[string]any], error) {
	w := config.NewConfigWatcher(s.path, LoadFile, s.logger,
		config.WithDebounce[map[string]any](debounce),
	)
	w.OnReload(func(values map[string]any) {
		s.Apply(values)
	})
	if err := w.Start(); err != nil {
		return nil, fmt.Errorf("failed to watch settings file: %w", err)
	}
	return w, nil
}

// LoadFile reads the [settings] table of a TOML file. A missing file yields
// an empty map.
func LoadFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var f file
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse settings file: %w", err)
	}
	if f.Settings == nil {
		f.Settings = map[string]any{}
	}
	return f.Settings, nil
}

// write stores values in the settings file.
func (s *Store) write(values map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := toml.Marshal(file{Settings: values})
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}

func (s *Store) merge(values map[string]any) map[string]any {
	merged := maps.Clone(s.defaults)
	if merged == nil {
		merged = make(map[string]any, len(values))
	}
	maps.Copy(merged, values)
	return merged
}

func (s *Store) publish(keys []string, values map[string]any) {
	if s.bus == nil {
		return
	}
	now := time.Now().Format(time.RFC3339)
	for _, key := range keys {
		s.bus.Publish(events.SettingChangedEvent{Key: key, Value: values[key], Timestamp: now})
	}
}

func keysOf(a, b map[string]any) map[string]struct{} {
	keys := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		keys[k] = struct{}{}
	}
	for k := range b {
		keys[k] = struct{}{}
	}
	return keys
}
