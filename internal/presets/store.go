package presets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/smazurov/encodecfg/internal/task"
	"github.com/smazurov/encodecfg/internal/types"
)

// Store supplies presets by name.
type Store interface {
	// Load reads the presets from storage
	Load() error

	// Save writes the presets to storage
	Save() error

	// Get returns the preset with the given name
	Get(name string) (task.Preset, error)

	// List returns all presets sorted by category, then name
	List() []task.Preset

	// Put adds or replaces a preset and saves
	Put(preset task.Preset) error

	// Remove deletes a preset and saves
	Remove(name string) error
}

// file is the presets file layout for TOML marshaling.
type file struct {
	Version int                    `toml:"version"`
	Presets map[string]task.Preset `toml:"presets"`
}

// taskKeys records which task keys each preset in a file spells out.
type taskKeys struct {
	Presets map[string]struct {
		Task map[string]any `toml:"task"`
	} `toml:"presets"`
}

// defaultOmittedOrdinals sets the x264 and x265 preset indexes a file left
// out to their family defaults. Index 0 is Ultrafast, so the zero value
// cannot stand for "unset".
func defaultOmittedOrdinals(t *task.EncodingTask, present map[string]any) {
	if _, ok := present["x264_preset"]; !ok {
		t.X264Preset = types.DefaultX264Preset
	}
	if _, ok := present["x265_preset"]; !ok {
		t.X265Preset = types.DefaultX265Preset
	}
}

// tomlStore implements Store using a TOML file.
type tomlStore struct {
	mu   sync.RWMutex
	path string
	data *file
}

// NewTOML creates a TOML-backed preset store seeded with the built-in presets.
// Presets in the file override built-ins with the same name.
func NewTOML(path string) Store {
	if path == "" {
		path = "presets.toml"
	}

	s := &tomlStore{
		path: path,
		data: &file{Version: 1, Presets: make(map[string]task.Preset)},
	}
	for _, p := range BuiltIn() {
		s.data.Presets[p.Name] = p
	}
	return s
}

func (s *tomlStore) Load() error {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return NewPresetError(ErrCodeConfigError, "failed to read presets file", err)
	}

	var loaded file
	if err := toml.Unmarshal(raw, &loaded); err != nil {
		return NewPresetError(ErrCodeConfigError, "failed to parse presets file", err)
	}
	var keys taskKeys
	if err := toml.Unmarshal(raw, &keys); err != nil {
		return NewPresetError(ErrCodeConfigError, "failed to parse presets file", err)
	}

	for name, p := range loaded.Presets {
		if p.Name == "" {
			p.Name = name
		}
		if p.Task != nil {
			defaultOmittedOrdinals(p.Task, keys.Presets[name].Task)
		}
		if err := Validate(p); err != nil {
			return err
		}
		loaded.Presets[name] = p
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for name, p := range loaded.Presets {
		s.data.Presets[name] = p
	}
	if loaded.Version != 0 {
		s.data.Version = loaded.Version
	}
	return nil
}

func (s *tomlStore) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.save()
}

func (s *tomlStore) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create presets directory: %w", err)
	}

	raw, err := toml.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("failed to marshal presets: %w", err)
	}

	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write presets file: %w", err)
	}
	return nil
}

func (s *tomlStore) Get(name string) (task.Preset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.data.Presets[name]
	if !ok {
		return task.Preset{}, NewPresetError(ErrCodePresetNotFound, fmt.Sprintf("preset %q not found", name), nil)
	}
	return p, nil
}

func (s *tomlStore) List() []task.Preset {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]task.Preset, 0, len(s.data.Presets))
	for _, p := range s.data.Presets {
		list = append(list, p)
	}
	slices.SortFunc(list, func(a, b task.Preset) int {
		if c := strings.Compare(a.Category, b.Category); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return list
}

func (s *tomlStore) Put(p task.Preset) error {
	if err := Validate(p); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Presets[p.Name] = p
	return s.save()
}

func (s *tomlStore) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data.Presets[name]; !ok {
		return NewPresetError(ErrCodePresetNotFound, fmt.Sprintf("preset %q not found", name), nil)
	}
	delete(s.data.Presets, name)
	return s.save()
}

// Validate checks that a preset is named and that its intent, if any,
// names a known encoder.
func Validate(p task.Preset) error {
	if strings.TrimSpace(p.Name) == "" {
		return NewPresetError(ErrCodePresetInvalid, "preset name is required", nil)
	}
	if p.Task != nil && !p.Task.Encoder.IsValid() {
		return NewPresetError(ErrCodePresetInvalid,
			fmt.Sprintf("preset %q has unknown encoder %q", p.Name, p.Task.Encoder), nil)
	}
	return nil
}
