package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/smazurov/encodecfg/internal/logging"
)

// ReadLoggingConfig reads the [logging] table of a TOML config file.
// level and format are global, every other key is a module level.
func ReadLoggingConfig(configPath string) (logging.Config, error) {
	cfg := logging.Config{
		Level:   "info",
		Format:  "text",
		Modules: make(map[string]string),
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	var rawConfig struct {
		Logging map[string]string `toml:"logging"`
	}
	if err := toml.Unmarshal(data, &rawConfig); err != nil {
		return cfg, fmt.Errorf("failed to parse logging config: %w", err)
	}

	for key, value := range rawConfig.Logging {
		switch key {
		case "level":
			cfg.Level = value
		case "format":
			cfg.Format = value
		default:
			cfg.Modules[key] = value
		}
	}
	return cfg, nil
}

// LoadLoggingConfig is ReadLoggingConfig with defaults on any error.
func LoadLoggingConfig(configPath string) logging.Config {
	cfg, _ := ReadLoggingConfig(configPath)
	return cfg
}

// ApplyLoggingLevels sets the global and module levels of cfg on the running
// loggers. The format only takes effect on restart.
func ApplyLoggingLevels(cfg logging.Config, logger *slog.Logger) {
	if !logging.SetLevel(cfg.Level) {
		logger.Warn("Ignoring invalid log level", "level", cfg.Level)
	}
	for module, level := range cfg.Modules {
		if !logging.SetModuleLevel(module, level) {
			logger.Warn("Ignoring invalid module log level", "module", module, "level", level)
		}
	}
}

// WatchLogging re-applies the log levels of configPath whenever the file
// changes. A file that fails to parse leaves the current levels alone.
func WatchLogging(configPath string, debounce time.Duration, logger *slog.Logger) (*Watcher[logging.Config], error) {
	w := NewConfigWatcher(configPath, ReadLoggingConfig, logger,
		WithDebounce[logging.Config](debounce),
	)
	w.OnReload(func(cfg logging.Config) {
		ApplyLoggingLevels(cfg, logger)
	})
	if err := w.Start(); err != nil {
		return nil, fmt.Errorf("failed to watch config file: %w", err)
	}
	return w, nil
}
