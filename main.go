package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"

	"github.com/smazurov/encodecfg/cmd"
	"github.com/smazurov/encodecfg/internal/api"
	"github.com/smazurov/encodecfg/internal/config"
	"github.com/smazurov/encodecfg/internal/encoders"
	"github.com/smazurov/encodecfg/internal/events"
	"github.com/smazurov/encodecfg/internal/ffmpeg"
	"github.com/smazurov/encodecfg/internal/logging"
	"github.com/smazurov/encodecfg/internal/metrics/exporters"
	"github.com/smazurov/encodecfg/internal/presets"
	"github.com/smazurov/encodecfg/internal/settings"
	"github.com/smazurov/encodecfg/internal/task"
	"github.com/smazurov/encodecfg/internal/version"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"config.toml"`

	// Server settings
	Port         string `help:"Port to listen on" short:"p" default:":8090" toml:"server.port" env:"SERVER_PORT"`
	SessionLimit int    `help:"Maximum open configuration sessions" default:"64" toml:"server.session_limit" env:"SERVER_SESSION_LIMIT"`

	// Storage settings
	PresetsFile           string `help:"Preset definitions file" default:"presets.toml" toml:"presets.file" env:"PRESETS_FILE"`
	SettingsFile          string `help:"User settings file" default:"settings.toml" toml:"settings.file" env:"SETTINGS_FILE"`
	SettingsWatchDebounce string `help:"Delay before reloading an edited settings file" default:"500ms" toml:"settings.watch_debounce" env:"SETTINGS_WATCH_DEBOUNCE"`

	// Default for when the settings file does not set it
	ShowAdvancedTab bool `help:"Allow manual advanced options" default:"false" toml:"settings.show_advanced_tab" env:"SHOW_ADVANCED_TAB"`

	// Advanced options
	AdvancedDerive bool `help:"Derive x264 advanced options from the structured fields" default:"true" toml:"advanced.derive" env:"ADVANCED_DERIVE"`

	// Host capabilities
	HardwareNewerGeneration bool `help:"Hardware encoder supports the Quality preset" default:"false" toml:"hardware.newer_generation" env:"HARDWARE_NEWER_GENERATION"`

	// Auth settings
	AuthUsername string `help:"Basic auth username, empty disables auth" default:"" toml:"auth.username" env:"AUTH_USERNAME"`
	AuthPassword string `help:"Basic auth password" default:"" toml:"auth.password" env:"AUTH_PASSWORD"`

	// Features settings
	MetricsEnabled bool `help:"Serve Prometheus metrics at /metrics" default:"true" toml:"features.metrics_enabled" env:"FEATURES_METRICS"`

	// Logging settings
	LoggingLevel      string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat     string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingController string `help:"Controller logging level" default:"info" toml:"logging.controller" env:"LOGGING_CONTROLLER"`
	LoggingAdvanced   string `help:"Advanced options logging level" default:"info" toml:"logging.advanced" env:"LOGGING_ADVANCED"`
	LoggingPresets    string `help:"Presets logging level" default:"info" toml:"logging.presets" env:"LOGGING_PRESETS"`
	LoggingSettings   string `help:"Settings logging level" default:"info" toml:"logging.settings" env:"LOGGING_SETTINGS"`
	LoggingAPI        string `help:"API logging level" default:"info" toml:"logging.api" env:"LOGGING_API"`
	LoggingHTTP       string `help:"HTTP request logging level" default:"info" toml:"logging.http" env:"LOGGING_HTTP"`
}

func main() {
	var cli humacli.CLI
	cli = humacli.New(func(hooks humacli.Hooks, opts *Options) {
		if loadErr := config.LoadConfig(opts, cli.Root()); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}

		logging.Initialize(logging.Config{
			Level:  opts.LoggingLevel,
			Format: opts.LoggingFormat,
			Modules: map[string]string{
				"controller": opts.LoggingController,
				"advanced":   opts.LoggingAdvanced,
				"presets":    opts.LoggingPresets,
				"settings":   opts.LoggingSettings,
				"api":        opts.LoggingAPI,
				"http":       opts.LoggingHTTP,
			},
		})
		logger := logging.GetLogger("main")

		eventBus := events.New()

		settingsStore := settings.New(opts.SettingsFile, map[string]any{
			settings.KeyQualityStep:     encoders.DefaultQualityStep,
			settings.KeyShowAdvancedTab: opts.ShowAdvancedTab,
		}, eventBus)
		if loadErr := settingsStore.Load(); loadErr != nil {
			logger.Warn("Failed to load settings, using defaults", "error", loadErr, "file", opts.SettingsFile)
		}

		presetStore := presets.NewTOML(opts.PresetsFile)
		if loadErr := presetStore.Load(); loadErr != nil {
			logger.Warn("Failed to load presets, using built-ins", "error", loadErr, "file", opts.PresetsFile)
		}

		apiOpts := &api.Options{
			AuthUsername: opts.AuthUsername,
			AuthPassword: opts.AuthPassword,
			Presets:      presetStore,
			Settings:     settingsStore,
			EventBus:     eventBus,
			Builder:      ffmpeg.NewOptionBuilder(opts.AdvancedDerive),
			Caps:         task.HostCapabilities{NewerHardwareGeneration: opts.HardwareNewerGeneration},
			SessionLimit: opts.SessionLimit,
		}
		if opts.MetricsEnabled {
			apiOpts.MetricsHandler = exporters.HTTPHandler()
		}
		server := api.NewServer(apiOpts)

		var (
			settingsWatcher *config.Watcher[map[string]any]
			loggingWatcher  *config.Watcher[logging.Config]
		)

		hooks.OnStart(func() {
			debounce, err := time.ParseDuration(opts.SettingsWatchDebounce)
			if err != nil {
				debounce = 500 * time.Millisecond
			}
			settingsWatcher, err = settingsStore.Watch(debounce)
			if err != nil {
				logger.Warn("Settings file changes will not be picked up", "error", err)
			}
			if _, statErr := os.Stat(opts.Config); statErr == nil {
				loggingWatcher, err = config.WatchLogging(opts.Config, debounce, logger)
				if err != nil {
					logger.Warn("Log level changes in the config file will not be picked up", "error", err)
				}
			}

			logger.Info("Starting HTTP server", "port", opts.Port)
			if startErr := server.Start(opts.Port); startErr != nil && !errors.Is(startErr, http.ErrServerClosed) {
				logger.Error("Failed to start HTTP server", "error", startErr)
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			logger.Info("Shutting down server")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if stopErr := server.Stop(ctx); stopErr != nil {
				logger.Error("Error stopping HTTP server", "error", stopErr)
			}
			if settingsWatcher != nil {
				if stopErr := settingsWatcher.Stop(); stopErr != nil {
					logger.Warn("Error stopping settings watcher", "error", stopErr)
				}
			}
			if loggingWatcher != nil {
				if stopErr := loggingWatcher.Stop(); stopErr != nil {
					logger.Warn("Error stopping config watcher", "error", stopErr)
				}
			}
		})
	})

	cli.Root().Use = version.Name
	cli.Root().Version = version.String()
	cli.Root().AddCommand(cmd.CreateQualityCmd())
	cli.Root().AddCommand(cmd.CreateApplyPresetCmd())

	cli.Run()
}
