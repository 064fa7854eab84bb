// Package logging provides slog loggers with per-module levels.
//
// Records go to stdout (text or json), to the systemd journal when journald
// is reachable, and to an in-memory ring buffer served by the logs endpoint.
//
// Initialize once at startup, then ask for a logger per module:
//
//	logging.Initialize(logging.Config{
//		Level:   "info",
//		Format:  "text",
//		Modules: map[string]string{"controller": "debug"},
//	})
//	logger := logging.GetLogger("controller")
//
// Loggers obtained before Initialize are retuned in place. Journal entries
// carry the identifier "encodecfg" and upper-cased attribute fields:
//
//	journalctl -t encodecfg MODULE=presets
//
// The [logging] table of the config file mirrors Config:
//
//	[logging]
//	level = "info"
//	format = "text"
//
//	[logging.modules]
//	controller = "debug"
//	api = "warn"
package logging
