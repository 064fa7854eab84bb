package api

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"

	"github.com/smazurov/encodecfg/internal/advanced"
	"github.com/smazurov/encodecfg/internal/api/models"
	"github.com/smazurov/encodecfg/internal/controller"
	"github.com/smazurov/encodecfg/internal/events"
	"github.com/smazurov/encodecfg/internal/logging"
	"github.com/smazurov/encodecfg/internal/presets"
	"github.com/smazurov/encodecfg/internal/task"
	"github.com/smazurov/encodecfg/internal/version"
)

// SettingsStore is the user settings view the API reads and edits.
type SettingsStore interface {
	controller.Settings
	Snapshot() map[string]any
	Set(key string, value any) error
}

// Options configures the API server.
type Options struct {
	AuthUsername string
	AuthPassword string

	Presets      presets.Store
	Settings     SettingsStore
	EventBus     *events.Bus
	Builder      advanced.OptionBuilder
	Caps         task.HostCapabilities
	SessionLimit int

	MetricsHandler http.Handler // Optional Prometheus handler served at /metrics
}

// Server is the huma v2 API server.
type Server struct {
	api        huma.API
	mux        *http.ServeMux
	httpServer *http.Server
	sessions   *SessionManager
	options    *Options
	logger     *slog.Logger
}

// NewServer creates the API server on a Go 1.22+ ServeMux.
func NewServer(opts *Options) *Server {
	mux := http.NewServeMux()

	corsConfig := DefaultCORSConfig()
	AddCORSHandler(mux, corsConfig)

	config := huma.DefaultConfig("encodecfg API", version.String())
	config.Info.Description = "Video encoding configuration sessions, presets and settings"
	config.Servers = []*huma.Server{}
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"basicAuth": {
			Type:   "http",
			Scheme: "basic",
		},
	}

	api := humago.New(mux, config)

	server := &Server{
		api: api,
		mux: mux,
		sessions: NewSessionManager(SessionManagerOptions{
			Settings: opts.Settings,
			Builder:  opts.Builder,
			Caps:     opts.Caps,
			EventBus: opts.EventBus,
			Limit:    opts.SessionLimit,
		}),
		options: opts,
		logger:  logging.GetLogger("api"),
	}

	api.UseMiddleware(NewCORSMiddleware(corsConfig))
	api.UseMiddleware(HTTPLoggingMiddleware)
	if opts.AuthUsername != "" && opts.AuthPassword != "" {
		api.UseMiddleware(server.basicAuthMiddleware(opts.AuthUsername, opts.AuthPassword))
	}

	if opts.MetricsHandler != nil {
		mux.Handle("GET /metrics", opts.MetricsHandler)
	}

	server.registerRoutes()
	return server
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// API returns the huma API instance.
func (s *Server) API() huma.API {
	return s.api
}

// Sessions returns the session manager.
func (s *Server) Sessions() *SessionManager {
	return s.sessions
}

// Start listens on addr and blocks until the server stops.
func (s *Server) Start(addr string) error {
	s.logger.Info("Starting API server", "addr", addr)
	s.logger.Info("OpenAPI documentation available", "url", "http://"+addr+"/docs")

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s.httpServer.ListenAndServe()
}

// Stop shuts the server down and detaches the sessions from the event bus.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping API server")
	s.sessions.Close()

	if s.httpServer == nil {
		return nil
	}
	if err := s.httpServer.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) registerRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/api/health",
		Summary:     "Health",
		Description: "Check API health status",
		Tags:        []string{"health"},
		Security:    []map[string][]string{},
	}, func(_ context.Context, _ *struct{}) (*models.HealthResponse, error) {
		return &models.HealthResponse{
			Body: models.HealthData{Status: "ok", Message: "API is healthy"},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-version",
		Method:      http.MethodGet,
		Path:        "/api/version",
		Summary:     "Version",
		Description: "Get application version information",
		Tags:        []string{"system"},
		Security:    []map[string][]string{},
	}, func(_ context.Context, _ *struct{}) (*models.VersionResponse, error) {
		info := version.Get()
		return &models.VersionResponse{
			Body: models.VersionData{
				Version:   info.Version,
				GitCommit: info.GitCommit,
				BuildDate: info.BuildDate,
				BuildID:   info.BuildID,
				GoVersion: info.GoVersion,
				Compiler:  info.Compiler,
				Platform:  info.Platform,
			},
		}, nil
	})

	s.registerEncoderRoutes()
	s.registerPresetRoutes()
	s.registerSessionRoutes()
	s.registerSettingsRoutes()
	s.registerLogRoutes()
	s.registerEventRoutes()
}

// basicAuthMiddleware enforces HTTP basic auth on operations that declare
// a security requirement.
func (s *Server) basicAuthMiddleware(username, password string) func(huma.Context, func(huma.Context)) {
	deny := func(ctx huma.Context, msg string) {
		ctx.SetHeader("WWW-Authenticate", `Basic realm="encodecfg"`)
		huma.WriteErr(s.api, ctx, http.StatusUnauthorized, msg)
	}

	return func(ctx huma.Context, next func(huma.Context)) {
		if op := ctx.Operation(); op != nil && len(op.Security) == 0 {
			next(ctx)
			return
		}

		// EventSource cannot set headers, so the events stream may pass
		// credentials in the auth query parameter.
		encoded := ctx.Query("auth")
		if header := ctx.Header("Authorization"); header != "" {
			const prefix = "Basic "
			if !strings.HasPrefix(header, prefix) {
				deny(ctx, "Invalid authentication type")
				return
			}
			encoded = header[len(prefix):]
		}
		if encoded == "" {
			deny(ctx, "Authentication required")
			return
		}

		decoded, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			deny(ctx, "Invalid credentials format")
			return
		}
		user, pass, ok := strings.Cut(string(decoded), ":")
		if !ok {
			deny(ctx, "Invalid credentials format")
			return
		}
		if subtle.ConstantTimeCompare([]byte(user), []byte(username)) != 1 ||
			subtle.ConstantTimeCompare([]byte(pass), []byte(password)) != 1 {
			deny(ctx, "Invalid credentials")
			return
		}
		next(ctx)
	}
}

// withAuth returns the basic auth security requirement.
func withAuth() []map[string][]string {
	return []map[string][]string{
		{"basicAuth": {}},
	}
}

// mapError maps domain errors to HTTP errors.
func (s *Server) mapError(err error) error {
	var presetErr *presets.PresetError
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return huma.Error404NotFound("session not found", err)
	case errors.Is(err, ErrSessionLimit):
		return huma.NewError(http.StatusTooManyRequests, "session limit reached", err)
	case errors.As(err, &presetErr):
		switch presetErr.Code {
		case presets.ErrCodePresetNotFound:
			return huma.Error404NotFound(presetErr.Message, err)
		case presets.ErrCodePresetInvalid:
			return huma.Error400BadRequest(presetErr.Message, err)
		default:
			return huma.Error500InternalServerError(presetErr.Message, err)
		}
	}
	return huma.Error500InternalServerError("internal server error", err)
}
