package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func resetState() {
	mutex.Lock()
	defer mutex.Unlock()
	moduleLoggers = make(map[string]*slog.Logger)
	moduleLevelVars = make(map[string]*slog.LevelVar)
	isInitialized = false
	globalConfig = Config{}
	logBuffer = nil
	logCallback = nil
}

func TestModuleLevelOverride(t *testing.T) {
	resetState()
	Initialize(Config{
		Level:  "info",
		Format: "text",
		Modules: map[string]string{
			"controller": "debug",
			"api":        "warn",
		},
	})

	tests := []struct {
		module    string
		wantDebug bool
		wantInfo  bool
		wantWarn  bool
	}{
		{"controller", true, true, true},
		{"api", false, false, true},
		{"presets", false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.module, func(t *testing.T) {
			handler := GetLogger(tt.module).Handler()
			ctx := context.Background()

			if got := handler.Enabled(ctx, slog.LevelDebug); got != tt.wantDebug {
				t.Errorf("Debug enabled = %v, want %v", got, tt.wantDebug)
			}
			if got := handler.Enabled(ctx, slog.LevelInfo); got != tt.wantInfo {
				t.Errorf("Info enabled = %v, want %v", got, tt.wantInfo)
			}
			if got := handler.Enabled(ctx, slog.LevelWarn); got != tt.wantWarn {
				t.Errorf("Warn enabled = %v, want %v", got, tt.wantWarn)
			}
		})
	}
}

func TestGetLoggerBeforeInitialize(t *testing.T) {
	resetState()

	before := GetLogger("advanced")
	handler := before.Handler()
	if handler.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("logger created before Initialize should default to info")
	}

	Initialize(Config{Level: "info", Modules: map[string]string{"advanced": "debug"}})

	if GetLogger("advanced") != before {
		t.Error("logger should be cached across Initialize")
	}
	if !handler.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("cached logger should pick up the module level")
	}
}

func TestSetModuleLevel(t *testing.T) {
	resetState()
	Initialize(Config{Level: "info"})

	logger := GetLogger("settings")
	if !SetModuleLevel("settings", "error") {
		t.Fatal("SetModuleLevel rejected a valid level")
	}
	if logger.Handler().Enabled(context.Background(), slog.LevelWarn) {
		t.Error("warn should be disabled after raising the level to error")
	}
	if SetModuleLevel("settings", "verbose") {
		t.Error("unknown level accepted")
	}
}

func TestSetLevel(t *testing.T) {
	resetState()
	Initialize(Config{Level: "info", Modules: map[string]string{"api": "debug"}})

	follower := GetLogger("controller")
	own := GetLogger("api")
	if !SetLevel("error") {
		t.Fatal("SetLevel rejected a valid level")
	}
	if follower.Handler().Enabled(context.Background(), slog.LevelWarn) {
		t.Error("module without its own level should follow the global level")
	}
	if !own.Handler().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("module with its own level should keep it")
	}
	if SetLevel("loud") {
		t.Error("unknown level accepted")
	}
}

func TestBufferCapturesEntries(t *testing.T) {
	resetState()
	Initialize(Config{Level: "debug", BufferSize: 3})

	var seen []LogEntry
	SetLogCallback(func(e LogEntry) { seen = append(seen, e) })

	logger := GetLogger("presets")
	logger.Info("Applied preset", "preset", "Fast 1080p30")
	logger.WithGroup("task").Warn("Builder failed", "error", errors.New("bad level"))

	entries := GetBuffer().ReadAll()
	if len(entries) != 2 || len(seen) != 2 {
		t.Fatalf("got %d buffered and %d callbacks, want 2 each", len(entries), len(seen))
	}
	if entries[0].Module != "presets" || entries[0].Attributes["preset"] != "Fast 1080p30" {
		t.Errorf("unexpected first entry %+v", entries[0])
	}
	if entries[1].Level != "warn" || entries[1].Module != "presets" || entries[1].Attributes["task.error"] != "bad level" {
		t.Errorf("unexpected second entry %+v", entries[1])
	}
}

func TestRingBufferTail(t *testing.T) {
	rb := NewRingBuffer(3)
	if rb.ReadAll() != nil {
		t.Error("empty buffer should read nil")
	}

	for _, msg := range []string{"a", "b", "c", "d"} {
		rb.Write(LogEntry{Message: msg, Timestamp: time.Now()})
	}

	messages := func(entries []LogEntry) string {
		var sb strings.Builder
		for _, e := range entries {
			sb.WriteString(e.Message)
		}
		return sb.String()
	}

	if got := messages(rb.ReadAll()); got != "bcd" {
		t.Errorf("ReadAll = %q, want bcd", got)
	}
	if got := messages(rb.Tail(2)); got != "cd" {
		t.Errorf("Tail(2) = %q, want cd", got)
	}
	if got := messages(rb.Tail(10)); got != "bcd" {
		t.Errorf("Tail(10) = %q, want bcd", got)
	}
	if rb.Count() != 3 {
		t.Errorf("Count = %d, want 3", rb.Count())
	}
}

func TestMultiHandlerDebugOutput(t *testing.T) {
	var buf bytes.Buffer
	debugHandler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	infoHandler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})

	logger := slog.New(NewMultiHandler(debugHandler, infoHandler)).With("module", "controller")
	logger.Debug("debug only message")

	if count := strings.Count(buf.String(), "debug only message"); count != 1 {
		t.Errorf("expected 1 debug message, got %d: %s", count, buf.String())
	}
}

type failingHandler struct{ err error }

func (f failingHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (f failingHandler) Handle(context.Context, slog.Record) error { return f.err }
func (f failingHandler) WithAttrs([]slog.Attr) slog.Handler        { return f }
func (f failingHandler) WithGroup(string) slog.Handler             { return f }

func TestMultiHandlerJoinsSinkErrors(t *testing.T) {
	errA := errors.New("sink a")
	errB := errors.New("sink b")
	h := NewMultiHandler(failingHandler{errA}, nil, failingHandler{errB})

	err := h.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "msg", 0))
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("Handle() = %v, want both sink errors", err)
	}
}

func TestMultiHandlerSingleSink(t *testing.T) {
	var buf bytes.Buffer
	inner := slog.NewTextHandler(&buf, nil)
	if got := NewMultiHandler(nil, inner); got != inner {
		t.Errorf("NewMultiHandler with one sink = %T, want the sink itself", got)
	}
}

func TestAddAttrToFields(t *testing.T) {
	fields := make(map[string]string)
	addAttrToFields(fields, slog.Int("slider", 116), nil)
	addAttrToFields(fields, slog.Float64("quality", 22.5), nil)
	addAttrToFields(fields, slog.Group("task", slog.String("encoder", "x264")), []string{"session"})

	want := map[string]string{
		"SLIDER":               "116",
		"QUALITY":              "22.5",
		"SESSION_TASK_ENCODER": "x264",
	}
	for k, v := range want {
		if fields[k] != v {
			t.Errorf("fields[%s] = %q, want %q", k, fields[k], v)
		}
	}
}

func TestParseLevelValues(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
		isNil bool
	}{
		{"debug", slog.LevelDebug, false},
		{"DEBUG", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"invalid", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := parseLevel(tt.input)
			switch {
			case tt.isNil && got != nil:
				t.Errorf("parseLevel(%q) = %v, want nil", tt.input, *got)
			case !tt.isNil && got == nil:
				t.Errorf("parseLevel(%q) = nil, want %v", tt.input, tt.want)
			case !tt.isNil && *got != tt.want:
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, *got, tt.want)
			}
		})
	}
}
