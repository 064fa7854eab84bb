// Package advanced keeps the advanced options string of an encoding task in
// sync with its structured fields.
//
// The string is in one of two states. In the derived state it is rebuilt
// from the structured fields by an OptionBuilder after every change. In the
// manual state it belongs to the user and is never rewritten.
package advanced

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/smazurov/encodecfg/internal/logging"
	"github.com/smazurov/encodecfg/internal/metrics"
	"github.com/smazurov/encodecfg/internal/task"
	"github.com/smazurov/encodecfg/internal/types"
)

// ErrorMarker replaces the derived options when the builder fails.
const ErrorMarker = "ERROR: unable to build encoder options"

// ErrBuilderUnavailable is returned by builders when derivation is switched
// off. Derive then yields "" rather than the error marker.
var ErrBuilderUnavailable = errors.New("option builder unavailable")

// OptionBuilder renders normalized x264 settings as an option string.
type OptionBuilder interface {
	Build(preset string, tunes []string, extraArgs, profile, level string, width, height int) (string, error)
}

// BuilderFunc adapts a function to OptionBuilder.
type BuilderFunc func(preset string, tunes []string, extraArgs, profile, level string, width, height int) (string, error)

// Build calls f.
func (f BuilderFunc) Build(preset string, tunes []string, extraArgs, profile, level string, width, height int) (string, error) {
	return f(preset, tunes, extraArgs, profile, level, width, height)
}

// Effects controls side effects of a change. Bulk updates such as preset
// application set SuppressReset.
type Effects struct {
	SuppressReset bool
}

// Synchronizer derives advanced option strings and runs the manual mode toggle.
type Synchronizer struct {
	builder OptionBuilder
	onReset func()
	logger  *slog.Logger
}

// NewSynchronizer creates a synchronizer. A nil builder disables derivation.
func NewSynchronizer(builder OptionBuilder) *Synchronizer {
	return &Synchronizer{
		builder: builder,
		logger:  logging.GetLogger("advanced"),
	}
}

// OnReset registers the callback fired when a structured change discards
// externally cached advanced edits.
func (s *Synchronizer) OnReset(fn func()) {
	s.onReset = fn
}

// Derive returns the canonical option string for t. Only x264 derives
// options; every other encoder yields "".
func (s *Synchronizer) Derive(t *task.EncodingTask) string {
	if !t.Encoder.IsX264() || s.builder == nil {
		return ""
	}

	preset := types.X264PresetName(t.X264Preset)
	if preset == "" {
		preset = types.X264PresetName(types.DefaultX264Preset)
	}
	preset = strings.ReplaceAll(strings.ToLower(preset), " ", "")

	var tunes []string
	if t.X264Tune != "" && t.X264Tune != types.TuneNone {
		tunes = append(tunes, t.X264Tune.OptionName())
	}
	if t.FastDecode {
		tunes = append(tunes, types.TuneFastDecode.OptionName())
	}

	width, height := t.Resolution()
	out, err := s.builder.Build(preset, tunes, t.ExtraArguments, t.H264Profile.OptionName(), t.H264Level, width, height)
	if errors.Is(err, ErrBuilderUnavailable) {
		return ""
	}
	if err != nil {
		s.logger.Warn("Failed to build advanced options", "error", err, "preset", preset, "level", t.H264Level)
		metrics.RecordBuilderFailure()
		return ErrorMarker
	}
	return out
}

// Refresh re-derives the option string unless t is in manual mode.
// Returns true when the string changed.
func (s *Synchronizer) Refresh(t *task.EncodingTask) bool {
	if t.ManualAdvanced {
		return false
	}
	derived := s.Derive(t)
	if derived == t.AdvancedOptions {
		return false
	}
	t.AdvancedOptions = derived
	return true
}

// FieldChanged handles a change to a structured field that feeds the
// derivation: it fires the reset callback unless suppressed, then refreshes.
func (s *Synchronizer) FieldChanged(t *task.EncodingTask, eff Effects) bool {
	if t.ManualAdvanced {
		return false
	}
	if !eff.SuppressReset && s.onReset != nil {
		s.onReset()
	}
	return s.Refresh(t)
}

// EnterManual switches t to manual mode, seeding the text with the
// current derived string.
func (s *Synchronizer) EnterManual(t *task.EncodingTask) bool {
	if t.ManualAdvanced {
		return false
	}
	t.AdvancedOptions = s.Derive(t)
	t.ManualAdvanced = true
	s.logger.Debug("Entered manual advanced mode", "encoder", t.Encoder)
	return true
}

// LeaveManual switches t back to derived mode. The text is cleared and is
// rebuilt by the next structured change.
func (s *Synchronizer) LeaveManual(t *task.EncodingTask) bool {
	if !t.ManualAdvanced {
		return false
	}
	t.ManualAdvanced = false
	t.AdvancedOptions = ""
	s.logger.Debug("Left manual advanced mode", "encoder", t.Encoder)
	return true
}
