// Package presets stores named encoding presets and applies them to a task.
package presets

import (
	"log/slog"
	"strings"

	"github.com/smazurov/encodecfg/internal/advanced"
	"github.com/smazurov/encodecfg/internal/encoders"
	"github.com/smazurov/encodecfg/internal/framerate"
	"github.com/smazurov/encodecfg/internal/logging"
	"github.com/smazurov/encodecfg/internal/metrics"
	"github.com/smazurov/encodecfg/internal/task"
	"github.com/smazurov/encodecfg/internal/types"
)

// Applicator copies a preset's intent onto a task.
type Applicator struct {
	Step               float64
	Caps               task.HostCapabilities
	Sync               *advanced.Synchronizer
	AdvancedTabEnabled bool

	logger *slog.Logger
}

// Result is the outcome of a preset application.
type Result struct {
	Task              *task.EncodingTask
	Slider            int
	ShowPeakFramerate bool
}

// NewApplicator creates an applicator.
func NewApplicator(step float64, caps task.HostCapabilities, sync *advanced.Synchronizer, advancedTabEnabled bool) *Applicator {
	return &Applicator{
		Step:               step,
		Caps:               caps,
		Sync:               sync,
		AdvancedTabEnabled: advancedTabEnabled,
		logger:             logging.GetLogger("presets"),
	}
}

// Apply returns a copy of current with the preset applied. It returns false,
// leaving current untouched, when the preset carries no task intent.
// current itself is never modified.
func (a *Applicator) Apply(current *task.EncodingTask, p *task.Preset) (Result, bool) {
	if p == nil || p.Task == nil || !p.Task.Encoder.IsValid() {
		if p != nil {
			a.log().Debug("Preset has no task intent, skipping", "preset", p.Name)
		}
		metrics.RecordPresetApplication(false)
		return Result{}, false
	}

	src := p.Task
	t := current.Clone()
	step := encoders.NormalizeStep(a.Step)
	prevSlider := a.currentSlider(current, step)

	// Encoder
	enc := src.Encoder
	t.Encoder = enc

	// Framerate
	t.Framerate = framerate.State{Mode: src.Framerate.Current()}
	showPeak := src.Framerate.Target != nil
	if showPeak {
		rate := *src.Framerate.Target
		t.Framerate.Target = &rate
	} else if t.Framerate.IsPeak() {
		t.Framerate.Mode = types.FramerateVariable
	}

	// Rate control
	t.RateControl = src.RateControl
	if t.RateControl == "" {
		t.RateControl = types.RateControlConstantQuality
	}

	// Quality, against the new encoder's bounds
	slider := encoders.Clamp(enc, prevSlider, step)
	if src.Quality != nil {
		slider = encoders.ToSlider(enc, *src.Quality, step)
	}
	q := encoders.ToNative(enc, slider, step)
	t.Quality = &q

	t.TwoPass = src.TwoPass
	t.TurboFirstPass = src.TurboFirstPass
	t.Bitrate = nil
	if src.Bitrate != nil {
		b := *src.Bitrate
		t.Bitrate = &b
	}
	t.EnforceRateControl()

	a.applyFamilyFields(t, src)

	t.ExtraArguments = src.ExtraArguments

	if enc.IsHardware() {
		t.Framerate.ForceConstant()
		showPeak = false
	}

	// Manual advanced text only survives where the advanced tab may be shown.
	t.ManualAdvanced = false
	t.AdvancedOptions = ""
	if strings.TrimSpace(src.AdvancedOptions) != "" && src.ManualAdvanced && a.advancedTabPermitted(enc) {
		t.ManualAdvanced = true
		t.AdvancedOptions = src.AdvancedOptions
	} else if a.Sync != nil {
		a.Sync.Refresh(t)
	}

	a.log().Info("Applied preset", "preset", p.Name, "encoder", enc, "slider", slider, "manual_advanced", t.ManualAdvanced)
	metrics.RecordPresetApplication(true)

	return Result{Task: t, Slider: slider, ShowPeakFramerate: showPeak}, true
}

// applyFamilyFields copies the codec fields that apply to t's encoder and
// resets the rest, and any value the encoder would reject, to family defaults.
func (a *Applicator) applyFamilyFields(t, src *task.EncodingTask) {
	enc := t.Encoder
	task.ApplyFamilyDefaults(t, a.Caps)
	if enc.SupportsProfileLevel() {
		t.H264Profile = src.H264Profile
		t.H264Level = src.H264Level
	}
	if enc.SupportsX264Options() {
		t.X264Preset = src.X264Preset
		t.X264Tune = src.X264Tune
		t.FastDecode = src.FastDecode
	}
	if enc.SupportsX265Options() {
		t.X265Preset = src.X265Preset
		t.X265Tune = src.X265Tune
		t.H265Profile = src.H265Profile
	}
	if enc.SupportsHardwarePreset() {
		t.QsvPreset = src.QsvPreset
	}
	task.ResetInvalid(t, a.Caps)
}

func (a *Applicator) log() *slog.Logger {
	if a.logger == nil {
		a.logger = logging.GetLogger("presets")
	}
	return a.logger
}

func (a *Applicator) advancedTabPermitted(enc types.Encoder) bool {
	return a.AdvancedTabEnabled && !enc.IsHardware()
}

func (a *Applicator) currentSlider(t *task.EncodingTask, step float64) int {
	if t.Quality == nil {
		lo, _ := encoders.Bounds(t.Encoder, step)
		return lo
	}
	return encoders.ToSlider(t.Encoder, *t.Quality, step)
}
