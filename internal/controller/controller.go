// Package controller edits one encoding task and keeps
// its interdependent fields consistent.
//
// Every setter finishes its whole cascade (bounds, dependent resets,
// advanced options refresh, notification) before returning, and reports
// what changed as a ChangeSet. A Controller is not safe for concurrent use.
package controller

import (
	"log/slog"
	"time"

	"github.com/smazurov/encodecfg/internal/advanced"
	"github.com/smazurov/encodecfg/internal/encoders"
	"github.com/smazurov/encodecfg/internal/events"
	"github.com/smazurov/encodecfg/internal/logging"
	"github.com/smazurov/encodecfg/internal/metrics"
	"github.com/smazurov/encodecfg/internal/presets"
	"github.com/smazurov/encodecfg/internal/settings"
	"github.com/smazurov/encodecfg/internal/task"
	"github.com/smazurov/encodecfg/internal/types"
)

// Settings looks up user settings.
type Settings interface {
	Float(key string, def float64) float64
	Bool(key string, def bool) bool
}

// Notifier receives change events once a cascade has completed.
type Notifier interface {
	Publish(ev events.Event)
}

// Options configures a Controller.
type Options struct {
	SessionID string
	Settings  Settings
	Builder   advanced.OptionBuilder
	Caps      task.HostCapabilities
	Notifier  Notifier
	// OnResetAdvanced is called when a structured change discards
	// externally cached advanced option edits.
	OnResetAdvanced func()
}

// Controller owns one encoding task.
type Controller struct {
	sessionID string
	task      *task.EncodingTask
	slider    int
	showPeak  bool

	step               float64
	advancedTabEnabled bool

	settings Settings
	caps     task.HostCapabilities
	sync     *advanced.Synchronizer
	notifier Notifier
	logger   *slog.Logger
}

// New creates a controller holding the default task.
func New(opts Options) *Controller {
	c := &Controller{
		sessionID: opts.SessionID,
		settings:  opts.Settings,
		caps:      opts.Caps,
		sync:      advanced.NewSynchronizer(opts.Builder),
		notifier:  opts.Notifier,
		logger:    logging.GetLogger("controller"),
	}
	if opts.OnResetAdvanced != nil {
		c.sync.OnReset(opts.OnResetAdvanced)
	}
	c.readSettings()

	c.task = task.New(c.caps)
	c.slider = encoders.Clamp(c.task.Encoder, task.DefaultQualitySlider, c.step)
	c.setQualityFromSlider()
	c.sync.Refresh(c.task)
	return c
}

// Task returns a copy of the task.
func (c *Controller) Task() *task.EncodingTask {
	return c.task.Clone()
}

// State returns a snapshot of the task and its derived state.
func (c *Controller) State() State {
	d := c.derived()
	return State{
		Task:              c.task.Clone(),
		Slider:            d.slider,
		QualityMin:        d.min,
		QualityMax:        d.max,
		QualityStep:       c.step,
		Lossless:          d.lossless,
		Visibility:        d.visibility,
		ShowPeakFramerate: d.showPeak,
		AdvancedTab:       d.advancedTab,
	}
}

// LoadTask replaces the task wholesale, e.g. when a new source is opened.
// Values no setter would accept are reset to their defaults, then the
// encoder rules are applied as for SetEncoder.
func (c *Controller) LoadTask(t *task.EncodingTask) ChangeSet {
	if t == nil {
		return nil
	}
	before := c.begin()

	next := t.Clone()
	if !next.Encoder.IsValid() {
		next.Encoder = types.EncoderX264
	}
	if _, err := types.ParseRateControlMode(string(next.RateControl)); err != nil {
		next.RateControl = types.RateControlConstantQuality
	}
	if _, err := types.ParseFramerateMode(string(next.Framerate.Current())); err != nil {
		next.Framerate.Mode = types.FramerateVariable
	}
	if next.Framerate.Target != nil && *next.Framerate.Target <= 0 {
		next.Framerate.SetTarget(nil)
	}
	if next.Bitrate != nil && *next.Bitrate <= 0 {
		next.Bitrate = nil
	}
	if fixed := task.ResetInvalid(next, c.caps); len(fixed) > 0 {
		c.logger.Debug("Reset invalid codec fields on load", "session", c.sessionID, "fields", fixed)
	}
	c.task = next

	if next.Quality != nil {
		c.slider = encoders.ToSlider(next.Encoder, *next.Quality, c.step)
	} else {
		c.slider = encoders.Clamp(next.Encoder, task.DefaultQualitySlider, c.step)
	}
	c.setQualityFromSlider()
	next.EnforceRateControl()
	task.ResetInapplicable(next, c.caps)
	if next.Encoder.IsHardware() {
		c.enforceHardware()
	}
	c.showPeak = next.Framerate.Target != nil
	c.sync.Refresh(next)

	return c.commit(before)
}

// SetEncoder switches the encoder and cascades bounds, quality, codec field
// defaults, hardware restrictions and the advanced options.
func (c *Controller) SetEncoder(enc types.Encoder) ChangeSet {
	if !enc.IsValid() || enc == c.task.Encoder {
		return nil
	}
	before := c.begin()

	c.task.Encoder = enc
	c.slider = encoders.Clamp(enc, c.slider, c.step)
	c.setQualityFromSlider()

	task.ResetInapplicable(c.task, c.caps)

	if enc.IsHardware() {
		c.enforceHardware()
	}

	c.sync.FieldChanged(c.task, advanced.Effects{})

	metrics.RecordEncoderSwitch(enc.String())
	c.logger.Debug("Encoder switched", "session", c.sessionID, "from", before.task.Encoder, "to", enc, "slider", c.slider)
	return c.commit(before)
}

// SetQualitySlider moves the quality slider, clamped to the encoder's bounds.
func (c *Controller) SetQualitySlider(v int) ChangeSet {
	before := c.begin()
	c.slider = encoders.Clamp(c.task.Encoder, v, c.step)
	c.setQualityFromSlider()
	return c.commit(before)
}

// SetNativeQuality sets the quality in the encoder's own units, snapped to
// the nearest slider position.
func (c *Controller) SetNativeQuality(q float64) ChangeSet {
	before := c.begin()
	c.slider = encoders.ToSlider(c.task.Encoder, q, c.step)
	c.setQualityFromSlider()
	return c.commit(before)
}

// SetRateControl switches between constant quality and average bitrate.
func (c *Controller) SetRateControl(mode types.RateControlMode) ChangeSet {
	if _, err := types.ParseRateControlMode(string(mode)); err != nil || mode == c.task.RateControl {
		return nil
	}
	before := c.begin()

	c.task.RateControl = mode
	if c.task.IsConstantQuality() {
		c.task.EnforceRateControl()
		if c.task.Quality == nil {
			c.setQualityFromSlider()
		}
	}
	return c.commit(before)
}

// SetBitrate sets the average bitrate in kbps. Ignored under constant quality.
func (c *Controller) SetBitrate(kbps *int) ChangeSet {
	if c.task.IsConstantQuality() || (kbps != nil && *kbps <= 0) {
		return nil
	}
	before := c.begin()
	c.task.Bitrate = nil
	if kbps != nil {
		v := *kbps
		c.task.Bitrate = &v
	}
	return c.commit(before)
}

// SetTwoPass enables two-pass encoding. Ignored under constant quality.
// Disabling it also disables the turbo first pass.
func (c *Controller) SetTwoPass(on bool) ChangeSet {
	if c.task.IsConstantQuality() {
		return nil
	}
	before := c.begin()
	c.task.TwoPass = on
	c.task.EnforceRateControl()
	return c.commit(before)
}

// SetTurboFirstPass enables a faster first pass. Requires two-pass.
func (c *Controller) SetTurboFirstPass(on bool) ChangeSet {
	if on && !c.task.TwoPass {
		return nil
	}
	before := c.begin()
	c.task.TurboFirstPass = on
	return c.commit(before)
}

// SetFramerateMode enters mode when on is true. Turning a mode off is a
// no-op since some mode is always active. The hardware encoder only
// supports constant framerate.
func (c *Controller) SetFramerateMode(mode types.FramerateMode, on bool) ChangeSet {
	if on && c.task.Encoder.IsHardware() && mode != types.FramerateConstant {
		return nil
	}
	before := c.begin()
	c.task.Framerate.Set(mode, on)
	return c.commit(before)
}

// SetTargetFramerate sets the target rate; nil means same as source.
func (c *Controller) SetTargetFramerate(fps *float64) ChangeSet {
	if fps != nil && *fps <= 0 {
		return nil
	}
	before := c.begin()
	c.task.Framerate.SetTarget(fps)
	c.showPeak = c.task.Framerate.Target != nil
	return c.commit(before)
}

// SetX264Preset sets the x264 preset index.
func (c *Controller) SetX264Preset(i int) ChangeSet {
	if !c.task.Encoder.SupportsX264Options() || types.X264PresetName(i) == "" {
		return nil
	}
	return c.structured(func(t *task.EncodingTask) { t.X264Preset = i })
}

// SetX264Tune sets the x264 tune.
func (c *Controller) SetX264Tune(tune types.Tune) ChangeSet {
	if !c.task.Encoder.SupportsX264Options() || !types.IsX264Tune(tune) {
		return nil
	}
	return c.structured(func(t *task.EncodingTask) { t.X264Tune = tune })
}

// SetFastDecode toggles the x264 fast decode tune.
func (c *Controller) SetFastDecode(on bool) ChangeSet {
	if !c.task.Encoder.SupportsX264Options() {
		return nil
	}
	return c.structured(func(t *task.EncodingTask) { t.FastDecode = on })
}

// SetH264Profile sets the H.264 profile.
func (c *Controller) SetH264Profile(p types.Profile) ChangeSet {
	if !c.task.Encoder.SupportsProfileLevel() || !types.IsH264Profile(p) {
		return nil
	}
	return c.structured(func(t *task.EncodingTask) { t.H264Profile = p })
}

// SetH264Level sets the H.264 level.
func (c *Controller) SetH264Level(level string) ChangeSet {
	if !c.task.Encoder.SupportsProfileLevel() || !types.IsH264Level(level) {
		return nil
	}
	return c.structured(func(t *task.EncodingTask) { t.H264Level = level })
}

// SetX265Preset sets the x265 preset index.
func (c *Controller) SetX265Preset(i int) ChangeSet {
	if !c.task.Encoder.SupportsX265Options() || types.X265PresetName(i) == "" {
		return nil
	}
	return c.structured(func(t *task.EncodingTask) { t.X265Preset = i })
}

// SetX265Tune sets the x265 tune.
func (c *Controller) SetX265Tune(tune types.Tune) ChangeSet {
	if !c.task.Encoder.SupportsX265Options() || !types.IsX265Tune(tune) {
		return nil
	}
	return c.structured(func(t *task.EncodingTask) { t.X265Tune = tune })
}

// SetH265Profile sets the H.265 profile.
func (c *Controller) SetH265Profile(p types.Profile) ChangeSet {
	if !c.task.Encoder.SupportsX265Options() || !types.IsH265Profile(p) {
		return nil
	}
	return c.structured(func(t *task.EncodingTask) { t.H265Profile = p })
}

// SetQsvPreset sets the hardware preset. Quality needs the newer hardware
// generation.
func (c *Controller) SetQsvPreset(p types.HardwarePreset) ChangeSet {
	if !c.task.Encoder.SupportsHardwarePreset() || !types.IsHardwarePreset(p) {
		return nil
	}
	if p == types.HardwarePresetQuality && !c.caps.NewerHardwareGeneration {
		return nil
	}
	return c.structured(func(t *task.EncodingTask) { t.QsvPreset = p })
}

// SetExtraArguments sets the free-form options appended to derived ones.
func (c *Controller) SetExtraArguments(extra string) ChangeSet {
	return c.structured(func(t *task.EncodingTask) { t.ExtraArguments = extra })
}

// SetSourceResolution records the source dimensions from upstream analysis.
func (c *Controller) SetSourceResolution(width, height *int) ChangeSet {
	return c.structured(func(t *task.EncodingTask) {
		t.Width, t.Height = nil, nil
		if width != nil && *width > 0 {
			w := *width
			t.Width = &w
		}
		if height != nil && *height > 0 {
			h := *height
			t.Height = &h
		}
	})
}

// SetManualAdvanced toggles manual editing of the advanced options. Manual
// mode can only be entered while the advanced tab is shown.
func (c *Controller) SetManualAdvanced(on bool) ChangeSet {
	before := c.begin()
	if on {
		if !c.advancedTabPermitted() {
			return nil
		}
		c.sync.EnterManual(c.task)
	} else {
		c.sync.LeaveManual(c.task)
	}
	return c.commit(before)
}

// SetAdvancedOptions replaces the manual advanced text. Ignored unless
// manual mode is active.
func (c *Controller) SetAdvancedOptions(text string) ChangeSet {
	if !c.task.ManualAdvanced {
		return nil
	}
	before := c.begin()
	c.task.AdvancedOptions = text
	return c.commit(before)
}

// ClearAdvancedSettings resets the extra arguments, and for x264 the preset,
// tune, profile and level, then returns to derived advanced options without
// firing the reset callback.
func (c *Controller) ClearAdvancedSettings() ChangeSet {
	before := c.begin()

	if c.task.Encoder.IsX264() {
		c.task.X264Preset = types.DefaultX264Preset
		c.task.X264Tune = types.TuneNone
		c.task.FastDecode = false
		c.task.H264Profile = types.ProfileNone
		c.task.H264Level = types.LevelAuto
	}
	c.task.ExtraArguments = ""
	c.sync.LeaveManual(c.task)
	c.sync.FieldChanged(c.task, advanced.Effects{SuppressReset: true})

	return c.commit(before)
}

// ApplyPreset applies p to the task. It returns false when the preset
// carries no task intent, in which case nothing changes.
func (c *Controller) ApplyPreset(p *task.Preset) (ChangeSet, bool) {
	before := c.begin()

	a := presets.NewApplicator(c.step, c.caps, c.sync, c.advancedTabEnabled)
	res, ok := a.Apply(c.task, p)
	if p != nil {
		c.publish(events.PresetAppliedEvent{SessionID: c.sessionID, Preset: p.Name, Applied: ok})
	}
	if !ok {
		return nil, false
	}

	c.task = res.Task
	c.slider = res.Slider
	c.showPeak = res.ShowPeakFramerate

	return c.commit(before), true
}

// OnSettingChanged reacts to a user setting change. Only derived state is
// recomputed; the task itself is left alone.
func (c *Controller) OnSettingChanged(key string) ChangeSet {
	before := c.begin()

	switch key {
	case settings.KeyQualityStep:
		c.readSettings()
		if c.task.Quality != nil {
			c.slider = encoders.ToSlider(c.task.Encoder, *c.task.Quality, c.step)
		} else {
			c.slider = encoders.Clamp(c.task.Encoder, c.slider, c.step)
		}
	case settings.KeyShowAdvancedTab:
		c.readSettings()
	default:
		return nil
	}

	return c.commit(before)
}

func (c *Controller) readSettings() {
	c.step = encoders.DefaultQualityStep
	c.advancedTabEnabled = false
	if c.settings != nil {
		c.step = c.settings.Float(settings.KeyQualityStep, encoders.DefaultQualityStep)
		c.advancedTabEnabled = c.settings.Bool(settings.KeyShowAdvancedTab, false)
	}
	c.step = encoders.NormalizeStep(c.step)
}

func (c *Controller) advancedTabPermitted() bool {
	return c.advancedTabEnabled && !c.task.Encoder.IsHardware()
}

// enforceHardware applies the hardware encoder's restrictions.
func (c *Controller) enforceHardware() {
	c.sync.LeaveManual(c.task)
	c.task.Framerate.ForceConstant()
	c.showPeak = false
}

func (c *Controller) setQualityFromSlider() {
	q := encoders.ToNative(c.task.Encoder, c.slider, c.step)
	c.task.Quality = &q
}

// structured applies a change to a field feeding the advanced options and
// refreshes them, firing the reset callback when the value actually changed.
func (c *Controller) structured(apply func(t *task.EncodingTask)) ChangeSet {
	before := c.begin()
	apply(c.task)
	if len(task.Diff(before.task, c.task)) > 0 {
		c.sync.FieldChanged(c.task, advanced.Effects{})
	}
	return c.commit(before)
}

type snapshot struct {
	task    *task.EncodingTask
	derived derived
}

func (c *Controller) begin() snapshot {
	return snapshot{task: c.task.Clone(), derived: c.derived()}
}

// commit computes the change set against before and notifies.
func (c *Controller) commit(before snapshot) ChangeSet {
	cs := ChangeSet(task.Diff(before.task, c.task))
	cs = append(cs, before.derived.diff(c.derived())...)
	if len(cs) > 0 {
		c.publish(events.TaskChangedEvent{SessionID: c.sessionID, Fields: cs.Strings()})
	}
	return cs
}

func (c *Controller) derived() derived {
	lo, hi := encoders.Bounds(c.task.Encoder, c.step)
	lossless := c.task.Quality != nil && encoders.IsLossless(c.task.Encoder, *c.task.Quality)
	return derived{
		slider:      c.slider,
		min:         lo,
		max:         hi,
		lossless:    lossless,
		visibility:  visibilityFor(c.task.Encoder),
		showPeak:    c.showPeak,
		advancedTab: c.advancedTabPermitted(),
	}
}

func (c *Controller) publish(ev events.Event) {
	if c.notifier == nil {
		return
	}
	switch e := ev.(type) {
	case events.TaskChangedEvent:
		e.Timestamp = time.Now().Format(time.RFC3339)
		c.notifier.Publish(e)
	case events.PresetAppliedEvent:
		e.Timestamp = time.Now().Format(time.RFC3339)
		c.notifier.Publish(e)
	}
}
