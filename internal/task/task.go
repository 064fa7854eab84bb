// Package task defines the encoding task under edit and the preset template
// that carries the same shape.
package task

import (
	"github.com/smazurov/encodecfg/internal/encoders"
	"github.com/smazurov/encodecfg/internal/framerate"
	"github.com/smazurov/encodecfg/internal/types"
)

const (
	// DefaultWidth and DefaultHeight stand in for the source resolution until
	// source analysis has produced one.
	DefaultWidth  = 720
	DefaultHeight = 576
)

// DefaultQualitySlider is the x264 slider position for CRF 22 at the default step.
const DefaultQualitySlider = 116

// EncodingTask is the video encoding configuration of one transcode job.
type EncodingTask struct {
	Encoder        types.Encoder         `toml:"encoder,omitempty" json:"encoder"`
	RateControl    types.RateControlMode `toml:"rate_control,omitempty" json:"rate_control"`
	Quality        *float64              `toml:"quality,omitempty" json:"quality,omitempty"` // Native quality of Encoder
	Bitrate        *int                  `toml:"bitrate,omitempty" json:"bitrate,omitempty"` // kbps
	Framerate      framerate.State       `toml:"framerate" json:"framerate"`
	TwoPass        bool                  `toml:"two_pass" json:"two_pass"`
	TurboFirstPass bool                  `toml:"turbo_first_pass" json:"turbo_first_pass"`

	// x264 options
	X264Preset int        `toml:"x264_preset" json:"x264_preset"`
	X264Tune   types.Tune `toml:"x264_tune" json:"x264_tune"`
	FastDecode bool       `toml:"fast_decode" json:"fast_decode"`

	// H.264 options shared by x264 and the hardware encoder
	H264Profile types.Profile `toml:"h264_profile" json:"h264_profile"`
	H264Level   string        `toml:"h264_level" json:"h264_level"`

	// x265 options
	X265Preset  int           `toml:"x265_preset" json:"x265_preset"`
	X265Tune    types.Tune    `toml:"x265_tune" json:"x265_tune"`
	H265Profile types.Profile `toml:"h265_profile" json:"h265_profile"`

	QsvPreset types.HardwarePreset `toml:"qsv_preset" json:"qsv_preset"`

	// ExtraArguments are free-form encoder options appended to the derived ones.
	ExtraArguments string `toml:"extra_arguments,omitempty" json:"extra_arguments,omitempty"`
	// AdvancedOptions is derived from the structured fields unless ManualAdvanced is set.
	AdvancedOptions string `toml:"advanced_options,omitempty" json:"advanced_options,omitempty"`
	ManualAdvanced  bool   `toml:"manual_advanced" json:"manual_advanced"`

	// Source dimensions from upstream analysis
	Width  *int `toml:"width,omitempty" json:"width,omitempty"`
	Height *int `toml:"height,omitempty" json:"height,omitempty"`
}

// New returns a task with x264 constant quality defaults.
func New(caps HostCapabilities) *EncodingTask {
	q := encoders.ToNative(types.EncoderX264, DefaultQualitySlider, encoders.DefaultQualityStep)
	t := &EncodingTask{
		Encoder:     types.EncoderX264,
		RateControl: types.RateControlConstantQuality,
		Quality:     &q,
		Framerate:   framerate.State{Mode: types.FramerateVariable},
	}
	ApplyFamilyDefaults(t, caps)
	return t
}

// Resolution returns the source dimensions, falling back to 720x576.
func (t *EncodingTask) Resolution() (int, int) {
	w, h := DefaultWidth, DefaultHeight
	if t.Width != nil && *t.Width > 0 {
		w = *t.Width
	}
	if t.Height != nil && *t.Height > 0 {
		h = *t.Height
	}
	return w, h
}

// IsConstantQuality reports whether the task targets a constant quality.
func (t *EncodingTask) IsConstantQuality() bool {
	return t.RateControl == types.RateControlConstantQuality
}

// EnforceRateControl clears the fields that constant quality excludes.
// Returns true when anything changed.
func (t *EncodingTask) EnforceRateControl() bool {
	changed := false
	if t.IsConstantQuality() {
		if t.Bitrate != nil {
			t.Bitrate = nil
			changed = true
		}
		if t.TwoPass {
			t.TwoPass = false
			changed = true
		}
	}
	if t.TurboFirstPass && !t.TwoPass {
		t.TurboFirstPass = false
		changed = true
	}
	return changed
}

// Clone returns a deep copy of t.
func (t *EncodingTask) Clone() *EncodingTask {
	if t == nil {
		return nil
	}
	c := *t
	c.Quality = copyPtr(t.Quality)
	c.Bitrate = copyPtr(t.Bitrate)
	c.Width = copyPtr(t.Width)
	c.Height = copyPtr(t.Height)
	c.Framerate = t.Framerate.Clone()
	return &c
}

// Preset is a named, stored template of encoding intent.
type Preset struct {
	Name        string        `toml:"name" json:"name"`
	Category    string        `toml:"category,omitempty" json:"category,omitempty"`
	Description string        `toml:"description,omitempty" json:"description,omitempty"`
	Task        *EncodingTask `toml:"task,omitempty" json:"task,omitempty"` // nil when the preset carries no intent
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
