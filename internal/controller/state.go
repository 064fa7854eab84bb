package controller

import (
	"slices"

	"github.com/smazurov/encodecfg/internal/task"
	"github.com/smazurov/encodecfg/internal/types"
)

// ChangeSet lists the fields a setter changed, task fields first and
// derived state after.
type ChangeSet []task.Field

// Has reports whether field changed.
func (c ChangeSet) Has(field task.Field) bool {
	return slices.Contains(c, field)
}

// Strings returns the field names.
func (c ChangeSet) Strings() []string {
	out := make([]string, len(c))
	for i, f := range c {
		out[i] = string(f)
	}
	return out
}

// Visibility reports which option groups apply to the active encoder.
type Visibility struct {
	ProfileLevel   bool `json:"profile_level" doc:"H.264 profile and level apply"`
	X264Options    bool `json:"x264_options" doc:"x264 preset, tune and fast decode apply"`
	X265Options    bool `json:"x265_options" doc:"x265 preset, tune and profile apply"`
	HardwarePreset bool `json:"hardware_preset" doc:"Hardware preset applies"`
}

func visibilityFor(enc types.Encoder) Visibility {
	return Visibility{
		ProfileLevel:   enc.SupportsProfileLevel(),
		X264Options:    enc.SupportsX264Options(),
		X265Options:    enc.SupportsX265Options(),
		HardwarePreset: enc.SupportsHardwarePreset(),
	}
}

// State is a consistent snapshot of the controller.
type State struct {
	Task              *task.EncodingTask `json:"task"`
	Slider            int                `json:"quality_slider" doc:"Normalized quality slider position"`
	QualityMin        int                `json:"quality_min" doc:"Lowest slider position for the encoder"`
	QualityMax        int                `json:"quality_max" doc:"Highest slider position for the encoder"`
	QualityStep       float64            `json:"quality_step" doc:"Rate factor granularity for x264 and x265"`
	Lossless          bool               `json:"lossless" doc:"Current quality is lossless"`
	Visibility        Visibility         `json:"visibility"`
	ShowPeakFramerate bool               `json:"show_peak_framerate" doc:"An explicit target framerate is set"`
	AdvancedTab       bool               `json:"advanced_tab" doc:"Manual advanced options may be edited"`
}

// derived is the controller state computed from the task and settings.
type derived struct {
	slider      int
	min, max    int
	lossless    bool
	visibility  Visibility
	showPeak    bool
	advancedTab bool
}

func (d derived) diff(o derived) []task.Field {
	var changed []task.Field
	if d.slider != o.slider {
		changed = append(changed, task.FieldQualitySlider)
	}
	if d.min != o.min || d.max != o.max {
		changed = append(changed, task.FieldQualityBounds)
	}
	if d.lossless != o.lossless {
		changed = append(changed, task.FieldLossless)
	}
	if d.visibility != o.visibility {
		changed = append(changed, task.FieldVisibility)
	}
	if d.showPeak != o.showPeak {
		changed = append(changed, task.FieldShowPeakFramerate)
	}
	if d.advancedTab != o.advancedTab {
		changed = append(changed, task.FieldAdvancedTab)
	}
	return changed
}
