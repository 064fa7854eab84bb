package task

// Field identifies a piece of controller state that a setter changed.
type Field string

// Task fields
const (
	FieldEncoder         Field = "encoder"
	FieldRateControl     Field = "rate_control"
	FieldQuality         Field = "quality"
	FieldBitrate         Field = "bitrate"
	FieldFramerateMode   Field = "framerate_mode"
	FieldFramerate       Field = "framerate"
	FieldTwoPass         Field = "two_pass"
	FieldTurboFirstPass  Field = "turbo_first_pass"
	FieldX264Preset      Field = "x264_preset"
	FieldX264Tune        Field = "x264_tune"
	FieldFastDecode      Field = "fast_decode"
	FieldH264Profile     Field = "h264_profile"
	FieldH264Level       Field = "h264_level"
	FieldX265Preset      Field = "x265_preset"
	FieldX265Tune        Field = "x265_tune"
	FieldH265Profile     Field = "h265_profile"
	FieldQsvPreset       Field = "qsv_preset"
	FieldExtraArguments  Field = "extra_arguments"
	FieldAdvancedOptions Field = "advanced_options"
	FieldManualAdvanced  Field = "manual_advanced"
	FieldResolution      Field = "resolution"
)

// Derived controller state
const (
	FieldQualitySlider     Field = "quality_slider"
	FieldQualityBounds     Field = "quality_bounds"
	FieldLossless          Field = "lossless"
	FieldVisibility        Field = "visibility"
	FieldShowPeakFramerate Field = "show_peak_framerate"
	FieldAdvancedTab       Field = "advanced_tab"
)

// Diff returns the task fields that differ between a and b, in declaration order.
func Diff(a, b *EncodingTask) []Field {
	var changed []Field
	check := func(field Field, differs bool) {
		if differs {
			changed = append(changed, field)
		}
	}

	check(FieldEncoder, a.Encoder != b.Encoder)
	check(FieldRateControl, a.RateControl != b.RateControl)
	check(FieldQuality, !equalPtr(a.Quality, b.Quality))
	check(FieldBitrate, !equalPtr(a.Bitrate, b.Bitrate))
	check(FieldFramerateMode, a.Framerate.Current() != b.Framerate.Current())
	check(FieldFramerate, !equalPtr(a.Framerate.Target, b.Framerate.Target))
	check(FieldTwoPass, a.TwoPass != b.TwoPass)
	check(FieldTurboFirstPass, a.TurboFirstPass != b.TurboFirstPass)
	check(FieldX264Preset, a.X264Preset != b.X264Preset)
	check(FieldX264Tune, a.X264Tune != b.X264Tune)
	check(FieldFastDecode, a.FastDecode != b.FastDecode)
	check(FieldH264Profile, a.H264Profile != b.H264Profile)
	check(FieldH264Level, a.H264Level != b.H264Level)
	check(FieldX265Preset, a.X265Preset != b.X265Preset)
	check(FieldX265Tune, a.X265Tune != b.X265Tune)
	check(FieldH265Profile, a.H265Profile != b.H265Profile)
	check(FieldQsvPreset, a.QsvPreset != b.QsvPreset)
	check(FieldExtraArguments, a.ExtraArguments != b.ExtraArguments)
	check(FieldAdvancedOptions, a.AdvancedOptions != b.AdvancedOptions)
	check(FieldManualAdvanced, a.ManualAdvanced != b.ManualAdvanced)
	check(FieldResolution, !equalPtr(a.Width, b.Width) || !equalPtr(a.Height, b.Height))
	return changed
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
