package task

import "github.com/smazurov/encodecfg/internal/types"

// HostCapabilities describes what the machine running the encode supports.
type HostCapabilities struct {
	// NewerHardwareGeneration is set when the hardware encoder supports the
	// Quality preset.
	NewerHardwareGeneration bool `toml:"newer_generation" json:"newer_generation"`
}

// DefaultHardwarePreset returns the hardware preset to use when none applies.
func (c HostCapabilities) DefaultHardwarePreset() types.HardwarePreset {
	if c.NewerHardwareGeneration {
		return types.HardwarePresetQuality
	}
	return types.HardwarePresetBalanced
}

// ApplyFamilyDefaults sets every codec-specific field to its family default.
func ApplyFamilyDefaults(t *EncodingTask, caps HostCapabilities) {
	t.X264Preset = types.DefaultX264Preset
	t.X264Tune = types.TuneNone
	t.FastDecode = false
	t.H264Profile = types.ProfileNone
	t.H264Level = types.LevelAuto
	t.X265Preset = types.DefaultX265Preset
	t.X265Tune = types.TuneNone
	t.H265Profile = types.ProfileNone
	t.QsvPreset = caps.DefaultHardwarePreset()
}

// ResetInapplicable resets the codec-specific fields that do not apply to
// the task's encoder to their family defaults, so a previous encoder's
// tuning never carries over. Returns the fields that changed.
func ResetInapplicable(t *EncodingTask, caps HostCapabilities) []Field {
	var changed []Field
	set := func(field Field, differs bool, reset func()) {
		if differs {
			reset()
			changed = append(changed, field)
		}
	}

	enc := t.Encoder
	if !enc.SupportsProfileLevel() {
		set(FieldH264Profile, t.H264Profile != types.ProfileNone, func() { t.H264Profile = types.ProfileNone })
		set(FieldH264Level, t.H264Level != types.LevelAuto, func() { t.H264Level = types.LevelAuto })
	}
	if !enc.SupportsX264Options() {
		set(FieldX264Tune, t.X264Tune != types.TuneNone, func() { t.X264Tune = types.TuneNone })
		set(FieldFastDecode, t.FastDecode, func() { t.FastDecode = false })
		set(FieldX264Preset, t.X264Preset != types.DefaultX264Preset, func() { t.X264Preset = types.DefaultX264Preset })
	}
	if !enc.SupportsX265Options() {
		set(FieldX265Preset, t.X265Preset != types.DefaultX265Preset, func() { t.X265Preset = types.DefaultX265Preset })
		set(FieldX265Tune, t.X265Tune != types.TuneNone, func() { t.X265Tune = types.TuneNone })
		set(FieldH265Profile, t.H265Profile != types.ProfileNone, func() { t.H265Profile = types.ProfileNone })
	}
	if !enc.SupportsHardwarePreset() {
		def := caps.DefaultHardwarePreset()
		set(FieldQsvPreset, t.QsvPreset != def, func() { t.QsvPreset = def })
	}
	return changed
}

// ResetInvalid resets codec fields holding values outside their
// vocabularies to the family defaults. The Quality hardware preset counts as
// invalid on older hardware. Returns the fields that changed.
func ResetInvalid(t *EncodingTask, caps HostCapabilities) []Field {
	var changed []Field
	reset := func(field Field, invalid bool, apply func()) {
		if invalid {
			apply()
			changed = append(changed, field)
		}
	}

	reset(FieldX264Preset, types.X264PresetName(t.X264Preset) == "", func() { t.X264Preset = types.DefaultX264Preset })
	reset(FieldX264Tune, !types.IsX264Tune(t.X264Tune), func() { t.X264Tune = types.TuneNone })
	reset(FieldH264Profile, !types.IsH264Profile(t.H264Profile), func() { t.H264Profile = types.ProfileNone })
	reset(FieldH264Level, !types.IsH264Level(t.H264Level), func() { t.H264Level = types.LevelAuto })
	reset(FieldX265Preset, types.X265PresetName(t.X265Preset) == "", func() { t.X265Preset = types.DefaultX265Preset })
	reset(FieldX265Tune, !types.IsX265Tune(t.X265Tune), func() { t.X265Tune = types.TuneNone })
	reset(FieldH265Profile, !types.IsH265Profile(t.H265Profile), func() { t.H265Profile = types.ProfileNone })

	qsvInvalid := !types.IsHardwarePreset(t.QsvPreset) ||
		(t.QsvPreset == types.HardwarePresetQuality && !caps.NewerHardwareGeneration)
	reset(FieldQsvPreset, qsvInvalid, func() { t.QsvPreset = caps.DefaultHardwarePreset() })
	return changed
}
