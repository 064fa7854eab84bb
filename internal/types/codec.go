package types

import (
	"slices"
	"strings"
)

// Tune optimizes encoding for a content type. Values are display names.
type Tune string

const (
	TuneNone        Tune = "None"
	TuneFilm        Tune = "Film"
	TuneAnimation   Tune = "Animation"
	TuneGrain       Tune = "Grain"
	TuneStillImage  Tune = "Still Image"
	TunePSNR        Tune = "PSNR"
	TuneSSIM        Tune = "SSIM"
	TuneZeroLatency Tune = "Zero Latency"
	TuneFastDecode  Tune = "Fast Decode"
)

// OptionName returns the encoder option spelling: lower case, spaces removed.
func (t Tune) OptionName() string {
	return strings.ReplaceAll(strings.ToLower(string(t)), " ", "")
}

// Profile is an H.264 or H.265 profile display name.
type Profile string

const (
	ProfileNone             Profile = "None"
	ProfileBaseline         Profile = "Baseline"
	ProfileMain             Profile = "Main"
	ProfileHigh             Profile = "High"
	ProfileMain10           Profile = "Main 10"
	ProfileMainStillPicture Profile = "Main Still Picture"
)

// OptionName returns the encoder option spelling of the profile.
func (p Profile) OptionName() string {
	return strings.ReplaceAll(strings.ToLower(string(p)), " ", "")
}

// HardwarePreset is the speed/quality tradeoff of the hardware encoder.
type HardwarePreset string

const (
	HardwarePresetSpeed    HardwarePreset = "Speed"
	HardwarePresetBalanced HardwarePreset = "Balanced"
	HardwarePresetQuality  HardwarePreset = "Quality"
)

// LevelAuto lets the encoder pick the level.
const LevelAuto = "Auto"

// X264Presets are the x264 speed presets, fastest first.
var X264Presets = []string{
	"Ultrafast", "Superfast", "Veryfast", "Faster", "Fast",
	"Medium", "Slow", "Slower", "Veryslow", "Placebo",
}

// X265Presets are the x265 speed presets, fastest first.
var X265Presets = []string{
	"Ultrafast", "Superfast", "Veryfast", "Faster", "Fast",
	"Medium", "Slow", "Slower", "Veryslow", "Placebo",
}

const (
	// DefaultX264Preset is the midpoint of the x264 preset slider ("Medium").
	DefaultX264Preset = 5
	// DefaultX265Preset is the index of "Fast".
	DefaultX265Preset = 4
)

// X264Tunes lists tunes accepted by x264. Fast decode is a separate flag.
var X264Tunes = []Tune{
	TuneNone, TuneFilm, TuneAnimation, TuneGrain,
	TuneStillImage, TunePSNR, TuneSSIM, TuneZeroLatency,
}

// X265Tunes lists tunes accepted by x265.
var X265Tunes = []Tune{
	TuneNone, TunePSNR, TuneSSIM, TuneGrain, TuneZeroLatency, TuneFastDecode,
}

// H264Profiles lists H.264 profiles.
var H264Profiles = []Profile{ProfileNone, ProfileBaseline, ProfileMain, ProfileHigh}

// H265Profiles lists H.265 profiles.
var H265Profiles = []Profile{ProfileNone, ProfileMain, ProfileMain10, ProfileMainStillPicture}

// H264Levels lists H.264 levels.
var H264Levels = []string{
	LevelAuto, "1.0", "1b", "1.1", "1.2", "1.3",
	"2.0", "2.1", "2.2", "3.0", "3.1", "3.2",
	"4.0", "4.1", "4.2", "5.0", "5.1", "5.2",
}

// HardwarePresets lists hardware presets.
var HardwarePresets = []HardwarePreset{HardwarePresetSpeed, HardwarePresetBalanced, HardwarePresetQuality}

// IsX264Tune reports whether t is a valid x264 tune.
func IsX264Tune(t Tune) bool { return slices.Contains(X264Tunes, t) }

// IsX265Tune reports whether t is a valid x265 tune.
func IsX265Tune(t Tune) bool { return slices.Contains(X265Tunes, t) }

// IsH264Profile reports whether p is a valid H.264 profile.
func IsH264Profile(p Profile) bool { return slices.Contains(H264Profiles, p) }

// IsH265Profile reports whether p is a valid H.265 profile.
func IsH265Profile(p Profile) bool { return slices.Contains(H265Profiles, p) }

// IsH264Level reports whether level is a valid H.264 level.
func IsH264Level(level string) bool { return slices.Contains(H264Levels, level) }

// IsHardwarePreset reports whether p is a valid hardware preset.
func IsHardwarePreset(p HardwarePreset) bool { return slices.Contains(HardwarePresets, p) }

// X264PresetName returns the name at index i, or "" when out of range.
func X264PresetName(i int) string {
	if i < 0 || i >= len(X264Presets) {
		return ""
	}
	return X264Presets[i]
}

// X265PresetName returns the name at index i, or "" when out of range.
func X265PresetName(i int) string {
	if i < 0 || i >= len(X265Presets) {
		return ""
	}
	return X265Presets[i]
}
