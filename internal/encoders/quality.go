package encoders

import (
	"math"

	"github.com/smazurov/encodecfg/internal/types"
)

// DefaultQualityStep is the slider granularity for the x264/x265 rate factor
// when the user has not configured one.
const DefaultQualityStep = 0.25

// maxRateFactor is the upper end of the x264/x265 CRF and hardware QP scale.
const maxRateFactor = 51

// qualityScale maps a slider position to and from one encoder family's
// native quality metric. Slider positions grow toward higher quality.
type qualityScale struct {
	bounds   func(step float64) (int, int)
	toNative func(v int, step float64) float64
	toSlider func(native float64, step float64) int
}

var (
	// Quantizer 1-31, lower is better.
	legacyScale = qualityScale{
		bounds:   fixedBounds(1, 31),
		toNative: func(v int, _ float64) float64 { return float64(32 - v) },
		toSlider: func(q float64, _ float64) int { return 32 - roundInt(q) },
	}

	// libvpx quantizer 0-63, lower is better.
	vp8Scale = qualityScale{
		bounds:   fixedBounds(0, 63),
		toNative: func(v int, _ float64) float64 { return float64(63 - v) },
		toSlider: func(q float64, _ float64) int { return 63 - roundInt(q) },
	}

	// Fractional rate factor 0-51 in user-configurable steps.
	rateFactorScale = qualityScale{
		bounds: func(step float64) (int, int) {
			return 0, rateFactorMax(step)
		},
		toNative: func(v int, step float64) float64 {
			return roundTo(maxRateFactor-float64(v)*step, 2)
		},
		toSlider: func(q float64, step float64) int {
			return rateFactorMax(step) - roundInt(q*(1/step))
		},
	}

	// Integer QP 0-51.
	hardwareScale = qualityScale{
		bounds:   fixedBounds(0, maxRateFactor),
		toNative: func(v int, _ float64) float64 { return roundTo(float64(maxRateFactor-v), 0) },
		toSlider: func(q float64, _ float64) int { return maxRateFactor - roundInt(q) },
	}

	// libtheora quality 0-63, higher is better.
	theoraScale = qualityScale{
		bounds:   fixedBounds(0, 63),
		toNative: func(v int, _ float64) float64 { return float64(v) },
		toSlider: func(q float64, _ float64) int { return roundInt(q) },
	}
)

// qualityScales is the per-encoder dispatch table. Every entry of
// types.AllEncoders must be present.
var qualityScales = map[types.Encoder]qualityScale{
	types.EncoderX264:    rateFactorScale,
	types.EncoderX265:    rateFactorScale,
	types.EncoderQSVH264: hardwareScale,
	types.EncoderFFMpeg4: legacyScale,
	types.EncoderFFMpeg2: legacyScale,
	types.EncoderVP8:     vp8Scale,
	types.EncoderTheora:  theoraScale,
}

// scaleFor returns the scale for enc. Unknown encoders use the x264 scale.
func scaleFor(enc types.Encoder) qualityScale {
	if s, ok := qualityScales[enc]; ok {
		return s
	}
	return rateFactorScale
}

// NormalizeStep returns step when it is usable, DefaultQualityStep otherwise.
func NormalizeStep(step float64) float64 {
	if step <= 0 || step > maxRateFactor || math.IsNaN(step) || math.IsInf(step, 0) {
		return DefaultQualityStep
	}
	return step
}

// Bounds returns the inclusive slider range for enc.
// The step only affects the x264 and x265 families.
func Bounds(enc types.Encoder, step float64) (int, int) {
	return scaleFor(enc).bounds(NormalizeStep(step))
}

// Clamp limits a slider position to the bounds of enc.
func Clamp(enc types.Encoder, v int, step float64) int {
	minV, maxV := Bounds(enc, step)
	return max(minV, min(v, maxV))
}

// ToNative converts a slider position to the native quality of enc.
// Positions outside the encoder's bounds are clamped first.
func ToNative(enc types.Encoder, v int, step float64) float64 {
	step = NormalizeStep(step)
	return scaleFor(enc).toNative(Clamp(enc, v, step), step)
}

// ToSlider converts a native quality value of enc to the nearest slider
// position. Values between two positions round half away from zero.
func ToSlider(enc types.Encoder, native float64, step float64) int {
	step = NormalizeStep(step)
	return Clamp(enc, scaleFor(enc).toSlider(native, step), step)
}

// IsLossless reports whether native quality means lossless for enc.
// Only x264 has a lossless rate factor.
func IsLossless(enc types.Encoder, native float64) bool {
	return enc.IsX264() && native == 0.0
}

func rateFactorMax(step float64) int {
	return roundInt(maxRateFactor / step)
}

func fixedBounds(lo, hi int) func(float64) (int, int) {
	return func(float64) (int, int) { return lo, hi }
}

func roundInt(v float64) int {
	return int(math.Round(v))
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
