package encoders

import (
	"math"
	"testing"

	"github.com/smazurov/encodecfg/internal/types"
)

func TestQualityScalesCoverAllEncoders(t *testing.T) {
	for _, enc := range types.AllEncoders {
		if _, ok := qualityScales[enc]; !ok {
			t.Errorf("encoder %s has no quality scale", enc)
		}
	}
}

func TestBounds(t *testing.T) {
	tests := []struct {
		encoder types.Encoder
		step    float64
		wantMin int
		wantMax int
	}{
		{types.EncoderX264, 0.25, 0, 204},
		{types.EncoderX264, 1, 0, 51},
		{types.EncoderX265, 0.5, 0, 102},
		{types.EncoderQSVH264, 0.25, 0, 51},
		{types.EncoderFFMpeg4, 0.25, 1, 31},
		{types.EncoderFFMpeg2, 1, 1, 31},
		{types.EncoderVP8, 0.25, 0, 63},
		{types.EncoderTheora, 0.25, 0, 63},
		{types.EncoderX264, 0, 0, 204},  // invalid step falls back to default
		{types.EncoderX264, -1, 0, 204}, // invalid step falls back to default
	}

	for _, tt := range tests {
		minV, maxV := Bounds(tt.encoder, tt.step)
		if minV != tt.wantMin || maxV != tt.wantMax {
			t.Errorf("Bounds(%s, %v) = [%d,%d], want [%d,%d]", tt.encoder, tt.step, minV, maxV, tt.wantMin, tt.wantMax)
		}
	}
}

func TestToNative(t *testing.T) {
	tests := []struct {
		name    string
		encoder types.Encoder
		slider  int
		step    float64
		want    float64
	}{
		{"x264 slider zero", types.EncoderX264, 0, 0.25, 51.0},
		{"x264 top is lossless", types.EncoderX264, 204, 0.25, 0.0},
		{"x264 fractional", types.EncoderX264, 3, 0.25, 50.25},
		{"x265 whole step", types.EncoderX265, 31, 1, 20},
		{"hardware", types.EncoderQSVH264, 10, 0.25, 41},
		{"legacy", types.EncoderFFMpeg4, 12, 0.25, 20},
		{"legacy mpeg2", types.EncoderFFMpeg2, 31, 0.25, 1},
		{"vp8", types.EncoderVP8, 10, 0.25, 53},
		{"theora is identity", types.EncoderTheora, 45, 0.25, 45},
		{"clamped above", types.EncoderFFMpeg4, 99, 0.25, 1},
		{"clamped below", types.EncoderFFMpeg4, 0, 0.25, 31},
		{"stale x264 slider under hardware", types.EncoderQSVH264, 204, 0.25, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToNative(tt.encoder, tt.slider, tt.step)
			if got != tt.want {
				t.Errorf("ToNative(%s, %d, %v) = %v, want %v", tt.encoder, tt.slider, tt.step, got, tt.want)
			}
		})
	}
}

func TestToSliderRoundTrip(t *testing.T) {
	steps := []float64{0.25, 0.5, 1, 0.2, 3}

	for _, enc := range types.AllEncoders {
		for _, step := range steps {
			minV, maxV := Bounds(enc, step)
			for v := minV; v <= maxV; v++ {
				native := ToNative(enc, v, step)
				if got := ToSlider(enc, native, step); got != v {
					t.Fatalf("%s step %v: ToSlider(ToNative(%d)) = %d (native %v)", enc, step, v, got, native)
				}
			}
		}
	}
}

func TestToSliderOffBoundary(t *testing.T) {
	tests := []struct {
		name    string
		encoder types.Encoder
		native  float64
		step    float64
		want    int
	}{
		{"legacy preset quality", types.EncoderFFMpeg4, 20, 0.25, 12},
		{"x264 between steps rounds to nearest", types.EncoderX264, 20.1, 0.25, 124},
		{"x264 half step rounds away from zero", types.EncoderX264, 20.5, 1, 30},
		{"hardware fractional", types.EncoderQSVH264, 20.4, 0.25, 31},
		{"theora half", types.EncoderTheora, 40.5, 0.25, 41},
		{"out of domain is clamped", types.EncoderVP8, 80, 0.25, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToSlider(tt.encoder, tt.native, tt.step)
			if got != tt.want {
				t.Errorf("ToSlider(%s, %v, %v) = %d, want %d", tt.encoder, tt.native, tt.step, got, tt.want)
			}
		})
	}
}

func TestIsLossless(t *testing.T) {
	for _, enc := range types.AllEncoders {
		got := IsLossless(enc, 0)
		if got != (enc == types.EncoderX264) {
			t.Errorf("IsLossless(%s, 0) = %v", enc, got)
		}
	}
	if IsLossless(types.EncoderX264, 0.25) {
		t.Error("IsLossless(x264, 0.25) should be false")
	}
}

func TestNormalizeStep(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.5, 0.5},
		{0, DefaultQualityStep},
		{-2, DefaultQualityStep},
		{100, DefaultQualityStep},
		{math.NaN(), DefaultQualityStep},
	}
	for _, tt := range tests {
		if got := NormalizeStep(tt.in); got != tt.want {
			t.Errorf("NormalizeStep(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
