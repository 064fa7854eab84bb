package encoders

import (
	"testing"

	"github.com/smazurov/encodecfg/internal/types"
)

func TestList(t *testing.T) {
	list := List(0.5)
	if len(list.VideoEncoders) != len(types.AllEncoders) {
		t.Fatalf("expected %d encoders, got %d", len(types.AllEncoders), len(list.VideoEncoders))
	}

	for _, enc := range list.VideoEncoders {
		switch enc.Name {
		case types.EncoderX264:
			if enc.QualityMax != 102 {
				t.Errorf("x264 max at step 0.5 = %d, want 102", enc.QualityMax)
			}
			if !enc.Lossless {
				t.Error("x264 should report a lossless setting")
			}
		case types.EncoderQSVH264:
			if !enc.HWAccel {
				t.Error("qsv_h264 should be hardware accelerated")
			}
		case types.EncoderFFMpeg4:
			if enc.QualityMin != 1 || enc.QualityMax != 31 {
				t.Errorf("ffmpeg4 bounds = [%d,%d], want [1,31]", enc.QualityMin, enc.QualityMax)
			}
		}
	}
}

func TestFilterEncoders(t *testing.T) {
	list := List(DefaultQualityStep)

	tests := []struct {
		name   string
		filter EncoderFilter
		want   int
	}{
		{"no filter", EncoderFilter{}, len(types.AllEncoders)},
		{"hardware only", EncoderFilter{Hwaccel: true}, 1},
		{"search by name", EncoderFilter{Search: "x26"}, 2},
		{"search by description", EncoderFilter{Search: "MPEG"}, 2},
		{"no match", EncoderFilter{Search: "av1"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterEncoders(list, tt.filter)
			if len(got.VideoEncoders) != tt.want {
				t.Errorf("got %d encoders, want %d", len(got.VideoEncoders), tt.want)
			}
		})
	}
}
