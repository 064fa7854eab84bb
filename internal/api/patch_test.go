package api

import (
	"testing"

	"github.com/smazurov/encodecfg/internal/api/models"
	"github.com/smazurov/encodecfg/internal/controller"
	"github.com/smazurov/encodecfg/internal/ffmpeg"
	"github.com/smazurov/encodecfg/internal/types"
)

func TestValidatePatchAcceptsKnownValues(t *testing.T) {
	p := &models.SessionPatch{
		Encoder:       ptr("x265"),
		RateControl:   ptr("average_bitrate"),
		FramerateMode: ptr("peak"),
		X265Tune:      ptr(string(types.TuneGrain)),
		H265Profile:   ptr(string(types.ProfileMain10)),
		QsvPreset:     ptr(string(types.HardwarePresetBalanced)),
		Bitrate:       ptr(0),
	}
	if err := validatePatch(p); err != nil {
		t.Errorf("validatePatch() = %v, want nil", err)
	}
}

func TestApplyPatchOrdersEncoderFirst(t *testing.T) {
	c := controller.New(controller.Options{Builder: ffmpeg.NewX264ParamsBuilder()})

	// The hardware preset only applies once the encoder has switched.
	changed := applyPatch(c, &models.SessionPatch{
		QsvPreset: ptr(string(types.HardwarePresetSpeed)),
		Encoder:   ptr(string(types.EncoderQSVH264)),
	})

	if got := c.Task().QsvPreset; got != types.HardwarePresetSpeed {
		t.Errorf("qsv preset = %q, want Speed", got)
	}
	seen := map[string]int{}
	for _, f := range changed.Strings() {
		seen[f]++
	}
	for f, n := range seen {
		if n > 1 {
			t.Errorf("field %q reported %d times", f, n)
		}
	}
	if seen["encoder"] != 1 || seen["qsv_preset"] != 1 {
		t.Errorf("changed = %v, want encoder and qsv_preset", changed.Strings())
	}
}

func TestApplyPatchKeepsOtherDimension(t *testing.T) {
	c := controller.New(controller.Options{Builder: ffmpeg.NewX264ParamsBuilder()})
	applyPatch(c, &models.SessionPatch{Width: ptr(1920), Height: ptr(1080)})
	applyPatch(c, &models.SessionPatch{Width: ptr(1280)})

	w, h := c.Task().Resolution()
	if w != 1280 || h != 1080 {
		t.Errorf("resolution = %dx%d, want 1280x1080", w, h)
	}
}

func TestApplyPatchZeroClears(t *testing.T) {
	c := controller.New(controller.Options{Builder: ffmpeg.NewX264ParamsBuilder()})
	applyPatch(c, &models.SessionPatch{
		RateControl:     ptr(string(types.RateControlAverageBitrate)),
		Bitrate:         ptr(4000),
		FramerateMode:   ptr(string(types.FrameratePeak)),
		TargetFramerate: ptr(30.0),
	})
	if c.Task().Bitrate == nil || c.Task().Framerate.Target == nil {
		t.Fatal("expected bitrate and target framerate set")
	}

	applyPatch(c, &models.SessionPatch{Bitrate: ptr(0), TargetFramerate: ptr(0.0)})
	if c.Task().Bitrate != nil {
		t.Errorf("bitrate = %v, want nil", *c.Task().Bitrate)
	}
	if c.Task().Framerate.Target != nil {
		t.Errorf("target = %v, want nil", *c.Task().Framerate.Target)
	}
}
