package api

import (
	"fmt"
	"slices"

	"github.com/smazurov/encodecfg/internal/api/models"
	"github.com/smazurov/encodecfg/internal/controller"
	"github.com/smazurov/encodecfg/internal/types"
)

// validatePatch rejects values no encoder accepts. Values that are valid
// but do not apply to the session's encoder pass and are ignored later.
func validatePatch(p *models.SessionPatch) error {
	if p.Encoder != nil {
		if _, err := types.ParseEncoder(*p.Encoder); err != nil {
			return err
		}
	}
	if p.RateControl != nil {
		if _, err := types.ParseRateControlMode(*p.RateControl); err != nil {
			return err
		}
	}
	if p.FramerateMode != nil {
		if _, err := types.ParseFramerateMode(*p.FramerateMode); err != nil {
			return err
		}
	}

	checks := []struct {
		bad   bool
		field string
	}{
		{p.Bitrate != nil && *p.Bitrate < 0, "bitrate"},
		{p.TargetFramerate != nil && *p.TargetFramerate < 0, "target_framerate"},
		{p.Width != nil && *p.Width < 0, "width"},
		{p.Height != nil && *p.Height < 0, "height"},
		{p.X264Preset != nil && types.X264PresetName(*p.X264Preset) == "", "x264_preset"},
		{p.X264Tune != nil && !types.IsX264Tune(types.Tune(*p.X264Tune)), "x264_tune"},
		{p.H264Profile != nil && !types.IsH264Profile(types.Profile(*p.H264Profile)), "h264_profile"},
		{p.H264Level != nil && !types.IsH264Level(*p.H264Level), "h264_level"},
		{p.X265Preset != nil && types.X265PresetName(*p.X265Preset) == "", "x265_preset"},
		{p.X265Tune != nil && !types.IsX265Tune(types.Tune(*p.X265Tune)), "x265_tune"},
		{p.H265Profile != nil && !types.IsH265Profile(types.Profile(*p.H265Profile)), "h265_profile"},
		{p.QsvPreset != nil && !types.IsHardwarePreset(types.HardwarePreset(*p.QsvPreset)), "qsv_preset"},
	}
	for _, c := range checks {
		if c.bad {
			return fmt.Errorf("invalid value for %s", c.field)
		}
	}
	return nil
}

// applyPatch runs the present fields of p through c's setters, encoder first
// so later fields are judged against the new encoder. p must be validated.
func applyPatch(c *controller.Controller, p *models.SessionPatch) controller.ChangeSet {
	var all controller.ChangeSet
	add := func(cs controller.ChangeSet) {
		for _, f := range cs {
			if !slices.Contains(all, f) {
				all = append(all, f)
			}
		}
	}

	if p.Encoder != nil {
		add(c.SetEncoder(types.Encoder(*p.Encoder)))
	}
	if p.RateControl != nil {
		add(c.SetRateControl(types.RateControlMode(*p.RateControl)))
	}
	if p.QualitySlider != nil {
		add(c.SetQualitySlider(*p.QualitySlider))
	}
	if p.Quality != nil {
		add(c.SetNativeQuality(*p.Quality))
	}
	if p.Bitrate != nil {
		if *p.Bitrate == 0 {
			add(c.SetBitrate(nil))
		} else {
			add(c.SetBitrate(p.Bitrate))
		}
	}
	if p.TwoPass != nil {
		add(c.SetTwoPass(*p.TwoPass))
	}
	if p.TurboFirstPass != nil {
		add(c.SetTurboFirstPass(*p.TurboFirstPass))
	}
	if p.FramerateMode != nil {
		add(c.SetFramerateMode(types.FramerateMode(*p.FramerateMode), true))
	}
	if p.TargetFramerate != nil {
		if *p.TargetFramerate == 0 {
			add(c.SetTargetFramerate(nil))
		} else {
			add(c.SetTargetFramerate(p.TargetFramerate))
		}
	}
	if p.Width != nil || p.Height != nil {
		current := c.Task()
		w, h := current.Width, current.Height
		if p.Width != nil {
			w = p.Width
		}
		if p.Height != nil {
			h = p.Height
		}
		add(c.SetSourceResolution(w, h))
	}
	if p.X264Preset != nil {
		add(c.SetX264Preset(*p.X264Preset))
	}
	if p.X264Tune != nil {
		add(c.SetX264Tune(types.Tune(*p.X264Tune)))
	}
	if p.FastDecode != nil {
		add(c.SetFastDecode(*p.FastDecode))
	}
	if p.H264Profile != nil {
		add(c.SetH264Profile(types.Profile(*p.H264Profile)))
	}
	if p.H264Level != nil {
		add(c.SetH264Level(*p.H264Level))
	}
	if p.X265Preset != nil {
		add(c.SetX265Preset(*p.X265Preset))
	}
	if p.X265Tune != nil {
		add(c.SetX265Tune(types.Tune(*p.X265Tune)))
	}
	if p.H265Profile != nil {
		add(c.SetH265Profile(types.Profile(*p.H265Profile)))
	}
	if p.QsvPreset != nil {
		add(c.SetQsvPreset(types.HardwarePreset(*p.QsvPreset)))
	}
	if p.ExtraArguments != nil {
		add(c.SetExtraArguments(*p.ExtraArguments))
	}
	if p.ManualAdvanced != nil {
		add(c.SetManualAdvanced(*p.ManualAdvanced))
	}
	if p.AdvancedOptions != nil {
		add(c.SetAdvancedOptions(*p.AdvancedOptions))
	}
	return all
}
