package presets

import (
	"github.com/smazurov/encodecfg/internal/framerate"
	"github.com/smazurov/encodecfg/internal/task"
	"github.com/smazurov/encodecfg/internal/types"
)

// Built-in preset categories
const (
	CategoryGeneral  = "General"
	CategoryHardware = "Hardware"
	CategoryWeb      = "Web"
	CategoryLegacy   = "Legacy"
)

// BuiltIn returns the presets shipped with the service.
func BuiltIn() []task.Preset {
	return []task.Preset{
		{
			Name:        "Fast 1080p30",
			Category:    CategoryGeneral,
			Description: "x264 at RF 22, fast preset, capped at 30 fps",
			Task: &task.EncodingTask{
				Encoder:     types.EncoderX264,
				RateControl: types.RateControlConstantQuality,
				Quality:     ptr(22.0),
				Framerate:   framerate.State{Mode: types.FrameratePeak, Target: ptr(30.0)},
				X264Preset:  4,
				X264Tune:    types.TuneNone,
				H264Profile: types.ProfileMain,
				H264Level:   "4.0",
			},
		},
		{
			Name:        "HQ 1080p30",
			Category:    CategoryGeneral,
			Description: "x264 at RF 20, slow preset, high profile",
			Task: &task.EncodingTask{
				Encoder:     types.EncoderX264,
				RateControl: types.RateControlConstantQuality,
				Quality:     ptr(20.0),
				Framerate:   framerate.State{Mode: types.FrameratePeak, Target: ptr(30.0)},
				X264Preset:  6,
				X264Tune:    types.TuneFilm,
				H264Profile: types.ProfileHigh,
				H264Level:   "4.1",
			},
		},
		{
			Name:        "Film Grain Manual",
			Category:    CategoryGeneral,
			Description: "x264 with hand tuned options for grainy sources",
			Task: &task.EncodingTask{
				Encoder:         types.EncoderX264,
				RateControl:     types.RateControlConstantQuality,
				Quality:         ptr(18.0),
				Framerate:       framerate.State{Mode: types.FramerateVariable},
				X264Preset:      7,
				X264Tune:        types.TuneGrain,
				H264Profile:     types.ProfileHigh,
				H264Level:       types.LevelAuto,
				AdvancedOptions: "preset=slower:tune=grain:profile=high:aq-strength=1.2:psy-rd=1.0,0.15",
				ManualAdvanced:  true,
			},
		},
		{
			Name:        "Super HQ 2160p60",
			Category:    CategoryGeneral,
			Description: "x265 at RF 20, slower preset, capped at 60 fps",
			Task: &task.EncodingTask{
				Encoder:     types.EncoderX265,
				RateControl: types.RateControlConstantQuality,
				Quality:     ptr(20.0),
				Framerate:   framerate.State{Mode: types.FrameratePeak, Target: ptr(60.0)},
				X265Preset:  7,
				X265Tune:    types.TuneNone,
				H265Profile: types.ProfileMain10,
			},
		},
		{
			Name:        "Hardware H.264 2-Pass",
			Category:    CategoryHardware,
			Description: "Hardware H.264 at 6 Mbps",
			Task: &task.EncodingTask{
				Encoder:     types.EncoderQSVH264,
				RateControl: types.RateControlAverageBitrate,
				Bitrate:     ptr(6000),
				TwoPass:     true,
				Framerate:   framerate.State{Mode: types.FramerateConstant},
				H264Profile: types.ProfileHigh,
				H264Level:   "4.1",
				QsvPreset:   types.HardwarePresetBalanced,
			},
		},
		{
			Name:        "Hardware H.264 Quality",
			Category:    CategoryHardware,
			Description: "Hardware H.264 at QP 24",
			Task: &task.EncodingTask{
				Encoder:     types.EncoderQSVH264,
				RateControl: types.RateControlConstantQuality,
				Quality:     ptr(24.0),
				Framerate:   framerate.State{Mode: types.FramerateConstant},
				H264Profile: types.ProfileMain,
				H264Level:   types.LevelAuto,
				QsvPreset:   types.HardwarePresetQuality,
			},
		},
		{
			Name:        "VP8 Web",
			Category:    CategoryWeb,
			Description: "VP8 at quantizer 10 for browser playback",
			Task: &task.EncodingTask{
				Encoder:     types.EncoderVP8,
				RateControl: types.RateControlConstantQuality,
				Quality:     ptr(10.0),
				Framerate:   framerate.State{Mode: types.FramerateVariable},
			},
		},
		{
			Name:        "Theora Archive",
			Category:    CategoryWeb,
			Description: "Theora at quality 45",
			Task: &task.EncodingTask{
				Encoder:     types.EncoderTheora,
				RateControl: types.RateControlConstantQuality,
				Quality:     ptr(45.0),
				Framerate:   framerate.State{Mode: types.FramerateVariable},
			},
		},
		{
			Name:        "MPEG-4 Legacy",
			Category:    CategoryLegacy,
			Description: "MPEG-4 Part 2 at quantizer 4",
			Task: &task.EncodingTask{
				Encoder:     types.EncoderFFMpeg4,
				RateControl: types.RateControlConstantQuality,
				Quality:     ptr(4.0),
				Framerate:   framerate.State{Mode: types.FramerateConstant, Target: ptr(25.0)},
			},
		},
		{
			Name:        "MPEG-2 DVD",
			Category:    CategoryLegacy,
			Description: "MPEG-2 at 5 Mbps for DVD authoring",
			Task: &task.EncodingTask{
				Encoder:     types.EncoderFFMpeg2,
				RateControl: types.RateControlAverageBitrate,
				Bitrate:     ptr(5000),
				Quality:     ptr(2.0),
				Framerate:   framerate.State{Mode: types.FramerateConstant, Target: ptr(25.0)},
			},
		},
	}
}

func ptr[T any](v T) *T {
	return &v
}
