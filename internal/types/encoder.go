package types

import (
	"fmt"
	"strings"
)

// Encoder identifies a video encoder family.
type Encoder string

const (
	EncoderX264    Encoder = "x264"     // x264 software encoder (H.264)
	EncoderX265    Encoder = "x265"     // x265 software encoder (H.265/HEVC)
	EncoderQSVH264 Encoder = "qsv_h264" // Intel QuickSync hardware encoder (H.264)
	EncoderFFMpeg4 Encoder = "ffmpeg4"  // libavcodec MPEG-4
	EncoderFFMpeg2 Encoder = "ffmpeg2"  // libavcodec MPEG-2
	EncoderVP8     Encoder = "vp8"      // libvpx VP8
	EncoderTheora  Encoder = "theora"   // libtheora
)

// AllEncoders lists every encoder in presentation order.
var AllEncoders = []Encoder{
	EncoderX264,
	EncoderX265,
	EncoderQSVH264,
	EncoderFFMpeg4,
	EncoderFFMpeg2,
	EncoderVP8,
	EncoderTheora,
}

var encoderDescriptions = map[Encoder]string{
	EncoderX264:    "H.264 (x264)",
	EncoderX265:    "H.265 (x265)",
	EncoderQSVH264: "H.264 (Intel QSV)",
	EncoderFFMpeg4: "MPEG-4 (FFmpeg)",
	EncoderFFMpeg2: "MPEG-2 (FFmpeg)",
	EncoderVP8:     "VP8 (libvpx)",
	EncoderTheora:  "Theora (libtheora)",
}

// ParseEncoder parses an encoder name, case-insensitively.
func ParseEncoder(name string) (Encoder, error) {
	key := Encoder(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := encoderDescriptions[key]; !ok {
		return "", fmt.Errorf("unknown encoder %q", name)
	}
	return key, nil
}

// String returns the encoder name.
func (e Encoder) String() string {
	return string(e)
}

// Description returns a human-readable encoder name.
func (e Encoder) Description() string {
	if d, ok := encoderDescriptions[e]; ok {
		return d
	}
	return string(e)
}

// IsValid reports whether e is a known encoder.
func (e Encoder) IsValid() bool {
	_, ok := encoderDescriptions[e]
	return ok
}

// MarshalText implements encoding.TextMarshaler.
func (e Encoder) MarshalText() ([]byte, error) {
	return []byte(e), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Encoder) UnmarshalText(text []byte) error {
	parsed, err := ParseEncoder(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// IsX264 reports whether e is the x264 family.
func (e Encoder) IsX264() bool { return e == EncoderX264 }

// IsX265 reports whether e is the x265 family.
func (e Encoder) IsX265() bool { return e == EncoderX265 }

// IsHardware reports whether e is the hardware-accelerated family.
func (e Encoder) IsHardware() bool { return e == EncoderQSVH264 }

// IsLegacy reports whether e is one of the libavcodec encoders.
func (e Encoder) IsLegacy() bool { return e == EncoderFFMpeg4 || e == EncoderFFMpeg2 }

// SupportsProfileLevel reports whether H.264 profile and level apply to e.
func (e Encoder) SupportsProfileLevel() bool { return e.IsX264() || e.IsHardware() }

// SupportsX264Options reports whether the x264 preset, tune and fast decode apply to e.
func (e Encoder) SupportsX264Options() bool { return e.IsX264() }

// SupportsX265Options reports whether the x265 preset, tune and profile apply to e.
func (e Encoder) SupportsX265Options() bool { return e.IsX265() }

// SupportsHardwarePreset reports whether the hardware preset applies to e.
func (e Encoder) SupportsHardwarePreset() bool { return e.IsHardware() }
