package types

import "fmt"

// RateControlMode represents the rate control strategy
type RateControlMode string

const (
	RateControlConstantQuality RateControlMode = "constant_quality" // Target a perceptual quality
	RateControlAverageBitrate  RateControlMode = "average_bitrate"  // Target an average bitrate
)

// ParseRateControlMode parses a rate control mode name.
func ParseRateControlMode(s string) (RateControlMode, error) {
	switch RateControlMode(s) {
	case RateControlConstantQuality, RateControlAverageBitrate:
		return RateControlMode(s), nil
	}
	return "", fmt.Errorf("unknown rate control mode %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *RateControlMode) UnmarshalText(text []byte) error {
	parsed, err := ParseRateControlMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// FramerateMode represents how the output framerate is controlled
type FramerateMode string

const (
	FramerateConstant FramerateMode = "constant" // Constant framerate
	FramerateVariable FramerateMode = "variable" // Variable framerate, same as source
	FrameratePeak     FramerateMode = "peak"     // Variable framerate capped at a peak rate
)

// ParseFramerateMode parses a framerate mode name.
func ParseFramerateMode(s string) (FramerateMode, error) {
	switch FramerateMode(s) {
	case FramerateConstant, FramerateVariable, FrameratePeak:
		return FramerateMode(s), nil
	}
	return "", fmt.Errorf("unknown framerate mode %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *FramerateMode) UnmarshalText(text []byte) error {
	parsed, err := ParseFramerateMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
