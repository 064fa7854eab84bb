package ffmpeg

import (
	"fmt"
	"slices"
	"strings"
)

// X264Params represents the normalized inputs of an x264 option string.
// Names use the encoder spelling: lower case, spaces removed.
type X264Params struct {
	Preset    string
	Tunes     []string
	ExtraArgs string
	Profile   string
	Level     string
	Width     int
	Height    int
}

var x264Presets = []string{
	"ultrafast", "superfast", "veryfast", "faster", "fast",
	"medium", "slow", "slower", "veryslow", "placebo",
}

// Psychovisual tunes are mutually exclusive, the rest combine with any of them.
var (
	x264PsyTunes   = []string{"film", "animation", "grain", "stillimage", "psnr", "ssim"}
	x264ExtraTunes = []string{"fastdecode", "zerolatency"}
)

var x264Profiles = []string{"baseline", "main", "high"}

// maxFrameSizes is the H.264 MaxFS limit per level, in macroblocks.
var maxFrameSizes = map[string]int{
	"1.0": 99, "1b": 99, "1.1": 396, "1.2": 396, "1.3": 396,
	"2.0": 396, "2.1": 792, "2.2": 1620,
	"3.0": 1620, "3.1": 3600, "3.2": 5120,
	"4.0": 8192, "4.1": 8192, "4.2": 8704,
	"5.0": 22080, "5.1": 36864, "5.2": 36864,
}

// isUnset reports whether an option value means "let the encoder decide".
func isUnset(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "none", "auto":
		return true
	}
	return false
}

// Validate checks the parameters against the x264 vocabularies.
func (p *X264Params) Validate() error {
	if !slices.Contains(x264Presets, p.Preset) {
		return fmt.Errorf("unknown x264 preset %q", p.Preset)
	}

	psy := ""
	for _, tune := range p.Tunes {
		switch {
		case slices.Contains(x264PsyTunes, tune):
			if psy != "" {
				return fmt.Errorf("tunes %q and %q cannot be combined", psy, tune)
			}
			psy = tune
		case slices.Contains(x264ExtraTunes, tune):
		default:
			return fmt.Errorf("unknown x264 tune %q", tune)
		}
	}

	if !isUnset(p.Profile) && !slices.Contains(x264Profiles, p.Profile) {
		return fmt.Errorf("unknown x264 profile %q", p.Profile)
	}

	if !isUnset(p.Level) {
		return CheckLevel(p.Level, p.Width, p.Height)
	}
	return nil
}

// CheckLevel returns an error when the frame size exceeds what the H.264
// level allows.
func CheckLevel(level string, width, height int) error {
	limit, ok := maxFrameSizes[level]
	if !ok {
		return fmt.Errorf("unknown H.264 level %q", level)
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid resolution %dx%d", width, height)
	}

	macroblocks := ((width + 15) / 16) * ((height + 15) / 16)
	if macroblocks > limit {
		return fmt.Errorf("level %s allows %d macroblocks per frame, %dx%d needs %d",
			level, limit, width, height, macroblocks)
	}
	return nil
}

// parseExtraArgs splits "key=value:key=value" into ordered pairs.
func parseExtraArgs(extra string) ([][2]string, error) {
	var pairs [][2]string
	for _, token := range strings.Split(extra, ":") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		key, value, ok := strings.Cut(token, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("malformed option %q, expected key=value", token)
		}
		pairs = append(pairs, [2]string{key, strings.TrimSpace(value)})
	}
	return pairs, nil
}
