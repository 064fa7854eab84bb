package ffmpeg

import (
	"strings"

	"github.com/smazurov/encodecfg/internal/advanced"
)

// X264ParamsBuilder builds the colon separated option string passed to
// ffmpeg as -x264-params.
type X264ParamsBuilder struct{}

// NewX264ParamsBuilder creates a new x264 option string builder.
func NewX264ParamsBuilder() *X264ParamsBuilder {
	return &X264ParamsBuilder{}
}

// Build implements advanced.OptionBuilder.
func (b *X264ParamsBuilder) Build(preset string, tunes []string, extraArgs, profile, level string, width, height int) (string, error) {
	return BuildX264Params(&X264Params{
		Preset:    preset,
		Tunes:     tunes,
		ExtraArgs: extraArgs,
		Profile:   profile,
		Level:     level,
		Width:     width,
		Height:    height,
	})
}

// BuildX264Params validates p and renders it as preset, tune, profile and
// level followed by the extra arguments. An extra argument overrides a
// derived option with the same key.
func BuildX264Params(p *X264Params) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}

	extra, err := parseExtraArgs(p.ExtraArgs)
	if err != nil {
		return "", err
	}
	overridden := make(map[string]bool, len(extra))
	for _, kv := range extra {
		overridden[kv[0]] = true
	}

	var opts []string
	add := func(key, value string) {
		if !overridden[key] {
			opts = append(opts, key+"="+value)
		}
	}

	add("preset", p.Preset)
	if len(p.Tunes) > 0 {
		add("tune", strings.Join(p.Tunes, ","))
	}
	if !isUnset(p.Profile) {
		add("profile", p.Profile)
	}
	if !isUnset(p.Level) {
		add("level", p.Level)
	}
	for _, kv := range extra {
		opts = append(opts, kv[0]+"="+kv[1])
	}

	return strings.Join(opts, ":"), nil
}

// NewOptionBuilder returns the x264 builder, or UnavailableBuilder when
// derivation is switched off.
func NewOptionBuilder(derive bool) advanced.OptionBuilder {
	if !derive {
		return UnavailableBuilder{}
	}
	return NewX264ParamsBuilder()
}

// UnavailableBuilder leaves the advanced options of x264 tasks empty.
type UnavailableBuilder struct{}

// Build always fails with advanced.ErrBuilderUnavailable.
func (UnavailableBuilder) Build(string, []string, string, string, string, int, int) (string, error) {
	return "", advanced.ErrBuilderUnavailable
}
