package ffmpeg

import (
	"errors"
	"testing"

	"github.com/smazurov/encodecfg/internal/advanced"
)

func TestBuildX264Params(t *testing.T) {
	builder := NewX264ParamsBuilder()

	tests := []struct {
		name    string
		preset  string
		tunes   []string
		extra   string
		profile string
		level   string
		width   int
		height  int
		want    string
		wantErr bool
	}{
		{
			name:    "preset only",
			preset:  "medium",
			profile: "none",
			level:   "Auto",
			width:   720,
			height:  576,
			want:    "preset=medium",
		},
		{
			name:    "tunes profile and level",
			preset:  "slow",
			tunes:   []string{"film", "fastdecode"},
			profile: "high",
			level:   "4.1",
			width:   1920,
			height:  1080,
			want:    "preset=slow:tune=film,fastdecode:profile=high:level=4.1",
		},
		{
			name:   "extra arguments appended",
			preset: "fast",
			extra:  "ref=4: bframes=2 :",
			width:  720,
			height: 576,
			want:   "preset=fast:ref=4:bframes=2",
		},
		{
			name:   "extra argument overrides derived key",
			preset: "fast",
			tunes:  []string{"grain"},
			extra:  "tune=zerolatency",
			width:  720,
			height: 576,
			want:   "preset=fast:tune=zerolatency",
		},
		{
			name:   "smallest level that fits 720x576",
			preset: "medium",
			level:  "3.0",
			width:  720,
			height: 576,
			want:   "preset=medium:level=3.0",
		},
		{
			name:    "level too low for resolution",
			preset:  "medium",
			level:   "3.2",
			width:   1920,
			height:  1080,
			wantErr: true,
		},
		{
			name:    "unknown level",
			preset:  "medium",
			level:   "6.3",
			width:   720,
			height:  576,
			wantErr: true,
		},
		{
			name:    "unknown preset",
			preset:  "Medium",
			width:   720,
			height:  576,
			wantErr: true,
		},
		{
			name:    "two psychovisual tunes",
			preset:  "medium",
			tunes:   []string{"film", "grain"},
			width:   720,
			height:  576,
			wantErr: true,
		},
		{
			name:    "unknown profile",
			preset:  "medium",
			profile: "main10",
			width:   720,
			height:  576,
			wantErr: true,
		},
		{
			name:    "malformed extra argument",
			preset:  "medium",
			extra:   "nocabac",
			width:   720,
			height:  576,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := builder.Build(tt.preset, tt.tunes, tt.extra, tt.profile, tt.level, tt.width, tt.height)

			if tt.wantErr {
				if err == nil {
					t.Errorf("Build() expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Build() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Build() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCheckLevel(t *testing.T) {
	tests := []struct {
		level         string
		width, height int
		wantErr       bool
	}{
		{"2.1", 352, 288, false},
		{"2.1", 720, 576, true},
		{"3.1", 1280, 720, false},
		{"4.0", 1920, 1080, false},
		{"5.1", 3840, 2160, false},
		{"4.2", 3840, 2160, true},
		{"4.0", 0, 1080, true},
	}

	for _, tt := range tests {
		err := CheckLevel(tt.level, tt.width, tt.height)
		if (err != nil) != tt.wantErr {
			t.Errorf("CheckLevel(%s, %dx%d) error = %v, wantErr %v", tt.level, tt.width, tt.height, err, tt.wantErr)
		}
	}
}

func TestUnavailableBuilder(t *testing.T) {
	var b advanced.OptionBuilder = UnavailableBuilder{}
	_, err := b.Build("medium", nil, "", "", "", 720, 576)
	if !errors.Is(err, advanced.ErrBuilderUnavailable) {
		t.Errorf("expected ErrBuilderUnavailable, got %v", err)
	}
}

func TestNewOptionBuilder(t *testing.T) {
	if _, ok := NewOptionBuilder(false).(UnavailableBuilder); !ok {
		t.Error("derivation off should yield UnavailableBuilder")
	}
	out, err := NewOptionBuilder(true).Build("medium", nil, "", "none", "Auto", 720, 576)
	if err != nil || out != "preset=medium" {
		t.Errorf("Build() = %q, %v, want preset=medium", out, err)
	}
}
