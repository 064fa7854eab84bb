package encoders

import (
	"strings"

	"github.com/smazurov/encodecfg/internal/types"
)

// Encoder describes a video encoder and its quality slider range
type Encoder struct {
	Name        types.Encoder `json:"name"`
	Description string        `json:"description"`
	HWAccel     bool          `json:"hwaccel"`
	QualityMin  int           `json:"quality_min"`
	QualityMax  int           `json:"quality_max"`
	Lossless    bool          `json:"lossless"` // Encoder has a lossless quality setting
}

// EncoderList holds the encoders known to the controller
type EncoderList struct {
	VideoEncoders []Encoder `json:"video_encoders"`
}

// EncoderFilter represents filter options for encoders
type EncoderFilter struct {
	Search  string `json:"search"`  // Search term for name or description
	Hwaccel bool   `json:"hwaccel"` // Filter for hardware accelerated encoders
}

// List returns every encoder with slider bounds computed for step.
func List(step float64) *EncoderList {
	result := &EncoderList{VideoEncoders: make([]Encoder, 0, len(types.AllEncoders))}
	for _, enc := range types.AllEncoders {
		minV, maxV := Bounds(enc, step)
		result.VideoEncoders = append(result.VideoEncoders, Encoder{
			Name:        enc,
			Description: enc.Description(),
			HWAccel:     enc.IsHardware(),
			QualityMin:  minV,
			QualityMax:  maxV,
			Lossless:    enc.IsX264(),
		})
	}
	return result
}

// FilterEncoders applies filters to a list of encoders
func FilterEncoders(encoders *EncoderList, filter EncoderFilter) *EncoderList {
	result := &EncoderList{VideoEncoders: []Encoder{}}

	matchesFilter := func(encoder Encoder) bool {
		if filter.Hwaccel && !encoder.HWAccel {
			return false
		}

		if filter.Search != "" {
			searchTerm := strings.ToLower(filter.Search)
			encoderName := strings.ToLower(string(encoder.Name))
			encoderDesc := strings.ToLower(encoder.Description)

			if !strings.Contains(encoderName, searchTerm) && !strings.Contains(encoderDesc, searchTerm) {
				return false
			}
		}

		return true
	}

	for _, encoder := range encoders.VideoEncoders {
		if matchesFilter(encoder) {
			result.VideoEncoders = append(result.VideoEncoders, encoder)
		}
	}

	return result
}
