package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/smazurov/encodecfg/internal/api/models"
	"github.com/smazurov/encodecfg/internal/encoders"
	"github.com/smazurov/encodecfg/internal/settings"
)

// qualityStep returns the configured slider step.
func (s *Server) qualityStep() float64 {
	step := encoders.DefaultQualityStep
	if s.options.Settings != nil {
		step = s.options.Settings.Float(settings.KeyQualityStep, step)
	}
	return encoders.NormalizeStep(step)
}

func (s *Server) registerEncoderRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-encoders",
		Method:      http.MethodGet,
		Path:        "/api/encoders",
		Summary:     "List Encoders",
		Description: "List video encoders with quality slider bounds for the current step",
		Tags:        []string{"encoders"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(_ context.Context, input *models.EncodersRequest) (*models.EncodersResponse, error) {
		step := s.qualityStep()
		list := encoders.FilterEncoders(encoders.List(step), encoders.EncoderFilter{
			Search:  input.Search,
			Hwaccel: input.Hwaccel,
		})
		return &models.EncodersResponse{
			Body: models.EncoderData{
				Encoders:    list.VideoEncoders,
				QualityStep: step,
				Count:       len(list.VideoEncoders),
			},
		}, nil
	})
}
