package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/smazurov/encodecfg/internal/api/models"
	"github.com/smazurov/encodecfg/internal/presets"
	"github.com/smazurov/encodecfg/internal/task"
)

func (s *Server) presetStore() (presets.Store, error) {
	if s.options.Presets == nil {
		return nil, huma.Error503ServiceUnavailable("preset store not configured")
	}
	return s.options.Presets, nil
}

func (s *Server) registerPresetRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-presets",
		Method:      http.MethodGet,
		Path:        "/api/presets",
		Summary:     "List Presets",
		Description: "List built-in and stored presets",
		Tags:        []string{"presets"},
		Security:    withAuth(),
		Errors:      []int{401, 503},
	}, func(_ context.Context, _ *struct{}) (*models.PresetListResponse, error) {
		store, err := s.presetStore()
		if err != nil {
			return nil, err
		}
		list := store.List()
		return &models.PresetListResponse{
			Body: models.PresetListData{Presets: list, Count: len(list)},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-preset",
		Method:      http.MethodGet,
		Path:        "/api/presets/{name}",
		Summary:     "Get Preset",
		Description: "Get one preset by name",
		Tags:        []string{"presets"},
		Security:    withAuth(),
		Errors:      []int{401, 404, 503},
	}, func(_ context.Context, input *models.PresetPathInput) (*models.PresetResponse, error) {
		store, err := s.presetStore()
		if err != nil {
			return nil, err
		}
		p, err := store.Get(input.Name)
		if err != nil {
			return nil, s.mapError(err)
		}
		return &models.PresetResponse{Body: p}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "delete-preset",
		Method:      http.MethodDelete,
		Path:        "/api/presets/{name}",
		Summary:     "Delete Preset",
		Description: "Remove a preset from the store",
		Tags:        []string{"presets"},
		Security:    withAuth(),
		Errors:      []int{401, 404, 500, 503},
	}, func(_ context.Context, input *models.PresetPathInput) (*struct{}, error) {
		store, err := s.presetStore()
		if err != nil {
			return nil, err
		}
		if err := store.Remove(input.Name); err != nil {
			return nil, s.mapError(err)
		}
		return &struct{}{}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "save-session-preset",
		Method:      http.MethodPost,
		Path:        "/api/sessions/{id}/save-preset",
		Summary:     "Save Preset",
		Description: "Store the session's current task as a named preset",
		Tags:        []string{"presets", "sessions"},
		Security:    withAuth(),
		Errors:      []int{400, 401, 404, 500, 503},
	}, func(_ context.Context, input *models.SavePresetRequest) (*models.PresetResponse, error) {
		store, err := s.presetStore()
		if err != nil {
			return nil, err
		}
		sess, err := s.sessions.Get(input.ID)
		if err != nil {
			return nil, s.mapError(err)
		}

		p := task.Preset{
			Name:        input.Body.Name,
			Category:    input.Body.Category,
			Description: input.Body.Description,
			Task:        taskOf(sess),
		}
		if err := store.Put(p); err != nil {
			return nil, s.mapError(err)
		}
		s.logger.Info("Preset saved from session", "preset", p.Name, "session", input.ID)
		return &models.PresetResponse{Body: p}, nil
	})
}
