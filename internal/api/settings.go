package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/smazurov/encodecfg/internal/api/models"
	"github.com/smazurov/encodecfg/internal/settings"
)

func (s *Server) settingsStore() (SettingsStore, error) {
	if s.options.Settings == nil {
		return nil, huma.Error503ServiceUnavailable("settings store not configured")
	}
	return s.options.Settings, nil
}

func (s *Server) registerSettingsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-settings",
		Method:      http.MethodGet,
		Path:        "/api/settings",
		Summary:     "Get Settings",
		Description: "Get the site-wide user settings",
		Tags:        []string{"settings"},
		Security:    withAuth(),
		Errors:      []int{401, 503},
	}, func(_ context.Context, _ *struct{}) (*models.SettingsResponse, error) {
		store, err := s.settingsStore()
		if err != nil {
			return nil, err
		}
		return &models.SettingsResponse{
			Body: models.SettingsData{Settings: store.Snapshot()},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "update-settings",
		Method:      http.MethodPut,
		Path:        "/api/settings",
		Summary:     "Update Settings",
		Description: "Change user settings. Open sessions pick up the change.",
		Tags:        []string{"settings"},
		Security:    withAuth(),
		Errors:      []int{400, 401, 500, 503},
	}, func(_ context.Context, input *models.SettingsUpdateRequest) (*models.SettingsResponse, error) {
		store, err := s.settingsStore()
		if err != nil {
			return nil, err
		}

		if v := input.Body.QualityStep; v != nil {
			if err := store.Set(settings.KeyQualityStep, *v); err != nil {
				return nil, huma.Error500InternalServerError("failed to save settings", err)
			}
		}
		if v := input.Body.ShowAdvancedTab; v != nil {
			if err := store.Set(settings.KeyShowAdvancedTab, *v); err != nil {
				return nil, huma.Error500InternalServerError("failed to save settings", err)
			}
		}

		return &models.SettingsResponse{
			Body: models.SettingsData{Settings: store.Snapshot()},
		}, nil
	})
}
