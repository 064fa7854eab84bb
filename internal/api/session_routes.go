package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/smazurov/encodecfg/internal/api/models"
	"github.com/smazurov/encodecfg/internal/controller"
	"github.com/smazurov/encodecfg/internal/task"
)

// sessionData renders s. Callers must hold the session lock.
func sessionData(s *Session, changed controller.ChangeSet) models.SessionData {
	return models.SessionData{
		ID:             s.id,
		CreatedAt:      s.createdAt,
		State:          s.ctrl.State(),
		Changed:        changed.Strings(),
		AdvancedResets: s.advancedResets,
	}
}

// withSession runs fn on the locked session id and renders the result.
func (s *Server) withSession(id string, fn func(c *controller.Controller) (controller.ChangeSet, error)) (*models.SessionResponse, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return nil, s.mapError(err)
	}

	var (
		data  models.SessionData
		fnErr error
	)
	sess.Do(func(c *controller.Controller) {
		var changed controller.ChangeSet
		changed, fnErr = fn(c)
		data = sessionData(sess, changed)
	})
	if fnErr != nil {
		return nil, fnErr
	}
	return &models.SessionResponse{Body: data}, nil
}

func (s *Server) applyPresetByName(c *controller.Controller, name string) (controller.ChangeSet, bool, error) {
	store, err := s.presetStore()
	if err != nil {
		return nil, false, err
	}
	p, err := store.Get(name)
	if err != nil {
		return nil, false, s.mapError(err)
	}
	changed, ok := c.ApplyPreset(&p)
	return changed, ok, nil
}

func (s *Server) registerSessionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-sessions",
		Method:      http.MethodGet,
		Path:        "/api/sessions",
		Summary:     "List Sessions",
		Description: "List open configuration sessions",
		Tags:        []string{"sessions"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(_ context.Context, _ *struct{}) (*models.SessionListResponse, error) {
		list := s.sessions.List()
		out := make([]models.SessionData, 0, len(list))
		for _, sess := range list {
			sess.Do(func(_ *controller.Controller) {
				out = append(out, sessionData(sess, nil))
			})
		}
		return &models.SessionListResponse{
			Body: models.SessionListData{Sessions: out, Count: len(out)},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID:   "create-session",
		Method:        http.MethodPost,
		Path:          "/api/sessions",
		Summary:       "Create Session",
		Description:   "Open a configuration session holding the default task, optionally seeded from a preset and edits",
		Tags:          []string{"sessions"},
		Security:      withAuth(),
		DefaultStatus: http.StatusCreated,
		Errors:        []int{400, 401, 404, 429},
	}, func(_ context.Context, input *models.SessionCreateRequest) (*models.SessionResponse, error) {
		if input.Body.Changes != nil {
			if err := validatePatch(input.Body.Changes); err != nil {
				return nil, huma.Error400BadRequest(err.Error(), err)
			}
		}

		sess, err := s.sessions.Create()
		if err != nil {
			return nil, s.mapError(err)
		}

		resp, err := s.withSession(sess.id, func(c *controller.Controller) (controller.ChangeSet, error) {
			if input.Body.Preset != "" {
				if _, _, err := s.applyPresetByName(c, input.Body.Preset); err != nil {
					return nil, err
				}
			}
			if input.Body.Changes != nil {
				applyPatch(c, input.Body.Changes)
			}
			return nil, nil
		})
		if err != nil {
			_ = s.sessions.Delete(sess.id)
			return nil, err
		}
		return resp, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-session",
		Method:      http.MethodGet,
		Path:        "/api/sessions/{id}",
		Summary:     "Get Session",
		Description: "Get the task and derived state of a session",
		Tags:        []string{"sessions"},
		Security:    withAuth(),
		Errors:      []int{401, 404},
	}, func(_ context.Context, input *models.SessionPathInput) (*models.SessionResponse, error) {
		return s.withSession(input.ID, func(_ *controller.Controller) (controller.ChangeSet, error) {
			return nil, nil
		})
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "update-session",
		Method:      http.MethodPatch,
		Path:        "/api/sessions/{id}",
		Summary:     "Update Session",
		Description: "Apply a partial edit to the session's task. Fields are applied in cascade order and the response lists everything that changed.",
		Tags:        []string{"sessions"},
		Security:    withAuth(),
		Errors:      []int{400, 401, 404},
	}, func(_ context.Context, input *models.SessionPatchRequest) (*models.SessionResponse, error) {
		if err := validatePatch(&input.Body); err != nil {
			return nil, huma.Error400BadRequest(err.Error(), err)
		}
		return s.withSession(input.ID, func(c *controller.Controller) (controller.ChangeSet, error) {
			return applyPatch(c, &input.Body), nil
		})
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "replace-session-task",
		Method:      http.MethodPut,
		Path:        "/api/sessions/{id}/task",
		Summary:     "Replace Task",
		Description: "Load a complete task into the session, normalized to the encoder rules",
		Tags:        []string{"sessions"},
		Security:    withAuth(),
		Errors:      []int{400, 401, 404},
	}, func(_ context.Context, input *models.SessionTaskRequest) (*models.SessionResponse, error) {
		body := input.Body
		return s.withSession(input.ID, func(c *controller.Controller) (controller.ChangeSet, error) {
			return c.LoadTask(&body), nil
		})
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "apply-session-preset",
		Method:      http.MethodPost,
		Path:        "/api/sessions/{id}/presets/{name}",
		Summary:     "Apply Preset",
		Description: "Apply a stored preset to the session. Presets without a task leave the session unchanged.",
		Tags:        []string{"sessions", "presets"},
		Security:    withAuth(),
		Errors:      []int{401, 404, 503},
	}, func(_ context.Context, input *models.SessionPresetRequest) (*models.SessionResponse, error) {
		var applied bool
		resp, err := s.withSession(input.ID, func(c *controller.Controller) (controller.ChangeSet, error) {
			changed, ok, err := s.applyPresetByName(c, input.Name)
			applied = ok
			return changed, err
		})
		if err != nil {
			return nil, err
		}
		resp.Body.PresetApplied = &applied
		return resp, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "clear-session-advanced",
		Method:      http.MethodPost,
		Path:        "/api/sessions/{id}/clear-advanced",
		Summary:     "Clear Advanced Settings",
		Description: "Reset the advanced encoder settings and leave manual mode",
		Tags:        []string{"sessions"},
		Security:    withAuth(),
		Errors:      []int{401, 404},
	}, func(_ context.Context, input *models.SessionPathInput) (*models.SessionResponse, error) {
		return s.withSession(input.ID, func(c *controller.Controller) (controller.ChangeSet, error) {
			return c.ClearAdvancedSettings(), nil
		})
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "delete-session",
		Method:      http.MethodDelete,
		Path:        "/api/sessions/{id}",
		Summary:     "Delete Session",
		Description: "Close a configuration session",
		Tags:        []string{"sessions"},
		Security:    withAuth(),
		Errors:      []int{401, 404},
	}, func(_ context.Context, input *models.SessionPathInput) (*struct{}, error) {
		if err := s.sessions.Delete(input.ID); err != nil {
			return nil, s.mapError(err)
		}
		return &struct{}{}, nil
	})
}

// taskOf returns a copy of the session's task.
func taskOf(sess *Session) *task.EncodingTask {
	var t *task.EncodingTask
	sess.Do(func(c *controller.Controller) { t = c.Task() })
	return t
}
