package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"

	"github.com/smazurov/encodecfg/internal/api/models"
	"github.com/smazurov/encodecfg/internal/events"
)

// registerEventRoutes registers the SSE stream of bus events.
func (s *Server) registerEventRoutes() {
	sse.Register(s.api, huma.Operation{
		OperationID: "events-stream",
		Method:      http.MethodGet,
		Path:        "/api/events",
		Summary:     "Server-Sent Events Stream",
		Description: "Real-time stream of setting changes, task changes, preset applications and closed sessions",
		Tags:        []string{"events"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, map[string]any{
		"connected":       models.ConnectedEvent{},
		"setting-changed": events.SettingChangedEvent{},
		"task-changed":    events.TaskChangedEvent{},
		"preset-applied":  events.PresetAppliedEvent{},
		"session-closed":  events.SessionClosedEvent{},
	}, func(ctx context.Context, _ *struct{}, send sse.Sender) {
		eventCh := make(chan any, 32)

		if bus := s.options.EventBus; bus != nil {
			unsubscribers := []func(){
				events.SubscribeToChannel[events.SettingChangedEvent](bus, eventCh),
				events.SubscribeToChannel[events.TaskChangedEvent](bus, eventCh),
				events.SubscribeToChannel[events.PresetAppliedEvent](bus, eventCh),
				events.SubscribeToChannel[events.SessionClosedEvent](bus, eventCh),
			}
			defer func() {
				for _, unsub := range unsubscribers {
					unsub()
				}
			}()
		}

		if err := send.Data(models.ConnectedEvent{
			Message:   "SSE connection established",
			Timestamp: time.Now().Format(time.RFC3339),
		}); err != nil {
			return
		}

		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-eventCh:
				if err := send.Data(ev); err != nil {
					return
				}
			}
		}
	})
}
