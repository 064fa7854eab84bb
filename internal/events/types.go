package events

// Event type constants for kelindar/event.
const (
	TypeSettingChanged uint32 = iota + 1
	TypeTaskChanged
	TypePresetApplied
	TypeSessionClosed
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// SettingChangedEvent is published when a user setting changes value.
type SettingChangedEvent struct {
	Key       string `json:"key" example:"quality_step" doc:"Setting key"`
	Value     any    `json:"value" doc:"New value"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for SettingChangedEvent.
func (e SettingChangedEvent) Type() uint32 { return TypeSettingChanged }

// TaskChangedEvent is published after a setter's cascade has completed.
type TaskChangedEvent struct {
	SessionID string   `json:"session_id" example:"3f6c2a1e" doc:"Configuration session"`
	Fields    []string `json:"fields" example:"[\"encoder\",\"quality\"]" doc:"Changed fields"`
	Timestamp string   `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for TaskChangedEvent.
func (e TaskChangedEvent) Type() uint32 { return TypeTaskChanged }

// PresetAppliedEvent is published when a preset is applied to a session.
type PresetAppliedEvent struct {
	SessionID string `json:"session_id" example:"3f6c2a1e" doc:"Configuration session"`
	Preset    string `json:"preset" example:"Fast 1080p30" doc:"Preset name"`
	Applied   bool   `json:"applied" doc:"False when the preset carried no task"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for PresetAppliedEvent.
func (e PresetAppliedEvent) Type() uint32 { return TypePresetApplied }

// SessionClosedEvent is published when a configuration session is deleted.
type SessionClosedEvent struct {
	SessionID string `json:"session_id" example:"3f6c2a1e" doc:"Configuration session"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for SessionClosedEvent.
func (e SessionClosedEvent) Type() uint32 { return TypeSessionClosed }
