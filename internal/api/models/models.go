package models

import (
	"time"

	"github.com/smazurov/encodecfg/internal/controller"
	"github.com/smazurov/encodecfg/internal/encoders"
	"github.com/smazurov/encodecfg/internal/logging"
	"github.com/smazurov/encodecfg/internal/task"
)

// Health check models
type HealthData struct {
	Status  string `json:"status" example:"ok" doc:"Service status"`
	Message string `json:"message" example:"API is healthy" doc:"Status message"`
}

type HealthResponse struct {
	Body HealthData
}

// Version models
type VersionData struct {
	Version   string `json:"version" example:"1.0.0" doc:"Application version"`
	GitCommit string `json:"git_commit" example:"abc1234" doc:"Git commit hash"`
	BuildDate string `json:"build_date" example:"2025-01-27T10:30:00Z" doc:"Build timestamp"`
	BuildID   string `json:"build_id" example:"42" doc:"Build identifier"`
	GoVersion string `json:"go_version" example:"go1.24.0" doc:"Go runtime version"`
	Compiler  string `json:"compiler" example:"gc" doc:"Go compiler"`
	Platform  string `json:"platform" example:"linux/amd64" doc:"Operating system and architecture"`
}

type VersionResponse struct {
	Body VersionData
}

// Encoder models
type EncodersRequest struct {
	Search  string `query:"search" example:"x26" doc:"Filter by name or description"`
	Hwaccel bool   `query:"hwaccel" doc:"Only hardware accelerated encoders"`
}

type EncoderData struct {
	Encoders    []encoders.Encoder `json:"encoders" doc:"Video encoders with slider bounds"`
	QualityStep float64            `json:"quality_step" example:"0.25" doc:"Step the bounds were computed for"`
	Count       int                `json:"count" example:"7" doc:"Number of encoders"`
}

type EncodersResponse struct {
	Body EncoderData
}

// Preset models
type PresetListData struct {
	Presets []task.Preset `json:"presets" doc:"Presets sorted by category, then name"`
	Count   int           `json:"count" example:"10" doc:"Number of presets"`
}

type PresetListResponse struct {
	Body PresetListData
}

type PresetResponse struct {
	Body task.Preset
}

type PresetPathInput struct {
	Name string `path:"name" example:"Fast 1080p30" doc:"Preset name"`
}

// Session models
type SessionData struct {
	ID             string           `json:"id" example:"0d8e4c52-58f0-4e8a-9f3b-1f0b4f2b1f6a" doc:"Session identifier"`
	CreatedAt      time.Time        `json:"created_at" doc:"When the session was created"`
	State          controller.State `json:"state" doc:"Task and derived controller state"`
	Changed        []string         `json:"changed,omitempty" example:"[\"encoder\",\"quality_bounds\"]" doc:"Fields changed by the request"`
	AdvancedResets int              `json:"advanced_resets" example:"0" doc:"Times structured edits discarded cached advanced options"`
	PresetApplied  *bool            `json:"preset_applied,omitempty" doc:"Whether the requested preset carried a task"`
}

type SessionResponse struct {
	Body SessionData
}

type SessionListData struct {
	Sessions []SessionData `json:"sessions" doc:"Open sessions"`
	Count    int           `json:"count" example:"1" doc:"Number of open sessions"`
}

type SessionListResponse struct {
	Body SessionListData
}

type SessionPathInput struct {
	ID string `path:"id" doc:"Session identifier"`
}

type SessionCreateData struct {
	Preset  string        `json:"preset,omitempty" example:"HQ 1080p30" doc:"Preset to apply to the new session"`
	Changes *SessionPatch `json:"changes,omitempty" doc:"Edits applied after the preset"`
}

type SessionCreateRequest struct {
	Body SessionCreateData
}

// SessionPatch is a partial edit. Present fields are applied through the
// controller in declaration order, which follows the cascade order.
type SessionPatch struct {
	Encoder         *string  `json:"encoder,omitempty" example:"x265" doc:"Video encoder"`
	RateControl     *string  `json:"rate_control,omitempty" example:"constant_quality" doc:"constant_quality or average_bitrate"`
	QualitySlider   *int     `json:"quality_slider,omitempty" example:"116" doc:"Normalized quality slider position"`
	Quality         *float64 `json:"quality,omitempty" example:"22" doc:"Native quality of the encoder"`
	Bitrate         *int     `json:"bitrate,omitempty" example:"6000" doc:"Average bitrate in kbps, 0 clears it"`
	TwoPass         *bool    `json:"two_pass,omitempty" doc:"Two-pass encoding"`
	TurboFirstPass  *bool    `json:"turbo_first_pass,omitempty" doc:"Faster first pass"`
	FramerateMode   *string  `json:"framerate_mode,omitempty" example:"peak" doc:"constant, variable or peak"`
	TargetFramerate *float64 `json:"target_framerate,omitempty" example:"30" doc:"Target framerate, 0 means same as source"`
	Width           *int     `json:"width,omitempty" example:"1920" doc:"Source width"`
	Height          *int     `json:"height,omitempty" example:"1080" doc:"Source height"`
	X264Preset      *int     `json:"x264_preset,omitempty" example:"5" doc:"x264 preset index"`
	X264Tune        *string  `json:"x264_tune,omitempty" example:"Film" doc:"x264 tune"`
	FastDecode      *bool    `json:"fast_decode,omitempty" doc:"x264 fast decode"`
	H264Profile     *string  `json:"h264_profile,omitempty" example:"High" doc:"H.264 profile"`
	H264Level       *string  `json:"h264_level,omitempty" example:"4.1" doc:"H.264 level"`
	X265Preset      *int     `json:"x265_preset,omitempty" example:"4" doc:"x265 preset index"`
	X265Tune        *string  `json:"x265_tune,omitempty" example:"Grain" doc:"x265 tune"`
	H265Profile     *string  `json:"h265_profile,omitempty" example:"Main 10" doc:"H.265 profile"`
	QsvPreset       *string  `json:"qsv_preset,omitempty" example:"Balanced" doc:"Hardware preset"`
	ExtraArguments  *string  `json:"extra_arguments,omitempty" example:"ref=4" doc:"Extra encoder options"`
	ManualAdvanced  *bool    `json:"manual_advanced,omitempty" doc:"Edit advanced options by hand"`
	AdvancedOptions *string  `json:"advanced_options,omitempty" example:"preset=slow:ref=4" doc:"Manual advanced options"`
}

type SessionPatchRequest struct {
	ID   string `path:"id" doc:"Session identifier"`
	Body SessionPatch
}

type SessionTaskRequest struct {
	ID   string `path:"id" doc:"Session identifier"`
	Body task.EncodingTask
}

type SessionPresetRequest struct {
	ID   string `path:"id" doc:"Session identifier"`
	Name string `path:"name" example:"Fast 1080p30" doc:"Preset name"`
}

type SavePresetData struct {
	Name        string `json:"name" example:"My 1080p" doc:"Preset name"`
	Category    string `json:"category,omitempty" example:"Custom" doc:"Preset category"`
	Description string `json:"description,omitempty" doc:"Preset description"`
}

type SavePresetRequest struct {
	ID   string `path:"id" doc:"Session identifier"`
	Body SavePresetData
}

// Settings models
type SettingsData struct {
	Settings map[string]any `json:"settings" doc:"Current user settings"`
}

type SettingsResponse struct {
	Body SettingsData
}

type SettingsUpdate struct {
	QualityStep     *float64 `json:"quality_step,omitempty" example:"0.5" minimum:"0.01" maximum:"51" doc:"Rate factor slider step"`
	ShowAdvancedTab *bool    `json:"show_advanced_tab,omitempty" doc:"Allow manual advanced options"`
}

type SettingsUpdateRequest struct {
	Body SettingsUpdate
}

// Log models
type LogsRequest struct {
	Limit int `query:"limit" example:"100" minimum:"0" doc:"Newest entries to return, 0 for all"`
}

type LogsData struct {
	Entries []logging.LogEntry `json:"entries" doc:"Buffered log entries, oldest first"`
	Count   int                `json:"count" example:"100" doc:"Number of entries"`
}

type LogsResponse struct {
	Body LogsData
}

type LogLevelData struct {
	Module string `json:"module" example:"controller" doc:"Logging module"`
	Level  string `json:"level" example:"debug" enum:"debug,info,warn,error" doc:"Log level"`
}

type LogLevelRequest struct {
	Body LogLevelData
}

type LogLevelResponse struct {
	Body LogLevelData
}

// ConnectedEvent is the first message on the events stream.
type ConnectedEvent struct {
	Message   string `json:"message" example:"SSE connection established" doc:"Greeting"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}
