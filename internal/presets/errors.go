package presets

import "fmt"

// PresetError represents a preset lookup or storage failure.
type PresetError struct {
	Code    string
	Message string
	Cause   error
}

func (e *PresetError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *PresetError) Unwrap() error {
	return e.Cause
}

// Error codes
const (
	ErrCodePresetNotFound = "PRESET_NOT_FOUND"
	ErrCodePresetInvalid  = "PRESET_INVALID"
	ErrCodeConfigError    = "CONFIG_ERROR"
)

// NewPresetError creates a new preset error.
func NewPresetError(code, message string, cause error) *PresetError {
	return &PresetError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
