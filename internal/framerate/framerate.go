// Package framerate holds the mutually exclusive output framerate mode and
// the optional target rate.
package framerate

import "github.com/smazurov/encodecfg/internal/types"

// State is the framerate configuration of a task. The zero value is
// variable framerate, same as source.
type State struct {
	Mode   types.FramerateMode `toml:"mode,omitempty" json:"mode"`
	Target *float64            `toml:"target,omitempty" json:"target,omitempty"` // nil means same as source
}

// Current returns the active mode, treating an unset mode as variable.
func (s *State) Current() types.FramerateMode {
	if s.Mode == "" {
		return types.FramerateVariable
	}
	return s.Mode
}

func (s *State) IsConstant() bool { return s.Current() == types.FramerateConstant }
func (s *State) IsVariable() bool { return s.Current() == types.FramerateVariable }
func (s *State) IsPeak() bool     { return s.Current() == types.FrameratePeak }

// Set turns a mode on or off. Turning a mode on clears the other two.
// Turning a mode off is a no-op, so exactly one mode stays active.
// Returns true when the active mode changed.
func (s *State) Set(mode types.FramerateMode, on bool) bool {
	if !on || s.Current() == mode {
		return false
	}
	switch mode {
	case types.FramerateConstant, types.FramerateVariable, types.FrameratePeak:
		s.Mode = mode
		return true
	}
	return false
}

// SetTarget sets the target framerate. Choosing same as source (nil) while
// in peak mode falls back to variable; choosing an explicit rate while in
// variable mode moves to peak. Returns true when mode or target changed.
func (s *State) SetTarget(target *float64) bool {
	changed := !equalRate(s.Target, target)
	s.Target = copyRate(target)

	switch {
	case target == nil && s.IsPeak():
		s.Mode = types.FramerateVariable
		changed = true
	case target != nil && s.IsVariable():
		s.Mode = types.FrameratePeak
		changed = true
	}
	return changed
}

// ForceConstant selects constant mode and same-as-source rate, as required
// by the hardware encoder. Returns true when anything changed.
func (s *State) ForceConstant() bool {
	changed := s.Target != nil || !s.IsConstant()
	s.Mode = types.FramerateConstant
	s.Target = nil
	return changed
}

// Clone returns a copy that shares no memory with s.
func (s State) Clone() State {
	return State{Mode: s.Mode, Target: copyRate(s.Target)}
}

func equalRate(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func copyRate(r *float64) *float64 {
	if r == nil {
		return nil
	}
	v := *r
	return &v
}
