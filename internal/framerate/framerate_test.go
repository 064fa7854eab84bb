package framerate

import (
	"testing"

	"github.com/smazurov/encodecfg/internal/types"
)

func rate(v float64) *float64 { return &v }

func activeModes(s *State) int {
	n := 0
	for _, on := range []bool{s.IsConstant(), s.IsVariable(), s.IsPeak()} {
		if on {
			n++
		}
	}
	return n
}

func TestZeroValueIsVariable(t *testing.T) {
	var s State
	if !s.IsVariable() {
		t.Errorf("zero State should be variable, got %s", s.Current())
	}
}

func TestSet(t *testing.T) {
	tests := []struct {
		name    string
		start   types.FramerateMode
		mode    types.FramerateMode
		on      bool
		want    types.FramerateMode
		changed bool
	}{
		{"enter constant", types.FramerateVariable, types.FramerateConstant, true, types.FramerateConstant, true},
		{"enter peak", types.FramerateConstant, types.FrameratePeak, true, types.FrameratePeak, true},
		{"re-enter active", types.FrameratePeak, types.FrameratePeak, true, types.FrameratePeak, false},
		{"turn off active is no-op", types.FramerateConstant, types.FramerateConstant, false, types.FramerateConstant, false},
		{"turn off inactive is no-op", types.FramerateConstant, types.FramerateVariable, false, types.FramerateConstant, false},
		{"unknown mode ignored", types.FramerateConstant, types.FramerateMode("bogus"), true, types.FramerateConstant, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := State{Mode: tt.start}
			changed := s.Set(tt.mode, tt.on)
			if s.Current() != tt.want {
				t.Errorf("mode = %s, want %s", s.Current(), tt.want)
			}
			if changed != tt.changed {
				t.Errorf("changed = %v, want %v", changed, tt.changed)
			}
		})
	}
}

func TestSetTarget(t *testing.T) {
	s := State{Mode: types.FramerateVariable}

	if !s.SetTarget(rate(30)) {
		t.Fatal("setting explicit rate should report a change")
	}
	if !s.IsPeak() {
		t.Errorf("explicit rate in variable mode should move to peak, got %s", s.Current())
	}

	s.SetTarget(nil)
	if !s.IsVariable() {
		t.Errorf("same as source in peak mode should move to variable, got %s", s.Current())
	}

	s = State{Mode: types.FramerateConstant}
	s.SetTarget(rate(25))
	if !s.IsConstant() || s.Target == nil || *s.Target != 25 {
		t.Errorf("constant mode should keep mode and store rate, got %s %v", s.Current(), s.Target)
	}
	if s.SetTarget(rate(25)) {
		t.Error("setting the same rate should not report a change")
	}
}

func TestForceConstant(t *testing.T) {
	s := State{Mode: types.FrameratePeak, Target: rate(60)}
	if !s.ForceConstant() {
		t.Fatal("ForceConstant should report a change")
	}
	if !s.IsConstant() || s.Target != nil {
		t.Errorf("got %s target %v, want constant with no target", s.Current(), s.Target)
	}
	if s.ForceConstant() {
		t.Error("second ForceConstant should be a no-op")
	}
}

func TestExactlyOneModeAfterAnySequence(t *testing.T) {
	ops := []func(*State){
		func(s *State) { s.Set(types.FramerateConstant, true) },
		func(s *State) { s.Set(types.FramerateConstant, false) },
		func(s *State) { s.Set(types.FramerateVariable, true) },
		func(s *State) { s.Set(types.FramerateVariable, false) },
		func(s *State) { s.Set(types.FrameratePeak, true) },
		func(s *State) { s.Set(types.FrameratePeak, false) },
		func(s *State) { s.SetTarget(nil) },
		func(s *State) { s.SetTarget(rate(29.97)) },
		func(s *State) { s.ForceConstant() },
	}
	starts := []types.FramerateMode{types.FramerateConstant, types.FramerateVariable, types.FrameratePeak}

	var run func(s State, depth int)
	run = func(s State, depth int) {
		if depth == 3 {
			return
		}
		for _, op := range ops {
			next := s.Clone()
			op(&next)
			if n := activeModes(&next); n != 1 {
				t.Fatalf("%d modes active after sequence, state %+v", n, next)
			}
			run(next, depth+1)
		}
	}

	for _, start := range starts {
		run(State{Mode: start}, 0)
	}
}

func TestClone(t *testing.T) {
	s := State{Mode: types.FrameratePeak, Target: rate(30)}
	c := s.Clone()
	*c.Target = 60
	if *s.Target != 30 {
		t.Error("Clone should not share the target pointer")
	}
}
