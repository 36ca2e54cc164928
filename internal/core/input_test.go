package core

import "testing"

func TestInputFrame(t *testing.T) {
	f := NewInputFrame()
	if !f.Empty() {
		t.Error("new frame should be empty")
	}

	f.Set(ActionLeft)
	f.Set(ActionHardDrop)
	f.Set(ActionNone)

	if !f.Has(ActionLeft) || !f.Has(ActionHardDrop) {
		t.Error("Has() should report set actions")
	}
	if f.Has(ActionRight) || f.Has(ActionNone) {
		t.Error("Has() reported an action that was not set")
	}

	f.Clear()
	if !f.Empty() {
		t.Error("frame should be empty after Clear")
	}
}

func TestInputFrameFirst(t *testing.T) {
	tests := []struct {
		name     string
		set      []Action
		order    []Action
		expected Action
	}{
		{"none set", nil, []Action{ActionLeft, ActionRight}, ActionNone},
		{"priority wins", []Action{ActionRight, ActionQuit}, []Action{ActionQuit, ActionRight}, ActionQuit},
		{"only listed", []Action{ActionPause}, []Action{ActionLeft}, ActionNone},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var f InputFrame
			for _, a := range tc.set {
				f.Set(a)
			}
			if got := f.First(tc.order...); got != tc.expected {
				t.Errorf("First() = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestActionString(t *testing.T) {
	if ActionHardDrop.String() != "HardDrop" {
		t.Errorf("String() = %q, expected HardDrop", ActionHardDrop.String())
	}
	if Action(99).String() != "Unknown" {
		t.Errorf("String() = %q, expected Unknown", Action(99).String())
	}
}
