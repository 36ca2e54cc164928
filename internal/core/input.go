package core

// Action represents a semantic game action, abstracted from physical key presses.
type Action int

const (
	ActionNone     Action = iota
	ActionLeft            // A, H, Left arrow
	ActionRight           // D, L, Right arrow
	ActionRotate          // W, K, Up arrow
	ActionSoftDrop        // S, J, Down arrow
	ActionHardDrop        // Space
	ActionPause           // P
	ActionQuit            // Q, Ctrl+C
	ActionRestart         // R, after game over
	ActionConfirm         // Enter
	ActionBack            // Escape

	numActions
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionRotate:
		return "Rotate"
	case ActionSoftDrop:
		return "SoftDrop"
	case ActionHardDrop:
		return "HardDrop"
	case ActionPause:
		return "Pause"
	case ActionQuit:
		return "Quit"
	case ActionRestart:
		return "Restart"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	default:
		return "Unknown"
	}
}

// InputFrame is the set of actions triggered during one simulation tick.
// The zero value is an empty frame.
type InputFrame struct {
	bits uint32
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if a <= ActionNone || a >= numActions {
		return
	}
	f.bits |= 1 << uint(a)
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if a <= ActionNone || a >= numActions {
		return false
	}
	return f.bits&(1<<uint(a)) != 0
}

// Empty reports whether no action was triggered.
func (f InputFrame) Empty() bool {
	return f.bits == 0
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	f.bits = 0
}

// First returns the first action in order that is set, or ActionNone.
func (f InputFrame) First(order ...Action) Action {
	for _, a := range order {
		if f.Has(a) {
			return a
		}
	}
	return ActionNone
}
