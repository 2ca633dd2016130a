package speech

// State represents the controller's position in its lifecycle.
type State int

const (
	// StateIdle means nothing is being generated or played.
	StateIdle State = iota
	// StateGenerating means a synthesis request is outstanding.
	StateGenerating
	// StatePlaying means audio is being played back.
	StatePlaying
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateGenerating:
		return "generating"
	case StatePlaying:
		return "playing"
	default:
		return "unknown"
	}
}

// StateMachine guards controller state transitions. Cache hits skip the
// generating state; every failure path returns to idle.
type StateMachine struct {
	current     State
	transitions map[State][]State
}

// NewStateMachine creates a state machine starting at idle.
func NewStateMachine() *StateMachine {
	return &StateMachine{
		current: StateIdle,
		transitions: map[State][]State{
			StateIdle:       {StateGenerating, StatePlaying},
			StateGenerating: {StatePlaying, StateIdle},
			StatePlaying:    {StateIdle},
		},
	}
}

// Transition attempts to move to the given state, returning false if the
// move is not allowed from the current state.
func (sm *StateMachine) Transition(to State) bool {
	if sm.current == to {
		return true
	}
	for _, next := range sm.transitions[sm.current] {
		if next == to {
			sm.current = to
			return true
		}
	}
	return false
}

// Current returns the current state.
func (sm *StateMachine) Current() State {
	return sm.current
}
