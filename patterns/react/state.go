package react

// State is the position of a controller in its loop.
type State string

const (
	// StateThinking means the controller waits for the next completion.
	StateThinking State = "thinking"

	// StateActing means a tool is running for the active subtask.
	StateActing State = "acting"

	// StateDone means the run produced its output.
	StateDone State = "done"

	// StateAborted means the run stopped on the subtask budget, a backend
	// failure or a cancelled context.
	StateAborted State = "aborted"
)

// String returns the string representation of the State.
func (s State) String() string {
	return string(s)
}

// Terminal reports whether no further step follows s.
func (s State) Terminal() bool {
	return s == StateDone || s == StateAborted
}
