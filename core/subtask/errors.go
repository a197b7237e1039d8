package subtask

import "errors"

var (
	// ErrToolNotFound means the action names a tool the origin does not offer.
	ErrToolNotFound = errors.New("toolloop: tool not found")

	// ErrActivityNotFound means the action path is empty or unknown to the tool.
	ErrActivityNotFound = errors.New("toolloop: action path not found")

	// ErrNotAttached is returned by operations that need an origin before
	// [Subtask.Attach] was called.
	ErrNotAttached = errors.New("toolloop: subtask is not attached")

	// ErrAlreadyAttached is returned when attaching a subtask twice.
	ErrAlreadyAttached = errors.New("toolloop: subtask is already attached")

	// ErrSubtaskNotFound is returned by origins for unknown subtask ids.
	ErrSubtaskNotFound = errors.New("toolloop: subtask not found")
)
