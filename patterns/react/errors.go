package react

import "errors"

var (
	// ErrInvalidConfig is returned by the constructors for unusable settings.
	ErrInvalidConfig = errors.New("toolloop: invalid controller configuration")

	// ErrBudgetExceeded is the error of a run that created as many subtasks
	// as it was allowed to without reaching an answer.
	ErrBudgetExceeded = errors.New("toolloop: subtask budget exceeded")
)
