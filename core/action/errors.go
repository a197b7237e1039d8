package action

import "errors"

var (
	// ErrSyntax marks a payload that could not be read at all: broken JSON, a
	// non-object document, or malformed tagged markup.
	ErrSyntax = errors.New("toolloop: action syntax error")

	// ErrSchema marks a payload that was read but does not have the shape of
	// an action descriptor.
	ErrSchema = errors.New("toolloop: action schema violation")
)
