package prompt

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("prompt: aborted")
	// ErrTooManyAttempts is returned when a field kept failing validation
	// beyond the configured attempt budget.
	ErrTooManyAttempts = errors.New("prompt: too many invalid answers")
)
