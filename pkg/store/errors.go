package store

import (
	"errors"
	"fmt"
)

var (
	// ErrCorrupt marks an existing output file that cannot be parsed as a
	// response log. Operators must repair or move the file before restarting.
	ErrCorrupt = errors.New("store: corrupt response log")
	// ErrRead marks an output file that exists but cannot be read.
	ErrRead = errors.New("store: read failed")
	// ErrWrite marks a failed append. The previous log is left intact.
	ErrWrite = errors.New("store: write failed")
)

// Error carries the failing operation and path alongside one of the sentinel
// kinds above.
type Error struct {
	Op   string
	Path string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store: %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap exposes both the sentinel kind and the underlying cause to errors.Is.
func (e *Error) Unwrap() []error {
	return []error{e.Kind, e.Err}
}
