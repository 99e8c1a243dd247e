package standard

import (
	"errors"
	"fmt"
)

// Format errors. Parse wraps these in a *FormatError carrying the line number.
var (
	ErrUnknownHeading = errors.New("no rule defined for heading level")
	ErrOrphanContent  = errors.New("filling a missing tag")
	ErrDuplicateTitle = errors.New("title is already defined")
	ErrNoTitle        = errors.New("no title")
)

// FormatError reports a malformed standard document.
// Line is 1-based; it is 0 for errors detected after the last line.
type FormatError struct {
	Line int
	Err  error
}

func (e *FormatError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("standard: %v", e.Err)
	}
	return fmt.Sprintf("standard: line %d: %v", e.Line, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
