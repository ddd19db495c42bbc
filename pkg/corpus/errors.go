package corpus

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyLevel     = errors.New("level has no columns")
	ErrMalformedLevel = errors.New("malformed level")

	// ErrNoStartSlice and ErrNoEndSlice are fatal: generation cannot begin without them.
	ErrNoStartSlice = errors.New("corpus has no start slice")
	ErrNoEndSlice   = errors.New("corpus has no end slice")
)

// ParseError describes one rejected example level. Ingestion of the rest of the corpus continues.
type ParseError struct {
	File   string
	Line   int // 1-based, 0 when the error is not tied to a line
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	where := e.File
	if where == "" {
		where = "<input>"
	}
	if e.Line > 0 {
		where = fmt.Sprintf("%s:%d", where, e.Line)
	}
	if e.Reason == "" {
		return fmt.Sprintf("corpus %s: %v", where, e.Err)
	}
	return fmt.Sprintf("corpus %s: %v: %s", where, e.Err, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }
