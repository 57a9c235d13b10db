package domain

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrInvalidAmount is returned when a negative amount is passed where only
// non-negative values make sense (deposits, withdrawals).
var ErrInvalidAmount = errors.New("amount must not be negative")

// ParseError describes a malformed order or seed line. It is recoverable:
// the offending line is rejected and no state changes.
type ParseError struct {
	// Line number in the source, zero when parsing a single user-typed line.
	Line int
	// Input the raw text that failed to parse.
	Input string
	// Reason why parsing failed.
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: bad input %q: %s", e.Line, e.Input, e.Reason)
	}
	return fmt.Sprintf("bad input %q: %s", e.Input, e.Reason)
}
