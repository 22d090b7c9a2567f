package syntax

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSyntax is matched by every [*Error] returned from [Validate].
	ErrSyntax = errors.New("syntax error")

	// ErrInternal indicates that an expression which passed [Validate]
	// could not be parsed. It signals a bug, not bad input.
	ErrInternal = errors.New("internal error")
)

// Error describes the first problem found in a rule expression.
type Error struct {
	// Expr is the expression as it was given.
	Expr string
	// Reason is a short description of the problem.
	Reason string
	// Index is the 0-based offending character index, or -1 when the
	// problem is not tied to a single character.
	Index int
}

func newError(expr string, index int, reason string) *Error {
	return &Error{Expr: expr, Index: index, Reason: reason}
}

func (e *Error) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%q: %s", e.Expr, e.Reason)
	}

	return fmt.Sprintf("%q: %s at position %d", e.Expr, e.Reason, e.Index+1)
}

// Is reports whether target is [ErrSyntax].
func (e *Error) Is(target error) bool {
	return target == ErrSyntax
}

// Pointer renders the expression with a caret under the offending character.
// It returns only the expression when no character is at fault.
func (e *Error) Pointer() string {
	if e.Index < 0 {
		return e.Expr
	}

	return e.Expr + "\n" + strings.Repeat(" ", e.Index) + "^"
}
