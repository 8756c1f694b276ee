// Package apperr implements the error taxonomy of §7: a small closed set of
// kinds that the adapter maps to transport status codes, not a type per
// error site.
package apperr

import "fmt"

// Kind is one of the error kinds named in §7.
type Kind int

const (
	// BadRequest: malformed square, missing field.
	BadRequest Kind = iota
	// NotFound: no such match, no piece at square.
	NotFound
	// ForbiddenState: operation not allowed in current match phase.
	ForbiddenState
	// ForbiddenActor: wrong user or wrong color for the piece.
	ForbiddenActor
	// InternalError: invariant violation; the only kind logged at error level.
	InternalError
)

func (k Kind) String() string {
	switch k {
	case BadRequest:
		return "BadRequest"
	case NotFound:
		return "NotFound"
	case ForbiddenState:
		return "ForbiddenState"
	case ForbiddenActor:
		return "ForbiddenActor"
	case InternalError:
		return "InternalError"
	default:
		return "Unknown"
	}
}

// StatusCode returns the transport HTTP status for a Kind (§7's 400/403/
// 404/500 mapping).
func (k Kind) StatusCode() int {
	switch k {
	case BadRequest:
		return 400
	case ForbiddenState, ForbiddenActor:
		return 403
	case NotFound:
		return 404
	case InternalError:
		return 500
	default:
		return 500
	}
}

// Error is the concrete error type carried across the engine/adapter
// boundary. Note "Ignored" from §7 is deliberately NOT a Kind here: it is
// not an error at all, it is a legality-check-failed success (see
// match.Match.Move's bool return), absorbed entirely within the match
// package and never surfaced to the transport layer.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New constructs an Error of the given kind.
func New(kind Kind, msg string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(msg, args...)}
}

// Wrap attaches a kind to an underlying error.
func Wrap(kind Kind, err error, msg string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(msg, args...), Err: err}
}
