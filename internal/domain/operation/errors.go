package operation

import "errors"

// The two user-visible failure kinds. Every other cause is wrapped in
// ErrInvalidRequest so the HTTP layer only ever reports one of these.
var (
	ErrOperationCount = errors.New("exactly one operation is required")
	ErrInvalidRequest = errors.New("invalid request")
)

// Invalid wraps cause as an ErrInvalidRequest while keeping it reachable
// through errors.Is / errors.As for logging.
func Invalid(op string, cause error) error {
	if cause == nil {
		return &Error{Op: op, Kind: ErrInvalidRequest}
	}
	return &Error{Op: op, Kind: ErrInvalidRequest, Cause: cause}
}

// Error carries the failing step, its user-visible kind, and the underlying cause.
type Error struct {
	Op    string
	Kind  error
	Cause error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Op + ": " + e.Kind.Error()
	}
	return e.Op + ": " + e.Kind.Error() + ": " + e.Cause.Error()
}

// Unwrap exposes both the kind and the cause to errors.Is.
func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}
