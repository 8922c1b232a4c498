package reconcile

import (
	"errors"
	"fmt"

	"github.com/containerd/errdefs"
)

var (
	ErrNotFound     = fmt.Errorf("not_found: %w", errdefs.ErrNotFound)
	ErrAmbiguousKey = fmt.Errorf("ambiguous_key: %w", errdefs.ErrFailedPrecondition)
	ErrInconsistent = fmt.Errorf("internal_consistency: %w", errdefs.ErrInternal)
	ErrStore        = fmt.Errorf("store_failure: %w", errdefs.ErrUnavailable)
)

// Error ties a reconcile failure to the aggregate it concerns. Err is one of
// the package sentinels; Cause, when set, is the underlying store diagnostic.
type Error struct {
	Kind  string
	Key   string
	Err   error
	Cause error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s %q: %v", e.Kind, e.Key, e.Err)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

func newError(kind, key string, sentinel, cause error) *Error {
	return &Error{Kind: kind, Key: key, Err: sentinel, Cause: cause}
}

// IsNotFound reports whether err carries ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
