package ingestion_engine

import (
	"errors"
	"fmt"
)

// Kind is the coarse failure class surfaced to callers.
type Kind string

const (
	KindInvalidSource Kind = "INVALID_SOURCE"
	KindNoRegion      Kind = "NO_DMP_REGION"
	KindInternal      Kind = "INTERNAL_ERROR"
)

// Error is a fatal pipeline failure. Reason is the user-facing message;
// Err keeps the underlying cause for logs and errors.Is.
type Error struct {
	Kind   Kind
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func invalidSource(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidSource, Reason: fmt.Sprintf(format, args...)}
}

func noRegion() *Error {
	return &Error{Kind: KindNoRegion, Reason: "no DMP start anchor or numbered section header found"}
}

// internalError wraps err unless it already carries a kind, so the original
// message is kept exactly once.
func internalError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: KindInternal, Reason: err.Error(), Err: err}
}

// KindOf reports the kind of err; untyped errors count as internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
