package upstream

import (
	"errors"
	"fmt"
)

// Kind classifies why a fetch failed.
type Kind string

const (
	// KindTransport covers connection and protocol failures.
	KindTransport Kind = "transport"
	// KindStatus means the provider answered with a non-2xx status.
	KindStatus Kind = "status"
	// KindDecode means the body was not a JSON object.
	KindDecode Kind = "decode"
	// KindProvider means the provider reported an error inside a 2xx body.
	KindProvider Kind = "provider"
	// KindCanceled means the caller's context ended first.
	KindCanceled Kind = "canceled"
)

// Error is returned by every Fetcher. The cause is kept for diagnostics.
type Error struct {
	Kind       Kind
	Provider   string
	StatusCode int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("upstream %s [%s]: %s", e.Provider, e.Kind, e.Message)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(kind Kind, provider, message string, cause error) *Error {
	return &Error{
		Kind:     kind,
		Provider: provider,
		Message:  message,
		Cause:    cause,
	}
}

// KindOf extracts the Kind of an upstream error, or "" for other errors.
func KindOf(err error) Kind {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Kind
	}
	return ""
}
