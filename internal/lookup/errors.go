package lookup

import (
	"context"
	"errors"
	"fmt"

	"github.com/leozw/whois-lookup/internal/upstream"
)

var (
	// ErrInvalidRequest matches every request validation failure.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUpstream matches every failure to obtain the upstream document.
	ErrUpstream = errors.New("upstream error")
)

// InvalidRequestError names the offending field. No upstream call has been
// made when it is returned.
type InvalidRequestError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *InvalidRequestError) Is(target error) bool {
	return target == ErrInvalidRequest
}

// UpstreamError wraps the fetch failure for a domain. The *upstream.Error
// cause stays reachable through errors.As.
type UpstreamError struct {
	Domain string
	Err    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("lookup %s: %v", e.Domain, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}

// Timeout reports whether the upstream deadline expired.
func (e *UpstreamError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// Kind is the upstream failure kind, or "" when the cause is not classified.
func (e *UpstreamError) Kind() upstream.Kind {
	return upstream.KindOf(e.Err)
}
