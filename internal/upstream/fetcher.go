package upstream

import (
	"context"
	"errors"
)

// Fetcher retrieves the raw lookup document for a domain. Implementations
// make at most one upstream call per Fetch and never retry. The returned body
// is a JSON object whose WhoisRecord key holds the record.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, domain string) ([]byte, error)
}

// contextError converts a finished context into a canceled upstream error.
func contextError(ctx context.Context, provider string) *Error {
	err := ctx.Err()
	if err == nil {
		return nil
	}
	msg := "request canceled"
	if errors.Is(err, context.DeadlineExceeded) {
		msg = "request timed out"
	}
	return newError(KindCanceled, provider, msg, err)
}
