package fetch

import (
	"context"
	"fmt"

	"careersync-engine/internal/domain"
)

// Fetcher is the contract every vendor adapter implements: drain the
// vendor's career API and return the currently open postings, normalized.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context) ([]domain.Posting, error)
}

// FetchError wraps a failed vendor fetch: HTTP failure, an unparsable
// payload, or a failure code embedded in the response body. It aborts the
// run; the sheets stay untouched because no write happens before the fetch.
type FetchError struct {
	Vendor string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s fetch: %v", e.Vendor, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Errf builds a FetchError from a format string.
func Errf(vendor, format string, args ...any) *FetchError {
	return &FetchError{Vendor: vendor, Err: fmt.Errorf(format, args...)}
}
