package models

import (
	"errors"
	"fmt"
)

// ErrQuotaExhausted signals that the daily search API quota was reached
// mid-run. It halts further query dispatch but is not fatal to the run.
var ErrQuotaExhausted = errors.New("daily search quota exhausted")

// SearchError records the failure of a single query. The batch as a whole
// continues; these are aggregated into the run summary.
type SearchError struct {
	Query Query
	Err   error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("search %s for %q: %v", e.Query.Site.Domain, e.Query.Term, e.Err)
}

func (e *SearchError) Unwrap() error { return e.Err }

// ExtractionError records a single page fetch or parse failure. The
// affected posting is dropped; the batch continues.
type ExtractionError struct {
	URL string
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.URL, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }
