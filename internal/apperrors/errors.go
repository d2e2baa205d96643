package apperrors

import (
	"errors"
	"fmt"
)

// Ingestion errors represent failures turning the spreadsheet export into a
// normalized dataset. All of them abort the whole load; nothing renders
// except the error message.
var (
	// ErrMalformedLocator indicates the spreadsheet locator does not contain
	// the expected /d/<id> identifier segment. No fetch is attempted.
	ErrMalformedLocator = errors.New("spreadsheet locator is missing the /d/<id> segment")

	// ErrMissingDateColumn indicates the required 기준일자 column is absent.
	// Every downstream view groups by date, so the column is mandatory.
	ErrMissingDateColumn = errors.New("required date column is missing")

	// ErrUnparsableDate indicates a row carried a date value that could not
	// be parsed. A single bad date fails the whole load: silent partial loss
	// on the temporal axis is worse than a full failure.
	ErrUnparsableDate = errors.New("unparsable date value")
)

// Business logic errors represent validation failures or constraint
// violations on caller input.
var (
	// ErrInvalidDateRange indicates start_date is after end_date.
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrUnknownGroupBy indicates an allocation grouping key that is not one
	// of the classification columns.
	ErrUnknownGroupBy = errors.New("unknown group-by column")
)

// Editor session errors.
var (
	// ErrSessionNotFound indicates that an editor session with the given ID
	// does not exist or has been purged.
	ErrSessionNotFound = errors.New("editor session not found")

	// ErrInvalidSessionToken indicates a session token that failed
	// verification or has expired.
	ErrInvalidSessionToken = errors.New("invalid or expired session token")
)

// FetchError wraps any transport, HTTP-status or CSV-parse failure while
// retrieving the spreadsheet export. It is fatal for the current load
// attempt only; the caller may retry by re-invoking ingestion.
type FetchError struct {
	Cause error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch spreadsheet export: %v", e.Cause)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// NewFetchError wraps cause in a FetchError.
func NewFetchError(cause error) *FetchError {
	return &FetchError{Cause: cause}
}

// IsFetchError reports whether err is (or wraps) a FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}
