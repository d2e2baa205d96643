package request

import (
	"net/http"
	"time"

	"github.com/hjkwon/Asset-Dashboard-Backend/internal/model"
	"github.com/hjkwon/Asset-Dashboard-Backend/internal/validation"
)

// Open bounds for half-specified date ranges.
var (
	farPast   = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)
	farFuture = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)
)

// ViewParams carries the access and filter parameters shared by every
// dashboard endpoint.
type ViewParams struct {
	Credential string // Admin password candidate; empty means guest
	Owner      string // Secondary owner selection; only honored for admins

	// Range is the inclusive date filter. HasRange is false when the caller
	// supplied neither bound, in which case the full span applies.
	Range    model.DateRange
	HasRange bool
}

// ParseViewParams extracts the credential, owner selection and optional
// date range from a dashboard request.
//
// The credential is read from the X-Dashboard-Key header, falling back to
// the key query parameter. start_date and end_date are optional; a supplied
// bound must parse as YYYY-MM-DD (or RFC3339), and start_date must not come
// after end_date. When only one bound is supplied the other defaults to the
// far past/future so the range stays inclusive of everything else.
func ParseViewParams(r *http.Request) (*ViewParams, error) {
	params := &ViewParams{
		Credential: r.Header.Get("X-Dashboard-Key"),
		Owner:      r.URL.Query().Get("owner"),
	}
	if params.Credential == "" {
		params.Credential = r.URL.Query().Get("key")
	}

	startParam := r.URL.Query().Get("start_date")
	endParam := r.URL.Query().Get("end_date")
	if startParam == "" && endParam == "" {
		return params, nil
	}

	// Missing bounds fall back to an open end.
	params.Range = model.DateRange{
		Start: farPast,
		End:   farFuture,
	}
	params.HasRange = true

	if startParam != "" {
		start, err := validation.ParseTime(startParam)
		if err != nil {
			return nil, err
		}
		params.Range.Start = start
	}

	if endParam != "" {
		end, err := validation.ParseTime(endParam)
		if err != nil {
			return nil, err
		}
		params.Range.End = end
	}

	if err := validation.ValidateDateRange(params.Range.Start, params.Range.End); err != nil {
		return nil, err
	}

	return params, nil
}
