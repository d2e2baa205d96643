package model

import "time"

// DateRange is an inclusive [Start, End] filter over Row.AsOfDate.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the range, boundaries included.
func (dr DateRange) Contains(t time.Time) bool {
	return !t.Before(dr.Start) && !t.After(dr.End)
}

// ScopedView is the row subset visible to a given credential, plus the
// display label for that subset and the caller-visible access indicators.
type ScopedView struct {
	Rows  []Row  `json:"rows"`
	Label string `json:"label"` // Owner name, 공동 for guests, 전체 for the unfiltered admin view

	// Authenticated is true only when the supplied credential exactly
	// matched the admin secret.
	Authenticated bool `json:"authenticated"`

	// WrongCredential is true when a non-empty credential was supplied but
	// did not match. The visible rows are identical to the no-credential
	// case; only this indicator differs.
	WrongCredential bool `json:"wrongCredential"`

	// Owners holds the distinct owner values found in the dataset,
	// prefixed with the 전체 sentinel. Populated only for authenticated
	// callers so they can narrow to a single owner.
	Owners []string `json:"owners,omitempty"`
}

// Summary aggregates the latest-date slice of a scoped view.
type Summary struct {
	AsOf             string  `json:"asOf"` // Latest date in the view, YYYY-MM-DD
	TotalMarketValue float64 `json:"totalMarketValue"`
	TotalPrincipal   float64 `json:"totalPrincipal"`
	TotalGain        float64 `json:"totalGain"`     // Recomputed: market value - principal
	ReportedGain     float64 `json:"reportedGain"`  // Sum of the sheet's 평가손익 column
	ROIPercent       float64 `json:"roiPercent"`    // TotalGain / TotalPrincipal * 100
	HasData          bool    `json:"hasData"`
}

// AllocationEntry is one group in an allocation breakdown, e.g. all rows
// sharing a theme or broker on the latest date.
type AllocationEntry struct {
	Key         string  `json:"key"`
	MarketValue float64 `json:"marketValue"`
	Principal   float64 `json:"principal"`
}

// TimelinePoint is the per-date sum of market value and principal across a
// scoped view, used for the growth chart.
type TimelinePoint struct {
	Date        string  `json:"date"` // YYYY-MM-DD
	MarketValue float64 `json:"marketValue"`
	Principal   float64 `json:"principal"`
}
