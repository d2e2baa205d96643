package model

import (
	"slices"
	"time"
)

// Column names exactly as they appear in the source spreadsheet header.
// The sheet is maintained in Korean; lookups compare against these strings
// after headers are trimmed.
const (
	ColDate        = "기준일자"
	ColOwner       = "주체"
	ColBroker      = "증권사"
	ColCategory    = "구분"
	ColInstrument  = "종목명"
	ColTheme       = "테마"
	ColPrincipal   = "원금"
	ColMarketValue = "평가액"
	ColGain        = "평가손익"
)

// OwnerPublic is the owner value whose rows are visible without the admin
// password. Every other owner is hidden from unauthenticated callers.
const OwnerPublic = "공동"

// OwnerAll is the selection sentinel meaning "all owners" in the admin
// owner filter. It is also the view label for the unfiltered admin view.
const OwnerAll = "전체"

// ExportColumns is the source column order. The editor's tab-separated
// write-back format follows this order exactly so rows can be pasted
// straight into the spreadsheet.
var ExportColumns = []string{
	ColDate,
	ColOwner,
	ColBroker,
	ColCategory,
	ColInstrument,
	ColTheme,
	ColPrincipal,
	ColMarketValue,
	ColGain,
}

// Row is one observation of a holding on a given date.
type Row struct {
	AsOfDate       time.Time `json:"asOfDate"`
	Owner          string    `json:"owner"`
	Broker         string    `json:"broker"`
	Category       string    `json:"category"`
	InstrumentName string    `json:"instrumentName"`
	Theme          string    `json:"theme"`
	Principal      float64   `json:"principal"`      // Invested cost basis
	MarketValue    float64   `json:"marketValue"`    // Current value
	UnrealizedGain float64   `json:"unrealizedGain"` // As supplied by the sheet's 평가손익 column
}

// ComputedGain returns market value minus principal. The sheet carries its
// own 평가손익 column which may lag behind the other two; callers that want
// the reconciled value use this instead of UnrealizedGain.
func (r Row) ComputedGain() float64 {
	return r.MarketValue - r.Principal
}

// Dataset is the normalized spreadsheet content in source row order.
// A Dataset is immutable once built; filters and views always operate on
// derived copies, never in place.
type Dataset struct {
	Rows      []Row     // Source row order
	FetchedAt time.Time // When the CSV export was retrieved
}

// Owners returns the distinct owner values in first-seen order.
func (d *Dataset) Owners() []string {
	owners := []string{}
	for _, r := range d.Rows {
		if !slices.Contains(owners, r.Owner) {
			owners = append(owners, r.Owner)
		}
	}
	return owners
}

// Span returns the earliest and latest AsOfDate present in the dataset.
// ok is false when the dataset is empty.
func (d *Dataset) Span() (start, end time.Time, ok bool) {
	if len(d.Rows) == 0 {
		return time.Time{}, time.Time{}, false
	}
	start, end = d.Rows[0].AsOfDate, d.Rows[0].AsOfDate
	for _, r := range d.Rows[1:] {
		if r.AsOfDate.Before(start) {
			start = r.AsOfDate
		}
		if r.AsOfDate.After(end) {
			end = r.AsOfDate
		}
	}
	return start, end, true
}
