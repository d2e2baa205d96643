// Package ingest turns a raw spreadsheet CSV export into the normalized
// dataset used by every view.
package ingest

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hjkwon/Asset-Dashboard-Backend/internal/apperrors"
	"github.com/hjkwon/Asset-Dashboard-Backend/internal/model"
	"github.com/hjkwon/Asset-Dashboard-Backend/internal/sheets"
)

// CSVFetcher retrieves the parsed CSV records for a spreadsheet reference.
// *sheets.Client satisfies this; tests substitute a fixture fetcher.
type CSVFetcher interface {
	FetchCSV(ctx context.Context, ref sheets.SpreadsheetRef) ([][]string, error)
}

// Load resolves the locator, fetches the CSV export and normalizes it into
// a Dataset.
//
// Failure modes:
//   - apperrors.ErrMalformedLocator: locator has no /d/<id> segment, no fetch attempted
//   - *apperrors.FetchError: transport/status/CSV failure retrieving the export
//   - apperrors.ErrMissingDateColumn: the 기준일자 column is absent
//   - apperrors.ErrUnparsableDate: any row with a bad date fails the whole load
//
// Per-cell monetary normalization failures do not fail the load; see
// NormalizeRecords.
func Load(ctx context.Context, fetcher CSVFetcher, locator string) (*model.Dataset, error) {
	ref, err := sheets.ParseLocator(locator)
	if err != nil {
		return nil, err
	}

	records, err := fetcher.FetchCSV(ctx, ref)
	if err != nil {
		return nil, err
	}

	rows, err := NormalizeRecords(records)
	if err != nil {
		return nil, err
	}

	return &model.Dataset{Rows: rows, FetchedAt: time.Now().UTC()}, nil
}

// NormalizeRecords applies the normalization pipeline to raw CSV records
// (header row first). Header cells are trimmed before column lookup, the
// three monetary columns are coerced from locale-formatted text to float64,
// and the date column is parsed to UTC midnight dates.
//
// Monetary cells that still fail to parse after cleanup become 0 so one
// malformed cell cannot block the whole report. Dates are the opposite: one
// unparsable date fails the entire load, because every downstream view
// groups by date.
func NormalizeRecords(records [][]string) ([]model.Row, error) {
	if len(records) == 0 {
		return nil, apperrors.ErrMissingDateColumn
	}

	columns := map[string]int{}
	for i, name := range records[0] {
		columns[strings.TrimSpace(name)] = i
	}

	if _, ok := columns[model.ColDate]; !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrMissingDateColumn, model.ColDate)
	}

	rows := make([]model.Row, 0, len(records)-1)
	for i, record := range records[1:] {
		rawDate := cell(record, columns, model.ColDate)
		asOf, err := ParseDate(rawDate)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d value %q", apperrors.ErrUnparsableDate, i+2, rawDate)
		}

		rows = append(rows, model.Row{
			AsOfDate:       asOf,
			Owner:          strings.TrimSpace(cell(record, columns, model.ColOwner)),
			Broker:         strings.TrimSpace(cell(record, columns, model.ColBroker)),
			Category:       strings.TrimSpace(cell(record, columns, model.ColCategory)),
			InstrumentName: strings.TrimSpace(cell(record, columns, model.ColInstrument)),
			Theme:          strings.TrimSpace(cell(record, columns, model.ColTheme)),
			Principal:      NormalizeMoney(cell(record, columns, model.ColPrincipal)),
			MarketValue:    NormalizeMoney(cell(record, columns, model.ColMarketValue)),
			UnrealizedGain: NormalizeMoney(cell(record, columns, model.ColGain)),
		})
	}

	return rows, nil
}

// NormalizeMoney coerces a locale-formatted currency string to a float64.
// Cleanup happens in a fixed order: thousands commas, interior spaces, the
// literal (-) negative marker, then the accounting (X) convention. Values
// that still fail to parse become 0 rather than aborting the load.
//
//	"1,234"    -> 1234
//	"(500)"    -> -500
//	"(-) 300"  -> -300
//	"  2,000 " -> 2000
//	"N/A"      -> 0
func NormalizeMoney(raw string) float64 {
	s := strings.ReplaceAll(raw, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "(-)", "-")
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") && len(s) > 2 {
		s = "-" + s[1:len(s)-1]
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return value
}

// ParseDate parses a date cell in "2006-01-02" or RFC3339 format, truncated
// to the day in UTC.
func ParseDate(str string) (time.Time, error) {
	s := strings.TrimSpace(str)

	parsed, err := time.Parse("2006-01-02", s)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse date %q: %w", str, err)
		}
	}

	year, month, day := parsed.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
}

// cell returns the record value for a named column, or "" when the column
// is absent or the record is too short.
func cell(record []string, columns map[string]int, name string) string {
	idx, ok := columns[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return record[idx]
}
