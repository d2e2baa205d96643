package testutil

import (
	"time"

	"github.com/hjkwon/Asset-Dashboard-Backend/internal/model"
)

// RowBuilder provides a fluent interface for creating test rows.
//
// Example usage:
//
//	// Simple creation with defaults
//	row := testutil.NewRow().Build()
//
//	// Customized row
//	row := testutil.NewRow().
//	    WithOwner("alice").
//	    WithDate("2024-02-01").
//	    WithAmounts(500, 400).
//	    Build()
type RowBuilder struct {
	row model.Row
}

// NewRow creates a RowBuilder with sensible defaults: a public-owner row
// dated 2024-01-01 with principal 1000 and market value 1100.
func NewRow() *RowBuilder {
	return &RowBuilder{
		row: model.Row{
			AsOfDate:       MustDate("2024-01-01"),
			Owner:          model.OwnerPublic,
			Broker:         "KB증권",
			Category:       "ETF",
			InstrumentName: "KODEX 200",
			Theme:          "국내지수",
			Principal:      1000,
			MarketValue:    1100,
			UnrealizedGain: 100,
		},
	}
}

// WithOwner sets the owner.
func (b *RowBuilder) WithOwner(owner string) *RowBuilder {
	b.row.Owner = owner
	return b
}

// WithDate sets the as-of date from a YYYY-MM-DD string.
func (b *RowBuilder) WithDate(date string) *RowBuilder {
	b.row.AsOfDate = MustDate(date)
	return b
}

// WithAmounts sets principal and market value, recomputing the gain column
// to match.
func (b *RowBuilder) WithAmounts(principal, marketValue float64) *RowBuilder {
	b.row.Principal = principal
	b.row.MarketValue = marketValue
	b.row.UnrealizedGain = marketValue - principal
	return b
}

// WithCategory sets the category.
func (b *RowBuilder) WithCategory(category string) *RowBuilder {
	b.row.Category = category
	return b
}

// WithTheme sets the theme.
func (b *RowBuilder) WithTheme(theme string) *RowBuilder {
	b.row.Theme = theme
	return b
}

// WithBroker sets the broker.
func (b *RowBuilder) WithBroker(broker string) *RowBuilder {
	b.row.Broker = broker
	return b
}

// WithInstrument sets the instrument name.
func (b *RowBuilder) WithInstrument(name string) *RowBuilder {
	b.row.InstrumentName = name
	return b
}

// Build returns the constructed row.
func (b *RowBuilder) Build() model.Row {
	return b.row
}

// MustDate parses a YYYY-MM-DD string, panicking on error. Test fixtures
// only.
func MustDate(date string) time.Time {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

// SampleHeader returns the source CSV header in spreadsheet column order.
func SampleHeader() []string {
	return []string{
		model.ColDate,
		model.ColOwner,
		model.ColBroker,
		model.ColCategory,
		model.ColInstrument,
		model.ColTheme,
		model.ColPrincipal,
		model.ColMarketValue,
		model.ColGain,
	}
}

// SampleRecords returns raw CSV records resembling a real export: a joint
// row and a private row on the same date, with locale-formatted amounts.
func SampleRecords() [][]string {
	return [][]string{
		SampleHeader(),
		{"2024-01-01", model.OwnerPublic, "KB증권", "ETF", "KODEX 200", "국내지수", "1,000", "1,100", "100"},
		{"2024-01-01", "alice", "토스증권", "주식", "삼성전자", "반도체", "500", "400", "(100)"},
	}
}

// SampleDataset returns the normalized form of SampleRecords.
func SampleDataset() *model.Dataset {
	return &model.Dataset{
		Rows: []model.Row{
			NewRow().Build(),
			NewRow().
				WithOwner("alice").
				WithBroker("토스증권").
				WithCategory("주식").
				WithInstrument("삼성전자").
				WithTheme("반도체").
				WithAmounts(500, 400).
				Build(),
		},
		FetchedAt: time.Now().UTC(),
	}
}
