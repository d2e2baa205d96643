package request

import (
	"github.com/hjkwon/Asset-Dashboard-Backend/internal/model"
	"github.com/hjkwon/Asset-Dashboard-Backend/internal/validation"
)

// EditorRow is the JSON shape of one row in the editor's working set.
type EditorRow struct {
	AsOfDate       string  `json:"asOfDate"` // YYYY-MM-DD
	Owner          string  `json:"owner"`
	Broker         string  `json:"broker"`
	Category       string  `json:"category"`
	InstrumentName string  `json:"instrumentName"`
	Theme          string  `json:"theme"`
	Principal      float64 `json:"principal"`
	MarketValue    float64 `json:"marketValue"`
	UnrealizedGain float64 `json:"unrealizedGain"`
}

// ReplaceRowsRequest is the body of PUT /api/editor/sessions/rows.
type ReplaceRowsRequest struct {
	Rows []EditorRow `json:"rows"`
}

// ToModel converts the request rows, parsing dates. Returns the first date
// parse error encountered; the editor is strict about dates the same way
// ingestion is.
func (req *ReplaceRowsRequest) ToModel() ([]model.Row, error) {
	rows := make([]model.Row, 0, len(req.Rows))
	for _, er := range req.Rows {
		asOf, err := validation.ParseTime(er.AsOfDate)
		if err != nil {
			return nil, err
		}
		rows = append(rows, model.Row{
			AsOfDate:       asOf,
			Owner:          er.Owner,
			Broker:         er.Broker,
			Category:       er.Category,
			InstrumentName: er.InstrumentName,
			Theme:          er.Theme,
			Principal:      er.Principal,
			MarketValue:    er.MarketValue,
			UnrealizedGain: er.UnrealizedGain,
		})
	}
	return rows, nil
}
