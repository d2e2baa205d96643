package testutil

import (
	"context"

	"github.com/hjkwon/Asset-Dashboard-Backend/internal/sheets"
)

// MockSheetFetcher is a mock implementation of ingest.CSVFetcher for
// testing. It returns predefined CSV records instead of fetching the real
// spreadsheet export.
type MockSheetFetcher struct {
	// Records are the CSV records to return from FetchCSV
	Records [][]string
	// MockError is the error to return from FetchCSV
	MockError error
	// FetchCount tracks how many times FetchCSV was called
	FetchCount int
}

// NewMockSheetFetcher creates a mock fetcher serving the default two-owner
// fixture (see SampleRecords).
func NewMockSheetFetcher() *MockSheetFetcher {
	return &MockSheetFetcher{
		Records: SampleRecords(),
	}
}

// FetchCSV returns the configured records or error, counting the call.
func (m *MockSheetFetcher) FetchCSV(_ context.Context, _ sheets.SpreadsheetRef) ([][]string, error) {
	m.FetchCount++
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.Records, nil
}

// WithRecords configures the mock to serve the given records.
func (m *MockSheetFetcher) WithRecords(records [][]string) *MockSheetFetcher {
	m.Records = records
	return m
}

// WithError configures the mock to return the specified error.
func (m *MockSheetFetcher) WithError(err error) *MockSheetFetcher {
	m.MockError = err
	return m
}
