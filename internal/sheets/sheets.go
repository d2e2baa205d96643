package sheets

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/hjkwon/Asset-Dashboard-Backend/internal/apperrors"
)

var gidPattern = regexp.MustCompile(`gid=(\d+)`)

// SpreadsheetRef identifies a spreadsheet and a specific sub-sheet, resolved
// from a Google Sheets URL.
type SpreadsheetRef struct {
	SheetID string
	GID     string // Sub-sheet index; empty means the first sheet
}

// ExportURL builds the CSV export endpoint for the referenced sub-sheet.
func (ref SpreadsheetRef) ExportURL() string {
	url := fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?format=csv", ref.SheetID)
	if ref.GID != "" {
		url += "&gid=" + ref.GID
	}
	return url
}

// ParseLocator extracts the spreadsheet identifier and optional gid
// parameter from a Google Sheets URL.
//
// Returns apperrors.ErrMalformedLocator when the URL does not contain the
// /d/<id> identifier segment; no fetch is attempted in that case.
func ParseLocator(locator string) (SpreadsheetRef, error) {
	_, after, found := strings.Cut(locator, "/d/")
	if !found {
		return SpreadsheetRef{}, fmt.Errorf("%w: %q", apperrors.ErrMalformedLocator, locator)
	}

	sheetID, _, _ := strings.Cut(after, "/")
	if sheetID == "" {
		return SpreadsheetRef{}, fmt.Errorf("%w: %q", apperrors.ErrMalformedLocator, locator)
	}

	ref := SpreadsheetRef{SheetID: sheetID}
	if m := gidPattern.FindStringSubmatch(locator); m != nil {
		ref.GID = m[1]
	}
	return ref, nil
}

// Client fetches published spreadsheet exports over HTTP.
type Client struct {
	httpClient *http.Client

	// baseURL overrides the docs.google.com endpoint in tests.
	baseURL string
}

// NewClient creates a spreadsheet client. The timeout bounds the whole
// fetch, including connection setup and body read; zero means no timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NewClientWithBaseURL creates a client whose export URLs are rebased onto
// the given server. Used in tests to fetch from an httptest server.
func NewClientWithBaseURL(timeout time.Duration, baseURL string) *Client {
	c := NewClient(timeout)
	c.baseURL = baseURL
	return c
}

// FetchCSV retrieves and parses the CSV export for the referenced
// sub-sheet. Every transport, HTTP-status or CSV-parse failure is surfaced
// as an *apperrors.FetchError carrying the underlying cause; nothing is
// propagated as an unhandled fault.
func (c *Client) FetchCSV(ctx context.Context, ref SpreadsheetRef) ([][]string, error) {
	url := ref.ExportURL()
	if c.baseURL != "" {
		url = c.baseURL + "/spreadsheets/d/" + ref.SheetID + "/export?format=csv"
		if ref.GID != "" {
			url += "&gid=" + ref.GID
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperrors.NewFetchError(err)
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewFetchError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewFetchError(fmt.Errorf("unexpected status %s", resp.Status))
	}

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1 // the sheet may have ragged rows; ingestion handles short records

	records, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewFetchError(err)
	}

	return records, nil
}
