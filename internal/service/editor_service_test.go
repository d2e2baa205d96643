package service_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/hjkwon/Asset-Dashboard-Backend/internal/apperrors"
	"github.com/hjkwon/Asset-Dashboard-Backend/internal/ingest"
	"github.com/hjkwon/Asset-Dashboard-Backend/internal/model"
	"github.com/hjkwon/Asset-Dashboard-Backend/internal/service"
	"github.com/hjkwon/Asset-Dashboard-Backend/internal/testutil"
)

// TestEditorService_Sessions tests the session lifecycle.
//
// WHY: The editor persists in-progress edits across requests behind a
// signed token. Tampered tokens must be rejected and each session's
// working set must survive independent of others.
func TestEditorService_Sessions(t *testing.T) {
	t.Run("create, replace, read back", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestEditorService(t, db)

		token, err := svc.CreateSession()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		rows := []model.Row{
			testutil.NewRow().Build(),
			testutil.NewRow().WithOwner("alice").WithAmounts(500, 400).Build(),
		}
		if err := svc.Replace(token, rows); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		stored, err := svc.Rows(token)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(stored) != 2 {
			t.Fatalf("Expected 2 rows, got %d", len(stored))
		}
		if stored[0].Owner != model.OwnerPublic || stored[1].Owner != "alice" {
			t.Errorf("Expected insertion order preserved, got %q then %q", stored[0].Owner, stored[1].Owner)
		}
	})

	t.Run("reset clears the working set", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestEditorService(t, db)

		token, err := svc.CreateSession()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if err := svc.Replace(token, []model.Row{testutil.NewRow().Build()}); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if err := svc.Reset(token); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		stored, err := svc.Rows(token)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(stored) != 0 {
			t.Errorf("Expected empty working set after reset, got %d rows", len(stored))
		}
	})

	t.Run("load defaults seeds the latest-date rows", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestEditorService(t, db)

		ds := &model.Dataset{Rows: []model.Row{
			testutil.NewRow().WithDate("2024-01-01").Build(),
			testutil.NewRow().WithDate("2024-02-01").Build(),
			testutil.NewRow().WithDate("2024-02-01").WithOwner("alice").Build(),
		}}

		token, err := svc.CreateSession()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		defaults, err := svc.LoadDefaults(token, ds)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(defaults) != 2 {
			t.Fatalf("Expected 2 latest-date rows, got %d", len(defaults))
		}
		for _, r := range defaults {
			if r.AsOfDate != testutil.MustDate("2024-02-01") {
				t.Errorf("Expected latest date only, got %v", r.AsOfDate)
			}
		}
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestEditorService(t, db)

		_, err := svc.Rows("not-a-token")
		if !errors.Is(err, apperrors.ErrInvalidSessionToken) {
			t.Errorf("Expected ErrInvalidSessionToken, got %v", err)
		}
	})

	t.Run("token signed with a different key is rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestEditorService(t, db)
		other := testutil.NewTestEditorService(t, db)

		token, err := other.CreateSession()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		_, err = svc.Rows(token)
		if !errors.Is(err, apperrors.ErrInvalidSessionToken) {
			t.Errorf("Expected ErrInvalidSessionToken, got %v", err)
		}
	})

	t.Run("purge removes idle sessions", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestEditorService(t, db)

		token, err := svc.CreateSession()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		// Fresh sessions survive a purge.
		purged, err := svc.PurgeExpired()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if purged != 0 {
			t.Errorf("Expected no sessions purged, got %d", purged)
		}

		// Backdate the session past the TTL, then purge again.
		if _, err := db.Exec("UPDATE editor_session SET updated_at = '2000-01-01 00:00:00'"); err != nil {
			t.Fatalf("Failed to backdate session: %v", err)
		}
		purged, err = svc.PurgeExpired()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if purged != 1 {
			t.Errorf("Expected 1 session purged, got %d", purged)
		}

		if _, err := svc.Rows(token); !errors.Is(err, apperrors.ErrSessionNotFound) {
			t.Errorf("Expected ErrSessionNotFound after purge, got %v", err)
		}
	})
}

// TestEditorService_ExportTSV tests the spreadsheet paste-back format.
//
// WHY: The tab-separated export is a hard external contract. The
// spreadsheet is the system of record, and an exported row re-ingested
// through the normalization pipeline must reproduce the same values.
func TestEditorService_ExportTSV(t *testing.T) {
	t.Run("source column order, no header, no index", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestEditorService(t, db)

		token, err := svc.CreateSession()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if err := svc.Replace(token, []model.Row{testutil.NewRow().Build()}); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		tsv, err := svc.ExportTSV(token)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		lines := strings.Split(strings.TrimRight(tsv, "\n"), "\n")
		if len(lines) != 1 {
			t.Fatalf("Expected 1 line (no header), got %d", len(lines))
		}
		fields := strings.Split(lines[0], "\t")
		if len(fields) != len(model.ExportColumns) {
			t.Fatalf("Expected %d fields, got %d", len(model.ExportColumns), len(fields))
		}
		if fields[0] != "2024-01-01" {
			t.Errorf("Expected date first, got %q", fields[0])
		}
		if fields[1] != model.OwnerPublic {
			t.Errorf("Expected owner second, got %q", fields[1])
		}
		if fields[6] != "1000" {
			t.Errorf("Expected principal 1000, got %q", fields[6])
		}
	})

	t.Run("tabs and newlines in text cells cannot break the row structure", func(t *testing.T) {
		row := testutil.NewRow().
			WithInstrument("KODEX\t200\nLeverage").
			WithTheme("국내\r지수").
			Build()

		tsv := service.FormatTSV([]model.Row{row})

		lines := strings.Split(strings.TrimRight(tsv, "\n"), "\n")
		if len(lines) != 1 {
			t.Fatalf("Expected 1 line, got %d", len(lines))
		}
		fields := strings.Split(lines[0], "\t")
		if len(fields) != len(model.ExportColumns) {
			t.Fatalf("Expected %d fields, got %d", len(model.ExportColumns), len(fields))
		}
		if fields[4] != "KODEX 200 Leverage" {
			t.Errorf("Expected sanitized instrument name, got %q", fields[4])
		}
		if fields[5] != "국내지수" {
			t.Errorf("Expected sanitized theme, got %q", fields[5])
		}
	})

	t.Run("round-trips through the normalization pipeline", func(t *testing.T) {
		original := []model.Row{
			testutil.NewRow().WithAmounts(1234.56, 2000).Build(),
			testutil.NewRow().WithOwner("alice").WithDate("2024-02-01").WithAmounts(500, 400).Build(),
		}

		tsv := service.FormatTSV(original)

		records := [][]string{testutil.SampleHeader()}
		for _, line := range strings.Split(strings.TrimRight(tsv, "\n"), "\n") {
			records = append(records, strings.Split(line, "\t"))
		}

		reparsed, err := ingest.NormalizeRecords(records)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(reparsed) != len(original) {
			t.Fatalf("Expected %d rows, got %d", len(original), len(reparsed))
		}
		for i := range original {
			if reparsed[i].Owner != original[i].Owner {
				t.Errorf("Row %d: owner %q != %q", i, reparsed[i].Owner, original[i].Owner)
			}
			if reparsed[i].AsOfDate != original[i].AsOfDate {
				t.Errorf("Row %d: date %v != %v", i, reparsed[i].AsOfDate, original[i].AsOfDate)
			}
			if reparsed[i].Category != original[i].Category {
				t.Errorf("Row %d: category %q != %q", i, reparsed[i].Category, original[i].Category)
			}
			if math.Abs(reparsed[i].Principal-original[i].Principal) > 1e-9 {
				t.Errorf("Row %d: principal %v != %v", i, reparsed[i].Principal, original[i].Principal)
			}
			if math.Abs(reparsed[i].MarketValue-original[i].MarketValue) > 1e-9 {
				t.Errorf("Row %d: market value %v != %v", i, reparsed[i].MarketValue, original[i].MarketValue)
			}
		}
	})
}
