package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hjkwon/Asset-Dashboard-Backend/internal/api/handlers"
	"github.com/hjkwon/Asset-Dashboard-Backend/internal/apperrors"
	"github.com/hjkwon/Asset-Dashboard-Backend/internal/model"
	"github.com/hjkwon/Asset-Dashboard-Backend/internal/testutil"
)

func newDashboardHandler(t *testing.T, fetcher *testutil.MockSheetFetcher) *handlers.DashboardHandler {
	t.Helper()

	return handlers.NewDashboardHandler(
		testutil.NewTestDatasetService(t, fetcher),
		testutil.NewTestViewService(t),
	)
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode response body: %v", err)
	}
}

// TestDashboardHandler_Rows tests the scoped row listing endpoint.
//
// WHY: This endpoint is where the access rule meets HTTP. A request
// without the admin key must only ever serialize public rows, and the
// wrong-key indicator must reach the client without changing the data.
func TestDashboardHandler_Rows(t *testing.T) {
	t.Run("guest request returns only public rows", func(t *testing.T) {
		handler := newDashboardHandler(t, testutil.NewMockSheetFetcher())

		req := httptest.NewRequest(http.MethodGet, "/api/dashboard/rows", nil)
		w := httptest.NewRecorder()
		handler.Rows(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}

		var response handlers.RowsResponse
		decodeBody(t, w, &response)

		if response.Authenticated {
			t.Error("Expected unauthenticated response")
		}
		if len(response.Rows) != 1 {
			t.Fatalf("Expected 1 public row, got %d", len(response.Rows))
		}
		if response.Rows[0].Owner != model.OwnerPublic {
			t.Errorf("Expected owner %q, got %q", model.OwnerPublic, response.Rows[0].Owner)
		}
	})

	t.Run("wrong key is flagged but returns the guest rows", func(t *testing.T) {
		handler := newDashboardHandler(t, testutil.NewMockSheetFetcher())

		req := httptest.NewRequest(http.MethodGet, "/api/dashboard/rows", nil)
		req.Header.Set("X-Dashboard-Key", "wrong")
		w := httptest.NewRecorder()
		handler.Rows(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}

		var response handlers.RowsResponse
		decodeBody(t, w, &response)

		if !response.WrongCredential {
			t.Error("Expected WrongCredential true")
		}
		if len(response.Rows) != 1 {
			t.Errorf("Expected the guest row set, got %d rows", len(response.Rows))
		}
	})

	t.Run("admin key unlocks all rows and the owner list", func(t *testing.T) {
		handler := newDashboardHandler(t, testutil.NewMockSheetFetcher())

		req := httptest.NewRequest(http.MethodGet, "/api/dashboard/rows", nil)
		req.Header.Set("X-Dashboard-Key", testutil.TestAdminPassword)
		w := httptest.NewRecorder()
		handler.Rows(w, req)

		var response handlers.RowsResponse
		decodeBody(t, w, &response)

		if !response.Authenticated {
			t.Fatal("Expected authenticated response")
		}
		if len(response.Rows) != 2 {
			t.Errorf("Expected 2 rows, got %d", len(response.Rows))
		}
		if len(response.Owners) != 3 {
			t.Errorf("Expected 3 owners, got %v", response.Owners)
		}
	})

	t.Run("key query parameter works as a fallback", func(t *testing.T) {
		handler := newDashboardHandler(t, testutil.NewMockSheetFetcher())

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/dashboard/rows", map[string]string{
			"key": testutil.TestAdminPassword,
		})
		w := httptest.NewRecorder()
		handler.Rows(w, req)

		var response handlers.RowsResponse
		decodeBody(t, w, &response)

		if !response.Authenticated {
			t.Error("Expected query-parameter key to authenticate")
		}
	})

	t.Run("date range filters the rows", func(t *testing.T) {
		handler := newDashboardHandler(t, testutil.NewMockSheetFetcher())

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/dashboard/rows", map[string]string{
			"start_date": "2024-06-01",
			"end_date":   "2024-12-31",
		})
		w := httptest.NewRecorder()
		handler.Rows(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}

		var response handlers.RowsResponse
		decodeBody(t, w, &response)

		if len(response.Rows) != 0 {
			t.Errorf("Expected no rows outside the range, got %d", len(response.Rows))
		}
	})

	t.Run("inverted date range is rejected", func(t *testing.T) {
		handler := newDashboardHandler(t, testutil.NewMockSheetFetcher())

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/dashboard/rows", map[string]string{
			"start_date": "2024-12-31",
			"end_date":   "2024-01-01",
		})
		w := httptest.NewRecorder()
		handler.Rows(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})

	t.Run("unreachable spreadsheet maps to 502", func(t *testing.T) {
		fetcher := testutil.NewMockSheetFetcher().
			WithError(apperrors.NewFetchError(http.ErrHandlerTimeout))
		handler := newDashboardHandler(t, fetcher)

		req := httptest.NewRequest(http.MethodGet, "/api/dashboard/rows", nil)
		w := httptest.NewRecorder()
		handler.Rows(w, req)

		if w.Code != http.StatusBadGateway {
			t.Errorf("Expected status 502, got %d", w.Code)
		}
	})
}

// TestDashboardHandler_Summary tests the headline metrics endpoint.
func TestDashboardHandler_Summary(t *testing.T) {
	t.Run("guest summary matches the joint row", func(t *testing.T) {
		handler := newDashboardHandler(t, testutil.NewMockSheetFetcher())

		req := httptest.NewRequest(http.MethodGet, "/api/dashboard/summary", nil)
		w := httptest.NewRecorder()
		handler.Summary(w, req)

		var response handlers.SummaryResponse
		decodeBody(t, w, &response)

		if response.Summary.TotalMarketValue != 1100 {
			t.Errorf("Expected total 1100, got %v", response.Summary.TotalMarketValue)
		}
		if response.Summary.ROIPercent != 10.00 {
			t.Errorf("Expected ROI 10.00, got %v", response.Summary.ROIPercent)
		}
		if response.Message != "" {
			t.Errorf("Expected no message, got %q", response.Message)
		}
	})

	t.Run("empty view carries a no-data message", func(t *testing.T) {
		handler := newDashboardHandler(t, testutil.NewMockSheetFetcher())

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/dashboard/summary", map[string]string{
			"start_date": "2030-01-01",
		})
		w := httptest.NewRecorder()
		handler.Summary(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}

		var response handlers.SummaryResponse
		decodeBody(t, w, &response)

		if response.Summary.HasData {
			t.Error("Expected HasData false")
		}
		if response.Message == "" {
			t.Error("Expected a no-data message")
		}
	})
}

// TestDashboardHandler_Allocation tests the breakdown endpoint.
func TestDashboardHandler_Allocation(t *testing.T) {
	t.Run("defaults to grouping by theme", func(t *testing.T) {
		handler := newDashboardHandler(t, testutil.NewMockSheetFetcher())

		req := httptest.NewRequest(http.MethodGet, "/api/dashboard/allocation", nil)
		w := httptest.NewRecorder()
		handler.Allocation(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}

		var response handlers.AllocationResponse
		decodeBody(t, w, &response)

		if response.GroupBy != model.ColTheme {
			t.Errorf("Expected default group-by %q, got %q", model.ColTheme, response.GroupBy)
		}
		if len(response.Groups) != 1 {
			t.Fatalf("Expected 1 group for the guest view, got %d", len(response.Groups))
		}
		if response.Groups[0].Key != "국내지수" {
			t.Errorf("Expected theme 국내지수, got %q", response.Groups[0].Key)
		}
	})

	t.Run("unknown group_by column is a client error", func(t *testing.T) {
		handler := newDashboardHandler(t, testutil.NewMockSheetFetcher())

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/dashboard/allocation", map[string]string{
			"group_by": "주체",
		})
		w := httptest.NewRecorder()
		handler.Allocation(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})
}

// TestDashboardHandler_Timeline tests the growth series endpoint.
func TestDashboardHandler_Timeline(t *testing.T) {
	handler := newDashboardHandler(t, testutil.NewMockSheetFetcher())

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/timeline", nil)
	w := httptest.NewRecorder()
	handler.Timeline(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var response handlers.TimelineResponse
	decodeBody(t, w, &response)

	if len(response.Timeline) != 1 {
		t.Fatalf("Expected 1 point, got %d", len(response.Timeline))
	}
	if response.Timeline[0].MarketValue != 1100 {
		t.Errorf("Expected market value 1100, got %v", response.Timeline[0].MarketValue)
	}
}

// TestDashboardHandler_Owners tests the owner enumeration endpoint.
//
// WHY: The owner list is admin-only information. The guest response must
// omit it entirely rather than return an empty list of real names.
func TestDashboardHandler_Owners(t *testing.T) {
	t.Run("admins see the 전체-prefixed owner list", func(t *testing.T) {
		handler := newDashboardHandler(t, testutil.NewMockSheetFetcher())

		req := httptest.NewRequest(http.MethodGet, "/api/dashboard/owners", nil)
		req.Header.Set("X-Dashboard-Key", testutil.TestAdminPassword)
		w := httptest.NewRecorder()
		handler.Owners(w, req)

		var response handlers.OwnersResponse
		decodeBody(t, w, &response)

		if len(response.Owners) == 0 || response.Owners[0] != model.OwnerAll {
			t.Errorf("Expected owner list starting with %q, got %v", model.OwnerAll, response.Owners)
		}
	})

	t.Run("guests get no owner list", func(t *testing.T) {
		handler := newDashboardHandler(t, testutil.NewMockSheetFetcher())

		req := httptest.NewRequest(http.MethodGet, "/api/dashboard/owners", nil)
		w := httptest.NewRecorder()
		handler.Owners(w, req)

		var response handlers.OwnersResponse
		decodeBody(t, w, &response)

		if len(response.Owners) != 0 {
			t.Errorf("Expected no owners for guests, got %v", response.Owners)
		}
	})
}

// TestDashboardHandler_Refresh tests the explicit cache invalidation.
func TestDashboardHandler_Refresh(t *testing.T) {
	fetcher := testutil.NewMockSheetFetcher()
	handler := newDashboardHandler(t, fetcher)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/rows", nil)
	w := httptest.NewRecorder()
	handler.Rows(w, req)

	refreshReq := httptest.NewRequest(http.MethodPost, "/api/dashboard/refresh", nil)
	refreshW := httptest.NewRecorder()
	handler.Refresh(refreshW, refreshReq)

	if refreshW.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", refreshW.Code)
	}

	w = httptest.NewRecorder()
	handler.Rows(w, httptest.NewRequest(http.MethodGet, "/api/dashboard/rows", nil))

	if fetcher.FetchCount != 2 {
		t.Errorf("Expected a refetch after refresh, got %d fetches", fetcher.FetchCount)
	}
}
