package handlers

import (
	"errors"
	"net/http"

	"github.com/hjkwon/Asset-Dashboard-Backend/internal/api/request"
	"github.com/hjkwon/Asset-Dashboard-Backend/internal/apperrors"
	"github.com/hjkwon/Asset-Dashboard-Backend/internal/model"
	"github.com/hjkwon/Asset-Dashboard-Backend/internal/service"
)

// DashboardHandler handles the read-only dashboard views: raw rows, summary
// metrics, allocation breakdowns and the growth timeline.
type DashboardHandler struct {
	datasetService *service.DatasetService
	viewService    *service.ViewService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(datasetService *service.DatasetService, viewService *service.ViewService) *DashboardHandler {
	return &DashboardHandler{
		datasetService: datasetService,
		viewService:    viewService,
	}
}

// ViewMeta carries the access indicators every dashboard response includes,
// so the frontend can show "wrong password" and "guest mode" states.
type ViewMeta struct {
	Label           string   `json:"label"`
	Authenticated   bool     `json:"authenticated"`
	WrongCredential bool     `json:"wrongCredential"`
	Owners          []string `json:"owners,omitempty"`
}

func viewMeta(view model.ScopedView) ViewMeta {
	return ViewMeta{
		Label:           view.Label,
		Authenticated:   view.Authenticated,
		WrongCredential: view.WrongCredential,
		Owners:          view.Owners,
	}
}

// scopedView resolves the dataset, applies the access scope and the
// optional date-range filter. On failure it writes the error response and
// returns ok = false; ingestion failures abort the whole view.
func (h *DashboardHandler) scopedView(w http.ResponseWriter, r *http.Request) (model.ScopedView, bool) {
	params, err := request.ParseViewParams(r)
	if err != nil {
		errorResponse := map[string]string{
			"error":  "invalid view parameters",
			"detail": err.Error(),
		}
		respondJSON(w, http.StatusBadRequest, errorResponse)
		return model.ScopedView{}, false
	}

	ds, err := h.datasetService.Dataset(r.Context())
	if err != nil {
		status := http.StatusInternalServerError
		if apperrors.IsFetchError(err) {
			status = http.StatusBadGateway
		}
		errorResponse := map[string]string{
			"error":  "failed to load spreadsheet data",
			"detail": err.Error(),
		}
		respondJSON(w, status, errorResponse)
		return model.ScopedView{}, false
	}

	view := h.viewService.Scope(ds, params.Credential, params.Owner)
	if params.HasRange {
		view = h.viewService.FilterByDateRange(view, params.Range)
	}
	return view, true
}

// RowsResponse is the scoped row set plus access indicators.
type RowsResponse struct {
	ViewMeta
	Rows []model.Row `json:"rows"`
}

// Rows returns the rows visible to the caller after access scoping and the
// optional date filter. An empty set is a normal "no data" state, not an
// error.
//
// Endpoint: GET /api/dashboard/rows
func (h *DashboardHandler) Rows(w http.ResponseWriter, r *http.Request) {
	view, ok := h.scopedView(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, RowsResponse{
		ViewMeta: viewMeta(view),
		Rows:     view.Rows,
	})
}

// SummaryResponse is the latest-date aggregate for the scoped view.
type SummaryResponse struct {
	ViewMeta
	Summary model.Summary `json:"summary"`
	Message string        `json:"message,omitempty"`
}

// Summary returns total market value, principal, gain and ROI for the
// latest date in the scoped view.
//
// Endpoint: GET /api/dashboard/summary
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	view, ok := h.scopedView(w, r)
	if !ok {
		return
	}

	response := SummaryResponse{
		ViewMeta: viewMeta(view),
		Summary:  h.viewService.Summary(view),
	}
	if !response.Summary.HasData {
		response.Message = "no data for this view"
	}
	respondJSON(w, http.StatusOK, response)
}

// AllocationResponse is the latest-date breakdown by a classification column.
type AllocationResponse struct {
	ViewMeta
	GroupBy string                  `json:"groupBy"`
	Groups  []model.AllocationEntry `json:"groups"`
}

// Allocation breaks the latest-date slice down by one of the classification
// columns (group_by query parameter; defaults to the theme column).
//
// Endpoint: GET /api/dashboard/allocation
func (h *DashboardHandler) Allocation(w http.ResponseWriter, r *http.Request) {
	view, ok := h.scopedView(w, r)
	if !ok {
		return
	}

	groupBy := r.URL.Query().Get("group_by")
	if groupBy == "" {
		groupBy = model.ColTheme
	}

	groups, err := h.viewService.Allocation(view, groupBy)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnknownGroupBy) {
			errorResponse := map[string]string{
				"error":  "unknown group_by column",
				"detail": err.Error(),
			}
			respondJSON(w, http.StatusBadRequest, errorResponse)
			return
		}
		errorResponse := map[string]string{
			"error":  "failed to compute allocation",
			"detail": err.Error(),
		}
		respondJSON(w, http.StatusInternalServerError, errorResponse)
		return
	}

	respondJSON(w, http.StatusOK, AllocationResponse{
		ViewMeta: viewMeta(view),
		GroupBy:  groupBy,
		Groups:   groups,
	})
}

// TimelineResponse is the per-date growth series for the scoped view.
type TimelineResponse struct {
	ViewMeta
	Timeline []model.TimelinePoint `json:"timeline"`
}

// Timeline returns per-date sums of market value and principal across the
// whole scoped (and optionally date-filtered) view.
//
// Endpoint: GET /api/dashboard/timeline
func (h *DashboardHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	view, ok := h.scopedView(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, TimelineResponse{
		ViewMeta: viewMeta(view),
		Timeline: h.viewService.Timeline(view),
	})
}

// OwnersResponse lists the distinct owners an admin can narrow to.
type OwnersResponse struct {
	ViewMeta
}

// Owners returns the distinct owner values, 전체-prefixed, for callers that
// supplied the exact admin secret. Guests receive the public-scope response
// shape with no owner list; this is the only path that exposes owners.
//
// Endpoint: GET /api/dashboard/owners
func (h *DashboardHandler) Owners(w http.ResponseWriter, r *http.Request) {
	view, ok := h.scopedView(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, OwnersResponse{ViewMeta: viewMeta(view)})
}

// Refresh drops the cached dataset so the next view request refetches the
// spreadsheet. This is the explicit refresh action; there is no automatic
// retry or background refresh.
//
// Endpoint: POST /api/dashboard/refresh
func (h *DashboardHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.datasetService.Invalidate()
	respondJSON(w, http.StatusOK, map[string]string{"status": "refreshed"})
}
