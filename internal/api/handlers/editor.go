package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hjkwon/Asset-Dashboard-Backend/internal/api/request"
	"github.com/hjkwon/Asset-Dashboard-Backend/internal/apperrors"
	"github.com/hjkwon/Asset-Dashboard-Backend/internal/model"
	"github.com/hjkwon/Asset-Dashboard-Backend/internal/service"
)

// EditorHandler handles the manual data-entry helper: session-persisted
// working rows and the spreadsheet paste-back export.
type EditorHandler struct {
	editorService  *service.EditorService
	datasetService *service.DatasetService
	viewService    *service.ViewService
}

// NewEditorHandler creates a new EditorHandler
func NewEditorHandler(editorService *service.EditorService, datasetService *service.DatasetService, viewService *service.ViewService) *EditorHandler {
	return &EditorHandler{
		editorService:  editorService,
		datasetService: datasetService,
		viewService:    viewService,
	}
}

// SessionResponse carries the token for a freshly created editor session.
type SessionResponse struct {
	Token string `json:"token"`
}

// CreateSession starts a new empty editor session.
//
// Endpoint: POST /api/editor/sessions
func (h *EditorHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	token, err := h.editorService.CreateSession()
	if err != nil {
		errorResponse := map[string]string{
			"error":  "failed to create editor session",
			"detail": err.Error(),
		}
		respondJSON(w, http.StatusInternalServerError, errorResponse)
		return
	}

	respondJSON(w, http.StatusCreated, SessionResponse{Token: token})
}

// respondSessionError maps editor session errors onto HTTP statuses.
func respondSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidSessionToken):
		respondJSON(w, http.StatusUnauthorized, map[string]string{
			"error": "invalid or expired session token",
		})
	case errors.Is(err, apperrors.ErrSessionNotFound):
		respondJSON(w, http.StatusNotFound, map[string]string{
			"error": "editor session not found",
		})
	default:
		respondJSON(w, http.StatusInternalServerError, map[string]string{
			"error":  "editor operation failed",
			"detail": err.Error(),
		})
	}
}

// EditorRowsResponse is the session's current working set.
type EditorRowsResponse struct {
	Rows []model.Row `json:"rows"`
}

// Rows returns the session's working set in insertion order.
//
// Endpoint: GET /api/editor/sessions/rows
func (h *EditorHandler) Rows(w http.ResponseWriter, r *http.Request) {
	rows, err := h.editorService.Rows(sessionToken(r))
	if err != nil {
		respondSessionError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, EditorRowsResponse{Rows: rows})
}

// LoadDefaults seeds the session with the latest-date rows of the caller's
// scoped view, replacing any previously stored working set. The same access
// rule as the dashboard applies: without the exact admin key only the public
// rows can seed a session.
//
// Endpoint: POST /api/editor/sessions/defaults
func (h *EditorHandler) LoadDefaults(w http.ResponseWriter, r *http.Request) {
	params, err := request.ParseViewParams(r)
	if err != nil {
		errorResponse := map[string]string{
			"error":  "invalid view parameters",
			"detail": err.Error(),
		}
		respondJSON(w, http.StatusBadRequest, errorResponse)
		return
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
		return
	}

	view := h.viewService.Scope(ds, params.Credential, params.Owner)
	rows, err := h.editorService.LoadDefaults(sessionToken(r), &model.Dataset{Rows: view.Rows})
	if err != nil {
		respondSessionError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, EditorRowsResponse{Rows: rows})
}

// Replace swaps the session's working set for the rows in the request body.
//
// Endpoint: PUT /api/editor/sessions/rows
func (h *EditorHandler) Replace(w http.ResponseWriter, r *http.Request) {
	var req request.ReplaceRowsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse := map[string]string{
			"error":  "invalid request body",
			"detail": err.Error(),
		}
		respondJSON(w, http.StatusBadRequest, errorResponse)
		return
	}

	rows, err := req.ToModel()
	if err != nil {
		errorResponse := map[string]string{
			"error":  "invalid row data",
			"detail": err.Error(),
		}
		respondJSON(w, http.StatusBadRequest, errorResponse)
		return
	}

	if err := h.editorService.Replace(sessionToken(r), rows); err != nil {
		respondSessionError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{"stored": len(rows)})
}

// Reset clears the session's working set.
//
// Endpoint: DELETE /api/editor/sessions/rows
func (h *EditorHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.editorService.Reset(sessionToken(r)); err != nil {
		respondSessionError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// Export serializes the session's working set as tab-separated text in the
// source column order, no header row, ready to paste into the spreadsheet.
//
// Endpoint: GET /api/editor/sessions/export
func (h *EditorHandler) Export(w http.ResponseWriter, r *http.Request) {
	tsv, err := h.editorService.ExportTSV(sessionToken(r))
	if err != nil {
		respondSessionError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/tab-separated-values; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(tsv)); err != nil {
		return
	}
}

// sessionToken extracts the editor session token from the request.
func sessionToken(r *http.Request) string {
	return r.Header.Get("X-Session-Token")
}
