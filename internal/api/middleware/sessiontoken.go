// Package middleware provides HTTP middleware for request validation and processing.
package middleware

import (
	"net/http"

	"github.com/hjkwon/Asset-Dashboard-Backend/internal/api/response"
)

// RequireSessionToken validates that the X-Session-Token header is present.
// Returns 401 Unauthorized when it is missing. Signature and TTL
// verification happens in the editor service; this middleware only rejects
// requests that cannot possibly address a session.
//
// Example usage in router:
//
//	r.Route("/sessions", func(r chi.Router) {
//	    r.Use(middleware.RequireSessionToken)
//	    r.Get("/rows", handler.Rows)
//	})
func RequireSessionToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Session-Token") == "" {
			response.RespondError(w, http.StatusUnauthorized, "session token is required", "")
			return
		}

		next.ServeHTTP(w, r)
	})
}
