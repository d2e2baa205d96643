package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hjkwon/Asset-Dashboard-Backend/internal/api/handlers"
	custommiddleware "github.com/hjkwon/Asset-Dashboard-Backend/internal/api/middleware"
	"github.com/hjkwon/Asset-Dashboard-Backend/internal/config"
	"github.com/hjkwon/Asset-Dashboard-Backend/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	systemService *service.SystemService,
	datasetService *service.DatasetService,
	viewService *service.ViewService,
	editorService *service.EditorService,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/dashboard", func(r chi.Router) {
			dashboardHandler := handlers.NewDashboardHandler(datasetService, viewService)
			r.Get("/rows", dashboardHandler.Rows)
			r.Get("/summary", dashboardHandler.Summary)
			r.Get("/allocation", dashboardHandler.Allocation)
			r.Get("/timeline", dashboardHandler.Timeline)
			r.Get("/owners", dashboardHandler.Owners)
			r.Post("/refresh", dashboardHandler.Refresh)
		})

		r.Route("/editor", func(r chi.Router) {
			editorHandler := handlers.NewEditorHandler(editorService, datasetService, viewService)

			r.Route("/sessions", func(r chi.Router) {
				r.Post("/", editorHandler.CreateSession)

				r.Group(func(r chi.Router) {
					r.Use(custommiddleware.RequireSessionToken)
					r.Post("/defaults", editorHandler.LoadDefaults)
					r.Get("/rows", editorHandler.Rows)
					r.Put("/rows", editorHandler.Replace)
					r.Delete("/rows", editorHandler.Reset)
					r.Get("/export", editorHandler.Export)
				})
			})
		})
	})

	return r
}
