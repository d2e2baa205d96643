package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/hjkwon/Asset-Dashboard-Backend/internal/api"
	"github.com/hjkwon/Asset-Dashboard-Backend/internal/config"
	"github.com/hjkwon/Asset-Dashboard-Backend/internal/database"
	"github.com/hjkwon/Asset-Dashboard-Backend/internal/repository"
	"github.com/hjkwon/Asset-Dashboard-Backend/internal/service"
	"github.com/hjkwon/Asset-Dashboard-Backend/internal/sheets"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open the editor session database
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	log.Printf("Connected to session database: %s", cfg.Database.Path)

	// Create repositories
	sessionRepo := repository.NewSessionRepository(db)

	// Create services
	sheetClient := sheets.NewClient(cfg.Sheet.FetchTimeout)
	systemService := service.NewSystemService(db)
	datasetService := service.NewDatasetService(sheetClient, cfg.Sheet.URL, cfg.Sheet.CacheTTL)
	viewService := service.NewViewService(cfg.Auth.AdminPassword)
	editorService := service.NewEditorService(sessionRepo, cfg.Session.Key, cfg.Session.TTL)

	// Purge idle editor sessions in the background. The dataset itself is
	// never refreshed in the background; views refetch on cache expiry.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@hourly", func() {
		purged, err := editorService.PurgeExpired()
		if err != nil {
			log.Printf("Failed to purge expired editor sessions: %v", err)
			return
		}
		if purged > 0 {
			log.Printf("Purged %d expired editor sessions", purged)
		}
	}); err != nil {
		log.Fatalf("Failed to schedule session purge: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Create router
	router := api.NewRouter(systemService, datasetService, viewService, editorService, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
