package application

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/callaa/drawpile-listing/internal/config"
	"github.com/callaa/drawpile-listing/internal/database"
	"github.com/callaa/drawpile-listing/internal/handler"
	"github.com/callaa/drawpile-listing/internal/router"
	"github.com/callaa/drawpile-listing/internal/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// API is the session listing HTTP application.
type API struct {
	cfg *config.Config
	srv *http.Server
	db  *gorm.DB
	hub *service.FeedHub
}

// NewAPI creates the API application: validates config, runs migrations, opens DB, builds router.
func NewAPI(cfg *config.Config) (*API, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := database.MigrateUp(cfg.DatabaseURL()); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	logger, _ := zap.NewProduction()
	if cfg.AppEnv == "development" {
		logger, _ = zap.NewDevelopment()
	}

	hub := service.NewFeedHub(logger)
	registry := service.NewRegistry(db, cfg, hub, logger)
	sessions := handler.NewSessionHandler(registry, cfg, logger)
	watch := handler.NewWatchHandler(hub, logger)
	health := handler.NewHealthHandler()

	r := router.New(sessions, watch, health, logger)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &API{cfg: cfg, srv: srv, db: db, hub: hub}, nil
}

// Run starts the HTTP server and blocks until ctx is cancelled; then shuts down gracefully.
func (a *API) Run(ctx context.Context) error {
	addr := a.srv.Addr
	host := a.cfg.AppHost
	if host == "0.0.0.0" {
		host = "localhost"
	}
	base := "http://" + host + ":" + a.cfg.HTTPPort
	log.Printf("HTTP server listening on %s", addr)
	log.Printf("  Service info:  %s/", base)
	log.Printf("  Sessions:      %s/sessions", base)
	log.Printf("  Watch feed:    ws://%s:%s/ws/sessions", host, a.cfg.HTTPPort)
	log.Printf("  Health:        %s/health", base)

	go func() {
		if err := a.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("http: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
