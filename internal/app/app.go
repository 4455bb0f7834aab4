package app

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"helmetmonitor/internal/config"
	"helmetmonitor/internal/logger"
	"helmetmonitor/internal/repository/sqlite"
	"helmetmonitor/internal/routes"
	"helmetmonitor/internal/services/ai"
	"helmetmonitor/internal/services/snapshot"
	"helmetmonitor/internal/services/storage"
	"helmetmonitor/internal/services/throttle"
	"helmetmonitor/internal/services/websocket"
)

type App struct {
	config  *config.Config
	logger  *logger.Logger
	db      *sqlite.DB
	service *snapshot.Service
	hub     *websocket.HubService
	handler http.Handler
}

func NewApp() (*App, error) {
	cfg := config.Load()
	log := logger.New(cfg.LogDirectory)

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	events := sqlite.NewEventRepository(db)
	classifier := ai.New(cfg.ModelPath, log)
	store := storage.New(cfg.UploadDirectory, log)
	hub := websocket.NewHubService(log)
	limiter := throttle.New(time.Duration(cfg.CaptureIntervalSec) * time.Second)
	service := snapshot.NewService(events, classifier, store, log, cfg.DefaultSite)

	handler := routes.SetupRoutes(service, hub, store, limiter, cfg, log)

	return &App{
		config:  cfg,
		logger:  log,
		db:      db,
		service: service,
		hub:     hub,
		handler: handler,
	}, nil
}

func (a *App) Run() error {
	defer a.db.Close()

	go a.hub.Run()

	a.logger.Info("Helmet Monitor Server")
	a.logger.Info("URL: http://localhost:%d", a.config.Port)
	a.logger.Info("Database: %s", a.config.DatabasePath)
	a.logger.Info("Uploads: %s", a.config.UploadDirectory)

	return http.ListenAndServe(fmt.Sprintf(":%d", a.config.Port), a.handler)
}
