package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ivmel/reflecta/internal/api"
	"github.com/ivmel/reflecta/internal/backend"
	"github.com/ivmel/reflecta/internal/config"
	"github.com/ivmel/reflecta/internal/db"
	"github.com/ivmel/reflecta/internal/jobs"
	"github.com/ivmel/reflecta/internal/logger"
	"github.com/ivmel/reflecta/internal/repository/sqlite"
	"github.com/ivmel/reflecta/internal/services"
	"github.com/ivmel/reflecta/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Reflecta Client Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
	if cfg.TelegramBotToken == "" {
		log.Warn("TELEGRAM_BOT_TOKEN not set, only guest identities will be accepted")
	}

	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("backend_url=%s", cfg.BackendURL)
	log.Debug("backend_timeout=%v", cfg.BackendTimeout)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("sync_worker_count=%d", cfg.SyncWorkerCount)
	log.Debug("sync_queue_size=%d", cfg.SyncQueueSize)
	log.Debug("ratings_retry_attempts=%d", cfg.RatingsRetryAttempts)
	log.Debug("ratings_retry_delay=%v", cfg.RatingsRetryDelay)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Repositories over the local store
	dayStates := sqlite.NewDayStateRepository(database.DB)
	identities := sqlite.NewIdentityRepository(database.DB)
	preferences := sqlite.NewPreferenceRepository(database.DB)
	flowEvents := sqlite.NewFlowEventRepository(database.DB)

	// Backend client and background sync
	client := backend.New(cfg.BackendURL, cfg.BackendTimeout)
	syncPool := worker.NewPool(cfg.SyncWorkerCount, cfg.SyncQueueSize)
	queue := jobs.NewWorkerQueue(syncPool, client)

	// Services
	sessionService := services.NewSessionService(client, dayStates, flowEvents)
	progressService := services.NewProgressService(client, cfg.RatingsRetryAttempts, cfg.RatingsRetryDelay)
	settingsService := services.NewSettingsService(client, preferences, queue)

	srv := &api.Server{
		Sessions:   sessionService,
		Progress:   progressService,
		Settings:   settingsService,
		Backend:    client,
		Identities: identities,
		BotToken:   cfg.TelegramBotToken,
	}

	ctx, cancel := context.WithCancel(context.Background())
	syncPool.Start(ctx)

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping sync pool")
	cancel()
	syncPool.Stop()

	log.Info("===========================================")
	log.Info("Reflecta Client Server Stopped")
	log.Info("===========================================")
}
