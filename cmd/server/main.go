package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ndewijer/Trade-Journal-Backend/internal/api"
	"github.com/ndewijer/Trade-Journal-Backend/internal/config"
	"github.com/ndewijer/Trade-Journal-Backend/internal/database"
	"github.com/ndewijer/Trade-Journal-Backend/internal/logging"
	"github.com/ndewijer/Trade-Journal-Backend/internal/repository"
	"github.com/ndewijer/Trade-Journal-Backend/internal/service"
	"github.com/ndewijer/Trade-Journal-Backend/internal/version"
	"github.com/ndewijer/Trade-Journal-Backend/internal/yahoo"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.Init(cfg.Log.Level)

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o750); err != nil {
		logger.Error("failed to create database directory", "error", err)
		os.Exit(1)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logging.ToContext(ctx, logger)

	if err := database.Migrate(ctx, db); err != nil {
		logger.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	logger.Info("connected to database", "path", cfg.Database.Path, "version", version.Version)

	// Create repositories
	userRepo := repository.NewUserRepository(db)
	stockRepo := repository.NewStockRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)

	// Create services
	loc := cfg.Reports.Location
	services := api.Services{
		System:      service.NewSystemService(db),
		User:        service.NewUserService(userRepo, stockRepo),
		Stock:       service.NewStockService(db, stockRepo, transactionRepo),
		Transaction: service.NewTransactionService(db, transactionRepo, stockRepo, loc),
		Analysis:    service.NewAnalysisService(transactionRepo, stockRepo, loc),
		Price:       service.NewPriceService(stockRepo, yahoo.NewFinanceClient(), cfg.Prices.Concurrency),
		Export:      service.NewExportService(transactionRepo, loc),
	}

	if _, err := services.Price.StartScheduler(ctx, cfg.Prices.RefreshCron, loc); err != nil {
		logger.Error("failed to start price refresh", "error", err)
		os.Exit(1)
	}
	if cfg.Prices.RefreshCron != "" {
		logger.Info("scheduled price refresh", "cron", cfg.Prices.RefreshCron)
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.NewRouter(services, cfg, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("starting server", "addr", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed to start", "error", err)
			stop()
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	<-ctx.Done()

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return
	}

	logger.Info("server exited")
}
