package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TheFenixfx/barbertrack/internal/cache"
	"github.com/TheFenixfx/barbertrack/internal/config"
	"github.com/TheFenixfx/barbertrack/internal/database"
	"github.com/TheFenixfx/barbertrack/internal/debt"
	"github.com/TheFenixfx/barbertrack/internal/logging"
	"github.com/TheFenixfx/barbertrack/internal/server"
	"github.com/TheFenixfx/barbertrack/internal/storage"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func buildCache(cfg *config.Config, logger *logrus.Logger) (cache.CacheRepository, func()) {
	if cfg.RedisAddr == "" {
		return cache.NewMemoryCache(cache.DefaultTTL), func() {}
	}

	redisCache := cache.NewRedisCache(cfg.RedisAddr, cache.DefaultTTL)
	if err := redisCache.Ping(); err != nil {
		logger.WithError(err).Warn("Redis unavailable, falling back to in-memory cache")
		redisCache.Close()
		return cache.NewMemoryCache(cache.DefaultTTL), func() {}
	}
	return redisCache, func() { redisCache.Close() }
}

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Infof("No .env file loaded: %v", err)
	}

	cfg, err := config.New()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	rates := debt.NewRateTable(cfg.StandardRate, cfg.RateOverrides)

	cacheRepo, closeCache := buildCache(cfg, logger)
	defer closeCache()

	var dbManager *database.PostgresDBManager
	if cfg.DatabaseURL != "" {
		dbpool, err := database.ConnectDB(cfg.DatabaseURL)
		if err != nil {
			logger.Fatalf("Failed to connect to the database: %v", err)
		}
		defer dbpool.Close()
		dbManager = database.NewPostgresDBManager(context.Background(), dbpool)
	}

	var history server.HistoryReader
	var ledger debt.Ledger
	if dbManager != nil {
		history = dbManager
		ledger = dbManager
	}

	if cfg.DebtSchedule != "" {
		job := func() error {
			store := storage.NewFileStore(cfg.BarbersDir, cfg.ReportSuffix)
			calculator := debt.NewCalculator(store, rates, cfg.ExcludedWeekday, logger)
			summary, err := debt.NewDebtService(store, calculator, ledger, logger, io.Discard).Execute()
			if err != nil {
				return err
			}
			logger.WithFields(logrus.Fields{
				"run_id":     summary.RunID,
				"successful": summary.Successful,
				"total":      summary.Total(),
			}).Info("Debt batch complete")
			return nil
		}
		scheduler, err := server.StartSchedule(cfg.DebtSchedule, job, logger)
		if err != nil {
			logger.Fatalf("Invalid DEBT_SCHEDULE %q: %v", cfg.DebtSchedule, err)
		}
		defer func() { <-scheduler.Stop().Done() }()
	}

	chartService := server.NewChartService(cfg.DataFile, cacheRepo, rates, cfg.ExcludedWeekday, history, logger)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.APIPort),
		Handler:           server.SetupRoutes(chartService, cfg.PublicDir),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("Server starting on port %d", cfg.APIPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}
}
