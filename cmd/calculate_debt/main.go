package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/TheFenixfx/barbertrack/internal/config"
	"github.com/TheFenixfx/barbertrack/internal/database"
	"github.com/TheFenixfx/barbertrack/internal/debt"
	"github.com/TheFenixfx/barbertrack/internal/logging"
	"github.com/TheFenixfx/barbertrack/internal/models"
	"github.com/TheFenixfx/barbertrack/internal/storage"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func setup(dir string, cfg *config.Config, logger *logrus.Logger) (*debt.DebtService, func(), error) {
	store := storage.NewFileStore(dir, cfg.ReportSuffix)
	rates := debt.NewRateTable(cfg.StandardRate, cfg.RateOverrides)
	calculator := debt.NewCalculator(store, rates, cfg.ExcludedWeekday, logger)

	cleanupFunc := func() {}
	var ledger debt.Ledger
	if cfg.DatabaseURL != "" {
		dbpool, err := database.ConnectDB(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to connect to database: %w", err)
		}
		ledger = database.NewPostgresDBManager(context.Background(), dbpool)
		cleanupFunc = dbpool.Close
	}

	return debt.NewDebtService(store, calculator, ledger, logger, os.Stdout), cleanupFunc, nil
}

func run(dir string) int {
	cfg, err := config.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		return 1
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	if dir == "" {
		dir = cfg.BarbersDir
	}

	startTime := time.Now()
	service, cleanupFunc, err := setup(dir, cfg, logger)
	if err != nil {
		logger.WithError(err).Error("Setup failed")
		return 1
	}
	defer cleanupFunc()

	summary, err := service.Execute()
	if err != nil {
		var notFound *models.NotFoundError
		if errors.As(err, &notFound) {
			fmt.Printf("Error: Directory '%s' does not exist\n", dir)
		} else {
			fmt.Printf("Error: %v\n", err)
		}
		return 1
	}

	logger.WithFields(logrus.Fields{
		"run_id":     summary.RunID,
		"successful": summary.Successful,
		"total":      summary.Total(),
		"elapsed":    time.Since(startTime).String(),
	}).Debug("Debt calculation finished")

	if summary.Failed() {
		return 1
	}
	return 0
}

func main() {
	// .env is optional for the CLI
	_ = godotenv.Load()

	exitCode := 0
	cmd := &cobra.Command{
		Use:   "calculate_debt [directory]",
		Short: "Compute the debt owed by every barber in a directory",
		Long: `Reads every <barber>.csv in the directory, finds the latest payment date
and writes <barber>_debt.csv with the days and amount owed since then.`,
		Args: cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			exitCode = run(dir)
		},
	}

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
	os.Exit(exitCode)
}
