package database

import (
	"context"
	"fmt"
	"time"

	"github.com/TheFenixfx/barbertrack/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBManager defines the interface for database operations.
type DBManager interface {
	CreateDebtRunsTable() error
	CreateDebtReportsTable() error
	StartRun(runID uuid.UUID, directory string, startedAt time.Time) error
	RecordResult(runID uuid.UUID, result models.ProcessResult) error
	FinishRun(runID uuid.UUID, status string, successful int, total int) error
	GetEntityHistory(entity string, limit int) ([]models.LedgerEntry, error)
}

func ConnectDB(connStr string) (*pgxpool.Pool, error) {
	dbpool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %v", err)
	}

	return dbpool, nil
}
