package database

import (
	"context"
	"fmt"
	"time"

	"github.com/TheFenixfx/barbertrack/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PostgresDBManager struct {
	dbpool *pgxpool.Pool
	ctx    context.Context
}

var _ DBManager = (*PostgresDBManager)(nil)

func NewPostgresDBManager(ctx context.Context, pool *pgxpool.Pool) *PostgresDBManager {
	return &PostgresDBManager{dbpool: pool, ctx: ctx}
}

func (m *PostgresDBManager) CreateDebtRunsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS debt_runs (
		id UUID PRIMARY KEY,
		directory VARCHAR(1024) NOT NULL,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP,
		status VARCHAR(50) NOT NULL CHECK (status IN ('PROCESSING', 'DONE', 'FAILED')),
		successful INTEGER NOT NULL DEFAULT 0,
		total INTEGER NOT NULL DEFAULT 0
	);`

	_, err := m.dbpool.Exec(m.ctx, query)
	if err != nil {
		return fmt.Errorf("error creating debt_runs table: %v", err)
	}

	return nil
}

// CreateDebtReportsTable creates one row per barber per run. Failed barbers
// keep their reason and no amounts.
func (m *PostgresDBManager) CreateDebtReportsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS debt_reports (
		id BIGSERIAL PRIMARY KEY,
		run_id UUID NOT NULL REFERENCES debt_runs(id),
		entity VARCHAR(255) NOT NULL,
		success BOOLEAN NOT NULL,
		state VARCHAR(50) NOT NULL,
		reason TEXT,
		latest_payment DATE,
		days_passed INTEGER,
		debt_amount NUMERIC(12, 2),
		source_checksum VARCHAR(64),
		recorded_at TIMESTAMP NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_debt_reports_entity ON debt_reports (entity, recorded_at DESC);`

	_, err := m.dbpool.Exec(m.ctx, query)
	if err != nil {
		return fmt.Errorf("error creating debt_reports table: %v", err)
	}

	return nil
}

func (m *PostgresDBManager) StartRun(runID uuid.UUID, directory string, startedAt time.Time) error {
	query := `
	INSERT INTO debt_runs (id, directory, started_at, status)
	VALUES ($1, $2, $3, $4);`

	_, err := m.dbpool.Exec(m.ctx, query, runID, directory, startedAt, models.RUN_STATUS_PROCESSING)
	if err != nil {
		return fmt.Errorf("error inserting debt run: %v", err)
	}

	return nil
}

func (m *PostgresDBManager) RecordResult(runID uuid.UUID, result models.ProcessResult) error {
	query := `
	INSERT INTO debt_reports (run_id, entity, success, state, reason, latest_payment, days_passed, debt_amount, source_checksum)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8::numeric, $9);`

	var (
		reason        *string
		latestPayment *time.Time
		daysPassed    *int
		debtAmount    *string
		checksum      *string
	)
	if result.Reason != "" {
		reason = &result.Reason
	}
	if result.Report != nil {
		latestPayment = &result.Report.LatestPayment
		daysPassed = &result.Report.DaysPassed
		amount := result.Report.DebtAmount.StringFixed(2)
		debtAmount = &amount
	}
	if result.SourceChecksum != "" {
		checksum = &result.SourceChecksum
	}

	_, err := m.dbpool.Exec(m.ctx, query, runID, result.Entity, result.Success, string(result.State), reason, latestPayment, daysPassed, debtAmount, checksum)
	if err != nil {
		return fmt.Errorf("error inserting debt report for %s: %v", result.Entity, err)
	}

	return nil
}

func (m *PostgresDBManager) FinishRun(runID uuid.UUID, status string, successful int, total int) error {
	query := `
	UPDATE debt_runs
	SET status = $1,
		successful = $2,
		total = $3,
		finished_at = NOW()
	WHERE id = $4;`

	_, err := m.dbpool.Exec(m.ctx, query, status, successful, total, runID)
	if err != nil {
		return fmt.Errorf("error updating debt run status: %v", err)
	}

	return nil
}

// GetEntityHistory returns the most recent successful reports for entity, newest first.
func (m *PostgresDBManager) GetEntityHistory(entity string, limit int) ([]models.LedgerEntry, error) {
	query := `
	SELECT run_id, latest_payment, days_passed, debt_amount::text, recorded_at
	FROM debt_reports
	WHERE entity = $1 AND success
	ORDER BY recorded_at DESC
	LIMIT $2;`

	rows, err := m.dbpool.Query(m.ctx, query, entity, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying history for %s: %w", entity, err)
	}
	defer rows.Close()

	var entries []models.LedgerEntry
	for rows.Next() {
		var (
			entry  models.LedgerEntry
			amount string
		)
		if err := rows.Scan(&entry.RunID, &entry.LatestPayment, &entry.DaysPassed, &amount, &entry.RecordedAt); err != nil {
			return nil, fmt.Errorf("error scanning history row: %w", err)
		}
		entry.DebtAmount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("error parsing debt amount %q: %w", amount, err)
		}
		entry.Entity = entity
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over rows: %w", err)
	}

	return entries, nil
}
