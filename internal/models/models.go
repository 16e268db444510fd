package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

// Aggregate is the consolidated document mapping every barber to the full
// sequence of their payment records.
type Aggregate struct {
	Teams map[string][]Record `json:"teams"`
}

func NewAggregate() *Aggregate {
	return &Aggregate{Teams: make(map[string][]Record)}
}

type DebtReport struct {
	DaysPassed    int             `json:"days_passed"`
	DebtAmount    decimal.Decimal `json:"debt_amount"`
	LatestPayment time.Time       `json:"latest_payment"`
}

// FormattedAmount renders the debt the way it is printed to users, e.g. "$42.00".
func (r DebtReport) FormattedAmount() string {
	return "$" + r.DebtAmount.StringFixed(2)
}

// ProcessingState is the furthest point an entity reached while being processed.
type ProcessingState string

const (
	StateIngesting            ProcessingState = "INGESTING"
	StateEmpty                ProcessingState = "EMPTY"
	StateDateResolutionFailed ProcessingState = "DATE_RESOLUTION_FAILED"
	StateReady                ProcessingState = "READY"
	StateDebtComputed         ProcessingState = "DEBT_COMPUTED"
	StateReportWritten        ProcessingState = "REPORT_WRITTEN"
)

type ProcessResult struct {
	Entity         string
	Success        bool
	State          ProcessingState
	Reason         string
	Report         *DebtReport
	SourceChecksum string
	Err            error
}

type BatchSummary struct {
	RunID      uuid.UUID
	Directory  string
	StartedAt  time.Time
	Results    []ProcessResult
	Successful int
}

func (s *BatchSummary) Total() int {
	return len(s.Results)
}

// Failed reports whether a non-empty batch produced no successful entity.
func (s *BatchSummary) Failed() bool {
	return s.Total() > 0 && s.Successful == 0
}

const (
	RUN_STATUS_PROCESSING = "PROCESSING"
	RUN_STATUS_DONE       = "DONE"
	RUN_STATUS_FAILED     = "FAILED"
)

type LedgerEntry struct {
	RunID         uuid.UUID       `json:"run_id"`
	Entity        string          `json:"name"`
	LatestPayment time.Time       `json:"latest_payment"`
	DaysPassed    int             `json:"days"`
	DebtAmount    decimal.Decimal `json:"amount"`
	RecordedAt    time.Time       `json:"recorded_at"`
}
