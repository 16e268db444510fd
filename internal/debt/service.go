package debt

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/TheFenixfx/barbertrack/internal/models"
	"github.com/TheFenixfx/barbertrack/internal/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Ledger records the outcome of debt runs somewhere durable.
type Ledger interface {
	StartRun(runID uuid.UUID, directory string, startedAt time.Time) error
	RecordResult(runID uuid.UUID, result models.ProcessResult) error
	FinishRun(runID uuid.UUID, status string, successful int, total int) error
}

type DebtService struct {
	store      storage.RecordStore
	calculator *Calculator
	ledger     Ledger
	logger     *logrus.Logger
	out        io.Writer
}

// NewDebtService wires the batch runner. ledger may be nil.
func NewDebtService(store storage.RecordStore, calculator *Calculator, ledger Ledger, logger *logrus.Logger, out io.Writer) *DebtService {
	return &DebtService{
		store:      store,
		calculator: calculator,
		ledger:     ledger,
		logger:     logger,
		out:        out,
	}
}

// Execute processes every barber in the store one after the other and prints
// a tally line for each. The only error returned is a failure to list the
// store; per-barber failures live in the summary.
func (s *DebtService) Execute() (*models.BatchSummary, error) {
	summary := &models.BatchSummary{
		RunID:     uuid.New(),
		Directory: s.store.Location(),
		StartedAt: timeNow(),
	}

	entities, err := s.store.ListEntities()
	if err != nil {
		s.logger.WithError(err).Errorf("Failed to scan %s", summary.Directory)
		return nil, err
	}

	if len(entities) == 0 {
		fmt.Fprintf(s.out, "No CSV files found in directory '%s'\n", summary.Directory)
		return summary, nil
	}

	s.startRun(summary)

	fmt.Fprintf(s.out, "Found %d barber CSV files to process...\n", len(entities))
	fmt.Fprintln(s.out, separator)

	for _, entity := range entities {
		result := s.calculator.ProcessEntity(entity)
		summary.Results = append(summary.Results, result)

		if result.Success {
			summary.Successful++
			fmt.Fprintf(s.out, "+ %s: %d days, %s debt\n", result.Entity, result.Report.DaysPassed, result.Report.FormattedAmount())
		} else {
			fmt.Fprintf(s.out, "- %s: %s\n", result.Entity, result.Reason)
		}

		s.recordResult(summary.RunID, result)
	}

	fmt.Fprintln(s.out, separator)
	fmt.Fprintf(s.out, "Processing complete: %d/%d files processed successfully\n", summary.Successful, summary.Total())
	if summary.Failed() {
		fmt.Fprintln(s.out, "No files were processed successfully.")
	}

	s.finishRun(summary)
	return summary, nil
}

var separator = strings.Repeat("-", 50)

func (s *DebtService) startRun(summary *models.BatchSummary) {
	if s.ledger == nil {
		return
	}
	if err := s.ledger.StartRun(summary.RunID, summary.Directory, summary.StartedAt); err != nil {
		s.logger.WithError(err).Warn("Failed to record debt run start")
	}
}

func (s *DebtService) recordResult(runID uuid.UUID, result models.ProcessResult) {
	if s.ledger == nil {
		return
	}
	if err := s.ledger.RecordResult(runID, result); err != nil {
		s.logger.WithError(err).WithField("entity", result.Entity).Warn("Failed to record debt result")
	}
}

func (s *DebtService) finishRun(summary *models.BatchSummary) {
	if s.ledger == nil {
		return
	}
	status := models.RUN_STATUS_DONE
	if summary.Failed() {
		status = models.RUN_STATUS_FAILED
	}
	if err := s.ledger.FinishRun(summary.RunID, status, summary.Successful, summary.Total()); err != nil {
		s.logger.WithError(err).Warn("Failed to record debt run completion")
	}
}
