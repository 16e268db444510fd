package debt

import (
	"errors"
	"testing"
	"time"

	"github.com/TheFenixfx/barbertrack/internal/logging"
	"github.com/TheFenixfx/barbertrack/internal/models"
	"github.com/TheFenixfx/barbertrack/internal/storage"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRecordStore is a mock implementation of the storage.RecordStore interface.
type MockRecordStore struct {
	mock.Mock
}

func (m *MockRecordStore) Location() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockRecordStore) ListEntities() ([]string, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRecordStore) ReadRecords(entity string) ([]models.Record, error) {
	args := m.Called(entity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Record), args.Error(1)
}

func (m *MockRecordStore) WriteReport(entity string, report models.DebtReport) error {
	args := m.Called(entity, report)
	return args.Error(0)
}

func payment(start, end string) models.Record {
	record := models.NewRecord()
	record.Set(models.FieldStartDate, start)
	record.Set(models.FieldEndDate, end)
	record.Set(models.FieldLink, "https://example.com/receipt")
	return record
}

func withNow(t *testing.T, now time.Time) {
	original := timeNow
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = original })
}

func TestCalculator_Compute(t *testing.T) {
	calculator := NewCalculator(storage.NewMemoryStore(), DefaultRateTable(), time.Sunday, logging.Discard())
	monday := date(2024, 1, 8)

	t.Run("Expect: Alex owes six days at the standard rate", func(t *testing.T) {
		report, err := calculator.Compute("Alex", []models.Record{payment("2023-12-25", "2024-01-01")}, monday)

		require.NoError(t, err)
		assert.Equal(t, 6, report.DaysPassed)
		assert.Equal(t, "$42.00", report.FormattedAmount())
		assert.Equal(t, date(2024, 1, 1), report.LatestPayment)
	})

	t.Run("Expect: Genesis owes six days at the discounted rate", func(t *testing.T) {
		report, err := calculator.Compute("Genesis", []models.Record{payment("2023-12-25", "2024-01-01")}, monday)

		require.NoError(t, err)
		assert.Equal(t, 6, report.DaysPassed)
		assert.Equal(t, "$30.00", report.FormattedAmount())
	})

	t.Run("Expect: the latest valid endDate wins and bad dates are skipped", func(t *testing.T) {
		records := []models.Record{
			payment("2023-12-01", "2023-12-20"),
			payment("2024-01-02", "not-a-date"),
			payment("2023-12-21", "2024-01-05"),
			payment("2023-12-21", ""),
			payment("2023-12-21", "2024/01/07"),
		}

		report, err := calculator.Compute("Alex", records, monday)

		require.NoError(t, err)
		assert.Equal(t, date(2024, 1, 5), report.LatestPayment)
		// Jan 6 (Sat) and Jan 8 (Mon); Jan 7 is Sunday
		assert.Equal(t, 2, report.DaysPassed)
		assert.Equal(t, "14.00", report.DebtAmount.StringFixed(2))
	})

	t.Run("Expect: paying today yields no debt", func(t *testing.T) {
		report, err := calculator.Compute("Alex", []models.Record{payment("2024-01-01", "2024-01-08")}, monday.Add(15*time.Hour))

		require.NoError(t, err)
		assert.Equal(t, 0, report.DaysPassed)
		assert.Equal(t, "$0.00", report.FormattedAmount())
	})

	t.Run("Expect: empty records are reported as an empty source", func(t *testing.T) {
		_, err := calculator.Compute("Alex", nil, monday)

		var empty *models.EmptySourceError
		assert.True(t, errors.As(err, &empty))
		assert.Equal(t, "Empty file", err.Error())
	})

	t.Run("Expect: records without a parsable date are reported", func(t *testing.T) {
		record := models.NewRecord()
		record.Set(models.FieldStartDate, "2024-01-01")
		record.SetAbsent(models.FieldEndDate)

		_, err := calculator.Compute("Alex", []models.Record{record, payment("", "yesterday")}, monday)

		var noDates *models.NoValidDateError
		assert.True(t, errors.As(err, &noDates))
		assert.Equal(t, "No valid dates", err.Error())
	})
}

func TestCalculator_ProcessEntity(t *testing.T) {
	withNow(t, time.Date(2024, 1, 8, 9, 30, 0, 0, time.Local))

	t.Run("Expect: report is written and the result is successful", func(t *testing.T) {
		store := storage.NewMemoryStore()
		store.Put("Alex", []models.Record{payment("2023-12-25", "2024-01-01")})
		calculator := NewCalculator(store, nil, time.Sunday, logging.Discard())

		result := calculator.ProcessEntity("Alex")

		assert.True(t, result.Success)
		assert.Equal(t, models.StateReportWritten, result.State)
		assert.NotEmpty(t, result.SourceChecksum)
		require.NotNil(t, result.Report)
		assert.Equal(t, 6, result.Report.DaysPassed)

		written, ok := store.Report("Alex")
		assert.True(t, ok)
		assert.Equal(t, *result.Report, written)
	})

	t.Run("Expect: the entity passes through READY before pricing", func(t *testing.T) {
		logger, hook := logtest.NewNullLogger()
		logger.SetLevel(logrus.DebugLevel)
		store := storage.NewMemoryStore()
		store.Put("Alex", []models.Record{payment("2023-12-25", "2024-01-01")})
		calculator := NewCalculator(store, nil, time.Sunday, logger)

		result := calculator.ProcessEntity("Alex")

		require.True(t, result.Success)
		var states []models.ProcessingState
		for _, entry := range hook.AllEntries() {
			if state, ok := entry.Data["state"].(models.ProcessingState); ok {
				states = append(states, state)
			}
		}
		assert.Equal(t, []models.ProcessingState{models.StateReady}, states)
	})

	t.Run("Expect: no READY transition when dates cannot be resolved", func(t *testing.T) {
		logger, hook := logtest.NewNullLogger()
		logger.SetLevel(logrus.DebugLevel)
		store := storage.NewMemoryStore()
		store.Put("Carl", []models.Record{payment("2024-01-01", "soon")})
		calculator := NewCalculator(store, nil, time.Sunday, logger)

		result := calculator.ProcessEntity("Carl")

		assert.Equal(t, models.StateDateResolutionFailed, result.State)
		for _, entry := range hook.AllEntries() {
			assert.NotContains(t, entry.Data, "state")
		}
	})

	t.Run("Expect: an empty source fails without writing a report", func(t *testing.T) {
		store := storage.NewMemoryStore()
		store.Put("Bob", []models.Record{})
		calculator := NewCalculator(store, nil, time.Sunday, logging.Discard())

		result := calculator.ProcessEntity("Bob")

		assert.False(t, result.Success)
		assert.Equal(t, models.StateEmpty, result.State)
		assert.Equal(t, "Empty file", result.Reason)
		_, ok := store.Report("Bob")
		assert.False(t, ok)
	})

	t.Run("Expect: a source without dates fails without writing a report", func(t *testing.T) {
		store := storage.NewMemoryStore()
		store.Put("Carl", []models.Record{payment("2024-01-01", "soon")})
		calculator := NewCalculator(store, nil, time.Sunday, logging.Discard())

		result := calculator.ProcessEntity("Carl")

		assert.False(t, result.Success)
		assert.Equal(t, models.StateDateResolutionFailed, result.State)
		assert.Equal(t, "No valid dates", result.Reason)
		_, ok := store.Report("Carl")
		assert.False(t, ok)
	})

	t.Run("Expect: read errors stay in the ingesting state", func(t *testing.T) {
		store := new(MockRecordStore)
		readErr := &models.ReadError{Path: "barbers/Dan.csv", Err: errors.New("bare \" in non-quoted field")}
		store.On("ReadRecords", "Dan").Return(nil, readErr).Once()
		calculator := NewCalculator(store, nil, time.Sunday, logging.Discard())

		result := calculator.ProcessEntity("Dan")

		assert.False(t, result.Success)
		assert.Equal(t, models.StateIngesting, result.State)
		assert.Contains(t, result.Reason, "barbers/Dan.csv")
		store.AssertExpectations(t)
	})

	t.Run("Expect: write errors keep the computed report", func(t *testing.T) {
		store := new(MockRecordStore)
		store.On("ReadRecords", "Eve").Return([]models.Record{payment("2024-01-01", "2024-01-01")}, nil).Once()
		store.On("WriteReport", "Eve", mock.AnythingOfType("models.DebtReport")).
			Return(&models.WriteError{Path: "barbers/Eve_debt.csv", Err: errors.New("permission denied")}).Once()
		calculator := NewCalculator(store, nil, time.Sunday, logging.Discard())

		result := calculator.ProcessEntity("Eve")

		assert.False(t, result.Success)
		assert.Equal(t, models.StateDebtComputed, result.State)
		require.NotNil(t, result.Report)
		assert.Equal(t, 6, result.Report.DaysPassed)
		var writeErr *models.WriteError
		assert.True(t, errors.As(result.Err, &writeErr))
		store.AssertExpectations(t)
	})
}
