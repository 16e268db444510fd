package debt

import (
	"errors"
	"time"

	"github.com/TheFenixfx/barbertrack/internal/models"
	"github.com/TheFenixfx/barbertrack/internal/parser"
	"github.com/TheFenixfx/barbertrack/internal/storage"
	"github.com/sirupsen/logrus"
)

var timeNow = time.Now

// Calculator turns one barber's payment records into a debt report.
type Calculator struct {
	store           storage.RecordStore
	rates           *RateTable
	excludedWeekday time.Weekday
	logger          *logrus.Logger
}

func NewCalculator(store storage.RecordStore, rates *RateTable, excludedWeekday time.Weekday, logger *logrus.Logger) *Calculator {
	if rates == nil {
		rates = DefaultRateTable()
	}
	return &Calculator{
		store:           store,
		rates:           rates,
		excludedWeekday: excludedWeekday,
		logger:          logger,
	}
}

// Compute resolves the latest payment in records and prices the days since
// then. It returns EmptySourceError or NoValidDateError when there is nothing
// to price.
func (c *Calculator) Compute(entity string, records []models.Record, now time.Time) (models.DebtReport, error) {
	latest, err := c.ResolveLatestPayment(entity, records)
	if err != nil {
		return models.DebtReport{}, err
	}
	return c.Price(entity, latest, now), nil
}

// ResolveLatestPayment returns the date the barber last paid up to.
func (c *Calculator) ResolveLatestPayment(entity string, records []models.Record) (time.Time, error) {
	if len(records) == 0 {
		return time.Time{}, &models.EmptySourceError{Entity: entity}
	}

	latest, ok := parser.GetLatestPaymentDate(records)
	if !ok {
		return time.Time{}, &models.NoValidDateError{Entity: entity}
	}
	return latest, nil
}

func (c *Calculator) Price(entity string, latest, now time.Time) models.DebtReport {
	days := CountChargeableDays(latest, now, c.excludedWeekday)
	return models.DebtReport{
		DaysPassed:    days,
		DebtAmount:    CalculateDebt(days, c.rates.Rate(entity)),
		LatestPayment: latest,
	}
}

// ProcessEntity reads, prices and writes the report for a single barber. Every
// failure is folded into the returned result.
func (c *Calculator) ProcessEntity(entity string) models.ProcessResult {
	result := models.ProcessResult{Entity: entity, State: models.StateIngesting}
	log := c.logger.WithField("entity", entity)

	records, err := c.store.ReadRecords(entity)
	if err != nil {
		log.WithError(err).Error("Error processing source")
		return fail(result, err)
	}

	if summer, ok := c.store.(storage.Checksummer); ok {
		sum, err := summer.Checksum(entity)
		if err != nil {
			log.WithError(err).Warn("Could not checksum source")
		}
		result.SourceChecksum = sum
	}

	latest, err := c.ResolveLatestPayment(entity, records)
	if err != nil {
		var empty *models.EmptySourceError
		var noDates *models.NoValidDateError
		switch {
		case errors.As(err, &empty):
			result.State = models.StateEmpty
			log.Warn("Source is empty or has no data")
		case errors.As(err, &noDates):
			result.State = models.StateDateResolutionFailed
			log.Warn("No valid dates found")
		}
		return fail(result, err)
	}
	result.State = models.StateReady
	log.WithFields(logrus.Fields{
		"state":          result.State,
		"latest_payment": latest.Format(models.DateLayout),
	}).Debug("Latest payment resolved")

	report := c.Price(entity, latest, timeNow())
	result.Report = &report
	result.State = models.StateDebtComputed

	if err := c.store.WriteReport(entity, report); err != nil {
		log.WithError(err).Error("Error writing debt report")
		return fail(result, err)
	}
	result.State = models.StateReportWritten
	result.Success = true

	log.WithFields(logrus.Fields{
		"latest_payment": report.LatestPayment.Format(models.DateLayout),
		"days_passed":    report.DaysPassed,
		"debt_amount":    report.DebtAmount.StringFixed(2),
	}).Info("Created debt report")

	return result
}

func fail(result models.ProcessResult, err error) models.ProcessResult {
	result.Success = false
	result.Reason = err.Error()
	result.Err = err
	return result
}
