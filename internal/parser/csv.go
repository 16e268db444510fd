package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/TheFenixfx/barbertrack/internal/models"
)

var preferredFields = []string{models.FieldStartDate, models.FieldEndDate, models.FieldLink}

// ReadRecords reads a comma separated source whose first row is the header.
// A source with no rows at all, or only a header, yields no records.
func ReadRecords(r io.Reader) ([]models.Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var records []models.Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		record := models.NewRecord()
		for i, field := range header {
			if i < len(row) {
				record.Set(field, row[i])
			} else {
				record.SetAbsent(field)
			}
		}
		records = append(records, record)
	}

	return records, nil
}

// ReadRecordsFromFile opens filePath and reads its records.
func ReadRecordsFromFile(filePath string) ([]models.Record, error) {
	file, err := os.Open(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &models.NotFoundError{Path: filePath, Err: err}
		}
		return nil, &models.ReadError{Path: filePath, Err: err}
	}
	defer file.Close()

	records, err := ReadRecords(file)
	if err != nil {
		return nil, &models.ReadError{Path: filePath, Err: err}
	}
	return records, nil
}

// ParseDate parses a strict YYYY-MM-DD date.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(models.DateLayout, strings.TrimSpace(value))
}

// GetLatestPaymentDate returns the latest endDate among records. Blank or
// malformed dates are skipped; ok is false when none could be parsed.
func GetLatestPaymentDate(records []models.Record) (latest time.Time, ok bool) {
	for _, record := range records {
		endDate, present := record.EndDate()
		if !present || strings.TrimSpace(endDate) == "" {
			continue
		}

		current, err := ParseDate(endDate)
		if err != nil {
			continue
		}
		if !ok || current.After(latest) {
			latest = current
			ok = true
		}
	}
	return latest, ok
}

// ResolveFieldNames returns the union of keys of all records in discovery order,
// with startDate, endDate and link moved to the front when present.
func ResolveFieldNames(records []models.Record) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, record := range records {
		for _, key := range record.Keys() {
			if !seen[key] {
				seen[key] = true
				keys = append(keys, key)
			}
		}
	}

	fieldNames := make([]string, 0, len(keys))
	for _, field := range preferredFields {
		if seen[field] {
			fieldNames = append(fieldNames, field)
		}
	}
	for _, key := range keys {
		if !isPreferred(key) {
			fieldNames = append(fieldNames, key)
		}
	}
	return fieldNames
}

func isPreferred(field string) bool {
	for _, p := range preferredFields {
		if p == field {
			return true
		}
	}
	return false
}

// WriteRecords writes a header followed by one row per record. Absent values
// become empty cells.
func WriteRecords(w io.Writer, fieldNames []string, records []models.Record) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(fieldNames); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	row := make([]string, len(fieldNames))
	for _, record := range records {
		for i, field := range fieldNames {
			value, _ := record.Get(field)
			row[i] = value
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteDebtReport writes the two column debt report.
func WriteDebtReport(w io.Writer, report models.DebtReport) error {
	writer := csv.NewWriter(w)
	rows := [][]string{
		{"days_passed", "debt_amount"},
		{strconv.Itoa(report.DaysPassed), report.DebtAmount.StringFixed(2)},
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write debt report: %w", err)
	}
	return nil
}
