package aggregate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/TheFenixfx/barbertrack/internal/models"
	"github.com/TheFenixfx/barbertrack/internal/parser"
	"github.com/TheFenixfx/barbertrack/internal/storage"
	"github.com/sirupsen/logrus"
)

// Combiner folds a directory of per-barber CSV files into one aggregate document.
type Combiner struct {
	reportSuffix string
	logger       *logrus.Logger
}

func NewCombiner(reportSuffix string, logger *logrus.Logger) *Combiner {
	return &Combiner{reportSuffix: reportSuffix, logger: logger}
}

// Combine reads every CSV file in sourceDir. Empty cells become absent values
// and zero byte files become barbers without records.
func (c *Combiner) Combine(sourceDir string) (*models.Aggregate, error) {
	files, err := storage.ScanForFiles(sourceDir, storage.ScanOptions{
		Extension:       storage.DefaultExtension,
		ReportSuffix:    c.reportSuffix,
		CaseInsensitive: true,
	})
	if err != nil {
		return nil, err
	}

	aggregate := models.NewAggregate()
	for _, file := range files {
		name := NameFromFilename(file.Entity)
		if file.Size == 0 {
			aggregate.Teams[name] = []models.Record{}
			continue
		}

		records, err := parser.ReadRecordsFromFile(file.Path)
		if err != nil {
			return nil, err
		}
		if records == nil {
			records = []models.Record{}
		}
		for i := range records {
			records[i] = clean(records[i])
		}

		aggregate.Teams[name] = records
		c.logger.WithField("file", file.Path).Infof("Read %d records", len(records))
	}

	return aggregate, nil
}

// Run combines sourceDir and writes the result to outFile.
func (c *Combiner) Run(sourceDir, outFile string) (*models.Aggregate, error) {
	aggregate, err := c.Combine(sourceDir)
	if err != nil {
		return nil, err
	}
	if err := WriteAggregate(outFile, aggregate); err != nil {
		return nil, err
	}

	c.logger.Infof("Wrote combined JSON to %s", outFile)
	return aggregate, nil
}

func clean(record models.Record) models.Record {
	cleaned := models.NewRecord()
	for _, key := range record.Keys() {
		value, ok := record.Get(key)
		if !ok || value == "" {
			cleaned.SetAbsent(key)
			continue
		}
		cleaned.Set(key, value)
	}
	return cleaned
}

// EncodeAggregate renders the document with two space indentation and without
// escaping HTML or non-ASCII characters.
func EncodeAggregate(aggregate *models.Aggregate) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(aggregate); err != nil {
		return nil, fmt.Errorf("failed to encode aggregate: %w", err)
	}
	return buf.Bytes(), nil
}

func WriteAggregate(path string, aggregate *models.Aggregate) error {
	content, err := EncodeAggregate(aggregate)
	if err != nil {
		return &models.WriteError{Path: path, Err: err}
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return &models.WriteError{Path: path, Err: err}
	}
	return nil
}
