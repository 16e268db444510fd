package aggregate

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"

	"github.com/TheFenixfx/barbertrack/internal/models"
	"github.com/TheFenixfx/barbertrack/internal/parser"
	"github.com/sirupsen/logrus"
)

// Generator writes one CSV file per barber from an aggregate document.
type Generator struct {
	logger *logrus.Logger
}

func NewGenerator(logger *logrus.Logger) *Generator {
	return &Generator{logger: logger}
}

func LoadAggregate(path string) (*models.Aggregate, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &models.NotFoundError{Path: path, Err: err}
		}
		return nil, &models.ReadError{Path: path, Err: err}
	}
	return DecodeAggregate(path, content)
}

func DecodeAggregate(path string, content []byte) (*models.Aggregate, error) {
	aggregate := models.NewAggregate()
	if err := json.Unmarshal(content, aggregate); err != nil {
		return nil, &models.ReadError{Path: path, Err: err}
	}
	if aggregate.Teams == nil {
		aggregate.Teams = make(map[string][]models.Record)
	}
	return aggregate, nil
}

// Generate writes the files into outDir, creating it when needed, and returns
// the number of files written. Barbers are written in name order.
func (g *Generator) Generate(aggregate *models.Aggregate, outDir string) (int, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return 0, &models.WriteError{Path: outDir, Err: err}
	}

	names := make([]string, 0, len(aggregate.Teams))
	for name := range aggregate.Teams {
		names = append(names, name)
	}
	sort.Strings(names)

	written := 0
	for _, name := range names {
		records := aggregate.Teams[name]
		path := filepath.Join(outDir, SanitizeFilename(name)+".csv")
		if err := writeBarberFile(path, records); err != nil {
			return written, err
		}
		written++
		g.logger.WithField("file", path).Infof("Wrote %d rows", len(records))
	}

	g.logger.Infof("Done. Wrote %d files to %s", written, outDir)
	return written, nil
}

func (g *Generator) Run(dataFile, outDir string) (int, error) {
	aggregate, err := LoadAggregate(dataFile)
	if err != nil {
		return 0, err
	}
	return g.Generate(aggregate, outDir)
}

// writeBarberFile leaves the file empty when there are no columns to write.
func writeBarberFile(path string, records []models.Record) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return &models.WriteError{Path: path, Err: err}
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = &models.WriteError{Path: path, Err: closeErr}
		}
	}()

	fieldNames := parser.ResolveFieldNames(records)
	if len(fieldNames) == 0 {
		return nil
	}
	if err := parser.WriteRecords(file, fieldNames, records); err != nil {
		return &models.WriteError{Path: path, Err: err}
	}
	return nil
}
