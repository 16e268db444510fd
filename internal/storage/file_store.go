package storage

import (
	"os"
	"path/filepath"

	"github.com/TheFenixfx/barbertrack/internal/models"
	"github.com/TheFenixfx/barbertrack/internal/parser"
	"github.com/TheFenixfx/barbertrack/pkg/checksum"
)

const (
	DefaultExtension    = ".csv"
	DefaultReportSuffix = "_debt"
)

// FileStore keeps one CSV file per barber in a single directory and writes
// reports next to them as <entity><reportSuffix>.csv.
type FileStore struct {
	dir          string
	extension    string
	reportSuffix string
}

func NewFileStore(dir, reportSuffix string) *FileStore {
	if reportSuffix == "" {
		reportSuffix = DefaultReportSuffix
	}
	return &FileStore{
		dir:          dir,
		extension:    DefaultExtension,
		reportSuffix: reportSuffix,
	}
}

func (s *FileStore) Location() string {
	return s.dir
}

func (s *FileStore) ListEntities() ([]string, error) {
	files, err := ScanForFiles(s.dir, ScanOptions{
		Extension:    s.extension,
		ReportSuffix: s.reportSuffix,
	})
	if err != nil {
		return nil, err
	}

	entities := make([]string, 0, len(files))
	for _, file := range files {
		entities = append(entities, file.Entity)
	}
	return entities, nil
}

func (s *FileStore) SourcePath(entity string) string {
	return filepath.Join(s.dir, entity+s.extension)
}

func (s *FileStore) ReportPath(entity string) string {
	return filepath.Join(s.dir, entity+s.reportSuffix+s.extension)
}

func (s *FileStore) ReadRecords(entity string) ([]models.Record, error) {
	return parser.ReadRecordsFromFile(s.SourcePath(entity))
}

// WriteReport replaces any existing report for entity.
func (s *FileStore) WriteReport(entity string, report models.DebtReport) (err error) {
	path := s.ReportPath(entity)
	file, err := os.Create(path)
	if err != nil {
		return &models.WriteError{Path: path, Err: err}
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = &models.WriteError{Path: path, Err: closeErr}
		}
	}()

	if err := parser.WriteDebtReport(file, report); err != nil {
		return &models.WriteError{Path: path, Err: err}
	}
	return nil
}

func (s *FileStore) Checksum(entity string) (string, error) {
	return checksum.GetFileChecksum(s.SourcePath(entity))
}
