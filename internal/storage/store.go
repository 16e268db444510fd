package storage

import "github.com/TheFenixfx/barbertrack/internal/models"

// RecordStore is where barber payment records are read from and debt reports
// are written to.
type RecordStore interface {
	Location() string
	ListEntities() ([]string, error)
	ReadRecords(entity string) ([]models.Record, error)
	WriteReport(entity string, report models.DebtReport) error
}

// Checksummer is implemented by stores that can fingerprint an entity's source.
type Checksummer interface {
	Checksum(entity string) (string, error)
}
