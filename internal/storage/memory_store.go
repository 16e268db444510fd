package storage

import (
	"encoding/json"
	"sort"
	"sync"

	"github.com/TheFenixfx/barbertrack/internal/models"
	"github.com/TheFenixfx/barbertrack/pkg/checksum"
)

// MemoryStore holds records and reports in memory. It backs the HTTP debt
// summary, which computes debts straight from the aggregate document.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]models.Record
	reports map[string]models.DebtReport
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string][]models.Record),
		reports: make(map[string]models.DebtReport),
	}
}

func NewMemoryStoreFromAggregate(aggregate *models.Aggregate) *MemoryStore {
	store := NewMemoryStore()
	if aggregate == nil {
		return store
	}
	for name, records := range aggregate.Teams {
		store.Put(name, records)
	}
	return store
}

func (s *MemoryStore) Put(entity string, records []models.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[entity] = records
}

func (s *MemoryStore) Location() string {
	return "memory"
}

func (s *MemoryStore) ListEntities() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entities := make([]string, 0, len(s.records))
	for name := range s.records {
		entities = append(entities, name)
	}
	sort.Strings(entities)
	return entities, nil
}

func (s *MemoryStore) ReadRecords(entity string) ([]models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, ok := s.records[entity]
	if !ok {
		return nil, &models.NotFoundError{Path: entity}
	}
	return records, nil
}

func (s *MemoryStore) WriteReport(entity string, report models.DebtReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[entity] = report
	return nil
}

func (s *MemoryStore) Report(entity string) (models.DebtReport, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	report, ok := s.reports[entity]
	return report, ok
}

func (s *MemoryStore) Checksum(entity string) (string, error) {
	records, err := s.ReadRecords(entity)
	if err != nil {
		return "", err
	}
	content, err := json.Marshal(records)
	if err != nil {
		return "", err
	}
	return checksum.CalculateHash(content), nil
}
