package debt

import (
	"sync"

	"github.com/shopspring/decimal"
)

var (
	DefaultStandardRate = decimal.NewFromInt(7)
	DefaultOverrides    = map[string]decimal.Decimal{"Genesis": decimal.NewFromInt(5)}
)

// RateTable maps barber names to their daily rate. Names without an entry pay
// the standard rate. Safe for concurrent use.
type RateTable struct {
	mu        sync.RWMutex
	standard  decimal.Decimal
	overrides map[string]decimal.Decimal
}

func NewRateTable(standard decimal.Decimal, overrides map[string]decimal.Decimal) *RateTable {
	table := &RateTable{
		standard:  standard,
		overrides: make(map[string]decimal.Decimal, len(overrides)),
	}
	for name, rate := range overrides {
		table.overrides[name] = rate
	}
	return table
}

func DefaultRateTable() *RateTable {
	return NewRateTable(DefaultStandardRate, DefaultOverrides)
}

func (t *RateTable) Rate(entity string) decimal.Decimal {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if rate, ok := t.overrides[entity]; ok {
		return rate
	}
	return t.standard
}

func (t *RateTable) Standard() decimal.Decimal {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.standard
}

func (t *RateTable) SetRate(entity string, rate decimal.Decimal) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.overrides[entity] = rate
}

func (t *RateTable) RemoveRate(entity string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.overrides, entity)
}

// Overrides returns a copy of the per-barber entries.
func (t *RateTable) Overrides() map[string]decimal.Decimal {
	t.mu.RLock()
	defer t.mu.RUnlock()

	overrides := make(map[string]decimal.Decimal, len(t.overrides))
	for name, rate := range t.overrides {
		overrides[name] = rate
	}
	return overrides
}

func CalculateDebt(daysPassed int, dailyRate decimal.Decimal) decimal.Decimal {
	return dailyRate.Mul(decimal.NewFromInt(int64(daysPassed)))
}
