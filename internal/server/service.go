package server

import (
	"encoding/json"
	"net/http"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/TheFenixfx/barbertrack/internal/aggregate"
	"github.com/TheFenixfx/barbertrack/internal/cache"
	"github.com/TheFenixfx/barbertrack/internal/debt"
	"github.com/TheFenixfx/barbertrack/internal/models"
	"github.com/TheFenixfx/barbertrack/internal/storage"
	"github.com/TheFenixfx/barbertrack/pkg/checksum"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

const defaultHistoryLimit = 30

// HistoryReader is the part of the ledger the API reads from.
type HistoryReader interface {
	GetEntityHistory(entity string, limit int) ([]models.LedgerEntry, error)
}

type DebtItem struct {
	Name          string  `json:"name"`
	Amount        float64 `json:"amount"`
	Days          int     `json:"days"`
	LatestPayment string  `json:"latestPayment"`
}

type ChartService struct {
	dataFile        string
	cache           cache.CacheRepository
	rates           *debt.RateTable
	excludedWeekday time.Weekday
	history         HistoryReader
	logger          *logrus.Logger
}

// NewChartService builds the chart API. history may be nil when no ledger is configured.
func NewChartService(dataFile string, cacheRepo cache.CacheRepository, rates *debt.RateTable, excludedWeekday time.Weekday, history HistoryReader, logger *logrus.Logger) *ChartService {
	return &ChartService{
		dataFile:        dataFile,
		cache:           cacheRepo,
		rates:           rates,
		excludedWeekday: excludedWeekday,
		history:         history,
		logger:          logger,
	}
}

// GetChartData serves the data file exactly as written once it parses as an
// aggregate document. Responses are cached by the checksum of the file, so
// edits to the file are picked up at once.
func (s *ChartService) GetChartData(w http.ResponseWriter, r *http.Request) {
	content, err := os.ReadFile(s.dataFile)
	if err != nil {
		s.logger.WithError(err).Error("Error reading data file")
		writeError(w, http.StatusInternalServerError, "Failed to load chart data")
		return
	}

	key := "chartdata:" + checksum.CalculateHash(content)
	if cached, ok := s.cache.Get(key); ok {
		writeRaw(w, http.StatusOK, []byte(cached))
		return
	}

	if _, err := aggregate.DecodeAggregate(s.dataFile, content); err != nil {
		s.logger.WithError(err).Error("Error parsing data file")
		writeError(w, http.StatusInternalServerError, "Failed to load chart data")
		return
	}

	if err := s.cache.Set(key, string(content)); err != nil {
		s.logger.WithError(err).Warn("Failed to cache chart data")
	}
	writeRaw(w, http.StatusOK, content)
}

// GetDebts prices every barber in the data file. Barbers that cannot be priced
// are left out.
func (s *ChartService) GetDebts(w http.ResponseWriter, r *http.Request) {
	doc, err := aggregate.LoadAggregate(s.dataFile)
	if err != nil {
		s.logger.WithError(err).Error("Error loading data file")
		writeError(w, http.StatusInternalServerError, "Failed to load debt data")
		return
	}

	store := storage.NewMemoryStoreFromAggregate(doc)
	calculator := debt.NewCalculator(store, s.rates, s.excludedWeekday, s.logger)

	entities, _ := store.ListEntities()
	debts := make([]DebtItem, 0, len(entities))
	for _, entity := range entities {
		result := calculator.ProcessEntity(entity)
		if !result.Success {
			continue
		}
		debts = append(debts, DebtItem{
			Name:          entity,
			Amount:        result.Report.DebtAmount.Round(2).InexactFloat64(),
			Days:          result.Report.DaysPassed,
			LatestPayment: result.Report.LatestPayment.Format(models.DateLayout),
		})
	}
	sort.Slice(debts, func(i, j int) bool { return debts[i].Name < debts[j].Name })

	writeJSON(w, http.StatusOK, map[string]any{"debts": debts})
}

func (s *ChartService) GetDebtHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusNotFound, "Debt history is not available")
		return
	}

	name := mux.Vars(r)["name"]
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid 'limit', expected a positive integer")
			return
		}
		limit = parsed
	}

	entries, err := s.history.GetEntityHistory(name, limit)
	if err != nil {
		s.logger.WithError(err).WithField("entity", name).Error("Error reading debt history")
		writeError(w, http.StatusInternalServerError, "Failed to load debt history")
		return
	}
	if entries == nil {
		entries = []models.LedgerEntry{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"name": name, "history": entries})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logrus.WithError(err).Error("Failed to encode response")
	}
}

func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
