package cache

import (
	"sync"
	"time"
)

const (
	DefaultTTL = 24 * time.Hour

	// MaxMemoryEntries bounds the in-memory cache; the oldest entry is evicted first.
	MaxMemoryEntries = 16
)

var timeNow = time.Now

type CacheRepository interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryCache is the in-process fallback used when no Redis address is configured.
// Entries expire after ttl, like the Redis keys do.
type MemoryCache struct {
	mu   sync.Mutex
	ttl  time.Duration
	data map[string]memoryEntry
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryCache{
		ttl:  ttl,
		data: make(map[string]memoryEntry),
	}
}

func (m *MemoryCache) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.data[key]
	if !ok {
		return "", false
	}
	if !timeNow().Before(entry.expiresAt) {
		delete(m.data, key)
		return "", false
	}
	return entry.value, true
}

func (m *MemoryCache) Set(key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := timeNow()
	for k, entry := range m.data {
		if !now.Before(entry.expiresAt) {
			delete(m.data, k)
		}
	}

	if _, exists := m.data[key]; !exists && len(m.data) >= MaxMemoryEntries {
		m.evictOldest()
	}
	m.data[key] = memoryEntry{value: value, expiresAt: now.Add(m.ttl)}
	return nil
}

// Len reports the number of stored entries, expired or not.
func (m *MemoryCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

func (m *MemoryCache) evictOldest() {
	var oldestKey string
	var oldest time.Time
	for k, entry := range m.data {
		if oldestKey == "" || entry.expiresAt.Before(oldest) {
			oldestKey = k
			oldest = entry.expiresAt
		}
	}
	delete(m.data, oldestKey)
}
