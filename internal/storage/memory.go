// internal/storage/memory.go
package storage

import (
	"sort"
	"strings"
	"sync"
	"time"

	"hookmock/internal/constants"
	"hookmock/internal/models"
)

// MemoryStore keeps records in an insertion-ordered slice guarded by a
// mutex. It is the default backend and the reference implementation of
// the Store contract.
type MemoryStore struct {
	mu         sync.RWMutex
	records    []models.LogRecord // insertion order, oldest first
	maxRecords int
}

func NewMemoryStore(maxRecords int) *MemoryStore {
	if maxRecords < 1 {
		maxRecords = constants.DefaultMaxRecords
	}
	return &MemoryStore{maxRecords: maxRecords}
}

func (s *MemoryStore) Add(record models.LogRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, record)
	if excess := len(s.records) - s.maxRecords; excess > 0 {
		// Oldest means smallest insertion order, not smallest timestamp.
		s.records = append(s.records[:0:0], s.records[excess:]...)
	}
	return nil
}

func (s *MemoryStore) List(webhookID string) ([]models.LogRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(webhookID), nil
}

func (s *MemoryStore) ListPaged(page, pageSize int, webhookID string) (models.PagedLogs, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if pageSize < 1 {
		pageSize = constants.DefaultPageSize
	}

	all := s.snapshot(webhookID)
	total := len(all)
	pages := totalPages(total, pageSize)
	page = clampPage(page, pages)

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return models.PagedLogs{
		Logs:       all[start:end],
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: pages,
		HasMore:    page < pages,
	}, nil
}

func (s *MemoryStore) GetByID(id string) (models.LogRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.records {
		if r.ID == id {
			return r, nil
		}
	}
	return models.LogRecord{}, ErrNotFound
}

func (s *MemoryStore) DeleteByID(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.records {
		if r.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) Clear(webhookID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if webhookID == "" {
		s.records = nil
		return nil
	}
	kept := s.records[:0:0]
	for _, r := range s.records {
		if r.WebhookID != webhookID {
			kept = append(kept, r)
		}
	}
	s.records = kept
	return nil
}

func (s *MemoryStore) Stats(webhookID string) (models.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	stats := models.Stats{
		ByMethod: make(map[string]int),
		ByStatus: make(map[string]int),
		ByPath:   make(map[string]int),
	}

	for _, r := range s.records {
		if webhookID != "" && r.WebhookID != webhookID {
			continue
		}
		stats.Total++
		stats.ByMethod[strings.ToUpper(r.Method)]++
		stats.ByStatus[StatusGroup(r.StatusCode)]++
		if _, seen := stats.ByPath[r.Path]; !seen {
			stats.PathOrder = append(stats.PathOrder, r.Path)
		}
		stats.ByPath[r.Path]++

		age := now.Sub(r.Timestamp)
		if age <= 24*time.Hour {
			stats.Last24h++
		}
		if age <= time.Hour {
			stats.LastHour++
		}
		if age <= time.Minute {
			stats.LastMinute++
		}
	}
	return stats, nil
}

func (s *MemoryStore) Close() error { return nil }

// snapshot returns a newest-first copy. Ties on timestamp keep reverse
// insertion order so a fresh burst of inserts reads back stably.
// Caller must hold at least a read lock.
func (s *MemoryStore) snapshot(webhookID string) []models.LogRecord {
	out := make([]models.LogRecord, 0, len(s.records))
	for i := len(s.records) - 1; i >= 0; i-- {
		r := s.records[i]
		if webhookID != "" && r.WebhookID != webhookID {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}
