// internal/storage/storage.go
package storage

import (
	"errors"
	"fmt"

	"hookmock/internal/config"
	"hookmock/internal/models"
)

// ErrNotFound is returned when a record id does not exist.
var ErrNotFound = errors.New("log record not found")

// Store is the contract every storage backend satisfies. Callers never
// know which backend they talk to; the implementation is selected once
// at startup from configuration.
//
// All list-style reads return records newest-first by timestamp. An
// empty webhookID means "all records"; a non-empty one scopes the
// operation to that bucket.
type Store interface {
	// Add inserts a record, trimming the oldest records beyond the
	// configured retention cap.
	Add(record models.LogRecord) error

	// List returns all records, optionally scoped to one webhook.
	List(webhookID string) ([]models.LogRecord, error)

	// ListPaged returns one 1-based page of List. Pages outside
	// [1, totalPages] are clamped.
	ListPaged(page, pageSize int, webhookID string) (models.PagedLogs, error)

	// GetByID returns the record or ErrNotFound.
	GetByID(id string) (models.LogRecord, error)

	// DeleteByID removes one record, reporting whether it existed.
	DeleteByID(id string) (bool, error)

	// Clear removes all records, or all records of one webhook.
	Clear(webhookID string) error

	// Stats aggregates counts over the stored records.
	Stats(webhookID string) (models.Stats, error)

	// Close releases backend resources.
	Close() error
}

// New builds the backend named by the configuration.
func New(cfg *config.Config) (Store, error) {
	switch cfg.Storage.Backend {
	case "", "memory":
		return NewMemoryStore(cfg.Storage.MaxRecords), nil
	case "mysql":
		db, err := NewDB(Config{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.DBName,
		})
		if err != nil {
			return nil, err
		}
		return NewMySQLStore(db, cfg.Storage.MaxRecords)
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", cfg.Storage.Backend)
	}
}

// StatusGroup maps a status code to its dashboard grouping key,
// e.g. 204 -> "2xx".
func StatusGroup(code int) string {
	return fmt.Sprintf("%dxx", code/100)
}

func totalPages(total, pageSize int) int {
	if pageSize < 1 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

func clampPage(page, pages int) int {
	if page < 1 {
		return 1
	}
	if pages > 0 && page > pages {
		return pages
	}
	return page
}
