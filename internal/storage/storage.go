package storage

import (
	"context"
	"fmt"

	"github.com/romangod6/gin-sitemap/internal/models"
)

type Store interface {
	Initialize() error
	Close() error

	// Entry operations
	UpsertEntry(ctx context.Context, entry *models.Entry) error
	GetEntry(ctx context.Context, loc string) (*models.Entry, error)
	ListEntries(ctx context.Context) ([]*models.Entry, error)
	DeleteEntry(ctx context.Context, loc string) error
}

// Open connects to the store for driver ("sqlite3" or "postgres") and creates its
// tables if needed.
func Open(driver, dsn string) (Store, error) {
	var (
		store Store
		err   error
	)
	switch driver {
	case "sqlite3", "sqlite":
		store, err = NewSQLiteStore(dsn)
	case "postgres", "postgresql":
		store, err = NewPostgresStore(dsn)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", driver, err)
	}

	if err := store.Initialize(); err != nil {
		store.Close()
		return nil, fmt.Errorf("initialize %s store: %w", driver, err)
	}
	return store, nil
}
