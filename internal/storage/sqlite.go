package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/romangod6/gin-sitemap/internal/models"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Initialize() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS sitemap_entries (
            id TEXT PRIMARY KEY,
            loc TEXT UNIQUE NOT NULL,
            lastmod TEXT,
            changefreq TEXT,
            priority REAL,
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE INDEX IF NOT EXISTS idx_sitemap_entries_created_at ON sitemap_entries(created_at)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}

	return nil
}

func (s *SQLiteStore) UpsertEntry(ctx context.Context, entry *models.Entry) error {
	query := `
        INSERT INTO sitemap_entries (id, loc, lastmod, changefreq, priority, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(loc) DO UPDATE SET
            lastmod = excluded.lastmod,
            changefreq = excluded.changefreq,
            priority = excluded.priority,
            updated_at = excluded.updated_at
    `

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, query,
		entry.ID.String(),
		entry.Loc,
		entry.LastMod,
		entry.ChangeFreq,
		nullFloat(entry.Priority),
		entry.CreatedAt,
		entry.UpdatedAt,
	)

	return err
}

func (s *SQLiteStore) GetEntry(ctx context.Context, loc string) (*models.Entry, error) {
	query := `
        SELECT id, loc, lastmod, changefreq, priority, created_at, updated_at
        FROM sitemap_entries
        WHERE loc = ?
    `

	entry, err := scanEntry(s.db.QueryRowContext(ctx, query, loc))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return entry, err
}

func (s *SQLiteStore) ListEntries(ctx context.Context) ([]*models.Entry, error) {
	query := `
        SELECT id, loc, lastmod, changefreq, priority, created_at, updated_at
        FROM sitemap_entries
        ORDER BY created_at, loc
    `

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (s *SQLiteStore) DeleteEntry(ctx context.Context, loc string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sitemap_entries WHERE loc = ?`, loc)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
