package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/romangod6/gin-sitemap/internal/models"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, describePQError(err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Initialize() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS sitemap_entries (
            id UUID PRIMARY KEY,
            loc VARCHAR(2048) UNIQUE NOT NULL,
            lastmod VARCHAR(64),
            changefreq VARCHAR(16),
            priority DOUBLE PRECISION,
            created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE INDEX IF NOT EXISTS idx_sitemap_entries_created_at ON sitemap_entries(created_at)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, describePQError(err))
		}
	}

	return nil
}

func (s *PostgresStore) UpsertEntry(ctx context.Context, entry *models.Entry) error {
	query := `
        INSERT INTO sitemap_entries (id, loc, lastmod, changefreq, priority, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (loc) DO UPDATE SET
            lastmod = EXCLUDED.lastmod,
            changefreq = EXCLUDED.changefreq,
            priority = EXCLUDED.priority,
            updated_at = EXCLUDED.updated_at
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
		entry.ID,
		entry.Loc,
		entry.LastMod,
		entry.ChangeFreq,
		nullFloat(entry.Priority),
		entry.CreatedAt,
		entry.UpdatedAt,
	)

	return describePQError(err)
}

func (s *PostgresStore) GetEntry(ctx context.Context, loc string) (*models.Entry, error) {
	query := `
        SELECT id, loc, lastmod, changefreq, priority, created_at, updated_at
        FROM sitemap_entries
        WHERE loc = $1
    `

	entry, err := scanEntry(s.db.QueryRowContext(ctx, query, loc))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return entry, describePQError(err)
}

func (s *PostgresStore) ListEntries(ctx context.Context) ([]*models.Entry, error) {
	query := `
        SELECT id, loc, lastmod, changefreq, priority, created_at, updated_at
        FROM sitemap_entries
        ORDER BY created_at, loc
    `

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, describePQError(err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (s *PostgresStore) DeleteEntry(ctx context.Context, loc string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sitemap_entries WHERE loc = $1`, loc)
	return describePQError(err)
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// describePQError adds the SQLSTATE condition name to server errors.
func describePQError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fmt.Errorf("postgres %s: %w", pqErr.Code.Name(), err)
	}
	return err
}
