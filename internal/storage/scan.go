package storage

import (
	"database/sql"

	"github.com/google/uuid"

	"github.com/romangod6/gin-sitemap/internal/models"
)

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner) (*models.Entry, error) {
	var (
		entry               models.Entry
		idStr               string
		lastmod, changefreq sql.NullString
		priority            sql.NullFloat64
	)

	err := row.Scan(
		&idStr,
		&entry.Loc,
		&lastmod,
		&changefreq,
		&priority,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	entry.ID, _ = uuid.Parse(idStr)
	entry.LastMod = lastmod.String
	entry.ChangeFreq = changefreq.String
	if priority.Valid {
		p := priority.Float64
		entry.Priority = &p
	}
	return &entry, nil
}

func scanEntries(rows *sql.Rows) ([]*models.Entry, error) {
	var entries []*models.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func nullFloat(f *float64) interface{} {
	if f == nil {
		return nil
	}
	return *f
}
