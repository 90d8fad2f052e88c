package models

import (
	"time"

	"github.com/google/uuid"
)

// Entry is an operator-managed sitemap URL kept in an entry store.
type Entry struct {
	ID         uuid.UUID `json:"id"`
	Loc        string    `json:"loc"`
	LastMod    string    `json:"lastmod,omitempty"`
	ChangeFreq string    `json:"changefreq,omitempty"`
	Priority   *float64  `json:"priority,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewEntry creates a new entry with generated UUID and timestamps
func NewEntry(loc string) *Entry {
	now := time.Now().UTC()
	return &Entry{
		ID:        uuid.New(),
		Loc:       loc,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
