package storage

import (
	"context"
	"fmt"

	"github.com/romangod6/gin-sitemap/internal/models"
	"github.com/romangod6/gin-sitemap/sitemap"
)

// NewSource exposes the entries of store as a sitemap source. Entries are read
// fresh on every collection pass.
func NewSource(store Store) sitemap.Source {
	return func(ctx context.Context, yield func(sitemap.URLInfo) bool) error {
		entries, err := store.ListEntries(ctx)
		if err != nil {
			return fmt.Errorf("list entries: %w", err)
		}
		for _, entry := range entries {
			if !yield(ToURLInfo(entry)) {
				return nil
			}
		}
		return nil
	}
}

// ToURLInfo converts a stored entry to a sitemap entry.
func ToURLInfo(entry *models.Entry) sitemap.URLInfo {
	var opts []sitemap.URLOption
	if entry.LastMod != "" {
		opts = append(opts, sitemap.WithLastMod(entry.LastMod))
	}
	if entry.ChangeFreq != "" {
		opts = append(opts, sitemap.WithChangeFreq(sitemap.ChangeFreq(entry.ChangeFreq)))
	}
	if entry.Priority != nil {
		opts = append(opts, sitemap.WithPriority(*entry.Priority))
	}
	return sitemap.NewURLInfo(entry.Loc, opts...)
}
