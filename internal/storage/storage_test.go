package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romangod6/gin-sitemap/internal/models"
	"github.com/romangod6/gin-sitemap/sitemap"
)

type staticApp struct{}

func (staticApp) Routes() []any { return nil }
func (staticApp) Mount(string, string, gin.HandlerFunc) error { return nil }

func newSQLiteStore(t *testing.T) Store {
	t.Helper()
	store, err := Open("sqlite3", filepath.Join(t.TempDir(), "entries.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// exerciseStore runs the behaviour every Store implementation shares.
func exerciseStore(t *testing.T, store Store) {
	ctx := context.Background()
	priority := 0.8

	first := models.NewEntry("https://example.com/pricing")
	first.ChangeFreq = "weekly"
	first.Priority = &priority
	require.NoError(t, store.UpsertEntry(ctx, first))
	time.Sleep(2 * time.Millisecond)

	second := &models.Entry{Loc: "https://example.com/careers", LastMod: "2024-02-01"}
	require.NoError(t, store.UpsertEntry(ctx, second))
	assert.NotEqual(t, uuid.Nil, second.ID)
	assert.False(t, second.CreatedAt.IsZero())

	got, err := store.GetEntry(ctx, first.Loc)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, "weekly", got.ChangeFreq)
	require.NotNil(t, got.Priority)
	assert.Equal(t, 0.8, *got.Priority)

	missing, err := store.GetEntry(ctx, "https://example.com/nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	// Upserting the same loc updates metadata and keeps the original row.
	update := models.NewEntry(first.Loc)
	update.ChangeFreq = "daily"
	require.NoError(t, store.UpsertEntry(ctx, update))

	got, err = store.GetEntry(ctx, first.Loc)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, "daily", got.ChangeFreq)
	assert.Nil(t, got.Priority)

	entries, err := store.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, first.Loc, entries[0].Loc)
	assert.Equal(t, second.Loc, entries[1].Loc)

	require.NoError(t, store.DeleteEntry(ctx, first.Loc))
	entries, err = store.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, second.Loc, entries[0].Loc)
}

func TestSQLiteStore(t *testing.T) {
	exerciseStore(t, newSQLiteStore(t))
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("SITEMAP_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("SITEMAP_TEST_POSTGRES_DSN not set")
	}
	store, err := Open("postgres", dsn)
	require.NoError(t, err)
	defer store.Close()

	ps := store.(*PostgresStore)
	_, err = ps.db.Exec(`DELETE FROM sitemap_entries`)
	require.NoError(t, err)

	exerciseStore(t, store)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open("mongodb", "mongodb://localhost")
	assert.ErrorContains(t, err, `unsupported store driver "mongodb"`)
}

func TestSQLiteStore_ReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entries.db")
	store, err := Open("sqlite", path)
	require.NoError(t, err)
	require.NoError(t, store.UpsertEntry(context.Background(), models.NewEntry("https://example.com/")))
	require.NoError(t, store.Close())

	store, err = Open("sqlite3", path)
	require.NoError(t, err)
	defer store.Close()
	entries, err := store.ListEntries(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestNewSource(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	entry := models.NewEntry("https://example.com/landing")
	entry.LastMod = "2024-06-01"
	require.NoError(t, store.UpsertEntry(ctx, entry))
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, store.UpsertEntry(ctx, models.NewEntry("https://example.com/events")))

	var got []sitemap.URLInfo
	err := NewSource(store)(ctx, func(u sitemap.URLInfo) bool {
		got = append(got, u)
		return true
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "https://example.com/landing", got[0].Loc())
	assert.Equal(t, "2024-06-01", got[0].LastMod())

	// Stopping after the first entry.
	calls := 0
	err = NewSource(store)(ctx, func(u sitemap.URLInfo) bool {
		calls++
		return false
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestNewSource_FeedsSiteMap(t *testing.T) {
	store := newSQLiteStore(t)
	require.NoError(t, store.UpsertEntry(context.Background(), models.NewEntry("https://example.com/from-db")))

	sm, err := sitemap.New(staticApp{}, sitemap.Options{BaseURL: "https://example.com"})
	require.NoError(t, err)
	sm.Source(NewSource(store))

	urls, err := sm.URLs(context.Background())
	require.NoError(t, err)
	require.Len(t, urls, 1)
	assert.Equal(t, "https://example.com/from-db", urls[0].Loc())
}

func TestToURLInfo(t *testing.T) {
	p := 1.0
	info := ToURLInfo(&models.Entry{Loc: "https://example.com/", ChangeFreq: "Hourly", Priority: &p})
	assert.Equal(t, sitemap.Hourly, info.ChangeFreq())
	priority, ok := info.Priority()
	assert.True(t, ok)
	assert.Equal(t, 1.0, priority)
	assert.NoError(t, info.Validate())
}
