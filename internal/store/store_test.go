package store

import (
	"context"
	"path/filepath"
	"testing"

	"go-gigharvest-automation/internal/scraper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "gigs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestArchiveIsIdempotentByCanonicalURL(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	gigs := []scraper.Gig{
		{Title: "Go Contractor", URL: "https://example.com/jobs/1", SearchKeyword: "golang"},
		{Title: "Backend Gig", URL: "https://example.com/jobs/2", SearchKeyword: "backend"},
	}

	n, err := db.Archive(ctx, gigs)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	//same gig again, this time with tracking params
	n, err = db.Archive(ctx, []scraper.Gig{
		{Title: "Go Contractor", URL: "https://example.com/jobs/1?refId=abc"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	total, err := db.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestArchiveSkipsGigsWithoutURL(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	n, err := db.Archive(ctx, []scraper.Gig{
		{Title: "No link", URL: scraper.FieldUnavailable},
		{Title: "Empty", URL: ""},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "nested", "gigs.db"))
	require.NoError(t, err)
	db.Close()
}
