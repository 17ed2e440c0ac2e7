// Local archive of every gig a run has ever collected. The xlsx
// output is per-run and shareable; the archive is the long-lived
// record, keyed by canonical URL.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go-gigharvest-automation/internal/scraper"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS gigs (
	url            TEXT PRIMARY KEY,
	title          TEXT NOT NULL,
	company        TEXT,
	location       TEXT,
	job_type       TEXT,
	posted_date    TEXT,
	search_keyword TEXT,
	quality_score  INTEGER,
	ai_analysis    TEXT,
	scraped_at     TEXT,
	archived_at    TEXT NOT NULL
);`

type DB struct {
	pool *sql.DB
}

func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	// modernc sqlite uses DSN like: file:foo.db?_pragma=busy_timeout(5000)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)

	pool, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	pool.SetMaxOpenConns(1) // sqlite wants a single writer
	pool.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, err
	}

	if _, err := pool.ExecContext(ctx, schema); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &DB{pool: pool}, nil
}

func (d *DB) Close() error {
	if d == nil || d.pool == nil {
		return nil
	}
	return d.pool.Close()
}

// Archive inserts gigs by canonical URL, ignoring ones already
// archived. Gigs without a usable URL are skipped, there is no stable
// key for them. Returns the number of newly archived gigs.
func (d *DB) Archive(ctx context.Context, gigs []scraper.Gig) (int, error) {
	const query = `
		INSERT OR IGNORE INTO gigs
		(url, title, company, location, job_type, posted_date, search_keyword, quality_score, ai_analysis, scraped_at, archived_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	tx, err := d.pool.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	archivedAt := time.Now().Format("2006-01-02 15:04:05")
	inserted := 0
	for _, gig := range gigs {
		if gig.URL == "" || gig.URL == scraper.FieldUnavailable {
			continue
		}
		res, err := tx.ExecContext(ctx, query,
			scraper.CanonicalURL(gig.URL), gig.Title, gig.Company, gig.Location,
			gig.JobType, gig.PostedDate, gig.SearchKeyword,
			gig.QualityScore, gig.AIAnalysis, gig.ScrapedAt, archivedAt)
		if err != nil {
			return 0, fmt.Errorf("failed to archive gig %s: %w", gig.URL, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

// Count reports the total number of archived gigs.
func (d *DB) Count(ctx context.Context) (int, error) {
	var n int
	err := d.pool.QueryRowContext(ctx, "SELECT COUNT(*) FROM gigs").Scan(&n)
	return n, err
}
