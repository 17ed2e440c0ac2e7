// Persistent seen-gig cache so repeat runs only surface new listings.
// Keyed by canonical URL: the extractor strips tracking params, so the
// same gig always maps to the same key across runs.

package dedup

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go-gigharvest-automation/internal/scraper"
)

type seenEntry struct {
	URL       string `json:"url"`
	Timestamp int64  `json:"timestamp"`
}

type GigCache struct {
	mu       sync.Mutex
	filePath string
	seen     map[string]int64
}

const thirtyDaysMs = int64(30 * 24 * 60 * 60 * 1000)

// NewGigCache creates or loads a gig cache under cacheDir
func NewGigCache(cacheDir string) *GigCache {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		log.Printf("⚠️ Failed to create cache directory: %v", err)
	}
	cache := &GigCache{
		filePath: filepath.Join(cacheDir, "seen_gigs.json"),
		seen:     make(map[string]int64),
	}
	cache.load()
	return cache
}

// FilterUnseen returns the gigs whose canonical URL has not been seen
// in a previous run. Gigs without a usable URL are always kept, there
// is nothing stable to key them on.
func (gc *GigCache) FilterUnseen(gigs []scraper.Gig) []scraper.Gig {
	gc.mu.Lock()
	defer gc.mu.Unlock()

	var unseen []scraper.Gig
	for _, gig := range gigs {
		if gig.URL == "" || gig.URL == scraper.FieldUnavailable {
			unseen = append(unseen, gig)
			continue
		}
		if _, exists := gc.seen[scraper.CanonicalURL(gig.URL)]; !exists {
			unseen = append(unseen, gig)
		}
	}
	return unseen
}

// MarkSeen records the gigs' canonical URLs and persists the cache.
func (gc *GigCache) MarkSeen(gigs []scraper.Gig) {
	gc.mu.Lock()
	defer gc.mu.Unlock()

	now := time.Now().UnixMilli()
	changed := false
	for _, gig := range gigs {
		if gig.URL == "" || gig.URL == scraper.FieldUnavailable {
			continue
		}
		key := scraper.CanonicalURL(gig.URL)
		if _, exists := gc.seen[key]; !exists {
			gc.seen[key] = now
			changed = true
		}
	}

	if changed {
		gc.save()
	}
}

// load reads the cache from disk, dropping entries older than 30 days
func (gc *GigCache) load() {
	data, err := os.ReadFile(gc.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️ Failed to read seen_gigs.json: %v", err)
		}
		return
	}

	var entries []seenEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Printf("⚠️ Failed to parse seen_gigs.json: %v", err)
		return
	}

	cutoff := time.Now().UnixMilli() - thirtyDaysMs
	loaded := 0
	for _, e := range entries {
		if e.Timestamp > cutoff {
			gc.seen[e.URL] = e.Timestamp
			loaded++
		}
	}
	log.Printf("📋 Loaded %d previously seen gigs (%d expired and removed)", loaded, len(entries)-loaded)
}

// save writes the current cache to disk
func (gc *GigCache) save() {
	entries := make([]seenEntry, 0, len(gc.seen))
	for url, ts := range gc.seen {
		entries = append(entries, seenEntry{URL: url, Timestamp: ts})
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		log.Printf("⚠️ Failed to marshal seen gigs: %v", err)
		return
	}
	if err := os.WriteFile(gc.filePath, data, 0644); err != nil {
		log.Printf("⚠️ Failed to write seen_gigs.json: %v", err)
	}
}
