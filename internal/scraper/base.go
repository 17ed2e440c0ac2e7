// Shared gig record type and the collector contract the
// workflow orchestrates against.

package scraper

import (
	"context"
	"strings"
	"time"
)

// FieldUnavailable is substituted for any card field whose
// expected sub-element is missing from the markup.
const FieldUnavailable = "N/A"

type Gig struct {
	Title         string `json:"title"`
	Company       string `json:"company"`
	Location      string `json:"location"`
	JobType       string `json:"job_type"`
	PostedDate    string `json:"posted_date"`
	Description   string `json:"description"`
	URL           string `json:"job_url"`
	ScrapedAt     string `json:"scraped_at"`
	SearchKeyword string `json:"search_keyword"`

	//filled in by the AI assessment, zero until then
	QualityScore int    `json:"quality_score"`
	AIAnalysis   string `json:"ai_analysis"`
}

// NewGig stamps the capture timestamp exactly once, at construction.
func NewGig(title, company, location, jobType, postedDate, url string) Gig {
	return Gig{
		Title:      title,
		Company:    company,
		Location:   location,
		JobType:    jobType,
		PostedDate: postedDate,
		URL:        url,
		ScrapedAt:  time.Now().Format("2006-01-02 15:04:05"),
	}
}

// CanonicalURL strips the query string. Listing links carry dynamic
// tracking params (?refId=..., ?trackingId=...) which make the same
// gig appear as different URLs.
func CanonicalURL(raw string) string {
	if i := strings.Index(raw, "?"); i >= 0 {
		return raw[:i]
	}
	return raw
}

// Collector gathers gigs for one search keyword across result pages.
type Collector interface {
	Collect(ctx context.Context, keyword string, maxPages int) ([]Gig, error)
}
