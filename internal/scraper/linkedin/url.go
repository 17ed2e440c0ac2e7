package linkedin

import (
	"fmt"
	"strings"
)

const (
	baseSearchURL = "https://www.linkedin.com/jobs/search"

	// the public search endpoint returns 25 results per page
	pageSize = 25
)

// Facet is the employment-type filter encoded into the search target.
type Facet string

const (
	FacetFullTime  Facet = "F"
	FacetPartTime  Facet = "P"
	FacetContract  Facet = "C"
	FacetTemporary Facet = "T"
)

// SearchURL builds the public job search URL for one result page.
// Deterministic: identical inputs always produce the identical string.
// Page indexes beyond 0 are encoded as a start offset of pageIndex*25;
// the location segment is omitted when empty. Results are always
// requested most-recent-first (sortBy=DD).
func SearchURL(keywords, location string, facet Facet, pageIndex int) string {
	params := []string{
		"keywords=" + escapeSpaces(keywords),
	}
	if location != "" {
		params = append(params, "location="+escapeSpaces(location))
	}
	if facet != "" {
		params = append(params, "f_JT="+string(facet))
	}
	if pageIndex > 0 {
		params = append(params, fmt.Sprintf("start=%d", pageIndex*pageSize))
	}
	params = append(params, "sortBy=DD")

	return baseSearchURL + "?" + strings.Join(params, "&")
}

func escapeSpaces(s string) string {
	return strings.ReplaceAll(s, " ", "%20")
}
