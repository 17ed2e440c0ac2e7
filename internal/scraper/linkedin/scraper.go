package linkedin

import (
	"context"
	"log"
	"strings"
	"time"

	"go-gigharvest-automation/internal/browser"
	"go-gigharvest-automation/internal/config"
	"go-gigharvest-automation/internal/filter"
	"go-gigharvest-automation/internal/scraper"

	"github.com/playwright-community/playwright-go"
	"golang.org/x/text/unicode/norm"
)

const (
	navTimeoutMs     = 30000
	contentTimeoutMs = 10000

	scrollSteps   = 3
	scrollPauseMs = 500

	//public search results markup, treated as an unstable external
	//schema: every selector has a sentinel fallback
	resultsListSelector = ".jobs-search__results-list"
	cardSelector        = ".jobs-search__results-list > li"
	titleSelector       = ".base-search-card__title"
	companySelector     = ".base-search-card__subtitle"
	locationSelector    = ".job-search-card__location"
	dateSelector        = "time"
	linkSelector        = "a.base-card__full-link"
)

// Scraper drives the public job search (no login) through one shared
// browser session and implements scraper.Collector.
type Scraper struct {
	cfg     *config.Config
	session *browser.Session
	jobType string

	//seam for pagination tests, defaults to scrapePage
	fetchPage func(url string) ([]scraper.Gig, error)
}

func NewScraper(cfg *config.Config, session *browser.Session) *Scraper {
	s := &Scraper{
		cfg:     cfg,
		session: session,
		jobType: "Contract/Freelance",
	}
	s.fetchPage = s.scrapePage
	return s
}

func (s *Scraper) Name() string {
	return "LinkedIn"
}

func (s *Scraper) facet() Facet {
	if s.cfg.JobTypeFacet == "" {
		return FacetContract
	}
	return Facet(s.cfg.JobTypeFacet)
}

// Collect scrapes result pages for one keyword until maxPages is
// reached or a page comes back empty (assumed end of results). Pages
// that fail to navigate are skipped, not fatal to the keyword. The
// inter-page delay is mandatory rate limiting, never removed.
func (s *Scraper) Collect(ctx context.Context, keyword string, maxPages int) ([]scraper.Gig, error) {
	var all []scraper.Gig

	for pageNum := 0; pageNum < maxPages; pageNum++ {
		if err := ctx.Err(); err != nil {
			return all, err
		}

		if pageNum > 0 {
			time.Sleep(time.Duration(s.cfg.PageDelayMs) * time.Millisecond)
		}

		log.Printf("  📄 Scraping page %d/%d for %q...", pageNum+1, maxPages, keyword)
		url := SearchURL(keyword, s.cfg.Location, s.facet(), pageNum)

		gigs, err := s.fetchPage(url)
		if err != nil {
			log.Printf("    ⚠️ Error scraping page %d: %v", pageNum+1, err)
			continue
		}

		log.Printf("    ✅ Found %d gigs on page %d", len(gigs), pageNum+1)
		all = append(all, gigs...)

		if len(gigs) == 0 {
			//end of results, no point paging further
			break
		}
	}

	log.Printf("  📦 Total gigs for %q: %d", keyword, len(all))
	return all, nil
}

// scrapePage loads one result page and extracts its cards.
func (s *Scraper) scrapePage(url string) ([]scraper.Gig, error) {
	if err := s.session.Navigate(url, navTimeoutMs); err != nil {
		return nil, err
	}

	//fail soft: a missing results list means either no results or a
	//blocked/changed layout, the caller decides via the empty slice
	if err := s.session.WaitForContent(resultsListSelector, contentTimeoutMs); err != nil {
		log.Printf("    ⚠️ %v", err)
		s.session.CaptureDebug("linkedin-no-results", "LinkedIn: results list missing")
		return []scraper.Gig{}, nil
	}

	//human pacing, then reveal lazily rendered cards
	browser.MouseJiggle(s.session.Page())
	browser.HumanScroll(s.session.Page())
	s.session.ScrollIncrementally(scrollSteps, scrollPauseMs)

	cards, err := s.session.QueryAll(cardSelector)
	if err != nil {
		return nil, err
	}

	gigs := make([]scraper.Gig, 0, len(cards))
	for _, card := range cards {
		gig, err := s.parseCard(card)
		if err != nil {
			//one malformed card never fails the page
			continue
		}
		gigs = append(gigs, gig)
	}

	return gigs, nil
}

// parseCard maps one result card to a gig. Every field is extracted
// independently; a missing sub-element yields the sentinel, not an
// error, so partial markup still produces a usable record.
func (s *Scraper) parseCard(card playwright.Locator) (scraper.Gig, error) {
	if _, err := card.Count(); err != nil {
		return scraper.Gig{}, err
	}

	title := textOr(card, titleSelector, scraper.FieldUnavailable)
	company := textOr(card, companySelector, scraper.FieldUnavailable)
	location := textOr(card, locationSelector, scraper.FieldUnavailable)

	postedDate := attrOr(card, dateSelector, "datetime", scraper.FieldUnavailable)
	postedDate = filter.NormalizePostedDate(postedDate)

	jobURL := attrOr(card, linkSelector, "href", scraper.FieldUnavailable)
	if jobURL != scraper.FieldUnavailable {
		jobURL = scraper.CanonicalURL(jobURL)
	}

	return scraper.NewGig(title, company, location, s.jobType, postedDate, jobURL), nil
}

// textOr extracts the text of the first match, or the fallback when
// the sub-element is absent or unreadable.
func textOr(card playwright.Locator, selector, fallback string) string {
	el := card.Locator(selector).First()
	if n, err := el.Count(); err != nil || n == 0 {
		return fallback
	}
	txt, err := el.TextContent(playwright.LocatorTextContentOptions{
		Timeout: playwright.Float(500),
	})
	if err != nil {
		return fallback
	}
	if cleaned := cleanText(txt); cleaned != "" {
		return cleaned
	}
	return fallback
}

// attrOr extracts an attribute of the first match, or the fallback.
func attrOr(card playwright.Locator, selector, attr, fallback string) string {
	el := card.Locator(selector).First()
	if n, err := el.Count(); err != nil || n == 0 {
		return fallback
	}
	val, err := el.GetAttribute(attr)
	if err != nil || val == "" {
		return fallback
	}
	return strings.TrimSpace(val)
}

// cleanText normalizes scraped text to NFC and collapses whitespace.
func cleanText(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}
