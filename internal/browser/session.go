// One live browser process + one page, reused for the whole run.
// Launching chromium is the expensive part, so the session is opened
// once and every search page is navigated through the same tab.

package browser

import (
	"errors"
	"fmt"

	"github.com/playwright-community/playwright-go"
)

var (
	// ErrSessionStart is fatal: no browser, no run.
	ErrSessionStart = errors.New("browser session start failed")

	// ErrNavigationTimeout and ErrNavigation are recoverable at page
	// granularity; callers skip the page and continue.
	ErrNavigationTimeout = errors.New("navigation timed out")
	ErrNavigation        = errors.New("navigation failed")

	// ErrContentNotFound means the expected content region never
	// appeared; callers treat it as zero results for the page.
	ErrContentNotFound = errors.New("content not found")
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

type Session struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page
}

// Open launches a chromium process and a single page context.
func Open(headless bool) (*Session, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionStart, err)
	}

	b, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(headless),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("%w: %v", ErrSessionStart, err)
	}

	page, err := b.NewPage()
	if err != nil {
		b.Close()
		pw.Stop()
		return nil, fmt.Errorf("%w: %v", ErrSessionStart, err)
	}

	if err := page.SetExtraHTTPHeaders(map[string]string{
		"User-Agent": userAgent,
	}); err != nil {
		b.Close()
		pw.Stop()
		return nil, fmt.Errorf("%w: %v", ErrSessionStart, err)
	}

	return &Session{pw: pw, browser: b, page: page}, nil
}

// Page exposes the live tab for locator queries.
func (s *Session) Page() playwright.Page {
	return s.page
}

// Navigate loads a target and waits for the network to settle.
func (s *Session) Navigate(url string, timeoutMs float64) error {
	_, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(timeoutMs),
	})
	if err != nil {
		if errors.Is(err, playwright.ErrTimeout) {
			return fmt.Errorf("%w: %s", ErrNavigationTimeout, url)
		}
		return fmt.Errorf("%w: %s: %v", ErrNavigation, url, err)
	}
	return nil
}

// WaitForContent blocks until the named content region appears.
func (s *Session) WaitForContent(selector string, timeoutMs float64) error {
	_, err := s.page.WaitForSelector(selector, playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(timeoutMs),
	})
	if err != nil {
		return fmt.Errorf("%w: %s", ErrContentNotFound, selector)
	}
	return nil
}

// ScrollIncrementally issues scroll-and-pause cycles to trigger lazy
// loading. No failure mode: content that never materializes simply
// yields fewer cards downstream.
func (s *Session) ScrollIncrementally(steps, pausePerStepMs int) {
	for i := 0; i < steps; i++ {
		s.page.Evaluate("window.scrollBy(0, 1000)")
		RandomDelay(pausePerStepMs, pausePerStepMs+200)
	}
}

// QueryAll returns zero or more element handles for the selector.
func (s *Session) QueryAll(selector string) ([]playwright.Locator, error) {
	return s.page.Locator(selector).All()
}

// Close releases the page, browser process and driver. Safe on every
// exit path; callers defer it right after Open succeeds.
func (s *Session) Close() error {
	var errs []error
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if s.pw != nil {
		if err := s.pw.Stop(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
