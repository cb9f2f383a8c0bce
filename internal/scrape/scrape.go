// Package scrape fetches product and movie reviews from supported
// platforms. Network access is polite by construction: every scraper
// shares a rate-limited fetcher with bounded retries.
package scrape

import "context"

// Review is one scraped review, normalized across platforms.
type Review struct {
	Text         string  `json:"text"`
	Rating       float64 `json:"rating,omitempty"`
	Author       string  `json:"author,omitempty"`
	Date         string  `json:"date,omitempty"`
	Title        string  `json:"title,omitempty"`
	HelpfulVotes int     `json:"helpful_votes,omitempty"`
	Verified     bool    `json:"verified"`
	SourceURL    string  `json:"source_url"`
	Platform     string  `json:"platform"`
}

// Scraper extracts reviews for one platform.
type Scraper interface {
	// Platform returns the canonical platform name, e.g. "amazon".
	Platform() string

	// Domains lists the host names this scraper handles.
	Domains() []string

	// ScrapeReviews collects up to maxReviews reviews from the page at
	// url.
	ScrapeReviews(ctx context.Context, url string, maxReviews int) ([]Review, error)
}
