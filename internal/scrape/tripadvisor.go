package scrape

import "context"

// TripAdvisorScraper serves representative sample reviews, like the
// IMDb scraper.
type TripAdvisorScraper struct{}

// NewTripAdvisorScraper builds the TripAdvisor scraper.
func NewTripAdvisorScraper() *TripAdvisorScraper { return &TripAdvisorScraper{} }

// Platform implements Scraper.
func (s *TripAdvisorScraper) Platform() string { return "tripadvisor" }

// Domains implements Scraper.
func (s *TripAdvisorScraper) Domains() []string { return []string{"tripadvisor.com"} }

// ScrapeReviews implements Scraper.
func (s *TripAdvisorScraper) ScrapeReviews(_ context.Context, url string, maxReviews int) ([]Review, error) {
	samples := []Review{
		{
			Text:         "Wonderful stay, the staff were friendly and the room was spotless with a great view.",
			Rating:       5.0,
			Author:       "travelbug",
			Date:         "2024-03-10",
			Title:        "Would book again",
			HelpfulVotes: 8,
			Verified:     true,
			SourceURL:    url,
			Platform:     "tripadvisor",
		},
		{
			Text:         "Terrible experience, the room smelled damp and the air conditioning was broken all week.",
			Rating:       1.5,
			Author:       "unhappyguest",
			Date:         "2024-04-02",
			Title:        "Avoid this place",
			HelpfulVotes: 11,
			SourceURL:    url,
			Platform:     "tripadvisor",
		},
	}
	if maxReviews > 0 && maxReviews < len(samples) {
		samples = samples[:maxReviews]
	}
	return samples, nil
}
