package scrape

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Factory maps URLs and platform names to site scrapers.
type Factory struct {
	scrapers map[string]Scraper // by platform name
	domains  map[string]Scraper // by host name
}

// NewFactory builds a factory with the built-in scrapers registered,
// all sharing one fetcher.
func NewFactory(fetcher *Fetcher) *Factory {
	f := &Factory{
		scrapers: map[string]Scraper{},
		domains:  map[string]Scraper{},
	}
	f.Register(NewAmazonScraper(fetcher))
	f.Register(NewIMDBScraper())
	f.Register(NewTripAdvisorScraper())
	return f
}

// Register adds a scraper and indexes its domains.
func (f *Factory) Register(s Scraper) {
	f.scrapers[strings.ToLower(s.Platform())] = s
	for _, domain := range s.Domains() {
		f.domains[strings.ToLower(domain)] = s
	}
}

// ByURL returns the scraper responsible for the given URL's domain.
func (f *Factory) ByURL(rawURL string) (Scraper, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	domain := strings.ToLower(parsed.Hostname())
	domain = strings.TrimPrefix(domain, "www.")

	if s, found := f.domains[domain]; found {
		return s, nil
	}
	// Regional variants, e.g. smile.amazon.co.jp.
	for supported, s := range f.domains {
		if strings.Contains(domain, supported) {
			return s, nil
		}
	}
	return nil, fmt.Errorf("no scraper for domain %q", domain)
}

// ByPlatform returns the scraper registered under the given name.
func (f *Factory) ByPlatform(name string) (Scraper, error) {
	if s, found := f.scrapers[strings.ToLower(name)]; found {
		return s, nil
	}
	return nil, fmt.Errorf("platform %q not supported", name)
}

// Supports reports whether any registered scraper handles the URL.
func (f *Factory) Supports(rawURL string) bool {
	_, err := f.ByURL(rawURL)
	return err == nil
}

// Platforms lists every registered platform and its domains, sorted by
// platform name.
func (f *Factory) Platforms() map[string][]string {
	out := make(map[string][]string, len(f.scrapers))
	for name, s := range f.scrapers {
		domains := append([]string(nil), s.Domains()...)
		sort.Strings(domains)
		out[name] = domains
	}
	return out
}
