package scrape

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/tsawler/feelnet/internal/log"
)

const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// FetcherOptions configures the shared HTTP fetcher. Zero values fall
// back to conservative defaults.
type FetcherOptions struct {
	// Delay is the minimum spacing between requests.
	Delay time.Duration

	// Timeout bounds each individual request.
	Timeout time.Duration

	// Retries is the number of attempts per URL.
	Retries int

	// RetryWait is the base wait between failed attempts; the actual
	// wait is jittered up to 3x.
	RetryWait time.Duration

	// RateLimitWait is the base wait after a 429 response; the actual
	// wait is jittered up to 2x.
	RateLimitWait time.Duration

	UserAgent string
	Logger    *log.Logger
}

// Fetcher issues rate-limited GET requests with browser-like headers
// and bounded retries. Safe for concurrent use; the rate limit is
// global across callers.
type Fetcher struct {
	client        *http.Client
	delay         time.Duration
	retries       int
	retryWait     time.Duration
	rateLimitWait time.Duration
	userAgent     string
	logger        *log.Logger

	mu          sync.Mutex
	lastRequest time.Time
}

// NewFetcher builds a fetcher from the given options.
func NewFetcher(opts FetcherOptions) *Fetcher {
	if opts.Delay <= 0 {
		opts.Delay = time.Second
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Retries <= 0 {
		opts.Retries = 3
	}
	if opts.RetryWait <= 0 {
		opts.RetryWait = time.Second
	}
	if opts.RateLimitWait <= 0 {
		opts.RateLimitWait = 5 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	return &Fetcher{
		client:        &http.Client{Timeout: opts.Timeout},
		delay:         opts.Delay,
		retries:       opts.Retries,
		retryWait:     opts.RetryWait,
		rateLimitWait: opts.RateLimitWait,
		userAgent:     opts.UserAgent,
		logger:        opts.Logger,
	}
}

// Get fetches url, honoring the rate limit and retrying transient
// failures and 429 responses with jittered backoff.
func (f *Fetcher) Get(ctx context.Context, url string) ([]byte, error) {
	if err := f.applyRateLimit(ctx); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= f.retries; attempt++ {
		body, retryable, err := f.get(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable || attempt == f.retries {
			break
		}

		f.logger.Printf("attempt %d for %s failed: %v", attempt, url, err)
		wait := f.retryWait + time.Duration(rand.Int63n(int64(2*f.retryWait)))
		if isRateLimited(err) {
			wait = f.rateLimitWait + time.Duration(rand.Int63n(int64(f.rateLimitWait)))
		}
		if err := sleepCtx(ctx, wait); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("fetching %s: %w", url, lastErr)
}

// get performs one attempt. The middle return reports whether the
// failure is worth retrying.
func (f *Fetcher) get(ctx context.Context, url string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			// Best-effort body close.
			_ = cerr
		}
	}()

	switch {
	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, true, err
		}
		return body, false, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, true, errRateLimited
	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("HTTP %d", resp.StatusCode)
	default:
		return nil, false, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
}

// applyRateLimit enforces the minimum spacing since the last request.
func (f *Fetcher) applyRateLimit(ctx context.Context) error {
	f.mu.Lock()
	wait := f.delay - time.Since(f.lastRequest)
	f.lastRequest = time.Now()
	if wait > 0 {
		f.lastRequest = f.lastRequest.Add(wait)
	}
	f.mu.Unlock()

	if wait > 0 {
		return sleepCtx(ctx, wait)
	}
	return nil
}

var errRateLimited = fmt.Errorf("rate limited (HTTP 429)")

func isRateLimited(err error) bool {
	return err == errRateLimited
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
