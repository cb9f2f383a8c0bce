package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/feelnet"
	"github.com/tsawler/feelnet/internal/scrape"
	"github.com/tsawler/feelnet/internal/store"
)

func testServer(t *testing.T, opts Options) *Server {
	t.Helper()
	if opts.Engine == nil {
		engine, err := feelnet.NewEngine(feelnet.Config{})
		require.NoError(t, err)
		opts.Engine = engine
	}
	if opts.Factory == nil {
		opts.Factory = scrape.NewFactory(scrape.NewFetcher(scrape.FetcherOptions{
			Delay: time.Millisecond,
		}))
	}
	return New(opts)
}

func testStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "feelnet.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

func postJSON(t *testing.T, handler http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func getJSON(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAnalyzeEndpoint(t *testing.T) {
	handler := testServer(t, Options{}).Handler()

	rec := postJSON(t, handler, "/api/analyze", map[string]any{
		"text": "I absolutely love this, it's fantastic!",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Sentiment  string             `json:"sentiment"`
		Confidence float64            `json:"confidence"`
		Scores     map[string]float64 `json:"scores"`
		Strategy   string             `json:"strategy"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "positive", resp.Sentiment)
	assert.Equal(t, "ensemble", resp.Strategy)
	assert.Greater(t, resp.Confidence, 0.0)

	var sum float64
	for _, share := range resp.Scores {
		sum += share
	}
	assert.InDelta(t, 1.0, sum, 1e-6)
}

func TestAnalyzeEndpointStrategy(t *testing.T) {
	handler := testServer(t, Options{}).Handler()

	rec := postJSON(t, handler, "/api/analyze", map[string]any{
		"text":     "terrible product",
		"strategy": "lexicon",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "lexicon", resp["strategy"])
	assert.Equal(t, "negative", resp["sentiment"])
}

func TestAnalyzeEndpointValidation(t *testing.T) {
	handler := testServer(t, Options{MaxTextLength: 50}).Handler()

	tests := []struct {
		payload any
		status  int
		desc    string
	}{
		{map[string]any{"text": ""}, http.StatusBadRequest, "empty text"},
		{map[string]any{"text": "   "}, http.StatusBadRequest, "blank text"},
		{map[string]any{"text": string(make([]byte, 51))}, http.StatusBadRequest, "over length cap"},
		{map[string]any{"text": "fine", "strategy": "bogus"}, http.StatusBadRequest, "unknown strategy"},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			rec := postJSON(t, handler, "/api/analyze", tt.payload)
			assert.Equal(t, tt.status, rec.Code)

			var resp map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp["error"])
		})
	}
}

func TestBatchEndpoint(t *testing.T) {
	handler := testServer(t, Options{}).Handler()

	rec := postJSON(t, handler, "/api/analyze/batch", map[string]any{
		"texts": []string{"I love this!", "", "Terrible, worst ever."},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Results    []map[string]any `json:"results"`
		Statistics struct {
			Count             int                `json:"count"`
			LabelDistribution map[string]float64 `json:"label_distribution"`
		} `json:"statistics"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Len(t, resp.Results, 3)
	assert.Equal(t, 3, resp.Statistics.Count)

	var total float64
	for _, f := range resp.Statistics.LabelDistribution {
		total += f
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestBatchEndpointValidation(t *testing.T) {
	handler := testServer(t, Options{}).Handler()

	rec := postJSON(t, handler, "/api/analyze/batch", map[string]any{"texts": []string{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScrapeEndpoint(t *testing.T) {
	db := testStore(t)
	handler := testServer(t, Options{Store: db}).Handler()

	rec := postJSON(t, handler, "/api/scrape", map[string]any{
		"url": "https://www.imdb.com/title/tt0111161/",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Platform        string           `json:"platform"`
		TotalReviews    int              `json:"total_reviews"`
		AnalyzedReviews int              `json:"analyzed_reviews"`
		Results         []map[string]any `json:"results"`
		Statistics      struct {
			Count int `json:"count"`
		} `json:"statistics"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "imdb", resp.Platform)
	assert.Greater(t, resp.TotalReviews, 0)
	assert.Equal(t, resp.TotalReviews, resp.AnalyzedReviews)
	assert.Equal(t, resp.AnalyzedReviews, resp.Statistics.Count)

	// Scraped analyses are persisted with provenance.
	records, err := db.RecentAnalyses(context.Background(), 10)
	require.NoError(t, err)
	require.NotEmpty(t, records)
	assert.Equal(t, "imdb", records[0].Platform)
	assert.Equal(t, "https://www.imdb.com/title/tt0111161/", records[0].SourceURL)
}

func TestScrapeEndpointUnsupportedURL(t *testing.T) {
	handler := testServer(t, Options{}).Handler()

	rec := postJSON(t, handler, "/api/scrape", map[string]any{"url": "https://example.org/x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistoryEndpoint(t *testing.T) {
	db := testStore(t)
	handler := testServer(t, Options{Store: db}).Handler()

	rec := postJSON(t, handler, "/api/analyze", map[string]any{"text": "great stuff"})
	require.Equal(t, http.StatusOK, rec.Code)

	hist := getJSON(t, handler, "/api/history")
	require.Equal(t, http.StatusOK, hist.Code)

	var resp struct {
		Analyses []map[string]any `json:"analyses"`
		Count    int              `json:"count"`
	}
	require.NoError(t, json.Unmarshal(hist.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "positive", resp.Analyses[0]["sentiment"])
}

func TestHistoryWithoutStore(t *testing.T) {
	handler := testServer(t, Options{}).Handler()

	rec := getJSON(t, handler, "/api/history")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestDashboardEndpoint(t *testing.T) {
	db := testStore(t)
	handler := testServer(t, Options{Store: db}).Handler()

	for _, text := range []string{"wonderful", "horrible"} {
		rec := postJSON(t, handler, "/api/analyze", map[string]any{"text": text})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := getJSON(t, handler, "/api/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		TotalAnalyses int            `json:"total_analyses"`
		LabelCounts   map[string]int `json:"label_counts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.TotalAnalyses)
	assert.Equal(t, 1, resp.LabelCounts["positive"])
	assert.Equal(t, 1, resp.LabelCounts["negative"])
}

func TestPlatformsEndpoint(t *testing.T) {
	handler := testServer(t, Options{}).Handler()

	rec := getJSON(t, handler, "/api/platforms")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		SupportedPlatforms map[string][]string `json:"supported_platforms"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.SupportedPlatforms, "amazon")
	assert.Contains(t, resp.SupportedPlatforms, "imdb")
}

func TestHealthEndpoint(t *testing.T) {
	rec := getJSON(t, testServer(t, Options{}).Handler(), "/api/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
}
