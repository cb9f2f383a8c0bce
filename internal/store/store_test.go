package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "feelnet.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

func TestInsertAndRecentAnalyses(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.InsertAnalysis(ctx, AnalysisRecord{
		Text:       "I love it",
		Label:      "positive",
		Confidence: 0.9,
		Scores:     map[string]float64{"positive": 0.9, "negative": 0.05, "neutral": 0.05},
		Strategy:   "ensemble",
		ElapsedMS:  1.2,
		CreatedAt:  time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, first, "ID is assigned when missing")

	second, err := s.InsertAnalysis(ctx, AnalysisRecord{
		Text:       "broken junk",
		Label:      "negative",
		Confidence: 0.8,
		Scores:     map[string]float64{"positive": 0.1, "negative": 0.8, "neutral": 0.1},
		Strategy:   "lexicon",
		SourceURL:  "https://example.com/product",
		Platform:   "amazon",
		CreatedAt:  time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	records, err := s.RecentAnalyses(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest first.
	assert.Equal(t, second, records[0].ID)
	assert.Equal(t, "negative", records[0].Label)
	assert.Equal(t, "amazon", records[0].Platform)
	assert.Equal(t, first, records[1].ID)
	assert.InDelta(t, 0.9, records[1].Scores["positive"], 1e-9)
	assert.Equal(t, time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC), records[1].CreatedAt)
}

func TestRecentAnalysesDefaultLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 105; i++ {
		_, err := s.InsertAnalysis(ctx, AnalysisRecord{
			Text:     "text",
			Label:    "neutral",
			Scores:   map[string]float64{"neutral": 1},
			Strategy: "ensemble",
		})
		require.NoError(t, err)
	}

	records, err := s.RecentAnalyses(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, records, 100)
}

func TestInsertReview(t *testing.T) {
	s := openTestStore(t)

	id, err := s.InsertReview(context.Background(), ReviewRecord{
		Platform:     "imdb",
		SourceURL:    "https://www.imdb.com/title/tt0000001/",
		Title:        "A classic",
		Text:         "Loved every minute.",
		Rating:       9,
		Author:       "moviefan",
		HelpfulVotes: 12,
		Verified:     true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}

func TestDashboard(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	inserts := []AnalysisRecord{
		{Text: "a", Label: "positive", Confidence: 0.9, Strategy: "ensemble", Platform: "amazon", Scores: map[string]float64{"positive": 1}},
		{Text: "b", Label: "positive", Confidence: 0.7, Strategy: "lexicon", Platform: "amazon", Scores: map[string]float64{"positive": 1}},
		{Text: "c", Label: "negative", Confidence: 0.8, Strategy: "ensemble", Scores: map[string]float64{"negative": 1}},
	}
	for _, rec := range inserts {
		_, err := s.InsertAnalysis(ctx, rec)
		require.NoError(t, err)
	}

	stats, err := s.Dashboard(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalAnalyses)
	assert.Equal(t, 2, stats.LabelCounts["positive"])
	assert.Equal(t, 1, stats.LabelCounts["negative"])
	assert.Equal(t, 2, stats.StrategyCounts["ensemble"])
	assert.Equal(t, 2, stats.PlatformCounts["amazon"])
	assert.NotContains(t, stats.PlatformCounts, "")
	assert.InDelta(t, 0.8, stats.MeanConfidence, 1e-9)
}

func TestDashboardEmpty(t *testing.T) {
	s := openTestStore(t)

	stats, err := s.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalAnalyses)
	assert.Zero(t, stats.MeanConfidence)
}
