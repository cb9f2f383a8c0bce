// Package server exposes the classification engine over a JSON HTTP
// API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tsawler/feelnet"
	"github.com/tsawler/feelnet/internal/log"
	"github.com/tsawler/feelnet/internal/scrape"
	"github.com/tsawler/feelnet/internal/store"
)

// DefaultMaxTextLength caps a single text at the ingestion boundary.
const DefaultMaxTextLength = 10000

// Version is the API version reported by the health endpoint.
const Version = "1.0.0"

// Options wires the server's collaborators. Store is optional; without
// it analyses are served but not persisted.
type Options struct {
	Engine        *feelnet.Engine
	Store         *store.Store
	Factory       *scrape.Factory
	Logger        *log.Logger
	MaxTextLength int
}

// Server handles the JSON API.
type Server struct {
	engine  *feelnet.Engine
	store   *store.Store
	factory *scrape.Factory
	logger  *log.Logger
	maxLen  int
}

// New builds a server from options.
func New(opts Options) *Server {
	maxLen := opts.MaxTextLength
	if maxLen <= 0 {
		maxLen = DefaultMaxTextLength
	}
	return &Server{
		engine:  opts.Engine,
		store:   opts.Store,
		factory: opts.Factory,
		logger:  opts.Logger,
		maxLen:  maxLen,
	}
}

// Handler returns the routed API handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /api/analyze/batch", s.handleAnalyzeBatch)
	mux.HandleFunc("POST /api/scrape", s.handleScrape)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/platforms", s.handlePlatforms)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	return mux
}

// ListenAndServe serves the API on addr until the server fails.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Printf("listening on %s", addr)
	return srv.ListenAndServe()
}

type analysisResponse struct {
	Text       string             `json:"text"`
	Sentiment  string             `json:"sentiment"`
	Confidence float64            `json:"confidence"`
	Scores     map[string]float64 `json:"scores"`
	Strategy   string             `json:"strategy"`
	ElapsedMS  float64            `json:"elapsed_ms"`
}

type statisticsResponse struct {
	Count             int                `json:"count"`
	LabelDistribution map[string]float64 `json:"label_distribution"`
	MeanConfidence    float64            `json:"mean_confidence"`
	TotalMS           float64            `json:"total_ms"`
	MeanMS            float64            `json:"mean_ms"`
}

func toAnalysisResponse(r feelnet.Result) analysisResponse {
	scores := make(map[string]float64, len(r.Scores))
	for label, share := range r.Scores {
		scores[string(label)] = share
	}
	return analysisResponse{
		Text:       r.Text,
		Sentiment:  string(r.Label),
		Confidence: r.Confidence,
		Scores:     scores,
		Strategy:   r.Strategy,
		ElapsedMS:  float64(r.Elapsed) / float64(time.Millisecond),
	}
}

func toStatisticsResponse(stats feelnet.BatchStatistics) statisticsResponse {
	dist := make(map[string]float64, len(stats.LabelDistribution))
	for label, fraction := range stats.LabelDistribution {
		dist[string(label)] = fraction
	}
	return statisticsResponse{
		Count:             stats.Count,
		LabelDistribution: dist,
		MeanConfidence:    stats.MeanConfidence,
		TotalMS:           float64(stats.TotalTime) / float64(time.Millisecond),
		MeanMS:            float64(stats.MeanTime) / float64(time.Millisecond),
	}
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text       string `json:"text"`
		Strategy   string `json:"strategy"`
		Preprocess *bool  `json:"preprocess"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	text, ok := s.validateText(w, req.Text)
	if !ok {
		return
	}
	if req.Preprocess == nil || *req.Preprocess {
		text = s.engine.Normalize(text)
	}

	strategy := req.Strategy
	if strategy == "" {
		strategy = feelnet.StrategyEnsemble
	}

	result, err := s.engine.AnalyzeWith(strategy, text)
	if err != nil {
		s.writeAnalysisError(w, err)
		return
	}

	s.persist(r.Context(), result, "", "")
	s.writeJSON(w, http.StatusOK, toAnalysisResponse(result))
}

func (s *Server) handleAnalyzeBatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Texts []string `json:"texts"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.Texts) == 0 {
		s.writeError(w, http.StatusBadRequest, "texts array is required")
		return
	}
	for _, text := range req.Texts {
		if len(text) > s.maxLen {
			s.writeError(w, http.StatusBadRequest, "text too long, max "+strconv.Itoa(s.maxLen)+" chars")
			return
		}
	}

	results := s.engine.AnalyzeBatch(req.Texts)
	for _, result := range results {
		s.persist(r.Context(), result, "", "")
	}

	responses := make([]analysisResponse, 0, len(results))
	for _, result := range results {
		responses = append(responses, toAnalysisResponse(result))
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"results":    responses,
		"statistics": toStatisticsResponse(feelnet.Aggregate(results)),
	})
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL        string `json:"url"`
		MaxReviews int    `json:"max_reviews"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.URL == "" {
		s.writeError(w, http.StatusBadRequest, "url is required")
		return
	}
	if req.MaxReviews <= 0 {
		req.MaxReviews = 50
	}

	scraper, err := s.factory.ByURL(req.URL)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "url not supported")
		return
	}

	reviews, err := scraper.ScrapeReviews(r.Context(), req.URL, req.MaxReviews)
	if err != nil {
		s.logger.Printf("scrape failed for %s: %v", req.URL, err)
		s.writeError(w, http.StatusBadGateway, "scrape failed")
		return
	}
	if len(reviews) == 0 {
		s.writeError(w, http.StatusNotFound, "no reviews found")
		return
	}

	type reviewResult struct {
		Review    scrape.Review    `json:"review"`
		Sentiment analysisResponse `json:"sentiment"`
	}

	var (
		analyzed []reviewResult
		results  []feelnet.Result
	)
	for _, review := range reviews {
		result, err := s.engine.Analyze(review.Text)
		if err != nil {
			s.logger.Printf("analysis failed for scraped review: %v", err)
			continue
		}
		s.persist(r.Context(), result, req.URL, review.Platform)
		analyzed = append(analyzed, reviewResult{Review: review, Sentiment: toAnalysisResponse(result)})
		results = append(results, result)
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"url":              req.URL,
		"platform":         scraper.Platform(),
		"total_reviews":    len(reviews),
		"analyzed_reviews": len(analyzed),
		"results":          analyzed,
		"statistics":       toStatisticsResponse(feelnet.Aggregate(results)),
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, http.StatusServiceUnavailable, "persistence not configured")
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			s.writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	records, err := s.store.RecentAnalyses(r.Context(), limit)
	if err != nil {
		s.logger.Printf("history query failed: %v", err)
		s.writeError(w, http.StatusInternalServerError, "history unavailable")
		return
	}

	type historyEntry struct {
		ID         string             `json:"id"`
		Text       string             `json:"text"`
		Sentiment  string             `json:"sentiment"`
		Confidence float64            `json:"confidence"`
		Scores     map[string]float64 `json:"scores"`
		Strategy   string             `json:"strategy"`
		SourceURL  string             `json:"source_url,omitempty"`
		Platform   string             `json:"platform,omitempty"`
		CreatedAt  time.Time          `json:"created_at"`
	}

	entries := make([]historyEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, historyEntry{
			ID:         rec.ID,
			Text:       rec.Text,
			Sentiment:  rec.Label,
			Confidence: rec.Confidence,
			Scores:     rec.Scores,
			Strategy:   rec.Strategy,
			SourceURL:  rec.SourceURL,
			Platform:   rec.Platform,
			CreatedAt:  rec.CreatedAt,
		})
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"analyses": entries,
		"count":    len(entries),
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, http.StatusServiceUnavailable, "persistence not configured")
		return
	}

	stats, err := s.store.Dashboard(r.Context())
	if err != nil {
		s.logger.Printf("dashboard query failed: %v", err)
		s.writeError(w, http.StatusInternalServerError, "dashboard unavailable")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"total_analyses":  stats.TotalAnalyses,
		"label_counts":    stats.LabelCounts,
		"strategy_counts": stats.StrategyCounts,
		"platform_counts": stats.PlatformCounts,
		"mean_confidence": stats.MeanConfidence,
	})
}

func (s *Server) handlePlatforms(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"supported_platforms": s.factory.Platforms(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"version":   Version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// validateText enforces the ingestion-boundary text rules. It writes
// the error response itself when validation fails.
func (s *Server) validateText(w http.ResponseWriter, text string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		s.writeError(w, http.StatusBadRequest, "text is required")
		return "", false
	}
	if len(text) > s.maxLen {
		s.writeError(w, http.StatusBadRequest, "text too long, max "+strconv.Itoa(s.maxLen)+" chars")
		return "", false
	}
	return strings.TrimSpace(text), true
}

// persist stores a result when a store is configured. Persistence
// failures are logged, never surfaced to the API caller.
func (s *Server) persist(ctx context.Context, result feelnet.Result, sourceURL, platform string) {
	if s.store == nil {
		return
	}
	scores := make(map[string]float64, len(result.Scores))
	for label, share := range result.Scores {
		scores[string(label)] = share
	}
	_, err := s.store.InsertAnalysis(ctx, store.AnalysisRecord{
		Text:       result.Text,
		Label:      string(result.Label),
		Confidence: result.Confidence,
		Scores:     scores,
		Strategy:   result.Strategy,
		ElapsedMS:  float64(result.Elapsed) / float64(time.Millisecond),
		SourceURL:  sourceURL,
		Platform:   platform,
	})
	if err != nil {
		s.logger.Printf("persisting analysis failed: %v", err)
	}
}

func (s *Server) writeAnalysisError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, feelnet.ErrUnknownStrategy):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, feelnet.ErrNoClassifiers):
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		s.logger.Printf("analysis failed: %v", err)
		s.writeError(w, http.StatusInternalServerError, "analysis failed")
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Printf("encoding response failed: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
