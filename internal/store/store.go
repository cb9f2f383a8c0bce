// Package store handles SQLite persistence for analysis history and
// scraped reviews.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite" // SQLite driver.
)

// AnalysisRecord is one persisted classification outcome.
type AnalysisRecord struct {
	ID         string
	Text       string
	Label      string
	Confidence float64
	Scores     map[string]float64
	Strategy   string
	ElapsedMS  float64
	SourceURL  string
	Platform   string
	CreatedAt  time.Time
}

// ReviewRecord is one persisted scraped review.
type ReviewRecord struct {
	ID           string
	Platform     string
	SourceURL    string
	Title        string
	Text         string
	Rating       float64
	Author       string
	ReviewDate   string
	HelpfulVotes int
	Verified     bool
	CreatedAt    time.Time
}

// DashboardStats is the rollup view served by the dashboard endpoint.
type DashboardStats struct {
	TotalAnalyses  int
	LabelCounts    map[string]int
	StrategyCounts map[string]int
	PlatformCounts map[string]int
	MeanConfidence float64
}

// Store wraps SQLite access for analysis data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analysis_history (
			id TEXT PRIMARY KEY,
			text TEXT NOT NULL,
			label TEXT NOT NULL,
			confidence REAL NOT NULL,
			scores TEXT NOT NULL,
			strategy TEXT NOT NULL,
			elapsed_ms REAL NOT NULL,
			source_url TEXT NOT NULL DEFAULT '',
			platform TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS scraped_reviews (
			id TEXT PRIMARY KEY,
			platform TEXT NOT NULL,
			source_url TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			text TEXT NOT NULL,
			rating REAL NOT NULL DEFAULT 0,
			author TEXT NOT NULL DEFAULT '',
			review_date TEXT NOT NULL DEFAULT '',
			helpful_votes INTEGER NOT NULL DEFAULT 0,
			verified INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_analysis_history_created_at ON analysis_history(created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_analysis_history_platform ON analysis_history(platform);`,
		`CREATE INDEX IF NOT EXISTS idx_scraped_reviews_platform ON scraped_reviews(platform);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertAnalysis stores one classification outcome. A missing ID or
// timestamp is filled in; the assigned ID is returned.
func (s *Store) InsertAnalysis(ctx context.Context, rec AnalysisRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	scores, err := json.Marshal(rec.Scores)
	if err != nil {
		return "", err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO analysis_history (id, text, label, confidence, scores, strategy, elapsed_ms, source_url, platform, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.Text,
		rec.Label,
		rec.Confidence,
		string(scores),
		rec.Strategy,
		rec.ElapsedMS,
		rec.SourceURL,
		rec.Platform,
		rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

// InsertReview stores one scraped review and returns its assigned ID.
func (s *Store) InsertReview(ctx context.Context, rec ReviewRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	verified := 0
	if rec.Verified {
		verified = 1
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scraped_reviews (id, platform, source_url, title, text, rating, author, review_date, helpful_votes, verified, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.Platform,
		rec.SourceURL,
		rec.Title,
		rec.Text,
		rec.Rating,
		rec.Author,
		rec.ReviewDate,
		rec.HelpfulVotes,
		verified,
		rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

// RecentAnalyses returns the newest analyses, newest first. A
// non-positive limit falls back to 100.
func (s *Store) RecentAnalyses(ctx context.Context, limit int) ([]AnalysisRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, text, label, confidence, scores, strategy, elapsed_ms, source_url, platform, created_at
		 FROM analysis_history
		 ORDER BY created_at DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var records []AnalysisRecord
	for rows.Next() {
		var rec AnalysisRecord
		var scores, createdAt string
		if err := rows.Scan(&rec.ID, &rec.Text, &rec.Label, &rec.Confidence, &scores,
			&rec.Strategy, &rec.ElapsedMS, &rec.SourceURL, &rec.Platform, &createdAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(scores), &rec.Scores); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, err
		}
		rec.CreatedAt = parsed
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Dashboard aggregates the full analysis history into rollup counts.
func (s *Store) Dashboard(ctx context.Context) (DashboardStats, error) {
	stats := DashboardStats{
		LabelCounts:    map[string]int{},
		StrategyCounts: map[string]int{},
		PlatformCounts: map[string]int{},
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT label, strategy, platform, confidence FROM analysis_history`)
	if err != nil {
		return stats, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var confidenceSum float64
	for rows.Next() {
		var label, strategy, platform string
		var confidence float64
		if err := rows.Scan(&label, &strategy, &platform, &confidence); err != nil {
			return stats, err
		}
		stats.TotalAnalyses++
		stats.LabelCounts[label]++
		stats.StrategyCounts[strategy]++
		if platform != "" {
			stats.PlatformCounts[platform]++
		}
		confidenceSum += confidence
	}
	if err := rows.Err(); err != nil {
		return stats, err
	}

	if stats.TotalAnalyses > 0 {
		stats.MeanConfidence = confidenceSum / float64(stats.TotalAnalyses)
	}
	return stats, nil
}
