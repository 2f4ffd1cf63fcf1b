package models

import (
	"time"

	"github.com/google/uuid"
)

// Run status values.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// GenerationRun records one pass of the sitemap generator.
type GenerationRun struct {
	ID           uuid.UUID  `json:"id"`
	SiteURL      string     `json:"site_url"`
	OutputDir    string     `json:"output_dir"`
	RouteCount   int        `json:"route_count"`
	SkippedCount int        `json:"skipped_count"`
	Status       string     `json:"status"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// RouteRecord is the persisted form of a route emitted during a run.
type RouteRecord struct {
	ID         uuid.UUID  `json:"id"`
	RunID      uuid.UUID  `json:"run_id"`
	URLPath    string     `json:"url_path"`
	Loc        string     `json:"loc"`
	Title      string     `json:"title,omitempty"`
	Priority   float64    `json:"priority"`
	ChangeFreq ChangeFreq `json:"changefreq"`
	LastMod    string     `json:"lastmod"`
	Noindex    bool       `json:"noindex"`
	CreatedAt  time.Time  `json:"created_at"`
}

// NewGenerationRun creates a run with generated UUID and start timestamp.
func NewGenerationRun(siteURL, outputDir string) *GenerationRun {
	return &GenerationRun{
		ID:        uuid.New(),
		SiteURL:   siteURL,
		OutputDir: outputDir,
		Status:    RunStatusRunning,
		StartedAt: time.Now(),
	}
}

// NewRouteRecord creates a route record with generated UUID and timestamp.
func NewRouteRecord(runID uuid.UUID) *RouteRecord {
	return &RouteRecord{
		ID:        uuid.New(),
		RunID:     runID,
		CreatedAt: time.Now(),
	}
}
