package v1

//go:generate mockgen -destination=mocks/mocks.go -package=mocks . Indexer,FullScanner

import (
	"context"
	"errors"
	"net/http"

	"github.com/vmunix/subarr/internal/events"
	"github.com/vmunix/subarr/internal/indexer"
	"github.com/vmunix/subarr/internal/jobs"
	"github.com/vmunix/subarr/internal/library"
)

// ErrMissingDependency is returned when a required dependency is nil.
var ErrMissingDependency = errors.New("missing required dependency")

// Indexer scans single episodes and series.
type Indexer interface {
	ScanEpisode(ctx context.Context, episodeID int64, useCache bool) error
	ScanSeries(ctx context.Context, seriesID int64) (*indexer.ScanReport, error)
}

// FullScanner starts background full-library scans.
type FullScanner interface {
	StartFullScan() (string, error)
}

// JobLister exposes tracked jobs.
type JobLister interface {
	List() []jobs.Job
	Get(jobID string) (jobs.Job, bool)
}

// ServerDeps contains all dependencies for the API server.
// Required dependencies must be non-nil; optional dependencies may be nil.
type ServerDeps struct {
	// Required dependencies
	Library *library.Store
	Indexer Indexer

	// Optional dependencies (nil if not configured)
	Scans    FullScanner
	Jobs     JobLister
	Bus      *events.Bus      // live event stream
	EventLog *events.EventLog // event audit log
	Metrics  http.Handler     // served on /metrics

	// UseCache is the default for episode scans without a cache parameter.
	UseCache bool
}

// Validate checks that all required dependencies are provided.
func (d ServerDeps) Validate() error {
	if d.Library == nil {
		return errors.New("library store is required")
	}
	if d.Indexer == nil {
		return errors.New("indexer is required")
	}
	return nil
}
