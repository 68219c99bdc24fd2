// Package indexer reconciles the subtitles found for each episode with the
// subtitle store and works out which wanted languages are still missing.
package indexer

//go:generate mockgen -destination=mocks/mocks.go -package=mocks . Prober,Searcher,Notifier,ProgressSink

import (
	"context"
	"log/slog"

	"github.com/vmunix/subarr/internal/events"
	"github.com/vmunix/subarr/internal/language"
	"github.com/vmunix/subarr/internal/library"
	"github.com/vmunix/subarr/internal/pathmap"
	"github.com/vmunix/subarr/internal/policy"
	"github.com/vmunix/subarr/internal/probe"
	"github.com/vmunix/subarr/internal/sidecar"
)

// Prober lists the subtitle tracks embedded in a video file.
type Prober interface {
	Probe(ctx context.Context, path string, sizeHint, fileID int64, useCache bool) ([]probe.Track, error)
}

// Searcher finds external subtitle files next to a video and in extra
// folders, and fills in languages the filenames do not carry.
type Searcher interface {
	Search(ctx context.Context, videoPath string, languages []string, onlyOne bool, extraDirs []string) (map[string]*sidecar.Guess, error)
	GuessUnknown(ctx context.Context, candidates map[string]*sidecar.Guess, exclude map[string]sidecar.Guess) map[string]*sidecar.Guess
}

// Notifier receives change notifications. Implemented by events.Bus.
type Notifier interface {
	Publish(ctx context.Context, e events.Event) error
}

// ProgressSink receives progress of a tracked full scan. Implemented by
// jobs.Tracker.
type ProgressSink interface {
	UpdateProgress(jobID string, current, total int, message string)
	RenameJob(jobID, name string)
}

// PolicyResolver resolves language profiles. Implemented by policy.Resolver.
type PolicyResolver interface {
	Resolve(ctx context.Context, profileID int64) (*policy.Policy, error)
}

// Options are the indexing settings.
type Options struct {
	// UseEmbedded indexes subtitle tracks inside the container. When false
	// the embedded side is skipped and embedded rows never satisfy a profile.
	UseEmbedded bool

	IgnorePGS    bool
	IgnoreVobSub bool
	IgnoreASS    bool

	// Languages is the configured language set passed to the searcher.
	// Empty means the languages of the episode's profile.
	Languages []string
	// SingleLanguage assigns the only configured language to untagged files.
	SingleLanguage bool

	Subfolder       string // sidecar.SubfolderCurrent, Relative or Absolute
	SubfolderCustom string

	// Concurrency bounds the episodes scanned in parallel by ScanAll.
	Concurrency int
}

// Deps are the collaborators of an Indexer. Notifier, Progress and
// Metrics may be nil.
type Deps struct {
	Store    *library.Store
	Policies PolicyResolver
	Table    *language.Table
	Prober   Prober
	Searcher Searcher
	Paths    *pathmap.Mapper
	Notifier Notifier
	Progress ProgressSink
	Metrics  *Metrics
}

// Indexer drives subtitle indexing for episodes.
type Indexer struct {
	store    *library.Store
	policies PolicyResolver
	table    *language.Table
	prober   Prober
	searcher Searcher
	paths    *pathmap.Mapper
	notifier Notifier
	progress ProgressSink
	metrics  *Metrics
	opts     Options
	logger   *slog.Logger
}

// New creates an indexer.
func New(deps Deps, opts Options, logger *slog.Logger) *Indexer {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	table := deps.Table
	if table == nil {
		table = language.NewTable(nil)
	}
	return &Indexer{
		store:    deps.Store,
		policies: deps.Policies,
		table:    table,
		prober:   deps.Prober,
		searcher: deps.Searcher,
		paths:    deps.Paths,
		notifier: deps.Notifier,
		progress: deps.Progress,
		metrics:  deps.Metrics,
		opts:     opts,
		logger:   logger.With("component", "indexer"),
	}
}

func (ix *Indexer) publish(ctx context.Context, e events.Event) {
	if ix.notifier == nil {
		return
	}
	if err := ix.notifier.Publish(ctx, e); err != nil {
		ix.logger.Warn("notify failed", "type", e.EventType(), "error", err)
	}
}
