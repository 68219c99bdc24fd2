// Package server runs the long-lived daemon components: the HTTP API, the
// scheduled full-library scan and housekeeping.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/vmunix/subarr/internal/indexer"
)

// ErrScanRunning is returned when a full scan is already in progress, in
// this process or in another one holding the scan lock.
var ErrScanRunning = errors.New("full scan already running")

// DefaultPruneSchedule runs housekeeping once an hour.
const DefaultPruneSchedule = "@hourly"

// Config for the runner.
type Config struct {
	Schedule       string // full scan cron expression, empty disables
	PruneSchedule  string
	LockFile       string // empty disables the cross-process lock
	UseCache       bool
	EventRetention time.Duration // zero keeps events forever
}

// Scanner runs a full library scan.
type Scanner interface {
	ScanAll(ctx context.Context, jobID string, useCache bool) (*indexer.ScanReport, error)
}

// JobTracker records job lifecycles.
type JobTracker interface {
	Start(ctx context.Context, name string) string
	Finish(ctx context.Context, jobID string, failed int, err error)
}

// EventPruner removes old events.
type EventPruner interface {
	Prune(olderThan time.Duration) (int64, error)
}

// CachePruner removes expired cache entries.
type CachePruner interface {
	Prune(ctx context.Context) (int64, error)
}

// Deps are the components driven by the runner. Events and Cache may be nil.
type Deps struct {
	Scanner Scanner
	Jobs    JobTracker
	Events  EventPruner
	Cache   CachePruner
}

// Runner manages the daemon components.
type Runner struct {
	cfg    Config
	deps   Deps
	lock   *flock.Flock
	http   *http.Server
	logger *slog.Logger

	scanning atomic.Bool
	wg       sync.WaitGroup

	// ctx outlives individual requests; scans started over HTTP use it.
	ctx    context.Context
	cancel context.CancelFunc
}

// NewRunner creates a new runner.
func NewRunner(cfg Config, deps Deps, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PruneSchedule == "" {
		cfg.PruneSchedule = DefaultPruneSchedule
	}
	r := &Runner{
		cfg:    cfg,
		deps:   deps,
		logger: logger.With("component", "runner"),
	}
	if cfg.LockFile != "" {
		r.lock = flock.New(cfg.LockFile)
	}
	r.ctx, r.cancel = context.WithCancel(context.Background())
	return r
}

// SetHTTPServer makes Run serve srv until shutdown.
func (r *Runner) SetHTTPServer(srv *http.Server) {
	r.http = srv
}

// Run starts all components.
// It blocks until the context is canceled or a component fails.
func (r *Runner) Run(ctx context.Context) error {
	c := cron.New(cron.WithLogger(cronLogger{r.logger}))
	if r.cfg.Schedule != "" {
		if _, err := c.AddFunc(r.cfg.Schedule, r.scheduledScan); err != nil {
			return fmt.Errorf("schedule full scan: %w", err)
		}
	}
	if _, err := c.AddFunc(r.cfg.PruneSchedule, func() { r.Prune(r.ctx) }); err != nil {
		return fmt.Errorf("schedule prune: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	if r.http != nil {
		g.Go(func() error {
			r.logger.Info("http server listening", "addr", r.http.Addr)
			if err := r.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		c.Start()
		r.logger.Info("scheduler started", "scan_schedule", r.cfg.Schedule, "prune_schedule", r.cfg.PruneSchedule)
		<-ctx.Done()

		if r.http != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := r.http.Shutdown(shutdownCtx); err != nil {
				r.logger.Error("http shutdown", "error", err)
			}
		}
		<-c.Stop().Done()
		r.cancel()
		r.wg.Wait()
		r.logger.Info("runner stopped")
		return nil
	})

	return g.Wait()
}

// FullScan runs a tracked full-library scan and waits for it.
func (r *Runner) FullScan(ctx context.Context) (*indexer.ScanReport, error) {
	release, err := r.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	jobID := r.deps.Jobs.Start(ctx, indexer.FullScanJobName)
	return r.scan(ctx, jobID)
}

// StartFullScan starts a tracked full-library scan in the background and
// returns its job ID.
func (r *Runner) StartFullScan() (string, error) {
	release, err := r.acquire()
	if err != nil {
		return "", err
	}

	jobID := r.deps.Jobs.Start(r.ctx, indexer.FullScanJobName)
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer release()
		_, _ = r.scan(r.ctx, jobID)
	}()
	return jobID, nil
}

// Wait blocks until background scans have finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}

func (r *Runner) scan(ctx context.Context, jobID string) (*indexer.ScanReport, error) {
	report, err := r.deps.Scanner.ScanAll(ctx, jobID, r.cfg.UseCache)
	failed := 0
	if report != nil {
		failed = report.Failed
	}
	r.deps.Jobs.Finish(context.WithoutCancel(ctx), jobID, failed, err)
	if err != nil {
		return report, fmt.Errorf("full scan: %w", err)
	}
	return report, nil
}

func (r *Runner) scheduledScan() {
	report, err := r.FullScan(r.ctx)
	switch {
	case errors.Is(err, ErrScanRunning):
		r.logger.Info("scheduled scan skipped, another scan is running")
	case err != nil:
		r.logger.Error("scheduled scan failed", "error", err)
	default:
		r.logger.Info("scheduled scan done", "total", report.Total, "scanned", report.Scanned,
			"unavailable", report.Unavailable, "failed", report.Failed)
	}
}

// acquire takes the in-process flag and the lock file. The returned func
// releases both.
func (r *Runner) acquire() (func(), error) {
	if !r.scanning.CompareAndSwap(false, true) {
		return nil, ErrScanRunning
	}
	if r.lock != nil {
		ok, err := r.lock.TryLock()
		if err != nil {
			r.scanning.Store(false)
			return nil, fmt.Errorf("acquire scan lock: %w", err)
		}
		if !ok {
			r.scanning.Store(false)
			return nil, ErrScanRunning
		}
	}
	return func() {
		if r.lock != nil {
			if err := r.lock.Unlock(); err != nil {
				r.logger.Warn("release scan lock", "error", err)
			}
		}
		r.scanning.Store(false)
	}, nil
}

// Prune removes events past retention and expired probe cache entries.
func (r *Runner) Prune(ctx context.Context) {
	if r.deps.Events != nil && r.cfg.EventRetention > 0 {
		n, err := r.deps.Events.Prune(r.cfg.EventRetention)
		if err != nil {
			r.logger.Error("prune events", "error", err)
		} else if n > 0 {
			r.logger.Info("pruned events", "count", n)
		}
	}
	if r.deps.Cache != nil {
		n, err := r.deps.Cache.Prune(ctx)
		if err != nil {
			r.logger.Error("prune probe cache", "error", err)
		} else if n > 0 {
			r.logger.Info("pruned probe cache", "count", n)
		}
	}
}

// cronLogger routes scheduler logs through slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
