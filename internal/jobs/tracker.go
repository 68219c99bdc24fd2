// Package jobs tracks long-running scan jobs and reports their progress
// on the event bus.
package jobs

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vmunix/subarr/internal/events"
)

// Status is the lifecycle state of a job.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Job is a snapshot of a tracked job.
type Job struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Status     Status     `json:"status"`
	Current    int        `json:"current"`
	Total      int        `json:"total"`
	Message    string     `json:"message,omitempty"`
	Failed     int        `json:"failed"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Publisher publishes events.
type Publisher interface {
	Publish(ctx context.Context, e events.Event) error
}

// Tracker keeps an in-memory table of jobs.
type Tracker struct {
	mu   sync.RWMutex
	jobs map[string]*Job
	keep int

	bus    Publisher
	logger *slog.Logger
}

// DefaultKeep is how many finished jobs are remembered.
const DefaultKeep = 50

// NewTracker creates a tracker. bus may be nil.
func NewTracker(bus Publisher, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		jobs:   make(map[string]*Job),
		keep:   DefaultKeep,
		bus:    bus,
		logger: logger.With("component", "jobs"),
	}
}

// Start registers a new running job and returns its ID.
func (t *Tracker) Start(ctx context.Context, name string) string {
	id := uuid.NewString()
	t.mu.Lock()
	t.jobs[id] = &Job{
		ID:        id,
		Name:      name,
		Status:    StatusRunning,
		StartedAt: time.Now(),
	}
	t.mu.Unlock()

	t.logger.Info("job started", "job_id", id, "name", name)
	t.publish(ctx, &events.ScanStarted{
		BaseEvent: events.NewBaseEvent(events.EventScanStarted, events.EntityJob, 0),
		JobID:     id,
		Name:      name,
	})
	return id
}

// UpdateProgress records the position of a running job. Unknown job IDs
// are ignored.
func (t *Tracker) UpdateProgress(jobID string, current, total int, message string) {
	t.mu.Lock()
	j, ok := t.jobs[jobID]
	if ok {
		j.Current = current
		j.Total = total
		j.Message = message
	}
	t.mu.Unlock()
	if !ok {
		return
	}

	t.publish(context.Background(), &events.ScanProgressed{
		BaseEvent: events.NewBaseEvent(events.EventScanProgressed, events.EntityJob, 0),
		JobID:     jobID,
		Current:   current,
		Total:     total,
		Message:   message,
	})
}

// RenameJob changes the display name of a job.
func (t *Tracker) RenameJob(jobID, name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if j, ok := t.jobs[jobID]; ok {
		j.Name = name
	}
}

// Finish marks a job done. A non-nil err marks it failed.
func (t *Tracker) Finish(ctx context.Context, jobID string, failed int, err error) {
	now := time.Now()
	t.mu.Lock()
	j, ok := t.jobs[jobID]
	if !ok {
		t.mu.Unlock()
		return
	}
	j.FinishedAt = &now
	j.Failed = failed
	j.Status = StatusCompleted
	if err != nil {
		j.Status = StatusFailed
		j.Error = err.Error()
	}
	done := *j
	t.trim()
	t.mu.Unlock()

	t.logger.Info("job finished", "job_id", jobID, "name", done.Name, "status", done.Status,
		"total", done.Total, "failed", failed, "duration", now.Sub(done.StartedAt))
	t.publish(ctx, &events.ScanCompleted{
		BaseEvent: events.NewBaseEvent(events.EventScanCompleted, events.EntityJob, 0),
		JobID:     jobID,
		Name:      done.Name,
		Total:     done.Total,
		Failed:    failed,
		Error:     done.Error,
	})
}

// Get returns a snapshot of the job.
func (t *Tracker) Get(jobID string) (Job, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	j, ok := t.jobs[jobID]
	if !ok {
		return Job{}, false
	}
	return *j, true
}

// List returns all known jobs, most recently started first.
func (t *Tracker) List() []Job {
	t.mu.RLock()
	out := make([]Job, 0, len(t.jobs))
	for _, j := range t.jobs {
		out = append(out, *j)
	}
	t.mu.RUnlock()

	slices.SortFunc(out, func(a, b Job) int {
		return b.StartedAt.Compare(a.StartedAt)
	})
	return out
}

// trim drops the oldest finished jobs beyond the keep limit. Caller holds mu.
func (t *Tracker) trim() {
	var finished []*Job
	for _, j := range t.jobs {
		if j.FinishedAt != nil {
			finished = append(finished, j)
		}
	}
	if len(finished) <= t.keep {
		return
	}
	slices.SortFunc(finished, func(a, b *Job) int {
		return a.FinishedAt.Compare(*b.FinishedAt)
	})
	for _, j := range finished[:len(finished)-t.keep] {
		delete(t.jobs, j.ID)
	}
}

func (t *Tracker) publish(ctx context.Context, e events.Event) {
	if t.bus == nil {
		return
	}
	if err := t.bus.Publish(ctx, e); err != nil {
		t.logger.Warn("publish failed", "type", e.EventType(), "error", err)
	}
}
