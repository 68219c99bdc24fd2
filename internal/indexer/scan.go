package indexer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/subarr/internal/events"
	"github.com/vmunix/subarr/internal/library"
)

// Job names reported to the progress sink.
const (
	FullScanJobName = "Indexing all existing episodes subtitles"
	FullScanDoneJob = "Indexed all existing series subtitles"
)

// ScanReport summarizes a batch scan.
type ScanReport struct {
	Total       int `json:"total"`
	Scanned     int `json:"scanned"`
	Unavailable int `json:"unavailable"`
	Failed      int `json:"failed"`
}

// ScanEpisode reconciles and evaluates one episode.
//
// Returns library.ErrNotFound when the episode does not exist and
// ErrFileUnavailable when its video file is missing; in both cases nothing
// is changed.
func (ix *Indexer) ScanEpisode(ctx context.Context, episodeID int64, useCache bool) error {
	start := time.Now()
	err := ix.scanEpisode(ctx, episodeID, useCache)
	ix.metrics.observeScan(err, time.Since(start))
	return err
}

func (ix *Indexer) scanEpisode(ctx context.Context, episodeID int64, useCache bool) error {
	ep, err := ix.store.GetEpisode(episodeID)
	if errors.Is(err, library.ErrNotFound) {
		ix.logger.Warn("episode not found", "episode_id", episodeID)
		return fmt.Errorf("episode %d: %w", episodeID, err)
	}
	if err != nil {
		return fmt.Errorf("get episode %d: %w", episodeID, err)
	}

	res, err := ix.Reconcile(ctx, ep, useCache)
	if errors.Is(err, ErrFileUnavailable) {
		ix.logger.Debug("episode file not found, skipping", "episode_id", ep.ID, "path", ep.Path)
		return err
	}
	if err != nil {
		return err
	}

	ix.publish(ctx, &events.SubtitlesIndexed{
		BaseEvent: events.NewBaseEvent(events.EventSubtitlesIndexed, events.EntityEpisode, ep.ID),
		EpisodeID: ep.ID,
		Embedded:  res.Embedded,
		External:  res.External,
		Removed:   int(res.Removed),
	})

	if _, err := ix.Evaluate(ctx, ep.ID); err != nil {
		return fmt.Errorf("evaluate episode %d: %w", ep.ID, err)
	}
	return nil
}

// ScanSeries scans every episode of a series in episode ID order, always
// probing containers again. Failures of single episodes are logged and
// skipped; a canceled context stops before the next episode.
func (ix *Indexer) ScanSeries(ctx context.Context, seriesID int64) (*ScanReport, error) {
	summaries, err := ix.store.ListEpisodeSummaries(&seriesID)
	if err != nil {
		return nil, fmt.Errorf("list episodes of series %d: %w", seriesID, err)
	}

	report := &ScanReport{Total: len(summaries)}
	for _, es := range summaries {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		ix.tally(report, es.ID, ix.ScanEpisode(ctx, es.ID, false))
	}
	ix.logger.Info("series scanned", "series_id", seriesID, "episodes", report.Total,
		"unavailable", report.Unavailable, "failed", report.Failed)
	return report, nil
}

// ScanAll scans every episode of the library, reporting progress under
// jobID. Up to Options.Concurrency episodes are scanned at once. A
// canceled context stops before the next episode is started.
func (ix *Indexer) ScanAll(ctx context.Context, jobID string, useCache bool) (*ScanReport, error) {
	summaries, err := ix.store.ListEpisodeSummaries(nil)
	if err != nil {
		return nil, fmt.Errorf("list episodes: %w", err)
	}

	total := len(summaries)
	ix.reportProgress(jobID, 0, total, "Indexing")

	report := &ScanReport{Total: total}
	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(ix.opts.Concurrency)

	for i, es := range summaries {
		if ctx.Err() != nil {
			break
		}
		// Reported here so the sink sees a non-decreasing position.
		ix.reportProgress(jobID, i+1, total,
			fmt.Sprintf("%s - S%02dE%02d - %s", es.SeriesTitle, es.Season, es.Episode, es.EpisodeTitle))
		g.Go(func() error {
			err := ix.ScanEpisode(ctx, es.ID, useCache)
			mu.Lock()
			ix.tally(report, es.ID, err)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		ix.logger.Warn("full scan canceled", "scanned", report.Scanned, "total", total)
		return report, err
	}

	ix.logger.Info("all existing episode subtitles indexed", "episodes", total,
		"unavailable", report.Unavailable, "failed", report.Failed)
	if ix.progress != nil {
		ix.progress.RenameJob(jobID, FullScanDoneJob)
	}
	return report, nil
}

func (ix *Indexer) tally(report *ScanReport, episodeID int64, err error) {
	switch {
	case err == nil:
		report.Scanned++
	case errors.Is(err, ErrFileUnavailable):
		report.Unavailable++
	default:
		report.Failed++
		ix.logger.Error("scan episode failed", "episode_id", episodeID, "error", err)
	}
}

func (ix *Indexer) reportProgress(jobID string, current, total int, message string) {
	if ix.progress == nil || jobID == "" {
		return
	}
	ix.progress.UpdateProgress(jobID, current, total, message)
}
