package indexer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"slices"

	"github.com/vmunix/subarr/internal/library"
	"github.com/vmunix/subarr/internal/sidecar"
)

// ReconcileResult summarizes one reconciliation. A failed side leaves its
// rows untouched and records the error.
type ReconcileResult struct {
	Embedded int   // embedded tracks indexed
	External int   // external files indexed
	Removed  int64 // rows deleted

	EmbeddedErr error
	ExternalErr error
}

// Reconcile brings the stored subtitles of ep in line with the tracks in its
// container and the subtitle files on disk.
//
// Returns ErrFileUnavailable, without touching the store, when the video file
// is missing. A probe or search failure abandons only its own side; the
// result records it and the error return stays nil. Running Reconcile twice
// over the same files leaves the same rows.
func (ix *Indexer) Reconcile(ctx context.Context, ep *library.Episode, useCache bool) (*ReconcileResult, error) {
	videoPath := ix.paths.ToLocal(ep.Path)
	if info, err := os.Stat(videoPath); err != nil || info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrFileUnavailable, videoPath)
	}

	res := &ReconcileResult{}
	if ix.opts.UseEmbedded {
		if err := ix.reconcileEmbedded(ctx, ep, videoPath, useCache, res); err != nil {
			res.EmbeddedErr = err
			ix.logger.Error("embedded subtitles not indexed", "episode_id", ep.ID, "path", videoPath, "error", err)
		}
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}

	if err := ix.reconcileExternal(ctx, ep, videoPath, res); err != nil {
		res.ExternalErr = err
		ix.logger.Error("external subtitles not indexed", "episode_id", ep.ID, "path", videoPath, "error", err)
	}

	ix.metrics.observeReconcile(res)
	return res, nil
}

func (ix *Indexer) reconcileEmbedded(ctx context.Context, ep *library.Episode, videoPath string, useCache bool, res *ReconcileResult) error {
	tracks, err := ix.prober.Probe(ctx, videoPath, ep.FileSize, ep.FileID, useCache)
	if err != nil {
		return fmt.Errorf("probe: %w", err)
	}

	observed := make([]*library.Subtitle, 0, len(tracks))
	for _, tr := range tracks {
		tag, ok := ix.ClassifyEmbedded(tr)
		if !ok {
			continue
		}
		observed = append(observed, &library.Subtitle{
			EpisodeID: ep.ID,
			SeriesID:  ep.SeriesID,
			Language:  tag.Language,
			Forced:    tag.Forced,
			HI:        tag.HI,
			Location:  library.EmbeddedTrack{TrackID: tr.ID},
		})
	}

	var removed int64
	err = ix.store.InTx(func(tx *library.Tx) error {
		legacy, err := tx.DeleteLegacySubtitles(ep.ID)
		if err != nil {
			return err
		}
		if err := tx.UpsertSubtitles(observed); err != nil {
			return err
		}
		stale, err := tx.DeleteEmbeddedSubtitlesExcept(ep.ID, observed)
		if err != nil {
			return err
		}
		removed = legacy + stale
		return nil
	})
	if err != nil {
		return fmt.Errorf("store embedded subtitles: %w", err)
	}

	res.Embedded = len(observed)
	res.Removed += removed
	return nil
}

func (ix *Indexer) reconcileExternal(ctx context.Context, ep *library.Episode, videoPath string, res *ReconcileResult) error {
	epID := ep.ID
	stored, err := ix.store.ListSubtitles(library.SubtitleFilter{EpisodeID: &epID})
	if err != nil {
		return fmt.Errorf("list subtitles: %w", err)
	}

	// Files whose size did not change keep their stored language instead of
	// being guessed again. Rows whose file is gone are dropped whatever the
	// search below finds.
	unchanged := make(map[string]sidecar.Guess)
	var gone []string
	for _, sub := range stored {
		if !sub.IsExternal() {
			continue
		}
		local := ix.paths.ToLocal(sub.Path())
		info, err := os.Stat(local)
		switch {
		case err == nil && info.Mode().IsRegular():
			if info.Size() == sub.Size {
				unchanged[local] = sidecar.Guess{Language: sub.Language, Forced: sub.Forced, HI: sub.HI}
			}
		case err == nil || errors.Is(err, fs.ErrNotExist):
			gone = append(gone, sub.Path())
		default:
			ix.logger.Warn("cannot stat subtitle", "path", local, "error", err)
		}
	}

	if len(gone) > 0 {
		n, err := ix.store.DeleteSubtitlesByPath(ep.ID, gone)
		if err != nil {
			return fmt.Errorf("delete missing subtitles: %w", err)
		}
		res.Removed += n
		ix.logger.Debug("removed missing subtitle files", "episode_id", ep.ID, "count", n)
	}

	var extraDirs []string
	if dest := sidecar.DestFolder(videoPath, ix.opts.Subfolder, ix.opts.SubfolderCustom); dest != "" {
		extraDirs = append(extraDirs, dest)
	}

	found, err := ix.searcher.Search(ctx, videoPath, ix.searchLanguages(ctx, ep), ix.opts.SingleLanguage, extraDirs)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	guesses := ix.searcher.GuessUnknown(ctx, found, unchanged)

	var observed []*library.Subtitle
	for _, path := range slices.Sorted(maps.Keys(guesses)) {
		tag, ok := ix.ClassifyExternal(path, guesses[path])
		if !ok {
			continue
		}
		info, err := os.Stat(path)
		if err != nil {
			ix.logger.Debug("subtitle vanished during scan", "path", path, "error", err)
			continue
		}
		observed = append(observed, &library.Subtitle{
			EpisodeID: ep.ID,
			SeriesID:  ep.SeriesID,
			Language:  tag.Language,
			Forced:    tag.Forced,
			HI:        tag.HI,
			Location:  library.ExternalFile{Path: ix.paths.ToStored(path)},
			Size:      info.Size(),
		})
	}

	if len(observed) > 0 {
		err := ix.store.InTx(func(tx *library.Tx) error {
			return tx.UpsertSubtitles(observed)
		})
		if err != nil {
			return fmt.Errorf("store external subtitles: %w", err)
		}
	}
	res.External = len(observed)
	return nil
}

// searchLanguages returns the configured language set, or the languages of
// the episode's profile when none is configured.
func (ix *Indexer) searchLanguages(ctx context.Context, ep *library.Episode) []string {
	if len(ix.opts.Languages) > 0 {
		return ix.opts.Languages
	}
	pol, err := ix.episodePolicy(ctx, ep.ID)
	if err != nil || pol == nil {
		return nil
	}
	var langs []string
	for _, e := range pol.Entries {
		if !slices.Contains(langs, e.Language) {
			langs = append(langs, e.Language)
		}
	}
	return langs
}
