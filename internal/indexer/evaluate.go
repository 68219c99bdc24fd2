package indexer

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/vmunix/subarr/internal/events"
	"github.com/vmunix/subarr/internal/language"
	"github.com/vmunix/subarr/internal/library"
	"github.com/vmunix/subarr/internal/policy"
)

// Evaluate recomputes and stores the missing subtitles of one episode and
// returns them in their rendered form ("en", "en:forced", "en:hi").
// An episode whose series has no profile misses nothing.
func (ix *Indexer) Evaluate(ctx context.Context, episodeID int64) ([]string, error) {
	missing, err := ix.evaluate(ctx, episodeID)
	if err != nil {
		return nil, err
	}
	ix.publishBadges(ctx, 1)
	return missing, nil
}

// EvaluateSeries recomputes the missing subtitles of every episode of a
// series, or of the whole library when seriesID is nil. Failures of single
// episodes are logged and skipped.
func (ix *Indexer) EvaluateSeries(ctx context.Context, seriesID *int64) (int, error) {
	summaries, err := ix.store.ListEpisodeSummaries(seriesID)
	if err != nil {
		return 0, fmt.Errorf("list episodes: %w", err)
	}

	evaluated := 0
	for _, es := range summaries {
		if err := ctx.Err(); err != nil {
			break
		}
		if _, err := ix.evaluate(ctx, es.ID); err != nil {
			ix.logger.Error("evaluate missing subtitles", "episode_id", es.ID, "error", err)
			continue
		}
		evaluated++
	}
	ix.publishBadges(ctx, evaluated)
	return evaluated, ctx.Err()
}

func (ix *Indexer) evaluate(ctx context.Context, episodeID int64) ([]string, error) {
	ep, err := ix.store.GetEpisode(episodeID)
	if err != nil {
		return nil, fmt.Errorf("get episode %d: %w", episodeID, err)
	}

	tags, err := ix.missingFor(ctx, ep)
	if err != nil {
		return nil, err
	}
	rendered := make([]string, 0, len(tags))
	for _, t := range tags {
		rendered = append(rendered, t.String())
	}

	if err := ix.store.SetMissingSubtitles(ep.ID, library.EncodeMissing(rendered)); err != nil {
		return nil, fmt.Errorf("store missing subtitles: %w", err)
	}

	ix.publish(ctx, &events.EpisodeUpdated{
		BaseEvent: events.NewBaseEvent(events.EventEpisodeUpdated, events.EntityEpisode, ep.ID),
		EpisodeID: ep.ID,
		SeriesID:  ep.SeriesID,
		Missing:   rendered,
	})
	ix.publish(ctx, &events.EpisodeWantedUpdated{
		BaseEvent: events.NewBaseEvent(events.EventEpisodeWantedUpdated, events.EntityEpisode, ep.ID),
		EpisodeID: ep.ID,
		Wanted:    len(rendered) > 0,
	})
	return rendered, nil
}

func (ix *Indexer) publishBadges(ctx context.Context, n int) {
	ix.publish(ctx, &events.BadgesUpdated{
		BaseEvent: events.NewBaseEvent(events.EventBadgesUpdated, events.EntityLibrary, 0),
		Episodes:  n,
	})
}

// episodePolicy resolves the profile of the episode's series. It returns
// nil when no profile is assigned.
func (ix *Indexer) episodePolicy(ctx context.Context, episodeID int64) (*policy.Policy, error) {
	profileID, err := ix.store.EpisodeProfileID(episodeID)
	if err != nil {
		return nil, fmt.Errorf("episode profile: %w", err)
	}
	if profileID == nil {
		return nil, nil
	}
	return ix.policies.Resolve(ctx, *profileID)
}

func (ix *Indexer) missingFor(ctx context.Context, ep *library.Episode) ([]language.Tag, error) {
	pol, err := ix.episodePolicy(ctx, ep.ID)
	if errors.Is(err, library.ErrNotFound) {
		ix.logger.Warn("episode profile not found", "episode_id", ep.ID, "error", err)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if pol == nil {
		return nil, nil
	}

	epID := ep.ID
	subs, err := ix.store.ListSubtitles(library.SubtitleFilter{EpisodeID: &epID})
	if err != nil {
		return nil, fmt.Errorf("list subtitles: %w", err)
	}
	return computeMissing(pol, ix.table.AudioCodes(ep.AudioLanguages), subs, ix.opts.UseEmbedded), nil
}

// computeMissing returns the wanted tags of pol that subs do not provide,
// in profile order. audio holds the two-letter codes of the audio tracks.
func computeMissing(pol *policy.Policy, audio map[string]struct{}, subs []*library.Subtitle, useEmbedded bool) []language.Tag {
	inAudio := func(lang string) bool {
		_, ok := audio[lang]
		return ok
	}

	var desired []language.Tag
	for _, e := range pol.Entries {
		if e.AudioExclude && inAudio(e.Language) {
			continue
		}
		if e.AudioOnlyInclude && !inAudio(e.Language) {
			continue
		}
		desired = append(desired, language.Tag{Language: e.Language, Forced: e.Forced, HI: e.HI})
	}

	var actual []language.Tag
	for _, s := range subs {
		if !useEmbedded && !s.IsExternal() {
			continue
		}
		actual = append(actual, language.Tag{Language: s.Language, Forced: s.Forced, HI: s.HI})
	}

	if cutoffMet(pol.Cutoff, inAudio, actual) {
		return nil
	}

	have := make(map[language.Tag]int, len(actual))
	for _, t := range actual {
		have[t]++
	}
	var missing []language.Tag
	for _, t := range desired {
		if have[t] > 0 {
			have[t]--
			continue
		}
		missing = append(missing, t)
	}

	// An HI subtitle also satisfies the plain variant of its language.
	for _, t := range actual {
		if !t.HI {
			continue
		}
		if i := slices.Index(missing, language.Tag{Language: t.Language}); i >= 0 {
			missing = slices.Delete(missing, i, i+1)
		}
	}
	return missing
}

func cutoffMet(cutoff []policy.Entry, inAudio func(string) bool, actual []language.Tag) bool {
	for _, c := range cutoff {
		switch {
		case c.AudioOnlyInclude && !inAudio(c.Language):
			continue
		case c.AudioExclude && inAudio(c.Language):
			return true
		case slices.Contains(actual, language.Tag{Language: c.Language, Forced: c.Forced, HI: c.HI}):
			return true
		case slices.Contains(actual, language.Tag{Language: c.Language, HI: true}):
			return true
		}
	}
	return false
}
