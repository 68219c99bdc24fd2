package indexer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmunix/subarr/internal/indexer/mocks"
	"github.com/vmunix/subarr/internal/library"
	"github.com/vmunix/subarr/internal/probe"
)

// addSibling adds another episode to the series of ep. The video file is
// only created when onDisk is set.
func (f *fixture) addSibling(t *testing.T, ep *library.Episode, num int, title string, onDisk bool) *library.Episode {
	t.Helper()
	video := filepath.Join(f.dir, fmt.Sprintf("Show.S01E%02d.mkv", num))
	if onDisk {
		writeFile(t, video, "video")
	}
	sib := &library.Episode{
		SeriesID: ep.SeriesID,
		Season:   1,
		Episode:  num,
		Title:    title,
		Path:     video,
		FileSize: 5,
		FileID:   int64(num),
	}
	require.NoError(t, f.store.AddEpisode(sib))
	return sib
}

func TestScanEpisode_EndToEnd(t *testing.T) {
	f := newRealFixture(t, Options{})
	ep := f.addEpisode(t, []library.ProfileItem{{Language: "en"}, {Language: "en", HI: true}}, nil)

	require.NoError(t, f.ix.ScanEpisode(context.Background(), ep.ID, true))
	assert.Equal(t, []string{"en", "en:hi"}, f.missing(t, ep.ID))

	writeFile(t, filepath.Join(f.dir, "Show.S01E01.en.hi.srt"), "1\n00:00:01,000 --> 00:00:02,000\nHello\n")
	require.NoError(t, f.ix.ScanEpisode(context.Background(), ep.ID, true))
	assert.Empty(t, f.missing(t, ep.ID))

	subs := f.subtitles(t, ep.ID)
	require.Len(t, subs, 1)
	assert.Equal(t, "en", subs[0].Language)
	assert.True(t, subs[0].HI)
}

func TestScanEpisode_ExternalRemoved(t *testing.T) {
	f := newRealFixture(t, Options{})
	ep := f.addEpisode(t, []library.ProfileItem{{Language: "fr"}}, nil)

	srt := filepath.Join(f.dir, "Show.S01E01.fr.srt")
	writeFile(t, srt, "x")
	require.NoError(t, f.ix.ScanEpisode(context.Background(), ep.ID, true))
	assert.Empty(t, f.missing(t, ep.ID))

	require.NoError(t, os.Remove(srt))
	require.NoError(t, f.ix.ScanEpisode(context.Background(), ep.ID, true))
	assert.Equal(t, []string{"fr"}, f.missing(t, ep.ID))
	assert.Empty(t, f.subtitles(t, ep.ID))
}

func TestScanEpisode_NotFound(t *testing.T) {
	f := newFixture(t, Options{})
	err := f.ix.ScanEpisode(context.Background(), 42, true)
	assert.ErrorIs(t, err, library.ErrNotFound)
}

func TestScanEpisode_FileUnavailable(t *testing.T) {
	f := newFixture(t, Options{UseEmbedded: true})
	ep := f.addEpisode(t, []library.ProfileItem{{Language: "en"}}, nil)
	missing := f.addSibling(t, ep, 2, "Gone", false)
	require.NoError(t, f.store.SetMissingSubtitles(missing.ID, `["de"]`))

	err := f.ix.ScanEpisode(context.Background(), missing.ID, true)
	assert.ErrorIs(t, err, ErrFileUnavailable)
	assert.Equal(t, []string{"de"}, f.missing(t, missing.ID), "evaluation is skipped")
}

func TestScanSeries_NoCache(t *testing.T) {
	f := newFixture(t, Options{UseEmbedded: true})
	ep := f.addEpisode(t, []library.ProfileItem{{Language: "en"}}, nil)
	f.addSibling(t, ep, 2, "Second", true)
	f.addSibling(t, ep, 3, "Gone", false)

	var order []string
	f.prober.EXPECT().Probe(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), false).
		DoAndReturn(func(_ context.Context, path string, _, _ int64, _ bool) ([]probe.Track, error) {
			order = append(order, filepath.Base(path))
			return []probe.Track{{ID: 2, Language: "eng"}}, nil
		}).Times(2)
	f.searcher.EXPECT().Search(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).Times(2)
	f.searcher.EXPECT().GuessUnknown(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)

	report, err := f.ix.ScanSeries(context.Background(), ep.SeriesID)
	require.NoError(t, err)
	assert.Equal(t, &ScanReport{Total: 3, Scanned: 2, Unavailable: 1}, report)
	assert.Equal(t, []string{"Show.S01E01.mkv", "Show.S01E02.mkv"}, order)
	assert.Empty(t, f.missing(t, ep.ID))
}

func TestScanAll_Progress(t *testing.T) {
	f := newRealFixture(t, Options{})
	ctrl := gomock.NewController(t)
	progress := mocks.NewMockProgressSink(ctrl)
	f.ix.progress = progress

	ep := f.addEpisode(t, []library.ProfileItem{{Language: "en"}}, nil)
	f.addSibling(t, ep, 2, "Second", false)

	gomock.InOrder(
		progress.EXPECT().UpdateProgress("job-1", 0, 2, "Indexing"),
		progress.EXPECT().UpdateProgress("job-1", 1, 2, "Show - S01E01 - Pilot"),
		progress.EXPECT().UpdateProgress("job-1", 2, 2, "Show - S01E02 - Second"),
		progress.EXPECT().RenameJob("job-1", FullScanDoneJob),
	)

	report, err := f.ix.ScanAll(context.Background(), "job-1", true)
	require.NoError(t, err)
	assert.Equal(t, &ScanReport{Total: 2, Scanned: 1, Unavailable: 1}, report)
	assert.Equal(t, []string{"en"}, f.missing(t, ep.ID))
}

func TestScanAll_Canceled(t *testing.T) {
	f := newRealFixture(t, Options{})
	ctrl := gomock.NewController(t)
	progress := mocks.NewMockProgressSink(ctrl)
	f.ix.progress = progress

	ep := f.addEpisode(t, []library.ProfileItem{{Language: "en"}}, nil)
	f.addSibling(t, ep, 2, "Second", true)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	progress.EXPECT().UpdateProgress("job-1", 0, 2, "Indexing")

	report, err := f.ix.ScanAll(ctx, "job-1", true)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, report.Scanned)
	assert.Equal(t, "[]", mustEpisode(t, f, ep.ID).MissingSubtitles, "untouched")
}

func TestScanAll_Concurrent(t *testing.T) {
	f := newRealFixture(t, Options{Concurrency: 4})
	ep := f.addEpisode(t, []library.ProfileItem{{Language: "de"}}, nil)
	for n := 2; n <= 8; n++ {
		f.addSibling(t, ep, n, "Next", true)
	}
	writeFile(t, filepath.Join(f.dir, "Show.S01E03.de.srt"), "x")

	report, err := f.ix.ScanAll(context.Background(), "", true)
	require.NoError(t, err)
	assert.Equal(t, 8, report.Scanned)

	summaries, err := f.store.ListEpisodeSummaries(&ep.SeriesID)
	require.NoError(t, err)
	for _, es := range summaries {
		if es.Episode == 3 {
			assert.Empty(t, f.missing(t, es.ID))
			continue
		}
		assert.Equal(t, []string{"de"}, f.missing(t, es.ID), "episode %d", es.Episode)
	}
}

func TestScanAll_ConcurrentProgressNeverGoesBack(t *testing.T) {
	f := newRealFixture(t, Options{Concurrency: 4})
	ctrl := gomock.NewController(t)
	progress := mocks.NewMockProgressSink(ctrl)
	f.ix.progress = progress

	ep := f.addEpisode(t, []library.ProfileItem{{Language: "de"}}, nil)
	for n := 2; n <= 8; n++ {
		f.addSibling(t, ep, n, "Next", true)
	}

	var mu sync.Mutex
	var seen []int
	progress.EXPECT().UpdateProgress("job-2", gomock.Any(), 8, gomock.Any()).
		Do(func(_ string, current, _ int, _ string) {
			mu.Lock()
			seen = append(seen, current)
			mu.Unlock()
		}).Times(9)
	progress.EXPECT().RenameJob("job-2", FullScanDoneJob)

	_, err := f.ix.ScanAll(context.Background(), "job-2", true)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8}, seen)
}

func mustEpisode(t *testing.T, f *fixture, id int64) *library.Episode {
	t.Helper()
	ep, err := f.store.GetEpisode(id)
	require.NoError(t, err)
	return ep
}
