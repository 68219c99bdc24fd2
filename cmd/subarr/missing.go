package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/subarr/internal/library"
)

var missingCmd = &cobra.Command{
	Use:   "missing",
	Short: "List episodes with missing subtitles (local)",
	Args:  cobra.NoArgs,
	RunE:  runMissingCmd,
}

var missingSeries int64

func init() {
	rootCmd.AddCommand(missingCmd)
	missingCmd.Flags().Int64Var(&missingSeries, "series", 0, "Only episodes of this series")
}

type missingEpisode struct {
	EpisodeID int64    `json:"episode_id"`
	SeriesID  int64    `json:"series_id"`
	Series    string   `json:"series"`
	Season    int      `json:"season"`
	Episode   int      `json:"episode"`
	Title     string   `json:"title"`
	Missing   []string `json:"missing"`
}

func runMissingCmd(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	items, err := listMissing(app.Store, missingSeries)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, items)
	}
	if len(items) == 0 {
		fmt.Fprintln(out, "No missing subtitles")
		return nil
	}

	rows := make([][]string, len(items))
	for i, it := range items {
		rows[i] = []string{
			fmt.Sprint(it.EpisodeID),
			it.Series,
			formatEpisode(it.Season, it.Episode),
			it.Title,
			strings.Join(it.Missing, ", "),
		}
	}
	fmt.Fprintf(out, "Episodes missing subtitles (%d):\n\n", len(items))
	fmt.Fprintln(out, renderTable(
		[]string{"ID", "Series", "Episode", "Title", "Missing"},
		rows,
		[]columnAlignment{alignRight},
	))
	return nil
}

// listMissing returns episodes whose missing list is not empty, optionally
// limited to one series.
func listMissing(store *library.Store, seriesID int64) ([]missingEpisode, error) {
	filter := library.EpisodeFilter{}
	if seriesID > 0 {
		filter.SeriesID = &seriesID
	}
	episodes, _, err := store.ListEpisodes(filter)
	if err != nil {
		return nil, fmt.Errorf("list episodes: %w", err)
	}

	titles := map[int64]string{}
	items := []missingEpisode{}
	for _, ep := range episodes {
		missing, err := library.ParseMissing(ep.MissingSubtitles)
		if err != nil {
			return nil, fmt.Errorf("episode %d: %w", ep.ID, err)
		}
		if len(missing) == 0 {
			continue
		}
		title, ok := titles[ep.SeriesID]
		if !ok {
			series, err := store.GetSeries(ep.SeriesID)
			if err != nil {
				return nil, fmt.Errorf("get series %d: %w", ep.SeriesID, err)
			}
			title = series.Title
			titles[ep.SeriesID] = title
		}
		items = append(items, missingEpisode{
			EpisodeID: ep.ID,
			SeriesID:  ep.SeriesID,
			Series:    title,
			Season:    ep.Season,
			Episode:   ep.Episode,
			Title:     ep.Title,
			Missing:   missing,
		})
	}
	return items, nil
}
