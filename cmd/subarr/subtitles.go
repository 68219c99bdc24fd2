package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var subtitlesCmd = &cobra.Command{
	Use:   "subtitles <episode-id>",
	Short: "Show the indexed subtitles of an episode",
	Args:  cobra.ExactArgs(1),
	RunE:  runSubtitlesCmd,
}

var subtitlesLocal bool

func init() {
	rootCmd.AddCommand(subtitlesCmd)
	subtitlesCmd.Flags().BoolVar(&subtitlesLocal, "local", false, "Read the database instead of asking the server")
}

func runSubtitlesCmd(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	var resp *EpisodeSubtitlesResponse
	if subtitlesLocal {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer func() { _ = app.Close() }()
		resp, err = localEpisodeSubtitles(app.Store, id)
		if err != nil {
			return err
		}
	} else {
		resp, err = NewClient(serverURL).EpisodeSubtitles(id)
		if err != nil {
			return fmt.Errorf("failed to fetch subtitles: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, resp)
	}
	printEpisodeSubtitles(out, resp)
	return nil
}

func printEpisodeSubtitles(w io.Writer, resp *EpisodeSubtitlesResponse) {
	fmt.Fprintf(w, "Episode %d: %s - %s\n\n", resp.EpisodeID, formatEpisode(resp.Season, resp.Episode), resp.Title)

	if len(resp.Subtitles) == 0 {
		fmt.Fprintln(w, "No subtitles indexed")
	} else {
		rows := make([][]string, 0, len(resp.Subtitles))
		for _, s := range resp.Subtitles {
			location := s.Path
			if s.TrackID != nil {
				location = "track " + strconv.FormatInt(*s.TrackID, 10)
			}
			size := ""
			if s.Size > 0 {
				size = strconv.FormatInt(s.Size, 10)
			}
			rows = append(rows, []string{s.Language, yesNo(s.Forced), yesNo(s.HI), s.Source, location, size})
		}
		fmt.Fprintln(w, renderTable(
			[]string{"Language", "Forced", "HI", "Source", "Location", "Size"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
		))
	}

	if len(resp.Missing) == 0 {
		fmt.Fprintln(w, "\nMissing: none")
		return
	}
	fmt.Fprintf(w, "\nMissing: %s\n", strings.Join(resp.Missing, ", "))
}
