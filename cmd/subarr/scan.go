package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vmunix/subarr/internal/events"
	"github.com/vmunix/subarr/internal/indexer"
	"github.com/vmunix/subarr/internal/library"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Index subtitles and recompute missing languages",
}

var scanEpisodeCmd = &cobra.Command{
	Use:   "episode <id>",
	Short: "Scan one episode",
	Args:  cobra.ExactArgs(1),
	RunE:  runScanEpisode,
}

var scanSeriesCmd = &cobra.Command{
	Use:   "series <id>",
	Short: "Scan every episode of a series, probing files again",
	Args:  cobra.ExactArgs(1),
	RunE:  runScanSeries,
}

var scanAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Scan the whole library",
	Args:  cobra.NoArgs,
	RunE:  runScanAll,
}

var (
	scanLocal   bool
	scanNoCache bool
	scanWait    bool
)

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.AddCommand(scanEpisodeCmd, scanSeriesCmd, scanAllCmd)

	scanCmd.PersistentFlags().BoolVar(&scanLocal, "local", false, "Scan in this process instead of on the server")
	scanEpisodeCmd.Flags().BoolVar(&scanNoCache, "no-cache", false, "Probe the video file even when a cached result exists")
	scanAllCmd.Flags().BoolVar(&scanNoCache, "no-cache", false, "Probe video files even when cached results exist")
	scanAllCmd.Flags().BoolVar(&scanWait, "wait", false, "Wait for a server-side scan to finish")
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid ID: %s", s)
	}
	return id, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runScanEpisode(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if !scanLocal {
		resp, err := NewClient(serverURL).ScanEpisode(id, !scanNoCache)
		if err != nil {
			return fmt.Errorf("scan episode: %w", err)
		}
		if jsonOutput {
			return printJSON(out, resp)
		}
		printEpisodeSubtitles(out, resp)
		return nil
	}

	app, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	ctx, cancel := signalContext()
	defer cancel()
	if err := app.Indexer.ScanEpisode(ctx, id, !scanNoCache); err != nil {
		return fmt.Errorf("scan episode: %w", err)
	}

	resp, err := localEpisodeSubtitles(app.Store, id)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(out, resp)
	}
	printEpisodeSubtitles(out, resp)
	return nil
}

func runScanSeries(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	var report *ScanReportResponse
	if scanLocal {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer func() { _ = app.Close() }()

		ctx, cancel := signalContext()
		defer cancel()
		r, err := app.Indexer.ScanSeries(ctx, id)
		if err != nil {
			return fmt.Errorf("scan series: %w", err)
		}
		report = reportResponse(id, r)
	} else {
		report, err = NewClient(serverURL).ScanSeries(id)
		if err != nil {
			return fmt.Errorf("scan series: %w", err)
		}
	}

	if jsonOutput {
		return printJSON(out, report)
	}
	printReport(out, report)
	return nil
}

func runScanAll(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if scanLocal {
		return runScanAllLocal(cmd.ErrOrStderr(), out)
	}

	client := NewClient(serverURL)
	started, err := client.StartScan()
	if err != nil {
		return fmt.Errorf("start scan: %w", err)
	}
	if !scanWait {
		if jsonOutput {
			return printJSON(out, started)
		}
		fmt.Fprintf(out, "Full scan started (job %s)\n", started.JobID)
		return nil
	}

	job, err := waitForJob(client, started.JobID, cmd.ErrOrStderr(), time.Second)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(out, job)
	}
	fmt.Fprintf(out, "%s: %s, %d episodes, %d failed\n", job.Name, job.Status, job.Total, job.Failed)
	if job.Error != "" {
		return fmt.Errorf("scan failed: %s", job.Error)
	}
	return nil
}

// waitForJob polls a job until it leaves the running state, printing
// progress lines to progress.
func waitForJob(client *Client, jobID string, progress io.Writer, interval time.Duration) (*JobResponse, error) {
	last := ""
	for {
		job, err := client.Job(jobID)
		if err != nil {
			return nil, fmt.Errorf("fetch job: %w", err)
		}
		if job.Status != "running" {
			return job, nil
		}
		if line := fmt.Sprintf("[%d/%d] %s", job.Current, job.Total, job.Message); line != last {
			fmt.Fprintln(progress, line)
			last = line
		}
		time.Sleep(interval)
	}
}

func runScanAllLocal(progress, out io.Writer) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	ch := app.Bus.Subscribe(events.EventScanProgressed, 256)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range ch {
			if p, ok := e.(*events.ScanProgressed); ok {
				fmt.Fprintf(progress, "[%d/%d] %s\n", p.Current, p.Total, p.Message)
			}
		}
	}()

	ctx, cancel := signalContext()
	defer cancel()
	report, err := app.Runner.FullScan(ctx)
	app.Bus.Unsubscribe(ch)
	<-done
	if err != nil {
		return err
	}

	resp := reportResponse(0, report)
	if jsonOutput {
		return printJSON(out, resp)
	}
	printReport(out, resp)
	return nil
}

func reportResponse(seriesID int64, r *indexer.ScanReport) *ScanReportResponse {
	return &ScanReportResponse{
		SeriesID:    seriesID,
		Total:       r.Total,
		Scanned:     r.Scanned,
		Unavailable: r.Unavailable,
		Failed:      r.Failed,
	}
}

func printReport(w io.Writer, r *ScanReportResponse) {
	fmt.Fprintf(w, "Scanned %d of %d episodes", r.Scanned, r.Total)
	if r.Unavailable > 0 {
		fmt.Fprintf(w, ", %d files unavailable", r.Unavailable)
	}
	if r.Failed > 0 {
		fmt.Fprintf(w, ", %d failed", r.Failed)
	}
	fmt.Fprintln(w)
}

// localEpisodeSubtitles builds the API view of an episode from the store.
func localEpisodeSubtitles(store *library.Store, id int64) (*EpisodeSubtitlesResponse, error) {
	ep, err := store.GetEpisode(id)
	if err != nil {
		return nil, fmt.Errorf("get episode: %w", err)
	}
	missing, err := library.ParseMissing(ep.MissingSubtitles)
	if err != nil {
		return nil, err
	}
	subs, err := store.ListSubtitles(library.SubtitleFilter{EpisodeID: &id})
	if err != nil {
		return nil, err
	}

	resp := &EpisodeSubtitlesResponse{
		EpisodeID: ep.ID,
		SeriesID:  ep.SeriesID,
		Season:    ep.Season,
		Episode:   ep.Episode,
		Title:     ep.Title,
		Missing:   missing,
	}
	for _, sub := range subs {
		sr := SubtitleResponse{ID: sub.ID, Language: sub.Language, Forced: sub.Forced, HI: sub.HI, Size: sub.Size}
		switch loc := sub.Location.(type) {
		case library.EmbeddedTrack:
			sr.Source = "embedded"
			trackID := loc.TrackID
			sr.TrackID = &trackID
		case library.ExternalFile:
			sr.Source = "external"
			sr.Path = loc.Path
		default:
			sr.Source = "legacy"
		}
		resp.Subtitles = append(resp.Subtitles, sr)
	}
	return resp, nil
}
