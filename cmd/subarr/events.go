package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show recent events",
	Args:  cobra.NoArgs,
	RunE:  runEventsCmd,
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
}

func runEventsCmd(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	client := NewClient(serverURL)
	events, err := client.Events(limit)
	if err != nil {
		return fmt.Errorf("failed to fetch events: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, events)
	}
	if len(events.Items) == 0 {
		fmt.Fprintln(out, "No events")
		return nil
	}

	rows := make([][]string, len(events.Items))
	for i, e := range events.Items {
		ago := e.OccurredAt
		if t, err := time.Parse(time.RFC3339, e.OccurredAt); err == nil {
			ago = formatTimeAgo(t)
		}
		rows[i] = []string{ago, e.EventType, fmt.Sprintf("%s/%d", e.EntityType, e.EntityID)}
	}
	fmt.Fprintf(out, "Recent Events (%d of %d):\n\n", len(events.Items), events.Total)
	fmt.Fprintln(out, renderTable([]string{"Time", "Type", "Entity"}, rows, nil))
	return nil
}
