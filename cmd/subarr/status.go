package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the server",
	Args:  cobra.NoArgs,
	RunE:  runStatusCmd,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatusCmd(cmd *cobra.Command, args []string) error {
	status, err := NewClient(serverURL).Status()
	if err != nil {
		return fmt.Errorf("server unreachable: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, status)
	}
	fmt.Fprintf(out, "Server:  %s (%s)\n", serverURL, status.Status)
	if status.DroppedEvents > 0 {
		fmt.Fprintf(out, "Dropped: %d events not delivered to slow subscribers\n", status.DroppedEvents)
	}
	return nil
}
