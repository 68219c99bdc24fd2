package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Show scan jobs",
	Args:  cobra.NoArgs,
	RunE:  runJobsCmd,
}

func init() {
	rootCmd.AddCommand(jobsCmd)
}

func runJobsCmd(cmd *cobra.Command, args []string) error {
	jobs, err := NewClient(serverURL).Jobs()
	if err != nil {
		return fmt.Errorf("failed to fetch jobs: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, jobs)
	}
	if len(jobs.Items) == 0 {
		fmt.Fprintln(out, "No jobs")
		return nil
	}

	rows := make([][]string, len(jobs.Items))
	for i, j := range jobs.Items {
		progress := fmt.Sprintf("%d/%d", j.Current, j.Total)
		detail := j.Message
		if j.Error != "" {
			detail = j.Error
		}
		rows[i] = []string{formatTimeAgo(j.StartedAt), j.Name, j.Status, progress, detail}
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Started", "Name", "Status", "Progress", "Detail"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
	))
	return nil
}
