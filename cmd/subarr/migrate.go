package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateLegacyCmd = &cobra.Command{
	Use:   "migrate-legacy",
	Short: "Convert the old per-episode subtitles column into subtitle rows (local)",
	Long: `Converts subtitles recorded in the old per-episode list format into
subtitle rows. Entries without a file path become legacy rows which the
next scan of the episode removes.`,
	Args: cobra.NoArgs,
	RunE: runMigrateLegacy,
}

func init() {
	rootCmd.AddCommand(migrateLegacyCmd)
}

func runMigrateLegacy(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	imported, skipped, err := app.Store.ImportLegacySubtitles()
	if err != nil {
		return fmt.Errorf("migrate legacy subtitles: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, map[string]any{"imported": imported, "skipped_episodes": skipped})
	}
	fmt.Fprintf(out, "Imported %d subtitles\n", imported)
	if len(skipped) > 0 {
		fmt.Fprintf(out, "Skipped %d episodes with unreadable values: %v\n", len(skipped), skipped)
	}
	return nil
}
