package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/subarr/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configTestCmd = &cobra.Command{
	Use:   "test [path]",
	Short: "Validate configuration file",
	Long:  "Validates config syntax, field values, and environment variable substitution without starting the server.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigTest,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show which config file local commands use",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configTestCmd, configPathCmd)
}

func runConfigTest(cmd *cobra.Command, args []string) error {
	path := configPath
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		found, err := config.Discover()
		if err != nil {
			return err
		}
		path = found
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Validating %s...\n\n", path)

	cfg, err := config.Load(path)
	if err != nil {
		var configErr *config.ConfigError
		if errors.As(err, &configErr) {
			printConfigErrors(out, configErr)
			return fmt.Errorf("configuration invalid")
		}
		return fmt.Errorf("failed to load config: %w", err)
	}

	printConfigSummary(out, cfg)
	fmt.Fprintln(out, "\nConfiguration valid!")
	return nil
}

func printConfigErrors(w io.Writer, e *config.ConfigError) {
	if len(e.Missing) > 0 {
		fmt.Fprintln(w, "Missing environment variables:")
		for _, m := range e.Missing {
			fmt.Fprintf(w, "  - %s\n", m)
		}
		fmt.Fprintln(w)
	}

	if len(e.Errors) > 0 {
		fmt.Fprintln(w, "Validation errors:")
		for _, err := range e.Errors {
			fmt.Fprintf(w, "  - %s\n", err)
		}
		fmt.Fprintln(w)
	}
}

func printConfigSummary(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Configuration Summary:")
	fmt.Fprintf(w, "  Server:     %s:%d (log: %s)\n", cfg.Server.Host, cfg.Server.Port, cfg.Server.LogLevel)
	fmt.Fprintf(w, "  Database:   %s\n", cfg.Database.Path)

	fmt.Fprintf(w, "  Embedded:   %t", cfg.General.UseEmbeddedSubs)
	var ignored []string
	if cfg.General.IgnorePGSSubs {
		ignored = append(ignored, "pgs")
	}
	if cfg.General.IgnoreVobSubSubs {
		ignored = append(ignored, "vobsub")
	}
	if cfg.General.IgnoreASSSubs {
		ignored = append(ignored, "ass")
	}
	if len(ignored) > 0 {
		fmt.Fprintf(w, " (ignoring %s)", strings.Join(ignored, ", "))
	}
	fmt.Fprintln(w)

	if len(cfg.General.Languages) > 0 {
		fmt.Fprintf(w, "  Languages:  %s\n", strings.Join(cfg.General.Languages, ", "))
	}
	if cfg.General.Subfolder != "" {
		fmt.Fprintf(w, "  Subfolder:  %s %s\n", cfg.General.Subfolder, cfg.General.SubfolderCustom)
	}

	schedule := cfg.Scan.Schedule
	if schedule == "" {
		schedule = "disabled"
	}
	fmt.Fprintf(w, "  Scan:       %s, %d workers, cache %t\n", schedule, cfg.Scan.Concurrency, cfg.Scan.UseFFprobeCache)
	fmt.Fprintf(w, "  ffprobe:    %s\n", cfg.FFprobe.Path)

	if len(cfg.PathMappings) > 0 {
		fmt.Fprintf(w, "  Mappings:   %d\n", len(cfg.PathMappings))
	}
	if len(cfg.CustomLanguages) > 0 {
		codes := make([]string, len(cfg.CustomLanguages))
		for i, l := range cfg.CustomLanguages {
			codes[i] = l.Alpha2
		}
		fmt.Fprintf(w, "  Custom:     %s\n", strings.Join(codes, ", "))
	}
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if configPath != "" {
		fmt.Fprintln(out, configPath)
		return nil
	}
	path, err := config.Discover()
	if err != nil {
		fmt.Fprintln(out, "No config file found. Searched:")
		for _, p := range config.SearchPaths() {
			fmt.Fprintf(out, "  %s\n", p)
		}
		return err
	}
	fmt.Fprintln(out, path)
	return nil
}
