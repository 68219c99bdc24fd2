package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vmunix/subarr/internal/config"
	"github.com/vmunix/subarr/internal/server"
)

var version = "dev"

var (
	serverURL  string
	configPath string
	jsonOutput bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "subarr",
	Short: "Episode subtitle indexer",
	Long: `subarr - episode subtitle indexer

Indexes the embedded and external subtitles of every episode in the
library and works out which wanted languages are still missing.

Commands talking to the daemon use --server. Commands marked local open
the database from the config file directly.

Run 'subarrd' to start the server daemon.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:6868", "Server URL")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file for local commands (default: discovered)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("subarr {{.Version}}\n")
}

// loadConfig loads the config named by --config, or the discovered one.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		found, err := config.Discover()
		if err != nil {
			return nil, err
		}
		path = found
	}
	return config.Load(path)
}

// openApp builds the local components from the config file. Logs go to
// stderr, warnings only unless --verbose is set.
func openApp() (*server.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	app, err := server.Open(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("open library: %w", err)
	}
	return app, nil
}
