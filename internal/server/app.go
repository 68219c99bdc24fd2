package server

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/vmunix/subarr/internal/config"
	"github.com/vmunix/subarr/internal/events"
	"github.com/vmunix/subarr/internal/indexer"
	"github.com/vmunix/subarr/internal/jobs"
	"github.com/vmunix/subarr/internal/language"
	"github.com/vmunix/subarr/internal/library"
	"github.com/vmunix/subarr/internal/migrations"
	"github.com/vmunix/subarr/internal/pathmap"
	"github.com/vmunix/subarr/internal/policy"
	"github.com/vmunix/subarr/internal/probe"
	"github.com/vmunix/subarr/internal/sidecar"

	_ "modernc.org/sqlite"
)

// App holds the components built from a configuration.
type App struct {
	DB       *sql.DB
	Store    *library.Store
	EventLog *events.EventLog
	Bus      *events.Bus
	Jobs     *jobs.Tracker
	Cache    *probe.Cache
	Indexer  *indexer.Indexer
	Registry *prometheus.Registry
	Runner   *Runner
}

// OpenDB opens the SQLite database at path, creating its directory, and
// applies migrations.
func OpenDB(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// Writers serialize on one connection.
	db.SetMaxOpenConns(1)

	if err := migrations.Apply(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Open builds every component from cfg.
func Open(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := OpenDB(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	// === Stores ===
	store := library.NewStore(db)
	eventLog := events.NewEventLog(db)
	cache := probe.NewCache(db)

	// === Events and jobs ===
	bus := events.NewBus(eventLog, logger)
	tracker := jobs.NewTracker(bus, logger)

	// === Metrics ===
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// === Indexer ===
	table := language.NewTable(CustomLanguages(cfg.CustomLanguages))
	ix := indexer.New(indexer.Deps{
		Store:    store,
		Policies: policy.NewResolver(store, logger),
		Table:    table,
		Prober:   probe.NewProber(cfg.FFprobe.Path, cache, cfg.FFprobe.CacheTTL, logger),
		Searcher: sidecar.NewSearcher(table, logger),
		Paths:    pathmap.New(PathMappings(cfg.PathMappings)),
		Notifier: bus,
		Progress: tracker,
		Metrics:  indexer.NewMetrics(registry),
	}, IndexerOptions(cfg), logger)

	runner := NewRunner(Config{
		Schedule:       cfg.Scan.Schedule,
		LockFile:       cfg.Scan.LockFile,
		UseCache:       cfg.Scan.UseFFprobeCache,
		EventRetention: cfg.Events.Retention,
	}, Deps{
		Scanner: ix,
		Jobs:    tracker,
		Events:  eventLog,
		Cache:   cache,
	}, logger)

	return &App{
		DB:       db,
		Store:    store,
		EventLog: eventLog,
		Bus:      bus,
		Jobs:     tracker,
		Cache:    cache,
		Indexer:  ix,
		Registry: registry,
		Runner:   runner,
	}, nil
}

// Close releases the bus and the database.
func (a *App) Close() error {
	_ = a.Bus.Close()
	return a.DB.Close()
}

// IndexerOptions maps the general and scan settings to indexer options.
func IndexerOptions(cfg *config.Config) indexer.Options {
	return indexer.Options{
		UseEmbedded:     cfg.General.UseEmbeddedSubs,
		IgnorePGS:       cfg.General.IgnorePGSSubs,
		IgnoreVobSub:    cfg.General.IgnoreVobSubSubs,
		IgnoreASS:       cfg.General.IgnoreASSSubs,
		Languages:       cfg.General.Languages,
		SingleLanguage:  cfg.General.SingleLanguage,
		Subfolder:       cfg.General.Subfolder,
		SubfolderCustom: cfg.General.SubfolderCustom,
		Concurrency:     cfg.Scan.Concurrency,
	}
}

// CustomLanguages returns the built-in custom languages with the configured
// ones added. A configured language replaces a built-in one with the same
// code.
func CustomLanguages(extra []config.CustomLanguage) []language.Custom {
	replaced := make(map[string]bool, len(extra))
	for _, l := range extra {
		replaced[strings.ToLower(l.Alpha2)] = true
	}

	var out []language.Custom
	for _, c := range language.DefaultCustom() {
		if !replaced[c.Alpha2] {
			out = append(out, c)
		}
	}
	for _, l := range extra {
		out = append(out, language.Custom{
			Alpha2:         strings.ToLower(l.Alpha2),
			Alpha3:         strings.ToLower(l.Alpha3),
			Name:           l.Name,
			OfficialAlpha3: l.OfficialAlpha3,
			TitleKeywords:  l.TitleKeywords,
			FileSuffixes:   l.FileSuffixes,
		})
	}
	return out
}

// PathMappings converts configured mappings.
func PathMappings(in []config.PathMapping) []pathmap.Mapping {
	out := make([]pathmap.Mapping, len(in))
	for i, m := range in {
		out[i] = pathmap.Mapping{Stored: m.Stored, Local: m.Local}
	}
	return out
}
