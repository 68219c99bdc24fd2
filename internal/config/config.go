// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Server          ServerConfig     `toml:"server"`
	Database        DatabaseConfig   `toml:"database"`
	General         GeneralConfig    `toml:"general"`
	Scan            ScanConfig       `toml:"scan"`
	FFprobe         FFprobeConfig    `toml:"ffprobe"`
	Events          EventsConfig     `toml:"events"`
	PathMappings    []PathMapping    `toml:"path_mappings"`
	CustomLanguages []CustomLanguage `toml:"custom_languages"`
}

type ServerConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	LogLevel string `toml:"log_level"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

// GeneralConfig holds the indexing behaviour.
type GeneralConfig struct {
	UseEmbeddedSubs  bool     `toml:"use_embedded_subs"`
	IgnorePGSSubs    bool     `toml:"ignore_pgs_subs"`
	IgnoreVobSubSubs bool     `toml:"ignore_vobsub_subs"`
	IgnoreASSSubs    bool     `toml:"ignore_ass_subs"`
	SingleLanguage   bool     `toml:"single_language"`
	Languages        []string `toml:"languages"`
	Subfolder        string   `toml:"subfolder"`
	SubfolderCustom  string   `toml:"subfolder_custom"`
}

type ScanConfig struct {
	Concurrency     int    `toml:"concurrency"`
	UseFFprobeCache bool   `toml:"use_ffprobe_cache"`
	Schedule        string `toml:"schedule"` // cron expression, empty disables
	LockFile        string `toml:"lock_file"`
}

type FFprobeConfig struct {
	Path     string        `toml:"path"`
	CacheTTL time.Duration `toml:"cache_ttl"`
}

type EventsConfig struct {
	Retention time.Duration `toml:"retention"`
}

// PathMapping translates paths stored in the database to paths on this host.
type PathMapping struct {
	Stored string `toml:"stored"`
	Local  string `toml:"local"`
}

// CustomLanguage declares an extra locale variant indexed under its own code.
type CustomLanguage struct {
	Alpha2         string   `toml:"alpha2"`
	Alpha3         string   `toml:"alpha3"`
	Name           string   `toml:"name"`
	OfficialAlpha3 []string `toml:"official_alpha3"`
	TitleKeywords  []string `toml:"title_keywords"`
	FileSuffixes   []string `toml:"file_suffixes"`
}

// Load reads, parses and validates the configuration file. Unresolved
// environment variables and validation failures are returned together as a
// *ConfigError.
func Load(path string) (*Config, error) {
	cfg, missing, err := load(path)
	if err != nil {
		return nil, err
	}

	cfgErr := &ConfigError{Path: path, Missing: missing, Errors: cfg.Validate()}
	if cfgErr.HasErrors() {
		return nil, cfgErr
	}
	return cfg, nil
}

// LoadWithoutValidation reads and parses the configuration file, leaving
// unresolved variables in place and skipping validation.
func LoadWithoutValidation(path string) (*Config, error) {
	cfg, _, err := load(path)
	return cfg, err
}

func load(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))

	cfg := Defaults()
	md, err := toml.Decode(content, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, nil, fmt.Errorf("parsing config: unknown keys: %s", strings.Join(keys, ", "))
	}
	cfg.applyDefaults()
	return cfg, missing, nil
}

// Defaults returns the configuration used for keys absent from the file.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:     "0.0.0.0",
			Port:     6868,
			LogLevel: "info",
		},
		Database: DatabaseConfig{Path: "./data/subarr.db"},
		General: GeneralConfig{
			UseEmbeddedSubs: true,
			Subfolder:       "current",
		},
		Scan: ScanConfig{
			Concurrency:     1,
			UseFFprobeCache: true,
			Schedule:        "0 4 * * *",
			LockFile:        "./data/scan.lock",
		},
		FFprobe: FFprobeConfig{
			Path:     "ffprobe",
			CacheTTL: 30 * 24 * time.Hour,
		},
		Events: EventsConfig{Retention: 30 * 24 * time.Hour},
	}
}

// applyDefaults fills values that were explicitly set to their zero value.
func (c *Config) applyDefaults() {
	d := Defaults()
	if c.Server.Host == "" {
		c.Server.Host = d.Server.Host
	}
	if c.Server.Port == 0 {
		c.Server.Port = d.Server.Port
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = d.Server.LogLevel
	}
	if c.Database.Path == "" {
		c.Database.Path = d.Database.Path
	}
	if c.General.Subfolder == "" {
		c.General.Subfolder = d.General.Subfolder
	}
	if c.Scan.Concurrency == 0 {
		c.Scan.Concurrency = d.Scan.Concurrency
	}
	if c.FFprobe.Path == "" {
		c.FFprobe.Path = d.FFprobe.Path
	}
}

// envVarPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?:(:-|:\?)([^}]*))?\}`)

// substituteEnvVars replaces environment variable references. Unset
// variables without a default are left in place and reported in missing;
// for ${VAR:?message} the report is "VAR: message". With :- and :? an
// empty value counts as unset. Comment lines are copied unchanged.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	lines := strings.SplitAfter(content, "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		var m []string
		lines[i], m = substituteLine(line)
		missing = append(missing, m...)
	}
	return strings.Join(lines, ""), missing
}

func substituteLine(line string) (string, []string) {
	var missing []string
	out := envVarPattern.ReplaceAllStringFunc(line, func(match string) string {
		m := envVarPattern.FindStringSubmatch(match)
		name, op, arg := m[1], m[2], m[3]
		value, ok := os.LookupEnv(name)

		switch op {
		case ":-":
			if !ok || value == "" {
				return arg
			}
			return value
		case ":?":
			if !ok || value == "" {
				missing = append(missing, name+": "+arg)
				return match
			}
			return value
		default:
			if !ok {
				missing = append(missing, name)
				return match
			}
			return value
		}
	})
	return out, missing
}
