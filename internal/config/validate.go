// internal/config/validate.go
package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

var validSubfolders = map[string]bool{
	"current": true, "relative": true, "absolute": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	// Server validation
	if c.Server.Port != 0 && (c.Server.Port < 1 || c.Server.Port > 65535) {
		errs = append(errs, fmt.Sprintf("server.port: must be between 1 and 65535, got %d", c.Server.Port))
	}
	if !validLogLevels[c.Server.LogLevel] {
		errs = append(errs, fmt.Sprintf("server.log_level: must be one of debug, info, warn, error; got %q", c.Server.LogLevel))
	}

	// General validation
	if !validSubfolders[c.General.Subfolder] {
		errs = append(errs, fmt.Sprintf("general.subfolder: must be one of current, relative, absolute; got %q", c.General.Subfolder))
	}
	if c.General.Subfolder == "absolute" && c.General.SubfolderCustom == "" {
		errs = append(errs, "general.subfolder_custom: required when subfolder is absolute")
	}
	for i, lang := range c.General.Languages {
		if len(lang) != 2 {
			errs = append(errs, fmt.Sprintf("general.languages[%d]: must be a two-letter code, got %q", i, lang))
		}
	}

	// Scan validation
	if c.Scan.Concurrency < 0 {
		errs = append(errs, fmt.Sprintf("scan.concurrency: must be positive, got %d", c.Scan.Concurrency))
	}
	if c.Scan.Schedule != "" {
		if _, err := cron.ParseStandard(c.Scan.Schedule); err != nil {
			errs = append(errs, fmt.Sprintf("scan.schedule: %v", err))
		}
	}

	if c.FFprobe.CacheTTL < 0 {
		errs = append(errs, "ffprobe.cache_ttl: must not be negative")
	}

	for i, m := range c.PathMappings {
		if m.Stored == "" || m.Local == "" {
			errs = append(errs, fmt.Sprintf("path_mappings[%d]: stored and local are required", i))
		}
	}

	seen := map[string]bool{}
	for i, l := range c.CustomLanguages {
		if len(l.Alpha2) != 2 {
			errs = append(errs, fmt.Sprintf("custom_languages[%d].alpha2: must be two letters, got %q", i, l.Alpha2))
		}
		if l.Name == "" {
			errs = append(errs, fmt.Sprintf("custom_languages[%d].name: required", i))
		}
		key := strings.ToLower(l.Alpha2)
		if seen[key] {
			errs = append(errs, fmt.Sprintf("custom_languages[%d].alpha2: %q declared twice", i, l.Alpha2))
		}
		seen[key] = true
	}

	return errs
}
