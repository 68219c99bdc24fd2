// internal/config/validate_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_Defaults(t *testing.T) {
	assert.Empty(t, Defaults().Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"log level", func(c *Config) { c.Server.LogLevel = "verbose" }, "server.log_level"},
		{"subfolder", func(c *Config) { c.General.Subfolder = "elsewhere" }, "general.subfolder"},
		{"absolute without folder", func(c *Config) { c.General.Subfolder = "absolute" }, "general.subfolder_custom"},
		{"language code", func(c *Config) { c.General.Languages = []string{"eng"} }, "general.languages[0]"},
		{"concurrency", func(c *Config) { c.Scan.Concurrency = -1 }, "scan.concurrency"},
		{"schedule", func(c *Config) { c.Scan.Schedule = "every day" }, "scan.schedule"},
		{"cache ttl", func(c *Config) { c.FFprobe.CacheTTL = -1 }, "ffprobe.cache_ttl"},
		{"path mapping", func(c *Config) { c.PathMappings = []PathMapping{{Stored: "/tv"}} }, "path_mappings[0]"},
		{"custom alpha2", func(c *Config) {
			c.CustomLanguages = []CustomLanguage{{Alpha2: "xyz", Name: "X"}}
		}, "custom_languages[0].alpha2"},
		{"custom name", func(c *Config) {
			c.CustomLanguages = []CustomLanguage{{Alpha2: "xx"}}
		}, "custom_languages[0].name"},
		{"custom duplicate", func(c *Config) {
			c.CustomLanguages = []CustomLanguage{{Alpha2: "xx", Name: "X"}, {Alpha2: "XX", Name: "Y"}}
		}, "custom_languages[1].alpha2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.modify(cfg)
			errs := cfg.Validate()
			if assert.Len(t, errs, 1, "errors: %v", errs) {
				assert.Contains(t, errs[0], tt.want)
			}
		})
	}
}

func TestValidate_EmptyScheduleDisables(t *testing.T) {
	cfg := Defaults()
	cfg.Scan.Schedule = ""
	assert.Empty(t, cfg.Validate())
}
