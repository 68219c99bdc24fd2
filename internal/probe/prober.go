package probe

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// DefaultCacheTTL is used when the prober is created with a zero TTL.
const DefaultCacheTTL = 30 * 24 * time.Hour

type inspectFunc func(ctx context.Context, binary, path string) (Result, error)

// Prober lists subtitle tracks, consulting the cache when asked to.
type Prober struct {
	binary  string
	cache   *Cache
	ttl     time.Duration
	logger  *slog.Logger
	inspect inspectFunc
}

// NewProber creates a prober running binary. cache may be nil.
func NewProber(binary string, cache *Cache, ttl time.Duration, logger *slog.Logger) *Prober {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Prober{
		binary:  binary,
		cache:   cache,
		ttl:     ttl,
		logger:  logger.With("component", "probe"),
		inspect: Inspect,
	}
}

// Probe returns the subtitle tracks of the container at path. With useCache
// a cached result for (fileID, sizeHint) is returned when present. A fresh
// result is always written back to the cache so later cached scans see it.
func (p *Prober) Probe(ctx context.Context, path string, sizeHint, fileID int64, useCache bool) ([]Track, error) {
	cacheable := p.cache != nil && fileID != 0
	key := CacheKey(fileID, sizeHint)

	if useCache && cacheable {
		if data, ok := p.cache.Get(ctx, key); ok {
			var tracks []Track
			if err := json.Unmarshal(data, &tracks); err == nil {
				p.logger.Debug("probe cache hit", "path", path, "key", key)
				return tracks, nil
			}
			p.logger.Warn("discarding unreadable probe cache entry", "key", key)
		}
	}

	result, err := p.inspect(ctx, p.binary, path)
	if err != nil {
		return nil, err
	}
	tracks := Tracks(result)

	if cacheable {
		data, err := json.Marshal(tracks)
		if err == nil {
			err = p.cache.Set(ctx, key, data, p.ttl)
		}
		if err != nil {
			p.logger.Warn("failed to cache probe result", "key", key, "error", err)
		}
	}
	return tracks, nil
}
