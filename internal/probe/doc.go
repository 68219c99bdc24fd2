// Package probe lists the subtitle tracks of a video container using
// ffprobe, optionally backed by a SQLite cache keyed by file identity and
// size.
//
// Key types:
//   - Result/Stream: parsed ffprobe output
//   - Track: a subtitle stream with language, flags and normalized codec
//   - Cache: TTL key/value store in the probe_cache table
//   - Prober: Inspect + Tracks + Cache behind one call
package probe
