// Package library manages series, episodes, language profiles, and the
// subtitle records indexed for each episode.
package library

import (
	"time"
)

// CutoffAny is the profile cutoff sentinel meaning "any profile item satisfies the cutoff".
const CutoffAny = 65535

// Series represents a show. Its profile decides which subtitles are wanted.
type Series struct {
	ID        int64
	Title     string
	Path      string
	ProfileID *int64 // nil when no language profile is assigned
	AddedAt   time.Time
	UpdatedAt time.Time
}

// Episode represents a single episode file of a series.
type Episode struct {
	ID       int64
	SeriesID int64
	Season   int
	Episode  int
	Title    string
	Path     string // as stored; map through pathmap before touching disk
	FileSize int64
	FileID   int64 // identity of the container file, keys the probe cache

	// AudioLanguages holds the audio track languages as names or codes.
	AudioLanguages []string

	// MissingSubtitles is the derived missing-language list in its
	// persisted text form. See EncodeMissing.
	MissingSubtitles string
}

// EpisodeSummary is the minimal view of an episode needed to drive a scan.
type EpisodeSummary struct {
	ID           int64
	SeriesID     int64
	SeriesTitle  string
	Season       int
	Episode      int
	EpisodeTitle string
}

// Location identifies where a subtitle lives. It is either an EmbeddedTrack
// or an ExternalFile; no other implementations exist.
type Location interface {
	location()
}

// EmbeddedTrack is a subtitle stream multiplexed inside the video container.
type EmbeddedTrack struct {
	TrackID int64
}

// ExternalFile is a subtitle stored as its own file, path as stored.
type ExternalFile struct {
	Path string
}

func (EmbeddedTrack) location() {}
func (ExternalFile) location()  {}

// Subtitle is one indexed subtitle of an episode.
type Subtitle struct {
	ID        int64
	EpisodeID int64
	SeriesID  int64
	Language  string
	Forced    bool
	HI        bool
	Location  Location // nil only for legacy rows that carry neither a track nor a path
	Size      int64
}

// Path returns the stored path of an external subtitle, or "".
func (s *Subtitle) Path() string {
	if f, ok := s.Location.(ExternalFile); ok {
		return f.Path
	}
	return ""
}

// IsExternal reports whether the subtitle is backed by its own file.
func (s *Subtitle) IsExternal() bool {
	_, ok := s.Location.(ExternalFile)
	return ok
}

// IsLegacy reports whether the row predates track tracking.
func (s *Subtitle) IsLegacy() bool {
	return s.Location == nil
}

// ProfileItem is one desired-language rule of a profile.
type ProfileItem struct {
	ID               int // unique within the profile, referenced by Profile.Cutoff
	Language         string
	Forced           bool
	HI               bool
	AudioExclude     bool // drop the rule when an audio track already has this language
	AudioOnlyInclude bool // keep the rule only when an audio track has this language
}

// Profile is a named, ordered set of desired subtitle languages.
type Profile struct {
	ID     int64
	Name   string
	Cutoff *int // item ID, CutoffAny, or nil for no cutoff
	Items  []ProfileItem
}
