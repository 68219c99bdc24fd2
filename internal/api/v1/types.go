// internal/api/v1/types.go
package v1

import (
	"encoding/json"

	"github.com/vmunix/subarr/internal/jobs"
)

// subtitleResponse is the API representation of an indexed subtitle.
type subtitleResponse struct {
	ID       int64  `json:"id"`
	Language string `json:"language"`
	Forced   bool   `json:"forced"`
	HI       bool   `json:"hi"`
	Source   string `json:"source"` // embedded, external or legacy
	TrackID  *int64 `json:"track_id,omitempty"`
	Path     string `json:"path,omitempty"`
	Size     int64  `json:"size,omitempty"`
}

// episodeSubtitlesResponse is the response for GET /episodes/{id}/subtitles.
type episodeSubtitlesResponse struct {
	EpisodeID int64              `json:"episode_id"`
	SeriesID  int64              `json:"series_id"`
	Season    int                `json:"season"`
	Episode   int                `json:"episode"`
	Title     string             `json:"title"`
	Missing   []string           `json:"missing"`
	Subtitles []subtitleResponse `json:"subtitles"`
}

// seriesResponse is the API representation of a series.
type seriesResponse struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Path      string `json:"path"`
	ProfileID *int64 `json:"profile_id,omitempty"`
}

// listSeriesResponse is the response for GET /series.
type listSeriesResponse struct {
	Items  []seriesResponse `json:"items"`
	Total  int              `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

// scanReportResponse is the response for POST /series/{id}/scan.
type scanReportResponse struct {
	SeriesID    int64 `json:"series_id"`
	Total       int   `json:"total"`
	Scanned     int   `json:"scanned"`
	Unavailable int   `json:"unavailable"`
	Failed      int   `json:"failed"`
}

// scanStartedResponse is the response for POST /scan.
type scanStartedResponse struct {
	JobID string `json:"job_id"`
}

// listJobsResponse is the response for GET /jobs.
type listJobsResponse struct {
	Items []jobs.Job `json:"items"`
}

// profileItemResponse is one language rule of a profile.
type profileItemResponse struct {
	ID               int    `json:"id"`
	Language         string `json:"language"`
	Forced           bool   `json:"forced"`
	HI               bool   `json:"hi"`
	AudioExclude     bool   `json:"audio_exclude"`
	AudioOnlyInclude bool   `json:"audio_only_include"`
}

// profileResponse is the API representation of a language profile.
type profileResponse struct {
	ID     int64                 `json:"id"`
	Name   string                `json:"name"`
	Cutoff *int                  `json:"cutoff,omitempty"`
	Items  []profileItemResponse `json:"items"`
}

// EventResponse is the API representation of a persisted event.
type EventResponse struct {
	ID         int64           `json:"id"`
	EventType  string          `json:"event_type"`
	EntityType string          `json:"entity_type"`
	EntityID   int64           `json:"entity_id"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	OccurredAt string          `json:"occurred_at"`
}

// listEventsResponse is the response for GET /events.
type listEventsResponse struct {
	Items  []EventResponse `json:"items"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}
