// internal/events/subtitle.go
package events

// Event types.
const (
	EventEpisodeUpdated       = "episode.updated"
	EventEpisodeWantedUpdated = "episode.wanted.updated"
	EventBadgesUpdated        = "badges.updated"
	EventSubtitlesIndexed     = "subtitles.indexed"
	EventScanStarted          = "scan.started"
	EventScanProgressed       = "scan.progressed"
	EventScanCompleted        = "scan.completed"
)

// Entity types.
const (
	EntityEpisode = "episode"
	EntitySeries  = "series"
	EntityLibrary = "library"
	EntityJob     = "job"
)

// EpisodeUpdated is emitted after an episode's missing subtitles were recomputed.
type EpisodeUpdated struct {
	BaseEvent
	EpisodeID int64    `json:"episode_id"`
	SeriesID  int64    `json:"series_id"`
	Missing   []string `json:"missing"`
}

// EpisodeWantedUpdated is emitted alongside EpisodeUpdated so wanted-list
// views can refresh the episode.
type EpisodeWantedUpdated struct {
	BaseEvent
	EpisodeID int64 `json:"episode_id"`
	Wanted    bool  `json:"wanted"`
}

// BadgesUpdated is emitted once per evaluation batch; wanted counters may
// have changed.
type BadgesUpdated struct {
	BaseEvent
	Episodes int `json:"episodes"`
}

// SubtitlesIndexed is emitted after an episode's subtitle rows were reconciled.
type SubtitlesIndexed struct {
	BaseEvent
	EpisodeID int64 `json:"episode_id"`
	Embedded  int   `json:"embedded"`
	External  int   `json:"external"`
	Removed   int   `json:"removed"`
}

// ScanStarted is emitted when a tracked scan job begins.
type ScanStarted struct {
	BaseEvent
	JobID string `json:"job_id"`
	Name  string `json:"name"`
}

// ScanProgressed reports progress of a tracked scan job.
type ScanProgressed struct {
	BaseEvent
	JobID   string `json:"job_id"`
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Message string `json:"message"`
}

// ScanCompleted is emitted when a tracked scan job finishes.
type ScanCompleted struct {
	BaseEvent
	JobID  string `json:"job_id"`
	Name   string `json:"name"`
	Total  int    `json:"total"`
	Failed int    `json:"failed"`
	Error  string `json:"error,omitempty"`
}
