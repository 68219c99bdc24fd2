package library

// SeriesFilter specifies criteria for listing series.
type SeriesFilter struct {
	ProfileID *int64
	Title     *string
	Limit     int // 0 = no limit
	Offset    int
}

// EpisodeFilter specifies criteria for listing episodes.
type EpisodeFilter struct {
	SeriesID *int64
	Season   *int
	Limit    int
	Offset   int
}

// SubtitleFilter specifies criteria for listing subtitles.
type SubtitleFilter struct {
	EpisodeID *int64
	SeriesID  *int64
	Language  *string
}
