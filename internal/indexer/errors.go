package indexer

import "errors"

// ErrFileUnavailable is returned when an episode's video file is not on
// disk. Nothing is changed for the episode.
var ErrFileUnavailable = errors.New("episode file unavailable")
