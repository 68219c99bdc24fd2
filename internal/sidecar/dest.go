package sidecar

import "path/filepath"

// Subfolder modes.
const (
	SubfolderCurrent  = "current"
	SubfolderRelative = "relative"
	SubfolderAbsolute = "absolute"
)

// DestFolder returns the folder subtitles are saved to besides the video's
// own, or "" when they are saved next to the video. A relative custom folder
// is resolved against the video's directory.
func DestFolder(videoPath, mode, custom string) string {
	if custom == "" {
		return ""
	}
	switch mode {
	case SubfolderRelative:
		return filepath.Join(filepath.Dir(videoPath), custom)
	case SubfolderAbsolute:
		return filepath.Clean(custom)
	default:
		return ""
	}
}
