package probe

import (
	"strings"
)

// Codec families used by the ignore rules.
const (
	CodecPGS    = "pgs"
	CodecVobSub = "vobsub"
	CodecASS    = "ass"
)

// Track is one subtitle stream of a container.
type Track struct {
	ID       int64  `json:"id"`
	Language string `json:"language"` // as tagged, usually ISO 639-2
	Title    string `json:"title,omitempty"`
	Forced   bool   `json:"forced"`
	HI       bool   `json:"hi"`
	Codec    string `json:"codec"` // normalized, see NormalizeCodec
}

// NormalizeCodec maps ffprobe codec names to the families used by the
// ignore rules. Other codecs pass through lowercased.
func NormalizeCodec(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "hdmv_pgs_subtitle", "pgssub", "pgs":
		return CodecPGS
	case "dvd_subtitle", "dvdsub", "vobsub":
		return CodecVobSub
	case "ass", "ssa":
		return CodecASS
	default:
		return name
	}
}

var hiTitleMarkers = []string{"sdh", "hearing impaired", "hearing-impaired", "cc"}

// Tracks extracts the subtitle streams of r.
func Tracks(r Result) []Track {
	var tracks []Track
	for _, s := range r.Streams {
		if !strings.EqualFold(s.CodecType, "subtitle") {
			continue
		}
		title := strings.ToLower(s.Tags.Title)
		t := Track{
			ID:       int64(s.Index),
			Language: strings.ToLower(strings.TrimSpace(s.Tags.Language)),
			Title:    s.Tags.Title,
			Forced:   s.Disposition.Forced == 1 || strings.Contains(title, "forced"),
			HI:       s.Disposition.HearingImpaired == 1 || hasWord(title, hiTitleMarkers),
			Codec:    NormalizeCodec(s.CodecName),
		}
		if t.Forced {
			t.HI = false
		}
		tracks = append(tracks, t)
	}
	return tracks
}

// hasWord reports whether any marker appears in s as a whole word.
func hasWord(s string, markers []string) bool {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-')
	})
	joined := " " + strings.Join(words, " ") + " "
	for _, m := range markers {
		if strings.Contains(joined, " "+m+" ") {
			return true
		}
	}
	return false
}
