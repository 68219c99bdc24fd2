package sidecar

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fuzzyThreshold is the minimum Jaro-Winkler similarity for a subtitle in a
// destination folder to be attributed to a video whose name differs.
const fuzzyThreshold = 0.92

var numberRegex = regexp.MustCompile(`\d+`)

// matchesStem reports whether a subtitle stem belongs to the video stem:
// equal, or the video stem followed by a separator.
func matchesStem(stem, videoStem string) bool {
	stem = strings.ToLower(stem)
	videoStem = strings.ToLower(videoStem)
	if stem == videoStem {
		return true
	}
	if !strings.HasPrefix(stem, videoStem) || len(stem) <= len(videoStem) {
		return false
	}
	switch stem[len(videoStem)] {
	case '.', '_', '-', ' ':
		return true
	default:
		return false
	}
}

// fuzzyMatch compares a subtitle base name (language tokens removed) with the
// video stem. Numbers must agree exactly so neighbouring episodes never match.
func fuzzyMatch(base, videoStem string) bool {
	a, b := normalizeName(base), normalizeName(videoStem)
	if a == "" || b == "" {
		return false
	}
	if strings.Join(numberRegex.FindAllString(a, -1), ",") != strings.Join(numberRegex.FindAllString(b, -1), ",") {
		return false
	}
	return float64(edlib.JaroWinklerSimilarity(a, b)) >= fuzzyThreshold
}

// normalizeName lowercases, strips accents and turns separators into spaces.
func normalizeName(s string) string {
	s = strings.ToLower(s)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, _ = transform.String(t, s)

	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
