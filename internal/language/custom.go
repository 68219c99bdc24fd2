package language

import (
	"path/filepath"
	"strings"
)

// Custom describes a locale variant indexed under its own code.
type Custom struct {
	Alpha2 string // synthetic code stored on subtitle rows, e.g. "pb"
	Alpha3 string // code used by containers that tag the variant directly, e.g. "pob"
	Name   string // audio-language name, e.g. "Portuguese (Brazil)"

	// OfficialAlpha3 lists the codes of the parent language. An embedded
	// track tagged with one of them is the variant when its title contains
	// one of TitleKeywords.
	OfficialAlpha3 []string
	TitleKeywords  []string

	// FileSuffixes are stem endings identifying an external file, e.g. ".pt-br".
	FileSuffixes []string
}

// DefaultCustom returns the built-in custom languages.
func DefaultCustom() []Custom {
	return []Custom{
		{
			Alpha2:         "pb",
			Alpha3:         "pob",
			Name:           "Portuguese (Brazil)",
			OfficialAlpha3: []string{"por"},
			TitleKeywords:  []string{"brazil", "brasil", "pt-br"},
			FileSuffixes:   []string{".pt-br", ".pob", ".pb"},
		},
		{
			Alpha2:         "zt",
			Alpha3:         "zht",
			Name:           "Chinese Traditional",
			OfficialAlpha3: []string{"zho", "chi"},
			TitleKeywords:  []string{"traditional", "cht", "big5", "繁"},
			FileSuffixes:   []string{".cht", ".tc", ".zh-tw", ".zht", ".zh-hant", ".zhhant", ".zh_hant", ".hant", ".big5", ".traditional"},
		},
		{
			Alpha2:         "ea",
			Alpha3:         "spl",
			Name:           "Spanish (Latino)",
			OfficialAlpha3: []string{"spa"},
			TitleKeywords:  []string{"latin", "latino", "latam", "419"},
			FileSuffixes:   []string{".es-la", ".spa-la", ".spl", ".es-mx", ".ea", ".es-419"},
		},
	}
}

func (c Custom) matchesEmbedded(code3, title string) bool {
	if strings.EqualFold(code3, c.Alpha3) {
		return true
	}
	official := false
	for _, o := range c.OfficialAlpha3 {
		if strings.EqualFold(code3, o) {
			official = true
			break
		}
	}
	if !official {
		return false
	}
	title = strings.ToLower(title)
	for _, kw := range c.TitleKeywords {
		if strings.Contains(title, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

var hiMarkers = []string{".hi", ".sdh", ".cc"}

// splitExternal strips the subtitle extension and the forced/hi marker
// from a file name, returning the remaining lowercased stem.
func splitExternal(name string) (stem string, forced, hi bool) {
	base := strings.ToLower(filepath.Base(name))
	stem = strings.TrimSuffix(base, filepath.Ext(base))
	if strings.HasSuffix(stem, ".forced") {
		return strings.TrimSuffix(stem, ".forced"), true, false
	}
	for _, m := range hiMarkers {
		if strings.HasSuffix(stem, m) {
			return strings.TrimSuffix(stem, m), false, true
		}
	}
	return stem, false, false
}

func (c Custom) matchesExternal(stem string) bool {
	for _, suffix := range c.FileSuffixes {
		if strings.HasSuffix(stem, strings.ToLower(suffix)) {
			return true
		}
	}
	return false
}
