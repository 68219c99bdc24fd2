package language

import (
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// bibliographic holds ISO 639-2/B codes still found in older containers.
var bibliographic = map[string]string{
	"alb": "sq", "arm": "hy", "baq": "eu", "bur": "my", "chi": "zh",
	"cze": "cs", "dut": "nl", "fre": "fr", "geo": "ka", "ger": "de",
	"gre": "el", "ice": "is", "mac": "mk", "mao": "mi", "may": "ms",
	"per": "fa", "rum": "ro", "slo": "sk", "tib": "bo", "wel": "cy",
}

var (
	namesOnce sync.Once
	byName    map[string]string
)

// englishNames maps lowercased English language names to two-letter codes.
func englishNames() map[string]string {
	namesOnce.Do(func() {
		byName = make(map[string]string, 200)
		namer := display.English.Languages()
		for a := 'a'; a <= 'z'; a++ {
			for b := 'a'; b <= 'z'; b++ {
				code := string([]rune{a, b})
				base, err := language.ParseBase(code)
				if err != nil || base.String() != code {
					continue
				}
				if name := namer.Name(base); name != "" {
					byName[strings.ToLower(name)] = code
				}
			}
		}
	})
	return byName
}

// Table resolves language codes. The zero value has no custom languages.
type Table struct {
	custom []Custom
}

// NewTable returns a table with the given custom languages. Pass
// DefaultCustom() for the built-in set.
func NewTable(custom []Custom) *Table {
	return &Table{custom: custom}
}

// ToAlpha2 maps an ISO 639-2 code (or an already two-letter code) to the
// two-letter code subtitles are indexed under. Custom language codes map to
// their synthetic code. ok is false for codes without a two-letter form.
func (t *Table) ToAlpha2(code string) (string, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" || code == "und" {
		return "", false
	}
	for _, c := range t.custom {
		if code == c.Alpha3 || code == c.Alpha2 {
			return c.Alpha2, true
		}
	}
	if a2, ok := bibliographic[code]; ok {
		return a2, true
	}
	base, err := language.ParseBase(code)
	if err != nil {
		return "", false
	}
	a2 := base.String()
	if len(a2) != 2 {
		return "", false
	}
	return a2, true
}

// Resolve maps a code or English language name, such as "fre", "fr" or
// "French", to a two-letter code.
func (t *Table) Resolve(token string) (string, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	if code, ok := t.customByName(token); ok {
		return code, true
	}
	if code, ok := englishNames()[strings.ToLower(token)]; ok {
		return code, true
	}
	return t.ToAlpha2(token)
}

// AudioCodes resolves audio track languages, given as codes or English
// names such as "English" or "Portuguese (Brazil)", to a set of two-letter
// codes. Unresolvable entries are ignored.
func (t *Table) AudioCodes(audio []string) map[string]struct{} {
	codes := make(map[string]struct{}, len(audio))
	for _, a := range audio {
		if code, ok := t.Resolve(a); ok {
			codes[code] = struct{}{}
		}
	}
	return codes
}

func (t *Table) customByName(name string) (string, bool) {
	for _, c := range t.custom {
		if strings.EqualFold(name, c.Name) {
			return c.Alpha2, true
		}
	}
	return "", false
}

// CustomEmbedded returns the custom-language tag of an embedded track
// tagged code3 with the given title, if any rule matches.
func (t *Table) CustomEmbedded(code3, title string, forced, hi bool) (Tag, bool) {
	for _, c := range t.custom {
		if c.matchesEmbedded(code3, title) {
			return Tag{Language: c.Alpha2, Forced: forced, HI: hi}, true
		}
	}
	return Tag{}, false
}

// CustomExternal returns the custom-language tag of an external subtitle
// file, if its name ends with one of the rule suffixes. A ".forced" or
// ".hi"/".sdh"/".cc" marker before the extension sets the flag.
func (t *Table) CustomExternal(path string) (Tag, bool) {
	stem, forced, hi := splitExternal(path)
	for _, c := range t.custom {
		if c.matchesExternal(stem) {
			return Tag{Language: c.Alpha2, Forced: forced, HI: hi}, true
		}
	}
	return Tag{}, false
}

// Known reports whether code is a two-letter code the table can index,
// including custom codes.
func (t *Table) Known(code string) bool {
	a2, ok := t.ToAlpha2(code)
	return ok && a2 == strings.ToLower(code)
}
