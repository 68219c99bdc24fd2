package language

import "strings"

// Tag is a subtitle language with its forced and hearing-impaired flags.
type Tag struct {
	Language string
	Forced   bool
	HI       bool
}

// ParseTag parses "en", "en:forced" or "en:hi". Unknown suffixes are dropped.
func ParseTag(s string) Tag {
	lang, flag, _ := strings.Cut(strings.TrimSpace(s), ":")
	return Tag{
		Language: lang,
		Forced:   flag == "forced",
		HI:       flag == "hi",
	}
}

// String renders the tag. Forced wins over hi when both are set.
func (t Tag) String() string {
	switch {
	case t.Forced:
		return t.Language + ":forced"
	case t.HI:
		return t.Language + ":hi"
	default:
		return t.Language
	}
}
