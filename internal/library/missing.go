package library

import (
	"encoding/json"
	"fmt"
	"strings"
)

// EncodeMissing renders a missing-language list in its persisted form, a
// JSON array of strings. Empty and nil both encode to "[]".
func EncodeMissing(tags []string) string {
	if len(tags) == 0 {
		return "[]"
	}
	b, _ := json.Marshal(tags)
	return string(b)
}

// ParseMissing decodes a persisted missing-language list. Besides the JSON
// form it accepts the older single-quoted list form such as ['en', 'fr:hi'].
// An empty string decodes to an empty list.
func ParseMissing(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []string{}, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(s), &tags); err == nil {
		if tags == nil {
			tags = []string{}
		}
		return tags, nil
	}

	v, err := parseLiteral(s)
	if err != nil {
		return nil, fmt.Errorf("parse missing subtitles %q: %w", s, ErrInvalidMissing)
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("parse missing subtitles %q: %w", s, ErrInvalidMissing)
	}
	tags = make([]string, 0, len(list))
	for _, item := range list {
		str, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("parse missing subtitles %q: %w", s, ErrInvalidMissing)
		}
		tags = append(tags, str)
	}
	return tags, nil
}
