package sidecar

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var textExtensions = []string{".srt", ".ass", ".ssa", ".vtt", ".sub", ".txt", ".smi", ".mpl"}

var (
	// hiRegex matches sound descriptions: text between music or asterisk
	// markers, or inside brackets.
	hiRegex = regexp.MustCompile(`[*¶♫♪].{3,}?[*¶♫♪]|[\[\(\{].{3,}?[\]\)\}]`)

	// markupRegex matches HTML-style tags and ASS override blocks like {\an8}.
	markupRegex = regexp.MustCompile(`<[^>]*>|\{\\[^}]*\}`)

	skipLineRegex = regexp.MustCompile(`-->|^\d+$|^WEBVTT`)
)

// GuessUnknown refines candidates from Search. Files in exclude are known
// unchanged and keep their stored guess. Untagged text files up to 1 MiB
// are identified from their content; non-forced text files up to 5 MiB get
// the HI flag when they contain sound descriptions. Candidates whose
// language stays unknown map to nil.
func (s *Searcher) GuessUnknown(ctx context.Context, candidates map[string]*Guess, exclude map[string]Guess) map[string]*Guess {
	out := make(map[string]*Guess, len(candidates))
	for path, guess := range candidates {
		if ctx.Err() != nil {
			out[path] = guess
			continue
		}
		if known, ok := exclude[path]; ok {
			g := known
			out[path] = &g
			continue
		}
		out[path] = s.refine(path, guess)
	}
	return out
}

func (s *Searcher) refine(path string, guess *Guess) *Guess {
	ext := strings.ToLower(filepath.Ext(path))
	isText := false
	for _, e := range textExtensions {
		if e == ext {
			isText = true
			break
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		s.logger.Debug("cannot stat subtitle", "path", path, "error", err)
		return guess
	}

	var text string
	readText := func(limit int64) bool {
		if text != "" {
			return true
		}
		if !isText || info.Size() > limit {
			return false
		}
		data, err := os.ReadFile(path)
		if err != nil {
			s.logger.Debug("cannot read subtitle", "path", path, "error", err)
			return false
		}
		text = decodeText(data)
		return true
	}

	if guess == nil || guess.Language == "" {
		if !readText(s.maxDetectSize) {
			return nil
		}
		code := detectLanguage(text)
		if code == "" {
			s.logger.Debug("could not detect subtitle language", "path", path)
			return nil
		}
		forced := strings.HasSuffix(strings.ToLower(stemOf(path)), ".forced")
		guess = &Guess{Language: code, Forced: forced}
		s.logger.Debug("detected subtitle language", "path", path, "language", code)
	}

	if guess.Language == Undetermined || guess.Forced || guess.HI {
		return guess
	}
	if readText(s.maxHISize) && hasHIMarkers(text) {
		g := *guess
		g.HI = true
		return &g
	}
	return guess
}

// decodeText decodes subtitle bytes honouring a BOM, falling back to
// Windows-1252 for input that is not valid UTF-8.
func decodeText(data []byte) string {
	var fallback transform.Transformer = unicode.UTF8.NewDecoder()
	if !utf8.Valid(data) {
		fallback = charmap.Windows1252.NewDecoder()
	}
	out, _, err := transform.Bytes(unicode.BOMOverride(fallback), data)
	if err != nil {
		return string(data)
	}
	return string(out)
}

// dialogue strips numbering, timestamps and markup, keeping spoken text.
// For ASS/SSA input only the text field of Dialogue lines is kept.
func dialogue(text string) string {
	ass := strings.Contains(text, "[Script Info]") || strings.Contains(text, "\nDialogue:")
	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if ass {
			if !strings.HasPrefix(line, "Dialogue:") {
				continue
			}
			fields := strings.SplitN(line, ",", 10)
			if len(fields) < 10 {
				continue
			}
			line = strings.ReplaceAll(fields[9], `\N`, " ")
		} else if line == "" || skipLineRegex.MatchString(line) {
			continue
		}
		line = markupRegex.ReplaceAllString(line, "")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// detectLanguage returns the two-letter code of the text's language, or ""
// when detection is not reliable.
func detectLanguage(text string) string {
	info := whatlanggo.Detect(dialogue(text))
	if !info.IsReliable() {
		return ""
	}
	return info.Lang.Iso6391()
}

func hasHIMarkers(text string) bool {
	return hiRegex.MatchString(dialogue(text))
}
