package sidecar

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vmunix/subarr/internal/language"
)

// Extensions lists the file extensions treated as subtitles.
var Extensions = []string{
	".srt", ".ass", ".ssa", ".vtt", ".sub", ".idx", ".sup", ".txt", ".smi", ".mpl",
}

// Undetermined is the language of a file explicitly tagged "und".
const Undetermined = "und"

// Guess is what is known about an external subtitle's language.
type Guess struct {
	Language string // two-letter code, or Undetermined
	Forced   bool
	HI       bool
}

// Searcher finds and identifies external subtitles.
type Searcher struct {
	table  *language.Table
	logger *slog.Logger

	maxDetectSize int64
	maxHISize     int64
}

// NewSearcher creates a searcher resolving filename tokens with table.
func NewSearcher(table *language.Table, logger *slog.Logger) *Searcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Searcher{
		table:         table,
		logger:        logger.With("component", "sidecar"),
		maxDetectSize: 1 << 20,
		maxHISize:     5 << 20,
	}
}

// Search lists subtitle files belonging to videoPath in its directory and in
// each of extraDirs. The result maps the local file path to the language
// read from the filename, or nil when the name carries none. With onlyOne
// and a single configured language, untagged files get that language.
func (s *Searcher) Search(ctx context.Context, videoPath string, languages []string, onlyOne bool, extraDirs []string) (map[string]*Guess, error) {
	videoDir := filepath.Dir(videoPath)
	videoStem := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))

	results := make(map[string]*Guess)
	if err := s.searchDir(videoDir, videoStem, false, results); err != nil {
		return nil, fmt.Errorf("search %s: %w", videoDir, err)
	}

	for _, dir := range extraDirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if dir == "" || filepath.Clean(dir) == filepath.Clean(videoDir) {
			continue
		}
		err := s.searchDir(dir, videoStem, true, results)
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("subtitle folder does not exist", "dir", dir)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("search %s: %w", dir, err)
		}
	}

	if onlyOne && len(languages) == 1 {
		for path, g := range results {
			if g == nil {
				forced := strings.HasSuffix(strings.ToLower(stemOf(path)), ".forced")
				results[path] = &Guess{Language: languages[0], Forced: forced}
			}
		}
	}
	return results, nil
}

func (s *Searcher) searchDir(dir, videoStem string, fuzzy bool, results map[string]*Guess) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if !slices.Contains(Extensions, ext) {
			continue
		}
		stem := strings.TrimSuffix(name, filepath.Ext(name))

		var guess *Guess
		switch {
		case matchesStem(stem, videoStem):
			_, guess = s.parseTokens(stem[len(videoStem):])
		case fuzzy:
			base, g := s.parseTokens(stem)
			if !fuzzyMatch(base, videoStem) {
				continue
			}
			guess = g
		default:
			continue
		}
		results[filepath.Join(dir, name)] = guess
	}
	return nil
}

func splitTokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == '.' || r == '_' || r == ' '
	})
}

// parseTokens reads trailing language and flag tokens from s. It returns
// the leading part that is not a language or flag, and the guess, which is
// nil when no language token is present.
func (s *Searcher) parseTokens(str string) (string, *Guess) {
	tokens := splitTokens(str)
	var forced, hi bool
	end := len(tokens)

	if end > 0 {
		switch strings.ToLower(tokens[end-1]) {
		case "forced":
			forced = true
			end--
		case "sdh", "cc":
			hi = true
			end--
		case "hi":
			// ".hi" alone is Hindi; after a language it marks hearing impaired.
			if end > 1 {
				if _, ok := s.tokenLanguage(tokens[end-2]); ok {
					hi = true
					end--
				}
			}
		}
	}

	var guess *Guess
	if end > 0 {
		if code, ok := s.tokenLanguage(tokens[end-1]); ok {
			guess = &Guess{Language: code, Forced: forced, HI: hi}
			end--
		}
	}
	if guess == nil {
		return strings.Join(tokens, " "), nil
	}
	return strings.Join(tokens[:end], " "), guess
}

func (s *Searcher) tokenLanguage(token string) (string, bool) {
	token = strings.ToLower(token)
	if token == Undetermined {
		return Undetermined, true
	}
	// Region variants such as "pt-BR" resolve to their base language here;
	// custom languages are matched separately on the full file name.
	base, _, _ := strings.Cut(token, "-")
	if len(base) < 2 {
		return "", false
	}
	return s.table.Resolve(base)
}

func stemOf(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
