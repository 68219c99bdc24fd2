package library

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type legacyEpisode struct {
	id       int64
	seriesID int64
	raw      string
}

// ImportLegacySubtitles converts the old per-episode subtitles column, a
// list literal like [['en:hi', '/tv/a.srt', 1234], ['fr', None, None]], into
// subtitle rows and clears the column. Entries without a path become legacy
// rows that the next scan removes. Episodes whose value cannot be parsed are
// skipped and reported in the returned list of episode IDs.
func (s *Store) ImportLegacySubtitles() (imported int, skipped []int64, err error) {
	rows, err := s.db.Query(`
		SELECT id, series_id, subtitles FROM episodes
		WHERE subtitles IS NOT NULL AND subtitles NOT IN ('', '[]')
		ORDER BY id`)
	if err != nil {
		return 0, nil, fmt.Errorf("list legacy subtitles: %w", err)
	}
	var pending []legacyEpisode
	for rows.Next() {
		var le legacyEpisode
		if err := rows.Scan(&le.id, &le.seriesID, &le.raw); err != nil {
			_ = rows.Close()
			return 0, nil, fmt.Errorf("scan legacy subtitles: %w", err)
		}
		pending = append(pending, le)
	}
	err = rows.Err()
	_ = rows.Close()
	if err != nil {
		return 0, nil, fmt.Errorf("iterate legacy subtitles: %w", err)
	}

	err = s.InTx(func(tx *Tx) error {
		for _, le := range pending {
			subs, perr := parseLegacySubtitles(le.id, le.seriesID, le.raw)
			if perr != nil {
				skipped = append(skipped, le.id)
				continue
			}
			for _, sub := range subs {
				if err := insertLegacySubtitle(tx.tx, sub); err != nil {
					return err
				}
				imported++
			}
			if _, err := tx.tx.Exec("UPDATE episodes SET subtitles = NULL WHERE id = ?", le.id); err != nil {
				return fmt.Errorf("clear legacy subtitles of episode %d: %w", le.id, mapSQLiteError(err))
			}
		}
		return nil
	})
	if err != nil {
		return 0, nil, err
	}
	return imported, skipped, nil
}

func insertLegacySubtitle(q querier, sub *Subtitle) error {
	if sub.Location != nil {
		return upsertSubtitle(q, sub)
	}
	_, err := q.Exec(`
		INSERT INTO episode_subtitles (episode_id, series_id, language, forced, hi, size)
		VALUES (?, ?, ?, ?, ?, ?)`,
		sub.EpisodeID, sub.SeriesID, sub.Language, sub.Forced, sub.HI, sub.Size)
	if err != nil {
		return fmt.Errorf("insert legacy subtitle for episode %d: %w", sub.EpisodeID, mapSQLiteError(err))
	}
	return nil
}

func parseLegacySubtitles(episodeID, seriesID int64, raw string) ([]*Subtitle, error) {
	v, err := parseLiteral(raw)
	if err != nil {
		return nil, err
	}
	list, ok := v.([]any)
	if !ok {
		return nil, errors.New("not a list")
	}

	subs := make([]*Subtitle, 0, len(list))
	for _, entry := range list {
		fields, ok := entry.([]any)
		if !ok || len(fields) == 0 {
			return nil, errors.New("malformed entry")
		}
		tag, ok := fields[0].(string)
		if !ok {
			return nil, errors.New("language tag is not a string")
		}
		sub := &Subtitle{EpisodeID: episodeID, SeriesID: seriesID}
		lang, flag, _ := strings.Cut(tag, ":")
		sub.Language = lang
		sub.HI = flag == "hi"
		sub.Forced = flag == "forced"

		if len(fields) > 1 {
			if p, ok := fields[1].(string); ok && p != "" {
				sub.Location = ExternalFile{Path: p}
			}
		}
		if len(fields) > 2 {
			if n, ok := fields[2].(int64); ok {
				sub.Size = n
			}
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

// parseLiteral parses the subset of list literals found in old databases:
// nested lists or tuples of quoted strings, integers, None, True and False.
func parseLiteral(s string) (any, error) {
	p := &literalParser{src: s}
	v, err := p.value()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("trailing input at offset %d", p.pos)
	}
	return v, nil
}

type literalParser struct {
	src string
	pos int
}

func (p *literalParser) skipSpace() {
	for p.pos < len(p.src) && strings.ContainsRune(" \t\r\n", rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *literalParser) value() (any, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return nil, errors.New("unexpected end of input")
	}
	switch c := p.src[p.pos]; {
	case c == '[':
		return p.list(']')
	case c == '(':
		return p.list(')')
	case c == '\'' || c == '"':
		return p.str(c)
	case c == '-' || (c >= '0' && c <= '9'):
		return p.number()
	default:
		return p.keyword()
	}
}

func (p *literalParser) list(end byte) (any, error) {
	p.pos++
	items := []any{}
	for {
		p.skipSpace()
		if p.pos < len(p.src) && p.src[p.pos] == end {
			p.pos++
			return items, nil
		}
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		items = append(items, v)
		p.skipSpace()
		if p.pos >= len(p.src) {
			return nil, errors.New("unterminated list")
		}
		switch p.src[p.pos] {
		case ',':
			p.pos++
		case end:
		default:
			return nil, fmt.Errorf("unexpected %q at offset %d", p.src[p.pos], p.pos)
		}
	}
}

func (p *literalParser) str(quote byte) (any, error) {
	p.pos++
	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == quote:
			p.pos++
			return b.String(), nil
		case c == '\\' && p.pos+1 < len(p.src):
			p.pos++
			switch e := p.src[p.pos]; e {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(e)
			}
		default:
			b.WriteByte(c)
		}
		p.pos++
	}
	return nil, errors.New("unterminated string")
}

func (p *literalParser) number() (any, error) {
	start := p.pos
	if p.src[p.pos] == '-' {
		p.pos++
	}
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	n, err := strconv.ParseInt(p.src[start:p.pos], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse integer: %w", err)
	}
	return n, nil
}

func (p *literalParser) keyword() (any, error) {
	for _, kw := range []struct {
		word string
		val  any
	}{{"None", nil}, {"True", true}, {"False", false}} {
		if strings.HasPrefix(p.src[p.pos:], kw.word) {
			p.pos += len(kw.word)
			return kw.val, nil
		}
	}
	return nil, fmt.Errorf("unexpected input at offset %d", p.pos)
}
