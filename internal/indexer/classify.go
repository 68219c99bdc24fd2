package indexer

import (
	"github.com/vmunix/subarr/internal/language"
	"github.com/vmunix/subarr/internal/probe"
	"github.com/vmunix/subarr/internal/sidecar"
)

// ClassifyEmbedded turns a probed track into the tag it is indexed under.
// It reports false for tracks that are not indexed: an ignored codec, or a
// language that maps to no two-letter code.
func (ix *Indexer) ClassifyEmbedded(tr probe.Track) (language.Tag, bool) {
	if ix.ignoredCodec(tr.Codec) {
		ix.logger.Debug("ignoring embedded track", "track", tr.ID, "codec", tr.Codec)
		return language.Tag{}, false
	}

	if tag, ok := ix.table.CustomEmbedded(tr.Language, tr.Title, tr.Forced, tr.HI); ok {
		return tag, true
	}

	code, ok := ix.table.ToAlpha2(tr.Language)
	if !ok {
		ix.logger.Debug("unknown embedded track language", "track", tr.ID, "language", tr.Language)
		return language.Tag{}, false
	}
	return language.Tag{Language: code, Forced: tr.Forced, HI: tr.HI}, true
}

func (ix *Indexer) ignoredCodec(codec string) bool {
	switch codec {
	case probe.CodecPGS:
		return ix.opts.IgnorePGS
	case probe.CodecVobSub:
		return ix.opts.IgnoreVobSub
	case probe.CodecASS:
		return ix.opts.IgnoreASS
	}
	return false
}

// ClassifyExternal turns a found subtitle file and its language guess into
// the tag it is indexed under. Custom languages are read from the filename
// first. Files with no guess or an undetermined language are not indexed.
func (ix *Indexer) ClassifyExternal(path string, g *sidecar.Guess) (language.Tag, bool) {
	if tag, ok := ix.table.CustomExternal(path); ok {
		return tag, true
	}

	if g == nil || g.Language == "" || g.Language == sidecar.Undetermined {
		ix.logger.Debug("subtitle language undetermined", "path", path)
		return language.Tag{}, false
	}

	code, ok := ix.table.ToAlpha2(g.Language)
	if !ok {
		ix.logger.Debug("unknown subtitle language", "path", path, "language", g.Language)
		return language.Tag{}, false
	}
	return language.Tag{Language: code, Forced: g.Forced, HI: g.HI}, true
}
