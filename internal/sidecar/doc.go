// Package sidecar finds external subtitle files next to a video (or in a
// configured destination folder) and guesses their language.
//
// Language comes from filename tokens ("Show.S01E01.en.hi.srt") where
// present. Files without one are identified from their content with
// whatlanggo, and hearing-impaired markers in the text set the HI flag.
package sidecar
