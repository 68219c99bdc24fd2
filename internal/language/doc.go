// Package language resolves subtitle and audio language codes to the
// two-letter codes subtitles are indexed under.
//
// Key types:
//   - Tag: a language with forced/hi flags, rendered as "en", "en:forced" or "en:hi"
//   - Custom: a locale variant (Brazilian Portuguese, Traditional Chinese, ...)
//     indexed under its own synthetic two-letter code
//   - Table: alpha-3 to alpha-2 mapping, audio-language resolution and the
//     custom-language override rules
package language
