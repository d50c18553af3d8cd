package services

import (
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

var richPolicy = bluemonday.UGCPolicy()

// SanitizeText returns plain text as typed, trimmed, with invalid UTF-8 and
// control characters other than newlines and tabs removed. Views escape it.
func SanitizeText(s string) string {
	s = strings.ToValidUTF8(s, "")
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

// SanitizeRichText keeps basic formatting tags (timeline descriptions)
func SanitizeRichText(s string) string {
	return strings.TrimSpace(richPolicy.Sanitize(s))
}
