// Package utils provides shared utilities for text, math, and logging.
package utils

import "strings"

// Truncate returns s truncated to maxLen characters, with "..." appended if truncated.
// If maxLen is 0 or negative, returns s unchanged.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// NormalizeQuery lowercases s, strips Arabic diacritics and tatweel, and
// collapses runs of whitespace into single spaces. Lexicon surface forms are
// stored in this normal form, so extraction compares like with like.
func NormalizeQuery(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if isArabicDiacritic(r) || r == tatweel {
			continue
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

const tatweel = 'ـ'

// isArabicDiacritic reports whether r is an Arabic harakah (U+064B..U+0652).
func isArabicDiacritic(r rune) bool {
	return r >= 'ً' && r <= 'ْ'
}
