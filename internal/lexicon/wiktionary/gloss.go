package wiktionary

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var parenAsideRe = regexp.MustCompile(`\([^)]+\)`)

// Shorten derives the compact label shown next to a matched word from a
// full gloss:
//   - lowercases the first character only
//   - strips one trailing period
//   - removes parenthesized asides
//   - keeps the text before the first comma or semicolon
//   - trims surrounding whitespace
//
// The steps are repeated until the result is stable, so
// Shorten(Shorten(s)) == Shorten(s).
func Shorten(gloss string) string {
	for {
		next := shortenOnce(gloss)
		if next == gloss {
			return next
		}
		gloss = next
	}
}

func shortenOnce(s string) string {
	if s == "" {
		return ""
	}

	if r, size := utf8.DecodeRuneInString(s); r != utf8.RuneError {
		if lower := unicode.ToLower(r); lower != r {
			s = string(lower) + s[size:]
		}
	}

	s = strings.TrimSuffix(s, ".")
	s = parenAsideRe.ReplaceAllString(s, "")
	if i := strings.IndexAny(s, ";,"); i >= 0 {
		s = s[:i]
	}

	return strings.TrimSpace(s)
}
