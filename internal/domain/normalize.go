package domain

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeHeadword prepares a headword or form for comparison:
//   - trims leading/trailing whitespace
//   - applies Unicode NFC composition
//
// Case is preserved; Wiktionary distinguishes "Polish" from "polish".
func NormalizeHeadword(text string) string {
	return ComposeNFC(strings.TrimSpace(text))
}

// ComposeNFC applies Unicode NFC composition and nothing else. Surrounding
// whitespace is kept so headword checks can still see it.
func ComposeNFC(text string) string {
	if norm.NFC.IsNormalString(text) {
		return text
	}
	return norm.NFC.String(text)
}
