package domain

import (
	"slices"
	"strings"
)

// LexiconEntry is one sense-level lexical fact extracted from the dump.
type LexiconEntry struct {
	Enabled       bool
	Headword      string
	ShortGloss    string
	FullGloss     string
	Example       *string
	Forms         []string
	Pronunciation Pronunciation
}

// JoinedForms returns the sorted forms joined by commas, the store encoding.
func (e LexiconEntry) JoinedForms() string {
	forms := slices.Clone(e.Forms)
	slices.Sort(forms)
	return strings.Join(forms, ",")
}

// SplitForms decodes a comma-joined forms field. Empty parts are dropped.
func SplitForms(joined string) []string {
	if joined == "" {
		return nil
	}
	parts := strings.Split(joined, ",")
	forms := parts[:0]
	for _, f := range parts {
		if f != "" {
			forms = append(forms, f)
		}
	}
	if len(forms) == 0 {
		return nil
	}
	return forms
}

// ExampleText returns the example sentence or "".
func (e LexiconEntry) ExampleText() string {
	if e.Example == nil {
		return ""
	}
	return *e.Example
}
