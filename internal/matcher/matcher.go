// Package matcher compiles lexicon entries into a multi-pattern automaton
// and scans text with it.
//
// Two strategies share one contract. KeywordMatcher matches whole
// keywords at token boundaries, case-insensitively, for space-delimited
// scripts. AhoCorasick reports every occurrence, overlapping ones included,
// for scripts written without spaces.
package matcher

import (
	"fmt"

	"github.com/heartmarshall/wordwise/internal/domain"
)

// Payload is the annotation attached to a pattern.
type Payload struct {
	ShortGloss    string
	FullGloss     string
	Example       *string
	Pronunciation domain.Pronunciation
}

// PayloadOf returns the payload of a lexicon entry.
func PayloadOf(e domain.LexiconEntry) Payload {
	return Payload{
		ShortGloss:    e.ShortGloss,
		FullGloss:     e.FullGloss,
		Example:       e.Example,
		Pronunciation: e.Pronunciation,
	}
}

func (p Payload) equal(o Payload) bool {
	if p.ShortGloss != o.ShortGloss || p.FullGloss != o.FullGloss {
		return false
	}
	if (p.Example == nil) != (o.Example == nil) {
		return false
	}
	if p.Example != nil && *p.Example != *o.Example {
		return false
	}
	return p.Pronunciation.Equal(o.Pronunciation)
}

// Match is one pattern occurrence. Start and End are byte offsets into the
// scanned text, End exclusive.
type Match struct {
	Start   int
	End     int
	Pattern string
	Payload Payload
}

// Matcher is a compiled multi-pattern matcher.
//
// Patterns are inserted first; the first insertion of a pattern wins and
// later ones are ignored. Finalize builds the automaton; Insert panics
// afterwards and Scan panics before.
type Matcher interface {
	// Insert adds pattern with its payload and reports whether it was new.
	// Empty patterns and invalid UTF-8 are ignored.
	Insert(pattern string, p Payload) bool
	Contains(pattern string) bool
	Finalize()
	Scan(text string) []Match
	// Len returns the number of distinct patterns.
	Len() int
	Strategy() domain.MatchStrategy
}

// New returns an empty matcher of the given strategy.
func New(strategy domain.MatchStrategy) (Matcher, error) {
	switch strategy {
	case domain.StrategySegmented:
		return NewKeywordMatcher(), nil
	case domain.StrategyUnsegmented:
		return NewAhoCorasick(), nil
	default:
		return nil, fmt.Errorf("matcher: unknown strategy %v", strategy)
	}
}
