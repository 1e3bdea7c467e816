// Package lexicon holds the extracted lexicon and its JSON store format.
//
// The store is a single JSON array of 7-element rows:
//
//	[enabled, headword, short_gloss, full_gloss, example|null, "form1,form2", pronunciation]
//
// Rows are sorted by headword and forms are sorted before joining, so
// writing a store that was just read reproduces the same bytes.
package lexicon

import (
	"slices"
	"strings"

	"github.com/heartmarshall/wordwise/internal/domain"
)

// Store is an immutable, headword-sorted collection of lexicon entries.
type Store struct {
	entries []domain.LexiconEntry
}

// NewStore copies entries and sorts them by headword, keeping the relative
// order of entries that share a headword.
func NewStore(entries []domain.LexiconEntry) *Store {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, compareHeadword)
	return &Store{entries: sorted}
}

func compareHeadword(a, b domain.LexiconEntry) int {
	return strings.Compare(a.Headword, b.Headword)
}

// Len returns the number of entries.
func (s *Store) Len() int { return len(s.entries) }

// Entries returns the entries in store order. Callers must not modify them.
func (s *Store) Entries() []domain.LexiconEntry { return s.entries }

// Enabled returns the enabled entries in store order.
func (s *Store) Enabled() []domain.LexiconEntry {
	var out []domain.LexiconEntry
	for _, e := range s.entries {
		if e.Enabled {
			out = append(out, e)
		}
	}
	return out
}

// Lookup returns every entry of headword in store order.
func (s *Store) Lookup(headword string) []domain.LexiconEntry {
	i, found := slices.BinarySearchFunc(s.entries, headword, func(e domain.LexiconEntry, h string) int {
		return strings.Compare(e.Headword, h)
	})
	if !found {
		return nil
	}
	j := i
	for j < len(s.entries) && s.entries[j].Headword == headword {
		j++
	}
	return s.entries[i:j]
}

// Summary describes the contents of a store.
type Summary struct {
	Entries           int `yaml:"entries"`
	Headwords         int `yaml:"headwords"`
	Enabled           int `yaml:"enabled"`
	Forms             int `yaml:"forms"`
	WithExample       int `yaml:"with_example"`
	WithPronunciation int `yaml:"with_pronunciation"`
	// Problems lists violated store rules; empty for a consistent store.
	Problems []string `yaml:"problems,omitempty"`
}

// Summarize counts the store contents and checks the rules every store
// written by the extractor satisfies.
func (s *Store) Summarize(minLength int) Summary {
	var sum Summary
	sum.Entries = len(s.entries)

	enabledBy := make(map[string]int)
	for i, e := range s.entries {
		if i == 0 || s.entries[i-1].Headword != e.Headword {
			sum.Headwords++
		}
		if e.Enabled {
			sum.Enabled++
			enabledBy[e.Headword]++
		}
		if e.Example != nil {
			sum.WithExample++
		}
		if !e.Pronunciation.IsAbsent() {
			sum.WithPronunciation++
		}
		if e.Enabled {
			sum.Forms += len(e.Forms)
		}
	}

	for _, e := range s.entries {
		if n := enabledBy[e.Headword]; n > 1 && e.Enabled {
			sum.Problems = append(sum.Problems, "headword "+e.Headword+" has more than one enabled entry")
			enabledBy[e.Headword] = 1
		}
		for _, f := range e.Forms {
			switch {
			case enabledBy[f] > 0:
				sum.Problems = append(sum.Problems, "form "+f+" of "+e.Headword+" is an enabled headword")
			case f == e.Headword:
				sum.Problems = append(sum.Problems, "form "+f+" repeats its headword")
			case len([]rune(f)) < minLength:
				sum.Problems = append(sum.Problems, "form "+f+" of "+e.Headword+" is too short")
			}
		}
	}

	return sum
}
