package wiktionary

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/heartmarshall/wordwise/internal/domain"
)

// Deduplicator turns filtered records into lexicon entries so that every
// headword has at most one enabled entry. It owns the set of claimed
// (enabled) headwords for one extraction run.
type Deduplicator struct {
	profile domain.LanguageProfile
	allow   map[string]bool
	claimed map[string]struct{}
	entries []domain.LexiconEntry

	demoted int
	pruned  int
}

// NewDeduplicator creates a Deduplicator. A nil allow map means no
// allow-list; a non-nil one restricts enabled entries to its keys.
func NewDeduplicator(profile domain.LanguageProfile, allow map[string]bool) *Deduplicator {
	return &Deduplicator{
		profile: profile,
		allow:   allow,
		claimed: make(map[string]struct{}),
	}
}

// Claimed reports whether word already has an enabled entry.
func (d *Deduplicator) Claimed(word string) bool {
	_, ok := d.claimed[word]
	return ok
}

// Add records the surviving senses of one record and returns the number of
// entries emitted. The first sense carries the enabled flag when the word is
// not yet claimed and passes the allow-list; a record without senses claims
// nothing.
func (d *Deduplicator) Add(word string, forms []string, senses []candidateSense, pron domain.Pronunciation) int {
	if len(senses) == 0 {
		return 0
	}

	enabled := !d.Claimed(word)
	if enabled && d.allow != nil && !d.allow[word] {
		enabled = false
		d.demoted++
	}
	if enabled {
		d.claimed[word] = struct{}{}
	}

	kept := d.keepForms(word, forms)
	for i, s := range senses {
		d.entries = append(d.entries, domain.LexiconEntry{
			Enabled:       enabled && i == 0,
			Headword:      word,
			ShortGloss:    s.shortGloss,
			FullGloss:     s.fullGloss,
			Example:       s.example,
			Forms:         slices.Clone(kept),
			Pronunciation: pron,
		})
	}
	return len(senses)
}

// keepForms drops empty, too short, comma-bearing, self-referencing and
// already claimed spellings, and returns the rest sorted and unique.
func (d *Deduplicator) keepForms(word string, forms []string) []string {
	var kept []string
	for _, f := range forms {
		if f == "" || f == word || strings.Contains(f, ",") {
			continue
		}
		if utf8.RuneCountInString(f) < d.profile.MinLength || d.Claimed(f) {
			continue
		}
		kept = append(kept, f)
	}
	slices.Sort(kept)
	return slices.Compact(kept)
}

// Finish removes from every entry the forms that became enabled headwords
// later in the run, sorts the entries by headword and returns them.
// The Deduplicator must not be used afterwards.
func (d *Deduplicator) Finish() []domain.LexiconEntry {
	for i := range d.entries {
		forms := d.entries[i].Forms
		n := len(forms)
		forms = slices.DeleteFunc(forms, d.Claimed)
		d.pruned += n - len(forms)
		if len(forms) == 0 {
			forms = nil
		}
		d.entries[i].Forms = forms
	}

	slices.SortStableFunc(d.entries, func(a, b domain.LexiconEntry) int {
		return strings.Compare(a.Headword, b.Headword)
	})

	entries := d.entries
	d.entries = nil
	return entries
}

// Demoted returns how many candidates the allow-list kept disabled.
func (d *Deduplicator) Demoted() int { return d.demoted }

// Pruned returns how many forms Finish removed.
func (d *Deduplicator) Pruned() int { return d.pruned }
