package matcher

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/heartmarshall/wordwise/internal/domain"
	"github.com/heartmarshall/wordwise/internal/lexicon"
	"github.com/heartmarshall/wordwise/internal/progress"
)

// CompileStats holds compilation counters.
type CompileStats struct {
	Entries    int
	Patterns   int
	Forms      int
	Duplicates int
	Payloads   int
}

// Compile inserts every enabled entry of the store, headword first and then
// its forms with the same payload, and finalizes the matcher. Patterns that
// are already present keep their first payload.
func Compile(store *lexicon.Store, strategy domain.MatchStrategy, n *progress.Notifier) (Matcher, CompileStats, error) {
	var stats CompileStats

	m, err := New(strategy)
	if err != nil {
		return nil, stats, err
	}

	const message = "Converting Wiktionary file"
	n.Report(0, message)
	sometimes := rate.Sometimes{First: 1, Interval: 500 * time.Millisecond}

	entries := store.Entries()
	for i, e := range entries {
		if !e.Enabled {
			continue
		}
		stats.Entries++

		p := PayloadOf(e)
		if !m.Insert(e.Headword, p) {
			stats.Duplicates++
		}
		for _, f := range e.Forms {
			if m.Insert(f, p) {
				stats.Forms++
			} else {
				stats.Duplicates++
			}
		}

		if n != nil {
			sometimes.Do(func() { n.Report(float64(i+1)/float64(len(entries)), message) })
		}
	}

	m.Finalize()
	stats.Patterns = m.Len()
	stats.Payloads = payloadCount(m)
	n.Report(1, message)

	return m, stats, nil
}

func payloadCount(m Matcher) int {
	switch mm := m.(type) {
	case *KeywordMatcher:
		return len(mm.payloads)
	case *AhoCorasick:
		return len(mm.payloads)
	default:
		return 0
	}
}
