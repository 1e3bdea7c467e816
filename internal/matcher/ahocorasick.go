package matcher

import (
	"unicode/utf8"

	"github.com/heartmarshall/wordwise/internal/domain"
)

// AhoCorasick finds every occurrence of every pattern, overlapping ones
// included, in one pass over the text. Matching is case-sensitive and
// ignores token boundaries.
type AhoCorasick struct {
	core
}

// NewAhoCorasick returns an empty AhoCorasick matcher.
func NewAhoCorasick() *AhoCorasick {
	return &AhoCorasick{core: newCore(identity)}
}

func identity(s string) string { return s }

func (m *AhoCorasick) Insert(pattern string, p Payload) bool { return m.insert(pattern, p) }

func (m *AhoCorasick) Contains(pattern string) bool { return m.contains(pattern) }

func (m *AhoCorasick) Len() int { return len(m.patterns) }

func (m *AhoCorasick) Strategy() domain.MatchStrategy { return domain.StrategyUnsegmented }

// Finalize builds the trie, failure links and output links. Calling it
// again is a no-op.
func (m *AhoCorasick) Finalize() {
	if m.finalized {
		return
	}
	m.buildTrie()
	m.linkFailures()
	m.finalized = true
}

// Scan returns all matches ordered by end offset; matches sharing an end
// are ordered longest first.
func (m *AhoCorasick) Scan(text string) []Match {
	if !m.finalized {
		panic("matcher: Scan before Finalize")
	}

	var out []Match
	state := int32(0)
	for i := 0; i < len(text); {
		r, w := utf8.DecodeRuneInString(text[i:])
		i += w
		if r == utf8.RuneError && w == 1 {
			state = 0
			continue
		}

		for {
			if next := m.child(state, r); next >= 0 {
				state = next
				break
			}
			if state == 0 {
				break
			}
			state = m.nodes[state].Fail
		}

		for n := state; n > 0; n = m.nodes[n].Output {
			if p := m.nodes[n].Pattern; p != noPattern {
				out = append(out, m.match(i-len(m.patterns[p]), i, p))
			}
		}
	}
	return out
}
