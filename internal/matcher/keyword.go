package matcher

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/heartmarshall/wordwise/internal/domain"
)

// KeywordMatcher finds whole keywords in space-delimited text.
//
// Matching ignores case (runes are folded one by one with unicode.ToLower,
// so byte offsets always refer to the original text). A match starts and
// ends on a token boundary; at each start the longest keyword wins, and
// matches never overlap.
type KeywordMatcher struct {
	core
}

// NewKeywordMatcher returns an empty KeywordMatcher.
func NewKeywordMatcher() *KeywordMatcher {
	return &KeywordMatcher{core: newCore(foldCase)}
}

func foldCase(s string) string {
	return strings.Map(unicode.ToLower, s)
}

// isWordRune reports whether r belongs to a token.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

func (m *KeywordMatcher) Insert(pattern string, p Payload) bool { return m.insert(pattern, p) }

func (m *KeywordMatcher) Contains(pattern string) bool { return m.contains(pattern) }

func (m *KeywordMatcher) Len() int { return len(m.patterns) }

func (m *KeywordMatcher) Strategy() domain.MatchStrategy { return domain.StrategySegmented }

// Finalize builds the keyword trie. Calling it again is a no-op.
func (m *KeywordMatcher) Finalize() {
	if m.finalized {
		return
	}
	m.buildTrie()
	m.finalized = true
}

// Scan returns the keyword matches in text from left to right.
func (m *KeywordMatcher) Scan(text string) []Match {
	if !m.finalized {
		panic("matcher: Scan before Finalize")
	}

	var out []Match
	inWord := false
	for i := 0; i < len(text); {
		r, w := utf8.DecodeRuneInString(text[i:])
		word := isWordRune(r)

		if !inWord || !word {
			if end, pattern := m.longestAt(text, i); pattern != noPattern {
				out = append(out, m.match(i, end, pattern))
				last, _ := utf8.DecodeLastRuneInString(text[:end])
				inWord = isWordRune(last)
				i = end
				continue
			}
		}

		inWord = word
		i += w
	}
	return out
}

// longestAt walks the trie from byte offset start and returns the end of the
// longest keyword that stops on a token boundary.
func (m *KeywordMatcher) longestAt(text string, start int) (int, int32) {
	bestEnd, best := start, int32(noPattern)
	node := int32(0)

	for j := start; j < len(text); {
		r, w := utf8.DecodeRuneInString(text[j:])
		if r == utf8.RuneError && w == 1 {
			break
		}
		node = m.child(node, unicode.ToLower(r))
		if node < 0 {
			break
		}
		j += w

		if p := m.nodes[node].Pattern; p != noPattern && endsToken(text, j, r) {
			bestEnd, best = j, p
		}
	}
	return bestEnd, best
}

// endsToken reports whether a match whose last rune is last may end at
// byte offset end.
func endsToken(text string, end int, last rune) bool {
	if end == len(text) || !isWordRune(last) {
		return true
	}
	next, _ := utf8.DecodeRuneInString(text[end:])
	return !isWordRune(next)
}
