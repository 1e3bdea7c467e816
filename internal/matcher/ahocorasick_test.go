package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/wordwise/internal/domain"
)

func TestAhoCorasick_CatKitty(t *testing.T) {
	m := NewAhoCorasick()
	p1 := payload("cat")
	m.Insert("猫", p1)
	m.Insert("猫咪", p1)
	m.Finalize()

	text := "我的猫咪很可爱"
	got := m.Scan(text)

	assert.Equal(t, []string{"猫", "猫咪"}, spans(t, text, got))
	for _, g := range got {
		assert.Equal(t, p1, g.Payload)
		assert.NotEqual(t, "咪", text[g.Start:g.End])
	}
	assert.Equal(t, 6, got[1].Start)
	assert.Equal(t, 12, got[1].End)
}

func TestAhoCorasick_Overlapping(t *testing.T) {
	m := NewAhoCorasick()
	for _, p := range []string{"he", "she", "his", "hers"} {
		m.Insert(p, payload(p))
	}
	m.Finalize()

	text := "ushers"
	got := m.Scan(text)

	var pairs [][2]int
	for _, g := range got {
		pairs = append(pairs, [2]int{g.Start, g.End})
	}
	assert.Equal(t, []string{"she", "he", "hers"}, spans(t, text, got))
	assert.Equal(t, [][2]int{{1, 4}, {2, 4}, {2, 6}}, pairs)
}

func TestAhoCorasick_RepeatedAndNested(t *testing.T) {
	m := NewAhoCorasick()
	for _, p := range []string{"可爱", "爱", "可爱的"} {
		m.Insert(p, payload(p))
	}
	m.Finalize()

	text := "可爱可爱的"
	assert.Equal(t, []string{"可爱", "爱", "可爱", "爱", "可爱的"}, spans(t, text, m.Scan(text)))
}

func TestAhoCorasick_FailureChain(t *testing.T) {
	m := NewAhoCorasick()
	for _, p := range []string{"abcd", "bce", "c"} {
		m.Insert(p, payload(p))
	}
	m.Finalize()

	text := "abce"
	assert.Equal(t, []string{"c", "bce"}, spans(t, text, m.Scan(text)))
}

func TestAhoCorasick_CaseSensitive(t *testing.T) {
	m := NewAhoCorasick()
	m.Insert("OK", payload("ok"))
	m.Finalize()

	assert.Empty(t, m.Scan("ok"))
	assert.Len(t, m.Scan("OK"), 1)
}

func TestAhoCorasick_InvalidUTF8ResetsState(t *testing.T) {
	m := NewAhoCorasick()
	m.Insert("ab", payload("ab"))
	m.Finalize()

	assert.Empty(t, m.Scan("a\xffb"))
	assert.Len(t, m.Scan("\xffab"), 1)
}

func TestAhoCorasick_InvalidUTF8PatternIgnored(t *testing.T) {
	m := NewAhoCorasick()
	assert.False(t, m.Insert("a\xffb", payload("bad")))
	assert.True(t, m.Insert("ab", payload("ab")))
	m.Finalize()

	assert.Equal(t, 1, m.Len())
	assert.False(t, m.Contains("a\xffb"))
	assert.Empty(t, m.Scan("a\uFFFDb"))

	text := "xab"
	got := m.Scan(text)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Start)
	assert.Equal(t, 3, got[0].End)
}

func TestAhoCorasick_Completeness(t *testing.T) {
	patterns := []string{"猫", "猫咪", "咪咪", "小猫", "日本語", "本", "ねこ", "고양이"}
	m := NewAhoCorasick()
	for _, p := range patterns {
		require.True(t, m.Insert(p, payload(p)))
	}
	require.False(t, m.Insert("猫", payload("again")))
	m.Finalize()

	for _, p := range patterns {
		text := "前" + p + "后"
		found := false
		for _, g := range m.Scan(text) {
			if g.Pattern == p {
				found = true
				assert.Equal(t, p, g.Payload.ShortGloss)
				assert.Equal(t, p, text[g.Start:g.End])
			}
		}
		assert.True(t, found, "pattern %q not found", p)
	}
}

func TestAhoCorasick_Lifecycle(t *testing.T) {
	m := NewAhoCorasick()
	assert.Equal(t, domain.StrategyUnsegmented, m.Strategy())
	assert.Panics(t, func() { m.Scan("x") })
	m.Finalize()
	assert.Panics(t, func() { m.Insert("y", payload("y")) })
}

func TestNew(t *testing.T) {
	seg, err := New(domain.StrategySegmented)
	require.NoError(t, err)
	assert.IsType(t, &KeywordMatcher{}, seg)

	uns, err := New(domain.StrategyUnsegmented)
	require.NoError(t, err)
	assert.IsType(t, &AhoCorasick{}, uns)

	_, err = New(domain.MatchStrategy(0))
	assert.Error(t, err)
}
