package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/wordwise/internal/domain"
	"github.com/heartmarshall/wordwise/internal/lexicon"
	"github.com/heartmarshall/wordwise/internal/progress"
)

func strPtr(s string) *string { return &s }

func englishStore() *lexicon.Store {
	return lexicon.NewStore([]domain.LexiconEntry{
		{
			Enabled:       true,
			Headword:      "run",
			ShortGloss:    "to move swiftly",
			FullGloss:     "To move swiftly.",
			Example:       strPtr("She runs every day."),
			Forms:         []string{"ran", "running", "runs"},
			Pronunciation: domain.LabeledPronunciation(map[string]string{"US": "/ɹʌn/"}),
		},
		{
			Headword:   "run",
			ShortGloss: "an act of running",
			FullGloss:  "An act of running.",
			Forms:      []string{"runs"},
		},
		{
			Enabled:    true,
			Headword:   "sprint",
			ShortGloss: "to run fast",
			FullGloss:  "To run fast.",
			Forms:      []string{"ran", "sprints"},
		},
		{
			Headword:   "walk",
			ShortGloss: "to move on foot",
			FullGloss:  "To move on foot.",
		},
	})
}

func TestCompile_Segmented(t *testing.T) {
	m, stats, err := Compile(englishStore(), domain.StrategySegmented, nil)
	require.NoError(t, err)

	assert.Equal(t, CompileStats{Entries: 2, Patterns: 6, Forms: 4, Duplicates: 1, Payloads: 2}, stats)
	assert.True(t, m.Contains("running"))
	assert.False(t, m.Contains("walk"), "disabled entries are not compiled")

	got := m.Scan("He ran and sprints")
	require.Len(t, got, 2)
	assert.Equal(t, "to move swiftly", got[0].Payload.ShortGloss, "first insertion of a form wins")
	assert.Equal(t, "to run fast", got[1].Payload.ShortGloss)
	require.NotNil(t, got[0].Payload.Example)
	assert.Equal(t, "She runs every day.", *got[0].Payload.Example)
}

func TestCompile_EveryEnabledPatternFound(t *testing.T) {
	store := englishStore()
	m, _, err := Compile(store, domain.StrategySegmented, nil)
	require.NoError(t, err)

	for _, e := range store.Enabled() {
		for _, p := range append([]string{e.Headword}, e.Forms...) {
			got := m.Scan("x " + p + " y")
			require.Len(t, got, 1, p)
			assert.Equal(t, p, got[0].Pattern)
		}
	}
}

func TestCompile_Unsegmented(t *testing.T) {
	store := lexicon.NewStore([]domain.LexiconEntry{
		{Enabled: true, Headword: "猫", ShortGloss: "cat", FullGloss: "Cat.", Forms: []string{"猫咪"}},
		{Enabled: true, Headword: "可爱", ShortGloss: "cute", FullGloss: "Cute."},
	})

	m, stats, err := Compile(store, domain.StrategyUnsegmented, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Patterns)

	text := "我的猫咪很可爱"
	assert.Equal(t, []string{"猫", "猫咪", "可爱"}, spans(t, text, m.Scan(text)))
}

func TestCompile_IdempotentInsertion(t *testing.T) {
	store := englishStore()
	m, _, err := Compile(store, domain.StrategySegmented, nil)
	require.NoError(t, err)

	m2, _, err := Compile(lexicon.NewStore(append(store.Entries(), store.Entries()...)), domain.StrategySegmented, nil)
	require.NoError(t, err)

	assert.Equal(t, m.Len(), m2.Len())
	text := "run ran running runs sprint sprints"
	assert.Equal(t, m.Scan(text), m2.Scan(text))
}

func TestCompile_ReportsProgress(t *testing.T) {
	n := progress.New(8)
	_, _, err := Compile(englishStore(), domain.StrategySegmented, n)
	require.NoError(t, err)
	n.Close()

	var last progress.Event
	for ev := range n.Events() {
		last = ev
	}
	assert.Equal(t, 1.0, last.Fraction)
	assert.Equal(t, "Converting Wiktionary file", last.Message)
}

func TestCompile_UnknownStrategy(t *testing.T) {
	_, _, err := Compile(englishStore(), domain.MatchStrategy(9), nil)
	assert.Error(t, err)
}
