package wiktionary

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/wordwise/internal/domain"
	"github.com/heartmarshall/wordwise/internal/progress"
)

func TestExtractFile_English(t *testing.T) {
	entries, stats, err := ExtractFile(filepath.Join("testdata", "sample_en.jsonl"), Options{
		Profile: mustProfile(t, "en"),
	})
	require.NoError(t, err)

	assert.Equal(t, Stats{
		TotalLines:      10,
		MalformedLines:  1,
		MissingFields:   1,
		RejectedRecords: 3,
		AcceptedRecords: 5,
		DroppedSenses:   3,
		DroppedOfSenses: 1,
		Entries:         4,
		EnabledEntries:  3,
		PrunedForms:     1,
	}, stats)

	require.Len(t, entries, 4)

	cat := entries[0]
	assert.Equal(t, "cat", cat.Headword)
	assert.True(t, cat.Enabled)
	assert.Equal(t, "a small domesticated carnivorous mammal", cat.ShortGloss)
	assert.Equal(t, "A small domesticated carnivorous mammal (Felis catus).", cat.FullGloss)
	assert.Nil(t, cat.Example)
	assert.True(t, cat.Pronunciation.IsAbsent())

	run := entries[1]
	assert.Equal(t, "run", run.Headword)
	assert.True(t, run.Enabled)
	assert.Equal(t, "to move swiftly on foot", run.ShortGloss)
	require.NotNil(t, run.Example)
	assert.Equal(t, "She runs every morning.", *run.Example)
	assert.Equal(t, []string{"ran", "runs"}, run.Forms)
	us, _ := run.Pronunciation.Label("US")
	uk, _ := run.Pronunciation.Label("UK")
	assert.Equal(t, "/ɹʌn/", us)
	assert.Equal(t, "/ɹʌn/", uk)

	runNoun := entries[2]
	assert.Equal(t, "run", runNoun.Headword)
	assert.False(t, runNoun.Enabled)
	assert.Equal(t, "an act of running", runNoun.ShortGloss)

	running := entries[3]
	assert.Equal(t, "running", running.Headword)
	assert.True(t, running.Enabled)
}

func TestExtractFile_Chinese(t *testing.T) {
	entries, stats, err := ExtractFile(filepath.Join("testdata", "sample_zh.jsonl"), Options{
		Profile: mustProfile(t, "zh"),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, stats.RejectedRecords)
	require.Len(t, entries, 2)

	assert.Equal(t, "可爱", entries[0].Headword)
	assert.Equal(t, "cute", entries[0].ShortGloss)
	assert.Equal(t, []string{"可愛"}, entries[0].Forms)

	assert.Equal(t, "猫咪", entries[1].Headword)
	pinyin, ok := entries[1].Pronunciation.Label("Pinyin")
	assert.True(t, ok)
	assert.Equal(t, "māomī", pinyin)
}

func TestExtractFile_AllowList(t *testing.T) {
	entries, stats, err := ExtractFile(filepath.Join("testdata", "sample_en.jsonl"), Options{
		Profile:   mustProfile(t, "en"),
		AllowList: map[string]bool{"cat": true},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.EnabledEntries)
	assert.Equal(t, 3, stats.DemotedEntries)
	for _, e := range entries {
		assert.Equal(t, e.Headword == "cat", e.Enabled, e.Headword)
	}
}

func TestExtractFile_Missing(t *testing.T) {
	_, _, err := ExtractFile(filepath.Join(t.TempDir(), "nope.jsonl"), Options{Profile: mustProfile(t, "en")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDumpUnavailable))
}

func TestExtract_LongLineAndNoTrailingNewline(t *testing.T) {
	long := strings.Repeat("x", 3*readBufferSize)
	input := `{"word": "long", "pos": "noun", "senses": [{"glosses": ["A long one."], "examples": [{"text": "` + long + `"}]}]}` + "\n" +
		`{"word": "last", "pos": "adj", "senses": [{"glosses": ["Final."]}]}`

	entries, stats, err := Extract(strings.NewReader(input), 0, Options{Profile: mustProfile(t, "en")})
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalLines)
	assert.Zero(t, stats.MalformedLines)
	require.Len(t, entries, 2)
	assert.Equal(t, "last", entries[0].Headword)
	require.NotNil(t, entries[1].Example)
	assert.Len(t, *entries[1].Example, len(long))
}

func TestExtract_ReportsProgress(t *testing.T) {
	input := `{"word": "cat", "pos": "noun", "senses": [{"glosses": ["A feline."]}]}` + "\n"
	n := progress.New(16)

	_, _, err := Extract(strings.NewReader(input), int64(len(input)), Options{
		Profile:  mustProfile(t, "en"),
		Notifier: n,
	})
	require.NoError(t, err)
	n.Close()

	var events []progress.Event
	for ev := range n.Events() {
		events = append(events, ev)
	}
	require.NotEmpty(t, events)
	assert.Equal(t, 0.0, events[0].Fraction)
	assert.Equal(t, 1.0, events[len(events)-1].Fraction)
	assert.Equal(t, "Extracting Wiktionary file", events[0].Message)
}

func TestExtract_SurroundingWhitespaceRejected(t *testing.T) {
	input := `{"word": " cat", "pos": "noun", "senses": [{"glosses": ["A feline."]}]}` + "\n" +
		`{"word": "dog ", "pos": "noun", "senses": [{"glosses": ["A canine."]}]}` + "\n" +
		`{"word": "bird", "pos": "noun", "senses": [{"glosses": ["A flier."]}]}` + "\n"

	entries, stats, err := Extract(strings.NewReader(input), 0, Options{Profile: mustProfile(t, "en")})
	require.NoError(t, err)

	assert.Equal(t, 2, stats.RejectedRecords)
	assert.Equal(t, 1, stats.AcceptedRecords)
	require.Len(t, entries, 1)
	assert.Equal(t, "bird", entries[0].Headword)
}
