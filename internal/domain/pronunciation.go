package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// PronunciationKind discriminates the Pronunciation variants.
type PronunciationKind uint8

const (
	PronunciationAbsent PronunciationKind = iota
	PronunciationSingle
	PronunciationLabeled
)

func (k PronunciationKind) String() string {
	switch k {
	case PronunciationAbsent:
		return "absent"
	case PronunciationSingle:
		return "single"
	case PronunciationLabeled:
		return "labeled"
	default:
		return fmt.Sprintf("PronunciationKind(%d)", uint8(k))
	}
}

// Pronunciation is either absent, a single phonetic string, or a mapping of
// variant label (e.g. "US", "Pinyin") to phonetic string.
// The zero value is absent.
type Pronunciation struct {
	kind   PronunciationKind
	single string
	labels map[string]string
}

// NoPronunciation returns the absent variant.
func NoPronunciation() Pronunciation { return Pronunciation{} }

// SinglePronunciation returns the single-string variant. An empty string
// yields the absent variant.
func SinglePronunciation(s string) Pronunciation {
	if s == "" {
		return Pronunciation{}
	}
	return Pronunciation{kind: PronunciationSingle, single: s}
}

// LabeledPronunciation returns the labeled variant. The map is copied;
// an empty map yields the absent variant.
func LabeledPronunciation(labels map[string]string) Pronunciation {
	if len(labels) == 0 {
		return Pronunciation{}
	}
	return Pronunciation{kind: PronunciationLabeled, labels: maps.Clone(labels)}
}

func (p Pronunciation) Kind() PronunciationKind { return p.kind }

func (p Pronunciation) IsAbsent() bool { return p.kind == PronunciationAbsent }

// Single returns the phonetic string of the single variant.
func (p Pronunciation) Single() (string, bool) {
	return p.single, p.kind == PronunciationSingle
}

// Label returns the phonetic string stored under label.
func (p Pronunciation) Label(label string) (string, bool) {
	v, ok := p.labels[label]
	return v, ok
}

// Labels returns the sorted variant labels of the labeled variant.
func (p Pronunciation) Labels() []string {
	return slices.Sorted(maps.Keys(p.labels))
}

// Equal reports whether both values hold the same variant and data.
func (p Pronunciation) Equal(o Pronunciation) bool {
	return p.kind == o.kind && p.single == o.single && maps.Equal(p.labels, o.labels)
}

// String renders the pronunciation for display: "" when absent, the raw
// string when single, "label: value" pairs in label order when labeled.
func (p Pronunciation) String() string {
	switch p.kind {
	case PronunciationSingle:
		return p.single
	case PronunciationLabeled:
		parts := make([]string, 0, len(p.labels))
		for _, l := range p.Labels() {
			parts = append(parts, l+": "+p.labels[l])
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}

// MarshalJSON encodes absent as "", single as a JSON string and labeled as a
// JSON object.
func (p Pronunciation) MarshalJSON() ([]byte, error) {
	switch p.kind {
	case PronunciationSingle:
		return json.Marshal(p.single)
	case PronunciationLabeled:
		return json.Marshal(p.labels)
	default:
		return []byte(`""`), nil
	}
}

func (p *Pronunciation) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*p = NoPronunciation()
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = SinglePronunciation(s)
	case len(data) > 0 && data[0] == '{':
		var m map[string]string
		if err := json.Unmarshal(data, &m); err != nil {
			return err
		}
		*p = LabeledPronunciation(m)
	default:
		return fmt.Errorf("pronunciation: unexpected JSON %q", data)
	}
	return nil
}

// GobEncode lets payload tables carrying a Pronunciation be gob-encoded
// without exporting the variant fields.
func (p Pronunciation) GobEncode() ([]byte, error) {
	return p.MarshalJSON()
}

func (p *Pronunciation) GobDecode(data []byte) error {
	return p.UnmarshalJSON(data)
}
