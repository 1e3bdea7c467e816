package wiktionary

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/heartmarshall/wordwise/internal/domain"
)

// keptPOS lists the parts of speech worth annotating. Kaikki writes "adj"
// and "adv"; the long spellings are accepted as well.
var keptPOS = map[string]bool{
	"adj":       true,
	"adjective": true,
	"adv":       true,
	"adverb":    true,
	"noun":      true,
	"phrase":    true,
	"proverb":   true,
	"verb":      true,
}

// droppedSenseTags marks senses that only point at another headword.
var droppedSenseTags = map[string]bool{
	"plural":       true,
	"alternative":  true,
	"obsolete":     true,
	"abbreviation": true,
	"initialism":   true,
}

// metaFormTags marks forms[] rows that describe inflection tables rather
// than spell a word.
var metaFormTags = map[string]bool{
	"table-tags":          true,
	"inflection-template": true,
	"class":               true,
}

var asciiWordRe = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

// obsoleteExample is the placeholder Wiktionary uses for dated quotations.
const obsoleteExample = "(obsolete)"

// bareOfGloss is the short gloss left by "of"-style cross references
// ("Of a person: ...", "Of, relating to ...").
const bareOfGloss = "of"

// rejectReason explains why a record or sense was filtered out.
type rejectReason int

const (
	keep rejectReason = iota
	rejectPOS
	rejectLength
	rejectCharacters
	rejectLatinInDense
	rejectNoGloss
	rejectSenseTag
	rejectBareOf
)

// checkHeadword applies the record-level rules to an NFC-normalized word.
func checkHeadword(word, pos string, p domain.LanguageProfile) rejectReason {
	if !keptPOS[pos] {
		return rejectPOS
	}
	if utf8.RuneCountInString(word) < p.MinLength {
		return rejectLength
	}
	for _, r := range word {
		if unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsDigit(r) {
			return rejectCharacters
		}
	}
	if p.DenseScript && asciiWordRe.MatchString(word) {
		return rejectLatinInDense
	}
	return keep
}

// candidateSense is a sense that survived filtering.
type candidateSense struct {
	shortGloss string
	fullGloss  string
	example    *string
}

// checkSense applies the sense-level rules.
func checkSense(s *kaikkiSense, p domain.LanguageProfile) (candidateSense, rejectReason) {
	if len(s.Glosses) == 0 || strings.TrimSpace(s.Glosses[0]) == "" {
		return candidateSense{}, rejectNoGloss
	}
	for _, tag := range s.Tags {
		if droppedSenseTags[tag] {
			return candidateSense{}, rejectSenseTag
		}
	}

	short := Shorten(s.Glosses[0])
	if p.DropBareOf && short == bareOfGloss {
		return candidateSense{}, rejectBareOf
	}

	return candidateSense{
		shortGloss: short,
		fullGloss:  s.Glosses[0],
		example:    firstExample(s.Examples),
	}, keep
}

func firstExample(examples []kaikkiExample) *string {
	for _, ex := range examples {
		if ex.Text != "" && ex.Text != obsoleteExample {
			text := ex.Text
			return &text
		}
	}
	return nil
}

// rawForms returns the normalized spellings listed in forms[], skipping
// inflection-table metadata rows.
func rawForms(forms []kaikkiForm) []string {
	if len(forms) == 0 {
		return nil
	}
	out := make([]string, 0, len(forms))
	for _, f := range forms {
		if isMetaForm(f.Tags) {
			continue
		}
		if form := domain.NormalizeHeadword(f.Form); form != "" {
			out = append(out, form)
		}
	}
	return out
}

func isMetaForm(tags []string) bool {
	for _, t := range tags {
		if metaFormTags[t] {
			return true
		}
	}
	return false
}
