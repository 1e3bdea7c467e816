package wiktionary

import (
	"slices"

	"github.com/heartmarshall/wordwise/internal/domain"
)

// Pronunciation labels written into the store.
const (
	LabelUS       = "US"
	LabelUK       = "UK"
	LabelPinyin   = "Pinyin"
	LabelBopomofo = "bopomofo"
)

// ExtractPronunciation reads the pronunciation of a record from its sounds
// according to the language scheme.
func ExtractPronunciation(scheme domain.PronunciationScheme, sounds []kaikkiSound) domain.Pronunciation {
	switch scheme {
	case domain.SchemeRegionalIPA:
		return regionalIPA(sounds)
	case domain.SchemeChinese:
		return chineseReadings(sounds)
	default:
		for _, s := range sounds {
			if s.IPA != "" {
				return domain.SinglePronunciation(s.IPA)
			}
		}
		return domain.NoPronunciation()
	}
}

// regionalIPA keeps the first US and the first UK transcription. A sound
// tagged with both regions fills both.
func regionalIPA(sounds []kaikkiSound) domain.Pronunciation {
	labels := make(map[string]string, 2)
	for _, s := range sounds {
		if s.IPA == "" || len(s.Tags) == 0 {
			continue
		}
		for _, region := range []string{LabelUS, LabelUK} {
			if _, ok := labels[region]; !ok && slices.Contains(s.Tags, region) {
				labels[region] = s.IPA
			}
		}
		if len(labels) == 2 {
			break
		}
	}
	return domain.LabeledPronunciation(labels)
}

// chineseReadings keeps the first standard Pinyin and bopomofo readings.
func chineseReadings(sounds []kaikkiSound) domain.Pronunciation {
	labels := make(map[string]string, 2)
	for _, s := range sounds {
		if s.ZhPron == "" || !slices.Contains(s.Tags, "standard") {
			continue
		}
		_, hasPinyin := labels[LabelPinyin]
		_, hasBopomofo := labels[LabelBopomofo]
		switch {
		case !hasPinyin && slices.Contains(s.Tags, LabelPinyin):
			labels[LabelPinyin] = s.ZhPron
		case !hasBopomofo && slices.Contains(s.Tags, LabelBopomofo):
			labels[LabelBopomofo] = s.ZhPron
		}
	}
	return domain.LabeledPronunciation(labels)
}
