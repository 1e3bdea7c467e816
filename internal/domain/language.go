package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// MatchStrategy selects how a compiled matcher finds patterns in text.
type MatchStrategy uint8

const (
	// StrategySegmented matches whole keywords at token boundaries.
	StrategySegmented MatchStrategy = iota + 1
	// StrategyUnsegmented reports every character-span occurrence, overlaps included.
	StrategyUnsegmented
)

func (s MatchStrategy) String() string {
	switch s {
	case StrategySegmented:
		return "segmented"
	case StrategyUnsegmented:
		return "unsegmented"
	default:
		return fmt.Sprintf("MatchStrategy(%d)", uint8(s))
	}
}

// PronunciationScheme selects how pronunciation is read from dump sounds.
type PronunciationScheme uint8

const (
	// SchemeIPA takes the first IPA string.
	SchemeIPA PronunciationScheme = iota
	// SchemeRegionalIPA takes the first US and first UK IPA strings.
	SchemeRegionalIPA
	// SchemeChinese takes standard Pinyin and bopomofo readings.
	SchemeChinese
)

// LanguageProfile holds every per-language rule of extraction and matching.
type LanguageProfile struct {
	Code          string
	KaikkiName    string
	MinLength     int
	DenseScript   bool
	Strategy      MatchStrategy
	Pronunciation PronunciationScheme
	// DropBareOf drops senses whose short gloss is exactly "of".
	DropBareOf bool
}

var languageCode = regexp.MustCompile(`^[a-z]{2,3}$`)

// Kaikki dump names for the languages with published per-language dumps.
var kaikkiNames = map[string]string{
	"ca": "Catalan",
	"cs": "Czech",
	"de": "German",
	"el": "Greek",
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"he": "Hebrew",
	"hr": "Serbo-Croatian",
	"it": "Italian",
	"ja": "Japanese",
	"ko": "Korean",
	"nl": "Dutch",
	"no": "Norwegian Bokmål",
	"pl": "Polish",
	"pt": "Portuguese",
	"ru": "Russian",
	"sv": "Swedish",
	"zh": "Chinese",
}

// ProfileFor returns the profile of a Wiktionary language code.
// Codes without a published Kaikki dump still get a profile; KaikkiName is
// empty for them.
func ProfileFor(code string) (LanguageProfile, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if !languageCode.MatchString(code) {
		return LanguageProfile{}, fmt.Errorf("%w: %q", ErrUnknownLanguage, code)
	}

	p := LanguageProfile{
		Code:          code,
		KaikkiName:    kaikkiNames[code],
		MinLength:     3,
		Strategy:      StrategySegmented,
		Pronunciation: SchemeIPA,
		DropBareOf:    true,
	}

	switch code {
	case "zh", "ja", "ko":
		p.MinLength = 2
		p.DenseScript = true
		p.Strategy = StrategyUnsegmented
	}

	switch code {
	case "en":
		p.Pronunciation = SchemeRegionalIPA
	case "zh":
		p.Pronunciation = SchemeChinese
	}

	return p, nil
}

// DumpFileName returns the file name Kaikki publishes the language dump under.
func (p LanguageProfile) DumpFileName() string {
	name := p.KaikkiName
	if name == "" {
		name = p.Code
	}
	name = strings.NewReplacer(" ", "", "-", "").Replace(name)
	return "kaikki.org-dictionary-" + name + ".json"
}

// StoreFileName returns the default lexicon store file name.
func (p LanguageProfile) StoreFileName() string {
	return "wiktionary_" + p.Code + ".json"
}

// MatcherFileName returns the default compiled matcher file name.
func (p LanguageProfile) MatcherFileName() string {
	return "wiktionary_" + p.Code + ".wwm"
}
