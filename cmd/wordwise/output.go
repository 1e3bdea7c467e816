package main

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/heartmarshall/wordwise/internal/app"
	"github.com/heartmarshall/wordwise/internal/matcher"
)

type phaseOutput struct {
	Phase    string `yaml:"phase"`
	Entries  int    `yaml:"entries"`
	Enabled  int    `yaml:"enabled"`
	Patterns int    `yaml:"patterns,omitempty"`
	Skipped  int    `yaml:"skipped"`
	Duration string `yaml:"duration"`
	Error    string `yaml:"error,omitempty"`
}

type matchOutput struct {
	Start         int    `yaml:"start"`
	End           int    `yaml:"end"`
	Pattern       string `yaml:"pattern"`
	ShortGloss    string `yaml:"short_gloss"`
	FullGloss     string `yaml:"full_gloss"`
	Example       string `yaml:"example,omitempty"`
	Pronunciation string `yaml:"pronunciation,omitempty"`
}

func phaseReport(phases []string, results map[string]app.PhaseResult) []phaseOutput {
	var out []phaseOutput
	for _, phase := range phases {
		r, ok := results[phase]
		if !ok {
			continue
		}
		po := phaseOutput{
			Phase:    phase,
			Entries:  r.Entries,
			Enabled:  r.Enabled,
			Patterns: r.Patterns,
			Skipped:  r.Skipped,
			Duration: r.Duration.String(),
		}
		if r.Err != nil {
			po.Error = r.Err.Error()
		}
		out = append(out, po)
	}
	return out
}

func matchReport(matches []matcher.Match) []matchOutput {
	out := make([]matchOutput, 0, len(matches))
	for _, m := range matches {
		mo := matchOutput{
			Start:         m.Start,
			End:           m.End,
			Pattern:       m.Pattern,
			ShortGloss:    m.Payload.ShortGloss,
			FullGloss:     m.Payload.FullGloss,
			Pronunciation: m.Payload.Pronunciation.String(),
		}
		if m.Payload.Example != nil {
			mo.Example = *m.Payload.Example
		}
		out = append(out, mo)
	}
	return out
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
