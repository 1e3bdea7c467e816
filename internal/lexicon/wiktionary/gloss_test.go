package wiktionary

import "testing"

func TestShorten(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "trailing period removed",
			in:   "A small domesticated carnivorous mammal.",
			want: "a small domesticated carnivorous mammal",
		},
		{
			name: "semicolon cut and first rune lowered only",
			in:   "Of or relating to X; see also Y",
			want: "of or relating to X",
		},
		{
			name: "parenthesized aside removed",
			in:   "(transitive) To move swiftly.",
			want: "to move swiftly",
		},
		{
			name: "aside in the middle",
			in:   "A feline (Felis catus), kept as a pet",
			want: "a feline",
		},
		{
			name: "comma cut",
			in:   "Quick, fast",
			want: "quick",
		},
		{
			name: "bare of",
			in:   "Of, relating to, or being a cat.",
			want: "of",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
		{
			name: "only aside",
			in:   "(obsolete)",
			want: "",
		},
		{
			name: "non-latin first rune",
			in:   "Ένα ζώο.",
			want: "ένα ζώο",
		},
		{
			name: "cjk gloss unchanged",
			in:   "猫",
			want: "猫",
		},
		{
			name: "aside exposing uppercase",
			in:   "(zoology) Cat; feline",
			want: "cat",
		},
		{
			name: "empty parens kept",
			in:   "A word ()",
			want: "a word ()",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Shorten(tt.in); got != tt.want {
				t.Errorf("Shorten(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestShorten_Idempotent(t *testing.T) {
	inputs := []string{
		"A small domesticated carnivorous mammal.",
		"Of or relating to X; see also Y",
		"(transitive) To move swiftly.",
		"(zoology) Cat; feline",
		"Word.. ",
		"  (a) (b) Tail.",
		"To run.)",
		"",
		"x",
		"Én (foo",
	}

	for _, in := range inputs {
		once := Shorten(in)
		if twice := Shorten(once); twice != once {
			t.Errorf("Shorten not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}
