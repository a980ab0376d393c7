package confirm

import (
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  Verdict
	}{
		{"plain yes", "yes", Confirm},
		{"uppercase trimmed", "  YES  ", Confirm},
		{"slang bet", "bet", Confirm},
		{"slang fosho", "fosho", Confirm},
		{"single letter y", "y", Confirm},
		{"single letter k", "k", Confirm},
		{"thumbs up emoji", "👍", Confirm},
		{"plain no", "no", Deny},
		{"nope", "nope", Deny},
		{"single letter n", "n", Deny},
		{"someone else", "someone else", Deny},
		{"cross emoji", "❌", Deny},
		{"affirmative inside sentence", "yeah that's the one", Confirm},
		{"negative inside sentence", "hmm nope different guy", Deny},
		{"affirmative wins over negative", "yeah no worries", Confirm},
		{"unrelated sentence", "the weather in berlin is nice", Other},
		{"empty", "", Other},
		{"whitespace only", "   ", Other},
		{"k must not match inside words", "working on the deck", Other},
		{"y must not match inside words", "maybe later", Other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.reply)
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.reply, got, tt.want)
			}
		})
	}
}

func TestParseLexiconVerbatim(t *testing.T) {
	// Every curated phrase must resolve to its own side when sent verbatim.
	for _, phrase := range affirmative {
		if got := Parse(phrase); got != Confirm {
			t.Errorf("Parse(%q) = %v, want Confirm", phrase, got)
		}
	}
	for _, phrase := range negative {
		if got := Parse(phrase); got != Deny {
			t.Errorf("Parse(%q) = %v, want Deny", phrase, got)
		}
	}
}

func TestParseDeterministic(t *testing.T) {
	inputs := []string{"yes", "no", "bet", "never mind", "banana", "yeah sure ok"}
	for _, in := range inputs {
		first := Parse(in)
		for i := 0; i < 50; i++ {
			if got := Parse(in); got != first {
				t.Fatalf("Parse(%q) not deterministic: %v then %v", in, first, got)
			}
		}
	}
}
