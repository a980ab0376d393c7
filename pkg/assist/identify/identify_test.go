package identify

import (
	"testing"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name    string
		context string
		want    string
	}{
		{"works at", "works at Google", "from Google"},
		{"works at inside sentence", "she works at Stripe now", "from Stripe"},
		{"bare at", "engineer at Shopify", "from Shopify"},
		{"from company", "Sarah from Linear", "from Linear"},
		{"at-sign", "met her @ Figma", "from Figma"},
		{"at boundary not inside word", "that chat about climbing", "that chat about"},
		{"relation roommate", "my roommate since 2019", "your roommate"},
		{"relation colleague", "old colleague, very sharp", "your colleague"},
		{"relation sister", "his sister", "your sister"},
		{"relation boss with punctuation", "my boss.", "your boss"},
		{"lives in", "lives in Austin", "in Austin"},
		{"based in", "designer based in Berlin", "in Berlin"},
		{"met at the event", "met at the climbing gym", "from the climbing gym"},
		{"from the event", "from the design conference", "from the design conference"},
		{"at the event capped at three tokens", "at the tech meetup downtown yesterday", "from the tech meetup downtown"},
		{"workplace beats relation", "my roommate from college", "from college"},
		{"fallback first three tokens", "really into chess and poker", "really into chess"},
		{"fallback trims punctuation", "startup founder,", "startup founder"},
		{"fallback short", "investor", "investor"},
		{"empty", "", ""},
		{"whitespace", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.context)
			if got != tt.want {
				t.Errorf("Extract(%q) = %q, want %q", tt.context, got, tt.want)
			}
		})
	}
}

func TestExtractIdempotent(t *testing.T) {
	contexts := []string{
		"works at Google",
		"my roommate since 2019",
		"met at the climbing gym",
		"really into chess and poker",
		"",
	}
	for _, ctx := range contexts {
		first := Extract(ctx)
		for i := 0; i < 20; i++ {
			if got := Extract(ctx); got != first {
				t.Fatalf("Extract(%q) not idempotent: %q then %q", ctx, first, got)
			}
		}
	}
}
