package command

import (
	"testing"

	"github.com/ranajunaid001/second-braind-junaid/pkg/ledger"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantKind Kind
		wantArg  string
	}{
		{"who with name", "who Sarah", KindWho, "Sarah"},
		{"who keeps casing", "WHO sarah chen", KindWho, "sarah chen"},
		{"bare who is not a command", "who", KindNone, ""},
		{"top with table", "top people", KindTop, "people"},
		{"top all", "top all", KindTop, "all"},
		{"bare top", "top", KindTop, ""},
		{"topical is a normal message", "topical thought about work", KindNone, ""},
		{"fix with bucket", "fix ideas", KindFix, "ideas"},
		{"fix colon form", "fix:people", KindFix, "people"},
		{"fx shorthand", "fx li", KindFix, "li"},
		{"bare fix", "fix", KindFix, ""},
		{"find query", "find coffee meeting notes", KindFind, "coffee meeting notes"},
		{"search alias", "search berlin trip", KindFind, "berlin trip"},
		{"plain message", "Julia is traveling to Paris next week", KindNone, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.text)
			if got.Kind != tt.wantKind {
				t.Errorf("Parse(%q).Kind = %q, want %q", tt.text, got.Kind, tt.wantKind)
			}
			if got.Arg != tt.wantArg {
				t.Errorf("Parse(%q).Arg = %q, want %q", tt.text, got.Arg, tt.wantArg)
			}
		})
	}
}

func TestResolveBucket(t *testing.T) {
	tests := []struct {
		token  string
		want   ledger.Bucket
		wantOK bool
	}{
		{"ppl", ledger.BucketPeople, true},
		{"people", ledger.BucketPeople, true},
		{"i", ledger.BucketIdeas, true},
		{"int", ledger.BucketInterviews, true},
		{"t", ledger.BucketThings, true},
		{"tasks", ledger.BucketThings, true},
		{"ln", ledger.BucketLinkedIn, true},
		{"LINKEDIN", ledger.BucketLinkedIn, true},
		{"banana", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, ok := ResolveBucket(tt.token)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ResolveBucket(%q) = (%q, %v), want (%q, %v)", tt.token, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
