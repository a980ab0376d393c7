package match

import (
	"testing"

	"github.com/ranajunaid001/second-braind-junaid/pkg/ledger"
)

func person(name, context string, archived bool) ledger.Record {
	return ledger.Record{
		Bucket:   ledger.BucketPeople,
		Fields:   ledger.PersonFields{Name: name, Context: context},
		Archived: archived,
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{"exact", "Alex", "Alex", 1.0},
		{"exact case-insensitive", "alex", "ALEX", 1.0},
		{"exact trimmed", "  Alex ", "Alex", 1.0},
		{"substring", "Alex", "Alexander", 0.9},
		{"substring reversed", "Alexander", "Alex", 0.9},
		{"first token equal", "Sarah Chen", "Sarah Miller", 0.85},
		{"both empty", "", "", 0.0},
		{"one empty", "", "Alex", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.a, tt.b)
			if got != tt.want {
				t.Errorf("Score(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestScoreSelfIsAlwaysOne(t *testing.T) {
	names := []string{"Alex", "sarah chen", "José", "A", "Mary-Jane O'Neil"}
	for _, n := range names {
		if got := Score(n, n); got != 1.0 {
			t.Errorf("Score(%q, %q) = %v, want 1.0", n, n, got)
		}
	}
}

func TestScoreOverlapFallback(t *testing.T) {
	// "mark" vs "mary": positions m,a,r equal, k != y -> 3/4.
	if got := Score("mark", "mary"); got != 0.75 {
		t.Errorf("Score(mark, mary) = %v, want 0.75", got)
	}
	// Different lengths divide by the longer one: "tomas" vs "tobias" shares
	// t,o at matching positions -> 2/6.
	if got := Score("tomas", "tobias"); got != 2.0/6.0 {
		t.Errorf("Score(tomas, tobias) = %v, want %v", got, 2.0/6.0)
	}
}

func TestScoreOverlapSymmetry(t *testing.T) {
	pairs := [][2]string{
		{"mark", "mary"},
		{"tomas", "tobias"},
		{"kim", "jim"},
		{"xavier", "oliver"},
	}
	for _, p := range pairs {
		ab := Score(p[0], p[1])
		ba := Score(p[1], p[0])
		if ab != ba {
			t.Errorf("Score(%q, %q) = %v but Score(%q, %q) = %v", p[0], p[1], ab, p[1], p[0], ba)
		}
	}
}

func TestFindCandidates(t *testing.T) {
	people := []ledger.Record{
		person("Alex", "works at Google", false),
		person("Alex", "my roommate", false),
		person("Alexandra", "met at the gym", false),
		person("Sarah Chen", "from Stripe", false),
		person("Alex", "old colleague", true), // archived, never eligible
	}

	got := FindCandidates("Alex", people, DefaultThreshold)
	if len(got) != 3 {
		t.Fatalf("FindCandidates returned %d records, want 3", len(got))
	}
	// Two exact ties first, in incoming order, then the 0.9 substring hit.
	if got[0].Context() != "works at Google" {
		t.Errorf("first candidate context = %q, want the Google Alex", got[0].Context())
	}
	if got[1].Context() != "my roommate" {
		t.Errorf("second candidate context = %q, want the roommate Alex", got[1].Context())
	}
	if got[2].Name() != "Alexandra" {
		t.Errorf("third candidate = %q, want Alexandra", got[2].Name())
	}
}

func TestFindCandidatesThreshold(t *testing.T) {
	people := []ledger.Record{
		person("Sarah Chen", "from Stripe", false),
	}
	if got := FindCandidates("Julia", people, DefaultThreshold); len(got) != 0 {
		t.Errorf("FindCandidates(Julia) = %d records, want 0", len(got))
	}
	// First-token rule scores 0.85, above the default cutoff.
	if got := FindCandidates("Sarah Miller", people, DefaultThreshold); len(got) != 1 {
		t.Errorf("FindCandidates(Sarah Miller) = %d records, want 1", len(got))
	}
}
