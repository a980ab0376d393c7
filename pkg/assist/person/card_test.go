package person

import (
	"strings"
	"testing"
	"time"

	"github.com/ranajunaid001/second-braind-junaid/pkg/ledger"
)

func TestNotes(t *testing.T) {
	rec := ledger.Record{
		Bucket: ledger.BucketPeople,
		Fields: ledger.PersonFields{Name: "Sarah"},
		Notes:  "[2026-01-19] met for coffee • [2026-02-02] asked about the PM role • plain note without date",
	}

	got := Notes(rec)
	want := []string{"met for coffee", "asked about the PM role", "plain note without date"}
	if len(got) != len(want) {
		t.Fatalf("Notes returned %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Notes[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNotesEmpty(t *testing.T) {
	if got := Notes(ledger.Record{}); got != nil {
		t.Errorf("Notes(empty) = %v, want nil", got)
	}
}

func TestFormatCard(t *testing.T) {
	rec := ledger.Record{
		Bucket: ledger.BucketPeople,
		Fields: ledger.PersonFields{
			Name:      "Sarah Chen",
			Context:   "works at Stripe",
			FollowUps: "ask about referral",
		},
		Notes:     "[2026-01-19] met for coffee",
		UpdatedAt: time.Date(2026, 1, 19, 10, 0, 0, 0, time.UTC),
	}

	card := FormatCard(rec)

	for _, want := range []string{
		"👤 Sarah Chen",
		"works at Stripe",
		"• met for coffee",
		"📌 ask about referral",
		"Last updated: Jan 19",
	} {
		if !strings.Contains(card, want) {
			t.Errorf("card missing %q:\n%s", want, card)
		}
	}
	if strings.Contains(card, "[2026-01-19]") {
		t.Errorf("card should strip date prefixes:\n%s", card)
	}
}

func TestFormatCardSkipsDateOnlyFollowUps(t *testing.T) {
	rec := ledger.Record{
		Bucket: ledger.BucketPeople,
		Fields: ledger.PersonFields{Name: "Tom", FollowUps: "2026-03-01"},
	}
	if card := FormatCard(rec); strings.Contains(card, "📌") {
		t.Errorf("date-only follow-up should be skipped:\n%s", card)
	}
}
