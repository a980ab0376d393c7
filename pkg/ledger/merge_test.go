package ledger

import (
	"testing"
	"time"
)

func TestAppendNoteText(t *testing.T) {
	at := time.Date(2026, 1, 19, 10, 0, 0, 0, time.UTC)

	got := AppendNoteText("", "met at the gym", at)
	want := "[2026-01-19] met at the gym"
	if got != want {
		t.Errorf("first note = %q, want %q", got, want)
	}

	got = AppendNoteText(got, "asked about the offsite", at)
	want = "[2026-01-19] met at the gym • [2026-01-19] asked about the offsite"
	if got != want {
		t.Errorf("second note = %q, want %q", got, want)
	}
}

func TestMergeFieldsRefreshesNonEmpty(t *testing.T) {
	existing := PersonFields{Name: "Alex", Context: "works at Google", FollowUps: "intro to Sam"}
	incoming := PersonFields{Name: "Alex", Context: "moved to Stripe"}

	merged, ok := MergeFields(existing, incoming).(PersonFields)
	if !ok {
		t.Fatal("merged fields are not PersonFields")
	}
	if merged.Context != "moved to Stripe" {
		t.Errorf("Context = %q, want refreshed value", merged.Context)
	}
	if merged.FollowUps != "intro to Sam" {
		t.Errorf("FollowUps = %q, want existing value kept", merged.FollowUps)
	}
}

func TestMergeFieldsBucketMismatchKeepsExisting(t *testing.T) {
	existing := PersonFields{Name: "Alex"}
	incoming := ThingFields{Task: "buy milk"}

	merged, ok := MergeFields(existing, incoming).(PersonFields)
	if !ok {
		t.Fatal("merged fields are not PersonFields")
	}
	if merged.Name != "Alex" {
		t.Errorf("Name = %q, want Alex", merged.Name)
	}
}

func TestMergeFieldsInterview(t *testing.T) {
	existing := InterviewFields{Company: "Stripe", Role: "SWE", Status: "Scheduled"}
	incoming := InterviewFields{Status: "Onsite done", NextStep: "wait for call"}

	merged := MergeFields(existing, incoming).(InterviewFields)
	if merged.Company != "Stripe" || merged.Status != "Onsite done" || merged.NextStep != "wait for call" {
		t.Errorf("merged = %+v, want refreshed status and next step", merged)
	}
}
