package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ranajunaid001/second-braind-junaid/pkg/ledger"
)

func TestTopItemsCapsRecords(t *testing.T) {
	records := make([]ledger.Record, 0, 14)
	for i := 0; i < 14; i++ {
		records = append(records, ledger.Record{
			Fields:    ledger.ThingFields{Task: "task-" + string(rune('a'+i)), Status: "Open"},
			CreatedAt: time.Now(),
		})
	}

	provider := &fakeLLM{reply: "• a list"}
	svc := NewPresenterService(provider)

	if _, err := svc.TopItems(context.Background(), ledger.BucketThings, records); err != nil {
		t.Fatalf("TopItems() error = %v", err)
	}

	if got := strings.Count(provider.lastPrompt, `"title":"task-`); got != 10 {
		t.Errorf("prompt carries %d rows, want 10", got)
	}
	if !strings.Contains(provider.lastPrompt, "Things") {
		t.Errorf("prompt does not name the bucket table:\n%s", provider.lastPrompt)
	}
}

func TestPersonAnswerPromptCarriesCard(t *testing.T) {
	record := ledger.Record{
		Fields: ledger.PersonFields{
			Name:      "Sarah Chen",
			Context:   "runs devtools at Vercel",
			FollowUps: "send the deck",
		},
		Notes: "[2026-08-01] met at the conference",
	}

	provider := &fakeLLM{reply: "She runs devtools."}
	svc := NewPresenterService(provider)

	got, err := svc.PersonAnswer(context.Background(), "what does sarah do?", record)
	if err != nil {
		t.Fatalf("PersonAnswer() error = %v", err)
	}
	if got != "She runs devtools." {
		t.Errorf("PersonAnswer() = %q", got)
	}

	for _, want := range []string{"Sarah Chen", "send the deck", "what does sarah do?"} {
		if !strings.Contains(provider.lastPrompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, provider.lastPrompt)
		}
	}
}
