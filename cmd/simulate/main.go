package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/ranajunaid001/second-braind-junaid/internal/repository/memory"
	"github.com/ranajunaid001/second-braind-junaid/pkg/assist/classify"
	"github.com/ranajunaid001/second-braind-junaid/pkg/assist/engine"
	"github.com/ranajunaid001/second-braind-junaid/pkg/assist/match"
	"github.com/ranajunaid001/second-braind-junaid/pkg/ledger"
)

// simulate drives the conversation engine from a terminal, no Telegram, no
// database, no model. Classification runs on keyword rules so the whole
// confirm/fix/merge flow can be exercised deterministically.
func main() {
	fmt.Println("=== Conversation Simulator ===")
	fmt.Println("Type messages as if chatting with the bot. Ctrl+D to quit.")

	eng := engine.New(
		newScriptedGateway(),
		newMemStore(),
		memory.NewSessionRepository(),
		nil,
		nil,
		nil,
		engine.Config{},
		nil,
	)

	scanner := bufio.NewScanner(os.Stdin)
	msgID := 0
	for {
		fmt.Print("\nyou> ")
		if !scanner.Scan() {
			break
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		msgID++
		result := eng.HandleMessage(context.Background(), "simulator", strconv.Itoa(msgID), text)

		if result.Reply != "" {
			fmt.Printf("bot> %s\n", result.Reply)
		}
		if result.Saved != nil {
			fmt.Printf("  [saved ref=%s bucket=%s merged=%v confidence=%.2f]\n",
				result.Saved.Ref, result.Saved.Bucket, result.Saved.Merged, result.Saved.Confidence)
		}
		if result.Correction != nil {
			fmt.Printf("  [correction %s -> %s]\n", result.Correction.From, result.Correction.To)
		}
	}
}

// scriptedGateway classifies by keyword so runs are reproducible. Keyword
// hits file with high confidence; anything unmatched lands in things at 0.55,
// low enough to walk through the confirmation flow.
type scriptedGateway struct{}

func newScriptedGateway() *scriptedGateway { return &scriptedGateway{} }

func (g *scriptedGateway) Classify(ctx context.Context, text string) (ledger.Classification, error) {
	if bucket, ok := classify.ForcedBucket(text); ok {
		fields, err := g.ExtractFields(ctx, text, bucket)
		if err != nil {
			return ledger.Classification{}, err
		}
		return ledger.Classification{Bucket: bucket, Confidence: 1.0, Fields: fields}, nil
	}

	bucket, confidence := guessBucket(text)
	fields, err := g.ExtractFields(ctx, text, bucket)
	if err != nil {
		return ledger.Classification{}, err
	}
	return ledger.Classification{Bucket: bucket, Confidence: confidence, Fields: fields}, nil
}

func (g *scriptedGateway) ExtractFields(ctx context.Context, text string, bucket ledger.Bucket) (ledger.Fields, error) {
	switch bucket {
	case ledger.BucketPeople:
		return ledger.PersonFields{Name: extractName(text), Context: text}, nil
	case ledger.BucketIdeas:
		return ledger.IdeaFields{Idea: firstClause(text), OneLiner: text}, nil
	case ledger.BucketInterviews:
		return ledger.InterviewFields{Company: extractName(text), Status: "Lead", NextStep: "Follow up"}, nil
	case ledger.BucketLinkedIn:
		return ledger.LinkedInFields{Idea: firstClause(text), Notes: text, Status: "Draft"}, nil
	default:
		return ledger.ThingFields{Task: firstClause(text), Status: "Open", NextAction: "Review this item"}, nil
	}
}

func guessBucket(text string) (ledger.Bucket, float64) {
	lower := strings.ToLower(text)
	switch {
	case containsAny(lower, "met ", "talked to", "coffee with", "call with", "intro to"):
		return ledger.BucketPeople, 0.9
	case strings.Contains(lower, "idea"):
		return ledger.BucketIdeas, 0.9
	case containsAny(lower, "interview", "recruiter", "applied"):
		return ledger.BucketInterviews, 0.85
	case containsAny(lower, "buy ", "fix ", "remind", "need to", "todo"):
		return ledger.BucketThings, 0.85
	default:
		return ledger.BucketThings, 0.55
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// extractName picks the first run of capitalized words after the leading
// word, which is usually a verb ("Met Sarah Chen today").
func extractName(text string) string {
	var name []string
	for i, w := range strings.Fields(text) {
		trimmed := strings.Trim(w, ".,!?:;")
		r := []rune(trimmed)
		if len(r) == 0 {
			continue
		}
		if i > 0 && unicode.IsUpper(r[0]) {
			name = append(name, trimmed)
			continue
		}
		if len(name) > 0 {
			break
		}
	}
	if len(name) == 0 {
		return firstClause(text)
	}
	return strings.Join(name, " ")
}

func firstClause(text string) string {
	t := strings.TrimSpace(text)
	if i := strings.IndexAny(t, ".,;"); i > 0 {
		t = t[:i]
	}
	if r := []rune(t); len(r) > 50 {
		t = string(r[:50])
	}
	return t
}

// memStore is a map-backed ledger for one simulator run.
type memStore struct {
	mu     sync.Mutex
	nextID int
	order  []ledger.RecordRef
	rows   map[ledger.RecordRef]*ledger.Record
}

func newMemStore() *memStore {
	return &memStore{rows: make(map[ledger.RecordRef]*ledger.Record)}
}

func (s *memStore) CreateRecord(ctx context.Context, bucket ledger.Bucket, fields ledger.Fields, messageRef string) (ledger.RecordRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	ref := ledger.RecordRef(fmt.Sprintf("sim-%d", s.nextID))
	now := time.Now()
	s.rows[ref] = &ledger.Record{
		Ref:        ref,
		Bucket:     bucket,
		Fields:     fields,
		MessageRef: messageRef,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.order = append(s.order, ref)
	return ref, nil
}

func (s *memStore) AppendNote(ctx context.Context, ref ledger.RecordRef, text string, fields ledger.Fields, messageRef string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[ref]
	if !ok {
		return fmt.Errorf("no record %s", ref)
	}
	row.Notes = ledger.AppendNoteText(row.Notes, text, time.Now())
	if fields != nil {
		row.Fields = ledger.MergeFields(row.Fields, fields)
	}
	row.UpdatedAt = time.Now()
	return nil
}

func (s *memStore) ListActive(ctx context.Context, bucket ledger.Bucket) ([]ledger.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []ledger.Record
	for _, ref := range s.order {
		row := s.rows[ref]
		if row == nil || row.Bucket != bucket || row.Archived {
			continue
		}
		out = append(out, *row)
	}
	return out, nil
}

func (s *memStore) FindSimilar(ctx context.Context, name string) ([]ledger.Record, error) {
	people, err := s.ListActive(ctx, ledger.BucketPeople)
	if err != nil {
		return nil, err
	}
	return match.FindCandidates(name, people, match.DefaultThreshold), nil
}

func (s *memStore) Get(ctx context.Context, ref ledger.RecordRef) (*ledger.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[ref]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (s *memStore) Remove(ctx context.Context, bucket ledger.Bucket, messageRef string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Newest first, the fix command always targets the latest filing.
	for i := len(s.order) - 1; i >= 0; i-- {
		ref := s.order[i]
		row := s.rows[ref]
		if row == nil || row.Bucket != bucket || row.MessageRef != messageRef {
			continue
		}
		delete(s.rows, ref)
		s.order = append(s.order[:i], s.order[i+1:]...)
		return nil
	}
	return nil
}
