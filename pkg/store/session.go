package store

import (
	"time"

	"github.com/ranajunaid001/second-braind-junaid/pkg/ledger"
)

// Candidate is a person row surfaced during disambiguation, snapshotted with
// the derived identifier phrase shown next to it in menus ("from Google").
type Candidate struct {
	Record     ledger.Record `json:"record"`
	Identifier string        `json:"identifier"`
}

// PendingKind discriminates the pending-interaction union.
type PendingKind string

const (
	PendingBucketCorrection PendingKind = "BUCKET_CORRECTION"
	PendingMergeDecision    PendingKind = "MERGE_DECISION"
	PendingPersonQuestion   PendingKind = "PERSON_QUESTION"
)

// PendingInteraction is the single in-flight disambiguation a session can
// hold while it waits for the user's next reply. Which fields are meaningful
// depends on Kind.
type PendingInteraction struct {
	Kind PendingKind `json:"kind"`

	// BUCKET_CORRECTION and MERGE_DECISION carry the message being filed.
	OriginalText   string                `json:"original_text"`
	Classification ledger.Classification `json:"classification"`
	MessageRef     string                `json:"message_ref"`

	// MERGE_DECISION: the duplicate candidates on offer. Preselected is set
	// when exactly one candidate produced a plain yes/no prompt.
	Candidates  []Candidate `json:"candidates"`
	Preselected *Candidate  `json:"preselected"`

	// PERSON_QUESTION: the question to answer once a candidate is picked.
	OriginalQuestion string `json:"original_question"`
}

// LastSaved remembers the most recent successful filing so a "fix <bucket>"
// reply can re-file it.
type LastSaved struct {
	MessageRef     string                `json:"message_ref"`
	Ref            ledger.RecordRef      `json:"ref"`
	Bucket         ledger.Bucket         `json:"bucket"`
	OriginalText   string                `json:"original_text"`
	Classification ledger.Classification `json:"classification"`
	SavedAt        time.Time             `json:"saved_at"`
}

// Session is the ephemeral per-chat conversation state. It lives in memory
// only; a process restart drops in-flight disambiguation, which is accepted.
type Session struct {
	ChatID    string              `json:"chat_id"`
	Pending   *PendingInteraction `json:"pending"`
	LastSaved *LastSaved          `json:"last_saved"`
	UpdatedAt time.Time           `json:"updated_at"`
}

func NewSession(chatID string) *Session {
	return &Session{
		ChatID:    chatID,
		UpdatedAt: time.Now(),
	}
}

// SetPending installs a new pending interaction. A prior unresolved one is
// implicitly abandoned, never merged.
func (s *Session) SetPending(p *PendingInteraction) {
	s.Pending = p
	s.UpdatedAt = time.Now()
}

func (s *Session) ClearPending() {
	s.Pending = nil
	s.UpdatedAt = time.Now()
}

func (s *Session) RememberSaved(last *LastSaved) {
	s.LastSaved = last
	s.UpdatedAt = time.Now()
}
