// Package engine drives the conversation: one inbound message in, one reply
// out, with at most one pending disambiguation per chat in between.
package engine

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/ranajunaid001/second-braind-junaid/internal/constant"
	"github.com/ranajunaid001/second-braind-junaid/pkg/assist/classify"
	"github.com/ranajunaid001/second-braind-junaid/pkg/assist/identify"
	"github.com/ranajunaid001/second-braind-junaid/pkg/ledger"
	"github.com/ranajunaid001/second-braind-junaid/pkg/store"
)

// SessionRepository holds the ephemeral per-chat sessions. Find returns nil
// when the chat has no session yet.
type SessionRepository interface {
	Find(chatID string) *store.Session
	Save(session *store.Session)
}

// Presenter renders stored records into chat replies, usually through the
// language model. Both methods may fail; the engine degrades to plain
// formatting instead of surfacing the error.
type Presenter interface {
	TopItems(ctx context.Context, bucket ledger.Bucket, records []ledger.Record) (string, error)
	PersonAnswer(ctx context.Context, question string, record ledger.Record) (string, error)
}

// Digester builds the pending-actions digest used by "top all".
type Digester interface {
	Digest(ctx context.Context) (string, error)
}

// SearchHit is one semantic-search result for the find command.
type SearchHit struct {
	Bucket  ledger.Bucket
	Title   string
	Snippet string
	Score   float64
}

// Searcher answers find queries over previously saved entries.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]SearchHit, error)
}

// SavedEntry reports a persistence side effect so the caller can publish it.
type SavedEntry struct {
	Ref        ledger.RecordRef
	Bucket     ledger.Bucket
	Title      string
	Text       string
	MessageRef string
	Merged     bool
	Confidence float64
}

// Correction reports a bucket change (fix command or correction reply).
type Correction struct {
	MessageRef string
	From       ledger.Bucket
	To         ledger.Bucket
	Text       string
}

// Result is the outcome of handling one inbound message. Reply may be empty
// (nothing to send). Saved and Correction are set only when the message
// caused that side effect.
type Result struct {
	Reply      string
	Saved      *SavedEntry
	Correction *Correction
}

// Config carries the hand-tuned thresholds. Zero values take the defaults.
type Config struct {
	ConfidenceThreshold float64
	MatchThreshold      float64
}

func (c Config) withDefaults() Config {
	if c.ConfidenceThreshold == 0 {
		c.ConfidenceThreshold = classify.DefaultConfidenceThreshold
	}
	if c.MatchThreshold == 0 {
		c.MatchThreshold = 0.8
	}
	return c
}

// Engine is the conversation state machine. Message handling is serialized
// per chat id; different chats run independently.
type Engine struct {
	gateway   classify.Gateway
	ledger    ledger.Store
	sessions  SessionRepository
	presenter Presenter
	digester  Digester
	searcher  Searcher
	config    Config
	logger    *log.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(
	gateway classify.Gateway,
	ledgerStore ledger.Store,
	sessions SessionRepository,
	presenter Presenter,
	digester Digester,
	searcher Searcher,
	config Config,
	logger *log.Logger,
) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{
		gateway:   gateway,
		ledger:    ledgerStore,
		sessions:  sessions,
		presenter: presenter,
		digester:  digester,
		searcher:  searcher,
		config:    config.withDefaults(),
		logger:    logger,
	}
}

// HandleMessage processes one inbound message for a chat and returns the
// reply plus any side effects. It never returns an error; every failure
// resolves to a user-visible reply or a silent state transition.
func (e *Engine) HandleMessage(ctx context.Context, chatID, messageRef, text string) Result {
	lock := e.chatLock(chatID)
	lock.Lock()
	defer lock.Unlock()

	session := e.sessions.Find(chatID)
	if session == nil {
		session = store.NewSession(chatID)
	}

	result := e.handle(ctx, session, messageRef, text)
	e.sessions.Save(session)
	return result
}

func (e *Engine) chatLock(chatID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.locks == nil {
		e.locks = make(map[string]*sync.Mutex)
	}
	if _, ok := e.locks[chatID]; !ok {
		e.locks[chatID] = &sync.Mutex{}
	}
	return e.locks[chatID]
}

func (e *Engine) handle(ctx context.Context, session *store.Session, messageRef, text string) Result {
	if strings.TrimSpace(text) == "" {
		return Result{}
	}

	if session.Pending != nil {
		switch session.Pending.Kind {
		case store.PendingBucketCorrection:
			return e.resumeBucketCorrection(ctx, session, messageRef, text)
		case store.PendingMergeDecision:
			return e.resumeMergeDecision(ctx, session, messageRef, text)
		case store.PendingPersonQuestion:
			return e.resumePersonQuestion(ctx, session, messageRef, text)
		}
		// Unknown kind, drop the slot rather than wedge the chat.
		session.ClearPending()
	}

	return e.dispatch(ctx, session, messageRef, text)
}

// dispatch is the Idle branch: commands first, then person questions, then
// classification. Abandoned pending slots re-enter here with the same text.
func (e *Engine) dispatch(ctx context.Context, session *store.Session, messageRef, text string) Result {
	if result, ok := e.runCommand(ctx, session, text); ok {
		return result
	}
	if result, ok := e.answerPersonQuestion(ctx, session, text); ok {
		return result
	}
	return e.fileMessage(ctx, session, messageRef, text)
}

// fileMessage classifies and routes a plain message. Gateway failure
// degrades to the deterministic fallback classification, never to an error.
func (e *Engine) fileMessage(ctx context.Context, session *store.Session, messageRef, text string) Result {
	c, err := e.gateway.Classify(ctx, text)
	if err != nil {
		e.logger.Printf("[WARN] classification failed, using fallback: %v", err)
		c = classify.Fallback(text)
	}
	return e.routeClassification(ctx, session, messageRef, text, c)
}

func (e *Engine) routeClassification(ctx context.Context, session *store.Session, messageRef, text string, c ledger.Classification) Result {
	if classify.NeedsConfirmation(c.Confidence, e.config.ConfidenceThreshold) {
		session.SetPending(&store.PendingInteraction{
			Kind:           store.PendingBucketCorrection,
			OriginalText:   text,
			Classification: c,
			MessageRef:     messageRef,
		})
		return Result{Reply: formatUnsure(text, c)}
	}

	if c.Bucket == ledger.BucketPeople {
		if name := fieldsName(c.Fields); name != "" {
			return e.routePerson(ctx, session, messageRef, text, c, name)
		}
	}

	return e.persistNew(ctx, session, messageRef, text, c, false)
}

// routePerson runs duplicate detection before filing a person.
func (e *Engine) routePerson(ctx context.Context, session *store.Session, messageRef, text string, c ledger.Classification, name string) Result {
	matches, err := e.ledger.FindSimilar(ctx, name)
	if err != nil {
		e.logger.Printf("[ERROR] duplicate search for %q: %v", name, err)
		return Result{Reply: constant.ReplySaveError}
	}

	if len(matches) == 0 {
		return e.persistNew(ctx, session, messageRef, text, c, false)
	}

	candidates := candidatesOf(matches)
	pending := &store.PendingInteraction{
		Kind:           store.PendingMergeDecision,
		OriginalText:   text,
		Classification: c,
		MessageRef:     messageRef,
		Candidates:     candidates,
	}

	if len(candidates) == 1 {
		pending.Preselected = &candidates[0]
		session.SetPending(pending)
		return Result{Reply: formatMergeSingle(candidates[0])}
	}

	session.SetPending(pending)
	return Result{Reply: formatMergeMenu(name, candidates)}
}

// persistNew files a brand-new record. On store failure the pending slot is
// left untouched so the user can retry the same confirmation.
func (e *Engine) persistNew(ctx context.Context, session *store.Session, messageRef, text string, c ledger.Classification, corrected bool) Result {
	ref, err := e.ledger.CreateRecord(ctx, c.Bucket, c.Fields, messageRef)
	if err != nil {
		e.logger.Printf("[ERROR] create record in %s: %v", c.Bucket, err)
		return Result{Reply: constant.ReplySaveError}
	}

	session.ClearPending()
	session.RememberSaved(&store.LastSaved{
		MessageRef:     messageRef,
		Ref:            ref,
		Bucket:         c.Bucket,
		OriginalText:   text,
		Classification: c,
		SavedAt:        time.Now(),
	})

	title := entryTitle(c.Fields, text)
	reply := formatFiled(c, title)
	if corrected {
		reply = formatCorrected(c, title)
	}

	return Result{
		Reply: reply,
		Saved: &SavedEntry{
			Ref:        ref,
			Bucket:     c.Bucket,
			Title:      title,
			Text:       text,
			MessageRef: messageRef,
			Confidence: c.Confidence,
		},
	}
}

// mergeInto appends the pending message to an existing person row.
func (e *Engine) mergeInto(ctx context.Context, session *store.Session, candidate store.Candidate) Result {
	p := session.Pending
	err := e.ledger.AppendNote(ctx, candidate.Record.Ref, p.OriginalText, p.Classification.Fields, p.MessageRef)
	if err != nil {
		e.logger.Printf("[ERROR] append note to %s: %v", candidate.Record.Ref, err)
		return Result{Reply: constant.ReplySaveError}
	}

	saved := &SavedEntry{
		Ref:        candidate.Record.Ref,
		Bucket:     ledger.BucketPeople,
		Title:      candidate.Record.Name(),
		Text:       p.OriginalText,
		MessageRef: p.MessageRef,
		Merged:     true,
		Confidence: p.Classification.Confidence,
	}
	session.ClearPending()

	return Result{
		Reply: formatMerged(candidate.Record.Name()),
		Saved: saved,
	}
}

func candidatesOf(records []ledger.Record) []store.Candidate {
	candidates := make([]store.Candidate, 0, len(records))
	for _, rec := range records {
		candidates = append(candidates, store.Candidate{
			Record:     rec,
			Identifier: identify.Extract(rec.Context()),
		})
	}
	return candidates
}

func fieldsName(f ledger.Fields) string {
	if pf, ok := f.(ledger.PersonFields); ok {
		return strings.TrimSpace(pf.Name)
	}
	return ""
}
