package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/ranajunaid001/second-braind-junaid/pkg/assist/match"
	"github.com/ranajunaid001/second-braind-junaid/pkg/ledger"
	"github.com/ranajunaid001/second-braind-junaid/pkg/store"
)

type fakeGateway struct {
	result      ledger.Classification
	byText      map[string]ledger.Classification
	classifyErr error
	extracted   ledger.Fields
	extractErr  error
	classified  []string
	extractions []string
}

func (g *fakeGateway) Classify(ctx context.Context, text string) (ledger.Classification, error) {
	g.classified = append(g.classified, text)
	if g.classifyErr != nil {
		return ledger.Classification{}, g.classifyErr
	}
	if c, ok := g.byText[text]; ok {
		return c, nil
	}
	return g.result, nil
}

func (g *fakeGateway) ExtractFields(ctx context.Context, text string, bucket ledger.Bucket) (ledger.Fields, error) {
	g.extractions = append(g.extractions, string(bucket))
	if g.extractErr != nil {
		return nil, g.extractErr
	}
	if g.extracted != nil {
		return g.extracted, nil
	}
	return ledger.EmptyFields(bucket)
}

type createCall struct {
	bucket     ledger.Bucket
	fields     ledger.Fields
	messageRef string
}

type appendCall struct {
	ref        ledger.RecordRef
	text       string
	messageRef string
}

type removeCall struct {
	bucket     ledger.Bucket
	messageRef string
}

type fakeLedger struct {
	people    []ledger.Record
	listed    map[ledger.Bucket][]ledger.Record
	findErr   error
	listErr   error
	createErr error
	appendErr error
	removeErr error
	created   []createCall
	appended  []appendCall
	removed   []removeCall
}

func (l *fakeLedger) CreateRecord(ctx context.Context, bucket ledger.Bucket, fields ledger.Fields, messageRef string) (ledger.RecordRef, error) {
	if l.createErr != nil {
		return "", l.createErr
	}
	l.created = append(l.created, createCall{bucket: bucket, fields: fields, messageRef: messageRef})
	return ledger.RecordRef(fmt.Sprintf("row-%d", len(l.created))), nil
}

func (l *fakeLedger) AppendNote(ctx context.Context, ref ledger.RecordRef, text string, fields ledger.Fields, messageRef string) error {
	if l.appendErr != nil {
		return l.appendErr
	}
	l.appended = append(l.appended, appendCall{ref: ref, text: text, messageRef: messageRef})
	return nil
}

func (l *fakeLedger) ListActive(ctx context.Context, bucket ledger.Bucket) ([]ledger.Record, error) {
	if l.listErr != nil {
		return nil, l.listErr
	}
	return l.listed[bucket], nil
}

func (l *fakeLedger) FindSimilar(ctx context.Context, name string) ([]ledger.Record, error) {
	if l.findErr != nil {
		return nil, l.findErr
	}
	return match.FindCandidates(name, l.people, match.DefaultThreshold), nil
}

func (l *fakeLedger) Get(ctx context.Context, ref ledger.RecordRef) (*ledger.Record, error) {
	for _, rec := range l.people {
		if rec.Ref == ref {
			return &rec, nil
		}
	}
	return nil, nil
}

func (l *fakeLedger) Remove(ctx context.Context, bucket ledger.Bucket, messageRef string) error {
	if l.removeErr != nil {
		return l.removeErr
	}
	l.removed = append(l.removed, removeCall{bucket: bucket, messageRef: messageRef})
	return nil
}

type memSessions struct {
	m map[string]*store.Session
}

func (s *memSessions) Find(chatID string) *store.Session { return s.m[chatID] }
func (s *memSessions) Save(sess *store.Session)          { s.m[sess.ChatID] = sess }

type fakePresenter struct {
	topReply  string
	topErr    error
	answer    string
	answerErr error
	topCalls  int
	questions []string
}

func (p *fakePresenter) TopItems(ctx context.Context, bucket ledger.Bucket, records []ledger.Record) (string, error) {
	p.topCalls++
	return p.topReply, p.topErr
}

func (p *fakePresenter) PersonAnswer(ctx context.Context, question string, record ledger.Record) (string, error) {
	p.questions = append(p.questions, question)
	return p.answer, p.answerErr
}

type fakeDigester struct {
	digest string
	err    error
	calls  int
}

func (d *fakeDigester) Digest(ctx context.Context) (string, error) {
	d.calls++
	return d.digest, d.err
}

type fakeSearcher struct {
	hits    []SearchHit
	err     error
	queries []string
}

func (s *fakeSearcher) Search(ctx context.Context, query string, limit int) ([]SearchHit, error) {
	s.queries = append(s.queries, query)
	return s.hits, s.err
}

type testEnv struct {
	engine    *Engine
	gateway   *fakeGateway
	ledger    *fakeLedger
	sessions  *memSessions
	presenter *fakePresenter
	digester  *fakeDigester
	searcher  *fakeSearcher
	msgSeq    int
}

func newTestEnv() *testEnv {
	env := &testEnv{
		gateway:   &fakeGateway{},
		ledger:    &fakeLedger{listed: make(map[ledger.Bucket][]ledger.Record)},
		sessions:  &memSessions{m: make(map[string]*store.Session)},
		presenter: &fakePresenter{},
		digester:  &fakeDigester{},
		searcher:  &fakeSearcher{},
	}
	env.engine = New(
		env.gateway,
		env.ledger,
		env.sessions,
		env.presenter,
		env.digester,
		env.searcher,
		Config{},
		log.New(io.Discard, "", 0),
	)
	return env
}

func (env *testEnv) addPerson(ref, name, personContext string) {
	rec := ledger.Record{
		Ref:    ledger.RecordRef(ref),
		Bucket: ledger.BucketPeople,
		Fields: ledger.PersonFields{Name: name, Context: personContext},
	}
	env.ledger.people = append(env.ledger.people, rec)
	env.ledger.listed[ledger.BucketPeople] = append(env.ledger.listed[ledger.BucketPeople], rec)
}

func (env *testEnv) handle(chatID, text string) Result {
	env.msgSeq++
	return env.engine.HandleMessage(context.Background(), chatID, fmt.Sprintf("m%d", env.msgSeq), text)
}

func (env *testEnv) pending(chatID string) *store.PendingInteraction {
	sess := env.sessions.m[chatID]
	if sess == nil {
		return nil
	}
	return sess.Pending
}

func classification(bucket ledger.Bucket, confidence float64, fields ledger.Fields) ledger.Classification {
	return ledger.Classification{Bucket: bucket, Confidence: confidence, Fields: fields}
}

func TestNewPersonFiledImmediately(t *testing.T) {
	env := newTestEnv()
	env.gateway.result = classification(ledger.BucketPeople, 0.9, ledger.PersonFields{Name: "Julia", Context: "traveling to Paris next week"})

	result := env.handle("chat1", "Julia is traveling to Paris next week")

	if len(env.ledger.created) != 1 {
		t.Fatalf("created %d records, want 1", len(env.ledger.created))
	}
	if env.ledger.created[0].bucket != ledger.BucketPeople {
		t.Errorf("created bucket = %q, want people", env.ledger.created[0].bucket)
	}
	if !strings.Contains(result.Reply, "Filed as: People") || !strings.Contains(result.Reply, "Julia") {
		t.Errorf("reply = %q", result.Reply)
	}
	if env.pending("chat1") != nil {
		t.Errorf("session should stay idle after an immediate save")
	}
	if result.Saved == nil || result.Saved.Merged {
		t.Errorf("Saved = %+v, want a non-merged side effect", result.Saved)
	}
}

func TestLowConfidenceCorrectionResolved(t *testing.T) {
	env := newTestEnv()
	env.gateway.byText = map[string]ledger.Classification{
		"weird ambiguous thing": classification(ledger.BucketIdeas, 0.45, ledger.IdeaFields{Idea: "Ambiguous"}),
	}
	env.gateway.extracted = ledger.ThingFields{Task: "Weird ambiguous thing", Status: "Open"}

	first := env.handle("chat1", "weird ambiguous thing")
	if !strings.Contains(first.Reply, "Not sure about this one") {
		t.Fatalf("first reply = %q", first.Reply)
	}
	p := env.pending("chat1")
	if p == nil || p.Kind != store.PendingBucketCorrection {
		t.Fatalf("pending = %+v, want bucket correction", p)
	}

	second := env.handle("chat1", "things")
	if len(env.ledger.created) != 1 {
		t.Fatalf("created %d records, want 1", len(env.ledger.created))
	}
	if env.ledger.created[0].bucket != ledger.BucketThings {
		t.Errorf("created bucket = %q, want things", env.ledger.created[0].bucket)
	}
	if env.ledger.created[0].messageRef != "m1" {
		t.Errorf("created messageRef = %q, want original m1", env.ledger.created[0].messageRef)
	}
	if !strings.Contains(second.Reply, "Corrected and filed as: Things") {
		t.Errorf("second reply = %q", second.Reply)
	}
	if second.Correction == nil || second.Correction.From != ledger.BucketIdeas || second.Correction.To != ledger.BucketThings {
		t.Errorf("correction = %+v", second.Correction)
	}
	if env.pending("chat1") != nil {
		t.Errorf("pending should be cleared after resolution")
	}
	if sess := env.sessions.m["chat1"]; sess.LastSaved == nil || sess.LastSaved.Classification.Confidence != 1.0 {
		t.Errorf("last saved = %+v, want confidence forced to 1.0", sess.LastSaved)
	}
}

func TestCorrectionAbandonedOnUnrelatedReply(t *testing.T) {
	env := newTestEnv()
	env.gateway.byText = map[string]ledger.Classification{
		"weird ambiguous thing": classification(ledger.BucketIdeas, 0.45, ledger.IdeaFields{Idea: "Ambiguous"}),
		"banana":                classification(ledger.BucketThings, 0.9, ledger.ThingFields{Task: "Banana"}),
	}

	env.handle("chat1", "weird ambiguous thing")
	result := env.handle("chat1", "banana")

	if got := env.gateway.classified; len(got) != 2 || got[1] != "banana" {
		t.Fatalf("classified = %v, want the abandoned reply re-dispatched", got)
	}
	if len(env.ledger.created) != 1 || env.ledger.created[0].bucket != ledger.BucketThings {
		t.Errorf("created = %+v, want banana filed under things", env.ledger.created)
	}
	if !strings.Contains(result.Reply, "Filed as: Things") {
		t.Errorf("reply = %q", result.Reply)
	}
	if env.pending("chat1") != nil {
		t.Errorf("pending should be gone after abandonment")
	}
}

func TestConfidenceThresholdBoundary(t *testing.T) {
	env := newTestEnv()
	env.gateway.byText = map[string]ledger.Classification{
		"at threshold":    classification(ledger.BucketThings, 0.6, ledger.ThingFields{Task: "A"}),
		"above threshold": classification(ledger.BucketThings, 0.61, ledger.ThingFields{Task: "B"}),
	}

	env.handle("chat1", "at threshold")
	if p := env.pending("chat1"); p == nil || p.Kind != store.PendingBucketCorrection {
		t.Errorf("confidence equal to the threshold must ask for confirmation")
	}

	env.handle("chat2", "above threshold")
	if env.pending("chat2") != nil {
		t.Errorf("confidence above the threshold must file immediately")
	}
}

func TestGatewayFailureFallsBackToCatchAll(t *testing.T) {
	env := newTestEnv()
	env.gateway.classifyErr = errors.New("model unreachable")

	result := env.handle("chat1", "remind me about taxes")

	if !strings.Contains(result.Reply, "My guess: Things (30%)") {
		t.Errorf("reply = %q, want the fallback guess surfaced", result.Reply)
	}
	p := env.pending("chat1")
	if p == nil || p.Kind != store.PendingBucketCorrection {
		t.Fatalf("pending = %+v, want bucket correction from the fallback", p)
	}
	if p.Classification.Bucket != ledger.BucketThings || p.Classification.Confidence != 0.3 {
		t.Errorf("fallback classification = %+v", p.Classification)
	}
}

func TestMergeSingleCandidateConfirm(t *testing.T) {
	env := newTestEnv()
	env.addPerson("row-9", "Alex", "works at Google")
	env.gateway.result = classification(ledger.BucketPeople, 0.9, ledger.PersonFields{Name: "Alex", Context: "mentioned a new job"})

	first := env.handle("chat1", "Alex mentioned a new job")
	if !strings.Contains(first.Reply, `You already have "Alex" (from Google)`) {
		t.Fatalf("first reply = %q", first.Reply)
	}
	p := env.pending("chat1")
	if p == nil || p.Kind != store.PendingMergeDecision || p.Preselected == nil {
		t.Fatalf("pending = %+v, want merge decision with preselected candidate", p)
	}

	second := env.handle("chat1", "yes")
	if len(env.ledger.appended) != 1 {
		t.Fatalf("appended %d notes, want 1", len(env.ledger.appended))
	}
	got := env.ledger.appended[0]
	if got.ref != "row-9" || got.text != "Alex mentioned a new job" || got.messageRef != "m1" {
		t.Errorf("append call = %+v", got)
	}
	if !strings.Contains(second.Reply, "Added to Alex's notes") {
		t.Errorf("second reply = %q", second.Reply)
	}
	if second.Saved == nil || !second.Saved.Merged {
		t.Errorf("Saved = %+v, want merged side effect", second.Saved)
	}
	if env.pending("chat1") != nil {
		t.Errorf("pending should be cleared after merge")
	}
}

func TestMergeSingleCandidateDeny(t *testing.T) {
	env := newTestEnv()
	env.addPerson("row-9", "Alex", "works at Google")
	env.gateway.result = classification(ledger.BucketPeople, 0.9, ledger.PersonFields{Name: "Alex", Context: "from the gym"})

	env.handle("chat1", "met another Alex at the gym")
	result := env.handle("chat1", "no")

	if len(env.ledger.appended) != 0 {
		t.Fatalf("deny must never reach the merge path, appended = %+v", env.ledger.appended)
	}
	if len(env.ledger.created) != 1 || env.ledger.created[0].bucket != ledger.BucketPeople {
		t.Fatalf("created = %+v, want one new person", env.ledger.created)
	}
	if !strings.Contains(result.Reply, "Filed as: People") {
		t.Errorf("reply = %q", result.Reply)
	}
	if env.pending("chat1") != nil {
		t.Errorf("pending should be cleared after deny")
	}
}

func TestMergeMenuSelections(t *testing.T) {
	setup := func(t *testing.T) *testEnv {
		t.Helper()
		env := newTestEnv()
		env.addPerson("row-1", "Alex", "works at Google")
		env.addPerson("row-2", "Alex", "your roommate")
		env.gateway.result = classification(ledger.BucketPeople, 0.9, ledger.PersonFields{Name: "Alex", Context: "said hi"})
		first := env.handle("chat1", "Alex said hi")
		if !strings.Contains(first.Reply, `I found 2 people named "Alex"`) {
			t.Fatalf("menu reply = %q", first.Reply)
		}
		return env
	}

	t.Run("numeric selection merges into the second candidate", func(t *testing.T) {
		env := setup(t)
		env.handle("chat1", "2")
		if len(env.ledger.appended) != 1 || env.ledger.appended[0].ref != "row-2" {
			t.Errorf("appended = %+v, want row-2", env.ledger.appended)
		}
	})

	t.Run("identifier word merges into the matching candidate", func(t *testing.T) {
		env := setup(t)
		env.handle("chat1", "google")
		if len(env.ledger.appended) != 1 || env.ledger.appended[0].ref != "row-1" {
			t.Errorf("appended = %+v, want row-1", env.ledger.appended)
		}
	})

	t.Run("new creates a separate record", func(t *testing.T) {
		env := setup(t)
		env.handle("chat1", "new")
		if len(env.ledger.appended) != 0 {
			t.Errorf("appended = %+v, want none", env.ledger.appended)
		}
		if len(env.ledger.created) != 1 {
			t.Errorf("created = %+v, want one new person", env.ledger.created)
		}
	})

	t.Run("out of range number re-prompts and keeps the menu", func(t *testing.T) {
		env := setup(t)
		result := env.handle("chat1", "7")
		if !strings.Contains(result.Reply, "between 1 and 2") {
			t.Errorf("reply = %q", result.Reply)
		}
		if p := env.pending("chat1"); p == nil || p.Kind != store.PendingMergeDecision {
			t.Errorf("pending = %+v, want the menu preserved", p)
		}
	})

	t.Run("bare yes cannot pick between several candidates", func(t *testing.T) {
		env := setup(t)
		result := env.handle("chat1", "yes")
		if !strings.Contains(result.Reply, "between 1 and 2") {
			t.Errorf("reply = %q", result.Reply)
		}
		if len(env.ledger.appended) != 0 {
			t.Errorf("appended = %+v, want none", env.ledger.appended)
		}
	})

	t.Run("unrelated reply abandons the menu and is classified fresh", func(t *testing.T) {
		env := setup(t)
		env.gateway.byText = map[string]ledger.Classification{
			"buy milk": classification(ledger.BucketThings, 0.9, ledger.ThingFields{Task: "Buy milk"}),
		}
		env.handle("chat1", "buy milk")
		if len(env.ledger.created) != 1 || env.ledger.created[0].bucket != ledger.BucketThings {
			t.Errorf("created = %+v, want buy milk under things", env.ledger.created)
		}
		if env.pending("chat1") != nil {
			t.Errorf("pending should be gone after abandonment")
		}
	})
}

func TestMergeStoreFailureKeepsPendingForRetry(t *testing.T) {
	env := newTestEnv()
	env.addPerson("row-9", "Alex", "works at Google")
	env.gateway.result = classification(ledger.BucketPeople, 0.9, ledger.PersonFields{Name: "Alex"})

	env.handle("chat1", "Alex got promoted")

	env.ledger.appendErr = errors.New("write failed")
	failed := env.handle("chat1", "yes")
	if !strings.Contains(failed.Reply, "Error saving") {
		t.Fatalf("reply = %q, want the generic saving error", failed.Reply)
	}
	if p := env.pending("chat1"); p == nil || p.Kind != store.PendingMergeDecision {
		t.Fatalf("pending = %+v, must survive the store failure", p)
	}

	env.ledger.appendErr = nil
	retried := env.handle("chat1", "yes")
	if len(env.ledger.appended) != 1 {
		t.Fatalf("appended = %+v, want the retry to land", env.ledger.appended)
	}
	if !strings.Contains(retried.Reply, "Added to Alex's notes") {
		t.Errorf("retry reply = %q", retried.Reply)
	}
}

func TestCorrectionStoreFailureKeepsPendingForRetry(t *testing.T) {
	env := newTestEnv()
	env.gateway.result = classification(ledger.BucketIdeas, 0.4, ledger.IdeaFields{Idea: "Vague"})

	env.handle("chat1", "something vague")

	env.ledger.createErr = errors.New("write failed")
	failed := env.handle("chat1", "ideas")
	if !strings.Contains(failed.Reply, "Error saving") {
		t.Fatalf("reply = %q", failed.Reply)
	}
	if env.pending("chat1") == nil {
		t.Fatalf("pending must survive the store failure")
	}

	env.ledger.createErr = nil
	env.handle("chat1", "ideas")
	if len(env.ledger.created) != 1 {
		t.Errorf("created = %+v, want the retry to land", env.ledger.created)
	}
	if env.pending("chat1") != nil {
		t.Errorf("pending should clear once the retry succeeds")
	}
}

func TestPersonWithoutNameSkipsDuplicateSearch(t *testing.T) {
	env := newTestEnv()
	env.addPerson("row-1", "Alex", "works at Google")
	env.gateway.result = classification(ledger.BucketPeople, 0.9, ledger.PersonFields{Context: "someone from the meetup"})

	env.handle("chat1", "someone from the meetup was nice")

	if len(env.ledger.created) != 1 {
		t.Errorf("created = %+v, want a direct save", env.ledger.created)
	}
	if env.pending("chat1") != nil {
		t.Errorf("no merge prompt without a name")
	}
}

func TestWhoCommand(t *testing.T) {
	t.Run("no match", func(t *testing.T) {
		env := newTestEnv()
		result := env.handle("chat1", "who Zed")
		if result.Reply != "No one found matching 'Zed'." {
			t.Errorf("reply = %q", result.Reply)
		}
	})

	t.Run("single match renders the card", func(t *testing.T) {
		env := newTestEnv()
		env.addPerson("row-1", "Sarah", "works at Stripe")
		result := env.handle("chat1", "who sarah")
		if !strings.Contains(result.Reply, "👤 Sarah") {
			t.Errorf("reply = %q", result.Reply)
		}
		if len(env.presenter.questions) != 0 {
			t.Errorf("who must not consult the model")
		}
	})

	t.Run("several matches offer a menu and the pick shows the card", func(t *testing.T) {
		env := newTestEnv()
		env.addPerson("row-1", "Sarah", "works at Stripe")
		env.addPerson("row-2", "Sarah", "your neighbor")
		first := env.handle("chat1", "who sarah")
		if !strings.Contains(first.Reply, "Found 2 people matching") {
			t.Fatalf("menu reply = %q", first.Reply)
		}
		second := env.handle("chat1", "1")
		if !strings.Contains(second.Reply, "👤 Sarah") || !strings.Contains(second.Reply, "works at Stripe") {
			t.Errorf("card reply = %q", second.Reply)
		}
		if len(env.presenter.questions) != 0 {
			t.Errorf("menu pick without a question must not consult the model")
		}
		if env.pending("chat1") != nil {
			t.Errorf("pending should clear after the pick")
		}
	})
}

func TestPersonQuestionAnswered(t *testing.T) {
	env := newTestEnv()
	env.addPerson("row-1", "Sarah", "works at Stripe")
	env.presenter.answer = "Sarah mentioned the offer closes Friday."

	result := env.handle("chat1", "what did Sarah say about the offer?")

	if result.Reply != "Sarah mentioned the offer closes Friday." {
		t.Errorf("reply = %q", result.Reply)
	}
	if len(env.presenter.questions) != 1 || !strings.Contains(env.presenter.questions[0], "offer") {
		t.Errorf("questions = %v", env.presenter.questions)
	}
	if len(env.gateway.classified) != 0 {
		t.Errorf("a claimed question must not be classified, got %v", env.gateway.classified)
	}
}

func TestPersonQuestionModelFailureFallsBackToCard(t *testing.T) {
	env := newTestEnv()
	env.addPerson("row-1", "Sarah", "works at Stripe")
	env.presenter.answerErr = errors.New("model unreachable")

	result := env.handle("chat1", "what did Sarah say?")

	if !strings.Contains(result.Reply, "👤 Sarah") {
		t.Errorf("reply = %q, want the plain card fallback", result.Reply)
	}
}

func TestPersonQuestionMatchesFirstName(t *testing.T) {
	env := newTestEnv()
	env.addPerson("row-1", "Sarah Chen", "works at Stripe")
	env.presenter.answer = "She works at Stripe."

	result := env.handle("chat1", "where does Sarah work?")

	if result.Reply != "She works at Stripe." {
		t.Errorf("reply = %q, want the answer for the stored full name", result.Reply)
	}
	if len(env.gateway.classified) != 0 {
		t.Errorf("first-name question must not be classified, got %v", env.gateway.classified)
	}
}

func TestPersonQuestionMenu(t *testing.T) {
	setup := func() *testEnv {
		env := newTestEnv()
		env.addPerson("row-1", "Sarah", "works at Stripe")
		env.addPerson("row-2", "Sarah", "your neighbor")
		env.presenter.answer = "She is on holiday."
		env.handle("chat1", "where is Sarah these days?")
		return env
	}

	t.Run("numeric pick answers from that candidate", func(t *testing.T) {
		env := setup()
		result := env.handle("chat1", "2")
		if result.Reply != "She is on holiday." {
			t.Errorf("reply = %q", result.Reply)
		}
		if len(env.presenter.questions) != 1 || !strings.Contains(env.presenter.questions[0], "where is Sarah") {
			t.Errorf("questions = %v, want the original question preserved", env.presenter.questions)
		}
	})

	t.Run("deny cancels", func(t *testing.T) {
		env := setup()
		result := env.handle("chat1", "no")
		if result.Reply != "Okay, cancelled." {
			t.Errorf("reply = %q", result.Reply)
		}
		if env.pending("chat1") != nil {
			t.Errorf("pending should be cleared on cancel")
		}
	})

	t.Run("identifier word picks the candidate", func(t *testing.T) {
		env := setup()
		result := env.handle("chat1", "the one from stripe")
		if result.Reply != "She is on holiday." {
			t.Errorf("reply = %q", result.Reply)
		}
	})

	t.Run("unrelated reply abandons and is handled fresh", func(t *testing.T) {
		env := setup()
		env.gateway.byText = map[string]ledger.Classification{
			"buy milk": classification(ledger.BucketThings, 0.9, ledger.ThingFields{Task: "Buy milk"}),
		}
		result := env.handle("chat1", "buy milk")
		if !strings.Contains(result.Reply, "Filed as: Things") {
			t.Errorf("reply = %q", result.Reply)
		}
		if env.pending("chat1") != nil {
			t.Errorf("pending should be gone after abandonment")
		}
	})
}

func TestTopCommand(t *testing.T) {
	t.Run("unknown table", func(t *testing.T) {
		env := newTestEnv()
		result := env.handle("chat1", "top banana")
		if !strings.Contains(result.Reply, "Unknown table") {
			t.Errorf("reply = %q", result.Reply)
		}
	})

	t.Run("empty bucket", func(t *testing.T) {
		env := newTestEnv()
		result := env.handle("chat1", "top ideas")
		if result.Reply != "Nothing in Ideas yet." {
			t.Errorf("reply = %q", result.Reply)
		}
	})

	t.Run("model formats the list", func(t *testing.T) {
		env := newTestEnv()
		env.ledger.listed[ledger.BucketThings] = []ledger.Record{
			{Fields: ledger.ThingFields{Task: "Renew passport"}},
		}
		env.presenter.topReply = "📌 Things:\n\n• Renew passport (due soon)"
		result := env.handle("chat1", "top things")
		if result.Reply != env.presenter.topReply {
			t.Errorf("reply = %q", result.Reply)
		}
	})

	t.Run("model failure degrades to plain bullets", func(t *testing.T) {
		env := newTestEnv()
		env.ledger.listed[ledger.BucketThings] = []ledger.Record{
			{Fields: ledger.ThingFields{Task: "Renew passport"}},
			{Fields: ledger.ThingFields{Task: "Call the bank"}},
		}
		env.presenter.topErr = errors.New("model unreachable")
		result := env.handle("chat1", "top things")
		if !strings.Contains(result.Reply, "📌 Things:") || !strings.Contains(result.Reply, "• Renew passport") {
			t.Errorf("reply = %q", result.Reply)
		}
	})

	t.Run("top all returns the digest", func(t *testing.T) {
		env := newTestEnv()
		env.digester.digest = "📋 Daily Digest\n\n• Prep the Stripe onsite"
		result := env.handle("chat1", "top all")
		if result.Reply != env.digester.digest {
			t.Errorf("reply = %q", result.Reply)
		}
		if env.digester.calls != 1 {
			t.Errorf("digest calls = %d, want 1", env.digester.calls)
		}
	})

	t.Run("table shortcut", func(t *testing.T) {
		env := newTestEnv()
		env.ledger.listed[ledger.BucketPeople] = []ledger.Record{
			{Fields: ledger.PersonFields{Name: "Sarah"}},
		}
		env.presenter.topErr = errors.New("model unreachable")
		result := env.handle("chat1", "top ppl")
		if !strings.Contains(result.Reply, "📌 People:") {
			t.Errorf("reply = %q", result.Reply)
		}
	})
}

func TestFixCommand(t *testing.T) {
	t.Run("refile moves the last saved entry", func(t *testing.T) {
		env := newTestEnv()
		env.gateway.result = classification(ledger.BucketThings, 0.9, ledger.ThingFields{Task: "Newsletter idea"})
		env.handle("chat1", "newsletter about hiring")

		env.gateway.extracted = ledger.IdeaFields{Idea: "Hiring newsletter"}
		result := env.handle("chat1", "fix ideas")

		if len(env.ledger.removed) != 1 || env.ledger.removed[0].bucket != ledger.BucketThings || env.ledger.removed[0].messageRef != "m1" {
			t.Fatalf("removed = %+v", env.ledger.removed)
		}
		if len(env.ledger.created) != 2 || env.ledger.created[1].bucket != ledger.BucketIdeas {
			t.Fatalf("created = %+v", env.ledger.created)
		}
		if result.Reply != "✓ Fixed. Moved from Things to Ideas." {
			t.Errorf("reply = %q", result.Reply)
		}
		if result.Correction == nil || result.Correction.From != ledger.BucketThings || result.Correction.To != ledger.BucketIdeas {
			t.Errorf("correction = %+v", result.Correction)
		}
		if sess := env.sessions.m["chat1"]; sess.LastSaved.Bucket != ledger.BucketIdeas {
			t.Errorf("last saved bucket = %q, want ideas so a second fix works", sess.LastSaved.Bucket)
		}
	})

	t.Run("nothing recent", func(t *testing.T) {
		env := newTestEnv()
		result := env.handle("chat1", "fix ideas")
		if !strings.Contains(result.Reply, "No recent message") {
			t.Errorf("reply = %q", result.Reply)
		}
	})

	t.Run("invalid bucket", func(t *testing.T) {
		env := newTestEnv()
		env.gateway.result = classification(ledger.BucketThings, 0.9, ledger.ThingFields{Task: "X"})
		env.handle("chat1", "do the thing")
		result := env.handle("chat1", "fix banana")
		if !strings.Contains(result.Reply, "Invalid category") {
			t.Errorf("reply = %q", result.Reply)
		}
	})

	t.Run("same bucket", func(t *testing.T) {
		env := newTestEnv()
		env.gateway.result = classification(ledger.BucketThings, 0.9, ledger.ThingFields{Task: "X"})
		env.handle("chat1", "do the thing")
		result := env.handle("chat1", "fix things")
		if result.Reply != "Already filed under Things." {
			t.Errorf("reply = %q", result.Reply)
		}
		if len(env.ledger.removed) != 0 {
			t.Errorf("removed = %+v, want untouched", env.ledger.removed)
		}
	})
}

func TestFindCommand(t *testing.T) {
	t.Run("hits are listed", func(t *testing.T) {
		env := newTestEnv()
		env.searcher.hits = []SearchHit{
			{Bucket: ledger.BucketIdeas, Title: "Hiring newsletter", Score: 0.91},
			{Bucket: ledger.BucketPeople, Title: "Sarah", Snippet: "works at Stripe", Score: 0.84},
		}
		result := env.handle("chat1", "find newsletter")
		if !strings.Contains(result.Reply, "🔎 Closest saved entries") {
			t.Errorf("reply = %q", result.Reply)
		}
		if !strings.Contains(result.Reply, "[Ideas] Hiring newsletter") {
			t.Errorf("reply = %q", result.Reply)
		}
		if env.searcher.queries[0] != "newsletter" {
			t.Errorf("queries = %v", env.searcher.queries)
		}
	})

	t.Run("no hits", func(t *testing.T) {
		env := newTestEnv()
		result := env.handle("chat1", "find flying cars")
		if result.Reply != "No saved entries matched 'flying cars'." {
			t.Errorf("reply = %q", result.Reply)
		}
	})
}

func TestEmptyMessageIgnored(t *testing.T) {
	env := newTestEnv()
	result := env.handle("chat1", "   ")
	if result.Reply != "" || result.Saved != nil {
		t.Errorf("result = %+v, want nothing", result)
	}
	if len(env.gateway.classified) != 0 {
		t.Errorf("blank input must not reach the classifier")
	}
}

func TestChatsAreIsolated(t *testing.T) {
	env := newTestEnv()
	env.gateway.result = classification(ledger.BucketIdeas, 0.4, ledger.IdeaFields{Idea: "Vague"})

	env.handle("chat1", "something vague")
	env.handle("chat2", "something vague")

	if env.pending("chat1") == nil || env.pending("chat2") == nil {
		t.Fatalf("both chats should hold their own pending slot")
	}

	env.handle("chat1", "ideas")
	if env.pending("chat1") != nil {
		t.Errorf("chat1 pending should be resolved")
	}
	if env.pending("chat2") == nil {
		t.Errorf("chat2 pending must be untouched by chat1 replies")
	}
}
