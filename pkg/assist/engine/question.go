package engine

import (
	"context"
	"strings"

	"github.com/ranajunaid001/second-braind-junaid/pkg/assist/person"
	"github.com/ranajunaid001/second-braind-junaid/pkg/ledger"
	"github.com/ranajunaid001/second-braind-junaid/pkg/store"
)

var interrogatives = map[string]bool{
	"who": true, "whos": true, "who's": true,
	"what": true, "whats": true, "what's": true,
	"when": true, "where": true, "why": true, "how": true, "which": true,
	"did": true, "does": true, "do": true,
	"is": true, "are": true, "was": true, "were": true,
	"has": true, "have": true, "should": true, "can": true,
}

// looksLikeQuestion is the cheap filter run before the people scan: a
// trailing question mark or an interrogative opening word.
func looksLikeQuestion(text string) bool {
	t := strings.TrimSpace(text)
	if strings.HasSuffix(t, "?") {
		return true
	}
	tokens := strings.Fields(strings.ToLower(t))
	if len(tokens) == 0 {
		return false
	}
	return interrogatives[strings.Trim(tokens[0], ".,!?;:\"'")]
}

// answerPersonQuestion claims messages that ask about a stored person. ok is
// false when the message names nobody we know and normal handling should
// continue.
func (e *Engine) answerPersonQuestion(ctx context.Context, session *store.Session, text string) (Result, bool) {
	if !looksLikeQuestion(text) {
		return Result{}, false
	}

	people, err := e.ledger.ListActive(ctx, ledger.BucketPeople)
	if err != nil {
		e.logger.Printf("[WARN] people scan for question: %v", err)
		return Result{}, false
	}

	matches := peopleNamed(text, people)
	if len(matches) == 0 {
		return Result{}, false
	}

	candidates := candidatesOf(matches)
	if len(candidates) == 1 {
		return e.answerAbout(ctx, session, text, candidates[0]), true
	}

	session.SetPending(&store.PendingInteraction{
		Kind:             store.PendingPersonQuestion,
		OriginalQuestion: text,
		Candidates:       candidates,
	})
	return Result{Reply: formatWhoMenu(matches[0].Name(), candidates)}, true
}

// answerAbout resolves a person question against one chosen record. The
// pending slot is cleared first; a missing question or a model failure
// degrades to the plain person card.
func (e *Engine) answerAbout(ctx context.Context, session *store.Session, question string, cand store.Candidate) Result {
	session.ClearPending()

	if question == "" || e.presenter == nil {
		return Result{Reply: person.FormatCard(cand.Record)}
	}

	answer, err := e.presenter.PersonAnswer(ctx, question, cand.Record)
	if err != nil {
		e.logger.Printf("[WARN] person answer: %v", err)
	}
	if err != nil || strings.TrimSpace(answer) == "" {
		return Result{Reply: person.FormatCard(cand.Record)}
	}
	return Result{Reply: answer}
}

// peopleNamed returns the active people whose stored name occurs in the
// question on word boundaries, case-insensitive.
func peopleNamed(text string, people []ledger.Record) []ledger.Record {
	lower := strings.ToLower(text)
	var matches []ledger.Record
	for _, rec := range people {
		if rec.Archived {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(rec.Name()))
		if name == "" {
			continue
		}
		if containsPhrase(lower, name) {
			matches = append(matches, rec)
			continue
		}
		// The first name alone counts too, so "how is Sarah?" still finds
		// "Sarah Chen". Tokens of one or two letters stay full-name only.
		if first, _, ok := strings.Cut(name, " "); ok && len(first) > 2 && containsPhrase(lower, first) {
			matches = append(matches, rec)
		}
	}
	return matches
}

// containsPhrase reports whether phrase occurs in s bounded by non-letters
// on both sides, so "Ann" never matches inside "planning".
func containsPhrase(s, phrase string) bool {
	for start := 0; start <= len(s)-len(phrase); {
		i := strings.Index(s[start:], phrase)
		if i < 0 {
			return false
		}
		i += start
		boundedLeft := i == 0 || !isLetter(s[i-1])
		end := i + len(phrase)
		boundedRight := end >= len(s) || !isLetter(s[end])
		if boundedLeft && boundedRight {
			return true
		}
		start = i + 1
	}
	return false
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
