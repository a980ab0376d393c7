package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/ranajunaid001/second-braind-junaid/internal/constant"
	"github.com/ranajunaid001/second-braind-junaid/pkg/assist/confirm"
	"github.com/ranajunaid001/second-braind-junaid/pkg/ledger"
	"github.com/ranajunaid001/second-braind-junaid/pkg/store"
)

// resumeBucketCorrection consumes the reply to a low-confidence prompt. A
// valid bucket token resolves the filing with confidence forced to 1.0;
// anything else abandons the slot and the reply re-enters Idle dispatch as a
// fresh message.
func (e *Engine) resumeBucketCorrection(ctx context.Context, session *store.Session, messageRef, text string) Result {
	p := session.Pending

	bucket, ok := ledger.ParseBucket(text)
	if !ok {
		session.ClearPending()
		return e.dispatch(ctx, session, messageRef, text)
	}

	c := p.Classification
	var correction *Correction
	if bucket != c.Bucket {
		correction = &Correction{
			MessageRef: p.MessageRef,
			From:       c.Bucket,
			To:         bucket,
			Text:       p.OriginalText,
		}
		// The guessed fields belong to the guessed bucket; re-extract for
		// the one the user picked.
		fields, err := e.gateway.ExtractFields(ctx, p.OriginalText, bucket)
		if err != nil {
			e.logger.Printf("[WARN] field re-extraction for %s: %v", bucket, err)
			fields, _ = ledger.EmptyFields(bucket)
		}
		c.Bucket = bucket
		c.Fields = fields
	}
	c.Confidence = 1.0

	result := e.persistNew(ctx, session, p.MessageRef, p.OriginalText, c, true)
	if result.Saved != nil {
		result.Correction = correction
	}
	return result
}

// resumeMergeDecision consumes the reply to a duplicate-person prompt:
// numeric selection, the literal "new", an identifier-word match, or a
// yes/no. Anything else abandons the slot and re-dispatches the reply.
func (e *Engine) resumeMergeDecision(ctx context.Context, session *store.Session, messageRef, text string) Result {
	p := session.Pending
	candidates := p.Candidates

	if n, ok := parseSelection(text); ok {
		if n < 1 || n > len(candidates) {
			return Result{Reply: fmt.Sprintf(constant.ReplyMergeRangeTemplate, len(candidates))}
		}
		return e.mergeInto(ctx, session, candidates[n-1])
	}

	// "new" is checked before the identifier scan so it can never collide
	// with a candidate based in New York.
	if strings.EqualFold(strings.TrimSpace(text), "new") {
		return e.persistNew(ctx, session, p.MessageRef, p.OriginalText, p.Classification, false)
	}

	if cand, ok := matchByIdentifier(text, candidates); ok {
		return e.mergeInto(ctx, session, cand)
	}

	switch confirm.Parse(text) {
	case confirm.Confirm:
		if p.Preselected != nil {
			return e.mergeInto(ctx, session, *p.Preselected)
		}
		if len(candidates) == 1 {
			return e.mergeInto(ctx, session, candidates[0])
		}
		// A bare yes cannot pick between several candidates.
		return Result{Reply: fmt.Sprintf(constant.ReplyMergeRangeTemplate, len(candidates))}
	case confirm.Deny:
		return e.persistNew(ctx, session, p.MessageRef, p.OriginalText, p.Classification, false)
	}

	session.ClearPending()
	return e.dispatch(ctx, session, messageRef, text)
}

// resumePersonQuestion consumes the reply to a who-is-it menu.
func (e *Engine) resumePersonQuestion(ctx context.Context, session *store.Session, messageRef, text string) Result {
	p := session.Pending
	candidates := p.Candidates

	if n, ok := parseSelection(text); ok {
		if n < 1 || n > len(candidates) {
			return Result{Reply: fmt.Sprintf(constant.ReplySelectRangeTemplate, len(candidates))}
		}
		return e.answerAbout(ctx, session, p.OriginalQuestion, candidates[n-1])
	}

	switch confirm.Parse(text) {
	case confirm.Confirm:
		if len(candidates) == 1 {
			return e.answerAbout(ctx, session, p.OriginalQuestion, candidates[0])
		}
		return Result{Reply: fmt.Sprintf(constant.ReplySelectRangeTemplate, len(candidates))}
	case confirm.Deny:
		session.ClearPending()
		return Result{Reply: constant.ReplyCancelled}
	}

	if cand, ok := matchByIdentifier(text, candidates); ok {
		return e.answerAbout(ctx, session, p.OriginalQuestion, cand)
	}

	session.ClearPending()
	return e.dispatch(ctx, session, messageRef, text)
}
