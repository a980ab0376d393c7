package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ranajunaid001/second-braind-junaid/internal/constant"
	"github.com/ranajunaid001/second-braind-junaid/pkg/assist/command"
	"github.com/ranajunaid001/second-braind-junaid/pkg/assist/person"
	"github.com/ranajunaid001/second-braind-junaid/pkg/ledger"
	"github.com/ranajunaid001/second-braind-junaid/pkg/store"
)

// runCommand intercepts the who/top/fix/find chat commands; ok is false when
// the text is not a command and normal handling should continue.
func (e *Engine) runCommand(ctx context.Context, session *store.Session, text string) (Result, bool) {
	cmd := command.Parse(text)
	switch cmd.Kind {
	case command.KindWho:
		return e.runWho(ctx, session, cmd.Arg), true
	case command.KindTop:
		return e.runTop(ctx, cmd.Arg), true
	case command.KindFix:
		return e.runFix(ctx, session, cmd.Arg), true
	case command.KindFind:
		return e.runFind(ctx, cmd.Arg), true
	}
	return Result{}, false
}

func (e *Engine) runWho(ctx context.Context, session *store.Session, name string) Result {
	matches, err := e.ledger.FindSimilar(ctx, name)
	if err != nil {
		e.logger.Printf("[ERROR] who lookup %q: %v", name, err)
		return Result{Reply: constant.ReplyLookupError}
	}
	if len(matches) == 0 {
		return Result{Reply: fmt.Sprintf(constant.ReplyWhoNoMatch, name)}
	}
	if len(matches) == 1 {
		return Result{Reply: person.FormatCard(matches[0])}
	}

	// Several people share the name; empty OriginalQuestion means the
	// eventual selection renders the person card instead of an answer.
	candidates := candidatesOf(matches)
	session.SetPending(&store.PendingInteraction{
		Kind:       store.PendingPersonQuestion,
		Candidates: candidates,
	})
	return Result{Reply: formatWhoMenu(name, candidates)}
}

func (e *Engine) runTop(ctx context.Context, table string) Result {
	if table == command.TableAll {
		return e.runDigest(ctx)
	}

	bucket, ok := command.ResolveBucket(table)
	if !ok {
		return Result{Reply: constant.ReplyTopUnknown}
	}

	records, err := e.ledger.ListActive(ctx, bucket)
	if err != nil {
		e.logger.Printf("[ERROR] list %s: %v", bucket, err)
		return Result{Reply: constant.ReplyLookupError}
	}
	if len(records) == 0 {
		return Result{Reply: fmt.Sprintf(constant.ReplyTopEmptyTemplate, bucket.Table())}
	}

	if e.presenter != nil {
		formatted, err := e.presenter.TopItems(ctx, bucket, records)
		if err != nil {
			e.logger.Printf("[WARN] top formatting for %s: %v", bucket, err)
		}
		if err == nil && strings.TrimSpace(formatted) != "" {
			return Result{Reply: formatted}
		}
	}
	return Result{Reply: plainTopList(bucket, records)}
}

func (e *Engine) runDigest(ctx context.Context) Result {
	if e.digester == nil {
		return Result{Reply: constant.ReplyDigestFailure}
	}
	digest, err := e.digester.Digest(ctx)
	if err != nil {
		e.logger.Printf("[ERROR] digest: %v", err)
		return Result{Reply: constant.ReplyDigestFailure}
	}
	if strings.TrimSpace(digest) == "" {
		return Result{Reply: constant.ReplyDigestFailure}
	}
	return Result{Reply: digest}
}

// runFix re-files the last saved entry under a different bucket: remove the
// old row, re-extract fields for the new bucket, create the new row, report
// the correction.
func (e *Engine) runFix(ctx context.Context, session *store.Session, token string) Result {
	last := session.LastSaved
	if last == nil {
		return Result{Reply: constant.ReplyFixNoRecent}
	}

	bucket, ok := command.ResolveBucket(token)
	if !ok {
		return Result{Reply: constant.ReplyFixInvalid}
	}
	if bucket == last.Bucket {
		return Result{Reply: fmt.Sprintf(constant.ReplyFixSameTemplate, bucket.Table())}
	}

	fields, err := e.gateway.ExtractFields(ctx, last.OriginalText, bucket)
	if err != nil {
		e.logger.Printf("[WARN] field extraction for fix to %s: %v", bucket, err)
		fields, _ = ledger.EmptyFields(bucket)
	}

	if err := e.ledger.Remove(ctx, last.Bucket, last.MessageRef); err != nil {
		e.logger.Printf("[ERROR] remove %s entry %s: %v", last.Bucket, last.MessageRef, err)
		return Result{Reply: constant.ReplyFixNotFound}
	}

	ref, err := e.ledger.CreateRecord(ctx, bucket, fields, last.MessageRef)
	if err != nil {
		e.logger.Printf("[ERROR] refile into %s: %v", bucket, err)
		return Result{Reply: constant.ReplySaveError}
	}

	from := last.Bucket
	session.RememberSaved(&store.LastSaved{
		MessageRef:     last.MessageRef,
		Ref:            ref,
		Bucket:         bucket,
		OriginalText:   last.OriginalText,
		Classification: ledger.Classification{Bucket: bucket, Confidence: 1.0, Fields: fields},
		SavedAt:        time.Now(),
	})

	return Result{
		Reply: fmt.Sprintf(constant.ReplyFixedTemplate, from.Table(), bucket.Table()),
		Saved: &SavedEntry{
			Ref:        ref,
			Bucket:     bucket,
			Title:      entryTitle(fields, last.OriginalText),
			Text:       last.OriginalText,
			MessageRef: last.MessageRef,
			Confidence: 1.0,
		},
		Correction: &Correction{
			MessageRef: last.MessageRef,
			From:       from,
			To:         bucket,
			Text:       last.OriginalText,
		},
	}
}

func (e *Engine) runFind(ctx context.Context, query string) Result {
	if e.searcher == nil {
		return Result{Reply: fmt.Sprintf(constant.ReplyFindNoMatch, query)}
	}

	hits, err := e.searcher.Search(ctx, query, 5)
	if err != nil {
		e.logger.Printf("[ERROR] find %q: %v", query, err)
		return Result{Reply: constant.ReplyLookupError}
	}
	if len(hits) == 0 {
		return Result{Reply: fmt.Sprintf(constant.ReplyFindNoMatch, query)}
	}

	var b strings.Builder
	for _, hit := range hits {
		b.WriteString(fmt.Sprintf("• [%s] %s", hit.Bucket.Table(), hit.Title))
		if hit.Snippet != "" && hit.Snippet != hit.Title {
			b.WriteString(": " + clip(hit.Snippet, 60))
		}
		b.WriteString("\n")
	}
	return Result{Reply: fmt.Sprintf(constant.ReplyFindHeaderTemplate, strings.TrimRight(b.String(), "\n"))}
}

// plainTopList is the no-model fallback for top: the first five titles as
// bullets.
func plainTopList(bucket ledger.Bucket, records []ledger.Record) string {
	var b strings.Builder
	for i, rec := range records {
		if i == 5 {
			break
		}
		title := entryTitle(rec.Fields, rec.Notes)
		if title == "" {
			title = "(untitled)"
		}
		b.WriteString("• " + title + "\n")
	}
	return fmt.Sprintf(constant.ReplyTopHeaderTemplate, bucket.Table(), strings.TrimRight(b.String(), "\n"))
}
