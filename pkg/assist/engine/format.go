package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ranajunaid001/second-braind-junaid/internal/constant"
	"github.com/ranajunaid001/second-braind-junaid/pkg/ledger"
	"github.com/ranajunaid001/second-braind-junaid/pkg/store"
)

func pct(confidence float64) int {
	return int(confidence * 100)
}

func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// entryTitle is the short label shown in confirmations: the bucket title
// field when present, otherwise the start of the raw message.
func entryTitle(f ledger.Fields, text string) string {
	if f != nil {
		if t := strings.TrimSpace(f.Title()); t != "" {
			return t
		}
	}
	return clip(strings.TrimSpace(text), 50)
}

func formatFiled(c ledger.Classification, title string) string {
	return fmt.Sprintf(constant.ReplyFiledTemplate, c.Bucket.Table(), title, pct(c.Confidence))
}

func formatCorrected(c ledger.Classification, title string) string {
	return fmt.Sprintf(constant.ReplyCorrectedTemplate, c.Bucket.Table(), title)
}

func formatUnsure(text string, c ledger.Classification) string {
	return fmt.Sprintf(constant.ReplyUnsureTemplate, clip(strings.TrimSpace(text), 50), c.Bucket.Table(), pct(c.Confidence))
}

func formatMerged(name string) string {
	return fmt.Sprintf(constant.ReplyMergedTemplate, name)
}

func formatMergeSingle(cand store.Candidate) string {
	note := ""
	if cand.Identifier != "" {
		note = fmt.Sprintf(" (%s)", cand.Identifier)
	}
	return fmt.Sprintf(constant.ReplyMergeSingleTemplate, cand.Record.Name(), note)
}

func formatMergeMenu(name string, candidates []store.Candidate) string {
	return fmt.Sprintf(constant.ReplyMergeMenuTemplate, len(candidates), name, numberedMenu(candidates))
}

func formatWhoMenu(name string, candidates []store.Candidate) string {
	return fmt.Sprintf(constant.ReplyWhoMenuTemplate, len(candidates), name, numberedMenu(candidates))
}

func numberedMenu(candidates []store.Candidate) string {
	var b strings.Builder
	for i, cand := range candidates {
		b.WriteString(fmt.Sprintf("%d. %s", i+1, cand.Record.Name()))
		if cand.Identifier != "" {
			b.WriteString(fmt.Sprintf(" (%s)", cand.Identifier))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// parseSelection reads a bare numeric menu reply like "2" or "2.".
func parseSelection(reply string) (int, bool) {
	t := strings.Trim(strings.TrimSpace(reply), ".!)")
	n, err := strconv.Atoi(t)
	if err != nil {
		return 0, false
	}
	return n, true
}

// tokenize lowers and splits a reply, trimming surrounding punctuation per
// token.
func tokenize(s string) []string {
	fields := strings.Fields(strings.ToLower(s))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,!?;:()[]\"'")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// identifierStop are the scaffolding words of identifier phrases ("from
// Google", "your roommate") that never identify a candidate on their own.
var identifierStop = map[string]bool{
	"from": true, "your": true, "the": true, "in": true, "at": true,
}

// matchByIdentifier finds the first candidate whose identifier phrase shares
// a content token longer than two characters with the reply.
func matchByIdentifier(reply string, candidates []store.Candidate) (store.Candidate, bool) {
	replyTokens := make(map[string]bool)
	for _, tok := range tokenize(reply) {
		replyTokens[tok] = true
	}

	for _, cand := range candidates {
		for _, tok := range tokenize(cand.Identifier) {
			if len(tok) > 2 && !identifierStop[tok] && replyTokens[tok] {
				return cand, true
			}
		}
	}
	return store.Candidate{}, false
}
