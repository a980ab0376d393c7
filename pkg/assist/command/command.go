package command

import (
	"strings"

	"github.com/ranajunaid001/second-braind-junaid/pkg/ledger"
)

// Kind identifies a chat command.
type Kind string

const (
	KindNone Kind = ""
	KindWho  Kind = "who"
	KindTop  Kind = "top"
	KindFix  Kind = "fix"
	KindFind Kind = "find"
)

// Command is one parsed chat command. Arg is the person name for who, the
// table token for top, the bucket token for fix and the query for find.
type Command struct {
	Kind Kind
	Arg  string
}

// bucketShortcuts maps user shorthand to canonical buckets for the fix
// command.
var bucketShortcuts = map[string]ledger.Bucket{
	"ppl": ledger.BucketPeople, "p": ledger.BucketPeople, "people": ledger.BucketPeople,
	"idea": ledger.BucketIdeas, "ideas": ledger.BucketIdeas, "i": ledger.BucketIdeas,
	"int": ledger.BucketInterviews, "interview": ledger.BucketInterviews, "interviews": ledger.BucketInterviews,
	"thing": ledger.BucketThings, "things": ledger.BucketThings, "t": ledger.BucketThings,
	"task": ledger.BucketThings, "tasks": ledger.BucketThings,
	"li": ledger.BucketLinkedIn, "ln": ledger.BucketLinkedIn, "linkedin": ledger.BucketLinkedIn, "l": ledger.BucketLinkedIn,
}

// TableAll is the top-command token that asks for the digest instead of a
// single table.
const TableAll = "all"

// Parse detects a leading chat command. Prefixes only count at a word
// boundary so "topical thought" is a normal message, not a top command.
func Parse(text string) Command {
	trimmed := strings.TrimSpace(text)
	lower := strings.ToLower(trimmed)

	if arg, ok := argAfter(trimmed, lower, "who"); ok && arg != "" {
		return Command{Kind: KindWho, Arg: arg}
	}
	if arg, ok := argAfter(trimmed, lower, "top"); ok {
		return Command{Kind: KindTop, Arg: strings.ToLower(arg)}
	}
	if arg, ok := argAfter(trimmed, lower, "fix"); ok {
		return Command{Kind: KindFix, Arg: strings.ToLower(arg)}
	}
	if arg, ok := argAfter(trimmed, lower, "fx"); ok {
		return Command{Kind: KindFix, Arg: strings.ToLower(arg)}
	}
	if arg, ok := argAfter(trimmed, lower, "find"); ok && arg != "" {
		return Command{Kind: KindFind, Arg: arg}
	}
	if arg, ok := argAfter(trimmed, lower, "search"); ok && arg != "" {
		return Command{Kind: KindFind, Arg: arg}
	}

	return Command{Kind: KindNone}
}

// argAfter returns the original-cased remainder after a command word,
// accepting "cmd", "cmd arg" and "cmd: arg" forms.
func argAfter(orig, lower, cmd string) (string, bool) {
	if lower == cmd {
		return "", true
	}
	for _, sep := range []string{" ", ":"} {
		prefix := cmd + sep
		if strings.HasPrefix(lower, prefix) {
			return strings.TrimSpace(orig[len(prefix):]), true
		}
	}
	return "", false
}

// ResolveBucket resolves a fix-command token, shorthand included.
func ResolveBucket(token string) (ledger.Bucket, bool) {
	token = strings.ToLower(strings.TrimSpace(token))
	if b, ok := bucketShortcuts[token]; ok {
		return b, true
	}
	return ledger.ParseBucket(token)
}
