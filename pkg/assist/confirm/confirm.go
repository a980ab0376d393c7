package confirm

import (
	"strings"
)

// Verdict classifies a free-text reply to a yes/no question.
type Verdict string

const (
	Confirm Verdict = "CONFIRM"
	Deny    Verdict = "DENY"
	Other   Verdict = "OTHER"
)

// affirmative covers canonical words, casual variants, slang, typos and a
// couple of emoji. Single-letter entries ("y", "k") only ever match exactly.
var affirmative = []string{
	"yes", "y", "yeah", "yea", "yep", "yup", "yuh", "ya", "yess", "yesss",
	"sure", "for sure", "fosho", "fo sho", "bet", "ok", "okay", "k", "kk",
	"alright", "aight", "affirmative", "correct", "right", "exactly",
	"indeed", "absolutely", "definitely", "def", "totally", "certainly",
	"sounds good", "go ahead", "do it", "please do", "yes please",
	"confirm", "confirmed", "same one", "same person", "the same",
	"thats him", "that's him", "thats her", "that's her", "thats them",
	"that's them", "merge", "👍", "✅",
}

// negative mirrors the affirmative set for rejections.
var negative = []string{
	"no", "n", "nope", "nah", "naw", "nay", "nop", "noo", "nooo",
	"negative", "not really", "not sure", "unsure", "dont", "don't",
	"do not", "incorrect", "wrong", "different", "different person",
	"not the same", "someone else", "not him", "not her", "not them",
	"new person", "create new", "cancel", "stop", "nvm", "nevermind",
	"never mind", "no thanks", "no thx", "👎", "❌",
}

// Parse maps a raw reply to Confirm, Deny or Other against the curated
// phrase sets. Exact match is tried first on both sets; if neither hits, both
// sets are scanned for substring containment using only phrases longer than
// two characters, so "k" cannot fire inside unrelated text. The affirmative
// scan always runs before the negative one, which makes ties impossible.
// Pure and deterministic.
func Parse(reply string) Verdict {
	r := strings.ToLower(strings.TrimSpace(reply))
	if r == "" {
		return Other
	}

	for _, phrase := range affirmative {
		if r == phrase {
			return Confirm
		}
	}
	for _, phrase := range negative {
		if r == phrase {
			return Deny
		}
	}

	for _, phrase := range affirmative {
		if len(phrase) > 2 && strings.Contains(r, phrase) {
			return Confirm
		}
	}
	for _, phrase := range negative {
		if len(phrase) > 2 && strings.Contains(r, phrase) {
			return Deny
		}
	}

	return Other
}
