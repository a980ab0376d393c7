package identify

import (
	"strings"
)

// Cue tables, tried strictly in this order: workplace, relationship,
// location, event, then a plain-prefix fallback. First hit wins; within a
// table, list order decides.
var workplaceCues = []string{"works at", "at ", "from ", "@ "}

var relationTerms = []string{
	"roommate", "friend", "colleague", "coworker", "co-worker",
	"boss", "manager", "mentor", "neighbor",
	"brother", "sister", "sibling", "cousin", "mom", "mother", "dad",
	"father", "aunt", "uncle",
	"wife", "husband", "partner", "girlfriend", "boyfriend", "fiance", "fiancee",
}

var locationCues = []string{"lives in", "in ", "based in"}

var eventCues = []string{"met at", "from the", "at the"}

// articles never make a useful label on their own; a cue whose next token is
// one of these yields to the later rules (so "met at the gym" reaches the
// event table instead of producing "from the").
var articles = map[string]bool{"the": true, "a": true, "an": true}

const trailingPunct = ".,!?;:)('\""

// Extract derives a short disambiguating phrase ("from Google",
// "your roommate", "in Austin", "from the climbing gym") out of a person's
// free-text context. Returns "" for empty context. This is a heuristic label
// generator with a fixed cue priority, not NLP; it is pure and idempotent.
func Extract(context string) string {
	ctx := strings.TrimSpace(context)
	if ctx == "" {
		return ""
	}
	lower := strings.ToLower(ctx)

	for _, cue := range workplaceCues {
		if tok := firstTokenAfter(ctx, lower, cue); tok != "" {
			return "from " + tok
		}
	}

	for _, term := range relationTerms {
		if containsWord(lower, term) {
			return "your " + term
		}
	}

	for _, cue := range locationCues {
		if tok := firstTokenAfter(ctx, lower, cue); tok != "" {
			return "in " + tok
		}
	}

	for _, cue := range eventCues {
		if phrase := tokensAfter(ctx, lower, cue, 3); phrase != "" {
			return "from the " + phrase
		}
	}

	fields := strings.Fields(ctx)
	if len(fields) > 3 {
		fields = fields[:3]
	}
	return strings.TrimRight(strings.Join(fields, " "), trailingPunct)
}

// cueIndex finds cue in lower at a word boundary (start of string or after a
// space). Returns -1 when absent.
func cueIndex(lower, cue string) int {
	from := 0
	for {
		i := strings.Index(lower[from:], cue)
		if i < 0 {
			return -1
		}
		i += from
		if i == 0 || lower[i-1] == ' ' {
			return i
		}
		from = i + 1
	}
}

// firstTokenAfter returns the original-cased token following cue, trimmed of
// trailing punctuation. "" when the cue is absent, nothing follows it, or the
// next token is a bare article.
func firstTokenAfter(orig, lower, cue string) string {
	i := cueIndex(lower, cue)
	if i < 0 {
		return ""
	}
	rest := strings.Fields(orig[i+len(cue):])
	if len(rest) == 0 {
		return ""
	}
	tok := strings.TrimRight(rest[0], trailingPunct)
	if tok == "" || articles[strings.ToLower(tok)] {
		return ""
	}
	return tok
}

// tokensAfter returns up to max tokens following cue joined by spaces, with a
// leading article dropped (the prefix the caller adds already carries "the").
func tokensAfter(orig, lower, cue string, max int) string {
	i := cueIndex(lower, cue)
	if i < 0 {
		return ""
	}
	rest := strings.Fields(orig[i+len(cue):])
	if len(rest) > 0 && articles[strings.ToLower(rest[0])] {
		rest = rest[1:]
	}
	if len(rest) == 0 {
		return ""
	}
	if len(rest) > max {
		rest = rest[:max]
	}
	return strings.TrimRight(strings.Join(rest, " "), trailingPunct)
}

// containsWord reports whether term appears as a whole token in lower,
// ignoring punctuation stuck to the token edges.
func containsWord(lower, term string) bool {
	for _, tok := range strings.Fields(lower) {
		if strings.Trim(tok, trailingPunct) == term {
			return true
		}
	}
	return false
}
