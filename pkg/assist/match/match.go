package match

import (
	"sort"
	"strings"

	"github.com/ranajunaid001/second-braind-junaid/pkg/ledger"
)

// DefaultThreshold is the hand-tuned merge-candidate cutoff. Callers pass it
// through configuration; it carries no deeper derivation.
const DefaultThreshold = 0.8

// Score rates how likely two names refer to the same person, in [0,1].
// Ladder, first applicable rule wins: exact case-insensitive match 1.0; one
// name contained in the other 0.9; equal first tokens 0.85; otherwise the
// ratio of positions with equal characters over the longer length. Both
// empty scores 0.0.
func Score(name1, name2 string) float64 {
	a := strings.ToLower(strings.TrimSpace(name1))
	b := strings.ToLower(strings.TrimSpace(name2))

	if a == "" && b == "" {
		return 0.0
	}
	if a == b {
		return 1.0
	}
	if a != "" && b != "" && (strings.Contains(a, b) || strings.Contains(b, a)) {
		return 0.9
	}

	aTokens := strings.Fields(a)
	bTokens := strings.Fields(b)
	if len(aTokens) > 0 && len(bTokens) > 0 && aTokens[0] == bTokens[0] {
		return 0.85
	}

	ra := []rune(a)
	rb := []rune(b)
	shorter := len(ra)
	if len(rb) < shorter {
		shorter = len(rb)
	}
	overlap := 0
	for i := 0; i < shorter; i++ {
		if ra[i] == rb[i] {
			overlap++
		}
	}
	longer := len(ra)
	if len(rb) > longer {
		longer = len(rb)
	}
	if longer == 0 {
		return 0.0
	}
	return float64(overlap) / float64(longer)
}

// FindCandidates scores name against every active person record and returns
// those at or above threshold, best first. Ties at the same score are all
// retained in their incoming order; the conversation layer then offers a
// numbered choice.
func FindCandidates(name string, people []ledger.Record, threshold float64) []ledger.Record {
	type scored struct {
		rec   ledger.Record
		score float64
	}

	var hits []scored
	for _, p := range people {
		if p.Archived {
			continue
		}
		s := Score(name, p.Name())
		if s >= threshold {
			hits = append(hits, scored{rec: p, score: s})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})

	out := make([]ledger.Record, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.rec)
	}
	return out
}
