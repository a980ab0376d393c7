package person

import (
	"strings"

	"github.com/ranajunaid001/second-braind-junaid/pkg/ledger"
)

// Notes splits a record's notes column into clean display entries. Stored
// entries carry a "[YYYY-MM-DD] " prefix; display strips it.
func Notes(rec ledger.Record) []string {
	raw := strings.TrimSpace(rec.Notes)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ledger.NoteSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if strings.HasPrefix(p, "[") {
			if idx := strings.Index(p, "] "); idx >= 0 {
				p = p[idx+2:]
			}
		}
		out = append(out, p)
	}
	return out
}

// FormatCard renders a person record as the chat surface shows it: name,
// context, bullet notes without date prefixes, follow-ups, last-updated date.
func FormatCard(rec ledger.Record) string {
	var b strings.Builder

	b.WriteString("👤 " + rec.Name() + "\n")
	if ctx := rec.Context(); ctx != "" {
		b.WriteString(ctx + "\n")
	}
	b.WriteString("\n")

	for _, note := range Notes(rec) {
		b.WriteString("• " + note + "\n")
	}

	// Follow-ups that are just a date carry no action; skip them.
	if fu := rec.FollowUps(); fu != "" && !startsWithYear(fu) {
		b.WriteString("\n📌 " + fu + "\n")
	}

	if !rec.UpdatedAt.IsZero() {
		b.WriteString("\nLast updated: " + rec.UpdatedAt.Format("Jan 02"))
	}

	return strings.TrimSpace(b.String())
}

func startsWithYear(s string) bool {
	if len(s) < 4 {
		return false
	}
	for i := 0; i < 4; i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
