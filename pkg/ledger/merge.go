package ledger

import (
	"strings"
	"time"
)

// NoteSeparator joins appended notes inside a record's notes column.
const NoteSeparator = " • "

// AppendNoteText adds one dated note to an existing notes column value.
func AppendNoteText(existing, text string, at time.Time) string {
	entry := "[" + at.Format("2006-01-02") + "] " + strings.TrimSpace(text)
	if strings.TrimSpace(existing) == "" {
		return entry
	}
	return existing + NoteSeparator + entry
}

// MergeFields overlays the non-empty incoming fields onto the existing ones.
// Buckets must agree; on any mismatch the existing fields win untouched.
func MergeFields(existing, incoming Fields) Fields {
	switch ex := existing.(type) {
	case PersonFields:
		in, ok := incoming.(PersonFields)
		if !ok {
			return existing
		}
		if in.Name != "" {
			ex.Name = in.Name
		}
		if in.Context != "" {
			ex.Context = in.Context
		}
		if in.FollowUps != "" {
			ex.FollowUps = in.FollowUps
		}
		return ex
	case IdeaFields:
		in, ok := incoming.(IdeaFields)
		if !ok {
			return existing
		}
		if in.Idea != "" {
			ex.Idea = in.Idea
		}
		if in.OneLiner != "" {
			ex.OneLiner = in.OneLiner
		}
		if in.Notes != "" {
			ex.Notes = in.Notes
		}
		return ex
	case InterviewFields:
		in, ok := incoming.(InterviewFields)
		if !ok {
			return existing
		}
		if in.Company != "" {
			ex.Company = in.Company
		}
		if in.Role != "" {
			ex.Role = in.Role
		}
		if in.Status != "" {
			ex.Status = in.Status
		}
		if in.NextStep != "" {
			ex.NextStep = in.NextStep
		}
		if in.Date != "" {
			ex.Date = in.Date
		}
		return ex
	case ThingFields:
		in, ok := incoming.(ThingFields)
		if !ok {
			return existing
		}
		if in.Task != "" {
			ex.Task = in.Task
		}
		if in.Status != "" {
			ex.Status = in.Status
		}
		if in.Due != "" {
			ex.Due = in.Due
		}
		if in.NextAction != "" {
			ex.NextAction = in.NextAction
		}
		return ex
	case LinkedInFields:
		in, ok := incoming.(LinkedInFields)
		if !ok {
			return existing
		}
		if in.Idea != "" {
			ex.Idea = in.Idea
		}
		if in.Notes != "" {
			ex.Notes = in.Notes
		}
		if in.Status != "" {
			ex.Status = in.Status
		}
		return ex
	default:
		return existing
	}
}
