package constant

// User-facing reply templates for the chat surface. Kept here so the
// conversation engine and the services render identical text.

const (
	// Args: bucket table name, title, confidence percent.
	ReplyFiledTemplate = "✓ Filed as: %s\nTitle: %s\nConfidence: %d%%\nReply 'fix <category>' if wrong."

	// Args: bucket table name, title.
	ReplyCorrectedTemplate = "✓ Corrected and filed as: %s\nTitle: %s"

	// Args: truncated message, guessed bucket table name, confidence percent.
	ReplyUnsureTemplate = "🤔 Not sure about this one.\n\nMessage: \"%s\"\nMy guess: %s (%d%%)\n\nReply with the correct category:\n• people\n• ideas\n• interviews\n• things\n• linkedin"

	ReplySaveError = "❌ Error saving. Please try again."

	// Args: old bucket table name, new bucket table name.
	ReplyFixedTemplate = "✓ Fixed. Moved from %s to %s."

	ReplyFixNotFound   = "❌ Could not find the entry to fix."
	ReplyFixNoRecent   = "❌ No recent message to fix."
	ReplyFixInvalid    = "❌ Invalid category. Use: fix people / fix ideas / fix interviews / fix things / fix linkedin"
	ReplyTopUnknown    = "❌ Unknown table. Use: top people / ideas / interviews / things / linkedin / all"
	ReplyDigestFailure = "❌ Could not generate digest."
	ReplyLookupError   = "❌ Could not look that up. Please try again."

	// Args: bucket table name.
	ReplyFixSameTemplate = "Already filed under %s."

	// Args: bucket table name.
	ReplyTopEmptyTemplate = "Nothing in %s yet."

	// Args: bucket table name, bullet list.
	ReplyTopHeaderTemplate = "📌 %s:\n\n%s"

	// Args: searched name.
	ReplyWhoNoMatch = "No one found matching '%s'."

	// Args: candidate count, name, numbered menu.
	ReplyWhoMenuTemplate = "Found %d people matching \"%s\":\n\n%s\nReply with a number, or 'no' to cancel."

	// Args: existing name, optional identifier note like " (from Google)".
	ReplyMergeSingleTemplate = "🤔 You already have \"%s\"%s saved.\nSame person? Reply yes to add this to their notes, or 'new' to keep them separate."

	// Args: candidate count, name, numbered menu.
	ReplyMergeMenuTemplate = "🤔 I found %d people named \"%s\":\n\n%s\nWhich one is this? Reply with a number, or say 'new' for a new person."

	// Args: updated name.
	ReplyMergedTemplate = "✓ Added to %s's notes."

	// Args: upper bound of the numbered menu.
	ReplyMergeRangeTemplate = "Please pick a number between 1 and %d, or say 'new'."

	// Args: upper bound of the numbered menu.
	ReplySelectRangeTemplate = "Please pick a number between 1 and %d, or 'no' to cancel."

	ReplyCancelled = "Okay, cancelled."

	ReplyDigestEmpty = "📋 Daily Digest\n\nNo pending actions. You're all caught up! 🎉"

	// Args: query.
	ReplyFindNoMatch = "No saved entries matched '%s'."

	// Args: bullet list of hits.
	ReplyFindHeaderTemplate = "🔎 Closest saved entries:\n\n%s"
)
