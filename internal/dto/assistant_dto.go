package dto

import "github.com/google/uuid"

// PublishEmbedEntryMessage rides the internal queue from entry save to the
// embedding consumer.
type PublishEmbedEntryMessage struct {
	EntryId uuid.UUID `json:"entry_id"`
}
