package entity

import (
	"time"

	"github.com/google/uuid"
)

// Correction is an audit row written whenever the user re-files an entry,
// either through the confirmation flow or the fix command. The log feeds
// the misclassification report used to tune the classifier prompt.
type Correction struct {
	Id         uuid.UUID
	EntryId    uuid.UUID
	FromBucket string
	ToBucket   string
	MessageRef string
	Text       string
	CreatedAt  time.Time
}
