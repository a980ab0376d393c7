package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Entry is one captured row in the ledger. Fields holds the bucket-shaped
// JSON payload; Notes accumulates merge appends.
type Entry struct {
	Id         uuid.UUID
	Bucket     string
	Fields     json.RawMessage
	Notes      string
	MessageRef string
	Archived   bool
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	DeletedAt  *time.Time
	IsDeleted  bool
}
