package events

import "time"

// Event type codes published to the activity stream.
const (
	TypeEntrySaved = "ENTRY_SAVED"
	TypeEntryFixed = "ENTRY_FIXED"
	TypeDigestSent = "DIGEST_SENT"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "ENTRY_SAVED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the concrete event shape used across the system.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewEntrySaved records that a message was classified and written to the ledger.
func NewEntrySaved(ref, bucket, title string, merged bool, confidence float64) BaseEvent {
	return BaseEvent{
		Type: TypeEntrySaved,
		Data: map[string]interface{}{
			"ref":        ref,
			"bucket":     bucket,
			"title":      title,
			"merged":     merged,
			"confidence": confidence,
		},
		OccurredAt: time.Now(),
	}
}

// NewEntryFixed records a manual re-file from one bucket to another.
func NewEntryFixed(ref, from, to string) BaseEvent {
	return BaseEvent{
		Type: TypeEntryFixed,
		Data: map[string]interface{}{
			"ref":  ref,
			"from": from,
			"to":   to,
		},
		OccurredAt: time.Now(),
	}
}

// NewDigestSent records a delivered daily digest.
func NewDigestSent(channel string, itemCount int) BaseEvent {
	return BaseEvent{
		Type: TypeDigestSent,
		Data: map[string]interface{}{
			"channel":    channel,
			"item_count": itemCount,
		},
		OccurredAt: time.Now(),
	}
}
