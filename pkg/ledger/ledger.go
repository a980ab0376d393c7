package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Bucket is one of the fixed life-organization categories a message can be
// filed under.
type Bucket string

const (
	BucketPeople     Bucket = "people"
	BucketIdeas      Bucket = "ideas"
	BucketInterviews Bucket = "interviews"
	BucketThings     Bucket = "things"
	BucketLinkedIn   Bucket = "linkedin"
)

// Buckets returns all valid buckets in display order.
func Buckets() []Bucket {
	return []Bucket{BucketPeople, BucketIdeas, BucketInterviews, BucketThings, BucketLinkedIn}
}

// ParseBucket matches a user-supplied token against the bucket set,
// case-insensitive and trimmed.
func ParseBucket(s string) (Bucket, bool) {
	b := Bucket(strings.ToLower(strings.TrimSpace(s)))
	switch b {
	case BucketPeople, BucketIdeas, BucketInterviews, BucketThings, BucketLinkedIn:
		return b, true
	}
	return "", false
}

func (b Bucket) Valid() bool {
	_, ok := ParseBucket(string(b))
	return ok
}

// Table returns the display/tab name for the bucket ("people" -> "People").
func (b Bucket) Table() string {
	switch b {
	case BucketPeople:
		return "People"
	case BucketIdeas:
		return "Ideas"
	case BucketInterviews:
		return "Interviews"
	case BucketThings:
		return "Things"
	case BucketLinkedIn:
		return "LinkedIn"
	}
	if b == "" {
		return ""
	}
	return strings.ToUpper(string(b)[:1]) + string(b)[1:]
}

// Fields is the bucket-specific structured payload extracted from a message.
// One concrete shape per bucket; never an open map.
type Fields interface {
	Bucket() Bucket
	// Title is the short human label used in confirmations ("Filed as ...").
	Title() string
}

type PersonFields struct {
	Name      string `json:"name"`
	Context   string `json:"context"`
	FollowUps string `json:"follow_ups"`
}

func (PersonFields) Bucket() Bucket  { return BucketPeople }
func (f PersonFields) Title() string { return f.Name }

type IdeaFields struct {
	Idea     string `json:"idea"`
	OneLiner string `json:"one_liner"`
	Notes    string `json:"notes"`
}

func (IdeaFields) Bucket() Bucket  { return BucketIdeas }
func (f IdeaFields) Title() string { return f.Idea }

type InterviewFields struct {
	Company  string `json:"company"`
	Role     string `json:"role"`
	Status   string `json:"status"` // Lead | Applied | Scheduled | Completed
	NextStep string `json:"next_step"`
	Date     string `json:"date"`
}

func (InterviewFields) Bucket() Bucket  { return BucketInterviews }
func (f InterviewFields) Title() string { return f.Company }

type ThingFields struct {
	Task       string `json:"task"`
	Status     string `json:"status"`
	Due        string `json:"due"`
	NextAction string `json:"next_action"`
}

func (ThingFields) Bucket() Bucket  { return BucketThings }
func (f ThingFields) Title() string { return f.Task }

type LinkedInFields struct {
	Idea   string `json:"idea"`
	Notes  string `json:"notes"`
	Status string `json:"status"`
}

func (LinkedInFields) Bucket() Bucket  { return BucketLinkedIn }
func (f LinkedInFields) Title() string { return f.Idea }

// EmptyFields returns the zero-value variant for a bucket.
func EmptyFields(b Bucket) (Fields, error) {
	switch b {
	case BucketPeople:
		return PersonFields{}, nil
	case BucketIdeas:
		return IdeaFields{}, nil
	case BucketInterviews:
		return InterviewFields{}, nil
	case BucketThings:
		return ThingFields{}, nil
	case BucketLinkedIn:
		return LinkedInFields{}, nil
	}
	return nil, fmt.Errorf("unknown bucket %q", b)
}

// DecodeFields unmarshals a raw JSON payload into the variant for bucket.
func DecodeFields(b Bucket, raw []byte) (Fields, error) {
	if len(raw) == 0 {
		return EmptyFields(b)
	}
	switch b {
	case BucketPeople:
		var f PersonFields
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, err
		}
		return f, nil
	case BucketIdeas:
		var f IdeaFields
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, err
		}
		return f, nil
	case BucketInterviews:
		var f InterviewFields
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, err
		}
		return f, nil
	case BucketThings:
		var f ThingFields
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, err
		}
		return f, nil
	case BucketLinkedIn:
		var f LinkedInFields
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, err
		}
		return f, nil
	}
	return nil, fmt.Errorf("unknown bucket %q", b)
}

// EncodeFields marshals a fields variant to its JSON payload.
func EncodeFields(f Fields) ([]byte, error) {
	if f == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(f)
}

// Classification is the filing instruction produced by the classification
// gateway: where a message goes, how sure the model is, and the extracted
// fields. Immutable once produced, except a user correction may override the
// bucket and force confidence to 1.0.
type Classification struct {
	Bucket     Bucket  `json:"bucket"`
	Confidence float64 `json:"confidence"`
	Fields     Fields  `json:"fields"`
}

// RecordRef locates a stored row. Opaque to the core; the relational driver
// uses entity ids, the spreadsheet driver uses "Tab!row" coordinates.
type RecordRef string

// Record is a read-only snapshot of one stored row. Mutation happens only
// through the Store.
type Record struct {
	Ref        RecordRef
	Bucket     Bucket
	Fields     Fields
	Notes      string
	MessageRef string
	Archived   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Name returns the person name for people records, "" otherwise.
func (r Record) Name() string {
	if f, ok := r.Fields.(PersonFields); ok {
		return f.Name
	}
	return ""
}

// Context returns the person context for people records, "" otherwise.
func (r Record) Context() string {
	if f, ok := r.Fields.(PersonFields); ok {
		return f.Context
	}
	return ""
}

// FollowUps returns the person follow-ups for people records, "" otherwise.
func (r Record) FollowUps() string {
	if f, ok := r.Fields.(PersonFields); ok {
		return f.FollowUps
	}
	return ""
}

// Store is the tabular persistence contract the conversation core depends on.
// Implementations live in internal/storage; none of the operations retry.
type Store interface {
	// CreateRecord files a brand-new row under bucket.
	CreateRecord(ctx context.Context, bucket Bucket, fields Fields, messageRef string) (RecordRef, error)
	// AppendNote merges new information into an existing row: the text is
	// appended to the row's notes and non-empty fields refresh the stored ones.
	AppendNote(ctx context.Context, ref RecordRef, text string, fields Fields, messageRef string) error
	// ListActive returns non-archived rows for a bucket.
	ListActive(ctx context.Context, bucket Bucket) ([]Record, error)
	// FindSimilar returns active people whose name scores at or above the
	// configured match threshold, best first.
	FindSimilar(ctx context.Context, name string) ([]Record, error)
	// Get fetches one row by reference; (nil, nil) when missing.
	Get(ctx context.Context, ref RecordRef) (*Record, error)
	// Remove deletes the row filed under bucket for a message reference.
	// Used by the fix command when re-filing the last saved entry.
	Remove(ctx context.Context, bucket Bucket, messageRef string) error
}
