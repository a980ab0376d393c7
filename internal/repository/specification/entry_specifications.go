package specification

import (
	"gorm.io/gorm"
)

type ByBucket struct {
	Bucket string
}

func (s ByBucket) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("bucket = ?", s.Bucket)
}

type ByMessageRef struct {
	MessageRef string
}

func (s ByMessageRef) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("message_ref = ?", s.MessageRef)
}

// NotArchived keeps only live entries. Archived rows stay queryable for
// the admin surfaces but never reach chat replies.
type NotArchived struct{}

func (s NotArchived) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("archived = ?", false)
}

