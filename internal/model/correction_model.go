package model

import (
	"time"

	"github.com/google/uuid"
)

type Correction struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EntryId    uuid.UUID `gorm:"type:uuid;not null;index"`
	FromBucket string    `gorm:"type:varchar(32);not null"`
	ToBucket   string    `gorm:"type:varchar(32);not null"`
	MessageRef string    `gorm:"type:varchar(64)"`
	Text       string    `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (Correction) TableName() string {
	return "corrections"
}
