package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Entry struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Bucket     string         `gorm:"type:varchar(32);not null;index"`
	Fields     datatypes.JSON `gorm:"type:jsonb"`
	Notes      string         `gorm:"type:text"`
	MessageRef string         `gorm:"type:varchar(64);index"`
	Archived   bool           `gorm:"not null;default:false;index"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime"`
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (Entry) TableName() string {
	return "entries"
}
