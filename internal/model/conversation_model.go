package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Conversation struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId       string         `gorm:"type:text;not null;uniqueIndex"`
	DeviceId        string         `gorm:"type:text;not null"`
	CurrentStep     string         `gorm:"type:text;not null;default:'main_menu'"`
	CurrentCategory *string        `gorm:"type:text"`
	SelectedItem    datatypes.JSON `gorm:"type:jsonb"` // snapshot of the item being quantified
	CustomerEmail   *string        `gorm:"type:text"`
	IsActive        bool           `gorm:"not null;default:true"`
	LastActivity    time.Time      `gorm:"not null;index"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
}

func (Conversation) TableName() string {
	return "conversations"
}
