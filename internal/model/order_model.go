package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Order struct {
	Id               uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId        string         `gorm:"type:text;not null;index:idx_orders_session_status;index:idx_orders_one_pending_per_session,unique,where:status = 'pending'"`
	DeviceId         string         `gorm:"type:text;not null"`
	OrderNumber      string         `gorm:"type:text;not null;uniqueIndex"`
	Items            datatypes.JSON `gorm:"type:jsonb;not null"` // embedded line items, document style
	TotalAmount      int64          `gorm:"not null;default:0"`
	Status           string         `gorm:"type:text;not null;default:'pending';index:idx_orders_session_status"`
	PaymentReference *string        `gorm:"type:text;index"`
	PaymentStatus    string         `gorm:"type:text;not null;default:'pending'"`
	CreatedAt        time.Time      `gorm:"autoCreateTime"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime"`
}

func (Order) TableName() string {
	return "orders"
}
