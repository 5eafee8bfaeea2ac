package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PushMessageModel is the GORM-specific struct for the 'push_messages' table.
// It is the send-audit trail; rows are only written when send logging is
// enabled at dispatch time.
type PushMessageModel struct {
	ID            uuid.UUID         `gorm:"type:uuid;primary_key"`
	Sound         *string           `gorm:"type:varchar(255)"`
	Message       string            `gorm:"type:text"`
	HasNewContent bool              `gorm:"not null;default:false"`
	Context       string            `gorm:"type:varchar(255);not null;default:'default'"`
	ContextID     string            `gorm:"type:varchar(255);not null;default:'none'"`
	BadgeCount    int               `gorm:"not null;default:0"`
	ExtraPayload  datatypes.JSONMap `gorm:"type:jsonb"`
	ReceiverARN   string            `gorm:"type:text;not null;index"`
	MessageType   int               `gorm:"not null;default:0"`
	CreatedAt     time.Time
}

// TableName explicitly sets the table name for GORM.
func (PushMessageModel) TableName() string {
	return "push_messages"
}
