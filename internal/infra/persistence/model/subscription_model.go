package model

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionModel is the GORM-specific struct for the 'subscriptions' table.
// It binds one device to one topic and mirrors the broker-side subscription.
type SubscriptionModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	TopicID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subscriptions_topic_device"`
	DeviceID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subscriptions_topic_device;index"`
	ARN       *string   `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (SubscriptionModel) TableName() string {
	return "subscriptions"
}
