package model

import (
	"time"

	"github.com/google/uuid"
)

// DeviceModel is the GORM-specific struct for the 'devices' table.
// It represents one installed-app instance on one physical device, mirrored
// by a platform endpoint on the broker once registered.
type DeviceModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	PlatformID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_devices_platform_device"`
	DeviceID   string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_devices_platform_device"`
	PushToken  string    `gorm:"type:text;not null"`
	ARN        *string   `gorm:"type:text;index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName explicitly sets the table name for GORM.
func (DeviceModel) TableName() string {
	return "devices"
}
