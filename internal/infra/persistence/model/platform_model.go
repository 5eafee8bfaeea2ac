package model

import (
	"time"

	"github.com/google/uuid"
)

// PlatformModel is the GORM-specific struct for the 'platforms' table.
// It represents one notification channel of an application, mirrored by a
// platform application on the broker once registered.
type PlatformModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	ApplicationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_platforms_app_tag"`
	Platform      string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_platforms_app_tag"`
	Credential    string    `gorm:"type:text;not null"`
	Principal     string    `gorm:"type:text"`
	ARN           *string   `gorm:"type:text"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Application *ApplicationModel `gorm:"foreignKey:ApplicationID"`
}

// TableName explicitly sets the table name for GORM.
func (PlatformModel) TableName() string {
	return "platforms"
}
