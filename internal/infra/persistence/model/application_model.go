package model

import (
	"time"

	"github.com/google/uuid"
)

// ApplicationModel is the GORM-specific struct for the 'applications' table.
// It represents the root grouping entity that platforms, topics and devices
// belong to.
type ApplicationModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Name      string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (ApplicationModel) TableName() string {
	return "applications"
}
