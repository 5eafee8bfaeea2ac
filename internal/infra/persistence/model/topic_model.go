package model

import (
	"time"

	"github.com/google/uuid"
)

// TopicModel is the GORM-specific struct for the 'topics' table.
// It represents a fan-out group scoped to one application, mirrored by a
// broker topic once registered.
type TopicModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	ApplicationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_topics_app_name"`
	Name          string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_topics_app_name"`
	ARN           *string   `gorm:"type:text"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Application *ApplicationModel `gorm:"foreignKey:ApplicationID"`
}

// TableName explicitly sets the table name for GORM.
func (TopicModel) TableName() string {
	return "topics"
}
