// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Application is the root grouping entity. Platforms, topics and devices all
// hang off one application. Applications themselves are never registered with
// the broker; only their dependents are.
type Application struct {
	ID        uuid.UUID `json:"id"`         // The Global Unique Identifier (GUID) for the application.
	Name      string    `json:"name"`       // Globally unique application name.
	CreatedAt time.Time `json:"created_at"` // Timestamp of when this application was created.
	UpdatedAt time.Time `json:"updated_at"` // Timestamp of the last modification.
}
