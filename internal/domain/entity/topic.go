// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Topic is a fan-out group scoped to one application. Devices join it through
// subscriptions. (name, application) is unique.
type Topic struct {
	RemoteResource

	ID            uuid.UUID `json:"id"`             // The Global Unique Identifier (GUID) for the topic.
	ApplicationID uuid.UUID `json:"application_id"` // The ID of the owning application.
	AppName       string    `json:"app_name"`       // Denormalized owning application name.
	Name          string    `json:"name"`           // Topic name, unique per application.
	CreatedAt     time.Time `json:"created_at"`     // Timestamp of when this topic was created.
	UpdatedAt     time.Time `json:"updated_at"`     // Timestamp of the last modification.
}

// FullName is the broker-side topic name: "<application>_<topic>".
func (t *Topic) FullName() string {
	return t.AppName + "_" + t.Name
}

func (t *Topic) ResourceName() string { return "Topic" }
func (t *Topic) ResponseKey() string  { return createResponseKey(t.ResourceName()) }
func (t *Topic) ResultKey() string    { return createResultKey(t.ResourceName()) }
func (t *Topic) ARNKey() string       { return defaultARNKey(t.ResourceName()) }
