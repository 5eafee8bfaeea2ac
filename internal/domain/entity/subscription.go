// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Subscription binds one device to one topic and mirrors the broker-side
// subscription. (topic, device) is unique.
type Subscription struct {
	RemoteResource

	ID        uuid.UUID `json:"id"`         // The Global Unique Identifier (GUID) for the subscription.
	TopicID   uuid.UUID `json:"topic_id"`   // The ID of the subscribed topic.
	DeviceID  uuid.UUID `json:"device_id"`  // The ID of the subscribing device.
	CreatedAt time.Time `json:"created_at"` // Timestamp of when this subscription was created.
	UpdatedAt time.Time `json:"updated_at"` // Timestamp of the last modification.
}

func (s *Subscription) ResourceName() string { return "Subscription" }

// Subscriptions are created through Subscribe rather than CreateSubscription,
// so all three response keys deviate from the default scheme.
func (s *Subscription) ResponseKey() string { return "SubscribeResponse" }
func (s *Subscription) ResultKey() string   { return "SubscribeResult" }
func (s *Subscription) ARNKey() string      { return "SubscriptionArn" }
