// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"pushgate/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrSubscriptionNotFound is returned when a subscription is not found.
var ErrSubscriptionNotFound = errors.New("subscription not found")

// SubscriptionRepository defines the interface for subscription-related database operations.
type SubscriptionRepository interface {
	// GetOrCreateSubscription returns the subscription joining the given topic
	// and device, creating the row if it does not exist yet. The boolean
	// reports whether a new row was created.
	GetOrCreateSubscription(ctx context.Context, topicID, deviceID uuid.UUID) (*entity.Subscription, bool, error)

	// FindSubscriptionByID retrieves a subscription by its unique ID.
	FindSubscriptionByID(ctx context.Context, id uuid.UUID) (*entity.Subscription, error)

	// FindSubscription retrieves the subscription joining the given topic and device.
	FindSubscription(ctx context.Context, topicID, deviceID uuid.UUID) (*entity.Subscription, error)

	// FindSubscriptionsByTopic retrieves all subscriptions of a topic.
	FindSubscriptionsByTopic(ctx context.Context, topicID uuid.UUID) ([]*entity.Subscription, error)

	// FindSubscriptionsByDevice retrieves all subscriptions of a device.
	FindSubscriptionsByDevice(ctx context.Context, deviceID uuid.UUID) ([]*entity.Subscription, error)

	// UpdateSubscriptionARN persists the subscription's remote identifier (nil clears it).
	UpdateSubscriptionARN(ctx context.Context, id uuid.UUID, arn *string) error

	// DeleteSubscription removes a subscription by its ID.
	DeleteSubscription(ctx context.Context, id uuid.UUID) error
}
