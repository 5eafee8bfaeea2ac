// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"pushgate/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Domain-specific errors for topic persistence.
var (
	// ErrTopicNotFound is returned when a topic is not found.
	ErrTopicNotFound = errors.New("topic not found")
	// ErrDuplicateTopic is returned when the (name, application) pair already exists.
	ErrDuplicateTopic = errors.New("topic already exists")
)

// TopicRepository defines the interface for topic-related database operations.
type TopicRepository interface {
	// CreateTopic persists a new topic for an application.
	CreateTopic(ctx context.Context, topic *entity.Topic) error

	// FindTopicByID retrieves a topic by its unique ID.
	FindTopicByID(ctx context.Context, id uuid.UUID) (*entity.Topic, error)

	// FindTopic retrieves the topic with the given name under an application.
	FindTopic(ctx context.Context, applicationID uuid.UUID, name string) (*entity.Topic, error)

	// FindTopicsByApplication retrieves all topics of an application.
	FindTopicsByApplication(ctx context.Context, applicationID uuid.UUID) ([]*entity.Topic, error)

	// UpdateTopicARN persists the topic's remote identifier (nil clears it).
	UpdateTopicARN(ctx context.Context, id uuid.UUID, arn *string) error

	// DeleteTopic removes a topic by its ID.
	DeleteTopic(ctx context.Context, id uuid.UUID) error
}
