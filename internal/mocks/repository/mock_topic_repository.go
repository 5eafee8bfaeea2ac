package repository

import (
	"context"

	"pushgate/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockTopicRepository is a test double for repository.TopicRepository.
type MockTopicRepository struct {
	mock.Mock
}

func (m *MockTopicRepository) CreateTopic(ctx context.Context, topic *entity.Topic) error {
	args := m.Called(ctx, topic)

	return args.Error(0)
}

func (m *MockTopicRepository) FindTopicByID(ctx context.Context, id uuid.UUID) (*entity.Topic, error) {
	args := m.Called(ctx, id)
	if topic, ok := args.Get(0).(*entity.Topic); ok {
		return topic, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockTopicRepository) FindTopic(ctx context.Context, applicationID uuid.UUID, name string) (*entity.Topic, error) {
	args := m.Called(ctx, applicationID, name)
	if topic, ok := args.Get(0).(*entity.Topic); ok {
		return topic, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockTopicRepository) FindTopicsByApplication(ctx context.Context, applicationID uuid.UUID) ([]*entity.Topic, error) {
	args := m.Called(ctx, applicationID)
	if topics, ok := args.Get(0).([]*entity.Topic); ok {
		return topics, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockTopicRepository) UpdateTopicARN(ctx context.Context, id uuid.UUID, arn *string) error {
	args := m.Called(ctx, id, arn)

	return args.Error(0)
}

func (m *MockTopicRepository) DeleteTopic(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}
