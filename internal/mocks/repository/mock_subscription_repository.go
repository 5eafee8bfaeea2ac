package repository

import (
	"context"

	"pushgate/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockSubscriptionRepository is a test double for repository.SubscriptionRepository.
type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) GetOrCreateSubscription(ctx context.Context, topicID, deviceID uuid.UUID) (*entity.Subscription, bool, error) {
	args := m.Called(ctx, topicID, deviceID)
	if sub, ok := args.Get(0).(*entity.Subscription); ok {
		return sub, args.Bool(1), args.Error(2)
	}

	return nil, args.Bool(1), args.Error(2)
}

func (m *MockSubscriptionRepository) FindSubscriptionByID(ctx context.Context, id uuid.UUID) (*entity.Subscription, error) {
	args := m.Called(ctx, id)
	if sub, ok := args.Get(0).(*entity.Subscription); ok {
		return sub, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockSubscriptionRepository) FindSubscription(ctx context.Context, topicID, deviceID uuid.UUID) (*entity.Subscription, error) {
	args := m.Called(ctx, topicID, deviceID)
	if sub, ok := args.Get(0).(*entity.Subscription); ok {
		return sub, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockSubscriptionRepository) FindSubscriptionsByTopic(ctx context.Context, topicID uuid.UUID) ([]*entity.Subscription, error) {
	args := m.Called(ctx, topicID)
	if subs, ok := args.Get(0).([]*entity.Subscription); ok {
		return subs, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockSubscriptionRepository) FindSubscriptionsByDevice(ctx context.Context, deviceID uuid.UUID) ([]*entity.Subscription, error) {
	args := m.Called(ctx, deviceID)
	if subs, ok := args.Get(0).([]*entity.Subscription); ok {
		return subs, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockSubscriptionRepository) UpdateSubscriptionARN(ctx context.Context, id uuid.UUID, arn *string) error {
	args := m.Called(ctx, id, arn)

	return args.Error(0)
}

func (m *MockSubscriptionRepository) DeleteSubscription(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}
