// Package usecase provides hand-rolled test doubles for the use case
// contracts.
package usecase

import (
	"context"

	"pushgate/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockDispatchUsecase is a test double for usecase.DispatchUsecase.
type MockDispatchUsecase struct {
	mock.Mock
}

func (m *MockDispatchUsecase) SendToDevice(ctx context.Context, deviceID uuid.UUID, message *entity.PushMessage) error {
	args := m.Called(ctx, deviceID, message)

	return args.Error(0)
}

func (m *MockDispatchUsecase) SendToTopic(ctx context.Context, topicID uuid.UUID, message *entity.PushMessage) error {
	args := m.Called(ctx, topicID, message)

	return args.Error(0)
}

func (m *MockDispatchUsecase) SubscribeDeviceToTopic(ctx context.Context, topicID, deviceID uuid.UUID) (*entity.Subscription, error) {
	args := m.Called(ctx, topicID, deviceID)
	if subscription, ok := args.Get(0).(*entity.Subscription); ok {
		return subscription, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockDispatchUsecase) UnsubscribeDeviceFromTopic(ctx context.Context, topicID, deviceID uuid.UUID) (bool, error) {
	args := m.Called(ctx, topicID, deviceID)

	return args.Bool(0), args.Error(1)
}

func (m *MockDispatchUsecase) DeviceMessageHistory(ctx context.Context, deviceID uuid.UUID, limit, offset int) ([]*entity.PushMessage, int64, error) {
	args := m.Called(ctx, deviceID, limit, offset)
	if messages, ok := args.Get(0).([]*entity.PushMessage); ok {
		return messages, args.Get(1).(int64), args.Error(2)
	}

	return nil, args.Get(1).(int64), args.Error(2)
}

func (m *MockDispatchUsecase) PurgeMessage(ctx context.Context, messageID uuid.UUID) error {
	args := m.Called(ctx, messageID)

	return args.Error(0)
}
