// Package usecase provides hand-rolled test doubles for the use case
// contracts.
package usecase

import (
	"context"

	"pushgate/internal/domain/entity"
	"pushgate/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockRegistrationUsecase is a test double for usecase.RegistrationUsecase.
type MockRegistrationUsecase struct {
	mock.Mock
}

func (m *MockRegistrationUsecase) RegisterPlatform(ctx context.Context, platformID uuid.UUID) (*entity.Platform, error) {
	args := m.Called(ctx, platformID)
	if platform, ok := args.Get(0).(*entity.Platform); ok {
		return platform, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockRegistrationUsecase) DeregisterPlatform(ctx context.Context, platformID uuid.UUID, persist bool) (bool, error) {
	args := m.Called(ctx, platformID, persist)

	return args.Bool(0), args.Error(1)
}

func (m *MockRegistrationUsecase) RegisterDevice(ctx context.Context, deviceID uuid.UUID) (*entity.Device, error) {
	args := m.Called(ctx, deviceID)
	if device, ok := args.Get(0).(*entity.Device); ok {
		return device, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockRegistrationUsecase) DeregisterDevice(ctx context.Context, deviceID uuid.UUID, persist bool) (bool, error) {
	args := m.Called(ctx, deviceID, persist)

	return args.Bool(0), args.Error(1)
}

func (m *MockRegistrationUsecase) UpdateDevice(ctx context.Context, deviceID uuid.UUID, newToken string) (*entity.Device, error) {
	args := m.Called(ctx, deviceID, newToken)
	if device, ok := args.Get(0).(*entity.Device); ok {
		return device, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockRegistrationUsecase) RegisterTopic(ctx context.Context, topicID uuid.UUID) (*entity.Topic, error) {
	args := m.Called(ctx, topicID)
	if topic, ok := args.Get(0).(*entity.Topic); ok {
		return topic, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockRegistrationUsecase) DeregisterTopic(ctx context.Context, topicID uuid.UUID, persist bool) (bool, error) {
	args := m.Called(ctx, topicID, persist)

	return args.Bool(0), args.Error(1)
}

func (m *MockRegistrationUsecase) RegisterSubscription(ctx context.Context, subscriptionID uuid.UUID) (*entity.Subscription, error) {
	args := m.Called(ctx, subscriptionID)
	if sub, ok := args.Get(0).(*entity.Subscription); ok {
		return sub, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockRegistrationUsecase) DeregisterSubscription(ctx context.Context, subscriptionID uuid.UUID, persist bool) (bool, error) {
	args := m.Called(ctx, subscriptionID, persist)

	return args.Bool(0), args.Error(1)
}

func (m *MockRegistrationUsecase) ListPlatformEndpoints(ctx context.Context, platformID uuid.UUID) ([]service.Endpoint, error) {
	args := m.Called(ctx, platformID)
	if endpoints, ok := args.Get(0).([]service.Endpoint); ok {
		return endpoints, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockRegistrationUsecase) ListTopicSubscriptions(ctx context.Context, topicID uuid.UUID) ([]service.RemoteSubscription, error) {
	args := m.Called(ctx, topicID)
	if subs, ok := args.Get(0).([]service.RemoteSubscription); ok {
		return subs, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockRegistrationUsecase) ListRegisteredDevices(ctx context.Context, platformID uuid.UUID) ([]*entity.Device, error) {
	args := m.Called(ctx, platformID)
	if devices, ok := args.Get(0).([]*entity.Device); ok {
		return devices, args.Error(1)
	}

	return nil, args.Error(1)
}
