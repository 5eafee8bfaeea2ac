package repository

import (
	"context"

	"pushgate/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockDeviceRepository is a test double for repository.DeviceRepository.
type MockDeviceRepository struct {
	mock.Mock
}

func (m *MockDeviceRepository) CreateDevice(ctx context.Context, device *entity.Device) error {
	args := m.Called(ctx, device)

	return args.Error(0)
}

func (m *MockDeviceRepository) FindDeviceByID(ctx context.Context, id uuid.UUID) (*entity.Device, error) {
	args := m.Called(ctx, id)
	if device, ok := args.Get(0).(*entity.Device); ok {
		return device, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockDeviceRepository) FindDevice(ctx context.Context, platformID uuid.UUID, deviceID string) (*entity.Device, error) {
	args := m.Called(ctx, platformID, deviceID)
	if device, ok := args.Get(0).(*entity.Device); ok {
		return device, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockDeviceRepository) FindDevicesByPlatform(ctx context.Context, platformID uuid.UUID) ([]*entity.Device, error) {
	args := m.Called(ctx, platformID)
	if devices, ok := args.Get(0).([]*entity.Device); ok {
		return devices, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockDeviceRepository) FindDevicesByARNs(ctx context.Context, arns []string) ([]*entity.Device, error) {
	args := m.Called(ctx, arns)
	if devices, ok := args.Get(0).([]*entity.Device); ok {
		return devices, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockDeviceRepository) UpdateDeviceARN(ctx context.Context, id uuid.UUID, arn *string) error {
	args := m.Called(ctx, id, arn)

	return args.Error(0)
}

func (m *MockDeviceRepository) UpdatePushToken(ctx context.Context, id uuid.UUID, token string) error {
	args := m.Called(ctx, id, token)

	return args.Error(0)
}

func (m *MockDeviceRepository) DeleteDevice(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}
