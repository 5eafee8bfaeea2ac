// Package usecase provides hand-rolled test doubles for the use case
// contracts.
package usecase

import (
	"context"

	"pushgate/internal/domain/entity"
	domainusecase "pushgate/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockProvisioningUsecase is a test double for usecase.ProvisioningUsecase.
type MockProvisioningUsecase struct {
	mock.Mock
}

func (m *MockProvisioningUsecase) CreateApplication(ctx context.Context, name string) (*entity.Application, error) {
	args := m.Called(ctx, name)
	if app, ok := args.Get(0).(*entity.Application); ok {
		return app, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockProvisioningUsecase) GetApplication(ctx context.Context, id uuid.UUID) (*entity.Application, error) {
	args := m.Called(ctx, id)
	if app, ok := args.Get(0).(*entity.Application); ok {
		return app, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockProvisioningUsecase) GetApplicationByName(ctx context.Context, name string) (*entity.Application, error) {
	args := m.Called(ctx, name)
	if app, ok := args.Get(0).(*entity.Application); ok {
		return app, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockProvisioningUsecase) DeleteApplication(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

func (m *MockProvisioningUsecase) CreatePlatform(ctx context.Context, applicationID uuid.UUID, input *domainusecase.PlatformInput) (*entity.Platform, error) {
	args := m.Called(ctx, applicationID, input)
	if platform, ok := args.Get(0).(*entity.Platform); ok {
		return platform, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockProvisioningUsecase) DeletePlatform(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

func (m *MockProvisioningUsecase) AddDevice(ctx context.Context, applicationID uuid.UUID, input *domainusecase.DeviceInput) (*entity.Device, error) {
	args := m.Called(ctx, applicationID, input)
	if device, ok := args.Get(0).(*entity.Device); ok {
		return device, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockProvisioningUsecase) DeleteDevice(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

func (m *MockProvisioningUsecase) GetOrCreateTopic(ctx context.Context, applicationID uuid.UUID, name string) (*entity.Topic, error) {
	args := m.Called(ctx, applicationID, name)
	if topic, ok := args.Get(0).(*entity.Topic); ok {
		return topic, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockProvisioningUsecase) DeleteTopic(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}
