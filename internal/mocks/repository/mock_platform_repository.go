package repository

import (
	"context"

	"pushgate/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockPlatformRepository is a test double for repository.PlatformRepository.
type MockPlatformRepository struct {
	mock.Mock
}

func (m *MockPlatformRepository) CreatePlatform(ctx context.Context, platform *entity.Platform) error {
	args := m.Called(ctx, platform)

	return args.Error(0)
}

func (m *MockPlatformRepository) FindPlatformByID(ctx context.Context, id uuid.UUID) (*entity.Platform, error) {
	args := m.Called(ctx, id)
	if platform, ok := args.Get(0).(*entity.Platform); ok {
		return platform, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockPlatformRepository) FindPlatform(ctx context.Context, applicationID uuid.UUID, platformTag string) (*entity.Platform, error) {
	args := m.Called(ctx, applicationID, platformTag)
	if platform, ok := args.Get(0).(*entity.Platform); ok {
		return platform, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockPlatformRepository) FindPlatformsByApplication(ctx context.Context, applicationID uuid.UUID) ([]*entity.Platform, error) {
	args := m.Called(ctx, applicationID)
	if platforms, ok := args.Get(0).([]*entity.Platform); ok {
		return platforms, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockPlatformRepository) UpdatePlatformARN(ctx context.Context, id uuid.UUID, arn *string) error {
	args := m.Called(ctx, id, arn)

	return args.Error(0)
}

func (m *MockPlatformRepository) DeletePlatform(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}
