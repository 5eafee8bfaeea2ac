// Package repository provides hand-rolled test doubles for the persistence
// contracts.
package repository

import (
	"context"

	"pushgate/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockApplicationRepository is a test double for repository.ApplicationRepository.
type MockApplicationRepository struct {
	mock.Mock
}

func (m *MockApplicationRepository) CreateApplication(ctx context.Context, app *entity.Application) error {
	args := m.Called(ctx, app)

	return args.Error(0)
}

func (m *MockApplicationRepository) FindApplicationByID(ctx context.Context, id uuid.UUID) (*entity.Application, error) {
	args := m.Called(ctx, id)
	if app, ok := args.Get(0).(*entity.Application); ok {
		return app, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockApplicationRepository) FindApplicationByName(ctx context.Context, name string) (*entity.Application, error) {
	args := m.Called(ctx, name)
	if app, ok := args.Get(0).(*entity.Application); ok {
		return app, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockApplicationRepository) DeleteApplication(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}
