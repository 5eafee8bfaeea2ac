package service

import (
	"context"

	"pushgate/internal/domain/service"

	"github.com/stretchr/testify/mock"
)

// MockEventPublisher is a test double for service.EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishDispatchEvent(ctx context.Context, event *service.DispatchEvent) error {
	args := m.Called(ctx, event)

	return args.Error(0)
}

func (m *MockEventPublisher) Close() error {
	args := m.Called()

	return args.Error(0)
}
