package repository

import (
	"context"

	"pushgate/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockMessageRepository is a test double for repository.MessageRepository.
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) CreateMessage(ctx context.Context, message *entity.PushMessage) error {
	args := m.Called(ctx, message)

	return args.Error(0)
}

func (m *MockMessageRepository) FindMessagesByReceiver(ctx context.Context, receiverARN string, limit, offset int) ([]*entity.PushMessage, error) {
	args := m.Called(ctx, receiverARN, limit, offset)
	if messages, ok := args.Get(0).([]*entity.PushMessage); ok {
		return messages, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockMessageRepository) CountMessagesByReceiver(ctx context.Context, receiverARN string) (int64, error) {
	args := m.Called(ctx, receiverARN)

	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMessageRepository) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}
