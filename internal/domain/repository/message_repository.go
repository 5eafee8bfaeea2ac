// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"pushgate/internal/domain/entity"

	"github.com/google/uuid"
)

// MessageRepository defines the interface for the send-audit trail. Messages
// are only persisted when send logging is enabled at dispatch time.
type MessageRepository interface {
	// CreateMessage persists a signed push message before it is sent.
	CreateMessage(ctx context.Context, message *entity.PushMessage) error

	// FindMessagesByReceiver retrieves the audit records sent to one remote
	// target, newest first, with pagination.
	FindMessagesByReceiver(ctx context.Context, receiverARN string, limit, offset int) ([]*entity.PushMessage, error)

	// CountMessagesByReceiver returns the total number of audit records for
	// one remote target.
	CountMessagesByReceiver(ctx context.Context, receiverARN string) (int64, error)

	// DeleteMessage removes an audit record by its ID.
	DeleteMessage(ctx context.Context, id uuid.UUID) error
}
