// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"pushgate/internal/domain/entity"
	domainerrors "pushgate/internal/domain/errors"
	"pushgate/internal/domain/repository"
	"pushgate/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// messageRepository implements the repository.MessageRepository interface.
type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository is the constructor for messageRepository.
func NewMessageRepository(db *gorm.DB) repository.MessageRepository {
	return &messageRepository{
		db: db,
	}
}

// CreateMessage persists a signed push message before it is sent.
func (repo *messageRepository) CreateMessage(ctx context.Context, message *entity.PushMessage) error {
	messageM := fromMessageDomain(message)

	if err := repo.db.WithContext(ctx).Create(messageM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create push message")
	}

	message.CreatedAt = messageM.CreatedAt

	return nil
}

// FindMessagesByReceiver retrieves the audit records sent to one remote target,
// newest first, with pagination.
func (repo *messageRepository) FindMessagesByReceiver(ctx context.Context, receiverARN string, limit, offset int) ([]*entity.PushMessage, error) {
	var messageModels []*model.PushMessageModel

	query := repo.db.WithContext(ctx).
		Where("receiver_arn = ?", receiverARN).
		Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&messageModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find messages by receiver")
	}

	messages := make([]*entity.PushMessage, 0, len(messageModels))
	for _, messageM := range messageModels {
		messages = append(messages, toMessageDomain(messageM))
	}

	return messages, nil
}

// CountMessagesByReceiver returns the total number of audit records for one
// remote target.
func (repo *messageRepository) CountMessagesByReceiver(ctx context.Context, receiverARN string) (int64, error) {
	var count int64

	if err := repo.db.WithContext(ctx).
		Model(&model.PushMessageModel{}).
		Where("receiver_arn = ?", receiverARN).
		Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count messages by receiver")
	}

	return count, nil
}

// DeleteMessage removes an audit record by its ID.
func (repo *messageRepository) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.PushMessageModel{})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete message")
	}

	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toMessageDomain converts a GORM PushMessageModel to a domain PushMessage entity.
func toMessageDomain(data *model.PushMessageModel) *entity.PushMessage {
	if data == nil {
		return nil
	}

	return &entity.PushMessage{
		ID:            data.ID,
		Sound:         data.Sound,
		Message:       data.Message,
		HasNewContent: data.HasNewContent,
		Context:       data.Context,
		ContextID:     data.ContextID,
		BadgeCount:    data.BadgeCount,
		ExtraPayload:  map[string]any(data.ExtraPayload),
		ReceiverARN:   data.ReceiverARN,
		MessageType:   entity.MessageType(data.MessageType),
		CreatedAt:     data.CreatedAt,
	}
}

// fromMessageDomain converts a domain PushMessage entity to a GORM PushMessageModel.
func fromMessageDomain(data *entity.PushMessage) *model.PushMessageModel {
	if data == nil {
		return nil
	}

	return &model.PushMessageModel{
		ID:            data.ID,
		Sound:         data.Sound,
		Message:       data.Message,
		HasNewContent: data.HasNewContent,
		Context:       data.Context,
		ContextID:     data.ContextID,
		BadgeCount:    data.BadgeCount,
		ExtraPayload:  datatypes.JSONMap(data.ExtraPayload),
		ReceiverARN:   data.ReceiverARN,
		MessageType:   int(data.MessageType),
		CreatedAt:     data.CreatedAt,
	}
}
