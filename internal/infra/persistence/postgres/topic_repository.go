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
	"gorm.io/gorm"
)

// topicRepository implements the repository.TopicRepository interface.
type topicRepository struct {
	db *gorm.DB
}

// NewTopicRepository is the constructor for topicRepository.
func NewTopicRepository(db *gorm.DB) repository.TopicRepository {
	return &topicRepository{
		db: db,
	}
}

// CreateTopic persists a new topic for an application.
func (repo *topicRepository) CreateTopic(ctx context.Context, topic *entity.Topic) error {
	topicM := fromTopicDomain(topic)

	if err := repo.db.WithContext(ctx).Create(topicM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateTopic
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("invalid application reference")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required topic information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create topic")
	}

	// Update the entity with generated values
	topic.ID = topicM.ID
	topic.CreatedAt = topicM.CreatedAt
	topic.UpdatedAt = topicM.UpdatedAt

	return nil
}

// FindTopicByID retrieves a topic by its unique ID.
func (repo *topicRepository) FindTopicByID(ctx context.Context, id uuid.UUID) (*entity.Topic, error) {
	var topicM model.TopicModel

	if err := repo.db.WithContext(ctx).
		Preload("Application").
		Where("id = ?", id).
		First(&topicM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrTopicNotFound
		}

		return nil, errors.Wrap(err, "failed to find topic by ID")
	}

	return toTopicDomain(&topicM), nil
}

// FindTopic retrieves the topic with the given name under an application.
func (repo *topicRepository) FindTopic(ctx context.Context, applicationID uuid.UUID, name string) (*entity.Topic, error) {
	var topicM model.TopicModel

	if err := repo.db.WithContext(ctx).
		Preload("Application").
		Where("application_id = ? AND name = ?", applicationID, name).
		First(&topicM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrTopicNotFound
		}

		return nil, errors.Wrap(err, "failed to find topic by name")
	}

	return toTopicDomain(&topicM), nil
}

// FindTopicsByApplication retrieves all topics of an application.
func (repo *topicRepository) FindTopicsByApplication(ctx context.Context, applicationID uuid.UUID) ([]*entity.Topic, error) {
	var topicModels []*model.TopicModel

	if err := repo.db.WithContext(ctx).
		Preload("Application").
		Where("application_id = ?", applicationID).
		Order("created_at ASC").
		Find(&topicModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find topics by application")
	}

	topics := make([]*entity.Topic, 0, len(topicModels))
	for _, topicM := range topicModels {
		topics = append(topics, toTopicDomain(topicM))
	}

	return topics, nil
}

// UpdateTopicARN persists the topic's remote identifier (nil clears it).
func (repo *topicRepository) UpdateTopicARN(ctx context.Context, id uuid.UUID, arn *string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.TopicModel{}).
		Where("id = ?", id).
		Update("arn", arn)

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update topic ARN")
	}

	if result.RowsAffected == 0 {
		return repository.ErrTopicNotFound
	}

	return nil
}

// DeleteTopic removes a topic by its ID.
func (repo *topicRepository) DeleteTopic(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.TopicModel{})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete topic")
	}

	if result.RowsAffected == 0 {
		return repository.ErrTopicNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toTopicDomain converts a GORM TopicModel to a domain Topic entity.
// The owning application's name is denormalized onto the entity when the
// association is loaded.
func toTopicDomain(data *model.TopicModel) *entity.Topic {
	if data == nil {
		return nil
	}

	topic := &entity.Topic{
		ID:            data.ID,
		ApplicationID: data.ApplicationID,
		Name:          data.Name,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
	topic.ARN = data.ARN
	if data.Application != nil {
		topic.AppName = data.Application.Name
	}

	return topic
}

// fromTopicDomain converts a domain Topic entity to a GORM TopicModel.
func fromTopicDomain(data *entity.Topic) *model.TopicModel {
	if data == nil {
		return nil
	}

	return &model.TopicModel{
		ID:            data.ID,
		ApplicationID: data.ApplicationID,
		Name:          data.Name,
		ARN:           data.ARN,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
}
