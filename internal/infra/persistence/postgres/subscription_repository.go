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

// subscriptionRepository implements the repository.SubscriptionRepository interface.
type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository is the constructor for subscriptionRepository.
func NewSubscriptionRepository(db *gorm.DB) repository.SubscriptionRepository {
	return &subscriptionRepository{
		db: db,
	}
}

// GetOrCreateSubscription returns the subscription joining the given topic and
// device, creating the row if it does not exist yet.
func (repo *subscriptionRepository) GetOrCreateSubscription(ctx context.Context, topicID, deviceID uuid.UUID) (*entity.Subscription, bool, error) {
	existing, err := repo.FindSubscription(ctx, topicID, deviceID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrSubscriptionNotFound) {
		return nil, false, err
	}

	subscriptionM := &model.SubscriptionModel{
		TopicID:  topicID,
		DeviceID: deviceID,
	}

	if err := repo.db.WithContext(ctx).Create(subscriptionM).Error; err != nil {
		// A concurrent create may win the race; fall back to the winner's row.
		if isUniqueConstraintViolation(err) {
			winner, findErr := repo.FindSubscription(ctx, topicID, deviceID)
			if findErr != nil {
				return nil, false, findErr
			}

			return winner, false, nil
		}
		if isForeignKeyConstraintViolation(err) {
			return nil, false, domainerrors.ErrValidationFailed.WrapMessage("invalid topic or device reference")
		}

		return nil, false, domainerrors.NewDatabaseExecuteError(err, "failed to create subscription")
	}

	return toSubscriptionDomain(subscriptionM), true, nil
}

// FindSubscriptionByID retrieves a subscription by its unique ID.
func (repo *subscriptionRepository) FindSubscriptionByID(ctx context.Context, id uuid.UUID) (*entity.Subscription, error) {
	var subscriptionM model.SubscriptionModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&subscriptionM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrSubscriptionNotFound
		}

		return nil, errors.Wrap(err, "failed to find subscription by ID")
	}

	return toSubscriptionDomain(&subscriptionM), nil
}

// FindSubscription retrieves the subscription joining the given topic and device.
func (repo *subscriptionRepository) FindSubscription(ctx context.Context, topicID, deviceID uuid.UUID) (*entity.Subscription, error) {
	var subscriptionM model.SubscriptionModel

	if err := repo.db.WithContext(ctx).
		Where("topic_id = ? AND device_id = ?", topicID, deviceID).
		First(&subscriptionM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrSubscriptionNotFound
		}

		return nil, errors.Wrap(err, "failed to find subscription")
	}

	return toSubscriptionDomain(&subscriptionM), nil
}

// FindSubscriptionsByTopic retrieves all subscriptions of a topic.
func (repo *subscriptionRepository) FindSubscriptionsByTopic(ctx context.Context, topicID uuid.UUID) ([]*entity.Subscription, error) {
	var subscriptionModels []*model.SubscriptionModel

	if err := repo.db.WithContext(ctx).
		Where("topic_id = ?", topicID).
		Order("created_at ASC").
		Find(&subscriptionModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find subscriptions by topic")
	}

	subscriptions := make([]*entity.Subscription, 0, len(subscriptionModels))
	for _, subscriptionM := range subscriptionModels {
		subscriptions = append(subscriptions, toSubscriptionDomain(subscriptionM))
	}

	return subscriptions, nil
}

// FindSubscriptionsByDevice retrieves all subscriptions of a device.
func (repo *subscriptionRepository) FindSubscriptionsByDevice(ctx context.Context, deviceID uuid.UUID) ([]*entity.Subscription, error) {
	var subscriptionModels []*model.SubscriptionModel

	if err := repo.db.WithContext(ctx).
		Where("device_id = ?", deviceID).
		Order("created_at ASC").
		Find(&subscriptionModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find subscriptions by device")
	}

	subscriptions := make([]*entity.Subscription, 0, len(subscriptionModels))
	for _, subscriptionM := range subscriptionModels {
		subscriptions = append(subscriptions, toSubscriptionDomain(subscriptionM))
	}

	return subscriptions, nil
}

// UpdateSubscriptionARN persists the subscription's remote identifier (nil clears it).
func (repo *subscriptionRepository) UpdateSubscriptionARN(ctx context.Context, id uuid.UUID, arn *string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.SubscriptionModel{}).
		Where("id = ?", id).
		Update("arn", arn)

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update subscription ARN")
	}

	if result.RowsAffected == 0 {
		return repository.ErrSubscriptionNotFound
	}

	return nil
}

// DeleteSubscription removes a subscription by its ID.
func (repo *subscriptionRepository) DeleteSubscription(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.SubscriptionModel{})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete subscription")
	}

	if result.RowsAffected == 0 {
		return repository.ErrSubscriptionNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toSubscriptionDomain converts a GORM SubscriptionModel to a domain Subscription entity.
func toSubscriptionDomain(data *model.SubscriptionModel) *entity.Subscription {
	if data == nil {
		return nil
	}

	subscription := &entity.Subscription{
		ID:        data.ID,
		TopicID:   data.TopicID,
		DeviceID:  data.DeviceID,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
	subscription.ARN = data.ARN

	return subscription
}
