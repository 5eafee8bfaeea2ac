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

// platformRepository implements the repository.PlatformRepository interface.
type platformRepository struct {
	db *gorm.DB
}

// NewPlatformRepository is the constructor for platformRepository.
func NewPlatformRepository(db *gorm.DB) repository.PlatformRepository {
	return &platformRepository{
		db: db,
	}
}

// CreatePlatform persists a new platform for an application.
func (repo *platformRepository) CreatePlatform(ctx context.Context, platform *entity.Platform) error {
	platformM := fromPlatformDomain(platform)

	if err := repo.db.WithContext(ctx).Create(platformM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicatePlatform
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("invalid application reference")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required platform information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create platform")
	}

	// Update the entity with generated values
	platform.ID = platformM.ID
	platform.CreatedAt = platformM.CreatedAt
	platform.UpdatedAt = platformM.UpdatedAt

	return nil
}

// FindPlatformByID retrieves a platform by its unique ID.
func (repo *platformRepository) FindPlatformByID(ctx context.Context, id uuid.UUID) (*entity.Platform, error) {
	var platformM model.PlatformModel

	if err := repo.db.WithContext(ctx).
		Preload("Application").
		Where("id = ?", id).
		First(&platformM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPlatformNotFound
		}

		return nil, errors.Wrap(err, "failed to find platform by ID")
	}

	return toPlatformDomain(&platformM), nil
}

// FindPlatform retrieves the platform with the given tag under an application.
func (repo *platformRepository) FindPlatform(ctx context.Context, applicationID uuid.UUID, platformTag string) (*entity.Platform, error) {
	var platformM model.PlatformModel

	if err := repo.db.WithContext(ctx).
		Preload("Application").
		Where("application_id = ? AND platform = ?", applicationID, platformTag).
		First(&platformM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPlatformNotFound
		}

		return nil, errors.Wrap(err, "failed to find platform by tag")
	}

	return toPlatformDomain(&platformM), nil
}

// FindPlatformsByApplication retrieves all platforms of an application.
func (repo *platformRepository) FindPlatformsByApplication(ctx context.Context, applicationID uuid.UUID) ([]*entity.Platform, error) {
	var platformModels []*model.PlatformModel

	if err := repo.db.WithContext(ctx).
		Preload("Application").
		Where("application_id = ?", applicationID).
		Order("created_at ASC").
		Find(&platformModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find platforms by application")
	}

	platforms := make([]*entity.Platform, 0, len(platformModels))
	for _, platformM := range platformModels {
		platforms = append(platforms, toPlatformDomain(platformM))
	}

	return platforms, nil
}

// UpdatePlatformARN persists the platform's remote identifier (nil clears it).
func (repo *platformRepository) UpdatePlatformARN(ctx context.Context, id uuid.UUID, arn *string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.PlatformModel{}).
		Where("id = ?", id).
		Update("arn", arn)

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update platform ARN")
	}

	if result.RowsAffected == 0 {
		return repository.ErrPlatformNotFound
	}

	return nil
}

// DeletePlatform removes a platform by its ID.
func (repo *platformRepository) DeletePlatform(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.PlatformModel{})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete platform")
	}

	if result.RowsAffected == 0 {
		return repository.ErrPlatformNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toPlatformDomain converts a GORM PlatformModel to a domain Platform entity.
// The owning application's name is denormalized onto the entity when the
// association is loaded.
func toPlatformDomain(data *model.PlatformModel) *entity.Platform {
	if data == nil {
		return nil
	}

	platform := &entity.Platform{
		ID:            data.ID,
		ApplicationID: data.ApplicationID,
		Platform:      data.Platform,
		Credential:    data.Credential,
		Principal:     data.Principal,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
	platform.ARN = data.ARN
	if data.Application != nil {
		platform.AppName = data.Application.Name
	}

	return platform
}

// fromPlatformDomain converts a domain Platform entity to a GORM PlatformModel.
func fromPlatformDomain(data *entity.Platform) *model.PlatformModel {
	if data == nil {
		return nil
	}

	return &model.PlatformModel{
		ID:            data.ID,
		ApplicationID: data.ApplicationID,
		Platform:      data.Platform,
		Credential:    data.Credential,
		Principal:     data.Principal,
		ARN:           data.ARN,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
}
