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

// applicationRepository implements the repository.ApplicationRepository interface.
type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository is the constructor for applicationRepository.
func NewApplicationRepository(db *gorm.DB) repository.ApplicationRepository {
	return &applicationRepository{
		db: db,
	}
}

// CreateApplication persists a new application.
func (repo *applicationRepository) CreateApplication(ctx context.Context, app *entity.Application) error {
	appM := fromApplicationDomain(app)

	if err := repo.db.WithContext(ctx).Create(appM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateApplication
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required application information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create application")
	}

	// Update the entity with generated values
	app.ID = appM.ID
	app.CreatedAt = appM.CreatedAt
	app.UpdatedAt = appM.UpdatedAt

	return nil
}

// FindApplicationByID retrieves an application by its unique ID.
func (repo *applicationRepository) FindApplicationByID(ctx context.Context, id uuid.UUID) (*entity.Application, error) {
	var appM model.ApplicationModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&appM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrApplicationNotFound
		}

		return nil, errors.Wrap(err, "failed to find application by ID")
	}

	return toApplicationDomain(&appM), nil
}

// FindApplicationByName retrieves an application by its globally unique name.
func (repo *applicationRepository) FindApplicationByName(ctx context.Context, name string) (*entity.Application, error) {
	var appM model.ApplicationModel

	if err := repo.db.WithContext(ctx).
		Where("name = ?", name).
		First(&appM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrApplicationNotFound
		}

		return nil, errors.Wrap(err, "failed to find application by name")
	}

	return toApplicationDomain(&appM), nil
}

// DeleteApplication removes an application by its ID.
func (repo *applicationRepository) DeleteApplication(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.ApplicationModel{})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete application")
	}

	if result.RowsAffected == 0 {
		return repository.ErrApplicationNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toApplicationDomain converts a GORM ApplicationModel to a domain Application entity.
func toApplicationDomain(data *model.ApplicationModel) *entity.Application {
	if data == nil {
		return nil
	}

	return &entity.Application{
		ID:        data.ID,
		Name:      data.Name,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

// fromApplicationDomain converts a domain Application entity to a GORM ApplicationModel.
func fromApplicationDomain(data *entity.Application) *model.ApplicationModel {
	if data == nil {
		return nil
	}

	return &model.ApplicationModel{
		ID:        data.ID,
		Name:      data.Name,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}
