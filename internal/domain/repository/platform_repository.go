// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"pushgate/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Domain-specific errors for platform persistence.
var (
	// ErrPlatformNotFound is returned when a platform is not found.
	ErrPlatformNotFound = errors.New("platform not found")
	// ErrDuplicatePlatform is returned when the (application, platform) pair already exists.
	ErrDuplicatePlatform = errors.New("platform already exists")
)

// PlatformRepository defines the interface for platform-related database operations.
type PlatformRepository interface {
	// CreatePlatform persists a new platform for an application.
	CreatePlatform(ctx context.Context, platform *entity.Platform) error

	// FindPlatformByID retrieves a platform by its unique ID.
	FindPlatformByID(ctx context.Context, id uuid.UUID) (*entity.Platform, error)

	// FindPlatform retrieves the platform with the given tag under an application.
	FindPlatform(ctx context.Context, applicationID uuid.UUID, platformTag string) (*entity.Platform, error)

	// FindPlatformsByApplication retrieves all platforms of an application.
	FindPlatformsByApplication(ctx context.Context, applicationID uuid.UUID) ([]*entity.Platform, error)

	// UpdatePlatformARN persists the platform's remote identifier (nil clears it).
	UpdatePlatformARN(ctx context.Context, id uuid.UUID, arn *string) error

	// DeletePlatform removes a platform by its ID.
	DeletePlatform(ctx context.Context, id uuid.UUID) error
}
