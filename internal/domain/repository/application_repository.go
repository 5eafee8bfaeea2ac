// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"pushgate/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Domain-specific errors for application persistence.
var (
	// ErrApplicationNotFound is returned when an application is not found.
	ErrApplicationNotFound = errors.New("application not found")
	// ErrDuplicateApplication is returned when an application name is already taken.
	ErrDuplicateApplication = errors.New("application already exists")
)

// ApplicationRepository defines the interface for application-related database operations.
type ApplicationRepository interface {
	// CreateApplication persists a new application.
	CreateApplication(ctx context.Context, app *entity.Application) error

	// FindApplicationByID retrieves an application by its unique ID.
	FindApplicationByID(ctx context.Context, id uuid.UUID) (*entity.Application, error)

	// FindApplicationByName retrieves an application by its globally unique name.
	FindApplicationByName(ctx context.Context, name string) (*entity.Application, error)

	// DeleteApplication removes an application by its ID.
	DeleteApplication(ctx context.Context, id uuid.UUID) error
}
