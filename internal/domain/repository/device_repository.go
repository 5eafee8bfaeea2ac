// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"pushgate/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Domain-specific errors for device persistence.
var (
	// ErrDeviceNotFound is returned when a device is not found.
	ErrDeviceNotFound = errors.New("device not found")
	// ErrDuplicateDevice is returned when the (device_id, platform) pair already exists.
	ErrDuplicateDevice = errors.New("device already exists")
)

// DeviceRepository defines the interface for device-related database operations.
type DeviceRepository interface {
	// CreateDevice persists a new device under a platform.
	CreateDevice(ctx context.Context, device *entity.Device) error

	// FindDeviceByID retrieves a device by its unique ID.
	FindDeviceByID(ctx context.Context, id uuid.UUID) (*entity.Device, error)

	// FindDevice retrieves the device with the given caller-supplied identifier under a platform.
	FindDevice(ctx context.Context, platformID uuid.UUID, deviceID string) (*entity.Device, error)

	// FindDevicesByPlatform retrieves all devices registered under a platform.
	FindDevicesByPlatform(ctx context.Context, platformID uuid.UUID) ([]*entity.Device, error)

	// FindDevicesByARNs retrieves the local devices whose remote identifiers
	// are in the given set.
	FindDevicesByARNs(ctx context.Context, arns []string) ([]*entity.Device, error)

	// UpdateDeviceARN persists the device's remote identifier (nil clears it).
	UpdateDeviceARN(ctx context.Context, id uuid.UUID, arn *string) error

	// UpdatePushToken updates the push token for a device.
	UpdatePushToken(ctx context.Context, id uuid.UUID, token string) error

	// DeleteDevice removes a device by its ID.
	DeleteDevice(ctx context.Context, id uuid.UUID) error
}
