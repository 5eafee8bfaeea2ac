package usecase

import (
	"context"

	"pushgate/internal/domain/entity"

	"github.com/google/uuid"
)

// PlatformInput carries the credentials for one notification channel.
type PlatformInput struct {
	Platform   string `json:"platform"`
	Credential string `json:"credential"`
	Principal  string `json:"principal"`
}

// DeviceInput describes one device installation. Platform selects the
// channel by tag; when empty, OS resolves it by operating system kind.
type DeviceInput struct {
	DeviceID  string `json:"device_id"`
	PushToken string `json:"push_token"`
	Platform  string `json:"platform"`
	OS        string `json:"os"`
}

// ProvisioningUsecase manages the local registry of applications, platforms,
// topics and devices, including remote registration on create and the
// deletion cascade that tears remote resources down best-effort before rows
// are removed.
type ProvisioningUsecase interface {
	// CreateApplication creates a new application.
	CreateApplication(ctx context.Context, name string) (*entity.Application, error)

	// GetApplication retrieves an application by ID.
	GetApplication(ctx context.Context, id uuid.UUID) (*entity.Application, error)

	// GetApplicationByName retrieves an application by its unique name.
	GetApplicationByName(ctx context.Context, name string) (*entity.Application, error)

	// DeleteApplication removes an application and cascades over all of its
	// platforms, devices, topics and subscriptions.
	DeleteApplication(ctx context.Context, id uuid.UUID) error

	// CreatePlatform adds a notification channel to an application and
	// registers it with the broker.
	CreatePlatform(ctx context.Context, applicationID uuid.UUID, input *PlatformInput) (*entity.Platform, error)

	// DeletePlatform tears down a platform and all devices under it.
	DeletePlatform(ctx context.Context, id uuid.UUID) error

	// AddDevice creates or refreshes a device under an application and
	// registers its endpoint. An existing (device, platform) pair gets a
	// token update instead of a second row.
	AddDevice(ctx context.Context, applicationID uuid.UUID, input *DeviceInput) (*entity.Device, error)

	// DeleteDevice tears down a device and its subscriptions.
	DeleteDevice(ctx context.Context, id uuid.UUID) error

	// GetOrCreateTopic returns the topic with the given name, creating and
	// registering it on first use.
	GetOrCreateTopic(ctx context.Context, applicationID uuid.UUID, name string) (*entity.Topic, error)

	// DeleteTopic tears down a topic and its subscriptions.
	DeleteTopic(ctx context.Context, id uuid.UUID) error
}
