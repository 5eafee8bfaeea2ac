package usecase

import (
	"context"

	"pushgate/internal/domain/entity"
	"pushgate/internal/domain/service"

	"github.com/google/uuid"
)

// RegistrationUsecase drives the remote registration state machine. Register
// calls are idempotent: an already registered entity is returned unchanged
// with no broker call. Deregister calls on an unregistered entity fail with
// ErrNotRegistered; the persist flag controls whether a cleared identifier is
// written back, deletion cascades pass false because the row is removed right
// after.
type RegistrationUsecase interface {
	// RegisterPlatform creates the platform application on the broker.
	RegisterPlatform(ctx context.Context, platformID uuid.UUID) (*entity.Platform, error)

	// DeregisterPlatform deletes the platform application on the broker.
	DeregisterPlatform(ctx context.Context, platformID uuid.UUID, persist bool) (bool, error)

	// RegisterDevice creates the device endpoint on the broker, registering
	// the owning platform first when needed. A token conflict reported by the
	// broker is healed by adopting the existing endpoint.
	RegisterDevice(ctx context.Context, deviceID uuid.UUID) (*entity.Device, error)

	// DeregisterDevice deletes the device endpoint on the broker.
	DeregisterDevice(ctx context.Context, deviceID uuid.UUID, persist bool) (bool, error)

	// UpdateDevice pushes a new token onto the registered device endpoint and
	// re-enables it.
	UpdateDevice(ctx context.Context, deviceID uuid.UUID, newToken string) (*entity.Device, error)

	// RegisterTopic creates the topic on the broker.
	RegisterTopic(ctx context.Context, topicID uuid.UUID) (*entity.Topic, error)

	// DeregisterTopic deletes the topic on the broker.
	DeregisterTopic(ctx context.Context, topicID uuid.UUID, persist bool) (bool, error)

	// RegisterSubscription subscribes the device endpoint to the topic,
	// registering device and topic first when needed.
	RegisterSubscription(ctx context.Context, subscriptionID uuid.UUID) (*entity.Subscription, error)

	// DeregisterSubscription removes the broker-side subscription.
	DeregisterSubscription(ctx context.Context, subscriptionID uuid.UUID, persist bool) (bool, error)

	// ListPlatformEndpoints drains the broker's paginated endpoint listing
	// for a platform.
	ListPlatformEndpoints(ctx context.Context, platformID uuid.UUID) ([]service.Endpoint, error)

	// ListTopicSubscriptions drains the broker's paginated subscription
	// listing for a topic.
	ListTopicSubscriptions(ctx context.Context, topicID uuid.UUID) ([]service.RemoteSubscription, error)

	// ListRegisteredDevices returns the local devices whose endpoints the
	// broker currently lists under a platform.
	ListRegisteredDevices(ctx context.Context, platformID uuid.UUID) ([]*entity.Device, error)
}
