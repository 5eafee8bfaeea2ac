package usecase

import (
	"context"

	"pushgate/internal/domain/entity"

	"github.com/google/uuid"
)

// DispatchUsecase formats and delivers push messages and manages topic
// membership. Every send signs the message (receiver plus message type)
// before it goes out; when send logging is enabled the signed message is
// persisted before publishing so an audit record exists even if the broker
// call fails.
type DispatchUsecase interface {
	// SendToDevice publishes the message to one registered device using the
	// payload strategy of the device's platform.
	SendToDevice(ctx context.Context, deviceID uuid.UUID, message *entity.PushMessage) error

	// SendToTopic publishes the message to a registered topic, formatted once
	// per platform of the owning application plus the plain-text fallback.
	SendToTopic(ctx context.Context, topicID uuid.UUID, message *entity.PushMessage) error

	// SubscribeDeviceToTopic subscribes the device to the topic. Repeat calls
	// reuse the existing subscription row.
	SubscribeDeviceToTopic(ctx context.Context, topicID, deviceID uuid.UUID) (*entity.Subscription, error)

	// UnsubscribeDeviceFromTopic removes the subscription remotely and
	// locally. A device that was never subscribed reports false, not an
	// error.
	UnsubscribeDeviceFromTopic(ctx context.Context, topicID, deviceID uuid.UUID) (bool, error)

	// DeviceMessageHistory returns the audit trail of messages sent to one
	// registered device, newest first, plus the total record count for that
	// device's endpoint.
	DeviceMessageHistory(ctx context.Context, deviceID uuid.UUID, limit, offset int) ([]*entity.PushMessage, int64, error)

	// PurgeMessage removes one audit record.
	PurgeMessage(ctx context.Context, messageID uuid.UUID) error
}
