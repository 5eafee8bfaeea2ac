package impl

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	deliveryctx "pushgate/internal/delivery/context"
	domainerrs "pushgate/internal/domain/errors"
	"pushgate/internal/domain/entity"
	"pushgate/internal/domain/repository"
	"pushgate/internal/domain/service"
	"pushgate/internal/errors"
	"pushgate/internal/strategy"
	"pushgate/internal/usecase"

	"github.com/google/uuid"
)

// defaultHistoryLimit caps history pages when the caller gives no limit.
const defaultHistoryLimit = 50

type dispatchService struct {
	broker           service.BrokerClient
	registration     usecase.RegistrationUsecase
	deviceRepo       repository.DeviceRepository
	platformRepo     repository.PlatformRepository
	topicRepo        repository.TopicRepository
	subscriptionRepo repository.SubscriptionRepository
	messageRepo      repository.MessageRepository
	events           service.EventPublisher
	logger           *slog.Logger
	logSends         bool
}

// NewDispatchService creates a new dispatch service instance. logSends
// controls the send-audit trail; events may be nil to disable dispatch
// events.
func NewDispatchService(
	broker service.BrokerClient,
	registration usecase.RegistrationUsecase,
	deviceRepo repository.DeviceRepository,
	platformRepo repository.PlatformRepository,
	topicRepo repository.TopicRepository,
	subscriptionRepo repository.SubscriptionRepository,
	messageRepo repository.MessageRepository,
	events service.EventPublisher,
	logger *slog.Logger,
	logSends bool,
) usecase.DispatchUsecase {
	return &dispatchService{
		broker:           broker,
		registration:     registration,
		deviceRepo:       deviceRepo,
		platformRepo:     platformRepo,
		topicRepo:        topicRepo,
		subscriptionRepo: subscriptionRepo,
		messageRepo:      messageRepo,
		events:           events,
		logger:           logger,
		logSends:         logSends,
	}
}

// SendToDevice publishes the message to one registered device
func (s *dispatchService) SendToDevice(ctx context.Context, deviceID uuid.UUID, message *entity.PushMessage) error {
	device, err := s.findDevice(ctx, deviceID)
	if err != nil {
		return err
	}
	if !device.IsRegistered() {
		return domainerrs.ErrNotRegistered.WrapMessage("device " + device.DeviceID)
	}

	platform, err := s.findPlatform(ctx, device.PlatformID)
	if err != nil {
		return err
	}

	strat, err := strategy.Lookup(platform.Platform)
	if err != nil {
		return err
	}

	sign(message, device.RemoteARN(), entity.MessageTypeDefault)
	if err := s.audit(ctx, message); err != nil {
		return err
	}

	fragment, err := strat.FormatPayload(message)
	if err != nil {
		return err
	}
	body, err := json.Marshal(fragment)
	if err != nil {
		return errors.Wrap(err, "marshal device payload")
	}

	brokerMsgID, err := s.broker.Publish(ctx, service.PublishInput{
		Message:          string(body),
		TargetARN:        device.RemoteARN(),
		MessageStructure: "json",
	})
	s.emitEvent(ctx, message, brokerMsgID, err)
	if err != nil {
		return &service.OperationError{Op: "Publish", Resource: device.ResourceName(), Err: err}
	}

	s.logger.Info("message sent to device",
		slog.String("device_id", device.DeviceID),
		slog.String("broker_msg_id", brokerMsgID))

	return nil
}

// SendToTopic publishes the message to a registered topic, formatted once per
// registered platform of the owning application plus the plain-text fallback
func (s *dispatchService) SendToTopic(ctx context.Context, topicID uuid.UUID, message *entity.PushMessage) error {
	topic, err := s.findTopic(ctx, topicID)
	if err != nil {
		return err
	}
	if !topic.IsRegistered() {
		return domainerrs.ErrNotRegistered.WrapMessage("topic " + topic.FullName())
	}

	platforms, err := s.platformRepo.FindPlatformsByApplication(ctx, topic.ApplicationID)
	if err != nil {
		return fmt.Errorf("failed to find platforms by application: %w", err)
	}

	sign(message, topic.RemoteARN(), entity.MessageTypeTopic)
	if err := s.audit(ctx, message); err != nil {
		return err
	}

	fragments := make([]strategy.Fragment, 0, len(platforms))
	for _, platform := range platforms {
		if !platform.IsRegistered() {
			continue
		}

		strat, err := strategy.Lookup(platform.Platform)
		if err != nil {
			return err
		}
		fragment, err := strat.FormatPayload(message)
		if err != nil {
			return err
		}
		fragments = append(fragments, fragment)
	}

	envelope := strategy.MergeFragments(message.Message, fragments...)
	body, err := json.Marshal(envelope)
	if err != nil {
		return errors.Wrap(err, "marshal topic envelope")
	}

	brokerMsgID, err := s.broker.Publish(ctx, service.PublishInput{
		Message:          string(body),
		TopicARN:         topic.RemoteARN(),
		MessageStructure: "json",
	})
	s.emitEvent(ctx, message, brokerMsgID, err)
	if err != nil {
		return &service.OperationError{Op: "Publish", Resource: topic.ResourceName(), Err: err}
	}

	s.logger.Info("message sent to topic",
		slog.String("topic", topic.FullName()),
		slog.String("broker_msg_id", brokerMsgID))

	return nil
}

// SubscribeDeviceToTopic subscribes the device to the topic. Repeat calls
// reuse the existing subscription row.
func (s *dispatchService) SubscribeDeviceToTopic(ctx context.Context, topicID, deviceID uuid.UUID) (*entity.Subscription, error) {
	topic, err := s.registration.RegisterTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	device, err := s.registration.RegisterDevice(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	sub, created, err := s.subscriptionRepo.GetOrCreateSubscription(ctx, topic.ID, device.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create subscription: %w", err)
	}
	if created {
		s.logger.Info("subscription created",
			slog.String("topic", topic.FullName()),
			slog.String("device_id", device.DeviceID))
	}

	return s.registration.RegisterSubscription(ctx, sub.ID)
}

// UnsubscribeDeviceFromTopic removes the subscription remotely and locally.
// The local row is deleted only after the remote removal is confirmed or
// found unnecessary.
func (s *dispatchService) UnsubscribeDeviceFromTopic(ctx context.Context, topicID, deviceID uuid.UUID) (bool, error) {
	sub, err := s.subscriptionRepo.FindSubscription(ctx, topicID, deviceID)
	if err != nil {
		if errors.Is(err, repository.ErrSubscriptionNotFound) {
			s.logger.Warn("device is not subscribed to topic",
				slog.String("topic_id", topicID.String()),
				slog.String("device_id", deviceID.String()))

			return false, nil
		}

		return false, fmt.Errorf("failed to find subscription: %w", err)
	}

	if sub.IsRegistered() {
		ok, err := s.registration.DeregisterSubscription(ctx, sub.ID, false)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}

	if err := s.subscriptionRepo.DeleteSubscription(ctx, sub.ID); err != nil {
		return false, fmt.Errorf("failed to delete subscription: %w", err)
	}

	return true, nil
}

// DeviceMessageHistory returns the audit trail for one registered device,
// newest first. History is keyed by the device's remote endpoint, so an
// unregistered device has no history address.
func (s *dispatchService) DeviceMessageHistory(ctx context.Context, deviceID uuid.UUID, limit, offset int) ([]*entity.PushMessage, int64, error) {
	device, err := s.findDevice(ctx, deviceID)
	if err != nil {
		return nil, 0, err
	}
	if !device.IsRegistered() {
		return nil, 0, domainerrs.ErrNotRegistered.WrapMessage("device " + device.DeviceID)
	}

	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	messages, err := s.messageRepo.FindMessagesByReceiver(ctx, device.RemoteARN(), limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find messages: %w", err)
	}

	total, err := s.messageRepo.CountMessagesByReceiver(ctx, device.RemoteARN())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count messages: %w", err)
	}

	return messages, total, nil
}

// PurgeMessage removes one audit record.
func (s *dispatchService) PurgeMessage(ctx context.Context, messageID uuid.UUID) error {
	if err := s.messageRepo.DeleteMessage(ctx, messageID); err != nil {
		return err
	}

	s.logger.Info("audit record purged", slog.String("message_id", messageID.String()))

	return nil
}

// sign stamps the receiver and message type onto the message right before it
// is persisted and sent.
func sign(message *entity.PushMessage, receiverARN string, messageType entity.MessageType) {
	message.ReceiverARN = receiverARN
	message.MessageType = messageType
}

// audit persists the signed message before the send executes so a record
// exists even when the broker call fails afterwards.
func (s *dispatchService) audit(ctx context.Context, message *entity.PushMessage) error {
	if !s.logSends {
		return nil
	}

	if err := s.messageRepo.CreateMessage(ctx, message); err != nil {
		return fmt.Errorf("failed to persist push message: %w", err)
	}

	return nil
}

func (s *dispatchService) emitEvent(ctx context.Context, message *entity.PushMessage, brokerMsgID string, sendErr error) {
	if s.events == nil {
		return
	}

	event := &service.DispatchEvent{
		MessageID:   message.ID.String(),
		ReceiverARN: message.ReceiverARN,
		MessageType: int(message.MessageType),
		BrokerMsgID: brokerMsgID,
		Success:     sendErr == nil,
		RequestID:   deliveryctx.GetRequestIDFromContext(ctx),
	}
	if sendErr != nil {
		event.Error = sendErr.Error()
	}

	if err := s.events.PublishDispatchEvent(ctx, event); err != nil {
		s.logger.Warn("failed to publish dispatch event",
			slog.String("message_id", event.MessageID),
			slog.Any("error", err))
	}
}

func (s *dispatchService) findDevice(ctx context.Context, id uuid.UUID) (*entity.Device, error) {
	device, err := s.deviceRepo.FindDeviceByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrDeviceNotFound) {
			return nil, domainerrs.ErrDeviceNotFound
		}

		return nil, fmt.Errorf("failed to find device by ID: %w", err)
	}

	return device, nil
}

func (s *dispatchService) findPlatform(ctx context.Context, id uuid.UUID) (*entity.Platform, error) {
	platform, err := s.platformRepo.FindPlatformByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPlatformNotFound) {
			return nil, domainerrs.ErrPlatformNotFound
		}

		return nil, fmt.Errorf("failed to find platform by ID: %w", err)
	}

	return platform, nil
}

func (s *dispatchService) findTopic(ctx context.Context, id uuid.UUID) (*entity.Topic, error) {
	topic, err := s.topicRepo.FindTopicByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTopicNotFound) {
			return nil, domainerrs.ErrTopicNotFound
		}

		return nil, fmt.Errorf("failed to find topic by ID: %w", err)
	}

	return topic, nil
}
