package impl

import (
	"context"
	"fmt"
	"log/slog"

	domainerrs "pushgate/internal/domain/errors"
	"pushgate/internal/domain/entity"
	"pushgate/internal/domain/repository"
	"pushgate/internal/domain/service"
	"pushgate/internal/errors"
	"pushgate/internal/usecase"

	"github.com/google/uuid"
)

type registrationService struct {
	broker           service.BrokerClient
	platformRepo     repository.PlatformRepository
	deviceRepo       repository.DeviceRepository
	topicRepo        repository.TopicRepository
	subscriptionRepo repository.SubscriptionRepository
	logger           *slog.Logger
	locks            *keyedMutex
	customUserData   string
}

// NewRegistrationService creates a new registration service instance.
// customUserData is attached to every endpoint the broker creates or updates;
// empty means none.
func NewRegistrationService(
	broker service.BrokerClient,
	platformRepo repository.PlatformRepository,
	deviceRepo repository.DeviceRepository,
	topicRepo repository.TopicRepository,
	subscriptionRepo repository.SubscriptionRepository,
	logger *slog.Logger,
	customUserData string,
) usecase.RegistrationUsecase {
	return &registrationService{
		broker:           broker,
		platformRepo:     platformRepo,
		deviceRepo:       deviceRepo,
		topicRepo:        topicRepo,
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
		locks:            newKeyedMutex(),
		customUserData:   customUserData,
	}
}

// RegisterPlatform creates the platform application on the broker
func (s *registrationService) RegisterPlatform(ctx context.Context, platformID uuid.UUID) (*entity.Platform, error) {
	unlock := s.locks.Lock("platform:" + platformID.String())
	defer unlock()

	platform, err := s.findPlatform(ctx, platformID)
	if err != nil {
		return nil, err
	}
	if platform.IsRegistered() {
		return platform, nil
	}

	resp, err := s.broker.CreatePlatformApplication(ctx, platform.Name(), platform.Platform, platform.Attributes())
	if err != nil {
		return nil, &service.OperationError{Op: "CreatePlatformApplication", Resource: platform.ResourceName(), Response: resp, Err: err}
	}
	if !service.ExtractARN(resp, platform) {
		return nil, &service.OperationError{Op: "CreatePlatformApplication", Resource: platform.ResourceName(), Response: resp, Err: errors.New("response is missing the platform application arn")}
	}

	if err := s.platformRepo.UpdatePlatformARN(ctx, platform.ID, platform.ARN); err != nil {
		return nil, fmt.Errorf("failed to persist platform arn: %w", err)
	}

	s.logger.Info("platform registered",
		slog.String("platform", platform.Name()),
		slog.String("arn", platform.RemoteARN()))

	return platform, nil
}

// DeregisterPlatform deletes the platform application on the broker
func (s *registrationService) DeregisterPlatform(ctx context.Context, platformID uuid.UUID, persist bool) (bool, error) {
	unlock := s.locks.Lock("platform:" + platformID.String())
	defer unlock()

	platform, err := s.findPlatform(ctx, platformID)
	if err != nil {
		return false, err
	}

	var save func(context.Context) error
	if persist {
		save = func(ctx context.Context) error {
			return s.platformRepo.UpdatePlatformARN(ctx, platform.ID, nil)
		}
	}

	return s.deregister(ctx, platform, "DeletePlatformApplication", s.broker.DeletePlatformApplication, save)
}

// RegisterDevice creates the device endpoint on the broker. The owning
// platform is registered first when needed. When the broker reports that an
// endpoint for the token already exists, the existing one is adopted and
// refreshed instead of failing.
func (s *registrationService) RegisterDevice(ctx context.Context, deviceID uuid.UUID) (*entity.Device, error) {
	unlock := s.locks.Lock("device:" + deviceID.String())
	defer unlock()

	device, err := s.findDevice(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	if device.IsRegistered() {
		return device, nil
	}

	platform, err := s.findPlatform(ctx, device.PlatformID)
	if err != nil {
		return nil, err
	}
	if !platform.IsRegistered() {
		if platform, err = s.RegisterPlatform(ctx, platform.ID); err != nil {
			return nil, err
		}
	}

	resp, err := s.broker.CreatePlatformEndpoint(ctx, platform.RemoteARN(), device.PushToken, s.customUserData)
	if err != nil {
		conflict, ok := service.ParseEndpointConflict(err)
		if !ok {
			return nil, &service.OperationError{Op: "CreatePlatformEndpoint", Resource: device.ResourceName(), Response: resp, Err: err}
		}

		device.SetRemoteARN(conflict.ExistingARN)
		if err := s.updateEndpoint(ctx, device, device.PushToken); err != nil {
			return nil, err
		}

		s.logger.Warn("adopted existing endpoint",
			slog.String("device_id", device.DeviceID),
			slog.String("arn", device.RemoteARN()))
	} else if !service.ExtractARN(resp, device) {
		return nil, &service.OperationError{Op: "CreatePlatformEndpoint", Resource: device.ResourceName(), Response: resp, Err: errors.New("response is missing the endpoint arn")}
	}

	if err := s.deviceRepo.UpdateDeviceARN(ctx, device.ID, device.ARN); err != nil {
		return nil, fmt.Errorf("failed to persist device arn: %w", err)
	}

	return device, nil
}

// DeregisterDevice deletes the device endpoint on the broker
func (s *registrationService) DeregisterDevice(ctx context.Context, deviceID uuid.UUID, persist bool) (bool, error) {
	unlock := s.locks.Lock("device:" + deviceID.String())
	defer unlock()

	device, err := s.findDevice(ctx, deviceID)
	if err != nil {
		return false, err
	}

	var save func(context.Context) error
	if persist {
		save = func(ctx context.Context) error {
			return s.deviceRepo.UpdateDeviceARN(ctx, device.ID, nil)
		}
	}

	return s.deregister(ctx, device, "DeleteEndpoint", s.broker.DeleteEndpoint, save)
}

// UpdateDevice pushes a new token onto the registered endpoint and re-enables
// it. An empty token keeps the current one.
func (s *registrationService) UpdateDevice(ctx context.Context, deviceID uuid.UUID, newToken string) (*entity.Device, error) {
	unlock := s.locks.Lock("device:" + deviceID.String())
	defer unlock()

	device, err := s.findDevice(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	if !device.IsRegistered() {
		return nil, domainerrs.ErrNotRegistered.WrapMessage("device " + device.DeviceID)
	}

	if newToken == "" {
		newToken = device.PushToken
	}
	if err := s.updateEndpoint(ctx, device, newToken); err != nil {
		return nil, err
	}

	if newToken != device.PushToken {
		if err := s.deviceRepo.UpdatePushToken(ctx, device.ID, newToken); err != nil {
			return nil, fmt.Errorf("failed to persist push token: %w", err)
		}
		device.PushToken = newToken
	}

	return device, nil
}

// RegisterTopic creates the topic on the broker
func (s *registrationService) RegisterTopic(ctx context.Context, topicID uuid.UUID) (*entity.Topic, error) {
	unlock := s.locks.Lock("topic:" + topicID.String())
	defer unlock()

	topic, err := s.findTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	if topic.IsRegistered() {
		return topic, nil
	}

	resp, err := s.broker.CreateTopic(ctx, topic.FullName())
	if err != nil {
		return nil, &service.OperationError{Op: "CreateTopic", Resource: topic.ResourceName(), Response: resp, Err: err}
	}
	if !service.ExtractARN(resp, topic) {
		return nil, &service.OperationError{Op: "CreateTopic", Resource: topic.ResourceName(), Response: resp, Err: errors.New("response is missing the topic arn")}
	}

	if err := s.topicRepo.UpdateTopicARN(ctx, topic.ID, topic.ARN); err != nil {
		return nil, fmt.Errorf("failed to persist topic arn: %w", err)
	}

	s.logger.Info("topic registered",
		slog.String("topic", topic.FullName()),
		slog.String("arn", topic.RemoteARN()))

	return topic, nil
}

// DeregisterTopic deletes the topic on the broker
func (s *registrationService) DeregisterTopic(ctx context.Context, topicID uuid.UUID, persist bool) (bool, error) {
	unlock := s.locks.Lock("topic:" + topicID.String())
	defer unlock()

	topic, err := s.findTopic(ctx, topicID)
	if err != nil {
		return false, err
	}

	var save func(context.Context) error
	if persist {
		save = func(ctx context.Context) error {
			return s.topicRepo.UpdateTopicARN(ctx, topic.ID, nil)
		}
	}

	return s.deregister(ctx, topic, "DeleteTopic", s.broker.DeleteTopic, save)
}

// RegisterSubscription subscribes the device endpoint to the topic. Device
// and topic are registered first when needed.
func (s *registrationService) RegisterSubscription(ctx context.Context, subscriptionID uuid.UUID) (*entity.Subscription, error) {
	unlock := s.locks.Lock("subscription:" + subscriptionID.String())
	defer unlock()

	sub, err := s.findSubscription(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub.IsRegistered() {
		return sub, nil
	}

	device, err := s.RegisterDevice(ctx, sub.DeviceID)
	if err != nil {
		return nil, err
	}
	topic, err := s.RegisterTopic(ctx, sub.TopicID)
	if err != nil {
		return nil, err
	}

	resp, err := s.broker.Subscribe(ctx, topic.RemoteARN(), device.RemoteARN(), "application")
	if err != nil {
		return nil, &service.OperationError{Op: "Subscribe", Resource: sub.ResourceName(), Response: resp, Err: err}
	}
	if !service.ExtractARN(resp, sub) {
		return nil, &service.OperationError{Op: "Subscribe", Resource: sub.ResourceName(), Response: resp, Err: errors.New("response is missing the subscription arn")}
	}

	if err := s.subscriptionRepo.UpdateSubscriptionARN(ctx, sub.ID, sub.ARN); err != nil {
		return nil, fmt.Errorf("failed to persist subscription arn: %w", err)
	}

	return sub, nil
}

// DeregisterSubscription removes the broker-side subscription
func (s *registrationService) DeregisterSubscription(ctx context.Context, subscriptionID uuid.UUID, persist bool) (bool, error) {
	unlock := s.locks.Lock("subscription:" + subscriptionID.String())
	defer unlock()

	sub, err := s.findSubscription(ctx, subscriptionID)
	if err != nil {
		return false, err
	}

	var save func(context.Context) error
	if persist {
		save = func(ctx context.Context) error {
			return s.subscriptionRepo.UpdateSubscriptionARN(ctx, sub.ID, nil)
		}
	}

	return s.deregister(ctx, sub, "Unsubscribe", s.broker.Unsubscribe, save)
}

// ListPlatformEndpoints drains the broker's paginated endpoint listing
func (s *registrationService) ListPlatformEndpoints(ctx context.Context, platformID uuid.UUID) ([]service.Endpoint, error) {
	platform, err := s.findPlatform(ctx, platformID)
	if err != nil {
		return nil, err
	}
	if !platform.IsRegistered() {
		return nil, domainerrs.ErrNotRegistered.WrapMessage("platform " + platform.Name())
	}

	var endpoints []service.Endpoint
	nextToken := ""
	for {
		page, err := s.broker.ListEndpointsByPlatformApplication(ctx, platform.RemoteARN(), nextToken)
		if err != nil {
			return nil, &service.OperationError{Op: "ListEndpointsByPlatformApplication", Resource: platform.ResourceName(), Err: err}
		}

		endpoints = append(endpoints, page.Endpoints...)
		if page.NextToken == "" {
			break
		}
		nextToken = page.NextToken
	}

	return endpoints, nil
}

// ListTopicSubscriptions drains the broker's paginated subscription listing
func (s *registrationService) ListTopicSubscriptions(ctx context.Context, topicID uuid.UUID) ([]service.RemoteSubscription, error) {
	topic, err := s.findTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	if !topic.IsRegistered() {
		return nil, domainerrs.ErrNotRegistered.WrapMessage("topic " + topic.FullName())
	}

	var subscriptions []service.RemoteSubscription
	nextToken := ""
	for {
		page, err := s.broker.ListSubscriptionsByTopic(ctx, topic.RemoteARN(), nextToken)
		if err != nil {
			return nil, &service.OperationError{Op: "ListSubscriptionsByTopic", Resource: topic.ResourceName(), Err: err}
		}

		subscriptions = append(subscriptions, page.Subscriptions...)
		if page.NextToken == "" {
			break
		}
		nextToken = page.NextToken
	}

	return subscriptions, nil
}

// ListRegisteredDevices returns the local devices whose endpoints the broker
// currently lists under the platform
func (s *registrationService) ListRegisteredDevices(ctx context.Context, platformID uuid.UUID) ([]*entity.Device, error) {
	endpoints, err := s.ListPlatformEndpoints(ctx, platformID)
	if err != nil {
		return nil, err
	}
	if len(endpoints) == 0 {
		return nil, nil
	}

	arns := make([]string, 0, len(endpoints))
	for _, endpoint := range endpoints {
		arns = append(arns, endpoint.ARN)
	}

	devices, err := s.deviceRepo.FindDevicesByARNs(ctx, arns)
	if err != nil {
		return nil, fmt.Errorf("failed to find devices by arns: %w", err)
	}

	return devices, nil
}

// deregister removes the remote resource behind a registered entity. The
// identifier is cleared only after the broker confirms removal; a false
// result without an error leaves the entity registered.
func (s *registrationService) deregister(
	ctx context.Context,
	target entity.Registrable,
	op string,
	remove func(context.Context, string) (bool, error),
	save func(context.Context) error,
) (bool, error) {
	if !target.IsRegistered() {
		return false, domainerrs.ErrNotRegistered.WrapMessage(op)
	}

	ok, err := remove(ctx, target.RemoteARN())
	if err != nil {
		return false, &service.OperationError{Op: op, Resource: target.ResourceName(), Err: err}
	}
	if !ok {
		s.logger.Warn("broker declined to remove resource",
			slog.String("op", op),
			slog.String("arn", target.RemoteARN()))

		return false, nil
	}

	target.ClearRemoteARN()
	if save != nil {
		if err := save(ctx); err != nil {
			return true, fmt.Errorf("failed to persist cleared arn: %w", err)
		}
	}

	return true, nil
}

func (s *registrationService) updateEndpoint(ctx context.Context, device *entity.Device, token string) error {
	attributes := map[string]string{
		"Enabled": "true",
		"Token":   token,
	}
	if s.customUserData != "" {
		attributes["CustomUserData"] = s.customUserData
	}

	if err := s.broker.SetEndpointAttributes(ctx, device.RemoteARN(), attributes); err != nil {
		return &service.OperationError{Op: "SetEndpointAttributes", Resource: device.ResourceName(), Err: err}
	}

	return nil
}

func (s *registrationService) findPlatform(ctx context.Context, id uuid.UUID) (*entity.Platform, error) {
	platform, err := s.platformRepo.FindPlatformByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPlatformNotFound) {
			return nil, domainerrs.ErrPlatformNotFound
		}

		return nil, fmt.Errorf("failed to find platform by ID: %w", err)
	}

	return platform, nil
}

func (s *registrationService) findDevice(ctx context.Context, id uuid.UUID) (*entity.Device, error) {
	device, err := s.deviceRepo.FindDeviceByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrDeviceNotFound) {
			return nil, domainerrs.ErrDeviceNotFound
		}

		return nil, fmt.Errorf("failed to find device by ID: %w", err)
	}

	return device, nil
}

func (s *registrationService) findTopic(ctx context.Context, id uuid.UUID) (*entity.Topic, error) {
	topic, err := s.topicRepo.FindTopicByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTopicNotFound) {
			return nil, domainerrs.ErrTopicNotFound
		}

		return nil, fmt.Errorf("failed to find topic by ID: %w", err)
	}

	return topic, nil
}

func (s *registrationService) findSubscription(ctx context.Context, id uuid.UUID) (*entity.Subscription, error) {
	sub, err := s.subscriptionRepo.FindSubscriptionByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSubscriptionNotFound) {
			return nil, domainerrs.ErrSubscriptionNotFound
		}

		return nil, fmt.Errorf("failed to find subscription by ID: %w", err)
	}

	return sub, nil
}
