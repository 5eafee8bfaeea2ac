package impl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	domainerrs "pushgate/internal/domain/errors"
	"pushgate/internal/domain/entity"
	"pushgate/internal/domain/repository"
	"pushgate/internal/errors"
	"pushgate/internal/strategy"
	"pushgate/internal/usecase"

	"github.com/google/uuid"
)

type provisioningService struct {
	registration     usecase.RegistrationUsecase
	appRepo          repository.ApplicationRepository
	platformRepo     repository.PlatformRepository
	deviceRepo       repository.DeviceRepository
	topicRepo        repository.TopicRepository
	subscriptionRepo repository.SubscriptionRepository
	logger           *slog.Logger
}

// NewProvisioningService creates a new provisioning service instance
func NewProvisioningService(
	registration usecase.RegistrationUsecase,
	appRepo repository.ApplicationRepository,
	platformRepo repository.PlatformRepository,
	deviceRepo repository.DeviceRepository,
	topicRepo repository.TopicRepository,
	subscriptionRepo repository.SubscriptionRepository,
	logger *slog.Logger,
) usecase.ProvisioningUsecase {
	return &provisioningService{
		registration:     registration,
		appRepo:          appRepo,
		platformRepo:     platformRepo,
		deviceRepo:       deviceRepo,
		topicRepo:        topicRepo,
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

// CreateApplication creates a new application
func (s *provisioningService) CreateApplication(ctx context.Context, name string) (*entity.Application, error) {
	app := &entity.Application{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.appRepo.CreateApplication(ctx, app); err != nil {
		if errors.Is(err, repository.ErrDuplicateApplication) {
			return nil, domainerrs.ErrApplicationAlreadyExists
		}

		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	return app, nil
}

// GetApplication retrieves an application by ID
func (s *provisioningService) GetApplication(ctx context.Context, id uuid.UUID) (*entity.Application, error) {
	app, err := s.appRepo.FindApplicationByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return nil, domainerrs.ErrApplicationNotFound
		}

		return nil, fmt.Errorf("failed to find application by ID: %w", err)
	}

	return app, nil
}

// GetApplicationByName retrieves an application by its unique name
func (s *provisioningService) GetApplicationByName(ctx context.Context, name string) (*entity.Application, error) {
	app, err := s.appRepo.FindApplicationByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return nil, domainerrs.ErrApplicationNotFound
		}

		return nil, fmt.Errorf("failed to find application by name: %w", err)
	}

	return app, nil
}

// DeleteApplication removes an application and cascades over all of its
// platforms, devices, topics and subscriptions
func (s *provisioningService) DeleteApplication(ctx context.Context, id uuid.UUID) error {
	app, err := s.GetApplication(ctx, id)
	if err != nil {
		return err
	}

	topics, err := s.topicRepo.FindTopicsByApplication(ctx, app.ID)
	if err != nil {
		return fmt.Errorf("failed to find topics by application: %w", err)
	}
	for _, topic := range topics {
		if err := s.deleteTopicCascade(ctx, topic); err != nil {
			return err
		}
	}

	platforms, err := s.platformRepo.FindPlatformsByApplication(ctx, app.ID)
	if err != nil {
		return fmt.Errorf("failed to find platforms by application: %w", err)
	}
	for _, platform := range platforms {
		if err := s.deletePlatformCascade(ctx, platform); err != nil {
			return err
		}
	}

	if err := s.appRepo.DeleteApplication(ctx, app.ID); err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}

	s.logger.Info("application deleted", slog.String("name", app.Name))

	return nil
}

// CreatePlatform adds a notification channel to an application and registers
// it with the broker
func (s *provisioningService) CreatePlatform(ctx context.Context, applicationID uuid.UUID, input *usecase.PlatformInput) (*entity.Platform, error) {
	app, err := s.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	// The tag must refer to a known payload strategy.
	if _, err := strategy.Lookup(input.Platform); err != nil {
		return nil, err
	}

	platform := &entity.Platform{
		ID:            uuid.New(),
		ApplicationID: app.ID,
		AppName:       app.Name,
		Platform:      input.Platform,
		Credential:    input.Credential,
		Principal:     input.Principal,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if err := s.platformRepo.CreatePlatform(ctx, platform); err != nil {
		if errors.Is(err, repository.ErrDuplicatePlatform) {
			return nil, domainerrs.ErrPlatformAlreadyExists
		}

		return nil, fmt.Errorf("failed to create platform: %w", err)
	}

	return s.registration.RegisterPlatform(ctx, platform.ID)
}

// DeletePlatform tears down a platform and all devices under it
func (s *provisioningService) DeletePlatform(ctx context.Context, id uuid.UUID) error {
	platform, err := s.platformRepo.FindPlatformByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPlatformNotFound) {
			return domainerrs.ErrPlatformNotFound
		}

		return fmt.Errorf("failed to find platform by ID: %w", err)
	}

	return s.deletePlatformCascade(ctx, platform)
}

// AddDevice creates or refreshes a device under an application and registers
// its endpoint
func (s *provisioningService) AddDevice(ctx context.Context, applicationID uuid.UUID, input *usecase.DeviceInput) (*entity.Device, error) {
	platform, err := s.resolvePlatform(ctx, applicationID, input)
	if err != nil {
		return nil, err
	}

	existing, err := s.deviceRepo.FindDevice(ctx, platform.ID, input.DeviceID)
	if err == nil {
		return s.refreshDevice(ctx, existing, input.PushToken)
	}
	if !errors.Is(err, repository.ErrDeviceNotFound) {
		return nil, fmt.Errorf("failed to find device: %w", err)
	}

	device := &entity.Device{
		ID:         uuid.New(),
		PlatformID: platform.ID,
		DeviceID:   input.DeviceID,
		PushToken:  input.PushToken,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := s.deviceRepo.CreateDevice(ctx, device); err != nil {
		return nil, fmt.Errorf("failed to create device: %w", err)
	}

	return s.registration.RegisterDevice(ctx, device.ID)
}

// DeleteDevice tears down a device and its subscriptions
func (s *provisioningService) DeleteDevice(ctx context.Context, id uuid.UUID) error {
	device, err := s.deviceRepo.FindDeviceByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrDeviceNotFound) {
			return domainerrs.ErrDeviceNotFound
		}

		return fmt.Errorf("failed to find device by ID: %w", err)
	}

	return s.deleteDeviceCascade(ctx, device)
}

// GetOrCreateTopic returns the topic with the given name, creating and
// registering it on first use
func (s *provisioningService) GetOrCreateTopic(ctx context.Context, applicationID uuid.UUID, name string) (*entity.Topic, error) {
	topic, err := s.topicRepo.FindTopic(ctx, applicationID, name)
	if err == nil {
		if topic.IsRegistered() {
			return topic, nil
		}

		return s.registration.RegisterTopic(ctx, topic.ID)
	}
	if !errors.Is(err, repository.ErrTopicNotFound) {
		return nil, fmt.Errorf("failed to find topic: %w", err)
	}

	app, err := s.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	topic = &entity.Topic{
		ID:            uuid.New(),
		ApplicationID: app.ID,
		AppName:       app.Name,
		Name:          name,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if err := s.topicRepo.CreateTopic(ctx, topic); err != nil {
		// A concurrent create won the race; use its row.
		if errors.Is(err, repository.ErrDuplicateTopic) {
			if topic, err = s.topicRepo.FindTopic(ctx, applicationID, name); err != nil {
				return nil, fmt.Errorf("failed to find topic: %w", err)
			}
		} else {
			return nil, fmt.Errorf("failed to create topic: %w", err)
		}
	}

	return s.registration.RegisterTopic(ctx, topic.ID)
}

// DeleteTopic tears down a topic and its subscriptions
func (s *provisioningService) DeleteTopic(ctx context.Context, id uuid.UUID) error {
	topic, err := s.topicRepo.FindTopicByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTopicNotFound) {
			return domainerrs.ErrTopicNotFound
		}

		return fmt.Errorf("failed to find topic by ID: %w", err)
	}

	return s.deleteTopicCascade(ctx, topic)
}

// resolvePlatform picks the notification channel for a device, either by
// explicit tag or by operating system kind.
func (s *provisioningService) resolvePlatform(ctx context.Context, applicationID uuid.UUID, input *usecase.DeviceInput) (*entity.Platform, error) {
	if input.Platform != "" {
		platform, err := s.platformRepo.FindPlatform(ctx, applicationID, input.Platform)
		if err != nil {
			if errors.Is(err, repository.ErrPlatformNotFound) {
				return nil, domainerrs.ErrPlatformNotFound
			}

			return nil, fmt.Errorf("failed to find platform: %w", err)
		}

		return platform, nil
	}

	platforms, err := s.platformRepo.FindPlatformsByApplication(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to find platforms by application: %w", err)
	}
	for _, platform := range platforms {
		strat, err := strategy.Lookup(platform.Platform)
		if err != nil {
			continue
		}
		if strat.OSKind() == input.OS {
			return platform, nil
		}
	}

	return nil, domainerrs.ErrPlatformNotSupported.WrapMessage("os " + input.OS)
}

// refreshDevice routes a repeat registration of a known (device, platform)
// pair into a token update instead of a second row.
func (s *provisioningService) refreshDevice(ctx context.Context, device *entity.Device, pushToken string) (*entity.Device, error) {
	if device.IsRegistered() {
		return s.registration.UpdateDevice(ctx, device.ID, pushToken)
	}

	if pushToken != "" && pushToken != device.PushToken {
		if err := s.deviceRepo.UpdatePushToken(ctx, device.ID, pushToken); err != nil {
			return nil, fmt.Errorf("failed to update push token: %w", err)
		}
		device.PushToken = pushToken
	}

	return s.registration.RegisterDevice(ctx, device.ID)
}

// The cascade helpers deregister best-effort: broker failures are logged and
// never block the local delete.

func (s *provisioningService) deletePlatformCascade(ctx context.Context, platform *entity.Platform) error {
	devices, err := s.deviceRepo.FindDevicesByPlatform(ctx, platform.ID)
	if err != nil {
		return fmt.Errorf("failed to find devices by platform: %w", err)
	}
	for _, device := range devices {
		if err := s.deleteDeviceCascade(ctx, device); err != nil {
			return err
		}
	}

	if platform.IsRegistered() {
		if _, err := s.registration.DeregisterPlatform(ctx, platform.ID, false); err != nil {
			s.logger.Warn("failed to deregister platform remotely",
				slog.String("platform", platform.Name()),
				slog.Any("error", err))
		}
	}

	if err := s.platformRepo.DeletePlatform(ctx, platform.ID); err != nil {
		return fmt.Errorf("failed to delete platform: %w", err)
	}

	return nil
}

func (s *provisioningService) deleteDeviceCascade(ctx context.Context, device *entity.Device) error {
	subs, err := s.subscriptionRepo.FindSubscriptionsByDevice(ctx, device.ID)
	if err != nil {
		return fmt.Errorf("failed to find subscriptions by device: %w", err)
	}
	for _, sub := range subs {
		if err := s.deleteSubscriptionCascade(ctx, sub); err != nil {
			return err
		}
	}

	if device.IsRegistered() {
		if _, err := s.registration.DeregisterDevice(ctx, device.ID, false); err != nil {
			s.logger.Warn("failed to deregister device remotely",
				slog.String("device_id", device.DeviceID),
				slog.Any("error", err))
		}
	}

	if err := s.deviceRepo.DeleteDevice(ctx, device.ID); err != nil {
		return fmt.Errorf("failed to delete device: %w", err)
	}

	return nil
}

func (s *provisioningService) deleteTopicCascade(ctx context.Context, topic *entity.Topic) error {
	subs, err := s.subscriptionRepo.FindSubscriptionsByTopic(ctx, topic.ID)
	if err != nil {
		return fmt.Errorf("failed to find subscriptions by topic: %w", err)
	}
	for _, sub := range subs {
		if err := s.deleteSubscriptionCascade(ctx, sub); err != nil {
			return err
		}
	}

	if topic.IsRegistered() {
		if _, err := s.registration.DeregisterTopic(ctx, topic.ID, false); err != nil {
			s.logger.Warn("failed to deregister topic remotely",
				slog.String("topic", topic.FullName()),
				slog.Any("error", err))
		}
	}

	if err := s.topicRepo.DeleteTopic(ctx, topic.ID); err != nil {
		return fmt.Errorf("failed to delete topic: %w", err)
	}

	return nil
}

func (s *provisioningService) deleteSubscriptionCascade(ctx context.Context, sub *entity.Subscription) error {
	if sub.IsRegistered() {
		if _, err := s.registration.DeregisterSubscription(ctx, sub.ID, false); err != nil {
			s.logger.Warn("failed to deregister subscription remotely",
				slog.String("subscription_id", sub.ID.String()),
				slog.Any("error", err))
		}
	}

	if err := s.subscriptionRepo.DeleteSubscription(ctx, sub.ID); err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}

	return nil
}
