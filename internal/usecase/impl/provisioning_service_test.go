package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	domainerrs "pushgate/internal/domain/errors"
	"pushgate/internal/domain/entity"
	"pushgate/internal/domain/repository"
	mockRepo "pushgate/internal/mocks/repository"
	mockUC "pushgate/internal/mocks/usecase"
	"pushgate/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type provisioningFixture struct {
	service          usecase.ProvisioningUsecase
	registration     *mockUC.MockRegistrationUsecase
	appRepo          *mockRepo.MockApplicationRepository
	platformRepo     *mockRepo.MockPlatformRepository
	deviceRepo       *mockRepo.MockDeviceRepository
	topicRepo        *mockRepo.MockTopicRepository
	subscriptionRepo *mockRepo.MockSubscriptionRepository
}

func createTestProvisioningService() *provisioningFixture {
	f := &provisioningFixture{
		registration:     new(mockUC.MockRegistrationUsecase),
		appRepo:          new(mockRepo.MockApplicationRepository),
		platformRepo:     new(mockRepo.MockPlatformRepository),
		deviceRepo:       new(mockRepo.MockDeviceRepository),
		topicRepo:        new(mockRepo.MockTopicRepository),
		subscriptionRepo: new(mockRepo.MockSubscriptionRepository),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

	f.service = NewProvisioningService(
		f.registration,
		f.appRepo,
		f.platformRepo,
		f.deviceRepo,
		f.topicRepo,
		f.subscriptionRepo,
		logger,
	)

	return f
}

func TestProvisioningService_CreateApplication_Duplicate(t *testing.T) {
	f := createTestProvisioningService()
	ctx := context.Background()

	f.appRepo.On("CreateApplication", ctx, mock.AnythingOfType("*entity.Application")).
		Return(repository.ErrDuplicateApplication)

	_, err := f.service.CreateApplication(ctx, "acme")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrs.ErrApplicationAlreadyExists))
}

func TestProvisioningService_CreatePlatform_UnknownStrategyTag(t *testing.T) {
	f := createTestProvisioningService()
	ctx := context.Background()
	app := &entity.Application{ID: uuid.New(), Name: "acme"}

	f.appRepo.On("FindApplicationByID", ctx, app.ID).Return(app, nil)

	_, err := f.service.CreatePlatform(ctx, app.ID, &usecase.PlatformInput{Platform: "WNS"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrs.ErrPlatformNotSupported))
	f.platformRepo.AssertNotCalled(t, "CreatePlatform", mock.Anything, mock.Anything)
}

func TestProvisioningService_CreatePlatform_CreatesAndRegisters(t *testing.T) {
	f := createTestProvisioningService()
	ctx := context.Background()
	app := &entity.Application{ID: uuid.New(), Name: "acme"}

	f.appRepo.On("FindApplicationByID", ctx, app.ID).Return(app, nil)
	f.platformRepo.On("CreatePlatform", ctx, mock.MatchedBy(func(platform *entity.Platform) bool {
		return platform.ApplicationID == app.ID && platform.AppName == "acme" && platform.Platform == "APNS"
	})).Return(nil)
	f.registration.On("RegisterPlatform", ctx, mock.AnythingOfType("uuid.UUID")).
		Return(&entity.Platform{AppName: "acme", Platform: "APNS"}, nil)

	platform, err := f.service.CreatePlatform(ctx, app.ID, &usecase.PlatformInput{
		Platform:   "APNS",
		Credential: "C",
		Principal:  "P",
	})
	require.NoError(t, err)
	assert.Equal(t, "acme_apns", platform.Name())
	f.registration.AssertExpectations(t)
}

func TestProvisioningService_AddDevice_ResolvesPlatformByOSKind(t *testing.T) {
	f := createTestProvisioningService()
	ctx := context.Background()
	appID := uuid.New()
	apns := testPlatform("APNS")
	apns.ApplicationID = appID
	gcm := testPlatform("GCM")
	gcm.ApplicationID = appID

	f.platformRepo.On("FindPlatformsByApplication", ctx, appID).
		Return([]*entity.Platform{apns, gcm}, nil)
	f.deviceRepo.On("FindDevice", ctx, gcm.ID, "udid-9").
		Return(nil, repository.ErrDeviceNotFound)
	f.deviceRepo.On("CreateDevice", ctx, mock.MatchedBy(func(device *entity.Device) bool {
		return device.PlatformID == gcm.ID && device.DeviceID == "udid-9"
	})).Return(nil)
	f.registration.On("RegisterDevice", ctx, mock.AnythingOfType("uuid.UUID")).
		Return(&entity.Device{PlatformID: gcm.ID, DeviceID: "udid-9"}, nil)

	device, err := f.service.AddDevice(ctx, appID, &usecase.DeviceInput{
		DeviceID:  "udid-9",
		PushToken: "token-9",
		OS:        "android",
	})
	require.NoError(t, err)
	assert.Equal(t, gcm.ID, device.PlatformID)
}

func TestProvisioningService_AddDevice_NoPlatformForOS(t *testing.T) {
	f := createTestProvisioningService()
	ctx := context.Background()
	appID := uuid.New()
	apns := testPlatform("APNS")
	apns.ApplicationID = appID

	f.platformRepo.On("FindPlatformsByApplication", ctx, appID).
		Return([]*entity.Platform{apns}, nil)

	_, err := f.service.AddDevice(ctx, appID, &usecase.DeviceInput{
		DeviceID:  "udid-9",
		PushToken: "token-9",
		OS:        "android",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrs.ErrPlatformNotSupported))
}

func TestProvisioningService_AddDevice_RefreshesExistingRegisteredDevice(t *testing.T) {
	f := createTestProvisioningService()
	ctx := context.Background()
	appID := uuid.New()
	platform := testPlatform("APNS")
	platform.ApplicationID = appID
	device := testDevice(platform.ID)
	device.SetRemoteARN("arn:endpoint:1")

	f.platformRepo.On("FindPlatform", ctx, appID, "APNS").Return(platform, nil)
	f.deviceRepo.On("FindDevice", ctx, platform.ID, device.DeviceID).Return(device, nil)
	f.registration.On("UpdateDevice", ctx, device.ID, "token-2").Return(device, nil)

	_, err := f.service.AddDevice(ctx, appID, &usecase.DeviceInput{
		DeviceID:  device.DeviceID,
		PushToken: "token-2",
		Platform:  "APNS",
	})
	require.NoError(t, err)
	f.deviceRepo.AssertNotCalled(t, "CreateDevice", mock.Anything, mock.Anything)
	f.registration.AssertExpectations(t)
}

func TestProvisioningService_GetOrCreateTopic_CreatesOnMiss(t *testing.T) {
	f := createTestProvisioningService()
	ctx := context.Background()
	app := &entity.Application{ID: uuid.New(), Name: "acme"}
	registered := &entity.Topic{ID: uuid.New(), ApplicationID: app.ID, AppName: "acme", Name: "news"}
	registered.SetRemoteARN("arn:topic:1")

	f.topicRepo.On("FindTopic", ctx, app.ID, "news").Return(nil, repository.ErrTopicNotFound)
	f.appRepo.On("FindApplicationByID", ctx, app.ID).Return(app, nil)
	f.topicRepo.On("CreateTopic", ctx, mock.MatchedBy(func(topic *entity.Topic) bool {
		return topic.ApplicationID == app.ID && topic.Name == "news" && topic.AppName == "acme"
	})).Return(nil)
	f.registration.On("RegisterTopic", ctx, mock.AnythingOfType("uuid.UUID")).Return(registered, nil)

	topic, err := f.service.GetOrCreateTopic(ctx, app.ID, "news")
	require.NoError(t, err)
	assert.Equal(t, "acme_news", topic.FullName())
	assert.True(t, topic.IsRegistered())
}

func TestProvisioningService_GetOrCreateTopic_ReturnsExisting(t *testing.T) {
	f := createTestProvisioningService()
	ctx := context.Background()
	appID := uuid.New()
	topic := &entity.Topic{ID: uuid.New(), ApplicationID: appID, AppName: "acme", Name: "news"}
	topic.SetRemoteARN("arn:topic:1")

	f.topicRepo.On("FindTopic", ctx, appID, "news").Return(topic, nil)

	got, err := f.service.GetOrCreateTopic(ctx, appID, "news")
	require.NoError(t, err)
	assert.Equal(t, topic.ID, got.ID)
	f.topicRepo.AssertNotCalled(t, "CreateTopic", mock.Anything, mock.Anything)
	f.registration.AssertNotCalled(t, "RegisterTopic", mock.Anything, mock.Anything)
}

func TestProvisioningService_DeleteDevice_CascadeSwallowsBrokerFailure(t *testing.T) {
	f := createTestProvisioningService()
	ctx := context.Background()
	device := testDevice(uuid.New())
	device.SetRemoteARN("arn:endpoint:1")
	sub := &entity.Subscription{ID: uuid.New(), TopicID: uuid.New(), DeviceID: device.ID}
	sub.SetRemoteARN("arn:subscription:1")

	f.deviceRepo.On("FindDeviceByID", ctx, device.ID).Return(device, nil)
	f.subscriptionRepo.On("FindSubscriptionsByDevice", ctx, device.ID).
		Return([]*entity.Subscription{sub}, nil)
	f.registration.On("DeregisterSubscription", ctx, sub.ID, false).
		Return(false, errors.New("broker unavailable"))
	f.subscriptionRepo.On("DeleteSubscription", ctx, sub.ID).Return(nil).Once()
	f.registration.On("DeregisterDevice", ctx, device.ID, false).
		Return(false, errors.New("broker unavailable"))
	f.deviceRepo.On("DeleteDevice", ctx, device.ID).Return(nil).Once()

	err := f.service.DeleteDevice(ctx, device.ID)
	require.NoError(t, err)
	f.deviceRepo.AssertExpectations(t)
	f.subscriptionRepo.AssertExpectations(t)
}

func TestProvisioningService_DeleteApplication_FullCascade(t *testing.T) {
	f := createTestProvisioningService()
	ctx := context.Background()
	app := &entity.Application{ID: uuid.New(), Name: "acme"}
	platform := testPlatform("APNS")
	platform.ApplicationID = app.ID
	platform.SetRemoteARN("arn:platform:1")
	device := testDevice(platform.ID)
	device.SetRemoteARN("arn:endpoint:1")
	topic := &entity.Topic{ID: uuid.New(), ApplicationID: app.ID, AppName: "acme", Name: "news"}
	topic.SetRemoteARN("arn:topic:1")

	f.appRepo.On("FindApplicationByID", ctx, app.ID).Return(app, nil)
	f.topicRepo.On("FindTopicsByApplication", ctx, app.ID).Return([]*entity.Topic{topic}, nil)
	f.subscriptionRepo.On("FindSubscriptionsByTopic", ctx, topic.ID).Return([]*entity.Subscription{}, nil)
	f.registration.On("DeregisterTopic", ctx, topic.ID, false).Return(true, nil)
	f.topicRepo.On("DeleteTopic", ctx, topic.ID).Return(nil).Once()
	f.platformRepo.On("FindPlatformsByApplication", ctx, app.ID).Return([]*entity.Platform{platform}, nil)
	f.deviceRepo.On("FindDevicesByPlatform", ctx, platform.ID).Return([]*entity.Device{device}, nil)
	f.subscriptionRepo.On("FindSubscriptionsByDevice", ctx, device.ID).Return([]*entity.Subscription{}, nil)
	f.registration.On("DeregisterDevice", ctx, device.ID, false).Return(true, nil)
	f.deviceRepo.On("DeleteDevice", ctx, device.ID).Return(nil).Once()
	f.registration.On("DeregisterPlatform", ctx, platform.ID, false).Return(true, nil)
	f.platformRepo.On("DeletePlatform", ctx, platform.ID).Return(nil).Once()
	f.appRepo.On("DeleteApplication", ctx, app.ID).Return(nil).Once()

	err := f.service.DeleteApplication(ctx, app.ID)
	require.NoError(t, err)
	f.appRepo.AssertExpectations(t)
	f.platformRepo.AssertExpectations(t)
	f.topicRepo.AssertExpectations(t)
	f.deviceRepo.AssertExpectations(t)
}
