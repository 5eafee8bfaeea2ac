package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	domainerrs "pushgate/internal/domain/errors"
	"pushgate/internal/domain/entity"
	"pushgate/internal/domain/repository"
	"pushgate/internal/domain/service"
	mockRepo "pushgate/internal/mocks/repository"
	mockSvc "pushgate/internal/mocks/service"
	"pushgate/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type registrationFixture struct {
	service          usecase.RegistrationUsecase
	broker           *mockSvc.MockBrokerClient
	platformRepo     *mockRepo.MockPlatformRepository
	deviceRepo       *mockRepo.MockDeviceRepository
	topicRepo        *mockRepo.MockTopicRepository
	subscriptionRepo *mockRepo.MockSubscriptionRepository
}

func createTestRegistrationService(customUserData string) *registrationFixture {
	f := &registrationFixture{
		broker:           new(mockSvc.MockBrokerClient),
		platformRepo:     new(mockRepo.MockPlatformRepository),
		deviceRepo:       new(mockRepo.MockDeviceRepository),
		topicRepo:        new(mockRepo.MockTopicRepository),
		subscriptionRepo: new(mockRepo.MockSubscriptionRepository),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

	f.service = NewRegistrationService(
		f.broker,
		f.platformRepo,
		f.deviceRepo,
		f.topicRepo,
		f.subscriptionRepo,
		logger,
		customUserData,
	)

	return f
}

func testPlatform(tag string) *entity.Platform {
	return &entity.Platform{
		ID:            uuid.New(),
		ApplicationID: uuid.New(),
		AppName:       "Acme",
		Platform:      tag,
		Credential:    "C",
		Principal:     "P",
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
}

func testDevice(platformID uuid.UUID) *entity.Device {
	return &entity.Device{
		ID:         uuid.New(),
		PlatformID: platformID,
		DeviceID:   "udid-1",
		PushToken:  "token-1",
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
}

func createResponseFor(target entity.Registrable, arn string) service.CreateResponse {
	return service.CreateResponse{
		target.ResponseKey(): map[string]any{
			target.ResultKey(): map[string]any{
				target.ARNKey(): arn,
			},
		},
	}
}

func TestRegistrationService_RegisterPlatform_Success(t *testing.T) {
	f := createTestRegistrationService("")
	ctx := context.Background()
	platform := testPlatform("APNS")

	f.platformRepo.On("FindPlatformByID", ctx, platform.ID).Return(platform, nil)
	f.broker.On("CreatePlatformApplication", ctx, "acme_apns", "APNS",
		map[string]string{"PlatformCredential": "C", "PlatformPrincipal": "P"}).
		Return(createResponseFor(platform, "arn:platform:acme_apns"), nil).Once()
	f.platformRepo.On("UpdatePlatformARN", ctx, platform.ID, mock.AnythingOfType("*string")).Return(nil)

	registered, err := f.service.RegisterPlatform(ctx, platform.ID)
	require.NoError(t, err)
	assert.True(t, registered.IsRegistered())
	assert.Equal(t, "arn:platform:acme_apns", registered.RemoteARN())
	f.broker.AssertExpectations(t)
}

func TestRegistrationService_RegisterPlatform_AlreadyRegistered(t *testing.T) {
	f := createTestRegistrationService("")
	ctx := context.Background()
	platform := testPlatform("APNS")
	platform.SetRemoteARN("arn:platform:existing")

	f.platformRepo.On("FindPlatformByID", ctx, platform.ID).Return(platform, nil)

	registered, err := f.service.RegisterPlatform(ctx, platform.ID)
	require.NoError(t, err)
	assert.Equal(t, "arn:platform:existing", registered.RemoteARN())
	f.broker.AssertNotCalled(t, "CreatePlatformApplication", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRegistrationService_RegisterPlatform_MissingARNInResponse(t *testing.T) {
	f := createTestRegistrationService("")
	ctx := context.Background()
	platform := testPlatform("GCM")

	f.platformRepo.On("FindPlatformByID", ctx, platform.ID).Return(platform, nil)
	f.broker.On("CreatePlatformApplication", ctx, "acme_gcm", "GCM", platform.Attributes()).
		Return(service.CreateResponse{"unexpected": "shape"}, nil)

	_, err := f.service.RegisterPlatform(ctx, platform.ID)
	require.Error(t, err)

	var opErr *service.OperationError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, "CreatePlatformApplication", opErr.Op)
	f.platformRepo.AssertNotCalled(t, "UpdatePlatformARN", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegistrationService_RegisterDevice_RegistersPlatformFirst(t *testing.T) {
	f := createTestRegistrationService("")
	ctx := context.Background()
	platform := testPlatform("APNS")
	device := testDevice(platform.ID)

	f.deviceRepo.On("FindDeviceByID", ctx, device.ID).Return(device, nil)
	f.platformRepo.On("FindPlatformByID", ctx, platform.ID).Return(platform, nil)
	f.broker.On("CreatePlatformApplication", ctx, "acme_apns", "APNS", platform.Attributes()).
		Return(createResponseFor(platform, "arn:platform:1"), nil).Once()
	f.platformRepo.On("UpdatePlatformARN", ctx, platform.ID, mock.AnythingOfType("*string")).Return(nil)
	f.broker.On("CreatePlatformEndpoint", ctx, "arn:platform:1", "token-1", "").
		Return(createResponseFor(device, "arn:endpoint:1"), nil).Once()
	f.deviceRepo.On("UpdateDeviceARN", ctx, device.ID, mock.AnythingOfType("*string")).Return(nil)

	registered, err := f.service.RegisterDevice(ctx, device.ID)
	require.NoError(t, err)
	assert.Equal(t, "arn:endpoint:1", registered.RemoteARN())
	f.broker.AssertExpectations(t)
}

func TestRegistrationService_RegisterDevice_AdoptsConflictingEndpoint(t *testing.T) {
	f := createTestRegistrationService("backend-7")
	ctx := context.Background()
	platform := testPlatform("GCM")
	platform.SetRemoteARN("arn:platform:1")
	device := testDevice(platform.ID)

	f.deviceRepo.On("FindDeviceByID", ctx, device.ID).Return(device, nil)
	f.platformRepo.On("FindPlatformByID", ctx, platform.ID).Return(platform, nil)
	f.broker.On("CreatePlatformEndpoint", ctx, "arn:platform:1", "token-1", "backend-7").
		Return(nil, errors.New("InvalidParameter: Endpoint arn:endpoint:existing already exists with the same Token"))
	f.broker.On("SetEndpointAttributes", ctx, "arn:endpoint:existing",
		map[string]string{"Enabled": "true", "Token": "token-1", "CustomUserData": "backend-7"}).
		Return(nil)
	f.deviceRepo.On("UpdateDeviceARN", ctx, device.ID, mock.AnythingOfType("*string")).Return(nil)

	registered, err := f.service.RegisterDevice(ctx, device.ID)
	require.NoError(t, err)
	assert.Equal(t, "arn:endpoint:existing", registered.RemoteARN())
	f.broker.AssertExpectations(t)
}

func TestRegistrationService_DeregisterDevice_NotRegistered(t *testing.T) {
	f := createTestRegistrationService("")
	ctx := context.Background()
	device := testDevice(uuid.New())

	f.deviceRepo.On("FindDeviceByID", ctx, device.ID).Return(device, nil)

	_, err := f.service.DeregisterDevice(ctx, device.ID, true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrs.ErrNotRegistered))
	f.broker.AssertNotCalled(t, "DeleteEndpoint", mock.Anything, mock.Anything)
}

func TestRegistrationService_DeregisterDevice_BrokerDeclines(t *testing.T) {
	f := createTestRegistrationService("")
	ctx := context.Background()
	device := testDevice(uuid.New())
	device.SetRemoteARN("arn:endpoint:1")

	f.deviceRepo.On("FindDeviceByID", ctx, device.ID).Return(device, nil)
	f.broker.On("DeleteEndpoint", ctx, "arn:endpoint:1").Return(false, nil)

	ok, err := f.service.DeregisterDevice(ctx, device.ID, true)
	require.NoError(t, err)
	assert.False(t, ok)
	// The identifier stays in place when the broker does not confirm removal.
	assert.True(t, device.IsRegistered())
	f.deviceRepo.AssertNotCalled(t, "UpdateDeviceARN", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegistrationService_DeregisterDevice_Success(t *testing.T) {
	f := createTestRegistrationService("")
	ctx := context.Background()
	device := testDevice(uuid.New())
	device.SetRemoteARN("arn:endpoint:1")

	f.deviceRepo.On("FindDeviceByID", ctx, device.ID).Return(device, nil)
	f.broker.On("DeleteEndpoint", ctx, "arn:endpoint:1").Return(true, nil)
	f.deviceRepo.On("UpdateDeviceARN", ctx, device.ID, (*string)(nil)).Return(nil)

	ok, err := f.service.DeregisterDevice(ctx, device.ID, true)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, device.IsRegistered())
	f.deviceRepo.AssertExpectations(t)
}

func TestRegistrationService_DeregisterDevice_WithoutPersist(t *testing.T) {
	f := createTestRegistrationService("")
	ctx := context.Background()
	device := testDevice(uuid.New())
	device.SetRemoteARN("arn:endpoint:1")

	f.deviceRepo.On("FindDeviceByID", ctx, device.ID).Return(device, nil)
	f.broker.On("DeleteEndpoint", ctx, "arn:endpoint:1").Return(true, nil)

	ok, err := f.service.DeregisterDevice(ctx, device.ID, false)
	require.NoError(t, err)
	assert.True(t, ok)
	f.deviceRepo.AssertNotCalled(t, "UpdateDeviceARN", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegistrationService_RegisterTopic_Success(t *testing.T) {
	f := createTestRegistrationService("")
	ctx := context.Background()
	topic := &entity.Topic{
		ID:            uuid.New(),
		ApplicationID: uuid.New(),
		AppName:       "acme",
		Name:          "news",
	}

	f.topicRepo.On("FindTopicByID", ctx, topic.ID).Return(topic, nil)
	f.broker.On("CreateTopic", ctx, "acme_news").
		Return(createResponseFor(topic, "arn:topic:acme_news"), nil).Once()
	f.topicRepo.On("UpdateTopicARN", ctx, topic.ID, mock.AnythingOfType("*string")).Return(nil)

	registered, err := f.service.RegisterTopic(ctx, topic.ID)
	require.NoError(t, err)
	assert.Equal(t, "arn:topic:acme_news", registered.RemoteARN())
	f.broker.AssertExpectations(t)
}

func TestRegistrationService_RegisterSubscription_RegistersDependenciesFirst(t *testing.T) {
	f := createTestRegistrationService("")
	ctx := context.Background()
	platform := testPlatform("APNS")
	platform.SetRemoteARN("arn:platform:1")
	device := testDevice(platform.ID)
	topic := &entity.Topic{ID: uuid.New(), ApplicationID: platform.ApplicationID, AppName: "acme", Name: "news"}
	sub := &entity.Subscription{ID: uuid.New(), TopicID: topic.ID, DeviceID: device.ID}

	f.subscriptionRepo.On("FindSubscriptionByID", ctx, sub.ID).Return(sub, nil)
	f.deviceRepo.On("FindDeviceByID", ctx, device.ID).Return(device, nil)
	f.platformRepo.On("FindPlatformByID", ctx, platform.ID).Return(platform, nil)
	f.broker.On("CreatePlatformEndpoint", ctx, "arn:platform:1", "token-1", "").
		Return(createResponseFor(device, "arn:endpoint:1"), nil).Once()
	f.deviceRepo.On("UpdateDeviceARN", ctx, device.ID, mock.AnythingOfType("*string")).Return(nil)
	f.topicRepo.On("FindTopicByID", ctx, topic.ID).Return(topic, nil)
	f.broker.On("CreateTopic", ctx, "acme_news").
		Return(createResponseFor(topic, "arn:topic:1"), nil).Once()
	f.topicRepo.On("UpdateTopicARN", ctx, topic.ID, mock.AnythingOfType("*string")).Return(nil)
	f.broker.On("Subscribe", ctx, "arn:topic:1", "arn:endpoint:1", "application").
		Return(createResponseFor(sub, "arn:subscription:1"), nil).Once()
	f.subscriptionRepo.On("UpdateSubscriptionARN", ctx, sub.ID, mock.AnythingOfType("*string")).Return(nil)

	registered, err := f.service.RegisterSubscription(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, "arn:subscription:1", registered.RemoteARN())
	f.broker.AssertExpectations(t)
}

func TestRegistrationService_ListPlatformEndpoints_DrainsAllPages(t *testing.T) {
	f := createTestRegistrationService("")
	ctx := context.Background()
	platform := testPlatform("APNS")
	platform.SetRemoteARN("arn:platform:1")

	f.platformRepo.On("FindPlatformByID", ctx, platform.ID).Return(platform, nil)
	f.broker.On("ListEndpointsByPlatformApplication", ctx, "arn:platform:1", "").
		Return(&service.EndpointPage{
			Endpoints: []service.Endpoint{{ARN: "arn:endpoint:1", Enabled: true}},
			NextToken: "page-2",
		}, nil).Once()
	f.broker.On("ListEndpointsByPlatformApplication", ctx, "arn:platform:1", "page-2").
		Return(&service.EndpointPage{
			Endpoints: []service.Endpoint{{ARN: "arn:endpoint:2", Enabled: true}},
		}, nil).Once()

	endpoints, err := f.service.ListPlatformEndpoints(ctx, platform.ID)
	require.NoError(t, err)
	require.Len(t, endpoints, 2)
	assert.Equal(t, "arn:endpoint:1", endpoints[0].ARN)
	assert.Equal(t, "arn:endpoint:2", endpoints[1].ARN)
	f.broker.AssertExpectations(t)
}

func TestRegistrationService_ListTopicSubscriptions_DrainsAllPages(t *testing.T) {
	f := createTestRegistrationService("")
	ctx := context.Background()
	topic := &entity.Topic{ID: uuid.New(), ApplicationID: uuid.New(), AppName: "acme", Name: "news"}
	topic.SetRemoteARN("arn:topic:1")

	f.topicRepo.On("FindTopicByID", ctx, topic.ID).Return(topic, nil)
	f.broker.On("ListSubscriptionsByTopic", ctx, "arn:topic:1", "").
		Return(&service.SubscriptionPage{
			Subscriptions: []service.RemoteSubscription{{ARN: "arn:subscription:1", Protocol: "application"}},
			NextToken:     "page-2",
		}, nil).Once()
	f.broker.On("ListSubscriptionsByTopic", ctx, "arn:topic:1", "page-2").
		Return(&service.SubscriptionPage{
			Subscriptions: []service.RemoteSubscription{{ARN: "arn:subscription:2", Protocol: "application"}},
		}, nil).Once()

	subscriptions, err := f.service.ListTopicSubscriptions(ctx, topic.ID)
	require.NoError(t, err)
	require.Len(t, subscriptions, 2)
	assert.Equal(t, "arn:subscription:1", subscriptions[0].ARN)
	assert.Equal(t, "arn:subscription:2", subscriptions[1].ARN)
	f.broker.AssertExpectations(t)
}

func TestRegistrationService_ListRegisteredDevices(t *testing.T) {
	f := createTestRegistrationService("")
	ctx := context.Background()
	platform := testPlatform("GCM")
	platform.SetRemoteARN("arn:platform:1")
	device := testDevice(platform.ID)
	device.SetRemoteARN("arn:endpoint:1")

	f.platformRepo.On("FindPlatformByID", ctx, platform.ID).Return(platform, nil)
	f.broker.On("ListEndpointsByPlatformApplication", ctx, "arn:platform:1", "").
		Return(&service.EndpointPage{Endpoints: []service.Endpoint{{ARN: "arn:endpoint:1"}}}, nil)
	f.deviceRepo.On("FindDevicesByARNs", ctx, []string{"arn:endpoint:1"}).
		Return([]*entity.Device{device}, nil)

	devices, err := f.service.ListRegisteredDevices(ctx, platform.ID)
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, device.ID, devices[0].ID)
}

func TestRegistrationService_UpdateDevice_NotRegistered(t *testing.T) {
	f := createTestRegistrationService("")
	ctx := context.Background()
	device := testDevice(uuid.New())

	f.deviceRepo.On("FindDeviceByID", ctx, device.ID).Return(device, nil)

	_, err := f.service.UpdateDevice(ctx, device.ID, "token-2")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrs.ErrNotRegistered))
}

func TestRegistrationService_UpdateDevice_Success(t *testing.T) {
	f := createTestRegistrationService("")
	ctx := context.Background()
	device := testDevice(uuid.New())
	device.SetRemoteARN("arn:endpoint:1")

	f.deviceRepo.On("FindDeviceByID", ctx, device.ID).Return(device, nil)
	f.broker.On("SetEndpointAttributes", ctx, "arn:endpoint:1",
		map[string]string{"Enabled": "true", "Token": "token-2"}).Return(nil)
	f.deviceRepo.On("UpdatePushToken", ctx, device.ID, "token-2").Return(nil)

	updated, err := f.service.UpdateDevice(ctx, device.ID, "token-2")
	require.NoError(t, err)
	assert.Equal(t, "token-2", updated.PushToken)
	f.broker.AssertExpectations(t)
}

func TestRegistrationService_FindDevice_NotFound(t *testing.T) {
	f := createTestRegistrationService("")
	ctx := context.Background()
	id := uuid.New()

	f.deviceRepo.On("FindDeviceByID", ctx, id).Return(nil, repository.ErrDeviceNotFound)

	_, err := f.service.RegisterDevice(ctx, id)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrs.ErrDeviceNotFound))
}
