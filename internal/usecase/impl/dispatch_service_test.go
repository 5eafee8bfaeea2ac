package impl

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	domainerrs "pushgate/internal/domain/errors"
	"pushgate/internal/domain/entity"
	"pushgate/internal/domain/repository"
	"pushgate/internal/domain/service"
	mockRepo "pushgate/internal/mocks/repository"
	mockSvc "pushgate/internal/mocks/service"
	mockUC "pushgate/internal/mocks/usecase"
	"pushgate/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type dispatchFixture struct {
	service          usecase.DispatchUsecase
	broker           *mockSvc.MockBrokerClient
	registration     *mockUC.MockRegistrationUsecase
	deviceRepo       *mockRepo.MockDeviceRepository
	platformRepo     *mockRepo.MockPlatformRepository
	topicRepo        *mockRepo.MockTopicRepository
	subscriptionRepo *mockRepo.MockSubscriptionRepository
	messageRepo      *mockRepo.MockMessageRepository
	events           *mockSvc.MockEventPublisher
}

func createTestDispatchService(logSends bool) *dispatchFixture {
	f := &dispatchFixture{
		broker:           new(mockSvc.MockBrokerClient),
		registration:     new(mockUC.MockRegistrationUsecase),
		deviceRepo:       new(mockRepo.MockDeviceRepository),
		platformRepo:     new(mockRepo.MockPlatformRepository),
		topicRepo:        new(mockRepo.MockTopicRepository),
		subscriptionRepo: new(mockRepo.MockSubscriptionRepository),
		messageRepo:      new(mockRepo.MockMessageRepository),
		events:           new(mockSvc.MockEventPublisher),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

	f.service = NewDispatchService(
		f.broker,
		f.registration,
		f.deviceRepo,
		f.platformRepo,
		f.topicRepo,
		f.subscriptionRepo,
		f.messageRepo,
		f.events,
		logger,
		logSends,
	)

	return f
}

func TestDispatchService_SendToDevice_NotRegistered(t *testing.T) {
	f := createTestDispatchService(true)
	ctx := context.Background()
	device := testDevice(uuid.New())

	f.deviceRepo.On("FindDeviceByID", ctx, device.ID).Return(device, nil)

	err := f.service.SendToDevice(ctx, device.ID, entity.NewPushMessage("hello"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrs.ErrNotRegistered))
	f.broker.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	f.messageRepo.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
}

func TestDispatchService_SendToDevice_Success(t *testing.T) {
	f := createTestDispatchService(true)
	ctx := context.Background()
	platform := testPlatform("APNS")
	device := testDevice(platform.ID)
	device.SetRemoteARN("arn:endpoint:1")
	message := entity.NewPushMessage("dinner is ready")

	f.deviceRepo.On("FindDeviceByID", ctx, device.ID).Return(device, nil)
	f.platformRepo.On("FindPlatformByID", ctx, platform.ID).Return(platform, nil)
	f.messageRepo.On("CreateMessage", ctx, message).Return(nil).Once()
	f.broker.On("Publish", ctx, mock.MatchedBy(func(input service.PublishInput) bool {
		if input.TargetARN != "arn:endpoint:1" || input.TopicARN != "" || input.MessageStructure != "json" {
			return false
		}
		var fragment map[string]string
		if err := json.Unmarshal([]byte(input.Message), &fragment); err != nil {
			return false
		}
		_, ok := fragment["APNS"]

		return ok
	})).Return("broker-msg-1", nil).Once()
	f.events.On("PublishDispatchEvent", ctx, mock.MatchedBy(func(event *service.DispatchEvent) bool {
		return event.Success && event.BrokerMsgID == "broker-msg-1" && event.MessageType == int(entity.MessageTypeDefault)
	})).Return(nil).Once()

	err := f.service.SendToDevice(ctx, device.ID, message)
	require.NoError(t, err)

	// Signed before the send with the device target and direct type.
	assert.Equal(t, "arn:endpoint:1", message.ReceiverARN)
	assert.Equal(t, entity.MessageTypeDefault, message.MessageType)
	f.broker.AssertExpectations(t)
	f.messageRepo.AssertExpectations(t)
	f.events.AssertExpectations(t)
}

func TestDispatchService_SendToDevice_AuditDisabled(t *testing.T) {
	f := createTestDispatchService(false)
	ctx := context.Background()
	platform := testPlatform("GCM")
	device := testDevice(platform.ID)
	device.SetRemoteARN("arn:endpoint:1")

	f.deviceRepo.On("FindDeviceByID", ctx, device.ID).Return(device, nil)
	f.platformRepo.On("FindPlatformByID", ctx, platform.ID).Return(platform, nil)
	f.broker.On("Publish", ctx, mock.AnythingOfType("service.PublishInput")).Return("broker-msg-1", nil)
	f.events.On("PublishDispatchEvent", ctx, mock.Anything).Return(nil)

	err := f.service.SendToDevice(ctx, device.ID, entity.NewPushMessage("hello"))
	require.NoError(t, err)
	f.messageRepo.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
}

func TestDispatchService_SendToDevice_AuditSurvivesBrokerFailure(t *testing.T) {
	f := createTestDispatchService(true)
	ctx := context.Background()
	platform := testPlatform("APNS")
	device := testDevice(platform.ID)
	device.SetRemoteARN("arn:endpoint:1")

	f.deviceRepo.On("FindDeviceByID", ctx, device.ID).Return(device, nil)
	f.platformRepo.On("FindPlatformByID", ctx, platform.ID).Return(platform, nil)
	f.messageRepo.On("CreateMessage", ctx, mock.Anything).Return(nil).Once()
	f.broker.On("Publish", ctx, mock.AnythingOfType("service.PublishInput")).
		Return("", errors.New("broker unavailable"))
	f.events.On("PublishDispatchEvent", ctx, mock.MatchedBy(func(event *service.DispatchEvent) bool {
		return !event.Success && event.Error != ""
	})).Return(nil).Once()

	err := f.service.SendToDevice(ctx, device.ID, entity.NewPushMessage("hello"))
	require.Error(t, err)

	var opErr *service.OperationError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, "Publish", opErr.Op)
	// The audit record was written before the failed send.
	f.messageRepo.AssertExpectations(t)
}

func TestDispatchService_SendToTopic_MergesAllPlatformFragments(t *testing.T) {
	f := createTestDispatchService(true)
	ctx := context.Background()
	appID := uuid.New()
	topic := &entity.Topic{ID: uuid.New(), ApplicationID: appID, AppName: "acme", Name: "news"}
	topic.SetRemoteARN("arn:topic:1")

	apns := testPlatform("APNS")
	apns.ApplicationID = appID
	apns.SetRemoteARN("arn:platform:apns")
	gcm := testPlatform("GCM")
	gcm.ApplicationID = appID
	gcm.SetRemoteARN("arn:platform:gcm")
	unregistered := testPlatform("APNS_SANDBOX")
	unregistered.ApplicationID = appID

	message := entity.NewPushMessage("breaking news")

	f.topicRepo.On("FindTopicByID", ctx, topic.ID).Return(topic, nil)
	f.platformRepo.On("FindPlatformsByApplication", ctx, appID).
		Return([]*entity.Platform{apns, gcm, unregistered}, nil)
	f.messageRepo.On("CreateMessage", ctx, message).Return(nil).Once()
	f.broker.On("Publish", ctx, mock.MatchedBy(func(input service.PublishInput) bool {
		if input.TopicARN != "arn:topic:1" || input.TargetARN != "" || input.MessageStructure != "json" {
			return false
		}
		var envelope map[string]string
		if err := json.Unmarshal([]byte(input.Message), &envelope); err != nil {
			return false
		}
		if envelope["default"] != "breaking news" {
			return false
		}
		_, hasAPNS := envelope["APNS"]
		_, hasGCM := envelope["GCM"]
		_, hasSandbox := envelope["APNS_SANDBOX"]

		return hasAPNS && hasGCM && !hasSandbox
	})).Return("broker-msg-2", nil).Once()
	f.events.On("PublishDispatchEvent", ctx, mock.MatchedBy(func(event *service.DispatchEvent) bool {
		return event.MessageType == int(entity.MessageTypeTopic)
	})).Return(nil).Once()

	err := f.service.SendToTopic(ctx, topic.ID, message)
	require.NoError(t, err)
	assert.Equal(t, "arn:topic:1", message.ReceiverARN)
	assert.Equal(t, entity.MessageTypeTopic, message.MessageType)
	f.broker.AssertExpectations(t)
}

func TestDispatchService_SendToTopic_NotRegistered(t *testing.T) {
	f := createTestDispatchService(true)
	ctx := context.Background()
	topic := &entity.Topic{ID: uuid.New(), ApplicationID: uuid.New(), AppName: "acme", Name: "news"}

	f.topicRepo.On("FindTopicByID", ctx, topic.ID).Return(topic, nil)

	err := f.service.SendToTopic(ctx, topic.ID, entity.NewPushMessage("hello"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrs.ErrNotRegistered))
}

func TestDispatchService_SubscribeDeviceToTopic_ReusesExistingRow(t *testing.T) {
	f := createTestDispatchService(true)
	ctx := context.Background()
	topic := &entity.Topic{ID: uuid.New(), AppName: "acme", Name: "news"}
	topic.SetRemoteARN("arn:topic:1")
	device := testDevice(uuid.New())
	device.SetRemoteARN("arn:endpoint:1")
	sub := &entity.Subscription{ID: uuid.New(), TopicID: topic.ID, DeviceID: device.ID}
	sub.SetRemoteARN("arn:subscription:1")

	f.registration.On("RegisterTopic", ctx, topic.ID).Return(topic, nil)
	f.registration.On("RegisterDevice", ctx, device.ID).Return(device, nil)
	f.subscriptionRepo.On("GetOrCreateSubscription", ctx, topic.ID, device.ID).Return(sub, false, nil)
	f.registration.On("RegisterSubscription", ctx, sub.ID).Return(sub, nil)

	got, err := f.service.SubscribeDeviceToTopic(ctx, topic.ID, device.ID)
	require.NoError(t, err)
	assert.Equal(t, sub.ID, got.ID)
	f.registration.AssertExpectations(t)
}

func TestDispatchService_UnsubscribeDeviceFromTopic_NotSubscribed(t *testing.T) {
	f := createTestDispatchService(true)
	ctx := context.Background()
	topicID := uuid.New()
	deviceID := uuid.New()

	f.subscriptionRepo.On("FindSubscription", ctx, topicID, deviceID).
		Return(nil, repository.ErrSubscriptionNotFound)

	ok, err := f.service.UnsubscribeDeviceFromTopic(ctx, topicID, deviceID)
	require.NoError(t, err)
	assert.False(t, ok)
	f.subscriptionRepo.AssertNotCalled(t, "DeleteSubscription", mock.Anything, mock.Anything)
}

func TestDispatchService_UnsubscribeDeviceFromTopic_DeletesRowAfterRemoteRemoval(t *testing.T) {
	f := createTestDispatchService(true)
	ctx := context.Background()
	sub := &entity.Subscription{ID: uuid.New(), TopicID: uuid.New(), DeviceID: uuid.New()}
	sub.SetRemoteARN("arn:subscription:1")

	f.subscriptionRepo.On("FindSubscription", ctx, sub.TopicID, sub.DeviceID).Return(sub, nil)
	f.registration.On("DeregisterSubscription", ctx, sub.ID, false).Return(true, nil)
	f.subscriptionRepo.On("DeleteSubscription", ctx, sub.ID).Return(nil).Once()

	ok, err := f.service.UnsubscribeDeviceFromTopic(ctx, sub.TopicID, sub.DeviceID)
	require.NoError(t, err)
	assert.True(t, ok)
	f.subscriptionRepo.AssertExpectations(t)
}

func TestDispatchService_UnsubscribeDeviceFromTopic_KeepsRowWhenBrokerDeclines(t *testing.T) {
	f := createTestDispatchService(true)
	ctx := context.Background()
	sub := &entity.Subscription{ID: uuid.New(), TopicID: uuid.New(), DeviceID: uuid.New()}
	sub.SetRemoteARN("arn:subscription:1")

	f.subscriptionRepo.On("FindSubscription", ctx, sub.TopicID, sub.DeviceID).Return(sub, nil)
	f.registration.On("DeregisterSubscription", ctx, sub.ID, false).Return(false, nil)

	ok, err := f.service.UnsubscribeDeviceFromTopic(ctx, sub.TopicID, sub.DeviceID)
	require.NoError(t, err)
	assert.False(t, ok)
	f.subscriptionRepo.AssertNotCalled(t, "DeleteSubscription", mock.Anything, mock.Anything)
}

func TestDispatchService_DeviceMessageHistory(t *testing.T) {
	f := createTestDispatchService(true)
	ctx := context.Background()
	device := testDevice(uuid.New())
	device.SetRemoteARN("arn:endpoint:1")
	records := []*entity.PushMessage{entity.NewPushMessage("first"), entity.NewPushMessage("second")}

	f.deviceRepo.On("FindDeviceByID", ctx, device.ID).Return(device, nil)
	f.messageRepo.On("FindMessagesByReceiver", ctx, "arn:endpoint:1", 2, 0).Return(records, nil).Once()
	f.messageRepo.On("CountMessagesByReceiver", ctx, "arn:endpoint:1").Return(int64(7), nil).Once()

	messages, total, err := f.service.DeviceMessageHistory(ctx, device.ID, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, records, messages)
	assert.Equal(t, int64(7), total)
	f.messageRepo.AssertExpectations(t)
}

func TestDispatchService_DeviceMessageHistory_DefaultsLimit(t *testing.T) {
	f := createTestDispatchService(true)
	ctx := context.Background()
	device := testDevice(uuid.New())
	device.SetRemoteARN("arn:endpoint:1")

	f.deviceRepo.On("FindDeviceByID", ctx, device.ID).Return(device, nil)
	f.messageRepo.On("FindMessagesByReceiver", ctx, "arn:endpoint:1", defaultHistoryLimit, 0).Return([]*entity.PushMessage{}, nil).Once()
	f.messageRepo.On("CountMessagesByReceiver", ctx, "arn:endpoint:1").Return(int64(0), nil).Once()

	_, _, err := f.service.DeviceMessageHistory(ctx, device.ID, 0, 0)
	require.NoError(t, err)
	f.messageRepo.AssertExpectations(t)
}

func TestDispatchService_DeviceMessageHistory_NotRegistered(t *testing.T) {
	f := createTestDispatchService(true)
	ctx := context.Background()
	device := testDevice(uuid.New())

	f.deviceRepo.On("FindDeviceByID", ctx, device.ID).Return(device, nil)

	_, _, err := f.service.DeviceMessageHistory(ctx, device.ID, 10, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrs.ErrNotRegistered))
	f.messageRepo.AssertNotCalled(t, "FindMessagesByReceiver", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatchService_PurgeMessage(t *testing.T) {
	f := createTestDispatchService(true)
	ctx := context.Background()
	messageID := uuid.New()

	f.messageRepo.On("DeleteMessage", ctx, messageID).Return(nil).Once()

	require.NoError(t, f.service.PurgeMessage(ctx, messageID))
	f.messageRepo.AssertExpectations(t)
}

func TestDispatchService_PurgeMessage_NotFound(t *testing.T) {
	f := createTestDispatchService(true)
	ctx := context.Background()
	messageID := uuid.New()

	f.messageRepo.On("DeleteMessage", ctx, messageID).Return(domainerrs.ErrNotFound).Once()

	err := f.service.PurgeMessage(ctx, messageID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrs.ErrNotFound))
}
