// Package service provides hand-rolled test doubles for the domain service
// contracts.
package service

import (
	"context"

	"pushgate/internal/domain/service"

	"github.com/stretchr/testify/mock"
)

// MockBrokerClient is a test double for service.BrokerClient.
type MockBrokerClient struct {
	mock.Mock
}

func (m *MockBrokerClient) CreatePlatformApplication(ctx context.Context, name, platformType string, attributes map[string]string) (service.CreateResponse, error) {
	args := m.Called(ctx, name, platformType, attributes)
	if resp, ok := args.Get(0).(service.CreateResponse); ok {
		return resp, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockBrokerClient) DeletePlatformApplication(ctx context.Context, arn string) (bool, error) {
	args := m.Called(ctx, arn)

	return args.Bool(0), args.Error(1)
}

func (m *MockBrokerClient) CreatePlatformEndpoint(ctx context.Context, platformARN, token, customUserData string) (service.CreateResponse, error) {
	args := m.Called(ctx, platformARN, token, customUserData)
	if resp, ok := args.Get(0).(service.CreateResponse); ok {
		return resp, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockBrokerClient) DeleteEndpoint(ctx context.Context, arn string) (bool, error) {
	args := m.Called(ctx, arn)

	return args.Bool(0), args.Error(1)
}

func (m *MockBrokerClient) SetEndpointAttributes(ctx context.Context, arn string, attributes map[string]string) error {
	args := m.Called(ctx, arn, attributes)

	return args.Error(0)
}

func (m *MockBrokerClient) ListEndpointsByPlatformApplication(ctx context.Context, platformARN, nextToken string) (*service.EndpointPage, error) {
	args := m.Called(ctx, platformARN, nextToken)
	if page, ok := args.Get(0).(*service.EndpointPage); ok {
		return page, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockBrokerClient) CreateTopic(ctx context.Context, name string) (service.CreateResponse, error) {
	args := m.Called(ctx, name)
	if resp, ok := args.Get(0).(service.CreateResponse); ok {
		return resp, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockBrokerClient) DeleteTopic(ctx context.Context, arn string) (bool, error) {
	args := m.Called(ctx, arn)

	return args.Bool(0), args.Error(1)
}

func (m *MockBrokerClient) Subscribe(ctx context.Context, topicARN, endpointARN, protocol string) (service.CreateResponse, error) {
	args := m.Called(ctx, topicARN, endpointARN, protocol)
	if resp, ok := args.Get(0).(service.CreateResponse); ok {
		return resp, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockBrokerClient) Unsubscribe(ctx context.Context, subscriptionARN string) (bool, error) {
	args := m.Called(ctx, subscriptionARN)

	return args.Bool(0), args.Error(1)
}

func (m *MockBrokerClient) ListSubscriptionsByTopic(ctx context.Context, topicARN, nextToken string) (*service.SubscriptionPage, error) {
	args := m.Called(ctx, topicARN, nextToken)
	if page, ok := args.Get(0).(*service.SubscriptionPage); ok {
		return page, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockBrokerClient) Publish(ctx context.Context, input service.PublishInput) (string, error) {
	args := m.Called(ctx, input)

	return args.String(0), args.Error(1)
}
