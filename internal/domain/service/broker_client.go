// Package service defines the interfaces for external collaborators the use
// cases depend on.
package service

import (
	"context"

	"pushgate/internal/domain/entity"
)

// CreateResponse is the structured response of a broker create call. The
// broker nests the newly assigned identifier under a resource-derived key
// path; ExtractARN walks that path generically.
type CreateResponse map[string]any

// Endpoint is one remote device endpoint as listed by the broker.
type Endpoint struct {
	ARN     string
	Token   string
	Enabled bool
}

// EndpointPage is one page of a platform's endpoint listing. An empty
// NextToken marks the last page.
type EndpointPage struct {
	Endpoints []Endpoint
	NextToken string
}

// RemoteSubscription is one broker-side subscription as listed by the broker.
type RemoteSubscription struct {
	ARN      string
	TopicARN string
	Endpoint string
	Protocol string
}

// SubscriptionPage is one page of a topic's subscription listing. An empty
// NextToken marks the last page.
type SubscriptionPage struct {
	Subscriptions []RemoteSubscription
	NextToken     string
}

// PublishInput describes one publish call. Exactly one of TargetARN and
// TopicARN must be set.
type PublishInput struct {
	Message          string
	TargetARN        string
	TopicARN         string
	MessageStructure string
}

// BrokerClient is the contract of the remote pub/sub notification broker.
// All calls are blocking; timeouts are the implementation's responsibility.
type BrokerClient interface {
	CreatePlatformApplication(ctx context.Context, name, platformType string, attributes map[string]string) (CreateResponse, error)
	DeletePlatformApplication(ctx context.Context, arn string) (bool, error)

	CreatePlatformEndpoint(ctx context.Context, platformARN, token, customUserData string) (CreateResponse, error)
	DeleteEndpoint(ctx context.Context, arn string) (bool, error)
	SetEndpointAttributes(ctx context.Context, arn string, attributes map[string]string) error
	ListEndpointsByPlatformApplication(ctx context.Context, platformARN, nextToken string) (*EndpointPage, error)

	CreateTopic(ctx context.Context, name string) (CreateResponse, error)
	DeleteTopic(ctx context.Context, arn string) (bool, error)

	Subscribe(ctx context.Context, topicARN, endpointARN, protocol string) (CreateResponse, error)
	Unsubscribe(ctx context.Context, subscriptionARN string) (bool, error)
	ListSubscriptionsByTopic(ctx context.Context, topicARN, nextToken string) (*SubscriptionPage, error)

	// Publish sends a formatted message to a device endpoint or a topic and
	// returns the broker-assigned message ID.
	Publish(ctx context.Context, input PublishInput) (string, error)
}

// ExtractARN walks the entity's response key path
// (ResponseKey -> ResultKey -> ARNKey) in a create response and, on success,
// stores the identifier on the entity. A missing or empty key path returns
// false without modifying the entity; callers decide how to escalate.
func ExtractARN(resp CreateResponse, target entity.Registrable) bool {
	outer, ok := resp[target.ResponseKey()].(map[string]any)
	if !ok {
		return false
	}

	result, ok := outer[target.ResultKey()].(map[string]any)
	if !ok {
		return false
	}

	arn, ok := result[target.ARNKey()].(string)
	if !ok || arn == "" {
		return false
	}

	target.SetRemoteARN(arn)

	return true
}
