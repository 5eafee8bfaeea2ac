// Package broker implements the notification broker contract on top of AWS SNS.
package broker

import (
	"context"
	"strings"

	"pushgate/config"
	"pushgate/internal/domain/service"
	"pushgate/internal/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// snsAPI is the slice of the SNS client the adapter uses.
type snsAPI interface {
	CreatePlatformApplication(ctx context.Context, params *sns.CreatePlatformApplicationInput, optFns ...func(*sns.Options)) (*sns.CreatePlatformApplicationOutput, error)
	DeletePlatformApplication(ctx context.Context, params *sns.DeletePlatformApplicationInput, optFns ...func(*sns.Options)) (*sns.DeletePlatformApplicationOutput, error)
	CreatePlatformEndpoint(ctx context.Context, params *sns.CreatePlatformEndpointInput, optFns ...func(*sns.Options)) (*sns.CreatePlatformEndpointOutput, error)
	DeleteEndpoint(ctx context.Context, params *sns.DeleteEndpointInput, optFns ...func(*sns.Options)) (*sns.DeleteEndpointOutput, error)
	SetEndpointAttributes(ctx context.Context, params *sns.SetEndpointAttributesInput, optFns ...func(*sns.Options)) (*sns.SetEndpointAttributesOutput, error)
	ListEndpointsByPlatformApplication(ctx context.Context, params *sns.ListEndpointsByPlatformApplicationInput, optFns ...func(*sns.Options)) (*sns.ListEndpointsByPlatformApplicationOutput, error)
	CreateTopic(ctx context.Context, params *sns.CreateTopicInput, optFns ...func(*sns.Options)) (*sns.CreateTopicOutput, error)
	DeleteTopic(ctx context.Context, params *sns.DeleteTopicInput, optFns ...func(*sns.Options)) (*sns.DeleteTopicOutput, error)
	Subscribe(ctx context.Context, params *sns.SubscribeInput, optFns ...func(*sns.Options)) (*sns.SubscribeOutput, error)
	Unsubscribe(ctx context.Context, params *sns.UnsubscribeInput, optFns ...func(*sns.Options)) (*sns.UnsubscribeOutput, error)
	ListSubscriptionsByTopic(ctx context.Context, params *sns.ListSubscriptionsByTopicInput, optFns ...func(*sns.Options)) (*sns.ListSubscriptionsByTopicOutput, error)
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type snsBroker struct {
	client snsAPI
}

// NewSNSBroker builds the SNS-backed broker client from configuration. Static
// credentials are used when configured, the ambient credential chain
// otherwise.
func NewSNSBroker(ctx context.Context, cfg *config.SNSConfig) (service.BrokerClient, error) {
	if cfg == nil {
		return nil, errors.New("sns config is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "load aws config")
	}

	var clientOpts []func(*sns.Options)
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *sns.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}

	return &snsBroker{client: sns.NewFromConfig(awsCfg, clientOpts...)}, nil
}

// createResponse rebuilds the nested response shape the rest of the system
// extracts identifiers from.
func createResponse(resource, arnKey, arn string) service.CreateResponse {
	return service.CreateResponse{
		"Create" + resource + "Response": map[string]any{
			"Create" + resource + "Result": map[string]any{
				arnKey: arn,
			},
		},
	}
}

func (b *snsBroker) CreatePlatformApplication(ctx context.Context, name, platformType string, attributes map[string]string) (service.CreateResponse, error) {
	out, err := b.client.CreatePlatformApplication(ctx, &sns.CreatePlatformApplicationInput{
		Name:       aws.String(name),
		Platform:   aws.String(platformType),
		Attributes: attributes,
	})
	if err != nil {
		return nil, errors.Wrap(err, "sns create platform application")
	}

	return createResponse("PlatformApplication", "PlatformApplicationArn", aws.ToString(out.PlatformApplicationArn)), nil
}

func (b *snsBroker) DeletePlatformApplication(ctx context.Context, arn string) (bool, error) {
	if _, err := b.client.DeletePlatformApplication(ctx, &sns.DeletePlatformApplicationInput{
		PlatformApplicationArn: aws.String(arn),
	}); err != nil {
		return false, errors.Wrap(err, "sns delete platform application")
	}

	return true, nil
}

func (b *snsBroker) CreatePlatformEndpoint(ctx context.Context, platformARN, token, customUserData string) (service.CreateResponse, error) {
	input := &sns.CreatePlatformEndpointInput{
		PlatformApplicationArn: aws.String(platformARN),
		Token:                  aws.String(token),
	}
	if customUserData != "" {
		input.CustomUserData = aws.String(customUserData)
	}

	out, err := b.client.CreatePlatformEndpoint(ctx, input)
	if err != nil {
		// The error text carries the existing endpoint identifier on a token
		// conflict; callers recover it from the message.
		return nil, errors.Wrap(err, "sns create platform endpoint")
	}

	return createResponse("PlatformEndpoint", "EndpointArn", aws.ToString(out.EndpointArn)), nil
}

func (b *snsBroker) DeleteEndpoint(ctx context.Context, arn string) (bool, error) {
	if _, err := b.client.DeleteEndpoint(ctx, &sns.DeleteEndpointInput{
		EndpointArn: aws.String(arn),
	}); err != nil {
		return false, errors.Wrap(err, "sns delete endpoint")
	}

	return true, nil
}

func (b *snsBroker) SetEndpointAttributes(ctx context.Context, arn string, attributes map[string]string) error {
	if _, err := b.client.SetEndpointAttributes(ctx, &sns.SetEndpointAttributesInput{
		EndpointArn: aws.String(arn),
		Attributes:  attributes,
	}); err != nil {
		return errors.Wrap(err, "sns set endpoint attributes")
	}

	return nil
}

func (b *snsBroker) ListEndpointsByPlatformApplication(ctx context.Context, platformARN, nextToken string) (*service.EndpointPage, error) {
	input := &sns.ListEndpointsByPlatformApplicationInput{
		PlatformApplicationArn: aws.String(platformARN),
	}
	if nextToken != "" {
		input.NextToken = aws.String(nextToken)
	}

	out, err := b.client.ListEndpointsByPlatformApplication(ctx, input)
	if err != nil {
		return nil, errors.Wrap(err, "sns list endpoints")
	}

	page := &service.EndpointPage{NextToken: aws.ToString(out.NextToken)}
	for _, endpoint := range out.Endpoints {
		page.Endpoints = append(page.Endpoints, service.Endpoint{
			ARN:     aws.ToString(endpoint.EndpointArn),
			Token:   endpoint.Attributes["Token"],
			Enabled: strings.EqualFold(endpoint.Attributes["Enabled"], "true"),
		})
	}

	return page, nil
}

func (b *snsBroker) CreateTopic(ctx context.Context, name string) (service.CreateResponse, error) {
	out, err := b.client.CreateTopic(ctx, &sns.CreateTopicInput{
		Name: aws.String(name),
	})
	if err != nil {
		return nil, errors.Wrap(err, "sns create topic")
	}

	return createResponse("Topic", "TopicArn", aws.ToString(out.TopicArn)), nil
}

func (b *snsBroker) DeleteTopic(ctx context.Context, arn string) (bool, error) {
	if _, err := b.client.DeleteTopic(ctx, &sns.DeleteTopicInput{
		TopicArn: aws.String(arn),
	}); err != nil {
		return false, errors.Wrap(err, "sns delete topic")
	}

	return true, nil
}

func (b *snsBroker) Subscribe(ctx context.Context, topicARN, endpointARN, protocol string) (service.CreateResponse, error) {
	out, err := b.client.Subscribe(ctx, &sns.SubscribeInput{
		TopicArn:              aws.String(topicARN),
		Endpoint:              aws.String(endpointARN),
		Protocol:              aws.String(protocol),
		ReturnSubscriptionArn: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "sns subscribe")
	}

	return service.CreateResponse{
		"SubscribeResponse": map[string]any{
			"SubscribeResult": map[string]any{
				"SubscriptionArn": aws.ToString(out.SubscriptionArn),
			},
		},
	}, nil
}

func (b *snsBroker) Unsubscribe(ctx context.Context, subscriptionARN string) (bool, error) {
	if _, err := b.client.Unsubscribe(ctx, &sns.UnsubscribeInput{
		SubscriptionArn: aws.String(subscriptionARN),
	}); err != nil {
		return false, errors.Wrap(err, "sns unsubscribe")
	}

	return true, nil
}

func (b *snsBroker) ListSubscriptionsByTopic(ctx context.Context, topicARN, nextToken string) (*service.SubscriptionPage, error) {
	input := &sns.ListSubscriptionsByTopicInput{
		TopicArn: aws.String(topicARN),
	}
	if nextToken != "" {
		input.NextToken = aws.String(nextToken)
	}

	out, err := b.client.ListSubscriptionsByTopic(ctx, input)
	if err != nil {
		return nil, errors.Wrap(err, "sns list subscriptions")
	}

	page := &service.SubscriptionPage{NextToken: aws.ToString(out.NextToken)}
	for _, sub := range out.Subscriptions {
		page.Subscriptions = append(page.Subscriptions, service.RemoteSubscription{
			ARN:      aws.ToString(sub.SubscriptionArn),
			TopicARN: aws.ToString(sub.TopicArn),
			Endpoint: aws.ToString(sub.Endpoint),
			Protocol: aws.ToString(sub.Protocol),
		})
	}

	return page, nil
}

func (b *snsBroker) Publish(ctx context.Context, input service.PublishInput) (string, error) {
	publishInput := &sns.PublishInput{
		Message: aws.String(input.Message),
	}
	if input.MessageStructure != "" {
		publishInput.MessageStructure = aws.String(input.MessageStructure)
	}
	if input.TargetARN != "" {
		publishInput.TargetArn = aws.String(input.TargetARN)
	}
	if input.TopicARN != "" {
		publishInput.TopicArn = aws.String(input.TopicARN)
	}

	out, err := b.client.Publish(ctx, publishInput)
	if err != nil {
		return "", errors.Wrap(err, "sns publish")
	}

	return aws.ToString(out.MessageId), nil
}
