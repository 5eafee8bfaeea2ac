package service

import "context"

// DispatchEvent describes one completed publish attempt, emitted after the
// broker call returns. Events are best-effort observability data; dispatch
// outcomes never depend on them.
type DispatchEvent struct {
	MessageID   string `json:"message_id"`   // Local push message ID.
	ReceiverARN string `json:"receiver_arn"` // Remote target the message was published to.
	MessageType int    `json:"message_type"` // 0 = direct device send, 1 = topic fan-out.
	BrokerMsgID string `json:"broker_msg_id,omitempty"`
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
	RequestID   string `json:"request_id,omitempty"` // Request tracking ID for tracing.
}

// EventPublisher publishes dispatch events to an external event stream.
type EventPublisher interface {
	// PublishDispatchEvent publishes a dispatch event.
	PublishDispatchEvent(ctx context.Context, event *DispatchEvent) error

	// Close releases any resources held by the publisher.
	Close() error
}
