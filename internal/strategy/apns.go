package strategy

import (
	"encoding/json"

	"pushgate/internal/domain/constants"
	"pushgate/internal/domain/entity"
	"pushgate/internal/errors"
)

type apnsStrategy struct {
	sandbox bool
}

// NewAPNS returns the strategy for the production Apple push service.
func NewAPNS() Strategy {
	return &apnsStrategy{}
}

// NewAPNSSandbox returns the strategy for the Apple push sandbox environment.
func NewAPNSSandbox() Strategy {
	return &apnsStrategy{sandbox: true}
}

func (s *apnsStrategy) ID() string {
	if s.sandbox {
		return "APNS_SANDBOX"
	}

	return "APNS"
}

func (s *apnsStrategy) ServiceName() string {
	if s.sandbox {
		return "Apple Push Notification Service (Sandbox)"
	}

	return "Apple Push Notification Service"
}

func (s *apnsStrategy) OSKind() string {
	return constants.OSKindIOS
}

// FormatPayload builds the aps dictionary. The alert and sound keys are only
// present for messages with visible text. The badge key is carried for any
// non-negative count, so default messages clear the icon badge; a negative
// count suppresses the key and leaves the badge untouched.
func (s *apnsStrategy) FormatPayload(msg *entity.PushMessage) (Fragment, error) {
	aps := map[string]any{
		"content-available": msg.HasNewContent,
	}
	if msg.BadgeCount >= 0 {
		aps["badge"] = msg.BadgeCount
	}
	if msg.Message != "" {
		aps["alert"] = TrimMessage(msg.Message)
	}
	if msg.Sound != nil {
		aps["sound"] = *msg.Sound
	}

	payload := map[string]any{
		"aps": aps,
		"ctx": msg.Context,
		"id":  msg.ContextID,
	}
	for k, v := range msg.ExtraPayload {
		payload[k] = v
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "marshal apns payload")
	}

	return Fragment{s.ID(): string(body)}, nil
}
