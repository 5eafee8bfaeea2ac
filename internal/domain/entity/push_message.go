// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// MessageType distinguishes direct device sends from topic fan-out sends.
type MessageType int

const (
	// MessageTypeDefault marks a message sent directly to a device endpoint.
	MessageTypeDefault MessageType = 0
	// MessageTypeTopic marks a message fanned out through a topic.
	MessageTypeTopic MessageType = 1
)

// PushMessage describes the content of one notification. The zero-value
// defaults follow NewPushMessage; ReceiverARN and MessageType are stamped by
// the sign step immediately before a send, everything else is immutable.
type PushMessage struct {
	ID            uuid.UUID      `json:"id"`              // The Global Unique Identifier (GUID) for the message.
	Sound         *string        `json:"sound"`           // Optional notification sound.
	Message       string         `json:"message"`         // Notification text, may be empty for silent pushes.
	HasNewContent bool           `json:"has_new_content"` // Silent/background push flag.
	Context       string         `json:"context"`         // Opaque app-defined routing string.
	ContextID     string         `json:"context_id"`      // Opaque app-defined routing identifier.
	BadgeCount    int            `json:"badge_count"`     // Badge count shown on the app icon, 0 clears it, negative suppresses the key.
	ExtraPayload  map[string]any `json:"extra_payload"`   // Optional mapping merged into the formatted payload.
	ReceiverARN   string         `json:"receiver_arn"`    // Resolved remote target, set by the sign step.
	MessageType   MessageType    `json:"message_type"`    // Default or topic, set by the sign step.
	CreatedAt     time.Time      `json:"created_at"`      // Timestamp of when this message was created.
}

// NewPushMessage returns a message with the documented field defaults.
func NewPushMessage(text string) *PushMessage {
	return &PushMessage{
		ID:        uuid.New(),
		Message:   text,
		Context:   "default",
		ContextID: "none",
		CreatedAt: time.Now(),
	}
}

// AsDict returns the full field set of the message merged with the extra
// payload, as handed to data-style platform formats.
func (m *PushMessage) AsDict() map[string]any {
	d := map[string]any{
		"message":         m.Message,
		"context":         m.Context,
		"context_id":      m.ContextID,
		"badge_count":     m.BadgeCount,
		"sound":           m.Sound,
		"has_new_content": m.HasNewContent,
	}
	for k, v := range m.ExtraPayload {
		d[k] = v
	}

	return d
}
