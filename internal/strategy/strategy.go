// Package strategy formats push messages into the per-platform wire payloads
// understood by the notification broker.
package strategy

import (
	"sync"

	domainerrs "pushgate/internal/domain/errors"
	"pushgate/internal/domain/entity"
)

// Fragment maps a platform tag to the JSON-serialized body for that platform.
// A strategy returns a single-key fragment; topic envelopes merge several.
type Fragment map[string]string

// Strategy formats a message for one platform type.
type Strategy interface {
	// ID is the machine key matching the platform type tag of a Platform.
	ID() string
	// ServiceName is the human-readable name of the push service.
	ServiceName() string
	// OSKind reports which device operating system the platform targets.
	OSKind() string
	// FormatPayload renders the message into this platform's wire fragment.
	FormatPayload(msg *entity.PushMessage) (Fragment, error)
}

var (
	registryMu sync.RWMutex
	custom     []func() Strategy
)

func builtin() []Strategy {
	return []Strategy{NewAPNS(), NewAPNSSandbox(), NewGCM()}
}

// Register appends a custom strategy constructor. A custom strategy with the
// same ID as a built-in one takes precedence on lookup.
func Register(ctor func() Strategy) {
	registryMu.Lock()
	defer registryMu.Unlock()

	custom = append(custom, ctor)
}

// All rebuilds the strategy list on every call so that registrations made at
// runtime take effect immediately.
func All() []Strategy {
	registryMu.RLock()
	defer registryMu.RUnlock()

	out := builtin()
	for _, ctor := range custom {
		out = append(out, ctor())
	}

	return out
}

// Lookup resolves the strategy for a platform type tag.
func Lookup(id string) (Strategy, error) {
	var found Strategy
	for _, s := range All() {
		if s.ID() == id {
			found = s
		}
	}
	if found == nil {
		return nil, domainerrs.ErrPlatformNotSupported.WrapMessage("platform type " + id)
	}

	return found, nil
}

// MergeFragments combines per-platform fragments into one envelope with the
// plain-text fallback under the "default" key.
func MergeFragments(defaultText string, fragments ...Fragment) map[string]string {
	envelope := map[string]string{"default": defaultText}
	for _, f := range fragments {
		for tag, body := range f {
			envelope[tag] = body
		}
	}

	return envelope
}

// alertBudget is the maximum serialized size of the APNS alert text in bytes.
const alertBudget = 140

const ellipsis = "..."

// TrimMessage shortens text over the alert budget by dropping three
// characters at a time before appending an ellipsis marker. Text already
// within budget is returned unchanged, so re-applying is a no-op.
func TrimMessage(message string) string {
	if len(message) <= alertBudget {
		return message
	}

	runes := []rune(message)
	for len(runes) > 3 && len(string(runes))+len(ellipsis) > alertBudget {
		runes = runes[:len(runes)-3]
	}

	return string(runes) + ellipsis
}
