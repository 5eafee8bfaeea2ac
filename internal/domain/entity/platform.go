// Package entity contains the core business objects of the project.
package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Platform represents one notification channel (APNS, APNS_SANDBOX, GCM, ...)
// of one application. The platform tag refers to a payload strategy in the
// strategy registry; it is an open string, not a fixed enum.
type Platform struct {
	RemoteResource

	ID            uuid.UUID `json:"id"`             // The Global Unique Identifier (GUID) for the platform.
	ApplicationID uuid.UUID `json:"application_id"` // The ID of the owning application.
	AppName       string    `json:"app_name"`       // Denormalized owning application name.
	Platform      string    `json:"platform"`       // Platform tag, e.g. "APNS" or "GCM". Unique per application.
	Credential    string    `json:"-"`              // Opaque credential (private key / API key).
	Principal     string    `json:"-"`              // Opaque principal (certificate), where applicable.
	CreatedAt     time.Time `json:"created_at"`     // Timestamp of when this platform was created.
	UpdatedAt     time.Time `json:"updated_at"`     // Timestamp of the last modification.
}

// Name is the broker-side application name for this channel:
// lowercased "<application>_<platform>".
func (p *Platform) Name() string {
	return strings.ToLower(p.AppName + "_" + p.Platform)
}

// Attributes returns the credential attributes passed to the broker when the
// platform application is created.
func (p *Platform) Attributes() map[string]string {
	return map[string]string{
		"PlatformCredential": p.Credential,
		"PlatformPrincipal":  p.Principal,
	}
}

func (p *Platform) ResourceName() string { return "PlatformApplication" }
func (p *Platform) ResponseKey() string  { return createResponseKey(p.ResourceName()) }
func (p *Platform) ResultKey() string    { return createResultKey(p.ResourceName()) }
func (p *Platform) ARNKey() string       { return defaultARNKey(p.ResourceName()) }
