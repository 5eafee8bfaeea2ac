// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Device is one installed-app instance on one physical device, registered as
// an endpoint under its platform. (device_id, platform) is unique.
type Device struct {
	RemoteResource

	ID         uuid.UUID `json:"id"`          // The Global Unique Identifier (GUID) for the device.
	PlatformID uuid.UUID `json:"platform_id"` // The ID of the platform this device belongs to.
	DeviceID   string    `json:"device_id"`   // Caller-supplied device identifier (e.g. a UDID).
	PushToken  string    `json:"push_token"`  // Opaque push token issued by the OS push service.
	CreatedAt  time.Time `json:"created_at"`  // Timestamp of when this device was registered locally.
	UpdatedAt  time.Time `json:"updated_at"`  // Timestamp of the last modification.
}

func (d *Device) ResourceName() string { return "PlatformEndpoint" }
func (d *Device) ResponseKey() string  { return createResponseKey(d.ResourceName()) }
func (d *Device) ResultKey() string    { return createResultKey(d.ResourceName()) }

// ARNKey deviates from the default scheme: endpoint create responses carry
// "EndpointArn", not "PlatformEndpointArn".
func (d *Device) ARNKey() string { return "EndpointArn" }
