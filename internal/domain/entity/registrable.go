// Package entity contains the core business objects of the project.
package entity

// Registrable is implemented by every entity that mirrors a resource on the
// remote notification broker. The remote identifier (ARN) is nil until the
// entity has been registered; an empty string also counts as unregistered.
type Registrable interface {
	// ResourceName is the broker-side resource name, e.g. "PlatformApplication".
	ResourceName() string

	// ResponseKey, ResultKey and ARNKey describe the nested key path under
	// which the broker returns the newly assigned identifier in a create
	// response: ResponseKey -> ResultKey -> ARNKey.
	ResponseKey() string
	ResultKey() string
	ARNKey() string

	// IsRegistered reports whether the entity holds a remote identifier.
	IsRegistered() bool

	// RemoteARN returns the remote identifier, or "" when unregistered.
	RemoteARN() string

	SetRemoteARN(arn string)
	ClearRemoteARN()
}

// RemoteResource is the embeddable state shared by all registrable entities.
type RemoteResource struct {
	ARN *string `json:"arn"`
}

// IsRegistered reports whether the remote identifier is set and non-empty.
func (r *RemoteResource) IsRegistered() bool {
	return r.ARN != nil && *r.ARN != ""
}

// RemoteARN returns the remote identifier, or "" when unregistered.
func (r *RemoteResource) RemoteARN() string {
	if r.ARN == nil {
		return ""
	}

	return *r.ARN
}

// SetRemoteARN stores the remote identifier assigned by the broker.
func (r *RemoteResource) SetRemoteARN(arn string) {
	r.ARN = &arn
}

// ClearRemoteARN resets the entity to the unregistered state.
func (r *RemoteResource) ClearRemoteARN() {
	r.ARN = nil
}

// Default key-path derivations shared by entities that follow the
// Create{Resource}Response -> Create{Resource}Result -> {Resource}Arn scheme.
func createResponseKey(resource string) string { return "Create" + resource + "Response" }
func createResultKey(resource string) string   { return "Create" + resource + "Result" }
func defaultARNKey(resource string) string     { return resource + "Arn" }
