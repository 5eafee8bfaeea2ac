// Package constants defines shared constant values used across layers.
package constants

// Pub/Sub provider names accepted in configuration.
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// Device operating system kinds reported by platform strategies.
const (
	OSKindIOS     = "ios"
	OSKindAndroid = "android"
)
