// Package delivery defines the contract shared by all inbound transports.
package delivery

import "context"

// Delivery is a long-running inbound server (HTTP, worker, ...). Serve blocks
// until the server stops; shutdown is handled through the Fx lifecycle.
type Delivery interface {
	Serve(ctx context.Context) error
}
