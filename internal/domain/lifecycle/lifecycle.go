// Package lifecycle holds shared timeouts for component startup and shutdown.
package lifecycle

import "time"

// DefaultTimeout bounds lifecycle hooks such as server shutdown and
// database connection checks.
const DefaultTimeout = 10 * time.Second
