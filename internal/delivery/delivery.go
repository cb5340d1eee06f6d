// Package delivery defines the contract every transport surface implements,
// so the application can start them uniformly.
package delivery

import "context"

// Delivery is a serving surface (HTTP server, worker, ...). Serve blocks
// until the surface stops.
type Delivery interface {
	Serve(ctx context.Context) error
}
