// Package delivery defines the contract every transport entry point
// (HTTP server, one-shot workers) fulfills so main can start them uniformly.
package delivery

import "context"

// Delivery is a long-running transport that serves until the context ends
// or an unrecoverable error occurs.
type Delivery interface {
	Serve(ctx context.Context) error
}
