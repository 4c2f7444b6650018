// Package cache stores serialized listing pages for a fixed time.
package cache

import "context"

// Store is a key/value cache with a store-wide expiry.
type Store interface {
	// Get returns the value for key. A missing or expired key is reported as
	// found == false with a nil error.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	// Set stores value under key until the store's expiry elapses.
	Set(ctx context.Context, key string, value []byte) error
	// Ping reports whether the backing service is reachable.
	Ping(ctx context.Context) error
	Close() error
}
