// Package storage is the durable client-local persistence boundary. Each
// store serializes its state to JSON under a fixed key; order history is
// deliberately never persisted here, it is always re-fetched from the
// remote service.
package storage

import "context"

const (
	CartKey          = "cram-eats:cart"
	NotificationsKey = "cram-eats:notifications"
)

// Store persists opaque blobs under fixed keys. Implementations must be
// safe for concurrent use.
type Store interface {
	// Load returns the blob and true, or false when the key has never
	// been written.
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}
