// Package storage defines the durable key-value port used to persist the
// profile and the transaction list, and its SQLite implementation.
package storage

import "context"

// Record keys. Values are serialized JSON text.
const (
	ProfileKey      = "lumina_profile"
	TransactionsKey = "lumina_transactions"
)

// Store is a durable string key-value store.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set creates or replaces the value for key.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Removing an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the underlying resources.
	Close() error
}
