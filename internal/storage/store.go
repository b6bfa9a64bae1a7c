package storage

import (
	"context"
	"errors"
)

var (
	// ErrKeyNotFound is returned when the requested key has no stored value.
	ErrKeyNotFound = errors.New("key not found")
)

// Durable storage keys. These mirror the storefront's persisted entries: one
// for application state, one for the customer session, one for the admin
// session. All values are JSON-serialized objects.
const (
	KeyAppState        = "hungryDropState"
	KeyCustomerSession = "hungryDropUser"
	KeyAdminSession    = "hungryDropAdmin"
)

// Store is a durable key-value store for small JSON blobs. Readers must
// tolerate absence (ErrKeyNotFound) and treat corrupt values as absent.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
