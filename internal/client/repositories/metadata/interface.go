// Package metadata is a small key/value repository over the client's local
// SQLite database. The credential store keeps the bearer token and user id
// here.
package metadata

import (
	"context"
)

// Repository persists opaque values by key. Get returns (nil, nil) for a
// missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
