// Package metadata is the durable key/value store backing client session
// state (tokens and push bookkeeping).
package metadata

import (
	"context"
)

// Repository persists small string values under string keys.
//
// Get returns common.ErrorNotFound when the key is absent.
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, keys ...string) error
}
