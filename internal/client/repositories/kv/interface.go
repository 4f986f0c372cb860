// Package kv is the local key-value store adapter. Values are opaque bytes
// (the store package puts JSON documents in them) addressed by string keys.
//
// Two backends implement Repository: SQLiteRepository over a single kv table
// created by the embedded goose migrations, and BadgerRepository over an
// embedded Badger database.
package kv

import (
	"context"
)

// Repository is implemented by every key-value backend.
type Repository interface {
	// Get returns common.ErrorNotFound when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// SetMany writes all pairs atomically.
	SetMany(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
