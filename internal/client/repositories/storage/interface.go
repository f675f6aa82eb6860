// Package storage is the client's persisted key/value store, the local
// equivalent of browser storage. Values are opaque byte blobs.
package storage

import "context"

// Repository reads and writes blobs by key.
//
// Get returns (nil, nil) when the key is absent.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
