package store

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by KV.Get when the key is absent.
var ErrKeyNotFound = errors.New("key not found")

// KV is the byte-level durable storage port the history store persists
// through. Each call is atomic: a failed Set must leave the prior value
// intact for subsequent Gets.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
}
