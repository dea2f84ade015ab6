// Package kv defines the key/value contract the engine persists through and
// an in-memory implementation of it. Durable backends live in the database,
// cache and storage packages.
package kv

import "context"

// Store is durable key/value storage. Get reports a missing key with
// ok == false and a nil error.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}
