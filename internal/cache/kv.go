// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces catalog keys in a shared Valkey database.
const DefaultKeyPrefix = "discovery:"

// KV stores catalog records as plain Valkey strings. Keys never expire.
type KV struct {
	client *redis.Client
	prefix string
}

// NewKV creates a key/value adapter. An empty prefix uses DefaultKeyPrefix.
func NewKV(client *redis.Client, prefix string) *KV {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &KV{client: client, prefix: prefix}
}

// Get returns the stored value, or ok == false on a miss.
func (s *KV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("valkey get %s: %w", key, err)
	}
	slog.Debug("valkey kv hit", "key", key)
	return val, true, nil
}

// Set stores value under key with no expiry.
func (s *KV) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("valkey set %s: %w", key, err)
	}
	return nil
}

// Remove deletes key. Deleting a missing key is not an error.
func (s *KV) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("valkey del %s: %w", key, err)
	}
	return nil
}
