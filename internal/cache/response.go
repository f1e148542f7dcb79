// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package cache provides the Valkey (Redis-compatible) response cache for
// list and lookup query results, with per-entry TTL and prefix-based
// invalidation. A pure in-memory implementation backs development and
// tests when Valkey is not available.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL is how long a cached query result stays fresh.
const DefaultTTL = 5 * time.Minute

// Connect creates a Valkey client and verifies the connection with a ping.
func Connect(host, port, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("valkey ping: %w", err)
	}

	slog.Info("valkey connected", "addr", fmt.Sprintf("%s:%s", host, port))
	return client, nil
}

// Response is a Valkey-backed response cache.
type Response struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResponse creates a response cache with the given default TTL.
func NewResponse(client *redis.Client, ttl time.Duration) *Response {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &Response{client: client, ttl: ttl}
}

// Get retrieves a cached value. Returns (nil, false) on miss or error;
// cache errors are logged, never surfaced.
func (c *Response) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("response cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("response cache hit", "key", key)
	return val, true
}

// Set stores a value under key with the default TTL.
func (c *Response) Set(ctx context.Context, key string, val []byte) {
	if err := c.client.Set(ctx, key, val, c.ttl).Err(); err != nil {
		slog.Warn("response cache set error", "key", key, "error", err)
	}
}

// Delete removes a single key.
func (c *Response) Delete(ctx context.Context, key string) {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		slog.Warn("response cache delete error", "key", key, "error", err)
	}
}

// ClearByPrefix removes every key under the given prefix by scanning in
// batches. Used by the invalidation coordinator on every mutation.
func (c *Response) ClearByPrefix(ctx context.Context, prefix string) error {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("response cache scan %q: %w", prefix, err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("response cache bulk delete %q: %w", prefix, err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("response cache prefix cleared", "prefix", prefix, "deleted", deleted)
	}
	return nil
}
