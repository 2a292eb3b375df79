// Copyright (c) 2026 Djembe. All rights reserved.
// Author: contact@djembe.app

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/djembe-app/djembe/internal/platform/apperr"
)

// RedisStore implements [SessionStore] using Redis with JSON-encoded values.
//
// # Keying
//
// Keys are namespaced by prefix (e.g. "auth:session:") so login sessions and
// partner sessions never collide in a shared Redis instance. Expiry is
// enforced server-side via TTL, so a restart never resurrects dead sessions.
type RedisStore[T any] struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a Redis-backed session store with the given key prefix.
func NewRedisStore[T any](client *redis.Client, prefix string) *RedisStore[T] {
	return &RedisStore[T]{client: client, prefix: prefix}
}

/*
Get retrieves and decodes the value stored under token.

Description: Returns apperr.NotFound when the key is absent or its TTL has
elapsed. Decode failures are treated as internal errors because they indicate
a corrupted entry, not a client mistake.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - *T: Decoded session payload
  - error: apperr.NotFound or connectivity/decoding failures
*/
func (store *RedisStore[T]) Get(context context.Context, token string) (*T, error) {
	key := store.prefix + token

	payload, err := store.client.Get(context, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Session")
		}
		return nil, fmt.Errorf("redis_session_get_failed: %w", err)
	}

	value := new(T)
	if err := json.Unmarshal(payload, value); err != nil {
		return nil, fmt.Errorf("redis_session_decode_failed: %w", err)
	}

	return value, nil
}

/*
Set encodes and stores the value under token with the given TTL.

Parameters:
  - context: context.Context
  - token: string
  - value: *T
  - ttl: time.Duration

Returns:
  - error: Encoding or storage failures
*/
func (store *RedisStore[T]) Set(context context.Context, token string, value *T, ttl time.Duration) error {
	key := store.prefix + token

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("redis_session_encode_failed: %w", err)
	}

	if err := store.client.Set(context, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_session_set_failed: %w", err)
	}

	return nil
}

/*
Remove deletes the value stored under token.

Description: Deleting an absent token succeeds silently, which keeps logout
idempotent.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - error: Deletion failures
*/
func (store *RedisStore[T]) Remove(context context.Context, token string) error {
	key := store.prefix + token

	if err := store.client.Del(context, key).Err(); err != nil {
		return fmt.Errorf("redis_session_remove_failed: %w", err)
	}

	return nil
}
