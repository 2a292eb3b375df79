// Copyright (c) 2026 Djembe. All rights reserved.
// Author: contact@djembe.app

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/djembe-app/djembe/internal/platform/apperr"
	"github.com/djembe-app/djembe/internal/platform/constants"
	"github.com/djembe-app/djembe/internal/platform/sec"
	"github.com/djembe-app/djembe/internal/users/auth"
)

// newRedisStore spins up an in-process Redis and a store bound to it.
func newRedisStore(t *testing.T) (*auth.RedisStore[auth.Session], *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return auth.NewRedisStore[auth.Session](client, constants.SessionKeyPrefixAuth), server
}

func sampleSession(token string) *auth.Session {
	return &auth.Session{
		Token: token,
		Principal: sec.Principal{
			AccountID:   1,
			Email:       "admin@example.com",
			DisplayName: "Admin",
			Role:        "admin",
		},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

/*
TestRedisStore_RoundTrip verifies JSON persistence under the key prefix.
*/
func TestRedisStore_RoundTrip(t *testing.T) {
	store, server := newRedisStore(t)
	session := sampleSession("token-1")

	require.NoError(t, store.Set(context.Background(), "token-1", session, auth.SessionTTL))

	// The key carries the auth prefix.
	assert.True(t, server.Exists(constants.SessionKeyPrefixAuth+"token-1"))

	restored, err := store.Get(context.Background(), "token-1")
	require.NoError(t, err)
	assert.Equal(t, session.Principal, restored.Principal)
	assert.Equal(t, session.CreatedAt.Unix(), restored.CreatedAt.Unix())
}

/*
TestRedisStore_Expiry verifies server-side TTL enforcement.
*/
func TestRedisStore_Expiry(t *testing.T) {
	store, server := newRedisStore(t)

	require.NoError(t, store.Set(context.Background(), "token-2", sampleSession("token-2"), time.Minute))

	// Still alive just before the deadline.
	server.FastForward(59 * time.Second)
	_, err := store.Get(context.Background(), "token-2")
	require.NoError(t, err)

	// Gone right after.
	server.FastForward(2 * time.Second)
	_, err = store.Get(context.Background(), "token-2")
	require.Error(t, err)
	assert.Equal(t, 404, apperr.As(err).HTTPStatus)
}

/*
TestRedisStore_Remove verifies deletion and its idempotency.
*/
func TestRedisStore_Remove(t *testing.T) {
	store, _ := newRedisStore(t)

	require.NoError(t, store.Set(context.Background(), "token-3", sampleSession("token-3"), time.Minute))
	require.NoError(t, store.Remove(context.Background(), "token-3"))

	_, err := store.Get(context.Background(), "token-3")
	assert.Error(t, err)

	// Removing an absent token succeeds.
	assert.NoError(t, store.Remove(context.Background(), "token-3"))
}

/*
TestMemoryStore_MatchesRedisBehavior runs the same scenario against the
in-process store to keep both backends interchangeable.
*/
func TestMemoryStore_MatchesRedisBehavior(t *testing.T) {
	store := auth.NewMemoryStore[auth.Session]()
	session := sampleSession("token-4")

	require.NoError(t, store.Set(context.Background(), "token-4", session, time.Minute))

	restored, err := store.Get(context.Background(), "token-4")
	require.NoError(t, err)
	assert.Equal(t, session.Principal, restored.Principal)

	require.NoError(t, store.Remove(context.Background(), "token-4"))
	_, err = store.Get(context.Background(), "token-4")
	require.Error(t, err)
	assert.Equal(t, 404, apperr.As(err).HTTPStatus)
	assert.NoError(t, store.Remove(context.Background(), "token-4"))
}
