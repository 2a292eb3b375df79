// Copyright (c) 2026 Djembe. All rights reserved.
// Author: contact@djembe.app

package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/djembe-app/djembe/internal/platform/apperr"
)

// MemoryStore implements [SessionStore] in-process for development and tests.
//
// # Fidelity
//
// Values round-trip through JSON exactly like [RedisStore] so both backends
// expose identical serialization behavior, and expiry is checked lazily on
// read so TTL semantics match as well.
type MemoryStore[T any] struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// memoryEntry is a stored JSON payload plus its expiry deadline.
type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// NewMemoryStore creates an empty in-process session store.
func NewMemoryStore[T any]() *MemoryStore[T] {
	return &MemoryStore[T]{entries: make(map[string]memoryEntry)}
}

// Get retrieves and decodes the value stored under token.
// Returns apperr.NotFound when the token is absent or expired.
func (store *MemoryStore[T]) Get(_ context.Context, token string) (*T, error) {
	store.mu.RLock()
	entry, exists := store.entries[token]
	store.mu.RUnlock()

	if !exists {
		return nil, apperr.NotFound("Session")
	}

	// Lazy expiry: drop the entry on first read past its deadline.
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		store.mu.Lock()
		delete(store.entries, token)
		store.mu.Unlock()
		return nil, apperr.NotFound("Session")
	}

	value := new(T)
	if err := json.Unmarshal(entry.payload, value); err != nil {
		return nil, fmt.Errorf("memory_session_decode_failed: %w", err)
	}

	return value, nil
}

// Set encodes and stores the value under token with the given TTL.
func (store *MemoryStore[T]) Set(_ context.Context, token string, value *T, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("memory_session_encode_failed: %w", err)
	}

	entry := memoryEntry{payload: payload}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}

	store.mu.Lock()
	store.entries[token] = entry
	store.mu.Unlock()

	return nil
}

// Remove deletes the value stored under token. Absent tokens succeed silently.
func (store *MemoryStore[T]) Remove(_ context.Context, token string) error {
	store.mu.Lock()
	delete(store.entries, token)
	store.mu.Unlock()
	return nil
}
