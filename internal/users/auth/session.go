// Copyright (c) 2026 Djembe. All rights reserved.
// Author: contact@djembe.app

package auth

import (
	"context"
	"time"

	"github.com/djembe-app/djembe/internal/platform/sec"
)

// # Session Entity

// Session is the persisted state behind an opaque bearer token.
//
// # Trust Model
//
// Restoring a session trusts this persisted snapshot as-is: the identity it
// carries was validated at login time and is not re-checked against the
// roster on every request. Admin updates that should be visible immediately
// rewrite the snapshot via [Service.RefreshAccount].
type Session struct {
	Token     string        `json:"token"`
	Principal sec.Principal `json:"principal"`
	CreatedAt time.Time     `json:"created_at"`
}

// PartnerSession is the onboarding state carried for members who arrive
// through a partner site hand-off.
//
// # Lifecycle
//
// It is created on the first verified hand-off with IsNewUser set, and the
// flag is cleared exactly once when the member completes onboarding.
type PartnerSession struct {
	Subject     string    `json:"subject"`
	Email       string    `json:"email,omitempty"`
	DisplayName string    `json:"display_name,omitempty"`
	IsNewUser   bool      `json:"is_new_user"`
	CreatedAt   time.Time `json:"created_at"`
}

// # Store Contract

// SessionStore is the persistence contract for token-keyed session state.
//
// # Generics
//
// Login sessions and partner sessions share the same storage shape (opaque
// key, JSON value, TTL) but carry different payloads. The type parameter
// keeps both on one codec without runtime type assertions.
//
// # Implementations
//
//   - [RedisStore]: Production storage with server-side TTL.
//   - [MemoryStore]: In-process storage for development and tests.
type SessionStore[T any] interface {
	// Get retrieves the value stored under token.
	// Returns apperr.NotFound when the token is absent or expired.
	Get(ctx context.Context, token string) (*T, error)

	// Set stores the value under token with the given TTL, overwriting any
	// previous value.
	Set(ctx context.Context, token string, value *T, ttl time.Duration) error

	// Remove deletes the value stored under token. Removing an absent token
	// is not an error.
	Remove(ctx context.Context, token string) error
}
