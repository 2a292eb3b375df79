// Copyright (c) 2026 Djembe. All rights reserved.
// Author: contact@djembe.app

// Package sec provides cryptographic primitives and session identity types.
//
// # Architecture
//
// This package isolates security-sensitive code (hashing, token generation,
// partner token verification) from the domain logic. It acts as an
// Infrastructure service injected into the Application layer.
package sec

// Principal is the identity attached to an authenticated request.
//
// # Why a snapshot?
//
// The principal is rebuilt from the persisted session on every request, so
// route guards and permission checks never need a roster lookup. The roster
// remains the source of truth; the snapshot is refreshed whenever the
// underlying account is updated through the admin service.
type Principal struct {
	AccountID   int64  `json:"account_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}
