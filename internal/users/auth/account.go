// Copyright (c) 2026 Djembe. All rights reserved.
// Author: contact@djembe.app

package auth

import (
	"context"
	"time"

	"github.com/djembe-app/djembe/internal/access"
	"github.com/djembe-app/djembe/pkg/pagination"
)

// # Field Identifiers

// Canonical JSON field names used in validation error details.
const (
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldDisplayName = "display_name"
	FieldAvatarURL   = "avatar_url"
	FieldRole        = "role"
	FieldStatus      = "status"
	FieldToken       = "token"
)

// # Account Entity

// Account statuses. Status is informational: it does not block login.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Account represents a member of the dance group.
//
// # Identity
//
// IDs are small positive integers allocated sequentially (max existing ID
// plus one). The Handle is a URL-safe slug derived from the display name.
type Account struct {
	ID           int64       `json:"id"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	DisplayName  string      `json:"display_name"`
	Handle       string      `json:"handle"`
	AvatarURL    string      `json:"avatar_url,omitempty"`
	Role         access.Role `json:"role"`
	Status       string      `json:"status"`
	LastLoginAt  *time.Time  `json:"last_login_at,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

// IsActive reports whether the account is in the active status.
func (account *Account) IsActive() bool {
	return account.Status == StatusActive
}

// # Roster Contract

// Roster is the persistence contract for member accounts.
//
// # Implementations
//
//   - [MemoryRoster]: In-process seeded roster for development and tests.
//   - [PostgresRoster]: Durable storage, enabled when a database is configured.
type Roster interface {
	// FindByEmail retrieves an account by its unique email address.
	FindByEmail(ctx context.Context, email string) (*Account, error)

	// FindByID retrieves an account by its numeric identifier.
	FindByID(ctx context.Context, id int64) (*Account, error)

	// List returns a page of accounts ordered by ID, plus the total count.
	List(ctx context.Context, params pagination.Params) ([]*Account, int, error)

	// Create persists a new account. The implementation allocates the ID
	// (max existing ID plus one) and sets it on the passed entity.
	Create(ctx context.Context, account *Account) error

	// Update overwrites the mutable fields of an existing account.
	Update(ctx context.Context, account *Account) error

	// Delete removes an account permanently.
	Delete(ctx context.Context, id int64) error

	// SetLastLogin records a successful authentication timestamp.
	SetLastLogin(ctx context.Context, id int64, at time.Time) error
}
