// Copyright (c) 2026 Djembe. All rights reserved.
// Author: contact@djembe.app

package auth

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/djembe-app/djembe/internal/access"
	"github.com/djembe-app/djembe/internal/platform/apperr"
	"github.com/djembe-app/djembe/internal/platform/sec"
	"github.com/djembe-app/djembe/pkg/pagination"
	"github.com/djembe-app/djembe/pkg/slug"
)

// MemoryRoster is an in-process [Roster] used when no database is configured.
//
// # Seeding
//
// It boots with one demo account per role so every permission path can be
// exercised immediately. The editor account is seeded inactive to expose the
// informational status in listings.
//
// # Concurrency
//
// All operations hold a mutex; returned entities are copies so callers can
// never mutate the roster through a shared pointer.
type MemoryRoster struct {
	mu       sync.RWMutex
	accounts map[int64]*Account
}

// seedAccount describes one demo member created at startup.
type seedAccount struct {
	email       string
	password    string
	displayName string
	avatarURL   string
	role        access.Role
	status      string
}

// demoSeed is the fixed demo roster. Plain-text passwords exist only here;
// they are hashed before storage.
var demoSeed = []seedAccount{
	{"admin@example.com", "admin123", "Admin User",
		"https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=100&h=100&fit=crop&crop=face",
		access.RoleAdmin, StatusActive},
	{"manager@example.com", "manager123", "Manager User",
		"https://images.unsplash.com/photo-1494790108755-2616b612b786?w=100&h=100&fit=crop&crop=face",
		access.RoleManager, StatusActive},
	{"user@example.com", "user123", "Regular User",
		"https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=100&h=100&fit=crop&crop=face",
		access.RoleUser, StatusActive},
	{"editor@example.com", "editor123", "Content Editor",
		"https://images.unsplash.com/photo-1438761681033-6461ffad8d80?w=100&h=100&fit=crop&crop=face",
		access.RoleEditor, StatusInactive},
}

// NewMemoryRoster constructs a roster pre-populated with the demo accounts.
func NewMemoryRoster() (*MemoryRoster, error) {
	roster := &MemoryRoster{
		accounts: make(map[int64]*Account, len(demoSeed)),
	}

	createdAt := time.Now().UTC()
	for index, seed := range demoSeed {
		hash, err := sec.HashPassword(seed.password)
		if err != nil {
			return nil, err
		}

		id := int64(index + 1)
		roster.accounts[id] = &Account{
			ID:           id,
			Email:        seed.email,
			PasswordHash: hash,
			DisplayName:  seed.displayName,
			Handle:       slug.From(seed.displayName),
			AvatarURL:    seed.avatarURL,
			Role:         seed.role,
			Status:       seed.status,
			CreatedAt:    createdAt,
		}
	}

	return roster, nil
}

// FindByEmail retrieves an account by exact email match.
func (roster *MemoryRoster) FindByEmail(_ context.Context, email string) (*Account, error) {
	roster.mu.RLock()
	defer roster.mu.RUnlock()

	for _, account := range roster.accounts {
		if account.Email == email {
			return copyAccount(account), nil
		}
	}

	return nil, apperr.NotFound("Account")
}

// FindByID retrieves an account by its numeric identifier.
func (roster *MemoryRoster) FindByID(_ context.Context, id int64) (*Account, error) {
	roster.mu.RLock()
	defer roster.mu.RUnlock()

	account, exists := roster.accounts[id]
	if !exists {
		return nil, apperr.NotFound("Account")
	}

	return copyAccount(account), nil
}

// List returns a page of accounts ordered by ascending ID.
func (roster *MemoryRoster) List(_ context.Context, params pagination.Params) ([]*Account, int, error) {
	roster.mu.RLock()
	defer roster.mu.RUnlock()

	ordered := make([]*Account, 0, len(roster.accounts))
	for _, account := range roster.accounts {
		ordered = append(ordered, account)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	total := len(ordered)

	// Apply the pagination window.
	start := params.Offset()
	if start > total {
		start = total
	}
	end := start + params.Limit
	if end > total {
		end = total
	}

	page := make([]*Account, 0, end-start)
	for _, account := range ordered[start:end] {
		page = append(page, copyAccount(account))
	}

	return page, total, nil
}

/*
Create persists a new account with a sequentially allocated ID.

Description: Allocates max(existing IDs) + 1 under the write lock so
concurrent creations can never collide. Rejects duplicate emails with a
client-safe Conflict.

Parameters:
  - _: context.Context (unused; the roster is in-process)
  - account: *Account

Returns:
  - error: Conflict on duplicate email
*/
func (roster *MemoryRoster) Create(_ context.Context, account *Account) error {
	roster.mu.Lock()
	defer roster.mu.Unlock()

	for _, existing := range roster.accounts {
		if existing.Email == account.Email {
			return apperr.Conflict("Email is already registered")
		}
	}

	// Sequential allocation: max existing ID plus one.
	var maxID int64
	for id := range roster.accounts {
		if id > maxID {
			maxID = id
		}
	}

	account.ID = maxID + 1
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}

	roster.accounts[account.ID] = copyAccount(account)
	return nil
}

// Update overwrites the mutable fields of an existing account.
func (roster *MemoryRoster) Update(_ context.Context, account *Account) error {
	roster.mu.Lock()
	defer roster.mu.Unlock()

	existing, exists := roster.accounts[account.ID]
	if !exists {
		return apperr.NotFound("Account")
	}

	// Reject email changes that would collide with another member.
	for id, other := range roster.accounts {
		if id != account.ID && other.Email == account.Email {
			return apperr.Conflict("Email is already registered")
		}
	}

	// Immutable fields are preserved from the stored entity.
	account.CreatedAt = existing.CreatedAt
	roster.accounts[account.ID] = copyAccount(account)
	return nil
}

// Delete removes an account permanently.
func (roster *MemoryRoster) Delete(_ context.Context, id int64) error {
	roster.mu.Lock()
	defer roster.mu.Unlock()

	if _, exists := roster.accounts[id]; !exists {
		return apperr.NotFound("Account")
	}

	delete(roster.accounts, id)
	return nil
}

// SetLastLogin records a successful authentication timestamp.
func (roster *MemoryRoster) SetLastLogin(_ context.Context, id int64, at time.Time) error {
	roster.mu.Lock()
	defer roster.mu.Unlock()

	account, exists := roster.accounts[id]
	if !exists {
		return apperr.NotFound("Account")
	}

	timestamp := at
	account.LastLoginAt = &timestamp
	return nil
}

// copyAccount returns a deep copy so callers never share roster pointers.
func copyAccount(account *Account) *Account {
	duplicate := *account
	if account.LastLoginAt != nil {
		lastLogin := *account.LastLoginAt
		duplicate.LastLoginAt = &lastLogin
	}
	return &duplicate
}
