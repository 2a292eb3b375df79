// Copyright (c) 2026 Djembe. All rights reserved.
// Author: contact@djembe.app

/*
Package admin implements member administration for the dance group.

It exposes the roster CRUD surface used by the management panel: listing
members, creating accounts, editing roles and profiles, and removing members.
All operations require the manage_users permission.

Architecture:

  - Service: Orchestrates roster mutations and session side effects.
  - Handler: Thin HTTP layer gated by the authorization middleware.

Session coupling is deliberate: when an administrator edits their own
account, their live session snapshot is refreshed in place; when they delete
their own account, their session is terminated.
*/
package admin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/djembe-app/djembe/internal/access"
	"github.com/djembe-app/djembe/internal/platform/apperr"
	"github.com/djembe-app/djembe/internal/platform/sec"
	"github.com/djembe-app/djembe/internal/users/auth"
	"github.com/djembe-app/djembe/pkg/pagination"
	"github.com/djembe-app/djembe/pkg/pointer"
	"github.com/djembe-app/djembe/pkg/slug"
)

// SessionRefresher is the slice of the auth service this package needs to
// keep live sessions coherent with roster mutations.
type SessionRefresher interface {
	// RefreshAccount rewrites a session's identity snapshot in place.
	RefreshAccount(ctx context.Context, token string, account *auth.Account) error

	// Logout removes the session identified by token.
	Logout(ctx context.Context, token string) error
}

// Service implements member administration use cases.
type Service struct {
	roster   auth.Roster
	sessions SessionRefresher
}

// NewService constructs a new administration [Service].
func NewService(roster auth.Roster, sessions SessionRefresher) *Service {
	return &Service{
		roster:   roster,
		sessions: sessions,
	}
}

// # List & Read

/*
List returns a page of member accounts ordered by ID.

Parameters:
  - context: context.Context
  - params: pagination.Params

Returns:
  - []*auth.Account: The requested page
  - int: Total number of accounts
  - error: Storage failures
*/
func (service *Service) List(context context.Context, params pagination.Params) ([]*auth.Account, int, error) {
	accounts, total, err := service.roster.List(context, params)
	if err != nil {
		return nil, 0, fmt.Errorf("admin_service_list_failed: %w", err)
	}

	return accounts, total, nil
}

// Get retrieves a single member account.
func (service *Service) Get(context context.Context, id int64) (*auth.Account, error) {
	return service.roster.FindByID(context, id)
}

// # Creation

// CreateInput holds the data required to enroll a new member.
type CreateInput struct {
	Email       string
	Password    string
	DisplayName string
	AvatarURL   string
	Role        access.Role
	Status      string
}

/*
Create enrolls a new member account.

Description: Hashes the password, derives the URL handle from the display
name, and persists the account. The storage layer allocates the next
sequential ID and rejects duplicate emails.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *auth.Account: Created account with its allocated ID
  - error: Conflict on duplicate email, or storage failures
*/
func (service *Service) Create(context context.Context, input CreateInput) (*auth.Account, error) {

	// Unknown roles never enter the roster; they would be locked out of
	// every permission check anyway.
	if !input.Role.IsKnown() {
		return nil, apperr.ValidationError("Unknown role")
	}

	hash, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("admin_service_hash_failed: %w", err)
	}

	status := input.Status
	if status == "" {
		status = auth.StatusActive
	}

	account := &auth.Account{
		Email:        strings.TrimSpace(input.Email),
		PasswordHash: hash,
		DisplayName:  strings.TrimSpace(input.DisplayName),
		Handle:       slug.From(input.DisplayName),
		AvatarURL:    input.AvatarURL,
		Role:         input.Role,
		Status:       status,
		CreatedAt:    time.Now().UTC(),
	}

	if err := service.roster.Create(context, account); err != nil {
		return nil, err
	}

	return account, nil
}

// # Update

// UpdateInput holds the optional field changes for an existing member.
// Nil pointers mean "leave unchanged".
type UpdateInput struct {
	Email       *string
	Password    *string
	DisplayName *string
	AvatarURL   *string
	Role        *access.Role
	Status      *string
}

/*
Update applies partial changes to an existing member account.

Description: Loads the account, applies the provided fields, and persists
the result. A display-name change regenerates the URL handle; a password
change re-hashes. When the caller edits their own account, their live
session snapshot is refreshed so the change is visible immediately.

Parameters:
  - context: context.Context
  - id: int64
  - input: UpdateInput
  - caller: *sec.Principal (the administrator performing the edit)
  - callerToken: string (the administrator's own session token)

Returns:
  - *auth.Account: Updated account
  - error: NotFound, Conflict, validation, or storage failures
*/
func (service *Service) Update(context context.Context, id int64, input UpdateInput, caller *sec.Principal, callerToken string) (*auth.Account, error) {
	account, err := service.roster.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if input.Role != nil && !input.Role.IsKnown() {
		return nil, apperr.ValidationError("Unknown role")
	}

	if input.Email != nil {
		account.Email = strings.TrimSpace(*input.Email)
	}
	if input.DisplayName != nil {
		account.DisplayName = strings.TrimSpace(*input.DisplayName)
		account.Handle = slug.From(account.DisplayName)
	}
	if input.AvatarURL != nil {
		account.AvatarURL = *input.AvatarURL
	}
	if input.Role != nil {
		account.Role = *input.Role
	}
	if input.Status != nil {
		account.Status = *input.Status
	}
	if password := pointer.Val(input.Password); password != "" {
		hash, err := sec.HashPassword(password)
		if err != nil {
			return nil, fmt.Errorf("admin_service_update_hash_failed: %w", err)
		}
		account.PasswordHash = hash
	}

	if err := service.roster.Update(context, account); err != nil {
		return nil, err
	}

	// Self-edit: refresh the caller's live session snapshot. Best effort;
	// the roster update already succeeded.
	if caller != nil && caller.AccountID == id && callerToken != "" {
		_ = service.sessions.RefreshAccount(context, callerToken, account)
	}

	return account, nil
}

// # Deletion

/*
Delete removes a member account permanently.

Description: When an administrator deletes their own account, their session
is terminated so the dead identity cannot keep acting.

Parameters:
  - context: context.Context
  - id: int64
  - caller: *sec.Principal (the administrator performing the deletion)
  - callerToken: string (the administrator's own session token)

Returns:
  - error: NotFound or storage failures
*/
func (service *Service) Delete(context context.Context, id int64, caller *sec.Principal, callerToken string) error {
	if err := service.roster.Delete(context, id); err != nil {
		return err
	}

	// Self-delete forces logout.
	if caller != nil && caller.AccountID == id && callerToken != "" {
		_ = service.sessions.Logout(context, callerToken)
	}

	return nil
}
