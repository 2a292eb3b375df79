// Copyright (c) 2026 Djembe. All rights reserved.
// Author: contact@djembe.app

/*
Package auth implements the identity and session system for the dance group.

It handles credential verification, opaque bearer-token sessions with a
pluggable persistence shim (Redis in production, in-process memory in
development), and the partner hand-off flow for members arriving from an
affiliated site.

Architecture:

  - Service: Orchestrates login, logout, and session restoration.
  - Roster: Abstracted member storage (Postgres or seeded memory).
  - SessionStore: Token-keyed JSON persistence with TTL.

Authorization itself is not decided here: handlers and middleware consult the
static grant table in the access package using the role carried by the
restored session.
*/
package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/djembe-app/djembe/internal/access"
	"github.com/djembe-app/djembe/internal/platform/apperr"
	"github.com/djembe-app/djembe/internal/platform/sec"
)

// Service implements member authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to credential checks or
// session lifecycle must be reviewed before merging.
type Service struct {
	roster   Roster
	sessions SessionStore[Session]
}

// NewService constructs a new authentication [Service].
func NewService(roster Roster, sessions SessionStore[Session]) *Service {
	return &Service{
		roster:   roster,
		sessions: sessions,
	}
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult represents a successfully established session.
type LoginResult struct {
	Token       string
	Account     *Account
	Permissions []access.Permission
}

/*
Login validates member credentials and establishes a session.

Description: Looks the member up by email, performs a constant-time password
comparison, and persists a new session snapshot under a random opaque token.
Lookup failure and password mismatch share one generic error to prevent
account enumeration. Account status is informational and never blocks login.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginResult: Bearer token, account, and effective permissions
  - error: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginResult, error) {

	// Look up the member by exact email. Comparison is case-sensitive, matching
	// the login form contract.
	account, err := service.roster.FindByEmail(context, input.Email)

	// If (err != nil) the member does not exist. Generic message to prevent enumeration.
	if err != nil {
		return nil, apperr.Unauthorized("Invalid email or password")
	}

	// Verify password hash using constant-time comparison in bcrypt to prevent timing attacks.
	if !sec.CheckPasswordHash(input.Password, account.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid email or password")
	}

	// Generate the opaque session token.
	token, err := sec.GenerateSecureToken(SessionTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	// Persist the session snapshot under the token.
	session := &Session{
		Token:     token,
		Principal: principalOf(account),
		CreatedAt: time.Now().UTC(),
	}
	if err := service.sessions.Set(context, token, session, SessionTTL); err != nil {
		return nil, fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}

	// Record the login timestamp. Best effort: a failure here must not
	// break an otherwise successful login.
	now := time.Now().UTC()
	if err := service.roster.SetLastLogin(context, account.ID, now); err == nil {
		account.LastLoginAt = &now
	}

	return &LoginResult{
		Token:       token,
		Account:     account,
		Permissions: access.PermissionsFor(account.Role),
	}, nil
}

/*
Logout removes the session identified by token.

Description: Idempotent. Logging out an absent or already-expired session
succeeds silently.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - error: Storage failures only
*/
func (service *Service) Logout(context context.Context, token string) error {
	if token == "" {
		return nil
	}

	if err := service.sessions.Remove(context, token); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	return nil
}

// # Session Restoration

/*
Restore retrieves the persisted session for a bearer token.

Description: Restoration trusts the persisted identity snapshot: credentials
are not re-validated and the roster is not consulted. A stale snapshot is
corrected either by re-login or by an admin update flowing through
[Service.RefreshAccount].

Parameters:
  - context: context.Context
  - token: string

Returns:
  - *Session: The persisted session
  - error: Unauthorized when the token is absent or expired
*/
func (service *Service) Restore(context context.Context, token string) (*Session, error) {
	session, err := service.sessions.Get(context, token)
	if err != nil {
		if apperr.IsAppError(err) {
			return nil, apperr.Unauthorized("Invalid or expired session")
		}
		return nil, fmt.Errorf("auth_service_restore_failed: %w", err)
	}

	return session, nil
}

// Resolve restores the principal for a bearer token.
//
// It adapts [Service.Restore] to the middleware's resolver contract so the
// HTTP layer stays decoupled from this package's session types.
func (service *Service) Resolve(request *http.Request, token string) (*sec.Principal, error) {
	session, err := service.Restore(request.Context(), token)
	if err != nil {
		return nil, err
	}

	principal := session.Principal
	return &principal, nil
}

/*
RefreshAccount rewrites a session's identity snapshot in place.

Description: Called after an admin edits the account behind a live session so
the next restoration already sees the new identity. The session token and
creation timestamp are preserved; only the principal snapshot changes.

Parameters:
  - context: context.Context
  - token: string
  - account: *Account

Returns:
  - error: Unauthorized when the session is gone, or storage failures
*/
func (service *Service) RefreshAccount(context context.Context, token string, account *Account) error {
	session, err := service.Restore(context, token)
	if err != nil {
		return err
	}

	session.Principal = principalOf(account)
	if err := service.sessions.Set(context, token, session, SessionTTL); err != nil {
		return fmt.Errorf("auth_service_refresh_account_failed: %w", err)
	}

	return nil
}

// principalOf projects an account onto its session identity snapshot.
func principalOf(account *Account) sec.Principal {
	return sec.Principal{
		AccountID:   account.ID,
		Email:       account.Email,
		DisplayName: account.DisplayName,
		Role:        string(account.Role),
	}
}
