// Copyright (c) 2026 Djembe. All rights reserved.
// Author: contact@djembe.app

package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/djembe-app/djembe/internal/platform/apperr"
	"github.com/djembe-app/djembe/internal/platform/sec"
)

// PartnerService manages onboarding sessions for members arriving from an
// affiliated partner site.
//
// # Flow
//
//  1. The partner site redirects the member with a signed token.
//  2. HandOff verifies the token and creates a [PartnerSession] with the
//     new-member flag set (first arrival only).
//  3. The client drives the onboarding UI off that flag.
//  4. CompleteOnboarding clears the flag exactly once.
type PartnerService struct {
	sessions SessionStore[PartnerSession]
	secret   string
}

// NewPartnerService constructs a [PartnerService].
//
// An empty secret enables unverified trust mode; see [sec.VerifyPartnerToken].
func NewPartnerService(sessions SessionStore[PartnerSession], secret string) *PartnerService {
	return &PartnerService{
		sessions: sessions,
		secret:   secret,
	}
}

/*
HandOff accepts a partner token and establishes (or restores) its session.

Description: Verifies the token, then looks up the existing session for its
subject. First arrival creates the session with IsNewUser set; subsequent
hand-offs with the same subject return the stored state unchanged, so the
new-member flag survives page reloads until onboarding completes.

Parameters:
  - context: context.Context
  - rawToken: string

Returns:
  - *PartnerSession: Current onboarding state
  - error: Unauthorized on invalid tokens, or storage failures
*/
func (service *PartnerService) HandOff(context context.Context, rawToken string) (*PartnerSession, error) {
	claims, err := sec.VerifyPartnerToken(rawToken, service.secret)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid partner token")
	}

	key := partnerSessionKey(claims, rawToken)

	// Returning visitor: the stored state wins.
	if session, err := service.sessions.Get(context, key); err == nil {
		return session, nil
	}

	session := &PartnerSession{
		Subject:     claims.Subject,
		Email:       claims.Email,
		DisplayName: claims.Name,
		IsNewUser:   true,
		CreatedAt:   time.Now().UTC(),
	}

	if err := service.sessions.Set(context, key, session, PartnerSessionTTL); err != nil {
		return nil, fmt.Errorf("partner_service_handoff_failed: %w", err)
	}

	return session, nil
}

/*
Inspect returns the stored onboarding state for a partner token.

Description: Read-only variant of HandOff: it never creates a session, so a
token that has not been handed off yet yields Unauthorized.

Parameters:
  - context: context.Context
  - rawToken: string

Returns:
  - *PartnerSession: Current onboarding state
  - error: Unauthorized on invalid or unknown tokens
*/
func (service *PartnerService) Inspect(context context.Context, rawToken string) (*PartnerSession, error) {
	claims, err := sec.VerifyPartnerToken(rawToken, service.secret)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid partner token")
	}

	session, err := service.sessions.Get(context, partnerSessionKey(claims, rawToken))
	if err != nil {
		return nil, apperr.Unauthorized("No partner session")
	}

	return session, nil
}

/*
CompleteOnboarding clears the new-member flag for a partner session.

Description: Idempotent from the client's point of view: completing an
already-completed onboarding returns the session unchanged. The flag can
never flip back to true for the same subject.

Parameters:
  - context: context.Context
  - rawToken: string

Returns:
  - *PartnerSession: Updated onboarding state
  - error: Unauthorized on invalid or unknown tokens, or storage failures
*/
func (service *PartnerService) CompleteOnboarding(context context.Context, rawToken string) (*PartnerSession, error) {
	claims, err := sec.VerifyPartnerToken(rawToken, service.secret)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid partner token")
	}

	key := partnerSessionKey(claims, rawToken)
	session, err := service.sessions.Get(context, key)
	if err != nil {
		return nil, apperr.Unauthorized("No partner session")
	}

	if !session.IsNewUser {
		return session, nil
	}

	session.IsNewUser = false
	if err := service.sessions.Set(context, key, session, PartnerSessionTTL); err != nil {
		return nil, fmt.Errorf("partner_service_complete_failed: %w", err)
	}

	return session, nil
}

/*
Logout removes the partner session for a token.

Description: Idempotent. A later hand-off for the same subject starts a
fresh session with the new-member flag set again, matching a genuinely new
arrival.

Parameters:
  - context: context.Context
  - rawToken: string

Returns:
  - error: Unauthorized on invalid tokens, or storage failures
*/
func (service *PartnerService) Logout(context context.Context, rawToken string) error {
	claims, err := sec.VerifyPartnerToken(rawToken, service.secret)
	if err != nil {
		return apperr.Unauthorized("Invalid partner token")
	}

	if err := service.sessions.Remove(context, partnerSessionKey(claims, rawToken)); err != nil {
		return fmt.Errorf("partner_service_logout_failed: %w", err)
	}

	return nil
}

// partnerSessionKey derives the storage key for a verified token.
//
// The subject is preferred so re-issued tokens for the same partner user map
// to one session. Tokens without a subject fall back to a digest of the raw
// token (never the token itself, to keep keys bounded).
func partnerSessionKey(claims *sec.PartnerClaims, rawToken string) string {
	if claims.Subject != "" {
		return claims.Subject
	}

	digest := sha256.Sum256([]byte(rawToken))
	return hex.EncodeToString(digest[:])
}
