// Copyright (c) 2026 Djembe. All rights reserved.
// Author: contact@djembe.app

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/djembe-app/djembe/internal/platform/apperr"
	"github.com/djembe-app/djembe/internal/users/auth"
)

const partnerSecret = "partner-test-secret"

// mintPartnerToken signs an HS256 token the way the partner platform does.
func mintPartnerToken(t *testing.T, secret, subject string, expiresIn time.Duration) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub":   subject,
		"email": subject + "@partner.example",
		"name":  "Partner Member",
		"exp":   time.Now().Add(expiresIn).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newPartnerService(secret string) *auth.PartnerService {
	return auth.NewPartnerService(auth.NewMemoryStore[auth.PartnerSession](), secret)
}

/*
TestPartnerService_HandOff verifies first-arrival session creation and that
repeat hand-offs preserve the stored state.
*/
func TestPartnerService_HandOff(t *testing.T) {
	service := newPartnerService(partnerSecret)
	token := mintPartnerToken(t, partnerSecret, "member-42", time.Hour)

	session, err := service.HandOff(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, session.IsNewUser)
	assert.Equal(t, "member-42", session.Subject)
	assert.Equal(t, "member-42@partner.example", session.Email)
	assert.Equal(t, "Partner Member", session.DisplayName)

	// A fresh token for the same subject maps to the same session.
	again, err := service.HandOff(context.Background(), mintPartnerToken(t, partnerSecret, "member-42", time.Hour))
	require.NoError(t, err)
	assert.True(t, again.IsNewUser)
	assert.Equal(t, session.CreatedAt.Unix(), again.CreatedAt.Unix())
}

/*
TestPartnerService_HandOff_InvalidToken covers signature and expiry
rejections when a secret is configured.
*/
func TestPartnerService_HandOff_InvalidToken(t *testing.T) {
	service := newPartnerService(partnerSecret)

	tests := []struct {
		name  string
		token string
	}{
		{"wrong_secret", mintPartnerToken(t, "other-secret", "member-1", time.Hour)},
		{"expired", mintPartnerToken(t, partnerSecret, "member-1", -time.Hour)},
		{"garbage", "not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.HandOff(context.Background(), tt.token)
			require.Error(t, err)
			assert.Equal(t, 401, apperr.As(err).HTTPStatus)
		})
	}
}

/*
TestPartnerService_TrustMode verifies that an empty secret decodes claims
without verifying the signature.
*/
func TestPartnerService_TrustMode(t *testing.T) {
	service := newPartnerService("")

	// Signed with a secret the service does not know; trusted anyway.
	token := mintPartnerToken(t, "whatever", "member-7", time.Hour)

	session, err := service.HandOff(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, session.IsNewUser)
	assert.Equal(t, "member-7", session.Subject)

	// Malformed tokens are still rejected.
	_, err = service.HandOff(context.Background(), "garbage")
	assert.Error(t, err)
}

/*
TestPartnerService_CompleteOnboarding verifies the flag clears exactly once
and never flips back.
*/
func TestPartnerService_CompleteOnboarding(t *testing.T) {
	service := newPartnerService(partnerSecret)
	token := mintPartnerToken(t, partnerSecret, "member-9", time.Hour)

	_, err := service.HandOff(context.Background(), token)
	require.NoError(t, err)

	session, err := service.CompleteOnboarding(context.Background(), token)
	require.NoError(t, err)
	assert.False(t, session.IsNewUser)

	// Completing again is a no-op.
	session, err = service.CompleteOnboarding(context.Background(), token)
	require.NoError(t, err)
	assert.False(t, session.IsNewUser)

	// A later hand-off still sees the completed state.
	session, err = service.HandOff(context.Background(), mintPartnerToken(t, partnerSecret, "member-9", time.Hour))
	require.NoError(t, err)
	assert.False(t, session.IsNewUser)
}

/*
TestPartnerService_Inspect verifies the read-only probe never creates state.
*/
func TestPartnerService_Inspect(t *testing.T) {
	service := newPartnerService(partnerSecret)
	token := mintPartnerToken(t, partnerSecret, "member-11", time.Hour)

	// Before hand-off: no session.
	_, err := service.Inspect(context.Background(), token)
	require.Error(t, err)
	assert.Equal(t, 401, apperr.As(err).HTTPStatus)

	_, err = service.HandOff(context.Background(), token)
	require.NoError(t, err)

	session, err := service.Inspect(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, session.IsNewUser)
}

/*
TestPartnerService_Logout verifies session removal and that a later
hand-off starts over as a new arrival.
*/
func TestPartnerService_Logout(t *testing.T) {
	service := newPartnerService(partnerSecret)
	token := mintPartnerToken(t, partnerSecret, "member-21", time.Hour)

	_, err := service.HandOff(context.Background(), token)
	require.NoError(t, err)
	_, err = service.CompleteOnboarding(context.Background(), token)
	require.NoError(t, err)

	require.NoError(t, service.Logout(context.Background(), token))
	// Idempotent.
	require.NoError(t, service.Logout(context.Background(), token))

	// A fresh hand-off is a brand new arrival again.
	session, err := service.HandOff(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, session.IsNewUser)
}

/*
TestPartnerService_CompleteWithoutHandOff checks that completion requires an
established session.
*/
func TestPartnerService_CompleteWithoutHandOff(t *testing.T) {
	service := newPartnerService(partnerSecret)
	token := mintPartnerToken(t, partnerSecret, "member-13", time.Hour)

	_, err := service.CompleteOnboarding(context.Background(), token)
	require.Error(t, err)
	assert.Equal(t, 401, apperr.As(err).HTTPStatus)
}
