// Copyright (c) 2026 Djembe. All rights reserved.
// Author: contact@djembe.app

package admin_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/djembe-app/djembe/internal/access"
	"github.com/djembe-app/djembe/internal/platform/apperr"
	"github.com/djembe-app/djembe/internal/platform/sec"
	"github.com/djembe-app/djembe/internal/users/admin"
	"github.com/djembe-app/djembe/internal/users/auth"
	"github.com/djembe-app/djembe/pkg/pagination"
	"github.com/djembe-app/djembe/pkg/pointer"
)

// fixture wires an admin service against the demo roster with a real auth
// service handling sessions, plus a logged-in admin caller.
type fixture struct {
	adminService *admin.Service
	authService  *auth.Service
	caller       *sec.Principal
	callerToken  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	roster, err := auth.NewMemoryRoster()
	require.NoError(t, err)

	authService := auth.NewService(roster, auth.NewMemoryStore[auth.Session]())

	result, err := authService.Login(context.Background(), auth.LoginInput{
		Email:    "admin@example.com",
		Password: "admin123",
	})
	require.NoError(t, err)

	return &fixture{
		adminService: admin.NewService(roster, authService),
		authService:  authService,
		caller: &sec.Principal{
			AccountID:   result.Account.ID,
			Email:       result.Account.Email,
			DisplayName: result.Account.DisplayName,
			Role:        string(result.Account.Role),
		},
		callerToken: result.Token,
	}
}

/*
TestService_Create verifies sequential ID allocation, handle derivation, and
role validation.
*/
func TestService_Create(t *testing.T) {
	f := newFixture(t)

	account, err := f.adminService.Create(context.Background(), admin.CreateInput{
		Email:       "aissata@example.com",
		Password:    "secret123",
		DisplayName: "Aïssata Keïta",
		Role:        access.RoleEditor,
	})
	require.NoError(t, err)

	// Four seeded accounts exist; the new one takes slot five.
	assert.Equal(t, int64(5), account.ID)
	// Accents strip into the URL handle.
	assert.Equal(t, "aissata-keita", account.Handle)
	// Status defaults to active.
	assert.Equal(t, auth.StatusActive, account.Status)
	assert.NotEqual(t, "secret123", account.PasswordHash)
}

/*
TestService_Create_Rejections covers the unknown-role guard and duplicate
emails.
*/
func TestService_Create_Rejections(t *testing.T) {
	f := newFixture(t)

	_, err := f.adminService.Create(context.Background(), admin.CreateInput{
		Email:       "x@example.com",
		Password:    "secret123",
		DisplayName: "X",
		Role:        access.Role("superuser"),
	})
	require.Error(t, err)
	assert.Equal(t, 400, apperr.As(err).HTTPStatus)

	_, err = f.adminService.Create(context.Background(), admin.CreateInput{
		Email:       "admin@example.com",
		Password:    "secret123",
		DisplayName: "Clone",
		Role:        access.RoleUser,
	})
	require.Error(t, err)
	assert.Equal(t, 409, apperr.As(err).HTTPStatus)
}

/*
TestService_Update verifies partial updates and handle regeneration.
*/
func TestService_Update(t *testing.T) {
	f := newFixture(t)

	updated, err := f.adminService.Update(context.Background(), 3, admin.UpdateInput{
		DisplayName: pointer.To("Mariama Bâ"),
		Status:      pointer.To(auth.StatusInactive),
	}, f.caller, f.callerToken)
	require.NoError(t, err)

	assert.Equal(t, "Mariama Bâ", updated.DisplayName)
	assert.Equal(t, "mariama-ba", updated.Handle)
	assert.Equal(t, auth.StatusInactive, updated.Status)
	// Untouched fields survive.
	assert.Equal(t, "user@example.com", updated.Email)
	assert.Equal(t, access.RoleUser, updated.Role)
}

/*
TestService_Update_SelfRefreshesSession verifies that editing your own
account rewrites your live session snapshot.
*/
func TestService_Update_SelfRefreshesSession(t *testing.T) {
	f := newFixture(t)

	_, err := f.adminService.Update(context.Background(), f.caller.AccountID, admin.UpdateInput{
		DisplayName: pointer.To("Chef du Groupe"),
	}, f.caller, f.callerToken)
	require.NoError(t, err)

	session, err := f.authService.Restore(context.Background(), f.callerToken)
	require.NoError(t, err)
	assert.Equal(t, "Chef du Groupe", session.Principal.DisplayName)
}

/*
TestService_Update_OtherLeavesCallerSessionAlone verifies that editing a
different member does not touch the caller's session.
*/
func TestService_Update_OtherLeavesCallerSessionAlone(t *testing.T) {
	f := newFixture(t)

	_, err := f.adminService.Update(context.Background(), 2, admin.UpdateInput{
		DisplayName: pointer.To("Renamed Manager"),
	}, f.caller, f.callerToken)
	require.NoError(t, err)

	session, err := f.authService.Restore(context.Background(), f.callerToken)
	require.NoError(t, err)
	assert.Equal(t, "Admin User", session.Principal.DisplayName)
}

/*
TestService_Delete verifies removal, and that self-deletion terminates the
caller's session.
*/
func TestService_Delete(t *testing.T) {
	f := newFixture(t)

	// Deleting another member keeps the caller's session alive.
	require.NoError(t, f.adminService.Delete(context.Background(), 4, f.caller, f.callerToken))
	_, err := f.authService.Restore(context.Background(), f.callerToken)
	require.NoError(t, err)

	_, err = f.adminService.Get(context.Background(), 4)
	require.Error(t, err)
	assert.Equal(t, 404, apperr.As(err).HTTPStatus)

	// Self-deletion forces logout.
	require.NoError(t, f.adminService.Delete(context.Background(), f.caller.AccountID, f.caller, f.callerToken))
	_, err = f.authService.Restore(context.Background(), f.callerToken)
	assert.Error(t, err)
}

/*
TestService_List verifies pagination pass-through.
*/
func TestService_List(t *testing.T) {
	f := newFixture(t)

	accounts, total, err := f.adminService.List(context.Background(), pagination.Params{Page: 2, Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	require.Len(t, accounts, 1)
	assert.Equal(t, int64(4), accounts[0].ID)
}
