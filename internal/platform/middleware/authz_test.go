// Copyright (c) 2026 Djembe. All rights reserved.
// Author: contact@djembe.app

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/djembe-app/djembe/internal/access"
	"github.com/djembe-app/djembe/internal/platform/apperr"
	"github.com/djembe-app/djembe/internal/platform/ctxutil"
	"github.com/djembe-app/djembe/internal/platform/middleware"
	"github.com/djembe-app/djembe/internal/platform/sec"
)

// fakeResolver resolves a fixed token to a fixed principal.
type fakeResolver struct {
	token     string
	principal *sec.Principal
}

func (resolver *fakeResolver) Resolve(request *http.Request, token string) (*sec.Principal, error) {
	if token == resolver.token {
		principal := *resolver.principal
		return &principal, nil
	}
	return nil, apperr.Unauthorized("Invalid or expired session")
}

// echoPrincipal records what the downstream handler saw in context.
func echoPrincipal(saw **sec.Principal) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		*saw = ctxutil.GetPrincipal(request.Context())
		writer.WriteHeader(http.StatusOK)
	})
}

/*
TestAuthenticate covers anonymous pass-through, bearer parsing, and
principal injection.
*/
func TestAuthenticate(t *testing.T) {
	resolver := &fakeResolver{
		token:     "good-token",
		principal: &sec.Principal{AccountID: 1, Email: "admin@example.com", Role: "admin"},
	}

	tests := []struct {
		name          string
		header        string
		wantStatus    int
		wantPrincipal bool
	}{
		{"anonymous_passes_through", "", http.StatusOK, false},
		{"valid_bearer", "Bearer good-token", http.StatusOK, true},
		{"case_insensitive_scheme", "bearer good-token", http.StatusOK, true},
		{"dead_token_downgrades_to_anonymous", "Bearer bad-token", http.StatusOK, false},
		{"malformed_header", "good-token", http.StatusUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var saw *sec.Principal
			handler := middleware.Authenticate(resolver)(echoPrincipal(&saw))

			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}

			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			if tt.wantPrincipal {
				require.NotNil(t, saw)
				assert.Equal(t, int64(1), saw.AccountID)
			} else {
				assert.Nil(t, saw)
			}
		})
	}
}

/*
TestRequirePermission verifies the grant-table gate, including the
fail-closed behavior for unknown roles.
*/
func TestRequirePermission(t *testing.T) {
	tests := []struct {
		name       string
		principal  *sec.Principal
		permission access.Permission
		wantStatus int
	}{
		{"admin_manages_users", &sec.Principal{AccountID: 1, Role: "admin"}, access.PermissionManageUsers, http.StatusOK},
		{"manager_manages_users", &sec.Principal{AccountID: 2, Role: "manager"}, access.PermissionManageUsers, http.StatusOK},
		{"editor_cannot_manage_users", &sec.Principal{AccountID: 3, Role: "editor"}, access.PermissionManageUsers, http.StatusForbidden},
		{"user_cannot_delete", &sec.Principal{AccountID: 4, Role: "user"}, access.PermissionDelete, http.StatusForbidden},
		{"unknown_role_fails_closed", &sec.Principal{AccountID: 5, Role: "superuser"}, access.PermissionRead, http.StatusForbidden},
		{"anonymous_is_unauthorized", nil, access.PermissionRead, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := middleware.RequirePermission(tt.permission)(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				writer.WriteHeader(http.StatusOK)
			}))

			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.principal != nil {
				request = request.WithContext(ctxutil.WithPrincipal(request.Context(), tt.principal))
			}

			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
		})
	}
}

/*
TestRequireAuth checks the authenticated-only gate.
*/
func TestRequireAuth(t *testing.T) {
	handler := middleware.RequireAuth(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	}))

	// Without a principal.
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	// With a principal.
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request = request.WithContext(ctxutil.WithPrincipal(request.Context(), &sec.Principal{AccountID: 1, Role: "user"}))

	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)
}
