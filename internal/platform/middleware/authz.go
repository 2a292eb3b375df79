// Copyright (c) 2026 Djembe. All rights reserved.
// Author: contact@djembe.app

package middleware

import (
	"net/http"
	"strings"

	"github.com/djembe-app/djembe/internal/access"
	"github.com/djembe-app/djembe/internal/platform/apperr"
	"github.com/djembe-app/djembe/internal/platform/ctxutil"
	"github.com/djembe-app/djembe/internal/platform/respond"
	"github.com/djembe-app/djembe/internal/platform/sec"
)

// SessionResolver restores a session principal from an opaque bearer token.
//
// # Why an interface?
//
// Defining SessionResolver here decouples the middleware from the `auth`
// service implementation, allowing us to easily inject mocks during unit
// testing and avoiding an import cycle with the auth handler.
type SessionResolver interface {
	Resolve(request *http.Request, token string) (*sec.Principal, error)
}

// Authenticate restores the session identified by the Authorization header.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header.
//  2. If absent, request proceeds as anonymous.
//  3. If present, restore the persisted session via [SessionResolver].
//     Restoration trusts the persisted identity; credentials are not
//     re-validated against the roster.
//  4. A token that no longer resolves (expired, logged out) downgrades the
//     request to anonymous instead of failing it: gated routes still reject
//     via RequireAuth, while logout stays idempotent over dead sessions.
//  5. Inject [*sec.Principal] and the raw token into the request context.
func Authenticate(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get("Authorization")

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			// ── 3. Session Restoration ────────────────────────────────────────
			token := parts[1]
			principal, err := resolver.Resolve(request, token)
			if err != nil {
				// Dead session: continue as anonymous.
				next.ServeHTTP(writer, request)
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithPrincipal(request.Context(), principal)
			ctx = ctxutil.WithSessionToken(ctx, token)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		principal := ctxutil.GetPrincipal(request.Context())
		if principal == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequirePermission blocks requests whose session role is not granted the
// given permission.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. It automatically
// implies [RequireAuth] so you don't need to mount both.
//
// # Flow
//  1. Check if [*sec.Principal] exists in context (implies AuthN).
//  2. Look up the principal's role in the static grant table via
//     [access.HasPermission]. Unknown roles are denied (fail-closed).
//  3. If not granted, abort with HTTP 403 Forbidden.
func RequirePermission(permission access.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			principal := ctxutil.GetPrincipal(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if principal == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if !access.HasPermission(principal, permission) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
