// Copyright (c) 2026 Djembe. All rights reserved.
// Author: contact@djembe.app

package ctxutil_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/djembe-app/djembe/internal/platform/ctxutil"
	"github.com/djembe-app/djembe/internal/platform/sec"
)

/*
TestContext_RequestID verifies that Request IDs can be injected and retrieved.
*/
func TestContext_RequestID(t *testing.T) {
	ctx := context.Background()
	requestID := "test-request-id"

	// 1. Initially should be empty
	assert.Empty(t, ctxutil.GetRequestID(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithRequestID(ctx, requestID)
	assert.Equal(t, requestID, ctxutil.GetRequestID(ctx))
}

/*
TestContext_Logger verifies that a custom logger can be stored in context.
*/
func TestContext_Logger(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// 1. Initially should return the default logger
	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithLogger(ctx, logger)
	assert.Equal(t, logger, ctxutil.GetLogger(ctx))
}

/*
TestContext_Principal verifies that the session principal can be stored in context.
*/
func TestContext_Principal(t *testing.T) {
	ctx := context.Background()
	principal := &sec.Principal{
		AccountID: 1,
		Email:     "admin@example.com",
		Role:      "admin",
	}

	// 1. Initially should be nil
	assert.Nil(t, ctxutil.GetPrincipal(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithPrincipal(ctx, principal)
	assert.Equal(t, principal, ctxutil.GetPrincipal(ctx))
}

/*
TestContext_SessionToken verifies that the raw bearer token round-trips.
*/
func TestContext_SessionToken(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, ctxutil.GetSessionToken(ctx))

	ctx = ctxutil.WithSessionToken(ctx, "opaque-token")
	assert.Equal(t, "opaque-token", ctxutil.GetSessionToken(ctx))
}
