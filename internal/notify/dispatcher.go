// Copyright (c) 2026 Djembe. All rights reserved.
// Author: contact@djembe.app

package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/djembe-app/djembe/internal/platform/config"
)

// sendPath is the EmailJS send endpoint, relative to the configured API base.
const sendPath = "/api/v1.0/email/send"

// maxErrorBodyBytes bounds how much of an error response is read for logging.
const maxErrorBodyBytes = 4 << 10

// # Failure Classification

// FailureKind classifies a delivery failure so the registration flow can
// surface an actionable message alongside the mailto fallback.
type FailureKind string

const (
	// FailureConfiguration: the relay rejected the request shape (HTTP 400),
	// which in practice means a bad service or template configuration.
	FailureConfiguration FailureKind = "configuration"

	// FailureAuthorization: the public key was rejected (HTTP 401/403).
	FailureAuthorization FailureKind = "authorization"

	// FailureTemplate: the template does not exist (HTTP 404).
	FailureTemplate FailureKind = "template"

	// FailureUnavailable: network failure or an unexpected relay response.
	FailureUnavailable FailureKind = "unavailable"
)

// DispatchError is a classified delivery failure.
type DispatchError struct {
	Kind       FailureKind
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *DispatchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("notify: %s (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("notify: %s: %s", e.Kind, e.Message)
}

// classifyStatus maps a relay HTTP status to a [FailureKind].
func classifyStatus(statusCode int) FailureKind {
	switch statusCode {
	case http.StatusBadRequest:
		return FailureConfiguration
	case http.StatusUnauthorized, http.StatusForbidden:
		return FailureAuthorization
	case http.StatusNotFound:
		return FailureTemplate
	default:
		return FailureUnavailable
	}
}

// # Dispatcher

// Outcome describes a completed delivery attempt.
type Outcome struct {
	// Demo is true when no real send happened because the relay credentials
	// are still placeholders.
	Demo bool `json:"demo"`
}

// Dispatcher sends registration notifications through the EmailJS relay.
//
// # Demo Mode
//
// When any delivery credential still carries the placeholder sentinel, Send
// simulates a successful delivery after a configurable delay instead of
// calling the relay. This keeps the whole registration flow demonstrable on
// a fresh checkout with zero external accounts.
type Dispatcher struct {
	config     *config.Config
	httpClient *http.Client
	logger     *slog.Logger
}

// NewDispatcher constructs a [Dispatcher].
//
// A nil httpClient falls back to a client with a sane timeout.
func NewDispatcher(configuration *config.Config, httpClient *http.Client, logger *slog.Logger) *Dispatcher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	return &Dispatcher{
		config:     configuration,
		httpClient: httpClient,
		logger:     logger,
	}
}

// emailJSRequest is the wire format of the EmailJS send endpoint.
type emailJSRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	TemplateParams map[string]string `json:"template_params"`
}

/*
Send delivers a registration notification.

Description: In demo mode the call blocks for the configured delay (honoring
context cancellation) and reports success without touching the network.
Otherwise the record is projected onto the template variables and posted to
the relay; non-2xx responses come back as a classified [*DispatchError].

Parameters:
  - context: context.Context
  - record: Record

Returns:
  - *Outcome: Whether the delivery was real or simulated
  - error: *DispatchError on relay failures, context errors on cancellation
*/
func (dispatcher *Dispatcher) Send(context context.Context, record Record) (*Outcome, error) {
	if !dispatcher.config.IsEmailConfigured() {
		return dispatcher.sendDemo(context)
	}

	return dispatcher.sendLive(context, record)
}

// sendDemo simulates a delivery after the configured delay.
func (dispatcher *Dispatcher) sendDemo(ctx context.Context) (*Outcome, error) {
	dispatcher.logger.Info("notify_demo_mode",
		slog.Duration("delay", dispatcher.config.EmailDemoDelay),
	)

	timer := time.NewTimer(dispatcher.config.EmailDemoDelay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return &Outcome{Demo: true}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// sendLive posts the record to the EmailJS relay.
func (dispatcher *Dispatcher) sendLive(ctx context.Context, record Record) (*Outcome, error) {
	payload := emailJSRequest{
		ServiceID:      dispatcher.config.EmailServiceID,
		TemplateID:     dispatcher.config.EmailTemplateID,
		UserID:         dispatcher.config.EmailPublicKey,
		TemplateParams: record.templateParams(dispatcher.config.EmailRecipient),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("notify_encode_failed: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, dispatcher.config.EmailEndpoint+sendPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("notify_request_build_failed: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := dispatcher.httpClient.Do(request)
	if err != nil {
		// Context cancellation surfaces as-is so callers can distinguish
		// an aborted request from a broken relay.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &DispatchError{Kind: FailureUnavailable, Message: err.Error()}
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(response.Body, maxErrorBodyBytes))
		dispatchError := &DispatchError{
			Kind:       classifyStatus(response.StatusCode),
			StatusCode: response.StatusCode,
			Message:    string(detail),
		}

		dispatcher.logger.Error("notify_send_failed",
			slog.Int("status", response.StatusCode),
			slog.String("kind", string(dispatchError.Kind)),
		)

		return nil, dispatchError
	}

	dispatcher.logger.Info("notify_send_succeeded",
		slog.String("reply_to", record.Email),
	)

	return &Outcome{Demo: false}, nil
}
