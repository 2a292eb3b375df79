// Copyright (c) 2026 Djembe. All rights reserved.
// Author: contact@djembe.app

package registration_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/djembe-app/djembe/internal/notify"
	"github.com/djembe-app/djembe/internal/platform/config"
	"github.com/djembe-app/djembe/internal/registration"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(configuration *config.Config) *registration.Service {
	dispatcher := notify.NewDispatcher(configuration, &http.Client{Timeout: time.Second}, discardLogger())
	return registration.NewService(dispatcher, configuration, discardLogger())
}

func sampleInput() registration.Input {
	return registration.Input{
		FirstName:    "Awa",
		LastName:     "Diallo",
		Email:        "awa@example.com",
		Phone:        "06 12 34 56 78",
		Experience:   notify.ExperienceBeginner,
		Availability: []string{"Lundi", "Samedi"},
	}
}

/*
TestService_Submit_DemoMode verifies the accepted outcome when credentials
are placeholders: delivered, flagged as demo, unique reference.
*/
func TestService_Submit_DemoMode(t *testing.T) {
	service := newService(&config.Config{
		EmailServiceID:  "YOUR_REAL_SERVICE_ID",
		EmailTemplateID: "YOUR_REAL_TEMPLATE_ID",
		EmailPublicKey:  "YOUR_REAL_PUBLIC_KEY",
		EmailRecipient:  "inscriptions@djembe.app",
		EmailDemoDelay:  time.Millisecond,
	})

	first := service.Submit(context.Background(), sampleInput())
	second := service.Submit(context.Background(), sampleInput())

	assert.True(t, first.Accepted)
	assert.True(t, first.Delivered)
	assert.True(t, first.Demo)
	assert.Equal(t, registration.OutcomeDeliveredDemo, first.Outcome)
	assert.Nil(t, first.Failure)
	assert.Empty(t, first.MailtoURL)

	assert.NotEmpty(t, first.Reference)
	assert.NotEqual(t, first.Reference, second.Reference)
}

/*
TestService_Submit_Delivered verifies a real relay success.
*/
func TestService_Submit_Delivered(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	service := newService(&config.Config{
		EmailServiceID:  "service_abc",
		EmailTemplateID: "template_xyz",
		EmailPublicKey:  "pk_123456",
		EmailRecipient:  "inscriptions@djembe.app",
		EmailEndpoint:   server.URL,
	})

	result := service.Submit(context.Background(), sampleInput())

	assert.True(t, result.Accepted)
	assert.True(t, result.Delivered)
	assert.False(t, result.Demo)
	assert.Equal(t, registration.OutcomeDelivered, result.Outcome)
	assert.Nil(t, result.Failure)
}

/*
TestService_Submit_DegradesOnRelayFailure verifies the acceptance guarantee:
relay failures produce an accepted result carrying the classified failure
and a pre-filled mailto fallback.
*/
func TestService_Submit_DegradesOnRelayFailure(t *testing.T) {
	tests := []struct {
		name        string
		statusCode  int
		wantKind    notify.FailureKind
		wantMessage string
	}{
		{"bad_configuration", http.StatusBadRequest, notify.FailureConfiguration, "mal configuré"},
		{"rejected_key", http.StatusUnauthorized, notify.FailureAuthorization, "n'est pas autorisée"},
		{"missing_template", http.StatusNotFound, notify.FailureTemplate, "introuvable"},
		{"relay_down", http.StatusBadGateway, notify.FailureUnavailable, "indisponible"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				writer.WriteHeader(tt.statusCode)
			}))
			defer server.Close()

			service := newService(&config.Config{
				EmailServiceID:  "service_abc",
				EmailTemplateID: "template_xyz",
				EmailPublicKey:  "pk_123456",
				EmailRecipient:  "inscriptions@djembe.app",
				EmailEndpoint:   server.URL,
			})

			result := service.Submit(context.Background(), sampleInput())

			// Still accepted: the visitor never sees a failure.
			assert.True(t, result.Accepted)
			assert.False(t, result.Delivered)
			assert.Equal(t, registration.OutcomeDeliveredFallback, result.Outcome)

			require.NotNil(t, result.Failure)
			assert.Equal(t, tt.wantKind, result.Failure.Kind)
			assert.Contains(t, result.Failure.Message, tt.wantMessage)

			require.True(t, strings.HasPrefix(result.MailtoURL, "mailto:inscriptions@djembe.app?"))
			assert.Contains(t, result.MailtoURL, "Awa")
		})
	}
}

/*
TestService_Submit_UnreachableRelay verifies network failures degrade the
same way as relay errors.
*/
func TestService_Submit_UnreachableRelay(t *testing.T) {
	service := newService(&config.Config{
		EmailServiceID:  "service_abc",
		EmailTemplateID: "template_xyz",
		EmailPublicKey:  "pk_123456",
		EmailRecipient:  "inscriptions@djembe.app",
		EmailEndpoint:   "http://127.0.0.1:1",
	})

	result := service.Submit(context.Background(), sampleInput())

	assert.True(t, result.Accepted)
	assert.False(t, result.Delivered)
	require.NotNil(t, result.Failure)
	assert.Equal(t, notify.FailureUnavailable, result.Failure.Kind)
	assert.NotEmpty(t, result.MailtoURL)
}
