// Copyright (c) 2026 Djembe. All rights reserved.
// Author: contact@djembe.app

/*
Package registration implements the public enrollment flow for the group.

A registration submission can never fail from the visitor's point of view:
the outcome envelope always reports acceptance, and delivery problems are
carried inside it (classified failure plus a pre-filled mailto fallback)
rather than surfaced as errors. Losing a prospective member to an email
outage is the one failure mode this flow is designed to rule out.

Architecture:

  - Service: Normalizes the submission and drives the notify dispatcher.
  - Handler: Public HTTP endpoint plus the delivery-config probe.
*/
package registration

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/djembe-app/djembe/internal/notify"
	"github.com/djembe-app/djembe/internal/platform/config"
)

// failureMessages are the French user-facing explanations per failure kind.
// The registration site is French-language throughout.
var failureMessages = map[notify.FailureKind]string{
	notify.FailureConfiguration: "Le service d'envoi d'emails est mal configuré.",
	notify.FailureAuthorization: "La clé du service d'envoi d'emails n'est pas autorisée.",
	notify.FailureTemplate:      "Le modèle d'email est introuvable.",
	notify.FailureUnavailable:   "Le service d'envoi d'emails est momentanément indisponible.",
}

// # Types

// Input is a validated registration submission.
type Input struct {
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	BirthDate    string
	Experience   string
	Availability []string
	Motivation   string
}

// Failure describes a delivery problem inside an accepted registration.
type Failure struct {
	Kind    notify.FailureKind `json:"kind"`
	Message string             `json:"message"`
}

// Terminal outcomes of an accepted submission. All three are successes from
// the visitor's point of view; they select which confirmation the UI shows.
const (
	OutcomeDelivered         = "delivered"
	OutcomeDeliveredDemo     = "delivered_demo"
	OutcomeDeliveredFallback = "delivered_fallback"
)

// Result is the always-success outcome envelope for a submission.
type Result struct {
	Reference string   `json:"reference"`
	Accepted  bool     `json:"accepted"`
	Outcome   string   `json:"outcome"`
	Delivered bool     `json:"delivered"`
	Demo      bool     `json:"demo"`
	Failure   *Failure `json:"failure,omitempty"`
	MailtoURL string   `json:"mailto_url,omitempty"`
}

// Service implements the registration use case.
type Service struct {
	dispatcher *notify.Dispatcher
	config     *config.Config
	logger     *slog.Logger
}

// NewService constructs a registration [Service].
func NewService(dispatcher *notify.Dispatcher, configuration *config.Config, logger *slog.Logger) *Service {
	return &Service{
		dispatcher: dispatcher,
		config:     configuration,
		logger:     logger,
	}
}

/*
Submit accepts a registration and attempts to deliver the notification.

Description: Always returns an accepted Result; it never returns an error.
Delivery failures (classified relay errors, panics, cancellations) degrade
to a Result carrying the failure explanation and a mailto fallback link.

Parameters:
  - context: context.Context
  - input: Input

Returns:
  - *Result: Outcome envelope with a unique reference
*/
func (service *Service) Submit(context context.Context, input Input) *Result {
	record := notify.Record{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		Phone:        input.Phone,
		BirthDate:    input.BirthDate,
		Experience:   input.Experience,
		Availability: input.Availability,
		Motivation:   input.Motivation,
		SubmittedAt:  time.Now(),
	}

	result := &Result{
		Reference: uuid.NewString(),
		Accepted:  true,
	}

	outcome, err := service.deliver(context, record)
	if err != nil {
		service.logger.Warn("registration_delivery_degraded",
			slog.String("reference", result.Reference),
			slog.Any("error", err),
		)

		result.Outcome = OutcomeDeliveredFallback
		result.Failure = classifyFailure(err)
		result.MailtoURL = notify.MailtoFallback(service.config.EmailRecipient, record)
		return result
	}

	result.Delivered = true
	result.Demo = outcome.Demo
	result.Outcome = OutcomeDelivered
	if outcome.Demo {
		result.Outcome = OutcomeDeliveredDemo
	}

	service.logger.Info("registration_accepted",
		slog.String("reference", result.Reference),
		slog.Bool("demo", outcome.Demo),
	)

	return result
}

// deliver invokes the dispatcher, converting panics into delivery failures
// so a relay bug can never break the acceptance guarantee.
func (service *Service) deliver(ctx context.Context, record notify.Record) (outcome *notify.Outcome, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			service.logger.Error("registration_delivery_panic", slog.Any("panic", recovered))
			outcome = nil
			err = &notify.DispatchError{Kind: notify.FailureUnavailable, Message: "delivery panicked"}
		}
	}()

	return service.dispatcher.Send(ctx, record)
}

// classifyFailure maps a delivery error to its user-facing failure payload.
func classifyFailure(err error) *Failure {
	kind := notify.FailureUnavailable

	var dispatchError *notify.DispatchError
	if errors.As(err, &dispatchError) {
		kind = dispatchError.Kind
	}

	return &Failure{
		Kind:    kind,
		Message: failureMessages[kind],
	}
}
