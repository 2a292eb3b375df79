// Copyright (c) 2026 Djembe. All rights reserved.
// Author: contact@djembe.app

package registration

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/djembe-app/djembe/internal/notify"
	requestutil "github.com/djembe-app/djembe/internal/platform/request"
	"github.com/djembe-app/djembe/internal/platform/respond"
	"github.com/djembe-app/djembe/internal/platform/validate"
)

// Canonical JSON field names used in validation error details.
const (
	FieldFirstName         = "first_name"
	FieldLastName          = "last_name"
	FieldEmail             = "email"
	FieldPhone             = "phone"
	FieldBirthDate         = "birth_date"
	FieldExperience        = "experience"
	FieldAvailability      = "availability"
	FieldMotivation        = "motivation"
	FieldAcceptsConditions = "accepts_conditions"
)

// Input size bounds for free-text fields.
const (
	maxNameLength       = 100
	maxPhoneLength      = 30
	maxAvailabilityDays = 7
	maxMotivationLength = 2000
)

// Handler implements the public registration endpoints.
type Handler struct {
	registrationService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{registrationService: service}
}

// Routes returns a [chi.Router] for the public enrollment surface.
//
// # Endpoints
//   - POST /registrations         : Accepts a registration submission.
//   - GET  /notifications/config  : Reports delivery configuration state.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/registrations", handler.submit)
	router.Get("/notifications/config", handler.notificationConfig)

	return router
}

// # Request Payloads

type submitRequest struct {
	FirstName         string   `json:"first_name"`
	LastName          string   `json:"last_name"`
	Email             string   `json:"email"`
	Phone             string   `json:"phone"`
	BirthDate         string   `json:"birth_date"`
	Experience        string   `json:"experience"`
	Availability      []string `json:"availability"`
	Motivation        string   `json:"motivation"`
	AcceptsConditions bool     `json:"accepts_conditions"`
}

/*
Submit accepts a registration submission.

POST /api/v1/registrations

Description: Input validation is the only rejection path. Once validated,
the submission is always accepted; delivery problems ride inside the 202
envelope together with a mailto fallback.

Request:
  - Body: submitRequest (FirstName, LastName, Email, Phone and the
    conditions flag required, matching the public form)

Response:
  - 202: Result: Outcome envelope with reference and delivery state
  - 400: ErrInvalidJSON: Bad input or validation failure
*/
func (handler *Handler) submit(writer http.ResponseWriter, request *http.Request) {
	var input submitRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldFirstName, input.FirstName).
		MaxLen(FieldFirstName, input.FirstName, maxNameLength).
		Required(FieldLastName, input.LastName).
		MaxLen(FieldLastName, input.LastName, maxNameLength).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPhone, input.Phone).
		MaxLen(FieldPhone, input.Phone, maxPhoneLength).
		MaxLen(FieldMotivation, input.Motivation, maxMotivationLength).
		Custom(FieldAvailability, len(input.Availability) > maxAvailabilityDays, "Must not list more than 7 days").
		Custom(FieldAcceptsConditions, !input.AcceptsConditions, "Conditions must be accepted")

	if input.Experience != "" {
		validator.OneOf(FieldExperience, input.Experience,
			notify.ExperienceBeginner,
			notify.ExperienceAmateur,
			notify.ExperienceIntermediate,
			notify.ExperienceAdvanced,
		)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result := handler.registrationService.Submit(request.Context(), Input{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		Phone:        input.Phone,
		BirthDate:    input.BirthDate,
		Experience:   input.Experience,
		Availability: input.Availability,
		Motivation:   input.Motivation,
	})

	respond.JSON(writer, http.StatusAccepted, respond.SuccessEnvelope{Data: result})
}

// # Delivery Configuration Probe

type notificationConfigResponse struct {
	Configured bool   `json:"configured"`
	DemoMode   bool   `json:"demo_mode"`
	Recipient  string `json:"recipient"`
	ServiceID  string `json:"service_id"`
	TemplateID string `json:"template_id"`
	PublicKey  string `json:"public_key"`
}

/*
NotificationConfig reports the delivery configuration state.

GET /api/v1/notifications/config

Description: Lets the client decide whether to show the demo-mode banner.
Credentials are masked; only enough is exposed to recognize which
configuration is active.

Response:
  - 200: notificationConfigResponse
*/
func (handler *Handler) notificationConfig(writer http.ResponseWriter, request *http.Request) {
	configuration := handler.registrationService.config
	configured := configuration.IsEmailConfigured()

	respond.OK(writer, notificationConfigResponse{
		Configured: configured,
		DemoMode:   !configured,
		Recipient:  configuration.EmailRecipient,
		ServiceID:  maskCredential(configuration.EmailServiceID),
		TemplateID: maskCredential(configuration.EmailTemplateID),
		PublicKey:  maskCredential(configuration.EmailPublicKey),
	})
}

// maskCredential keeps a short recognizable prefix and hides the rest.
func maskCredential(value string) string {
	const visible = 4
	if len(value) <= visible {
		return "****"
	}
	return value[:visible] + "****"
}
