// Copyright (c) 2026 Djembe. All rights reserved.
// Author: contact@djembe.app

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/djembe-app/djembe/internal/access"
	"github.com/djembe-app/djembe/internal/platform/apperr"
	"github.com/djembe-app/djembe/internal/platform/ctxutil"
	"github.com/djembe-app/djembe/internal/platform/middleware"
	requestutil "github.com/djembe-app/djembe/internal/platform/request"
	"github.com/djembe-app/djembe/internal/platform/respond"
	"github.com/djembe-app/djembe/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// Session lifecycle (login, logout, restoration) plus the partner hand-off
// flow. Member administration lives in the admin package.
type Handler struct {
	authService    *Service
	partnerService *PartnerService
}

// NewHandler constructs a new [Handler] with its service dependencies.
func NewHandler(authService *Service, partnerService *PartnerService) *Handler {
	return &Handler{
		authService:    authService,
		partnerService: partnerService,
	}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /login            : Authenticates and returns a session token.
//   - POST /logout           : Removes the current session (idempotent).
//   - GET  /me               : Returns the restored session identity.
//   - GET  /permissions      : Returns the effective permission list.
//   - POST /partner/handoff  : Establishes a partner onboarding session.
//   - GET  /partner/session  : Returns the partner onboarding state.
//   - POST /partner/complete : Clears the partner new-member flag.
//   - POST /partner/logout   : Removes the partner session (idempotent).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/login", handler.login)
	router.Post("/logout", handler.logout)

	// Partner hand-off endpoints. Public: the partner token is the credential.
	router.Route("/partner", func(r chi.Router) {
		r.Post("/handoff", handler.partnerHandOff)
		r.Get("/session", handler.partnerSession)
		r.Post("/complete", handler.partnerComplete)
		r.Post("/logout", handler.partnerLogout)
	})

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/me", handler.me)
		r.Get("/permissions", handler.permissions)
	})

	return router
}

// # Request Payloads

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type partnerTokenRequest struct {
	Token string `json:"token"`
}

// # Response Payloads

type loginResponse struct {
	Token       string              `json:"token"`
	Account     *Account            `json:"account"`
	Permissions []access.Permission `json:"permissions"`
}

type identityResponse struct {
	AccountID   int64               `json:"account_id"`
	Email       string              `json:"email"`
	DisplayName string              `json:"display_name"`
	Role        string              `json:"role"`
	Permissions []access.Permission `json:"permissions"`
}

/*
Login authenticates a member and establishes a session.

POST /api/v1/auth/login

Description: Validates credentials and returns an opaque bearer token plus
the account and its effective permissions. Lookup failure and password
mismatch produce the same 401 to prevent account enumeration.

Request:
  - Body: loginRequest (Email, Password)

Response:
  - 200: loginResponse: Session token, account, permissions
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 401: ErrUnauthorized: Invalid email or password
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.Login(request.Context(), LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, loginResponse{
		Token:       result.Token,
		Account:     result.Account,
		Permissions: result.Permissions,
	})
}

/*
Logout removes the session presented in the Authorization header.

POST /api/v1/auth/logout

Description: Idempotent. Succeeds with 204 even when no session (or an
already-expired one) is presented, so clients can always clear local state.

Response:
  - 204: No content
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	token := ctxutil.GetSessionToken(request.Context())
	if token == "" {
		// The middleware only stores resolvable tokens in context; fall back
		// to the raw header so logout of a dead session still clears it.
		token = requestutil.BearerToken(request)
	}

	if err := handler.authService.Logout(request.Context(), token); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
Me returns the restored session identity.

GET /api/v1/auth/me

Description: Reflects the persisted session snapshot (not a live roster
read) together with the permission list derived from the snapshot's role.

Response:
  - 200: identityResponse
  - 401: ErrUnauthorized: No valid session
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, identityResponse{
		AccountID:   principal.AccountID,
		Email:       principal.Email,
		DisplayName: principal.DisplayName,
		Role:        principal.Role,
		Permissions: access.PermissionsFor(access.Role(principal.Role)),
	})
}

/*
Permissions returns the effective permission list for the current session.

GET /api/v1/auth/permissions

Description: Unknown roles yield an empty list (fail-closed), mirroring the
authorization middleware.

Response:
  - 200: []access.Permission
  - 401: ErrUnauthorized: No valid session
*/
func (handler *Handler) permissions(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, access.PermissionsFor(access.Role(principal.Role)))
}

// # Partner Hand-Off Endpoints

/*
PartnerHandOff establishes a partner onboarding session.

POST /api/v1/auth/partner/handoff

Request:
  - Body: partnerTokenRequest (Token)

Response:
  - 200: PartnerSession: Onboarding state (IsNewUser set on first arrival)
  - 400: ErrInvalidJSON: Bad input
  - 401: ErrUnauthorized: Invalid partner token
*/
func (handler *Handler) partnerHandOff(writer http.ResponseWriter, request *http.Request) {
	var input partnerTokenRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldToken, input.Token)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.partnerService.HandOff(request.Context(), input.Token)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, session)
}

/*
PartnerSession returns the stored onboarding state for a partner token.

GET /api/v1/auth/partner/session

Description: The partner token is presented as a bearer credential. Never
creates a session; unknown tokens yield 401.

Response:
  - 200: PartnerSession
  - 401: ErrUnauthorized: Invalid or unknown partner token
*/
func (handler *Handler) partnerSession(writer http.ResponseWriter, request *http.Request) {
	token := requestutil.BearerToken(request)
	if token == "" {
		respond.Error(writer, request, apperr.Unauthorized("Partner token required"))
		return
	}

	session, err := handler.partnerService.Inspect(request.Context(), token)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, session)
}

/*
PartnerComplete clears the new-member flag for a partner session.

POST /api/v1/auth/partner/complete

Request:
  - Body: partnerTokenRequest (Token)

Response:
  - 200: PartnerSession: Updated onboarding state
  - 400: ErrInvalidJSON: Bad input
  - 401: ErrUnauthorized: Invalid or unknown partner token
*/
func (handler *Handler) partnerComplete(writer http.ResponseWriter, request *http.Request) {
	var input partnerTokenRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldToken, input.Token)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.partnerService.CompleteOnboarding(request.Context(), input.Token)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, session)
}

/*
PartnerLogout removes the partner session for a token.

POST /api/v1/auth/partner/logout

Description: Idempotent with respect to the stored session; the token itself
must still verify.

Request:
  - Body: partnerTokenRequest (Token)

Response:
  - 204: No content
  - 400: ErrInvalidJSON: Bad input
  - 401: ErrUnauthorized: Invalid partner token
*/
func (handler *Handler) partnerLogout(writer http.ResponseWriter, request *http.Request) {
	var input partnerTokenRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldToken, input.Token)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.partnerService.Logout(request.Context(), input.Token); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
