// Copyright (c) 2026 Djembe. All rights reserved.
// Author: contact@djembe.app

package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/djembe-app/djembe/internal/access"
	"github.com/djembe-app/djembe/internal/platform/ctxutil"
	"github.com/djembe-app/djembe/internal/platform/middleware"
	requestutil "github.com/djembe-app/djembe/internal/platform/request"
	"github.com/djembe-app/djembe/internal/platform/respond"
	"github.com/djembe-app/djembe/internal/platform/validate"
	"github.com/djembe-app/djembe/internal/users/auth"
	"github.com/djembe-app/djembe/pkg/pagination"
)

// Handler implements the member administration HTTP endpoints.
type Handler struct {
	adminService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{adminService: service}
}

// Routes returns a [chi.Router] for the administration panel.
//
// # Authorization
//
// Every route requires the manage_users permission. The middleware denies
// unknown roles (fail-closed), so a corrupted session can never administer.
//
// # Endpoints
//   - GET    /users      : Lists member accounts (paginated).
//   - POST   /users      : Creates a new member account.
//   - GET    /users/{id} : Retrieves one member account.
//   - PATCH  /users/{id} : Applies partial changes to an account.
//   - DELETE /users/{id} : Removes an account.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequirePermission(access.PermissionManageUsers))

	router.Route("/users", func(r chi.Router) {
		r.Get("/", handler.list)
		r.Post("/", handler.create)
		r.Get("/{id}", handler.get)
		r.Patch("/{id}", handler.update)
		r.Delete("/{id}", handler.remove)
	})

	return router
}

// # Request Payloads

type createRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	Role        string `json:"role"`
	Status      string `json:"status"`
}

type updateRequest struct {
	Email       *string `json:"email"`
	Password    *string `json:"password"`
	DisplayName *string `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
	Role        *string `json:"role"`
	Status      *string `json:"status"`
}

/*
List returns a page of member accounts.

GET /api/v1/admin/users?page=1&limit=20

Response:
  - 200: []auth.Account with pagination metadata
  - 403: ErrForbidden: Missing manage_users permission
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	accounts, total, err := handler.adminService.List(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, accounts, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
Create enrolls a new member account.

POST /api/v1/admin/users

Request:
  - Body: createRequest (Email, Password, DisplayName, AvatarURL, Role, Status)

Response:
  - 201: auth.Account: Created account with its allocated ID
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Email already registered
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(auth.FieldEmail, input.Email).
		Email(auth.FieldEmail, input.Email).
		Required(auth.FieldPassword, input.Password).
		MinLen(auth.FieldPassword, input.Password, 6).
		Required(auth.FieldDisplayName, input.DisplayName).
		MaxLen(auth.FieldDisplayName, input.DisplayName, 100).
		Required(auth.FieldRole, input.Role)

	if input.Status != "" {
		validator.OneOf(auth.FieldStatus, input.Status, auth.StatusActive, auth.StatusInactive)
	}
	if input.AvatarURL != "" {
		validator.URL(auth.FieldAvatarURL, input.AvatarURL)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.adminService.Create(request.Context(), CreateInput{
		Email:       input.Email,
		Password:    input.Password,
		DisplayName: input.DisplayName,
		AvatarURL:   input.AvatarURL,
		Role:        access.Role(input.Role),
		Status:      input.Status,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, account)
}

/*
Get retrieves one member account.

GET /api/v1/admin/users/{id}

Response:
  - 200: auth.Account
  - 404: ErrNotFound: Unknown account ID
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.adminService.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, account)
}

/*
Update applies partial changes to a member account.

PATCH /api/v1/admin/users/{id}

Description: Only the provided fields change. When the caller edits their
own account, their live session reflects the change immediately.

Request:
  - Body: updateRequest (all fields optional)

Response:
  - 200: auth.Account: Updated account
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 404: ErrNotFound: Unknown account ID
  - 409: ErrConflict: Email already registered
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	if input.Email != nil {
		validator.Required(auth.FieldEmail, *input.Email).Email(auth.FieldEmail, *input.Email)
	}
	if input.Password != nil && *input.Password != "" {
		validator.MinLen(auth.FieldPassword, *input.Password, 6)
	}
	if input.DisplayName != nil {
		validator.Required(auth.FieldDisplayName, *input.DisplayName).
			MaxLen(auth.FieldDisplayName, *input.DisplayName, 100)
	}
	if input.Status != nil {
		validator.OneOf(auth.FieldStatus, *input.Status, auth.StatusActive, auth.StatusInactive)
	}
	if input.AvatarURL != nil && *input.AvatarURL != "" {
		validator.URL(auth.FieldAvatarURL, *input.AvatarURL)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updateInput := UpdateInput{
		Email:       input.Email,
		Password:    input.Password,
		DisplayName: input.DisplayName,
		AvatarURL:   input.AvatarURL,
		Status:      input.Status,
	}
	if input.Role != nil {
		role := access.Role(*input.Role)
		updateInput.Role = &role
	}

	caller := requestutil.Principal(request)
	callerToken := ctxutil.GetSessionToken(request.Context())

	account, err := handler.adminService.Update(request.Context(), id, updateInput, caller, callerToken)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, account)
}

/*
Remove deletes a member account.

DELETE /api/v1/admin/users/{id}

Description: Self-deletion is allowed and terminates the caller's session.

Response:
  - 204: No content
  - 404: ErrNotFound: Unknown account ID
*/
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	caller := requestutil.Principal(request)
	callerToken := ctxutil.GetSessionToken(request.Context())

	if err := handler.adminService.Delete(request.Context(), id, caller, callerToken); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
