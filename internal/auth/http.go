// Copyright (c) 2026 StaffHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth provides the HTTP delivery layer for user identity management.

It implements the gateway for the authentication lifecycle—from account creation
to session management and recovery.

# Architecture

The handler acts as a thin mediation layer between the web and domain services:
  - Protocol: Standard RESTful JSON interface.
  - Security: Handles JWT orchestration; refresh tokens travel in the JSON
    body so non-browser clients (mobile, scripts) work without cookie support.
  - Verification: Enforces strict input validation before passing to [Service].

This layer is strictly responsible for transport concerns (status codes, headers, JSON).
*/
package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/staffhub/internal/platform/apperr"
	"github.com/taibuivan/staffhub/internal/platform/constants"
	"github.com/taibuivan/staffhub/internal/platform/middleware"
	requestutil "github.com/taibuivan/staffhub/internal/platform/request"
	"github.com/taibuivan/staffhub/internal/platform/respond"
	"github.com/taibuivan/staffhub/internal/platform/sec"
	"github.com/taibuivan/staffhub/internal/platform/validate"
	"github.com/taibuivan/staffhub/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages everything related to the user lifecycle entry points
// (Registration, Login, Token Refresh, Password Recovery) plus the account
// administration surface mounted under /users.
type Handler struct {
	authService *Service
	oauth       *OAuthManager
}

// NewHandler constructs a new [Handler] with its service dependencies.
// oauth may be nil; the Google redirect endpoints are then not mounted.
func NewHandler(service *Service, oauth *OAuthManager) *Handler {
	return &Handler{authService: service, oauth: oauth}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register        : Creates a new account and opens a session.
//   - POST /login           : Authenticates and returns a token pair.
//   - POST /federated       : Signs in via a trusted external identity assertion.
//   - POST /refresh         : Exchanges a refresh token for a new access token.
//   - POST /logout          : Revokes a refresh token.
//   - POST /forgot-password : Starts the password reset flow.
//   - POST /reset-password  : Completes the password reset flow.
//   - GET  /google/url      : Google consent-screen redirect (when configured).
//   - GET  /google/callback : Google code exchange (when configured).
//   - GET  /me              : Current account profile (authenticated).
//   - POST /change-password : Self-service password change (authenticated).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/federated", handler.federatedLogin)
	router.Post("/refresh", handler.refresh)
	router.Post("/logout", handler.logout)
	router.Post("/forgot-password", handler.forgotPassword)
	router.Post("/reset-password", handler.resetPassword)

	if handler.oauth != nil {
		router.Get("/google/url", handler.googleURL)
		router.Get("/google/callback", handler.googleCallback)
	}

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/me", handler.me)
		r.Post("/change-password", handler.changePassword)
	})

	return router
}

// UserRoutes returns the account administration router.
//
// # Endpoints
//   - GET    /           : List accounts (manager tier and above).
//   - PATCH  /{id}/role  : Change an account's role (director only).
//   - DELETE /{id}       : Delete an account (director only).
func (handler *Handler) UserRoutes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleManager))
		r.Get("/", handler.listUsers)
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleDirector))
		r.Patch("/{id}/role", handler.updateUserRole)
		r.Delete("/{id}", handler.deleteUser)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	DisplayName string `json:"display_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type federatedLoginRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	ProviderID  string `json:"provider_id"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	Email       string `json:"email"`
	NewPassword string `json:"new_password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type updateRoleRequest struct {
	Role string `json:"role"`
}

// sessionPayload is the wire shape of a freshly opened session.
func sessionPayload(session *Session) map[string]any {
	return map[string]any{
		"access_token":  session.AccessToken,
		"refresh_token": session.RefreshToken,
		"token_type":    "Bearer",
		"expires_in":    int(constants.AccessTokenTTL / time.Second),
		"user":          session.User,
	}
}

/*
Register handles the creation of a new user account.

POST /api/v1/auth/register

Description: Validates input, checks for identity conflicts, persists a new
user profile, and opens an authenticated session.

Request:
  - Body: registerRequest (Email, Password, Role, DisplayName)

Response:
  - 201: Session: Token pair and created user profile
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Email already exists
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required("email", input.Email).
		Email("email", input.Email).
		Required("password", input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Register(request.Context(), RegisterInput{
		Email:         input.Email,
		Password:      input.Password,
		RequestedRole: input.Role,
		DisplayName:   input.DisplayName,
		UserAgent:     request.UserAgent(),
		IPAddress:     getClientIP(request),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, sessionPayload(session))
}

/*
Login authenticates a user and establishes a session.

POST /api/v1/auth/login

Description: Verifies credentials and returns a JWT access/refresh token pair.

Request:
  - Body: loginRequest (Email, Password)

Response:
  - 200: Session: Token pair and user profile
  - 401: ErrUnauthorized: Invalid credentials
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required("email", input.Email).
		Required("password", input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Email:     input.Email,
		Password:  input.Password,
		UserAgent: request.UserAgent(),
		IPAddress: getClientIP(request),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, sessionPayload(session))
}

/*
FederatedLogin signs a user in via a trusted external identity assertion.

POST /api/v1/auth/federated

Description: Accepts an already-verified identity (email, display name,
provider subject) from a trusted frontend exchange and opens a session,
enrolling the account on first sight.

Request:
  - Body: federatedLoginRequest (Email, DisplayName, ProviderID)

Response:
  - 200: Session: Token pair and user profile
  - 400: ErrInvalidJSON: Missing email
*/
func (handler *Handler) federatedLogin(writer http.ResponseWriter, request *http.Request) {
	var input federatedLoginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.FederatedLogin(request.Context(), FederatedLoginInput{
		Email:       input.Email,
		DisplayName: input.DisplayName,
		ProviderID:  input.ProviderID,
		UserAgent:   request.UserAgent(),
		IPAddress:   getClientIP(request),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, sessionPayload(session))
}

/*
Refresh issues a new access token using a valid refresh token.

POST /api/v1/auth/refresh

Description: Validates the refresh token against storage and signature, then
mints a new access token carrying the account's current role. The refresh
token itself is not rotated.

Request:
  - Body: refreshRequest (RefreshToken)

Response:
  - 200: RefreshResponse: New access token credentials
  - 401: ErrUnauthorized: Missing, revoked, expired, or invalid refresh token
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	var input refreshRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if input.RefreshToken == "" {
		respond.Error(writer, request, apperr.Unauthorized("Missing refresh token"))
		return
	}

	accessToken, err := handler.authService.Refresh(request.Context(), input.RefreshToken)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		"access_token": accessToken,
		"token_type":   "Bearer",
		"expires_in":   int(constants.AccessTokenTTL / time.Second),
	})
}

/*
Logout revokes the presented refresh token.

POST /api/v1/auth/logout

Description: Marks the refresh token revoked in storage. Idempotent: unknown
tokens are silently accepted. Deliberately public — the token itself is the
credential being surrendered, so no access token is required.

Response:
  - 204: No Content: Token revoked (or was already unusable)
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	var input refreshRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if input.RefreshToken != "" {
		if err := handler.authService.Logout(request.Context(), input.RefreshToken); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	respond.NoContent(writer)
}

/*
Me returns the authenticated caller's account profile.

GET /api/v1/auth/me

Response:
  - 200: User: Current account
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Me(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
ForgotPassword initiates the password recovery flow.

POST /api/v1/auth/forgot-password

Description: Issues a single-use reset token if the account exists. The
response is identical either way.

Request:
  - Body: forgotPasswordRequest (Email)

Response:
  - 200: Success: Generic security message
  - 400: ErrInvalidJSON: Invalid email format
*/
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	var input forgotPasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required("email", input.Email).Email("email", input.Email)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ForgotPassword(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		constants.FieldMessage: "If this email is registered, a reset link has been sent.",
	})
}

/*
ResetPassword completes the password recovery flow.

POST /api/v1/auth/reset-password

Description: Consumes a single-use reset token and updates the password,
revoking every open session of the account.

Request:
  - Body: resetPasswordRequest (Token, Email, NewPassword)

Response:
  - 200: Success: Password updated (or generic message on the legacy path)
  - 400: ErrInvalidJSON: Missing token or password
  - 401: ErrUnauthorized: Invalid or expired reset token
*/
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	var input resetPasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required("new_password", input.NewPassword)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err := handler.authService.ResetPassword(request.Context(), ResetPasswordInput{
		Token:       input.Token,
		Email:       input.Email,
		NewPassword: input.NewPassword,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		constants.FieldMessage: "Password updated successfully",
	})
}

/*
ChangePassword updates the authenticated user's password.

POST /api/v1/auth/change-password

Description: Verifies the current password before applying the new one.
A wrong current password is a soft outcome (200 with success=false), not
an HTTP error.

Request:
  - Body: changePasswordRequest (CurrentPassword, NewPassword)

Response:
  - 200: PasswordChangeResult: Outcome of the attempt
  - 401: ErrUnauthorized: Authentication required
  - 400: ErrInvalidJSON: Validation failure
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required("current_password", input.CurrentPassword).
		Required("new_password", input.NewPassword)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.ChangePassword(
		request.Context(),
		userID,
		input.CurrentPassword,
		input.NewPassword,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

// # Google Redirect Flow

/*
GoogleURL returns the Google consent-screen URL and a CSRF state token.

GET /api/v1/auth/google/url

Response:
  - 200: {url, state}
*/
func (handler *Handler) googleURL(writer http.ResponseWriter, request *http.Request) {
	state, err := handler.oauth.StateToken()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		"url":   handler.oauth.AuthURL(state),
		"state": state,
	})
}

/*
GoogleCallback redeems the authorization code and opens a session.

GET /api/v1/auth/google/callback?code=...

Response:
  - 200: Session: Token pair and user profile
  - 401: ErrUnauthorized: Code exchange failure
*/
func (handler *Handler) googleCallback(writer http.ResponseWriter, request *http.Request) {
	code := request.URL.Query().Get("code")
	if code == "" {
		respond.Error(writer, request, apperr.Unauthorized("Missing authorization code"))
		return
	}

	identity, err := handler.oauth.Exchange(request.Context(), code)
	if err != nil {
		respond.Error(writer, request, apperr.Unauthorized("Authorization code exchange failed"))
		return
	}

	session, err := handler.authService.FederatedLogin(request.Context(), FederatedLoginInput{
		Email:       identity.Email,
		DisplayName: identity.Name,
		ProviderID:  identity.ID,
		UserAgent:   request.UserAgent(),
		IPAddress:   getClientIP(request),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, sessionPayload(session))
}

// # Account Administration

/*
ListUsers returns a page of accounts.

GET /api/v1/users?page=1&limit=20

Response:
  - 200: Paginated list of accounts
  - 403: ErrForbidden: Manager tier required
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	users, total, err := handler.authService.ListUsers(request.Context(), params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
UpdateUserRole changes an account's role tier.

PATCH /api/v1/users/{id}/role

Request:
  - Body: updateRoleRequest (Role)

Response:
  - 200: User: Updated account
  - 400: ErrInvalidJSON: Unknown role value
  - 403: ErrForbidden: Director tier required
  - 404: ErrNotFound: Unknown account
*/
func (handler *Handler) updateUserRole(writer http.ResponseWriter, request *http.Request) {
	actorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	userID, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRoleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.UpdateUserRole(request.Context(), actorID, userID, input.Role)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
DeleteUser removes an account.

DELETE /api/v1/users/{id}

Response:
  - 204: No Content: Account deleted
  - 403: ErrForbidden: Director tier required
  - 404: ErrNotFound: Unknown account
*/
func (handler *Handler) deleteUser(writer http.ResponseWriter, request *http.Request) {
	actorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	userID, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.DeleteUser(request.Context(), actorID, userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// getClientIP tries to extract the real IP address of a user over proxy environments.
func getClientIP(request *http.Request) string {
	ip := request.Header.Get(constants.HeaderXRealIP)
	if ip == "" {
		ip = request.Header.Get(constants.HeaderXForwardedFor)
	}
	if ip == "" {
		ip = request.RemoteAddr
	}
	return ip
}
