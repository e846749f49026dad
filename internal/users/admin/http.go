// Copyright (c) 2026 Skill2Win. All rights reserved.
// Author: platform@skill2win.dev

package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/skill2win/auth-api/internal/platform/constants"
	"github.com/skill2win/auth-api/internal/platform/middleware"
	requestutil "github.com/skill2win/auth-api/internal/platform/request"
	"github.com/skill2win/auth-api/internal/platform/respond"
	"github.com/skill2win/auth-api/internal/platform/validate"
	"github.com/skill2win/auth-api/internal/users/auth"
)

// # Definitions & Constructors

// Handler implements the admin-facing authentication and moderation endpoints.
type Handler struct {
	adminService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{adminService: service}
}

// Routes returns a [chi.Router] configured with the admin auth routes.
//
// # Endpoints
//   - POST /register      : Creates a new admin account.
//   - POST /login         : Authenticates and returns an admin JWT.
//   - GET  /me            : Returns the authenticated admin view.
//   - POST /reset-code    : Issues a password reset code.
//   - POST /confirm-code  : Checks a reset code without consuming it.
//   - POST /new-password  : Sets a new password after code validation.
//   - POST /users/verify  : Approves a user's KYC submission.
//   - POST /users/ban     : Bans a user account.
//   - POST /users/unban   : Lifts a ban.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints. The reset flow is pre-login by nature.
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/reset-code", handler.resetCode)
	router.Post("/confirm-code", handler.confirmCode)
	router.Post("/new-password", handler.newPassword)

	// Admin-gated endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Get("/me", handler.me)
		r.Post("/users/verify", handler.verifyUser)
		r.Post("/users/ban", handler.banUser)
		r.Post("/users/unban", handler.unbanUser)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type resetCodeRequest struct {
	Email string `json:"email"`
}

type confirmCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type newPasswordRequest struct {
	Email           string `json:"email"`
	Code            string `json:"code"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type moderationRequest struct {
	UserID string `json:"user_id"`
}

// # Response Payloads

type messageResponse struct {
	Message string `json:"message"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// adminView is the reduced account representation for admin identity routes.
type adminView struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	IsActive     bool   `json:"is_active"`
	IsAdmin      bool   `json:"is_admin"`
	AuthProvider string `json:"auth_provider"`
}

func toAdminView(user *auth.User) adminView {
	return adminView{
		ID:           user.ID,
		Email:        user.Email,
		IsActive:     user.IsActive,
		IsAdmin:      user.IsAdmin,
		AuthProvider: user.AuthProvider,
	}
}

/*
register creates a new admin account.

POST /admin/auth/register

Response:
  - 201: adminView
  - 400: Duplicate email or malformed payload
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(auth.FieldEmail, input.Email).
		Email(auth.FieldEmail, input.Email).
		Required(auth.FieldPassword, input.Password).
		MinLen(auth.FieldPassword, input.Password, auth.PasswordMinLength).
		MaxLen(auth.FieldPassword, input.Password, auth.PasswordMaxLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	admin, err := handler.adminService.Register(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, request, toAdminView(admin))
}

/*
login authenticates an admin and mints a bearer token.

POST /admin/auth/login

Response:
  - 200: tokenResponse
  - 401: Bad credentials
  - 403: Banned account or non-admin caller
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(auth.FieldEmail, input.Email).
		Email(auth.FieldEmail, input.Email).
		Required(auth.FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	admin, err := handler.adminService.Authenticate(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	token, err := handler.adminService.BuildAccessToken(admin)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, request, tokenResponse{
		AccessToken: token,
		TokenType:   constants.BearerScheme,
	})
}

/*
me returns the authenticated admin view.

GET /admin/auth/me

Response:
  - 200: adminView
  - 401: Missing/invalid token
  - 403: Non-admin caller
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	admin, err := handler.adminService.CurrentAdmin(request.Context(), claims.Email())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, request, toAdminView(admin))
}

/*
resetCode issues a password reset code for an admin account.

POST /admin/auth/reset-code

Response:
  - 200: messageResponse
  - 404: Unknown or non-admin account
*/
func (handler *Handler) resetCode(writer http.ResponseWriter, request *http.Request) {
	var input resetCodeRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(auth.FieldEmail, input.Email).
		Email(auth.FieldEmail, input.Email)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.adminService.CreateResetCode(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, request, messageResponse{
		Message: "A reset code has been sent to your email.",
	})
}

/*
confirmCode checks a reset code without consuming it.

POST /admin/auth/confirm-code

Response:
  - 200: messageResponse
  - 400: Invalid or expired code
  - 404: Unknown or non-admin account
*/
func (handler *Handler) confirmCode(writer http.ResponseWriter, request *http.Request) {
	var input confirmCodeRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(auth.FieldEmail, input.Email).
		Email(auth.FieldEmail, input.Email).
		Required(auth.FieldCode, input.Code).
		MaxLen(auth.FieldCode, input.Code, auth.CodeMaxLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.adminService.ConfirmResetCode(request.Context(), input.Email, input.Code); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, request, messageResponse{Message: "The code is valid."})
}

/*
newPassword sets a new admin password after code validation.

POST /admin/auth/new-password

Response:
  - 200: messageResponse
  - 400: Password mismatch or invalid/expired code
  - 404: Unknown or non-admin account
*/
func (handler *Handler) newPassword(writer http.ResponseWriter, request *http.Request) {
	var input newPasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(auth.FieldEmail, input.Email).
		Email(auth.FieldEmail, input.Email).
		Required(auth.FieldCode, input.Code).
		MaxLen(auth.FieldCode, input.Code, auth.CodeMaxLength).
		Required(auth.FieldPassword, input.Password).
		MinLen(auth.FieldPassword, input.Password, auth.PasswordMinLength).
		MaxLen(auth.FieldPassword, input.Password, auth.PasswordMaxLength).
		Required(auth.FieldConfirmPassword, input.ConfirmPassword).
		MinLen(auth.FieldConfirmPassword, input.ConfirmPassword, auth.PasswordMinLength).
		MaxLen(auth.FieldConfirmPassword, input.ConfirmPassword, auth.PasswordMaxLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err := handler.adminService.ResetPassword(
		request.Context(),
		input.Email,
		input.Code,
		input.Password,
		input.ConfirmPassword,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, request, messageResponse{Message: "Password has been updated."})
}

// decodeModeration validates the shared moderation payload.
func decodeModeration(request *http.Request) (string, error) {
	var input moderationRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		return "", err
	}

	validator := &validate.Validator{}
	validator.Required("user_id", input.UserID).
		UUID("user_id", input.UserID)

	if err := validator.Err(); err != nil {
		return "", err
	}

	return input.UserID, nil
}

/*
verifyUser approves a user's KYC submission.

POST /admin/auth/users/verify

Response:
  - 200: auth.View (refreshed account)
  - 403: Non-admin caller
  - 404: Unknown account
*/
func (handler *Handler) verifyUser(writer http.ResponseWriter, request *http.Request) {
	userID, err := decodeModeration(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.adminService.VerifyAccount(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, request, user.ToView())
}

/*
banUser bans a user account.

POST /admin/auth/users/ban

Response:
  - 200: auth.View (refreshed account)
  - 403: Non-admin caller
  - 404: Unknown account
*/
func (handler *Handler) banUser(writer http.ResponseWriter, request *http.Request) {
	userID, err := decodeModeration(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.adminService.SetBan(request.Context(), userID, true)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, request, user.ToView())
}

/*
unbanUser lifts a ban from a user account.

POST /admin/auth/users/unban

Response:
  - 200: auth.View (refreshed account)
  - 403: Non-admin caller
  - 404: Unknown account
*/
func (handler *Handler) unbanUser(writer http.ResponseWriter, request *http.Request) {
	userID, err := decodeModeration(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.adminService.SetBan(request.Context(), userID, false)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, request, user.ToView())
}
