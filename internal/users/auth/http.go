// Copyright (c) 2026 Skill2Win. All rights reserved.
// Author: platform@skill2win.dev

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/skill2win/auth-api/internal/platform/constants"
	"github.com/skill2win/auth-api/internal/platform/middleware"
	requestutil "github.com/skill2win/auth-api/internal/platform/request"
	"github.com/skill2win/auth-api/internal/platform/respond"
	"github.com/skill2win/auth-api/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the user-facing authentication endpoints.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with the user auth routes.
//
// # Endpoints
//   - POST /register    : Creates a new account and issues a verification code.
//   - POST /login       : Authenticates and returns a JWT.
//   - POST /verify-code : Confirms the account email with a one-time code.
//   - POST /resend-code : Issues a replacement verification code.
//   - GET  /me          : Returns the authenticated account view.
//   - POST /kyc         : Submits identity details for review.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/verify-code", handler.verifyCode)
	router.Post("/resend-code", handler.resendCode)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/me", handler.me)
		r.Post("/kyc", handler.submitKyc)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Email           string `json:"email"`
	Nickname        string `json:"nickname"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type resendCodeRequest struct {
	Email string `json:"email"`
}

type kycRequest struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	BankAccount    string `json:"bank_account"`
	BillingAddress string `json:"billing_address"`
	NationalID     string `json:"national_id"`
}

// # Response Payloads

type messageResponse struct {
	Message string `json:"message"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

/*
register handles the creation of a new user account.

POST /auth/register

Response:
  - 201: messageResponse
  - 400: Duplicate email/nickname, password mismatch, or malformed payload
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldNickname, input.Nickname).
		MinLen(FieldNickname, input.Nickname, NicknameMinLength).
		MaxLen(FieldNickname, input.Nickname, NicknameMaxLength).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, PasswordMinLength).
		MaxLen(FieldPassword, input.Password, PasswordMaxLength).
		Required(FieldConfirmPassword, input.ConfirmPassword).
		MinLen(FieldConfirmPassword, input.ConfirmPassword, PasswordMinLength).
		MaxLen(FieldConfirmPassword, input.ConfirmPassword, PasswordMaxLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	_, err := handler.authService.Register(request.Context(), RegisterInput{
		Email:           input.Email,
		Nickname:        input.Nickname,
		Password:        input.Password,
		ConfirmPassword: input.ConfirmPassword,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, request, messageResponse{
		Message: "A verification code has been sent to the provided email.",
	})
}

/*
login authenticates a user and mints a bearer token.

POST /auth/login

Response:
  - 200: tokenResponse
  - 401: Bad credentials
  - 403: Banned or unconfirmed account
  - 400: Inactive account or malformed payload
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
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

	user, err := handler.authService.Authenticate(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	token, err := handler.authService.BuildAccessToken(user)
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
me returns the authenticated account view.

GET /auth/me

Response:
  - 200: View
  - 401: Missing/invalid token
  - 403: Banned or unconfirmed account
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.CurrentActiveUser(request.Context(), claims.Email())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, request, user.ToView())
}

/*
verifyCode confirms an account email with a one-time code.

POST /auth/verify-code

Response:
  - 200: messageResponse
  - 400: Invalid or expired code
  - 404: Unknown account
*/
func (handler *Handler) verifyCode(writer http.ResponseWriter, request *http.Request) {
	var input verifyCodeRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldCode, input.Code).
		MaxLen(FieldCode, input.Code, CodeMaxLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ConfirmEmail(request.Context(), input.Email, input.Code); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, request, messageResponse{
		Message: "Account confirmed. You can now log in.",
	})
}

/*
resendCode issues a replacement verification code.

POST /auth/resend-code

Response:
  - 200: messageResponse
  - 400: Account already confirmed
  - 404: Unknown account
*/
func (handler *Handler) resendCode(writer http.ResponseWriter, request *http.Request) {
	var input resendCodeRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ResendVerificationCode(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, request, messageResponse{
		Message: "The code has been sent again.",
	})
}

/*
submitKyc records the caller's identity details.

POST /auth/kyc

Response:
  - 200: View (refreshed account)
  - 401: Missing/invalid token
  - 403: Banned account
*/
func (handler *Handler) submitKyc(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input kycRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldFirstName, input.FirstName).
		MaxLen(FieldFirstName, input.FirstName, NameMaxLength).
		Required(FieldLastName, input.LastName).
		MaxLen(FieldLastName, input.LastName, NameMaxLength).
		Required(FieldBankAccount, input.BankAccount).
		MinLen(FieldBankAccount, input.BankAccount, BankAccountMinLength).
		MaxLen(FieldBankAccount, input.BankAccount, BankAccountMaxLength).
		Required(FieldBillingAddress, input.BillingAddress).
		MinLen(FieldBillingAddress, input.BillingAddress, BillingAddressMinLength).
		MaxLen(FieldBillingAddress, input.BillingAddress, BillingAddressMaxLength).
		MaxLen(FieldNationalID, input.NationalID, NationalIDMaxLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.CurrentActiveUser(request.Context(), claims.Email())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.authService.SubmitKyc(request.Context(), user, KycInput{
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		BankAccount:    input.BankAccount,
		BillingAddress: input.BillingAddress,
		NationalID:     input.NationalID,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, request, updated.ToView())
}

/*
Protected demonstrates bearer-gated access outside the auth prefix.

GET /protected

Response:
  - 200: {"message": "Access granted!", "user_email": "..."}
  - 401: Missing/invalid token
  - 403: Banned or unconfirmed account
*/
func (handler *Handler) Protected(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.CurrentActiveUser(request.Context(), claims.Email())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, request, map[string]string{
		constants.FieldMessage:   "Access granted!",
		constants.FieldUserEmail: user.Email,
	})
}
