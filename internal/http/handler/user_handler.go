package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/authkit-go/authkit/internal/apperr"
	"github.com/authkit-go/authkit/internal/http/middleware"
	"github.com/authkit-go/authkit/internal/http/response"
	"github.com/authkit-go/authkit/internal/i18n"
	"github.com/authkit-go/authkit/internal/service"
)

var errInvalidBody = apperr.New(apperr.KindValidation, "app.invalid_request")

// UserHandler serves account management endpoints.
type UserHandler struct {
	auth   *service.AuthService
	bundle *i18n.Bundle
}

func NewUserHandler(auth *service.AuthService, bundle *i18n.Bundle) *UserHandler {
	return &UserHandler{auth: auth, bundle: bundle}
}

func (h *UserHandler) locale(r *http.Request) string {
	return h.bundle.LocaleFromHeader(r.Header.Get("Accept-Language"))
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	locale := h.locale(r)
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, h.bundle, locale, errInvalidBody)
		return
	}
	user, err := h.auth.Register(req.Username, req.Email, req.Password, locale)
	if err != nil {
		// The account may already exist when only the verification mail
		// failed; the client can request a resend later.
		response.Error(w, h.bundle, locale, err)
		return
	}
	response.JSON(w, http.StatusCreated, user)
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.Error(w, h.bundle, h.locale(r), service.ErrCouldNotValidateToken)
		return
	}
	response.JSON(w, http.StatusOK, user)
}

type updateUsernameRequest struct {
	Username string `json:"username"`
}

func (h *UserHandler) UpdateUsername(w http.ResponseWriter, r *http.Request) {
	locale := h.locale(r)
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.Error(w, h.bundle, locale, service.ErrCouldNotValidateToken)
		return
	}
	var req updateUsernameRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, h.bundle, locale, errInvalidBody)
		return
	}
	if err := h.auth.UpdateUsername(user, req.Username); err != nil {
		response.Error(w, h.bundle, locale, err)
		return
	}
	response.JSON(w, http.StatusOK, user)
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *UserHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	locale := h.locale(r)
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.Error(w, h.bundle, locale, service.ErrCouldNotValidateToken)
		return
	}
	var req updatePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, h.bundle, locale, errInvalidBody)
		return
	}
	if err := h.auth.UpdatePassword(user, req.CurrentPassword, req.NewPassword); err != nil {
		response.Error(w, h.bundle, locale, err)
		return
	}
	response.Message(w, h.bundle, locale, "auth.password_updated", nil)
}

type verifyEmailRequest struct {
	Code string `json:"code"`
}

func (h *UserHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	locale := h.locale(r)
	var req verifyEmailRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, h.bundle, locale, errInvalidBody)
		return
	}
	user, err := h.auth.VerifyEmail(chi.URLParam(r, "userID"), req.Code, locale)
	if err != nil {
		response.Error(w, h.bundle, locale, err)
		return
	}
	response.JSON(w, http.StatusOK, user)
}

func (h *UserHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	locale := h.locale(r)
	if err := h.auth.ResendVerification(chi.URLParam(r, "userID"), locale); err != nil {
		response.Error(w, h.bundle, locale, err)
		return
	}
	response.Message(w, h.bundle, locale, "auth.verification_code_resent", nil)
}

type changeEmailRequest struct {
	NewEmail string `json:"new_email"`
}

func (h *UserHandler) RequestEmailChange(w http.ResponseWriter, r *http.Request) {
	locale := h.locale(r)
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.Error(w, h.bundle, locale, service.ErrCouldNotValidateToken)
		return
	}
	var req changeEmailRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, h.bundle, locale, errInvalidBody)
		return
	}
	if err := h.auth.RequestEmailChange(user, req.NewEmail, locale); err != nil {
		response.Error(w, h.bundle, locale, err)
		return
	}
	response.Message(w, h.bundle, locale, "auth.email_change_requested", nil)
}

type confirmEmailChangeRequest struct {
	NewEmail string `json:"new_email"`
	Code     string `json:"code"`
}

func (h *UserHandler) ConfirmEmailChange(w http.ResponseWriter, r *http.Request) {
	locale := h.locale(r)
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.Error(w, h.bundle, locale, service.ErrCouldNotValidateToken)
		return
	}
	var req confirmEmailChangeRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, h.bundle, locale, errInvalidBody)
		return
	}
	if err := h.auth.ConfirmEmailChange(user, req.NewEmail, req.Code, locale); err != nil {
		response.Error(w, h.bundle, locale, err)
		return
	}
	response.Message(w, h.bundle, locale, "auth.email_changed", nil)
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (h *UserHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	locale := h.locale(r)
	var req forgotPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, h.bundle, locale, errInvalidBody)
		return
	}
	if err := h.auth.ForgotPassword(req.Email, locale); err != nil {
		response.Error(w, h.bundle, locale, err)
		return
	}
	response.Message(w, h.bundle, locale, "auth.password_reset_requested", nil)
}

type verifyResetCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (h *UserHandler) VerifyResetCode(w http.ResponseWriter, r *http.Request) {
	locale := h.locale(r)
	var req verifyResetCodeRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, h.bundle, locale, errInvalidBody)
		return
	}
	if err := h.auth.VerifyResetCode(req.Email, req.Code); err != nil {
		response.Error(w, h.bundle, locale, err)
		return
	}
	response.Message(w, h.bundle, locale, "auth.password_reset_code_valid", nil)
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

func (h *UserHandler) ResetForgottenPassword(w http.ResponseWriter, r *http.Request) {
	locale := h.locale(r)
	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, h.bundle, locale, errInvalidBody)
		return
	}
	if err := h.auth.ResetForgottenPassword(req.Email, req.Code, req.NewPassword); err != nil {
		response.Error(w, h.bundle, locale, err)
		return
	}
	response.Message(w, h.bundle, locale, "auth.password_updated", nil)
}
