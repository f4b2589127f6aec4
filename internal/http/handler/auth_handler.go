package handler

import (
	"encoding/json"
	"net/http"

	"github.com/authkit-go/authkit/internal/http/response"
	"github.com/authkit-go/authkit/internal/i18n"
	"github.com/authkit-go/authkit/internal/service"
)

// AuthHandler serves the credential issuance endpoints.
type AuthHandler struct {
	auth   *service.AuthService
	bundle *i18n.Bundle
}

func NewAuthHandler(auth *service.AuthService, bundle *i18n.Bundle) *AuthHandler {
	return &AuthHandler{auth: auth, bundle: bundle}
}

type loginRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	StayLoggedIn bool   `json:"stay_logged_in"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Login exchanges a username and password for a token pair.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	locale := h.bundle.LocaleFromHeader(r.Header.Get("Accept-Language"))
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, h.bundle, locale, service.ErrInvalidCredentials)
		return
	}
	pair, err := h.auth.Login(req.Username, req.Password, req.StayLoggedIn)
	if err != nil {
		response.Error(w, h.bundle, locale, err)
		return
	}
	response.JSON(w, http.StatusOK, pair)
}

// Refresh issues a fresh access token from a refresh token.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	locale := h.bundle.LocaleFromHeader(r.Header.Get("Accept-Language"))
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil || req.RefreshToken == "" {
		response.Error(w, h.bundle, locale, service.ErrCouldNotValidateToken)
		return
	}
	pair, err := h.auth.Refresh(req.RefreshToken)
	if err != nil {
		response.Error(w, h.bundle, locale, err)
		return
	}
	response.JSON(w, http.StatusOK, pair)
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	return dec.Decode(v)
}
