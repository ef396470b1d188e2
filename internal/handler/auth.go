package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/saas-starter/internal/apperror"
	"github.com/sakif/saas-starter/internal/service"
)

// AuthHandler exposes registration and login over JSON.
//
// HANDLER RESPONSIBILITIES:
//   - HandleRegister → POST /api/auth/register: create account, return first token
//   - HandleLogin    → POST /api/auth/login: verify credentials, return fresh token
//
// All credential rules live in service.AuthService; this layer only decodes
// requests, delegates, and encodes responses.
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler. Dependencies are injected; the
// handler has no knowledge of how they're constructed.
func NewAuthHandler(auth *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// registerRequest is the expected body for POST /api/auth/register.
type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginRequest is the expected body for POST /api/auth/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates a new account.
//
// HTTP: POST /api/auth/register
// BODY: {"name": "...", "email": "...", "password": "..."}
//
// 201 → {"token": "...", "name": "...", "email": "..."}
// 400 → malformed body or invalid fields
// 409 → email already registered
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "request body must be valid JSON"))
		return
	}

	result, err := h.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		// Duplicate emails are routine, not server trouble — log at info.
		if errors.Is(err, apperror.ErrConflict) || errors.Is(err, apperror.ErrValidation) {
			h.logger.Info("registration rejected", slog.String("reason", err.Error()))
		} else {
			h.logger.Error("registration failed", slog.String("error", err.Error()))
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// HandleLogin verifies credentials and issues a fresh bearer token.
//
// HTTP: POST /api/auth/login
// BODY: {"email": "...", "password": "..."}
//
// 200 → {"token": "...", "name": "...", "email": "..."}
// 401 → any credential failure — one body for every cause
//
// The email is NEVER logged on failure: a failed login line with an address
// in it would leak exactly what the uniform error exists to hide.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "request body must be valid JSON"))
		return
	}

	result, err := h.auth.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apperror.ErrUnauthorized) {
			h.logger.Info("login rejected")
		} else {
			h.logger.Error("login failed", slog.String("error", err.Error()))
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
