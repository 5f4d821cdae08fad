// Package auth exposes the session gate over HTTP.
package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pdxshibaa/BookClub/internal/httpx"
	"github.com/pdxshibaa/BookClub/internal/session"
)

type HTTPHandler struct {
	gate *session.Gate
}

func NewHTTPHandler(gate *session.Gate) *HTTPHandler {
	return &HTTPHandler{gate: gate}
}

type LoginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type meResponse struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

// Login handles POST /auth/login
// @Summary Sign in
// @Description Authenticate with email and password and receive an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginReq true "Login request"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Router /auth/login [post]
func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	if validationErrors := httpx.ValidateStruct(req); len(validationErrors) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", validationErrors)
		return
	}

	ident, token, err := h.gate.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid email or password", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccess(w, r, map[string]any{
		"access_token": token,
		"user": meResponse{
			ID:      ident.ID,
			Email:   ident.Email,
			IsAdmin: h.gate.IsAdmin(&ident),
		},
	}, nil)
}

// Logout handles POST /auth/logout. It always answers 204.
// @Summary Sign out
// @Description Revoke the current access token
// @Tags auth
// @Security Bearer
// @Success 204 "No Content"
// @Router /auth/logout [post]
func (h *HTTPHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token, ok := httpx.BearerToken(r); ok {
		h.gate.Revoke(r.Context(), token)
	}
	httpx.JSONSuccessNoContent(w)
}

// Me handles GET /me
// @Summary Current identity
// @Tags auth
// @Produce json
// @Security Bearer
// @Success 200 {object} httpx.SuccessResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Router /me [get]
func (h *HTTPHandler) Me(w http.ResponseWriter, r *http.Request) {
	ident := httpx.IdentityFrom(r)
	if ident == nil {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}
	httpx.JSONSuccess(w, r, meResponse{
		ID:      ident.ID,
		Email:   ident.Email,
		IsAdmin: h.gate.IsAdmin(ident),
	}, nil)
}
