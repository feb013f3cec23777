package handlers

import (
	"net/http"

	"go.uber.org/zap"

	middleware "github.com/markdave123-py/joba/internal/api/middlewares"
	"github.com/markdave123-py/joba/internal/core/errs"
	"github.com/markdave123-py/joba/internal/services"
)

type AuthHandler struct {
	auth   *services.AuthService
	logger *zap.Logger
}

func NewAuthHandler(auth *services.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

type signupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	user, pair, err := h.auth.Register(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"user":   user,
		"tokens": pair,
	})
}

type signinRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	user, pair, err := h.auth.Authenticate(r.Context(), req.Login, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user":   user,
		"tokens": pair,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	pair, err := h.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

// CheckAvailability reports whether an email and/or username are free to use.
func (h *AuthHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	out, err := h.auth.CheckAvailability(r.Context(), q.Get("email"), q.Get("username"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Me returns the user the auth middleware already resolved for this request.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.SessionUser(r.Context())
	if !ok {
		writeError(w, h.logger, errs.Authentication("could not validate credentials"))
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type onboardedRequest struct {
	Onboarded bool `json:"onboarded"`
}

func (h *AuthHandler) SetOnboarded(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req onboardedRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	user, err := h.auth.SetOnboarded(r.Context(), userID, req.Onboarded)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
