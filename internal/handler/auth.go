package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/contentdee/contentdee/internal/metrics"
	"github.com/contentdee/contentdee/internal/repository"
	"github.com/contentdee/contentdee/internal/service"
)

type authHandler struct {
	authService *service.AuthService
	collector   *metrics.Collector
}

func NewAuthHandler(authService *service.AuthService, collector *metrics.Collector) *authHandler {
	return &authHandler{
		authService: authService,
		collector:   collector,
	}
}

// Register creates a credential-based account.
// POST /api/auth/register
func (h *authHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input service.RegisterInput
	if !decodeAndValidate(w, r, &input) {
		return
	}

	user, err := h.authService.Register(input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateUsername):
			writeMessage(w, http.StatusBadRequest, "Username already exists")
		case errors.Is(err, service.ErrDuplicateEmail):
			writeMessage(w, http.StatusBadRequest, "Email already exists")
		case errors.Is(err, service.ErrDuplicateSubdomain):
			writeMessage(w, http.StatusBadRequest, "Subdomain already exists")
		default:
			slog.Warn("registration rejected", "error", err)
			writeMessage(w, http.StatusBadRequest, capitalize(err.Error()))
		}
		return
	}

	h.collector.RecordRegistration()
	writeJSON(w, http.StatusCreated, user)
}

// Login checks credentials and sets the session cookie.
// POST /api/auth/login
func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username" validate:"required,min=3"`
		Password string `json:"password" validate:"required,min=6"`
	}
	if !decodeAndValidate(w, r, &input) {
		return
	}

	session, err := h.authService.Login(input.Username, input.Password)
	if err != nil {
		h.collector.RecordLogin("password", false)
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeMessage(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		slog.Error("login failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Login failed")
		return
	}

	h.collector.RecordLogin("password", true)
	h.authService.SetSessionCookie(w, session)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Login successful"})
}

// Logout tears down the session. Always succeeds from the caller's view.
// POST /api/auth/logout
func (h *authHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(service.SessionCookieName)
	if err == nil {
		h.authService.Logout(cookie.Value)
	}

	h.authService.ClearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Logged out successfully"})
}

// Me returns the authenticated user's public record. A session whose user
// vanished reports 404 rather than 401 so stale clients can tell the
// difference.
// GET /api/auth/me
func (h *authHandler) Me(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(service.SessionCookieName)
	if err != nil {
		writeMessage(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	user, err := h.authService.CurrentUser(cookie.Value)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSessionNotFound):
			writeMessage(w, http.StatusUnauthorized, "Authentication required")
		case errors.Is(err, service.ErrUserNotFound):
			writeMessage(w, http.StatusNotFound, "User not found")
		default:
			slog.Error("failed to resolve current user", "error", err)
			writeMessage(w, http.StatusInternalServerError, "Failed to get user information")
		}
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
