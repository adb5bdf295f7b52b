package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"shop/internal/auth/app/auth"
	"shop/internal/auth/token"
)

type AuthHandler struct {
	service auth.AuthService
	logger  *zap.Logger
}

func NewAuthHandler(s auth.AuthService, l *zap.Logger) *AuthHandler {
	return &AuthHandler{service: s, logger: l}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body for Register", zap.Error(err))
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	res, err := h.service.Register(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidRequest):
			h.logger.Warn("Bad request for Register", zap.Error(err))
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, auth.ErrEmailAlreadyExists):
			http.Error(w, "Email already registered", http.StatusConflict)
		case errors.Is(err, auth.ErrRegistrationFailed):
			h.logger.Error("Registration rolled back", zap.Error(err))
			http.Error(w, "Registration failed, please try again later", http.StatusServiceUnavailable)
		default:
			h.logger.Error("Error registering user", zap.Error(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(res)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	res, err := h.service.Login(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidRequest):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, auth.ErrInvalidCredentials):
			http.Error(w, "Invalid email or password", http.StatusUnauthorized)
		default:
			h.logger.Error("Error logging in", zap.Error(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.writeJSON(w, res)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req auth.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	res, err := h.service.Refresh(r.Context(), &req)
	if err != nil {
		if errors.Is(err, token.ErrInvalidToken) {
			http.Error(w, "Invalid refresh token", http.StatusUnauthorized)
			return
		}
		h.logger.Error("Error refreshing tokens", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, res)
}

func (h *AuthHandler) Validate(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	accessToken, found := strings.CutPrefix(header, "Bearer ")
	if !found || accessToken == "" {
		http.Error(w, "Authorization header with Bearer token is required", http.StatusUnauthorized)
		return
	}

	res, err := h.service.Validate(r.Context(), accessToken)
	if err != nil {
		if errors.Is(err, token.ErrInvalidToken) {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}
		h.logger.Error("Error validating token", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, res)
}

func (h *AuthHandler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
