package auth

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"shop/internal/auth/app/auth"
)

func RegisterRoutes(r chi.Router, s auth.AuthService, l *zap.Logger) {
	handler := NewAuthHandler(s, l.With(zap.String("component", "AuthHTTPHandler")))

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", handler.Register)
		r.Post("/login", handler.Login)
		r.Post("/refresh", handler.Refresh)
		r.Get("/validate", handler.Validate)
	})
}
