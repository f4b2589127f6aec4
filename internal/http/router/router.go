package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/authkit-go/authkit/internal/config"
	"github.com/authkit-go/authkit/internal/http/handler"
	"github.com/authkit-go/authkit/internal/http/middleware"
	"github.com/authkit-go/authkit/internal/i18n"
	"github.com/authkit-go/authkit/internal/service"
)

// New assembles the HTTP routing tree.
func New(cfg *config.Config, auth *service.AuthService, bundle *i18n.Bundle, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)

	authHandler := handler.NewAuthHandler(auth, bundle)
	userHandler := handler.NewUserHandler(auth, bundle)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/token", func(r chi.Router) {
		r.Post("/", authHandler.Login)
		r.Post("/refresh", authHandler.Refresh)
	})

	r.Route("/user", func(r chi.Router) {
		r.Post("/register", userHandler.Register)
		r.Post("/verify-email/{userID}", userHandler.VerifyEmail)
		r.Post("/resend-verification/{userID}", userHandler.ResendVerification)
		r.Post("/forgot-password", userHandler.ForgotPassword)
		r.Post("/forgot-password/verify", userHandler.VerifyResetCode)
		r.Put("/forgot-password", userHandler.ResetForgottenPassword)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser(auth, bundle))
			r.Get("/me", userHandler.Me)
			r.Put("/me", userHandler.UpdateUsername)
			r.Put("/me/password", userHandler.UpdatePassword)
			r.Post("/me/change-email", userHandler.RequestEmailChange)
			r.Post("/me/change-email/confirm", userHandler.ConfirmEmailChange)
		})
	})

	var h http.Handler = r
	if cfg.OTELHTTPEnabled {
		h = otelhttp.NewHandler(h, "authkit")
	}
	return h
}
