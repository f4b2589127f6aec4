package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/authkit-go/authkit/internal/domain"
	"github.com/authkit-go/authkit/internal/http/response"
	"github.com/authkit-go/authkit/internal/i18n"
	"github.com/authkit-go/authkit/internal/service"
)

type contextKey string

const userContextKey contextKey = "authkit.user"

// RequireUser authenticates the bearer access token and rejects disabled
// accounts. The resolved user lands in the request context.
func RequireUser(auth *service.AuthService, bundle *i18n.Bundle) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			locale := bundle.LocaleFromHeader(r.Header.Get("Accept-Language"))

			token := bearerToken(r)
			if token == "" {
				response.Error(w, bundle, locale, service.ErrCouldNotValidateToken)
				return
			}
			user, err := auth.Authenticate(token)
			if err != nil {
				response.Error(w, bundle, locale, err)
				return
			}
			if user.Disabled {
				response.Error(w, bundle, locale, service.ErrInactiveUser)
				return
			}
			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// UserFromContext returns the authenticated user placed by RequireUser.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userContextKey).(*domain.User)
	return user, ok
}
