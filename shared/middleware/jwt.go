package middleware

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/hope-sync-api/shared/auth"
	"github.com/vasapolrittideah/hope-sync-api/shared/utilities"
)

type claimsContextKey struct{}

// TokenValidator validates a bearer token and returns its claims.
type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

// NewJWTMiddleware rejects requests that do not carry a valid bearer token and
// stores the token claims in the request context for the next handler.
func NewJWTMiddleware(validator TokenValidator, logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := utilities.BearerToken(r)
			if err != nil {
				utilities.WriteMessage(w, http.StatusUnauthorized, err.Error())
				return
			}

			claims, err := validator.ValidateToken(tokenString)
			if err != nil {
				logger.Debug().Err(err).Str("path", r.URL.Path).Msg("rejected bearer token")
				utilities.WriteMessage(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the claims stored by the JWT middleware.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(*auth.Claims)
	return claims, ok
}
