package middleware

import (
	"context"
	"net/http"

	"quickcart-be/internal/access"
	"quickcart-be/internal/auth"
	"quickcart-be/internal/logger"
	"quickcart-be/internal/user"
	"quickcart-be/internal/utils"

	"go.uber.org/zap"
)

// TokenParser validates a session token.
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// UserLookup loads the account behind a session.
type UserLookup interface {
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}

// Session resolves the caller from the session token. The role, name and photo are read from
// the database, so a role change applies on the next request. A request without a valid session
// continues anonymously and Guard decides whether that is enough.
func Session(tokens TokenParser, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := auth.ExtractAccessToken(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokens.Parse(raw)
			if err != nil {
				logger.FromCtx(r.Context()).Debug("session token rejected", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			u, err := users.GetByEmail(r.Context(), claims.Email)
			if err != nil {
				logger.FromCtx(r.Context()).Info("session user not loaded",
					zap.String("email", claims.Email),
					zap.Error(err),
				)
				next.ServeHTTP(w, r)
				return
			}

			ctx := utils.SetUserContext(r.Context(), utils.SessionUser{
				Email:    u.Email,
				Role:     string(u.Role),
				Name:     u.Name,
				PhotoURL: u.PhotoURL,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Guard applies the access table to every request.
func Guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role := user.Role(utils.GetUserRoleFromContext(r.Context()))

		switch access.CheckAPI(r.Method, r.URL.Path, role) {
		case access.DenyUnauthenticated:
			writeError(w, http.StatusUnauthorized, "unauthorized access")
			return
		case access.DenyForbidden:
			logger.FromCtx(r.Context()).Info("route forbidden",
				zap.String("path", r.URL.Path),
				zap.String("role", string(role)),
			)
			writeError(w, http.StatusForbidden, "forbidden access")
			return
		}

		next.ServeHTTP(w, r)
	})
}
