package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"workportal/internal/domain/auth"
	"workportal/internal/transport/http/api"
)

// UserLookup resolves the account behind a token so that profile fields and
// deletions take effect without reissuing tokens.
type UserLookup interface {
	Me(ctx context.Context, userID string) (auth.User, error)
}

// Auth attaches the caller to the request context when a valid bearer token
// is present. Requests without one pass through anonymously.
func Auth(secret string, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseToken(secret, token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			user := auth.UserContext{
				UserID:   claims.UserID,
				Name:     claims.Name,
				Email:    claims.Subject,
				RoleName: claims.RoleName,
			}
			if users != nil {
				account, err := users.Me(r.Context(), claims.UserID)
				if err != nil {
					slog.Warn("token user lookup failed", "userId", claims.UserID, "err", err)
					next.ServeHTTP(w, r)
					return
				}
				user = auth.ContextFromUser(account)
			}

			ctx := context.WithValue(r.Context(), ctxKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

func GetUser(ctx context.Context) (auth.UserContext, bool) {
	user, ok := ctx.Value(ctxKeyUser).(auth.UserContext)
	return user, ok
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUser(r.Context()); !ok {
			api.Fail(w, http.StatusUnauthorized, "unauthorized", "Could not validate credentials", GetRequestID(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	})
}
