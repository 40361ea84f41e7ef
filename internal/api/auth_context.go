package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/raygaledev/kiasu/internal/domain"
	domainerrors "github.com/raygaledev/kiasu/internal/errors"
	"github.com/raygaledev/kiasu/internal/logger"
	"github.com/raygaledev/kiasu/internal/service"
)

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

// userIDKey is the context key for the authenticated user ID.
const userIDKey ctxKey = "userID"

// GetUserID returns the authenticated user ID from context.
// Returns a 401 error if the request carried no valid token.
func GetUserID(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", domainerrors.NotAuthenticated()
	}
	return userID, nil
}

// viewerFrom turns the optional caller into a Viewer.
func viewerFrom(ctx context.Context) domain.Viewer {
	if userID, err := GetUserID(ctx); err == nil {
		return domain.AuthenticatedAs(userID)
	}
	return domain.Anonymous()
}

// optionalUserID returns the caller id or "" for anonymous requests.
// Services turn "" into NotAuthenticated where a user is required.
func optionalUserID(ctx context.Context) string {
	userID, _ := GetUserID(ctx)
	return userID
}

// setUserID stores the user ID in context.
func setUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// authMiddleware returns a middleware that validates Bearer tokens and stores user ID in context.
// If no token is present or invalid, continues without user in context.
// Handlers use GetUserID to check authentication.
func authMiddleware(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.VerifyAccessToken(strings.TrimSpace(token))
			if err != nil {
				// Invalid token: continue anonymously, handlers reject if auth is required.
				next.ServeHTTP(w, r)
				return
			}

			ctx := setUserID(r.Context(), claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requestLogger attaches a request-scoped logger carrying the request id
// and, when known, the caller.
func requestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := base.With("request_id", middleware.GetReqID(r.Context()))
			if userID, err := GetUserID(r.Context()); err == nil {
				l = l.With("user_id", userID)
			}
			next.ServeHTTP(w, r.WithContext(logger.IntoContext(r.Context(), l)))
		})
	}
}
