package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/KeyzarRasya/lativa/internal/service"
)

type ctxKey string

const sessionKey ctxKey = "session"

// SessionFromContext returns the session attached by the Session
// middleware, if any.
func SessionFromContext(ctx context.Context) (*service.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(*service.Session)
	return sess, ok
}

// Session resolves a Bearer token into a session and attaches it to the
// request context. Requests without a valid token pass through
// unauthenticated; route guards decide what that means.
func Session(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token != "" {
				if sess, ok := auth.Current(token); ok {
					r = r.WithContext(context.WithValue(r.Context(), sessionKey, sess))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func RequireAuth(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := SessionFromContext(r.Context()); !ok {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func RequireAdmin(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := SessionFromContext(r.Context())
			if !ok {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			if !sess.User.IsAdmin() {
				logger.Warn("admin route denied",
					slog.String("username", sess.User.Username),
					slog.String("path", r.URL.Path),
				)
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}
