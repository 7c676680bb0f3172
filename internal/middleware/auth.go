package middleware

import (
	"context"
	"net/http"

	"github.com/kashtn/nail-studio/internal/auth"
	"github.com/kashtn/nail-studio/internal/transport"
)

type userIDKey struct{}

func AdminAuth(adminKey string, manager *auth.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if adminKey == "" && manager == nil {
				transport.WriteError(w, http.StatusServiceUnavailable, "admin auth not configured", nil)
				return
			}

			if adminKey != "" && r.Header.Get("X-Admin-Key") == adminKey {
				next.ServeHTTP(w, r)
				return
			}

			if manager != nil {
				cookie, err := r.Cookie(auth.AccessCookie)
				if err == nil && cookie.Value != "" {
					claims, err := manager.Parse(cookie.Value)
					if err == nil && claims.Role == auth.RoleAdmin {
						next.ServeHTTP(w, r)
						return
					}
				}
			}

			transport.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		})
	}
}

// ClientAuth requires a signed-in client and stores its user id in the context.
func ClientAuth(manager *auth.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if manager == nil {
				transport.WriteError(w, http.StatusServiceUnavailable, "auth not configured", nil)
				return
			}

			if id := ClientIDFromRequest(r, manager); id != "" {
				ctx := context.WithValue(r.Context(), userIDKey{}, id)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			transport.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		})
	}
}

// ClientIDFromRequest extracts the signed-in client id from the access cookie,
// returning "" for guests. Used directly by handlers where auth is optional.
func ClientIDFromRequest(r *http.Request, manager *auth.Manager) string {
	if manager == nil {
		return ""
	}
	cookie, err := r.Cookie(auth.AccessCookie)
	if err != nil || cookie.Value == "" {
		return ""
	}
	claims, err := manager.Parse(cookie.Value)
	if err != nil || claims.Role != auth.RoleClient {
		return ""
	}
	return claims.Subject
}

func UserIDFromContext(ctx context.Context) string {
	if v := ctx.Value(userIDKey{}); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
