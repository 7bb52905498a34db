package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/vistahogar/listings/internal/auth"
)

// SessionCookie names the browser cookie carrying the session token.
const SessionCookie = "vh_session"

// SessionToken extracts the session token from the Authorization header
// (Bearer scheme) or the session cookie, preferring the header.
func SessionToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// SessionMiddleware resolves the session token, if any, and attaches the
// authenticated user to the request context. Requests without a valid
// session pass through unauthenticated; route handlers decide whether
// authentication is required.
func SessionMiddleware(svc *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := SessionToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := svc.Session(r.Context(), token)
			if err != nil {
				if errors.Is(err, auth.ErrSessionExpired) {
					http.SetCookie(w, &http.Cookie{
						Name:     SessionCookie,
						Value:    "",
						Path:     "/",
						MaxAge:   -1,
						HttpOnly: true,
					})
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.ContextWithUser(r.Context(), user)))
		})
	}
}
