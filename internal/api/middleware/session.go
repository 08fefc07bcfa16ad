package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

// SessionIDKey is the context key for the console session ID.
const SessionIDKey contextKey = "session_id"

// Session reads the session cookie, issuing a fresh one when it is missing
// or does not hold a UUID, and stores the session ID in the request context.
func Session(cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if c, err := r.Cookie(cookieName); err == nil {
				if _, err := uuid.Parse(c.Value); err == nil {
					id = c.Value
				}
			}

			if id == "" {
				id = uuid.New().String()
				http.SetCookie(w, &http.Cookie{
					Name:     cookieName,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), SessionIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSessionID retrieves the session ID from the request context.
func GetSessionID(ctx context.Context) string {
	if v, ok := ctx.Value(SessionIDKey).(string); ok {
		return v
	}
	return ""
}
