package auth

import (
	"context"
	"net/http"

	"github.com/techhorizon/blog/internal/model"
)

// contextKey is an unexported type for this package's context keys, so no
// other package can read or shadow the values we store.
type contextKey string

const userIDKey contextKey = "userID"

// CookieName is the HttpOnly cookie the session JWT travels in. HttpOnly
// keeps it out of reach of page scripts.
const CookieName = "token"

// UserSource resolves a token subject back to an account. The store
// satisfies this.
type UserSource interface {
	UserByID(id string) (*model.User, error)
}

// RequireAdmin gates the admin API: the request must carry a valid session
// JWT whose subject resolves to an admin account. Anything else is 401 —
// we deliberately don't distinguish "no token" / "bad token" / "not admin"
// to the client.
func RequireAdmin(tokens *TokenService, users UserSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := extractUserID(r, tokens)
			if err != nil {
				unauthorized(w)
				return
			}

			user, err := users.UserByID(userID)
			if err != nil || !user.IsAdmin {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth attaches the user id to the context when a valid token is
// present but never blocks the request. Public routes use it so handlers
// can tailor responses for signed-in readers.
func OptionalAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID, err := extractUserID(r, tokens); err == nil && userID != "" {
				r = r.WithContext(context.WithValue(r.Context(), userIDKey, userID))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserIDFromContext returns the authenticated user's id, or ("", false) for
// an anonymous request.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

func extractUserID(r *http.Request, tokens *TokenService) (string, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", err
	}
	return tokens.Validate(cookie.Value)
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","message":"valid authentication required"}`))
}
