package auth

import (
	"context"
	"net/http"
	"strings"
)

// contextKey is an unexported type for this package's context keys, so no
// other package can read or shadow the identity we store in the request
// context.
type contextKey string

const usernameKey contextKey = "username"

// RequireAuth enforces authentication on protected routes.
//
// The token is read from the Authorization header ("Bearer <jwt>") first,
// falling back to the HttpOnly "token" cookie set by the GitHub OAuth
// callback. A missing or invalid token ends the request with 401 before the
// handler runs; otherwise the verified username is stored in the request
// context for UsernameFromContext.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, err := extractUsername(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"message":"valid authentication required"}`))
				return
			}

			ctx := context.WithValue(r.Context(), usernameKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth extracts the identity if a valid token is present but never
// blocks the request. Used on public routes where a logged-in caller might
// see extra data; handlers treat ("", false) from UsernameFromContext as
// anonymous.
func OptionalAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if username, err := extractUsername(r, tokens); err == nil && username != "" {
				r = r.WithContext(context.WithValue(r.Context(), usernameKey, username))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UsernameFromContext returns the authenticated caller's username.
// The second return is false for anonymous requests.
func UsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(usernameKey).(string)
	return username, ok && username != ""
}

// extractUsername finds the bearer token on the request and validates it.
// Shared by RequireAuth and OptionalAuth.
func extractUsername(r *http.Request, tokens *TokenService) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			return "", http.ErrNoCookie
		}
		return tokens.Validate(strings.TrimSpace(tokenStr))
	}

	// Browser clients from the OAuth flow carry the token in a cookie.
	cookie, err := r.Cookie("token")
	if err != nil {
		return "", err
	}
	return tokens.Validate(cookie.Value)
}
