package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/promptgate/promptgate-go/internal/crypto"
)

// CookieName is the cookie carrying the session token.
const CookieName = "authToken"

type contextKey string

const claimsKey contextKey = "claims"

// TokenVerifier validates a session token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*crypto.Claims, error)
}

// Authenticate returns middleware that validates the session token from the
// authToken cookie and stores its claims in the request context.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string
			if cookie, err := r.Cookie(CookieName); err == nil {
				token = cookie.Value
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				if errors.Is(err, crypto.ErrMissingToken) {
					writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
					return
				}
				writeJSONError(w, http.StatusForbidden, "Invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// RequireAdmin rejects callers whose token does not carry the admin flag.
// It expects Authenticate to run first.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if !claims.IsAdmin {
			writeJSONError(w, http.StatusForbidden, "Access denied: Admins only.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithClaims returns a copy of ctx carrying claims.
func WithClaims(ctx context.Context, claims *crypto.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext extracts the authenticated caller's claims from the request context.
func ClaimsFromContext(ctx context.Context) (*crypto.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*crypto.Claims)
	return claims, ok && claims != nil
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
