package middleware

import (
	"context"
	"net/http"
	"strings"

	internal_errors "github.com/umaimaes/AgroTrace-MS/internal/errors"
	"github.com/umaimaes/AgroTrace-MS/internal/token"
)

// Key to store the user claims in the request context
type key int

const UserClaimsKey key = 0

// Auth holds dependencies for authentication middleware
type Auth struct {
	codec   *token.Codec
	revoked *token.Registry
}

func NewAuth(codec *token.Codec, revoked *token.Registry) *Auth {
	return &Auth{codec: codec, revoked: revoked}
}

// extractClaims validates the bearer token in the request.
// Returns (claims, nil) on success, (nil, error) on failure.
func (a *Auth) extractClaims(r *http.Request) (*token.Claims, error) {
	tokenString, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !found || tokenString == "" {
		return nil, errNoToken
	}

	if a.revoked.IsRevoked(tokenString) {
		return nil, errRevoked
	}

	claims, err := a.codec.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// Sentinel errors for extractClaims
var (
	errNoToken = errorString("no token")
	errRevoked = errorString("revoked")
)

type errorString string

func (e errorString) Error() string { return string(e) }

// NeedAuth returns middleware that requires a valid, non-revoked bearer token.
func (a *Auth) NeedAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := a.extractClaims(r)
			if err != nil {
				switch err {
				case errNoToken:
					http.Error(w, "Please sign-in", http.StatusUnauthorized)
				case errRevoked:
					http.Error(w, "Token is revoked", http.StatusUnauthorized)
				default:
					http.Error(w, err.Error(), internal_errors.StatusCode(err, http.StatusUnauthorized))
				}
				return
			}

			ctx := context.WithValue(r.Context(), UserClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClaimsFromContext retrieves the token claims from the request context.
func GetClaimsFromContext(r *http.Request) *token.Claims {
	claims, ok := r.Context().Value(UserClaimsKey).(*token.Claims)
	if !ok {
		return nil
	}
	return claims
}
