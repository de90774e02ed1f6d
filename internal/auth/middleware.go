package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/nafisa/campgrounds/internal/model"
	"github.com/nafisa/campgrounds/internal/repository"
)

var errNoBearerToken = errors.New("auth: missing bearer token")

// contextKey is an unexported type for context keys in this package, so no
// other package can read or shadow the values we store.
type contextKey string

const userKey contextKey = "user"

// RequireAuth enforces authentication on protected routes.
//
// It reads the bearer token from the Authorization header, validates it,
// and resolves the token's subject to an existing user record. A missing or
// invalid token, an expired token, or a subject that no longer resolves to
// a user all end the request with 401. On success the full *model.User is
// stored in the request context for handlers downstream.
//
// Resolving the user here (rather than trusting the token's subject blindly)
// means a token for a since-removed account stops working immediately, and
// handlers get the current admin flag rather than one frozen at issue time.
func RequireAuth(tokens *TokenService, users repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := resolveUser(r, tokens, users)
			if err != nil {
				http.Error(w, `{"error":"unauthenticated","message":"valid authentication required"}`, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
		})
	}
}

// OptionalAuth resolves the user identity if a valid token is present but
// never blocks the request. Handlers on public routes check
// UserFromContext to see whether the request is anonymous.
func OptionalAuth(tokens *TokenService, users repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user, err := resolveUser(r, tokens, users); err == nil {
				r = r.WithContext(ContextWithUser(r.Context(), user))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ContextWithUser returns a context carrying the given user, the way the
// middleware stores it. Exposed for handler tests that bypass the
// middleware.
func ContextWithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext retrieves the authenticated user from the request context.
// Returns (nil, false) if the request is anonymous.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	return user, ok && user != nil
}

// resolveUser extracts the bearer token, validates it, and loads the user
// record it references. Shared by RequireAuth and OptionalAuth.
func resolveUser(r *http.Request, tokens *TokenService, users repository.UserRepository) (*model.User, error) {
	tokenStr, err := bearerToken(r)
	if err != nil {
		return nil, err
	}

	userID, err := tokens.Validate(tokenStr)
	if err != nil {
		return nil, err
	}

	return users.GetByID(r.Context(), userID)
}

// bearerToken reads the token from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", errNoBearerToken
	}
	return header[len(prefix):], nil
}
