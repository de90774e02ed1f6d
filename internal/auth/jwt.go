// Package auth provides the authentication building blocks for the API:
// JWT issuance and verification, bcrypt password hashing, Facebook
// access-token verification, Redis-backed sessions, and the request
// middleware and authorization guards built on top of them.
//
// Tokens are stateless: everything needed to verify a request (user id,
// expiry) is inside the signed token, so no lookup is required beyond
// resolving the user record. There is no revocation — a token stays valid
// until its expiry regardless of logout.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nafisa/campgrounds/internal/apperror"
)

// TokenLifetime is how long an issued token verifies after issuance.
// Expiry is exact: a token is valid for [iat, iat+TokenLifetime) and
// rejected at or after the boundary. No clock-skew leeway is applied.
const TokenLifetime = 3600 * time.Second

const issuer = "campgrounds"

// TokenService issues and verifies HS256-signed bearer tokens.
//
// It holds the HMAC secret used for both signing and verification. The
// secret is process-wide configuration, loaded once at startup and passed
// in here — never read from ambient globals.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the JWT payload. jwt.RegisteredClaims carries the standard
// fields; "sub" holds the user id, "iat"/"exp" the lifetime.
type claims struct {
	jwt.RegisteredClaims
}

// Generate creates and signs a bearer token for the given userID with the
// standard one-hour lifetime.
func (s *TokenService) Generate(userID string) (string, error) {
	return s.GenerateWithDuration(userID, TokenLifetime)
}

// GenerateWithDuration creates a token with a custom expiry duration.
// Used by tests to mint already-expired tokens.
func (s *TokenService) GenerateWithDuration(userID string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a token string and returns the user id it
// encodes.
//
// Failure modes map onto the application error kinds:
//   - apperror.ErrTokenExpired when the current time is past "exp"
//   - apperror.ErrInvalidToken for a bad signature, wrong algorithm,
//     wrong issuer, or malformed claims
//
// Restricting the accepted methods to HS256 prevents algorithm-confusion
// attacks where a token declares "none" or an asymmetric scheme.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: %w", apperror.ErrTokenExpired)
		}
		return "", fmt.Errorf("auth: %w: %w", apperror.ErrInvalidToken, err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: %w: bad claims", apperror.ErrInvalidToken)
	}

	if c.Subject == "" {
		return "", fmt.Errorf("auth: %w: token has no subject", apperror.ErrInvalidToken)
	}

	return c.Subject, nil
}
