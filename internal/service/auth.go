// Package service holds the business logic, between the HTTP handlers and
// the repositories.
//
//	handler (HTTP) → service (rules) → repository (MongoDB)
//	               ↘ auth (tokens, passwords, provider)
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nafisa/campgrounds/internal/apperror"
	"github.com/nafisa/campgrounds/internal/auth"
	"github.com/nafisa/campgrounds/internal/model"
	"github.com/nafisa/campgrounds/internal/repository"
)

// FacebookVerifier exchanges a client-supplied access token for a verified
// profile. Satisfied by *auth.FacebookProvider; tests substitute a fake.
type FacebookVerifier interface {
	VerifyToken(ctx context.Context, accessToken string) (*auth.FacebookProfile, error)
}

// AuthService handles registration, login, and token validation.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	facebook  FacebookVerifier
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
// Called from the server's composition root.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	facebook FacebookVerifier,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		facebook:  facebook,
		logger:    logger,
	}
}

// AuthResult bundles the user record and the issued token so the handler
// can respond in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Register creates a new local account.
//
// Fails with apperror.ErrUsernameTaken if the username exists, leaving the
// store untouched. On success the returned user is already authenticated —
// the caller can issue a token without a second round trip.
func (s *AuthService) Register(ctx context.Context, username, password, firstName, lastName string) (*model.User, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("service/auth: username and password are required")
	}

	// Pre-check for a friendlier error; the unique index catches the
	// concurrent-signup race and reports the same kind.
	_, err := s.users.GetByUsername(ctx, username)
	if err == nil {
		return nil, fmt.Errorf("service/auth: %w", apperror.UsernameTaken(username))
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/auth: checking username %q: %w", username, err)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: %w", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: creating user %q: %w", username, err)
	}

	s.logger.Info("user registered", slog.String("userID", user.ID), slog.String("username", username))
	return user, nil
}

// Authenticate verifies a username/password pair against the credential
// store.
//
// Fails with apperror.ErrNotFound for an unknown username and
// apperror.ErrBadCredentials for a wrong password (the bcrypt comparison is
// constant-time). On success returns the user record.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("service/auth: authenticating %q: %w", username, err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, fmt.Errorf("service/auth: authenticating %q: %w", username, err)
	}

	return user, nil
}

// Login authenticates a local user and issues a bearer token for them.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return s.issueFor(user)
}

// LoginOrRegisterFacebook handles Facebook-token login.
//
// The access token is verified with the provider; a transport or provider
// failure surfaces as apperror.ErrProvider. The verified profile id is then
// resolved to a local user: if a link exists the same user is returned, and
// on first login a new user is created with the provider's display name as
// its username and the given/family names copied over.
//
// A display-name collision with an existing local username is not checked
// here; the unique index rejects the insert and the failure propagates.
func (s *AuthService) LoginOrRegisterFacebook(ctx context.Context, accessToken string) (*AuthResult, error) {
	profile, err := s.facebook.VerifyToken(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("service/auth: %w", err)
	}

	user, err := s.users.GetByFacebookID(ctx, profile.ID)
	switch {
	case err == nil:
		// Link already established.
	case errors.Is(err, apperror.ErrNotFound):
		// First login with this identity: create the local record.
		user = &model.User{
			Username:   profile.Name,
			FacebookID: profile.ID,
			FirstName:  profile.FirstName,
			LastName:   profile.LastName,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("service/auth: creating facebook user %q: %w", profile.ID, err)
		}
		s.logger.Info("user registered via facebook",
			slog.String("userID", user.ID),
			slog.String("username", user.Username),
		)
	default:
		return nil, fmt.Errorf("service/auth: looking up facebook user %q: %w", profile.ID, err)
	}

	return s.issueFor(user)
}

// GetUserByID returns the user for the given internal id. Used by the /me
// handler after the middleware has validated the token.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, fmt.Errorf("service/auth: user ID must not be empty")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/auth: fetching user %s: %w", id, err)
	}

	return user, nil
}

// ValidateToken validates a token string and returns the user id it
// encodes. Thin delegation to the token service so callers only need this
// package.
func (s *AuthService) ValidateToken(tokenStr string) (string, error) {
	userID, err := s.tokens.Validate(tokenStr)
	if err != nil {
		return "", fmt.Errorf("service/auth: %w", err)
	}
	return userID, nil
}

func (s *AuthService) issueFor(user *model.User) (*AuthResult, error) {
	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user authenticated",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	return &AuthResult{User: user, Token: token}, nil
}
