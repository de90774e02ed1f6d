// Package apperror defines the application's error kinds.
//
// Services return errors wrapping one of the sentinel values below; the HTTP
// layer maps each kind to a status code with errors.Is, without the service
// layer ever knowing about HTTP.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrBadCredentials  = errors.New("bad credentials")
	ErrUsernameTaken   = errors.New("username taken")
	ErrInvalidToken    = errors.New("invalid token")
	ErrTokenExpired    = errors.New("token expired")
	ErrProvider        = errors.New("identity provider error")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotLoggedIn     = errors.New("not logged in")
	ErrStorage         = errors.New("storage error")
)

// AppError pairs a sentinel error kind with a human-readable message.
// Handlers use the kind for the HTTP status and the message for the body.
type AppError struct {
	Err     error  // sentinel kind, matched with errors.Is
	Message string // human-readable error message
	Field   string // optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func BadCredentials() *AppError {
	return &AppError{
		Err:     ErrBadCredentials,
		Message: "invalid username or password",
	}
}

func UsernameTaken(username string) *AppError {
	return &AppError{
		Err:     ErrUsernameTaken,
		Message: fmt.Sprintf("username %s is already taken", username),
		Field:   "username",
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// Unauthenticated returns an AppError for requests missing a valid identity.
// HTTP handlers map this to 401 Unauthorized.
func Unauthenticated(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthenticated,
		Message: message,
	}
}

// NotLoggedIn returns an AppError for session-based operations attempted
// without an active session. HTTP handlers map this to 401 Unauthorized.
func NotLoggedIn() *AppError {
	return &AppError{
		Err:     ErrNotLoggedIn,
		Message: "no active session",
	}
}

// Storage wraps a credential-store failure so it surfaces as a 500 while the
// underlying driver error stays reachable through the chain for logging.
func Storage(op string, err error) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %w", ErrStorage, err),
		Message: fmt.Sprintf("storage failure during %s", op),
	}
}
