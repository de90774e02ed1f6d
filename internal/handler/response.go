package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nafisa/campgrounds/internal/apperror"
	"github.com/nafisa/campgrounds/internal/auth"
	"github.com/nafisa/campgrounds/internal/model"
)

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`   // machine-readable error type
	Message string `json:"message"` // human-readable description
}

// writeJSON sends a JSON response with the given status code. Headers and
// status must be written before the body — once Encode writes, headers are
// sent.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to an HTTP status code and sends it.
//
// Authentication failures map to 401 and authorization failures to 403.
// ErrUsernameTaken maps to 500: the signup endpoint's documented contract
// returns an error payload with status 500 on a taken username, not 409.
// Unrecognized errors become a generic 500 so internal details never leak.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	errorType := "internal_error"

	switch {
	case errors.Is(err, apperror.ErrNotFound):
		status = http.StatusNotFound
		errorType = "not_found"
	case errors.Is(err, apperror.ErrForbidden):
		status = http.StatusForbidden
		errorType = "forbidden"
	case errors.Is(err, apperror.ErrNotLoggedIn):
		status = http.StatusUnauthorized
		errorType = "not_logged_in"
	case errors.Is(err, apperror.ErrUnauthenticated),
		errors.Is(err, apperror.ErrBadCredentials),
		errors.Is(err, apperror.ErrTokenExpired),
		errors.Is(err, apperror.ErrInvalidToken):
		status = http.StatusUnauthorized
		errorType = "unauthenticated"
	case errors.Is(err, apperror.ErrUsernameTaken):
		status = http.StatusInternalServerError
		errorType = "username_taken"
	case errors.Is(err, apperror.ErrProvider):
		status = http.StatusInternalServerError
		errorType = "provider_error"
	case errors.Is(err, apperror.ErrStorage):
		status = http.StatusInternalServerError
		errorType = "storage_error"
	}

	// Use the AppError's message when one is in the chain; otherwise keep
	// the body generic rather than leaking internal error text.
	message := "An internal error occurred"
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	} else if errorType == "unauthenticated" {
		message = "valid authentication required"
	}

	writeJSON(w, status, ErrorResponse{
		Error:   errorType,
		Message: message,
	})
}

// actorFromRequest pulls the authenticated user set by the middleware.
// A missing user on a protected route answers 401 and returns false —
// it can only mean the route was wired without RequireAuth.
func actorFromRequest(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthenticated("valid authentication required"))
		return nil, false
	}
	return user, true
}
