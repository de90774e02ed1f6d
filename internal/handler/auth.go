package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nafisa/campgrounds/internal/apperror"
	"github.com/nafisa/campgrounds/internal/auth"
	"github.com/nafisa/campgrounds/internal/service"
)

// sessionStore is the slice of auth.SessionStore the handler needs.
type sessionStore interface {
	Create(ctx context.Context, userID string) (string, error)
	Get(ctx context.Context, sessionID string) (string, error)
	Delete(ctx context.Context, sessionID string) error
}

// AuthHandler manages signup, login (local and Facebook), logout, and the
// current-user endpoint.
//
// Login issues two things: a bearer token in the response body (for API
// clients) and a session cookie (for browsers). Logout only removes the
// session — the token is stateless and stays valid until its expiry.
type AuthHandler struct {
	authService *service.AuthService
	sessions    sessionStore
	logger      *slog.Logger
}

// NewAuthHandler creates an AuthHandler. All dependencies are injected;
// the handler has no knowledge of how they're constructed.
func NewAuthHandler(authService *service.AuthService, sessions sessionStore, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
		logger:      logger,
	}
}

type signupRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type facebookLoginRequest struct {
	AccessToken string `json:"access_token"`
}

// HandleSignup registers a new local account.
//
// HTTP: POST /api/signup
// Body: {"username","password","firstname"?,"lastname"?}
//
// Success: {"success":true,"status":"Registration Successful!"}
// A taken username produces an error payload with status 500 — that status
// is part of the documented interface, see writeError.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Username == "" || req.Password == "" {
		http.Error(w, "username and password are required", http.StatusBadRequest)
		return
	}

	if _, err := h.authService.Register(r.Context(), req.Username, req.Password, req.FirstName, req.LastName); err != nil {
		h.logger.Warn("signup failed",
			slog.String("username", req.Username),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"status":  "Registration Successful!",
	})
}

// HandleLogin authenticates a local user and issues a token.
//
// HTTP: POST /api/login
// Body: {"username","password"}
//
// Success: {"success":true,"token":...,"status":"You are successfully logged in!"}
// An unknown username and a wrong password both answer 401 — distinguishing
// them would let callers probe which usernames exist.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	result, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) || errors.Is(err, apperror.ErrBadCredentials) {
			writeError(w, apperror.BadCredentials())
			return
		}
		writeError(w, err)
		return
	}

	h.startSession(w, r, result.User.ID)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"token":   result.Token,
		"status":  "You are successfully logged in!",
	})
}

// HandleFacebookLogin authenticates with a client-supplied Facebook access
// token, creating the local account on first login.
//
// HTTP: POST /api/facebook/login
// Body: {"access_token"}
func (h *AuthHandler) HandleFacebookLogin(w http.ResponseWriter, r *http.Request) {
	var req facebookLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.AccessToken == "" {
		http.Error(w, "access_token is required", http.StatusBadRequest)
		return
	}

	result, err := h.authService.LoginOrRegisterFacebook(r.Context(), req.AccessToken)
	if err != nil {
		h.logger.Warn("facebook login failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	h.startSession(w, r, result.User.ID)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"token":   result.Token,
		"status":  "You are successfully logged in!",
	})
}

// HandleLogout ends the browser session.
//
// HTTP: GET /api/logout
//
// Without a session cookie — or with one naming a session that has already
// expired or been deleted — this answers 401 not_logged_in. Otherwise the
// session is deleted server-side and the cookie cleared. Any bearer token
// issued at login is unaffected and expires on its own.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(auth.SessionCookie)
	if err != nil || cookie.Value == "" {
		writeError(w, apperror.NotLoggedIn())
		return
	}

	userID, err := h.sessions.Get(r.Context(), cookie.Value)
	if err != nil {
		h.logger.Error("logout: looking up session", slog.String("error", err.Error()))
		writeError(w, apperror.Storage("session lookup", err))
		return
	}
	if userID == "" {
		writeError(w, apperror.NotLoggedIn())
		return
	}

	if err := h.sessions.Delete(r.Context(), cookie.Value); err != nil {
		h.logger.Error("logout: deleting session", slog.String("error", err.Error()))
		writeError(w, apperror.Storage("session delete", err))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "status": "Logged out"})
}

// HandleMe returns the authenticated user's profile.
//
// HTTP: GET /api/me
// Auth: required (middleware puts the resolved user in the context)
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		// Should never happen on a RequireAuth-protected route, but be safe.
		writeError(w, apperror.Unauthenticated("valid authentication required"))
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// startSession creates a Redis session and sets its cookie. A session
// failure is logged but does not fail the login — the token alone is a
// complete credential.
func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, userID string) {
	sid, err := h.sessions.Create(r.Context(), userID)
	if err != nil {
		h.logger.Error("creating session", slog.String("userID", userID), slog.String("error", err.Error()))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    sid,
		Path:     "/",
		MaxAge:   int(auth.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
