package handler

import (
	"log/slog"
	"net/http"

	"github.com/nafisa/campgrounds/internal/service"
)

// FavoriteHandler manages the acting user's favorite campsites.
// All routes require authentication; favorites are always the caller's own.
type FavoriteHandler struct {
	campsites *service.CampsiteService
	logger    *slog.Logger
}

// NewFavoriteHandler creates a FavoriteHandler.
func NewFavoriteHandler(campsites *service.CampsiteService, logger *slog.Logger) *FavoriteHandler {
	return &FavoriteHandler{campsites: campsites, logger: logger}
}

// HandleList returns the caller's favorite campsites.
//
// HTTP: GET /api/favorites
func (h *FavoriteHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	campsites, err := h.campsites.ListFavorites(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, campsites)
}

// HandleAdd marks a campsite as a favorite. Idempotent.
//
// HTTP: POST /api/favorites/{id}
func (h *FavoriteHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "campsite ID is required", http.StatusBadRequest)
		return
	}

	if err := h.campsites.Favorite(r.Context(), actor, id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// HandleRemove removes a campsite from the caller's favorites. Idempotent.
//
// HTTP: DELETE /api/favorites/{id}
func (h *FavoriteHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "campsite ID is required", http.StatusBadRequest)
		return
	}

	if err := h.campsites.Unfavorite(r.Context(), actor, id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
