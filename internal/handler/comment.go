package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/nafisa/campgrounds/internal/service"
)

// CommentHandler manages comments nested under campsites.
//
// Edit and delete carry different authorization rules, enforced in the
// service: edit is strictly owner-only, delete accepts owner or admin.
type CommentHandler struct {
	campsites *service.CampsiteService
	logger    *slog.Logger
}

// NewCommentHandler creates a CommentHandler.
func NewCommentHandler(campsites *service.CampsiteService, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{campsites: campsites, logger: logger}
}

type commentRequest struct {
	Text string `json:"text"`
}

// HandleCreate adds a comment to a campsite.
//
// HTTP: POST /api/campsites/{id}/comments
// Body: {"text"}
func (h *CommentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	campsiteID := r.PathValue("id")
	if campsiteID == "" {
		http.Error(w, "campsite ID is required", http.StatusBadRequest)
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		http.Error(w, "comment text is required", http.StatusBadRequest)
		return
	}

	comment, err := h.campsites.AddComment(r.Context(), actor, campsiteID, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, comment)
}

// HandleUpdate edits a comment's text. Owner only — admins are refused on
// comments they did not author.
//
// HTTP: PUT /api/campsites/{id}/comments/{commentID}
func (h *CommentHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	campsiteID := r.PathValue("id")
	commentID := r.PathValue("commentID")
	if campsiteID == "" || commentID == "" {
		http.Error(w, "campsite and comment IDs are required", http.StatusBadRequest)
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		http.Error(w, "comment text is required", http.StatusBadRequest)
		return
	}

	comment, err := h.campsites.UpdateComment(r.Context(), actor, campsiteID, commentID, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, comment)
}

// HandleDelete removes a comment. Owner or admin.
//
// HTTP: DELETE /api/campsites/{id}/comments/{commentID}
func (h *CommentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	campsiteID := r.PathValue("id")
	commentID := r.PathValue("commentID")
	if campsiteID == "" || commentID == "" {
		http.Error(w, "campsite and comment IDs are required", http.StatusBadRequest)
		return
	}

	if err := h.campsites.DeleteComment(r.Context(), actor, campsiteID, commentID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
