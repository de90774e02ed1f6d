package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/nafisa/campgrounds/internal/repository"
	"github.com/nafisa/campgrounds/internal/service"
)

// CampsiteHandler manages CRUD operations for campsites.
//
// Reads are public; mutations require authentication, and the service layer
// enforces the admin requirement on top of that.
type CampsiteHandler struct {
	campsites *service.CampsiteService
	logger    *slog.Logger
}

// NewCampsiteHandler creates a CampsiteHandler.
func NewCampsiteHandler(campsites *service.CampsiteService, logger *slog.Logger) *CampsiteHandler {
	return &CampsiteHandler{campsites: campsites, logger: logger}
}

type campsiteRequest struct {
	Name        string `json:"name"`
	Image       string `json:"image"`
	Description string `json:"description"`
}

// HandleList returns all campsites.
//
// HTTP: GET /api/campsites?limit=&offset=
func (h *CampsiteHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	opts := repository.ListOptions{}
	if v := r.URL.Query().Get("limit"); v != "" {
		opts.Limit, _ = strconv.Atoi(v)
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		opts.Offset, _ = strconv.Atoi(v)
	}

	campsites, err := h.campsites.List(r.Context(), opts)
	if err != nil {
		h.logger.Error("listing campsites", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, campsites)
}

// HandleGet returns a single campsite with its comments.
//
// HTTP: GET /api/campsites/{id}
func (h *CampsiteHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "campsite ID is required", http.StatusBadRequest)
		return
	}

	campsite, err := h.campsites.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, campsite)
}

// HandleCreate adds a new campsite. Admin only.
//
// HTTP: POST /api/campsites
// Body: {"name","image","description"}
func (h *CampsiteHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	var req campsiteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "campsite name is required", http.StatusBadRequest)
		return
	}

	campsite, err := h.campsites.Create(r.Context(), actor, service.CampsiteInput{
		Name:        req.Name,
		Image:       req.Image,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, campsite)
}

// HandleUpdate modifies a campsite. Admin only.
//
// HTTP: PUT /api/campsites/{id}
func (h *CampsiteHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "campsite ID is required", http.StatusBadRequest)
		return
	}

	var req campsiteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	campsite, err := h.campsites.Update(r.Context(), actor, id, service.CampsiteInput{
		Name:        req.Name,
		Image:       req.Image,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, campsite)
}

// HandleDelete removes a campsite. Admin only.
//
// HTTP: DELETE /api/campsites/{id}
func (h *CampsiteHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "campsite ID is required", http.StatusBadRequest)
		return
	}

	if err := h.campsites.Delete(r.Context(), actor, id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
