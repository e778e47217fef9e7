package handler

import (
	"net/http"

	"vv-api/internal/domain"
	"vv-api/internal/middleware"
	"vv-api/internal/service"
	"vv-api/internal/validation"
	"vv-api/pkg/logger"

	"github.com/go-chi/chi/v5"
)

// MediaHandler serves the media library endpoints
type MediaHandler struct {
	mediaService service.MediaService
	log          *logger.Logger
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(mediaService service.MediaService, log *logger.Logger) *MediaHandler {
	return &MediaHandler{
		mediaService: mediaService,
		log:          log.Named("media_handler"),
	}
}

// Upload handles POST /api/media
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	var req domain.MediaUploadRequest
	if appErr := decodeBody(r, &req); appErr != nil {
		respondError(w, r, appErr)
		return
	}
	if err := validation.MediaUpload(&req); err != nil {
		respondError(w, r, err)
		return
	}

	item, err := h.mediaService.Upload(r.Context(), user.ID, &req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, item)
}

// Feed handles GET /api/media. Anonymous viewers see public approved
// items only; signed-in viewers also see their own uploads.
func (h *MediaHandler) Feed(w http.ResponseWriter, r *http.Request) {
	viewerID := viewerID(r)
	limit := parseLimit(r.URL.Query().Get("limit"), defaultListLimit, maxListLimit)

	items, err := h.mediaService.Feed(r.Context(), viewerID, limit)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// Get handles GET /api/media/{mediaId}
func (h *MediaHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.mediaService.Get(r.Context(), chi.URLParam(r, "mediaId"), viewerID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// View handles POST /api/media/{mediaId}/view
func (h *MediaHandler) View(w http.ResponseWriter, r *http.Request) {
	if err := h.mediaService.RecordView(r.Context(), chi.URLParam(r, "mediaId"), viewerID(r)); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusAccepted, map[string]string{"status": "recorded"})
}

// Like handles POST /api/media/{mediaId}/like
func (h *MediaHandler) Like(w http.ResponseWriter, r *http.Request) {
	if err := h.mediaService.RecordLike(r.Context(), chi.URLParam(r, "mediaId"), viewerID(r)); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusAccepted, map[string]string{"status": "recorded"})
}

// viewerID returns the caller's user id, or "" for anonymous viewers
func viewerID(r *http.Request) string {
	if user := middleware.UserFromContext(r.Context()); user != nil {
		return user.ID
	}
	return ""
}
