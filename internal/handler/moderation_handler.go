package handler

import (
	"net/http"

	"vv-api/internal/domain"
	"vv-api/internal/middleware"
	"vv-api/internal/service"
	"vv-api/pkg/logger"

	"github.com/go-chi/chi/v5"
)

// ModerationHandler serves the review queue endpoints
type ModerationHandler struct {
	moderationService service.ModerationService
	log               *logger.Logger
}

// NewModerationHandler creates a new moderation handler
func NewModerationHandler(moderationService service.ModerationService, log *logger.Logger) *ModerationHandler {
	return &ModerationHandler{
		moderationService: moderationService,
		log:               log.Named("moderation_handler"),
	}
}

// Queue handles GET /api/moderation
func (h *ModerationHandler) Queue(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r.URL.Query().Get("limit"), defaultListLimit, maxListLimit)

	items, err := h.moderationService.Queue(r.Context(), limit)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// Review handles POST /api/moderation/{itemId}/review
func (h *ModerationHandler) Review(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	var req domain.ReviewRequest
	if appErr := decodeBody(r, &req); appErr != nil {
		respondError(w, r, appErr)
		return
	}

	item, err := h.moderationService.Review(r.Context(), chi.URLParam(r, "itemId"), user.ID, req.Action)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}
