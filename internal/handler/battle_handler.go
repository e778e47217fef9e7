package handler

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"vv-api/internal/domain"
	"vv-api/internal/middleware"
	"vv-api/internal/service"
	"vv-api/internal/validation"
	"vv-api/pkg/logger"

	"github.com/go-chi/chi/v5"
)

const (
	defaultListLimit = 20
	maxListLimit     = 50
	defaultChatLimit = 50
)

// BattleHandler serves the battle lifecycle and chat endpoints
type BattleHandler struct {
	battleService service.BattleService
	log           *logger.Logger
}

// NewBattleHandler creates a new battle handler
func NewBattleHandler(battleService service.BattleService, log *logger.Logger) *BattleHandler {
	return &BattleHandler{
		battleService: battleService,
		log:           log.Named("battle_handler"),
	}
}

// Create handles POST /api/battles
func (h *BattleHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	var req domain.CreateBattleRequest
	if appErr := decodeBody(r, &req); appErr != nil {
		respondError(w, r, appErr)
		return
	}
	if err := validation.BattleCreate(&req); err != nil {
		respondError(w, r, err)
		return
	}

	battle, err := h.battleService.Create(r.Context(), user, &req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, battle)
}

// List handles GET /api/battles?status=&limit=
func (h *BattleHandler) List(w http.ResponseWriter, r *http.Request) {
	status := domain.BattleStatus(r.URL.Query().Get("status"))
	limit := parseLimit(r.URL.Query().Get("limit"), defaultListLimit, maxListLimit)

	battles, err := h.battleService.List(r.Context(), status, limit)
	if err != nil {
		respondError(w, r, err)
		return
	}

	// The list is polled by lobby dashboards
	etag := listETag(battles)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, max-age=10")
	respondJSON(w, http.StatusOK, battles)
}

// Get handles GET /api/battles/{battleId}
func (h *BattleHandler) Get(w http.ResponseWriter, r *http.Request) {
	battle, err := h.battleService.Get(r.Context(), chi.URLParam(r, "battleId"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, battle)
}

// Join handles POST /api/battles/{battleId}/join
func (h *BattleHandler) Join(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	battle, err := h.battleService.Join(r.Context(), chi.URLParam(r, "battleId"), user)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, battle)
}

// SubmitPerformance handles POST /api/battles/{battleId}/performance
func (h *BattleHandler) SubmitPerformance(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	var req domain.SubmitPerformanceRequest
	if appErr := decodeBody(r, &req); appErr != nil {
		respondError(w, r, appErr)
		return
	}

	battle, err := h.battleService.SubmitPerformance(r.Context(), chi.URLParam(r, "battleId"), user.ID, req.Content)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, battle)
}

// CastVote handles POST /api/battles/{battleId}/votes
func (h *BattleHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	var req domain.CastVoteRequest
	if appErr := decodeBody(r, &req); appErr != nil {
		respondError(w, r, appErr)
		return
	}

	battle, err := h.battleService.CastVote(r.Context(), chi.URLParam(r, "battleId"), user.ID, req.ParticipantID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, battle)
}

// Finalize handles POST /api/battles/{battleId}/finalize
func (h *BattleHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	battle, err := h.battleService.Finalize(r.Context(), chi.URLParam(r, "battleId"), user.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, battle)
}

// PostChat handles POST /api/battles/{battleId}/chat
func (h *BattleHandler) PostChat(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	var req domain.ChatMessageRequest
	if appErr := decodeBody(r, &req); appErr != nil {
		respondError(w, r, appErr)
		return
	}
	if err := validation.ChatMessage(&req); err != nil {
		respondError(w, r, err)
		return
	}

	msg, err := h.battleService.PostChatMessage(r.Context(), chi.URLParam(r, "battleId"), user, req.Message)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, msg)
}

// ListChat handles GET /api/battles/{battleId}/chat
func (h *BattleHandler) ListChat(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r.URL.Query().Get("limit"), defaultChatLimit, maxListLimit*2)

	messages, err := h.battleService.ListChat(r.Context(), chi.URLParam(r, "battleId"), limit)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, messages)
}

func listETag(data interface{}) string {
	jsonData, _ := json.Marshal(data)
	hash := md5.Sum(jsonData)
	return fmt.Sprintf(`"%x"`, hash)
}

// parseLimit parses a limit query parameter with a default and a cap
func parseLimit(raw string, def, max int) int {
	if raw == "" {
		return def
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
