package handler

import (
	"net/http"

	"vv-api/internal/domain"
	"vv-api/internal/service"
	"vv-api/pkg/errors"
	"vv-api/pkg/logger"
)

// AIHandler serves the Gemini analysis endpoints. When no API key is
// configured the service is nil and every endpoint answers 502.
type AIHandler struct {
	judgeService service.JudgeService
	log          *logger.Logger
}

// NewAIHandler creates a new AI handler
func NewAIHandler(judgeService service.JudgeService, log *logger.Logger) *AIHandler {
	return &AIHandler{
		judgeService: judgeService,
		log:          log.Named("ai_handler"),
	}
}

// Judge handles POST /api/ai/judge
func (h *AIHandler) Judge(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}

	var req domain.JudgeRequest
	if appErr := decodeBody(r, &req); appErr != nil {
		respondError(w, r, appErr)
		return
	}
	if req.Performance1 == "" || req.Performance2 == "" {
		respondError(w, r, errors.NewValidationError("Both performances are required", nil))
		return
	}

	result, err := h.judgeService.JudgeBattle(r.Context(), &req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Analyze handles POST /api/ai/analyze
func (h *AIHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}

	var req domain.AnalyzeRequest
	if appErr := decodeBody(r, &req); appErr != nil {
		respondError(w, r, appErr)
		return
	}
	if req.AudioURL == "" && req.Transcript == "" {
		respondError(w, r, errors.NewValidationError("An audio URL or transcript is required", nil))
		return
	}

	result, err := h.judgeService.AnalyzePerformance(r.Context(), &req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Cypher handles POST /api/ai/cypher
func (h *AIHandler) Cypher(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}

	var req domain.CypherRequest
	if appErr := decodeBody(r, &req); appErr != nil {
		respondError(w, r, appErr)
		return
	}
	if req.Performance == "" {
		respondError(w, r, errors.NewValidationError("A performance is required", nil))
		return
	}

	result, err := h.judgeService.AnalyzeCypher(r.Context(), &req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Beats handles POST /api/ai/beats
func (h *AIHandler) Beats(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}

	var req domain.BeatRequest
	if appErr := decodeBody(r, &req); appErr != nil {
		respondError(w, r, appErr)
		return
	}
	if req.Style == "" || req.Mood == "" {
		respondError(w, r, errors.NewValidationError("Style and mood are required", nil))
		return
	}

	result, err := h.judgeService.SuggestBeats(r.Context(), &req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *AIHandler) available(w http.ResponseWriter, r *http.Request) bool {
	if h.judgeService == nil {
		respondError(w, r, errors.NewExternalError("AI analysis is not configured", nil))
		return false
	}
	return true
}
