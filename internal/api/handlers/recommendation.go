package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/danielhan/advisor/internal/contracts"
	"github.com/danielhan/advisor/internal/engine"
	"github.com/danielhan/advisor/pkg/logger"
)

// RecommendationHandler handles recommendation API endpoints
type RecommendationHandler struct {
	engine *engine.Engine
	logger *logger.Logger
}

// NewRecommendationHandler creates a new recommendation handler
func NewRecommendationHandler(eng *engine.Engine, log *logger.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		engine: eng,
		logger: log,
	}
}

// RecommendationResponse is the success payload.
type RecommendationResponse struct {
	Count   int                          `json:"count"`
	Results []contracts.RankedInstrument `json:"results"`
}

// Recommend runs one profile through the engine
// POST /api/v1/recommendations?n=5
func (h *RecommendationHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var profile contracts.InvestmentProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	n := 0
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 50 {
			respondError(w, http.StatusBadRequest, "Query parameter n must be an integer between 1 and 50")
			return
		}
		n = parsed
	}

	ranked, err := h.engine.Recommend(r.Context(), profile, n)
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrNoMatches):
			respondError(w, http.StatusNotFound, "No instruments match the profile; relax the criteria and retry")
		default:
			// Engine rejects bad profiles before doing any work
			respondError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	respondJSON(w, http.StatusOK, RecommendationResponse{
		Count:   len(ranked),
		Results: ranked,
	})
}
