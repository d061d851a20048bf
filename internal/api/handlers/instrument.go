package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/danielhan/advisor/internal/contracts"
	"github.com/danielhan/advisor/internal/engine"
	"github.com/danielhan/advisor/pkg/logger"
)

// FundamentalsClient supplies the informational Piotroski checklist
// score shown on the instrument detail view.
type FundamentalsClient interface {
	PiotroskiScore(ctx context.Context, symbol string) (int, error)
}

// InstrumentHandler handles single-instrument API endpoints
type InstrumentHandler struct {
	resolver     *engine.Resolver
	fundamentals FundamentalsClient
	logger       *logger.Logger
}

// NewInstrumentHandler creates a new instrument handler
func NewInstrumentHandler(resolver *engine.Resolver, fundamentals FundamentalsClient, log *logger.Logger) *InstrumentHandler {
	return &InstrumentHandler{
		resolver:     resolver,
		fundamentals: fundamentals,
		logger:       log,
	}
}

// InstrumentResponse is one instrument snapshot with context signals.
type InstrumentResponse struct {
	Metrics        contracts.InstrumentMetrics `json:"metrics"`
	PiotroskiScore *int                        `json:"piotroski_score,omitempty"`
}

// GetInstrument returns the current snapshot for one symbol
// GET /api/v1/instruments/{symbol}
func (h *InstrumentHandler) GetInstrument(w http.ResponseWriter, r *http.Request) {
	symbol := strings.TrimSpace(mux.Vars(r)["symbol"])
	if symbol == "" {
		respondError(w, http.StatusBadRequest, "Symbol is required")
		return
	}

	metrics, ok := h.resolver.Resolve(r.Context(), symbol)
	if !ok {
		respondError(w, http.StatusNotFound, "No data available for symbol "+strings.ToUpper(symbol))
		return
	}

	resp := InstrumentResponse{Metrics: metrics}

	// Informational only; the recommendation score never uses it
	if h.fundamentals != nil {
		if score, err := h.fundamentals.PiotroskiScore(r.Context(), metrics.Symbol); err == nil {
			resp.PiotroskiScore = &score
		} else {
			h.logger.WithFields(map[string]interface{}{
				"symbol": metrics.Symbol,
				"error":  err.Error(),
			}).Debug("Piotroski score unavailable")
		}
	}

	respondJSON(w, http.StatusOK, resp)
}
