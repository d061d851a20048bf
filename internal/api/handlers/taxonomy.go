package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/danielhan/advisor/internal/taxonomy"
	"github.com/danielhan/advisor/pkg/logger"
)

// TaxonomyHandler exposes the sector reference data
type TaxonomyHandler struct {
	taxonomy *taxonomy.Taxonomy
	logger   *logger.Logger
}

// NewTaxonomyHandler creates a new taxonomy handler
func NewTaxonomyHandler(tax *taxonomy.Taxonomy, log *logger.Logger) *TaxonomyHandler {
	return &TaxonomyHandler{
		taxonomy: tax,
		logger:   log,
	}
}

// SectorInfo summarizes one sector's instrument coverage.
type SectorInfo struct {
	Tag         string `json:"tag"`
	Equities    int    `json:"equities"`
	ETFs        int    `json:"etfs"`
	MutualFunds int    `json:"mutual_funds"`
	Bonds       int    `json:"bonds"`
}

// GetSectors lists the known sector tags and their table sizes
// GET /api/v1/taxonomy/sectors
func (h *TaxonomyHandler) GetSectors(w http.ResponseWriter, r *http.Request) {
	sectors := h.taxonomy.Sectors()

	infos := make([]SectorInfo, 0, len(sectors))
	for _, tag := range sectors {
		infos = append(infos, SectorInfo{
			Tag:         tag,
			Equities:    len(h.taxonomy.SectorEquities(tag)),
			ETFs:        len(h.taxonomy.SectorETFs(tag)),
			MutualFunds: len(h.taxonomy.SectorMutualFunds(tag)),
			Bonds:       len(h.taxonomy.SectorBonds(tag)),
		})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(infos),
		"sectors": infos,
	})
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
