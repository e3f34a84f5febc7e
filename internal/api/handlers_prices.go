package api

import (
	"net/http"
)

// handleUpdatePrices triggers an immediate ingestion sweep for today,
// outside the midnight schedule.
func (s *Server) handleUpdatePrices(w http.ResponseWriter, r *http.Request) {
	result, err := s.ingestionService.RunDailyIngestion(r.Context(), s.now().UTC())
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "Price ingestion failed", nil)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
