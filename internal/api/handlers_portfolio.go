package api

import (
	"net/http"
	"time"
)

// handleGetPortfolio returns the portfolio snapshot for the authenticated
// user. An optional date query parameter (YYYY-MM-DD) values the portfolio
// as of that calendar day; the default is today.
func (s *Server) handleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required", nil)
		return
	}

	date := s.now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "date must be formatted as YYYY-MM-DD", nil)
			return
		}
		date = parsed
	}

	snapshot, err := s.valuationService.ValueAt(r.Context(), userID, date)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, snapshot)
}

// handleGetAnalytics returns current value, the 30-day value series, and
// PnL for the authenticated user.
func (s *Server) handleGetAnalytics(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required", nil)
		return
	}

	analytics, err := s.analyticsService.GetAnalytics(r.Context(), userID, s.now().UTC())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, analytics)
}
