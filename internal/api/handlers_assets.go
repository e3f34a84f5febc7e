package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/token-portfolio/internal/models"
	"github.com/token-portfolio/internal/service"
)

// handleCreateAsset tracks a new asset for the authenticated user.
func (s *Server) handleCreateAsset(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required", nil)
		return
	}

	var input service.CreateAssetInput
	if err := parseJSONBody(r, &input); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	asset, err := s.assetService.CreateAsset(r.Context(), userID, input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, asset)
}

// handleListAssets returns all assets tracked by the authenticated user.
func (s *Server) handleListAssets(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required", nil)
		return
	}

	assets, err := s.assetService.ListAssets(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if assets == nil {
		assets = []*models.Asset{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"assets": assets,
		"count":  len(assets),
	})
}

// handleGetAsset returns one asset owned by the authenticated user.
func (s *Server) handleGetAsset(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required", nil)
		return
	}

	assetID := mux.Vars(r)["id"]

	asset, err := s.assetService.GetAsset(r.Context(), userID, assetID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, asset)
}

// handleDeleteAsset stops tracking an asset owned by the authenticated user.
func (s *Server) handleDeleteAsset(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required", nil)
		return
	}

	assetID := mux.Vars(r)["id"]

	if err := s.assetService.DeleteAsset(r.Context(), userID, assetID); err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleGetHistory returns one asset together with its daily price history.
func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required", nil)
		return
	}

	assetID := mux.Vars(r)["id"]

	asset, history, err := s.assetService.GetHistory(r.Context(), userID, assetID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if history == nil {
		history = []*models.PricePoint{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"asset":   asset,
		"history": history,
	})
}
