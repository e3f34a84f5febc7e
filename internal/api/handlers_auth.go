package api

import (
	"net/http"
	"strings"
)

// loginRequest is the body of a login call
type loginRequest struct {
	Token string `json:"token"`
}

// handleLogin exchanges an external identity token for a session token,
// creating the user on first login.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	if strings.TrimSpace(req.Token) == "" {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "token is required", nil)
		return
	}

	result, err := s.authService.Login(r.Context(), req.Token)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
