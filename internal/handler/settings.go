package handler

import (
	"net/http"

	"github.com/pkordes/specdeck/internal/domain"
)

func tokenStatusToResponse(st domain.TokenStatus) TokenStatus {
	return TokenStatus{Configured: st.Configured, Hint: st.Hint}
}

// GetToken handles GET /settings/token. Only whether a token is set and its
// last characters are reported.
func (s *Server) GetToken(w http.ResponseWriter, r *http.Request) {
	st, err := s.settings.Status(r.Context())
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, tokenStatusToResponse(st))
}

// PutToken handles PUT /settings/token.
func (s *Server) PutToken(w http.ResponseWriter, r *http.Request) {
	var body SetTokenRequest
	if !decodeBody(w, r, &body) {
		return
	}
	st, err := s.settings.SetToken(r.Context(), body.Token)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, tokenStatusToResponse(st))
}

// DeleteToken handles DELETE /settings/token.
func (s *Server) DeleteToken(w http.ResponseWriter, r *http.Request) {
	if err := s.settings.ClearToken(r.Context()); err != nil {
		s.writeError(w, r, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
