package api

import (
	"net/http"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	server *Server
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(s *Server) *HealthHandler {
	return &HealthHandler{server: s}
}

// HandleHealth handles GET /health requests with the identity envelope.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, envelope{IsSuccess: true, OfficialEmail: h.server.officialEmail})
}
