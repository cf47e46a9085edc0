package chi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	domid "github.com/taskdesk/taskdesk/internal/domain/identity"
)

// handleWhoami handles GET /api/v1/me.
func (s *Server) handleWhoami(w http.ResponseWriter, r *http.Request) {
	info, err := s.identity.Whoami(r.Context(), CallerPrincipal(r.Context()), CallerTokenRole(r.Context()))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, whoamiToResponse(info))
}

// handleSaveProfile handles PUT /api/v1/me/profile.
func (s *Server) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	var req profilePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	p := CallerPrincipal(r.Context())
	profile, err := s.identity.SaveProfile(r.Context(), p, req.Name, req.Email, req.Department)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profilePayload{
		Name:       profile.Name(),
		Email:      profile.Email(),
		Department: profile.Department(),
	})
}

// handleAssignRole handles PUT /api/v1/roles/{principal}. Admin only.
func (s *Server) handleAssignRole(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}

	var req assignRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	principal := domid.Principal(chi.URLParam(r, "principal"))
	role, err := s.identity.AssignRole(r.Context(), principal, req.Role)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"principal": principal.String(),
		"role":      string(role),
	})
}
