package chi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	dommaster "github.com/taskdesk/taskdesk/internal/domain/master"
)

// handleListMasterKinds handles GET /api/v1/masters.
func (s *Server) handleListMasterKinds(w http.ResponseWriter, r *http.Request) {
	kinds := dommaster.Kinds()
	items := make([]string, len(kinds))
	for i, k := range kinds {
		items[i] = string(k)
	}
	writeJSON(w, http.StatusOK, items)
}

func masterKind(w http.ResponseWriter, r *http.Request) (dommaster.Kind, bool) {
	kind, err := dommaster.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, http.StatusNotFound, codeNotFound, err.Error())
		return "", false
	}
	return kind, true
}

// handleListMasterRecords handles GET /api/v1/masters/{kind}.
func (s *Server) handleListMasterRecords(w http.ResponseWriter, r *http.Request) {
	kind, ok := masterKind(w, r)
	if !ok {
		return
	}

	records, err := s.masters.ListRecords(r.Context(), kind)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]recordResponse, len(records))
	for i, rec := range records {
		items[i] = recordToResponse(rec)
	}
	writeJSON(w, http.StatusOK, items)
}

// handleCreateMasterRecord handles POST /api/v1/masters/{kind}. Admin only.
func (s *Server) handleCreateMasterRecord(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	kind, ok := masterKind(w, r)
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	rec, err := s.masters.CreateRecord(r.Context(), kind, req.Name)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, recordToResponse(rec))
}

// handleRenameMasterRecord handles PUT /api/v1/masters/{kind}/{recordID}. Admin only.
func (s *Server) handleRenameMasterRecord(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	kind, ok := masterKind(w, r)
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	rec, err := s.masters.RenameRecord(r.Context(), kind, chi.URLParam(r, "recordID"), req.Name)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recordToResponse(rec))
}

// handleDeleteMasterRecord handles DELETE /api/v1/masters/{kind}/{recordID}. Admin only.
func (s *Server) handleDeleteMasterRecord(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	kind, ok := masterKind(w, r)
	if !ok {
		return
	}

	if err := s.masters.DeleteRecord(r.Context(), kind, chi.URLParam(r, "recordID")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListMasterLists handles GET /api/v1/master-lists.
func (s *Server) handleListMasterLists(w http.ResponseWriter, r *http.Request) {
	lists, err := s.masters.ListLists(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]masterListResponse, len(lists))
	for i, l := range lists {
		items[i] = listToResponse(l)
	}
	writeJSON(w, http.StatusOK, items)
}

// handleCreateMasterList handles POST /api/v1/master-lists. Admin only.
func (s *Server) handleCreateMasterList(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}

	var req masterListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	l, err := s.masters.CreateList(r.Context(), req.Name, itemsFromPayload(req.Items))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, listToResponse(l))
}

// handleGetMasterList handles GET /api/v1/master-lists/{listID}.
func (s *Server) handleGetMasterList(w http.ResponseWriter, r *http.Request) {
	l, err := s.masters.GetList(r.Context(), chi.URLParam(r, "listID"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listToResponse(l))
}

// handleUpdateMasterList handles PUT /api/v1/master-lists/{listID}. Admin only.
func (s *Server) handleUpdateMasterList(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}

	var req masterListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	l, err := s.masters.UpdateList(r.Context(), chi.URLParam(r, "listID"), req.Name, itemsFromPayload(req.Items))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listToResponse(l))
}

// handleDeleteMasterList handles DELETE /api/v1/master-lists/{listID}. Admin only.
func (s *Server) handleDeleteMasterList(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if err := s.masters.DeleteList(r.Context(), chi.URLParam(r, "listID")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleMasterOptions handles GET /api/v1/master-lists/options?ref=...
// The ref is the same form a choice field carries, "fixed:<kind>" or "list:<id>".
func (s *Server) handleMasterOptions(w http.ResponseWriter, r *http.Request) {
	ref := r.URL.Query().Get("ref")
	if ref == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "missing ref query parameter")
		return
	}

	items, err := s.masters.Options(r.Context(), ref)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, itemsToPayload(items))
}
