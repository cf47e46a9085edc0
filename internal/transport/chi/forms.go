package chi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	domsub "github.com/taskdesk/taskdesk/internal/domain/submission"
)

// handleCreateForm handles POST /api/v1/forms. Admin only.
func (s *Server) handleCreateForm(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}

	var req formRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "form name is required")
		return
	}

	fields, err := fieldsFromPayload(req.Fields)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	def, err := s.forms.Create(r.Context(), req.Name, CallerPrincipal(r.Context()), fields)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, formToResponse(def))
}

// handleListForms handles GET /api/v1/forms.
func (s *Server) handleListForms(w http.ResponseWriter, r *http.Request) {
	defs, err := s.forms.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]formResponse, len(defs))
	for i, def := range defs {
		items[i] = formToResponse(def)
	}
	writeJSON(w, http.StatusOK, items)
}

// handleGetForm handles GET /api/v1/forms/{formID}.
func (s *Server) handleGetForm(w http.ResponseWriter, r *http.Request) {
	def, err := s.forms.Get(r.Context(), chi.URLParam(r, "formID"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, formToResponse(def))
}

// handleUpdateForm handles PUT /api/v1/forms/{formID}. Admin only.
func (s *Server) handleUpdateForm(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}

	var req formRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "form name is required")
		return
	}

	fields, err := fieldsFromPayload(req.Fields)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	def, err := s.forms.Update(r.Context(), chi.URLParam(r, "formID"), req.Name, fields)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, formToResponse(def))
}

// handleDeleteForm handles DELETE /api/v1/forms/{formID}. Admin only.
func (s *Server) handleDeleteForm(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if err := s.forms.Delete(r.Context(), chi.URLParam(r, "formID")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleValidateForm handles POST /api/v1/forms/{formID}/validate, a dry run
// of submission validation that persists nothing.
func (s *Server) handleValidateForm(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	err := s.submissions.Validate(r.Context(), chi.URLParam(r, "formID"), domsub.EditorState(req.Values))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"valid": true})
}

// handleSubmitForm handles POST /api/v1/forms/{formID}/submissions. The
// submission stands on its own, outside any task.
func (s *Server) handleSubmitForm(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	sub, err := s.submissions.SubmitStandalone(r.Context(), chi.URLParam(r, "formID"), domsub.EditorState(req.Values), CallerPrincipal(r.Context()))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, submissionToResponse(sub))
}

// handleListSubmissions handles GET /api/v1/submissions. With mine=1 only the
// caller's own submissions are returned.
func (s *Server) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	var (
		subs []domsub.Submission
		err  error
	)
	if r.URL.Query().Get("mine") == "1" {
		subs, err = s.submissions.ListBy(r.Context(), CallerPrincipal(r.Context()))
	} else {
		subs, err = s.submissions.List(r.Context())
	}
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]submissionResponse, len(subs))
	for i, sub := range subs {
		items[i] = submissionToResponse(sub)
	}
	writeJSON(w, http.StatusOK, items)
}

// handleListFormSubmissions handles GET /api/v1/forms/{formID}/submissions.
func (s *Server) handleListFormSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := s.submissions.ListByForm(r.Context(), chi.URLParam(r, "formID"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]submissionResponse, len(subs))
	for i, sub := range subs {
		items[i] = submissionToResponse(sub)
	}
	writeJSON(w, http.StatusOK, items)
}
