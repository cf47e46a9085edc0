package chi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	domsub "github.com/taskdesk/taskdesk/internal/domain/submission"
	domtask "github.com/taskdesk/taskdesk/internal/domain/task"
	taskuc "github.com/taskdesk/taskdesk/internal/usecase/task"
)

// handleCreateTask handles POST /api/v1/tasks.
func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	assignment, err := assignmentFromPayload(req.Assignment)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	t, err := s.tasks.Create(r.Context(), taskuc.CreateParams{
		TaskType:      req.TaskType,
		Status:        req.Status,
		Priority:      req.Priority,
		Assignment:    assignment,
		DueDate:       req.DueDate,
		AttachedForms: req.AttachedForms,
	}, CallerPrincipal(r.Context()))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.taskToResponse(t))
}

// handleListTasks handles GET /api/v1/tasks. The scope query parameter
// narrows the listing: "my" (owned or assigned to the caller), "pool" (the
// caller's department pool), or the default of every task.
func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	var (
		tasks []domtask.Task
		err   error
	)
	switch scope := r.URL.Query().Get("scope"); scope {
	case "", "all":
		tasks, err = s.tasks.List(r.Context())
	case "my":
		tasks, err = s.tasks.ListMine(r.Context(), CallerPrincipal(r.Context()))
	case "pool":
		info, werr := s.identity.Whoami(r.Context(), CallerPrincipal(r.Context()), CallerTokenRole(r.Context()))
		if werr != nil {
			s.handleDomainError(w, werr)
			return
		}
		if !info.HasProfile || info.Profile.Department() == "" {
			writeJSON(w, http.StatusOK, []taskResponse{})
			return
		}
		tasks, err = s.tasks.ListPool(r.Context(), info.Profile.Department())
	default:
		writeError(w, http.StatusBadRequest, codeBadRequest, "unknown scope: "+scope)
		return
	}
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]taskResponse, len(tasks))
	for i, t := range tasks {
		items[i] = s.taskToResponse(t)
	}
	writeJSON(w, http.StatusOK, items)
}

// handleGetTask handles GET /api/v1/tasks/{taskID}.
func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	t, err := s.tasks.Get(r.Context(), chi.URLParam(r, "taskID"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.taskToResponse(t))
}

// handleAssignTask handles POST /api/v1/tasks/{taskID}/assign.
func (s *Server) handleAssignTask(w http.ResponseWriter, r *http.Request) {
	var req assignmentPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	assignment, err := assignmentFromPayload(&req)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	t, err := s.tasks.Assign(r.Context(), chi.URLParam(r, "taskID"), assignment, CallerPrincipal(r.Context()))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.taskToResponse(t))
}

// handlePickupTask handles POST /api/v1/tasks/{taskID}/pickup.
func (s *Server) handlePickupTask(w http.ResponseWriter, r *http.Request) {
	t, err := s.tasks.Pickup(r.Context(), chi.URLParam(r, "taskID"), CallerPrincipal(r.Context()))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.taskToResponse(t))
}

// handleSetTaskStatus handles POST /api/v1/tasks/{taskID}/status.
func (s *Server) handleSetTaskStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	t, err := s.tasks.SetStatus(r.Context(), chi.URLParam(r, "taskID"), req.Status, CallerPrincipal(r.Context()))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.taskToResponse(t))
}

// handleCompleteTask handles POST /api/v1/tasks/{taskID}/complete.
func (s *Server) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	t, err := s.tasks.Complete(r.Context(), chi.URLParam(r, "taskID"), CallerPrincipal(r.Context()))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.taskToResponse(t))
}

// handleTaskAudit handles GET /api/v1/tasks/{taskID}/audit.
func (s *Server) handleTaskAudit(w http.ResponseWriter, r *http.Request) {
	entries, err := s.tasks.Audit(r.Context(), chi.URLParam(r, "taskID"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]auditEntryResponse, len(entries))
	for i, e := range entries {
		items[i] = auditToResponse(e)
	}
	writeJSON(w, http.StatusOK, items)
}

// handleListTaskSubmissions handles GET /api/v1/tasks/{taskID}/submissions.
func (s *Server) handleListTaskSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := s.submissions.ListByTask(r.Context(), chi.URLParam(r, "taskID"))
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

// handleSubmitTaskForm handles POST /api/v1/tasks/{taskID}/forms/{formID}/submissions.
func (s *Server) handleSubmitTaskForm(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	sub, err := s.submissions.Submit(
		r.Context(),
		chi.URLParam(r, "taskID"),
		chi.URLParam(r, "formID"),
		domsub.EditorState(req.Values),
		CallerPrincipal(r.Context()),
	)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, submissionToResponse(sub))
}

// handleGetSubmission handles GET /api/v1/submissions/{submissionID}.
func (s *Server) handleGetSubmission(w http.ResponseWriter, r *http.Request) {
	sub, err := s.submissions.Get(r.Context(), chi.URLParam(r, "submissionID"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, submissionToResponse(sub))
}

// handleListEscalationRules handles GET /api/v1/escalations.
func (s *Server) handleListEscalationRules(w http.ResponseWriter, r *http.Request) {
	rules, err := s.tasks.ListRules(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]escalationRuleResponse, len(rules))
	for i, rule := range rules {
		items[i] = ruleToResponse(rule)
	}
	writeJSON(w, http.StatusOK, items)
}

// handleCreateEscalationRule handles POST /api/v1/escalations. Admin only.
func (s *Server) handleCreateEscalationRule(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}

	var req escalationRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	rule, err := s.tasks.CreateRule(r.Context(), req.TaskType, req.ThresholdMinutes, req.Action)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ruleToResponse(rule))
}

// handleGetEscalationRule handles GET /api/v1/escalations/{ruleID}.
func (s *Server) handleGetEscalationRule(w http.ResponseWriter, r *http.Request) {
	rule, err := s.tasks.GetRule(r.Context(), chi.URLParam(r, "ruleID"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ruleToResponse(rule))
}

// handleUpdateEscalationRule handles PUT /api/v1/escalations/{ruleID}. Admin only.
func (s *Server) handleUpdateEscalationRule(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}

	var req escalationRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	rule, err := s.tasks.UpdateRule(r.Context(), chi.URLParam(r, "ruleID"), req.TaskType, req.ThresholdMinutes, req.Action)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ruleToResponse(rule))
}

// handleDeleteEscalationRule handles DELETE /api/v1/escalations/{ruleID}. Admin only.
func (s *Server) handleDeleteEscalationRule(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if err := s.tasks.DeleteRule(r.Context(), chi.URLParam(r, "ruleID")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
