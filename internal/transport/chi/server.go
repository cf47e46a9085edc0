// Package chi exposes the HTTP API.
package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/taskdesk/taskdesk/internal/domain"
	blobuc "github.com/taskdesk/taskdesk/internal/usecase/blob"
	formuc "github.com/taskdesk/taskdesk/internal/usecase/form"
	healthuc "github.com/taskdesk/taskdesk/internal/usecase/health"
	identityuc "github.com/taskdesk/taskdesk/internal/usecase/identity"
	masteruc "github.com/taskdesk/taskdesk/internal/usecase/master"
	submissionuc "github.com/taskdesk/taskdesk/internal/usecase/submission"
	taskuc "github.com/taskdesk/taskdesk/internal/usecase/task"
)

// Server holds the API handlers.
type Server struct {
	forms         *formuc.Service
	submissions   *submissionuc.Service
	tasks         *taskuc.Service
	masters       *masteruc.Service
	identity      *identityuc.Service
	blobs         *blobuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	forms *formuc.Service,
	submissions *submissionuc.Service,
	tasks *taskuc.Service,
	masters *masteruc.Service,
	identity *identityuc.Service,
	blobs *blobuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		forms:       forms,
		submissions: submissions,
		tasks:       tasks,
		masters:     masters,
		identity:    identity,
		blobs:       blobs,
		health:      health,
		logger:      logger,
	}
	s.errorHandlers = []errorHandler{
		fieldErrorHandler,
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, codeAlreadyExists),
		sentinelHandler(domain.ErrForbidden, http.StatusForbidden, codeForbidden),
		sentinelHandler(domain.ErrInvalidDefinition, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrInvalidTask, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrUnknownField, http.StatusUnprocessableEntity, codeValidationFailed),
		sentinelHandler(domain.ErrUnknownFieldType, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrValueShapeMismatch, http.StatusUnprocessableEntity, codeValidationFailed),
		sentinelHandler(blobuc.ErrTooLarge, http.StatusRequestEntityTooLarge, codePayloadTooLarge),
	}
	return s
}

// Routes mounts every API route on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.handleHealth)
	r.Get("/metrics", s.handleMetrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/forms", func(r chi.Router) {
			r.Get("/", s.handleListForms)
			r.Post("/", s.handleCreateForm)
			r.Route("/{formID}", func(r chi.Router) {
				r.Get("/", s.handleGetForm)
				r.Put("/", s.handleUpdateForm)
				r.Delete("/", s.handleDeleteForm)
				r.Post("/validate", s.handleValidateForm)
				r.Get("/submissions", s.handleListFormSubmissions)
				r.Post("/submissions", s.handleSubmitForm)
			})
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", s.handleListTasks)
			r.Post("/", s.handleCreateTask)
			r.Route("/{taskID}", func(r chi.Router) {
				r.Get("/", s.handleGetTask)
				r.Post("/assign", s.handleAssignTask)
				// Reassignment is the same operation; the audit trail
				// distinguishes first assignment from reassignment.
				r.Post("/reassign", s.handleAssignTask)
				r.Post("/pickup", s.handlePickupTask)
				r.Post("/status", s.handleSetTaskStatus)
				r.Post("/complete", s.handleCompleteTask)
				r.Get("/audit", s.handleTaskAudit)
				r.Get("/submissions", s.handleListTaskSubmissions)
				r.Post("/forms/{formID}/submissions", s.handleSubmitTaskForm)
			})
		})

		r.Get("/submissions", s.handleListSubmissions)
		r.Get("/submissions/{submissionID}", s.handleGetSubmission)

		r.Route("/masters", func(r chi.Router) {
			r.Get("/", s.handleListMasterKinds)
			r.Route("/{kind}", func(r chi.Router) {
				r.Get("/", s.handleListMasterRecords)
				r.Post("/", s.handleCreateMasterRecord)
				r.Put("/{recordID}", s.handleRenameMasterRecord)
				r.Delete("/{recordID}", s.handleDeleteMasterRecord)
			})
		})

		r.Route("/master-lists", func(r chi.Router) {
			r.Get("/", s.handleListMasterLists)
			r.Post("/", s.handleCreateMasterList)
			r.Get("/options", s.handleMasterOptions)
			r.Route("/{listID}", func(r chi.Router) {
				r.Get("/", s.handleGetMasterList)
				r.Put("/", s.handleUpdateMasterList)
				r.Delete("/", s.handleDeleteMasterList)
			})
		})

		r.Route("/escalations", func(r chi.Router) {
			r.Get("/", s.handleListEscalationRules)
			r.Post("/", s.handleCreateEscalationRule)
			r.Get("/{ruleID}", s.handleGetEscalationRule)
			r.Put("/{ruleID}", s.handleUpdateEscalationRule)
			r.Delete("/{ruleID}", s.handleDeleteEscalationRule)
		})

		r.Get("/me", s.handleWhoami)
		r.Put("/me/profile", s.handleSaveProfile)
		r.Post("/roles/{principal}", s.handleAssignRole)

		r.Route("/blobs", func(r chi.Router) {
			r.Post("/", s.handleUploadBlob)
			r.Route("/{blobKey}", func(r chi.Router) {
				r.Get("/", s.handleDownloadBlob)
				r.Get("/meta", s.handleStatBlob)
				r.Delete("/", s.handleDeleteBlob)
			})
		})
	})
}

// requireAdmin resolves the caller's effective role and rejects non-admins.
// Returns false when the response has already been written.
func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	info, err := s.identity.Whoami(r.Context(), CallerPrincipal(r.Context()), CallerTokenRole(r.Context()))
	if err != nil {
		s.handleDomainError(w, err)
		return false
	}
	if !info.Role.CanAdminister() {
		writeError(w, http.StatusForbidden, codeForbidden, "admin role required")
		return false
	}
	return true
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: report.Checks,
	})
}

// handleMetrics handles GET /metrics.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}
