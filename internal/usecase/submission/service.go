package submission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/taskdesk/taskdesk/internal/domain"
	"github.com/taskdesk/taskdesk/internal/domain/identity"
	domsub "github.com/taskdesk/taskdesk/internal/domain/submission"
	domtask "github.com/taskdesk/taskdesk/internal/domain/task"
)

// Submission outcome labels for metrics.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Service turns editor state into immutable submission records and keeps the
// owning task's attachment and audit state in step.
type Service struct {
	repo     Repository
	forms    FormReader
	tasks    TaskStore
	recorder Recorder
}

// New creates a submission service. recorder can be nil.
func New(repo Repository, forms FormReader, tasks TaskStore, recorder Recorder) *Service {
	return &Service{repo: repo, forms: forms, tasks: tasks, recorder: recorder}
}

func (s *Service) observe(outcome string) {
	if s.recorder != nil {
		s.recorder.ObserveSubmission(outcome)
	}
}

// Validate dry-runs editor state against a definition without persisting
// anything. Returns nil when a Submit with the same state would be accepted.
func (s *Service) Validate(ctx context.Context, formID string, state domsub.EditorState) error {
	def, err := s.forms.Get(ctx, formID)
	if err != nil {
		return fmt.Errorf("get definition: %w", err)
	}
	if _, err := domsub.Build(def, state, "dry-run", "", identity.Anonymous, 0); err != nil {
		return err
	}
	return nil
}

// Submit validates editor state against the form's current definition,
// persists the resulting record, marks the task's attachment completed, and
// appends a formSubmitted audit entry.
func (s *Service) Submit(ctx context.Context, taskID, formID string, state domsub.EditorState, by identity.Principal) (domsub.Submission, error) {
	task, err := s.tasks.Get(ctx, taskID)
	if err != nil {
		s.observe(OutcomeError)
		return domsub.Submission{}, fmt.Errorf("get task: %w", err)
	}
	if !hasAttachment(task, formID) {
		s.observe(OutcomeRejected)
		return domsub.Submission{}, fmt.Errorf("form %s not attached to task %s: %w", formID, taskID, domain.ErrNotFound)
	}

	def, err := s.forms.Get(ctx, formID)
	if err != nil {
		s.observe(OutcomeError)
		return domsub.Submission{}, fmt.Errorf("get definition: %w", err)
	}

	now := time.Now().UnixNano()
	sub, err := domsub.Build(def, state, uuid.NewString(), taskID, by, now)
	if err != nil {
		s.observe(OutcomeRejected)
		return domsub.Submission{}, err
	}

	if err := s.repo.Create(ctx, sub); err != nil {
		s.observe(OutcomeError)
		return domsub.Submission{}, fmt.Errorf("create submission: %w", err)
	}

	updated, err := task.MarkFormCompleted(formID)
	if err == nil {
		err = s.tasks.Update(ctx, updated)
	}
	if err != nil {
		s.observe(OutcomeError)
		return domsub.Submission{}, fmt.Errorf("mark form completed: %w", err)
	}

	entry, err := domtask.NewAuditEntry(taskID, domtask.ActionFormSubmitted, by, now, formID)
	if err == nil {
		err = s.tasks.AppendAudit(ctx, entry)
	}
	if err != nil {
		s.observe(OutcomeError)
		return domsub.Submission{}, fmt.Errorf("append audit: %w", err)
	}

	s.observe(OutcomeAccepted)
	return sub, nil
}

// SubmitStandalone validates and persists a submission that is not bound to
// any task. Used for forms filled outside a task flow.
func (s *Service) SubmitStandalone(ctx context.Context, formID string, state domsub.EditorState, by identity.Principal) (domsub.Submission, error) {
	def, err := s.forms.Get(ctx, formID)
	if err != nil {
		s.observe(OutcomeError)
		return domsub.Submission{}, fmt.Errorf("get definition: %w", err)
	}

	sub, err := domsub.Build(def, state, uuid.NewString(), "", by, time.Now().UnixNano())
	if err != nil {
		s.observe(OutcomeRejected)
		return domsub.Submission{}, err
	}

	if err := s.repo.Create(ctx, sub); err != nil {
		s.observe(OutcomeError)
		return domsub.Submission{}, fmt.Errorf("create submission: %w", err)
	}

	s.observe(OutcomeAccepted)
	return sub, nil
}

// Get retrieves a submission by id.
func (s *Service) Get(ctx context.Context, id string) (domsub.Submission, error) {
	sub, err := s.repo.Get(ctx, id)
	if err != nil {
		return domsub.Submission{}, fmt.Errorf("get submission: %w", err)
	}
	return sub, nil
}

// ListByTask returns a task's submissions, oldest first.
func (s *Service) ListByTask(ctx context.Context, taskID string) ([]domsub.Submission, error) {
	subs, err := s.repo.ListByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return subs, nil
}

// ListByForm returns all submissions against a definition, oldest first.
func (s *Service) ListByForm(ctx context.Context, formID string) ([]domsub.Submission, error) {
	subs, err := s.repo.ListByForm(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return subs, nil
}

// List returns every submission, oldest first.
func (s *Service) List(ctx context.Context) ([]domsub.Submission, error) {
	subs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return subs, nil
}

// ListBy returns the submissions a principal made, oldest first.
func (s *Service) ListBy(ctx context.Context, by identity.Principal) ([]domsub.Submission, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	subs := make([]domsub.Submission, 0, len(all))
	for _, sub := range all {
		if sub.SubmittedBy() == by {
			subs = append(subs, sub)
		}
	}
	return subs, nil
}

func hasAttachment(t domtask.Task, formID string) bool {
	for _, af := range t.AttachedForms() {
		if af.FormDefinitionID == formID {
			return true
		}
	}
	return false
}

// IsValidationError reports whether err is a per-field validation failure as
// opposed to a storage or lookup failure.
func IsValidationError(err error) bool {
	var fieldErr *domain.FieldError
	if errors.As(err, &fieldErr) {
		return true
	}
	return errors.Is(err, domain.ErrUnknownField)
}
