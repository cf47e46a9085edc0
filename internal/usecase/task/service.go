package task

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/taskdesk/taskdesk/internal/domain"
	"github.com/taskdesk/taskdesk/internal/domain/identity"
	domtask "github.com/taskdesk/taskdesk/internal/domain/task"
)

// CreateParams carries the caller-supplied parts of a new task.
type CreateParams struct {
	TaskType      string
	Status        string
	Priority      string
	Assignment    domtask.Assignment
	DueDate       int64
	AttachedForms []string
}

// Service handles the task lifecycle: creation, assignment, status moves,
// completion, audit trails, and escalation rules.
type Service struct {
	repo         Repository
	atRiskWindow time.Duration
}

// New creates a task service. atRiskWindow is how long before the due date a
// task counts as at risk.
func New(repo Repository, atRiskWindow time.Duration) *Service {
	return &Service{repo: repo, atRiskWindow: atRiskWindow}
}

// Create validates and stores a new task and opens its audit trail.
func (s *Service) Create(ctx context.Context, p CreateParams, owner identity.Principal) (domtask.Task, error) {
	attachments := make([]domtask.FormAttachment, 0, len(p.AttachedForms))
	for _, formID := range p.AttachedForms {
		attachments = append(attachments, domtask.FormAttachment{FormDefinitionID: formID})
	}

	now := time.Now().UnixNano()
	t, err := domtask.New(
		uuid.NewString(), p.TaskType, p.Status, p.Priority,
		owner, p.Assignment, p.DueDate, attachments, now,
	)
	if err != nil {
		return domtask.Task{}, fmt.Errorf("validate task: %w: %w", domain.ErrInvalidTask, err)
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return domtask.Task{}, fmt.Errorf("create task: %w", err)
	}
	if err := s.audit(ctx, t.ID(), domtask.ActionCreated, owner, now, ""); err != nil {
		return domtask.Task{}, err
	}
	if !p.Assignment.IsZero() {
		if err := s.audit(ctx, t.ID(), domtask.ActionAssigned, owner, now, p.Assignment.String()); err != nil {
			return domtask.Task{}, err
		}
	}
	return t, nil
}

// Get retrieves a task by id.
func (s *Service) Get(ctx context.Context, id string) (domtask.Task, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return domtask.Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// List returns all tasks.
func (s *Service) List(ctx context.Context) ([]domtask.Task, error) {
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// ListMine returns the tasks a principal owns or is assigned to.
func (s *Service) ListMine(ctx context.Context, user identity.Principal) ([]domtask.Task, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	tasks := make([]domtask.Task, 0, len(all))
	for _, t := range all {
		a := t.Assignment()
		assigned := !a.IsZero() && a.Kind() == domtask.AssignedToUser && a.User() == user
		if t.Owner() == user || assigned {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

// ListPool returns the unclaimed tasks sitting in a department's pool.
func (s *Service) ListPool(ctx context.Context, departmentID string) ([]domtask.Task, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	tasks := make([]domtask.Task, 0, len(all))
	for _, t := range all {
		a := t.Assignment()
		if !a.IsZero() && a.Kind() == domtask.AssignedToDepartment && a.Department() == departmentID {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

// Assign routes a task to a user or a department pool. An already assigned
// task records a reassignment instead of a first assignment.
func (s *Service) Assign(ctx context.Context, id string, a domtask.Assignment, by identity.Principal) (domtask.Task, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return domtask.Task{}, fmt.Errorf("get task: %w", err)
	}

	action := domtask.ActionAssigned
	if !t.Assignment().IsZero() {
		action = domtask.ActionReassigned
	}

	next, err := t.Assign(a)
	if err != nil {
		return domtask.Task{}, fmt.Errorf("assign task: %w", err)
	}
	if err := s.repo.Update(ctx, next); err != nil {
		return domtask.Task{}, fmt.Errorf("update task: %w", err)
	}
	if err := s.audit(ctx, id, action, by, time.Now().UnixNano(), a.String()); err != nil {
		return domtask.Task{}, err
	}
	return next, nil
}

// Pickup lets a user claim a task from their department's pool.
func (s *Service) Pickup(ctx context.Context, id string, user identity.Principal) (domtask.Task, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return domtask.Task{}, fmt.Errorf("get task: %w", err)
	}

	next, err := t.Pickup(user)
	if err != nil {
		return domtask.Task{}, fmt.Errorf("pickup task: %w", err)
	}
	if err := s.repo.Update(ctx, next); err != nil {
		return domtask.Task{}, fmt.Errorf("update task: %w", err)
	}
	if err := s.audit(ctx, id, domtask.ActionPickedUp, user, time.Now().UnixNano(), ""); err != nil {
		return domtask.Task{}, err
	}
	return next, nil
}

// SetStatus moves a task to a new status.
func (s *Service) SetStatus(ctx context.Context, id, status string, by identity.Principal) (domtask.Task, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return domtask.Task{}, fmt.Errorf("get task: %w", err)
	}

	next, err := t.SetStatus(status)
	if err != nil {
		return domtask.Task{}, fmt.Errorf("set status: %w", err)
	}
	if err := s.repo.Update(ctx, next); err != nil {
		return domtask.Task{}, fmt.Errorf("update task: %w", err)
	}
	if err := s.audit(ctx, id, domtask.ActionStatusChanged, by, time.Now().UnixNano(), status); err != nil {
		return domtask.Task{}, err
	}
	return next, nil
}

// Complete closes a task.
func (s *Service) Complete(ctx context.Context, id string, by identity.Principal) (domtask.Task, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return domtask.Task{}, fmt.Errorf("get task: %w", err)
	}

	now := time.Now().UnixNano()
	next, err := t.Complete(now)
	if err != nil {
		return domtask.Task{}, fmt.Errorf("complete task: %w", err)
	}
	if err := s.repo.Update(ctx, next); err != nil {
		return domtask.Task{}, fmt.Errorf("update task: %w", err)
	}
	if err := s.audit(ctx, id, domtask.ActionCompleted, by, now, ""); err != nil {
		return domtask.Task{}, err
	}
	return next, nil
}

// Audit returns a task's audit trail in append order.
func (s *Service) Audit(ctx context.Context, id string) ([]domtask.AuditEntry, error) {
	entries, err := s.repo.Audit(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("read audit: %w", err)
	}
	return entries, nil
}

// SLA reports where a task stands against its due date right now.
func (s *Service) SLA(t domtask.Task) domtask.SLAState {
	return t.SLA(time.Now().UnixNano(), s.atRiskWindow)
}

// CreateRule stores a new escalation rule.
func (s *Service) CreateRule(ctx context.Context, taskType string, thresholdMinutes int64, action string) (domtask.EscalationRule, error) {
	rule, err := domtask.NewEscalationRule(uuid.NewString(), taskType, thresholdMinutes, action)
	if err != nil {
		return domtask.EscalationRule{}, fmt.Errorf("validate rule: %w", err)
	}
	if err := s.repo.CreateRule(ctx, rule); err != nil {
		return domtask.EscalationRule{}, fmt.Errorf("create rule: %w", err)
	}
	return rule, nil
}

// GetRule retrieves an escalation rule by id.
func (s *Service) GetRule(ctx context.Context, id string) (domtask.EscalationRule, error) {
	rule, err := s.repo.GetRule(ctx, id)
	if err != nil {
		return domtask.EscalationRule{}, fmt.Errorf("get rule: %w", err)
	}
	return rule, nil
}

// UpdateRule replaces an existing rule's settings, keeping its id.
func (s *Service) UpdateRule(ctx context.Context, id, taskType string, thresholdMinutes int64, action string) (domtask.EscalationRule, error) {
	if _, err := s.repo.GetRule(ctx, id); err != nil {
		return domtask.EscalationRule{}, fmt.Errorf("get rule: %w", err)
	}
	rule, err := domtask.NewEscalationRule(id, taskType, thresholdMinutes, action)
	if err != nil {
		return domtask.EscalationRule{}, fmt.Errorf("validate rule: %w", err)
	}
	if err := s.repo.UpdateRule(ctx, rule); err != nil {
		return domtask.EscalationRule{}, fmt.Errorf("update rule: %w", err)
	}
	return rule, nil
}

// ListRules returns all escalation rules.
func (s *Service) ListRules(ctx context.Context) ([]domtask.EscalationRule, error) {
	rules, err := s.repo.ListRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	return rules, nil
}

// DeleteRule removes an escalation rule.
func (s *Service) DeleteRule(ctx context.Context, id string) error {
	if err := s.repo.DeleteRule(ctx, id); err != nil {
		return fmt.Errorf("delete rule: %w", err)
	}
	return nil
}

// Escalation is one sweep hit: an overdue task and the rule that caught it.
type Escalation struct {
	Task domtask.Task
	Rule domtask.EscalationRule
}

// Sweep checks every open task against the escalation rules and records an
// escalated audit entry for each first match. Called periodically from the
// composition root.
func (s *Service) Sweep(ctx context.Context) ([]Escalation, error) {
	rules, err := s.repo.ListRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	if len(rules) == 0 {
		return nil, nil
	}

	tasks, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	now := time.Now().UnixNano()
	var hits []Escalation
	for _, t := range tasks {
		for _, rule := range rules {
			if !rule.Matches(t, now) {
				continue
			}
			if err := s.audit(ctx, t.ID(), domtask.ActionEscalated, identity.Anonymous, now, rule.Action()); err != nil {
				return nil, err
			}
			hits = append(hits, Escalation{Task: t, Rule: rule})
			break
		}
	}
	return hits, nil
}

func (s *Service) audit(ctx context.Context, taskID string, action domtask.Action, by identity.Principal, now int64, details string) error {
	entry, err := domtask.NewAuditEntry(taskID, action, by, now, details)
	if err != nil {
		return fmt.Errorf("build audit entry: %w", err)
	}
	if err := s.repo.AppendAudit(ctx, entry); err != nil {
		return fmt.Errorf("append audit: %w", err)
	}
	return nil
}
