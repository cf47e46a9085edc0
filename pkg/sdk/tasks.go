package taskdesk

import (
	"context"
	"fmt"
	"time"

	"github.com/taskdesk/taskdesk/internal/domain/form/value"
	"github.com/taskdesk/taskdesk/internal/domain/identity"
	domsub "github.com/taskdesk/taskdesk/internal/domain/submission"
	domtask "github.com/taskdesk/taskdesk/internal/domain/task"
	taskuc "github.com/taskdesk/taskdesk/internal/usecase/task"
)

// TaskService manages tasks, their audit trails, escalation rules and
// form submissions.
type TaskService struct {
	svc    taskUseCase
	subSvc submissionUseCase
	actor  identity.Principal
	obs    *observer
}

// Create validates and stores a new task.
func (s *TaskService) Create(ctx context.Context, p TaskParams) (_ Task, err error) {
	start := time.Now()
	defer func() { s.obs.observe("task.create", start, err) }()

	assignment, err := toInternalAssignment(p.Assignment)
	if err != nil {
		return Task{}, fmt.Errorf("create task: %w", err)
	}

	t, err := s.svc.Create(ctx, taskuc.CreateParams{
		TaskType:      p.TaskType,
		Status:        p.Status,
		Priority:      p.Priority,
		Assignment:    assignment,
		DueDate:       p.DueDate,
		AttachedForms: p.AttachedForms,
	}, s.actor)
	if err != nil {
		return Task{}, fmt.Errorf("create task: %w", err)
	}
	return s.fromInternalTask(t), nil
}

// Get retrieves a task by id.
func (s *TaskService) Get(ctx context.Context, id string) (_ Task, err error) {
	start := time.Now()
	defer func() { s.obs.observe("task.get", start, err) }()

	t, err := s.svc.Get(ctx, id)
	if err != nil {
		return Task{}, fmt.Errorf("get task: %w", err)
	}
	return s.fromInternalTask(t), nil
}

// List returns all tasks.
func (s *TaskService) List(ctx context.Context) (_ []Task, err error) {
	start := time.Now()
	defer func() { s.obs.observe("task.list", start, err) }()

	tasks, err := s.svc.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = s.fromInternalTask(t)
	}
	return out, nil
}

// Assign routes a task to a user or a department pool.
func (s *TaskService) Assign(ctx context.Context, id string, a Assignment) (_ Task, err error) {
	start := time.Now()
	defer func() { s.obs.observe("task.assign", start, err) }()

	assignment, err := toInternalAssignment(a)
	if err != nil {
		return Task{}, fmt.Errorf("assign task: %w", err)
	}

	t, err := s.svc.Assign(ctx, id, assignment, s.actor)
	if err != nil {
		return Task{}, fmt.Errorf("assign task: %w", err)
	}
	return s.fromInternalTask(t), nil
}

// Pickup claims a department-pool task for the client's actor.
func (s *TaskService) Pickup(ctx context.Context, id string) (_ Task, err error) {
	start := time.Now()
	defer func() { s.obs.observe("task.pickup", start, err) }()

	t, err := s.svc.Pickup(ctx, id, s.actor)
	if err != nil {
		return Task{}, fmt.Errorf("pickup task: %w", err)
	}
	return s.fromInternalTask(t), nil
}

// SetStatus moves a task to a new status.
func (s *TaskService) SetStatus(ctx context.Context, id, status string) (_ Task, err error) {
	start := time.Now()
	defer func() { s.obs.observe("task.set_status", start, err) }()

	t, err := s.svc.SetStatus(ctx, id, status, s.actor)
	if err != nil {
		return Task{}, fmt.Errorf("set task status: %w", err)
	}
	return s.fromInternalTask(t), nil
}

// Complete marks a task as done.
func (s *TaskService) Complete(ctx context.Context, id string) (_ Task, err error) {
	start := time.Now()
	defer func() { s.obs.observe("task.complete", start, err) }()

	t, err := s.svc.Complete(ctx, id, s.actor)
	if err != nil {
		return Task{}, fmt.Errorf("complete task: %w", err)
	}
	return s.fromInternalTask(t), nil
}

// Audit returns a task's audit trail, oldest first.
func (s *TaskService) Audit(ctx context.Context, id string) (_ []AuditEntry, err error) {
	start := time.Now()
	defer func() { s.obs.observe("task.audit", start, err) }()

	entries, err := s.svc.Audit(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("task audit: %w", err)
	}
	out := make([]AuditEntry, len(entries))
	for i, e := range entries {
		out[i] = AuditEntry{
			TaskID:    e.TaskID,
			Action:    string(e.Action),
			User:      e.User.String(),
			Timestamp: e.Timestamp,
			Details:   e.Details,
		}
	}
	return out, nil
}

// Submit validates and records a filled-in form against a task. values maps
// field ids to editor input (strings, numbers, string slices, file maps).
func (s *TaskService) Submit(ctx context.Context, taskID, formID string, values map[string]any) (_ Submission, err error) {
	start := time.Now()
	defer func() { s.obs.observe("task.submit", start, err) }()

	sub, err := s.subSvc.Submit(ctx, taskID, formID, domsub.EditorState(values), s.actor)
	if err != nil {
		return Submission{}, fmt.Errorf("submit form: %w", err)
	}
	return fromInternalSubmission(sub), nil
}

// ValidateForm dry-runs submission values against a form definition
// without persisting anything.
func (s *TaskService) ValidateForm(ctx context.Context, formID string, values map[string]any) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("task.validate_form", start, err) }()

	if err = s.subSvc.Validate(ctx, formID, domsub.EditorState(values)); err != nil {
		return fmt.Errorf("validate form: %w", err)
	}
	return nil
}

// Submissions returns all submissions recorded against a task.
func (s *TaskService) Submissions(ctx context.Context, taskID string) (_ []Submission, err error) {
	start := time.Now()
	defer func() { s.obs.observe("task.submissions", start, err) }()

	subs, err := s.subSvc.ListByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	out := make([]Submission, len(subs))
	for i, sub := range subs {
		out[i] = fromInternalSubmission(sub)
	}
	return out, nil
}

// CreateEscalationRule registers a rule that escalates overdue tasks.
func (s *TaskService) CreateEscalationRule(ctx context.Context, taskType string, thresholdMinutes int64, action string) (_ EscalationRule, err error) {
	start := time.Now()
	defer func() { s.obs.observe("task.create_rule", start, err) }()

	rule, err := s.svc.CreateRule(ctx, taskType, thresholdMinutes, action)
	if err != nil {
		return EscalationRule{}, fmt.Errorf("create escalation rule: %w", err)
	}
	return fromInternalRule(rule), nil
}

// GetEscalationRule retrieves a rule by id.
func (s *TaskService) GetEscalationRule(ctx context.Context, id string) (_ EscalationRule, err error) {
	start := time.Now()
	defer func() { s.obs.observe("task.get_rule", start, err) }()

	rule, err := s.svc.GetRule(ctx, id)
	if err != nil {
		return EscalationRule{}, fmt.Errorf("get escalation rule: %w", err)
	}
	return fromInternalRule(rule), nil
}

// UpdateEscalationRule replaces a rule's settings, keeping its id.
func (s *TaskService) UpdateEscalationRule(ctx context.Context, id, taskType string, thresholdMinutes int64, action string) (_ EscalationRule, err error) {
	start := time.Now()
	defer func() { s.obs.observe("task.update_rule", start, err) }()

	rule, err := s.svc.UpdateRule(ctx, id, taskType, thresholdMinutes, action)
	if err != nil {
		return EscalationRule{}, fmt.Errorf("update escalation rule: %w", err)
	}
	return fromInternalRule(rule), nil
}

// EscalationRules returns all registered escalation rules.
func (s *TaskService) EscalationRules(ctx context.Context) (_ []EscalationRule, err error) {
	start := time.Now()
	defer func() { s.obs.observe("task.list_rules", start, err) }()

	rules, err := s.svc.ListRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("list escalation rules: %w", err)
	}
	out := make([]EscalationRule, len(rules))
	for i, r := range rules {
		out[i] = fromInternalRule(r)
	}
	return out, nil
}

// DeleteEscalationRule removes an escalation rule.
func (s *TaskService) DeleteEscalationRule(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("task.delete_rule", start, err) }()

	if err = s.svc.DeleteRule(ctx, id); err != nil {
		return fmt.Errorf("delete escalation rule: %w", err)
	}
	return nil
}

// Sweep applies escalation rules to overdue tasks and returns the tasks
// escalated in this pass.
func (s *TaskService) Sweep(ctx context.Context) (_ []Task, err error) {
	start := time.Now()
	defer func() { s.obs.observe("task.sweep", start, err) }()

	escalations, err := s.svc.Sweep(ctx)
	if err != nil {
		return nil, fmt.Errorf("sweep tasks: %w", err)
	}
	out := make([]Task, len(escalations))
	for i, esc := range escalations {
		out[i] = s.fromInternalTask(esc.Task)
	}
	return out, nil
}

func toInternalAssignment(a Assignment) (domtask.Assignment, error) {
	switch {
	case a.User != "" && a.Department != "":
		return domtask.Assignment{}, fmt.Errorf("assignment cannot name both a user and a department")
	case a.User != "":
		return domtask.ToUser(identity.Principal(a.User))
	case a.Department != "":
		return domtask.ToDepartment(a.Department)
	}
	return domtask.Assignment{}, nil
}

func (s *TaskService) fromInternalTask(t domtask.Task) Task {
	forms := make([]FormAttachment, len(t.AttachedForms()))
	for i, af := range t.AttachedForms() {
		forms[i] = FormAttachment{
			FormDefinitionID: af.FormDefinitionID,
			Completed:        af.Completed,
		}
	}
	return Task{
		ID:             t.ID(),
		TaskType:       t.TaskType(),
		Status:         t.Status(),
		Priority:       t.Priority(),
		Owner:          t.Owner().String(),
		Assignment:     Assignment{User: t.Assignment().User().String(), Department: t.Assignment().Department()},
		CreatedDate:    t.CreatedDate(),
		DueDate:        t.DueDate(),
		CompletionDate: t.CompletionDate(),
		SLA:            string(s.svc.SLA(t)),
		AttachedForms:  forms,
	}
}

func fromInternalRule(r domtask.EscalationRule) EscalationRule {
	return EscalationRule{
		ID:               r.ID(),
		TaskType:         r.TaskType(),
		ThresholdMinutes: r.ThresholdMinutes(),
		Action:           r.Action(),
	}
}

func fromInternalSubmission(sub domsub.Submission) Submission {
	inputs := make([]Input, len(sub.Inputs()))
	for i, in := range sub.Inputs() {
		inputs[i] = Input{FieldID: in.FieldID, Value: fromInternalValue(in.Value)}
	}
	return Submission{
		ID:          sub.ID(),
		TaskID:      sub.TaskID(),
		FormID:      sub.FormID(),
		Version:     sub.Version(),
		Inputs:      inputs,
		SubmittedBy: sub.SubmittedBy().String(),
		SubmittedAt: sub.SubmittedAt(),
	}
}

func fromInternalValue(v value.Value) Value {
	out := Value{Kind: string(v.Kind())}
	switch v.Kind() {
	case value.KindText, value.KindSingleChoice:
		out.Text = v.TextValue()
	case value.KindNumber, value.KindDate, value.KindDateTime:
		out.Number = v.NumberValue()
	case value.KindMultipleChoices:
		out.Choices = v.ChoicesValue()
	case value.KindFile:
		f := v.FileValue()
		out.File = &FileRef{
			Key:         f.Key,
			Name:        f.Name,
			Size:        f.Size,
			ContentType: f.ContentType,
		}
	case value.KindUnsupported:
		out.Kind = v.RawTag()
	}
	return out
}
