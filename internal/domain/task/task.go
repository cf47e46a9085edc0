// Package task models assignable work items, their audit trail, SLA state
// and escalation rules.
package task

import (
	"fmt"

	"github.com/taskdesk/taskdesk/internal/domain/identity"
)

// FormAttachment links a form definition to a task and tracks completion.
type FormAttachment struct {
	FormDefinitionID string
	Completed        bool
}

// Task is the work item aggregate. Status, priority and task type are ids
// into the corresponding fixed masters.
type Task struct {
	id             string
	taskType       string
	status         string
	priority       string
	owner          identity.Principal
	assignment     Assignment
	createdDate    int64
	dueDate        int64
	completionDate int64
	attachedForms  []FormAttachment
}

// New validates and creates a Task. Timestamps are epoch nanos;
// completionDate starts unset (0).
func New(
	id, taskType, status, priority string,
	owner identity.Principal, assignment Assignment,
	dueDate int64, attachedForms []FormAttachment, now int64,
) (Task, error) {
	if id == "" {
		return Task{}, fmt.Errorf("task id is required")
	}
	if taskType == "" {
		return Task{}, fmt.Errorf("task type is required")
	}
	if status == "" {
		return Task{}, fmt.Errorf("task status is required")
	}
	if priority == "" {
		return Task{}, fmt.Errorf("task priority is required")
	}
	// Owner may be anonymous when authentication is disabled.
	seen := make(map[string]bool, len(attachedForms))
	for _, af := range attachedForms {
		if af.FormDefinitionID == "" {
			return Task{}, fmt.Errorf("attached form definition id is required")
		}
		if seen[af.FormDefinitionID] {
			return Task{}, fmt.Errorf("form %s attached twice", af.FormDefinitionID)
		}
		seen[af.FormDefinitionID] = true
	}
	return Task{
		id: id, taskType: taskType, status: status, priority: priority,
		owner: owner, assignment: assignment,
		createdDate: now, dueDate: dueDate, attachedForms: attachedForms,
	}, nil
}

// Reconstruct creates a Task without validation (storage hydration).
func Reconstruct(
	id, taskType, status, priority string,
	owner identity.Principal, assignment Assignment,
	createdDate, dueDate, completionDate int64,
	attachedForms []FormAttachment,
) Task {
	return Task{
		id: id, taskType: taskType, status: status, priority: priority,
		owner: owner, assignment: assignment,
		createdDate: createdDate, dueDate: dueDate, completionDate: completionDate,
		attachedForms: attachedForms,
	}
}

// Assign replaces the assignment.
func (t Task) Assign(a Assignment) (Task, error) {
	if a.IsZero() {
		return Task{}, fmt.Errorf("assignment is required")
	}
	t.assignment = a
	return t, nil
}

// Pickup claims a department-pool task for the calling user.
func (t Task) Pickup(user identity.Principal) (Task, error) {
	if t.assignment.Kind() != AssignedToDepartment {
		return Task{}, fmt.Errorf("task %s is not in a department pool", t.id)
	}
	a, err := ToUser(user)
	if err != nil {
		return Task{}, err
	}
	t.assignment = a
	return t, nil
}

// SetStatus replaces the status id.
func (t Task) SetStatus(status string) (Task, error) {
	if status == "" {
		return Task{}, fmt.Errorf("task status is required")
	}
	t.status = status
	return t, nil
}

// Complete stamps the completion date. Completing twice is rejected.
func (t Task) Complete(now int64) (Task, error) {
	if t.completionDate != 0 {
		return Task{}, fmt.Errorf("task %s is already completed", t.id)
	}
	t.completionDate = now
	return t, nil
}

// MarkFormCompleted flags an attached form as submitted.
func (t Task) MarkFormCompleted(formDefinitionID string) (Task, error) {
	forms := make([]FormAttachment, len(t.attachedForms))
	copy(forms, t.attachedForms)
	for i := range forms {
		if forms[i].FormDefinitionID == formDefinitionID {
			forms[i].Completed = true
			t.attachedForms = forms
			return t, nil
		}
	}
	return Task{}, fmt.Errorf("form %s is not attached to task %s", formDefinitionID, t.id)
}

// ID returns the task id.
func (t Task) ID() string { return t.id }

// TaskType returns the task type master id.
func (t Task) TaskType() string { return t.taskType }

// Status returns the status master id.
func (t Task) Status() string { return t.status }

// Priority returns the priority master id.
func (t Task) Priority() string { return t.priority }

// Owner returns the creating principal.
func (t Task) Owner() identity.Principal { return t.owner }

// Assignment returns the current assignment (zero when unassigned).
func (t Task) Assignment() Assignment { return t.assignment }

// CreatedDate returns the creation timestamp (epoch nanos).
func (t Task) CreatedDate() int64 { return t.createdDate }

// DueDate returns the due timestamp (epoch nanos).
func (t Task) DueDate() int64 { return t.dueDate }

// CompletionDate returns the completion timestamp (0 while open).
func (t Task) CompletionDate() int64 { return t.completionDate }

// IsCompleted reports whether the task has been completed.
func (t Task) IsCompleted() bool { return t.completionDate != 0 }

// AttachedForms returns the form attachments in order.
func (t Task) AttachedForms() []FormAttachment { return t.attachedForms }
