package task

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/taskdesk/taskdesk/internal/domain/identity"
	domtask "github.com/taskdesk/taskdesk/internal/domain/task"
)

type attachmentRow struct {
	FormDefinitionID string `json:"formDefinitionId"`
	Completed        bool   `json:"completed"`
}

func taskToHash(t domtask.Task) (map[string]string, error) {
	rows := make([]attachmentRow, 0, len(t.AttachedForms()))
	for _, af := range t.AttachedForms() {
		rows = append(rows, attachmentRow{FormDefinitionID: af.FormDefinitionID, Completed: af.Completed})
	}
	formsJSON, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("marshal attachments: %w", err)
	}

	a := t.Assignment()
	return map[string]string{
		"id":              t.ID(),
		"task_type":       t.TaskType(),
		"status":          t.Status(),
		"priority":        t.Priority(),
		"owner":           string(t.Owner()),
		"assign_kind":     string(a.Kind()),
		"assign_user":     string(a.User()),
		"assign_dept":     a.Department(),
		"created_date":    strconv.FormatInt(t.CreatedDate(), 10),
		"due_date":        strconv.FormatInt(t.DueDate(), 10),
		"completion_date": strconv.FormatInt(t.CompletionDate(), 10),
		"forms_json":      string(formsJSON),
	}, nil
}

func taskFromHash(m map[string]string) (domtask.Task, error) {
	createdDate, err := strconv.ParseInt(m["created_date"], 10, 64)
	if err != nil {
		return domtask.Task{}, fmt.Errorf("parse created_date: %w", err)
	}
	dueDate, err := strconv.ParseInt(m["due_date"], 10, 64)
	if err != nil {
		return domtask.Task{}, fmt.Errorf("parse due_date: %w", err)
	}
	completionDate, err := strconv.ParseInt(m["completion_date"], 10, 64)
	if err != nil {
		return domtask.Task{}, fmt.Errorf("parse completion_date: %w", err)
	}

	var rows []attachmentRow
	if raw := m["forms_json"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &rows); err != nil {
			return domtask.Task{}, fmt.Errorf("unmarshal attachments: %w", err)
		}
	}
	forms := make([]domtask.FormAttachment, 0, len(rows))
	for _, row := range rows {
		forms = append(forms, domtask.FormAttachment{
			FormDefinitionID: row.FormDefinitionID,
			Completed:        row.Completed,
		})
	}

	assignment := domtask.ReconstructAssignment(
		domtask.AssignmentKind(m["assign_kind"]),
		identity.Principal(m["assign_user"]),
		m["assign_dept"],
	)

	return domtask.Reconstruct(
		m["id"], m["task_type"], m["status"], m["priority"],
		identity.Principal(m["owner"]), assignment,
		createdDate, dueDate, completionDate, forms,
	), nil
}

// auditRow is the stored shape of one audit trail entry.
type auditRow struct {
	TaskID    string `json:"taskId"`
	Action    string `json:"action"`
	User      string `json:"user"`
	Timestamp int64  `json:"timestamp"`
	Details   string `json:"details,omitempty"`
}

func auditToRow(e domtask.AuditEntry) auditRow {
	return auditRow{
		TaskID:    e.TaskID,
		Action:    string(e.Action),
		User:      string(e.User),
		Timestamp: e.Timestamp,
		Details:   e.Details,
	}
}

func auditFromRow(row auditRow) domtask.AuditEntry {
	return domtask.AuditEntry{
		TaskID:    row.TaskID,
		Action:    domtask.Action(row.Action),
		User:      identity.Principal(row.User),
		Timestamp: row.Timestamp,
		Details:   row.Details,
	}
}

func marshalAudit(rows []auditRow) ([]byte, error) {
	data, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("marshal audit: %w", err)
	}
	return data, nil
}

func unmarshalAudit(data []byte) ([]auditRow, error) {
	var rows []auditRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("unmarshal audit: %w", err)
	}
	return rows, nil
}

func ruleToHash(r domtask.EscalationRule) map[string]string {
	return map[string]string{
		"id":                r.ID(),
		"task_type":         r.TaskType(),
		"threshold_minutes": strconv.FormatInt(r.ThresholdMinutes(), 10),
		"action":            r.Action(),
	}
}

func ruleFromHash(m map[string]string) (domtask.EscalationRule, error) {
	threshold, err := strconv.ParseInt(m["threshold_minutes"], 10, 64)
	if err != nil {
		return domtask.EscalationRule{}, fmt.Errorf("parse threshold_minutes: %w", err)
	}
	return domtask.ReconstructEscalationRule(m["id"], m["task_type"], threshold, m["action"]), nil
}
