package task

import (
	"fmt"

	"github.com/taskdesk/taskdesk/internal/domain/identity"
)

// Action is the audit log action vocabulary.
type Action string

// Audit actions.
const (
	ActionCreated       Action = "created"
	ActionAssigned      Action = "assigned"
	ActionPickedUp      Action = "pickedUp"
	ActionReassigned    Action = "reassigned"
	ActionStatusChanged Action = "statusChanged"
	ActionFormSubmitted Action = "formSubmitted"
	ActionEscalated     Action = "escalated"
	ActionCompleted     Action = "completed"
)

// AuditEntry records one action taken on a task. Append-only.
type AuditEntry struct {
	TaskID    string
	Action    Action
	User      identity.Principal
	Timestamp int64
	Details   string
}

// NewAuditEntry creates an audit entry. Timestamp is epoch nanos.
func NewAuditEntry(taskID string, action Action, user identity.Principal, now int64, details string) (AuditEntry, error) {
	if taskID == "" {
		return AuditEntry{}, fmt.Errorf("audit entry task id is required")
	}
	return AuditEntry{TaskID: taskID, Action: action, User: user, Timestamp: now, Details: details}, nil
}
