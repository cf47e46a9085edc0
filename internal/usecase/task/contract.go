package task

import (
	"context"

	domtask "github.com/taskdesk/taskdesk/internal/domain/task"
)

// Repository defines the storage contract for tasks, audit trails, and
// escalation rules.
type Repository interface {
	Create(ctx context.Context, t domtask.Task) error
	Get(ctx context.Context, id string) (domtask.Task, error)
	List(ctx context.Context) ([]domtask.Task, error)
	Update(ctx context.Context, t domtask.Task) error

	AppendAudit(ctx context.Context, entry domtask.AuditEntry) error
	Audit(ctx context.Context, taskID string) ([]domtask.AuditEntry, error)

	CreateRule(ctx context.Context, rule domtask.EscalationRule) error
	GetRule(ctx context.Context, id string) (domtask.EscalationRule, error)
	UpdateRule(ctx context.Context, rule domtask.EscalationRule) error
	ListRules(ctx context.Context) ([]domtask.EscalationRule, error)
	DeleteRule(ctx context.Context, id string) error
}
