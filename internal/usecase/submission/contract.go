package submission

import (
	"context"

	domform "github.com/taskdesk/taskdesk/internal/domain/form"
	domsub "github.com/taskdesk/taskdesk/internal/domain/submission"
	domtask "github.com/taskdesk/taskdesk/internal/domain/task"
)

// Repository defines the storage contract for submission records.
type Repository interface {
	Create(ctx context.Context, sub domsub.Submission) error
	Get(ctx context.Context, id string) (domsub.Submission, error)
	List(ctx context.Context) ([]domsub.Submission, error)
	ListByTask(ctx context.Context, taskID string) ([]domsub.Submission, error)
	ListByForm(ctx context.Context, formID string) ([]domsub.Submission, error)
}

// FormReader resolves form definitions at submit time.
type FormReader interface {
	Get(ctx context.Context, id string) (domform.Definition, error)
}

// TaskStore updates the task a submission belongs to.
type TaskStore interface {
	Get(ctx context.Context, id string) (domtask.Task, error)
	Update(ctx context.Context, t domtask.Task) error
	AppendAudit(ctx context.Context, entry domtask.AuditEntry) error
}

// Recorder counts submission outcomes.
type Recorder interface {
	ObserveSubmission(outcome string)
}
