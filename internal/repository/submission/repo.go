// Package submission persists submission records in redis hashes.
// Records are append-only: written once, read many times.
package submission

import (
	"context"
	"fmt"
	"sort"

	"github.com/taskdesk/taskdesk/internal/domain"
	domsub "github.com/taskdesk/taskdesk/internal/domain/submission"
)

// store is the consumer interface for submission records (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements usecase/submission.Repository.
type Repo struct {
	store  store
	prefix string
}

// New creates a submission repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, prefix: keyPrefix}
}

func (r *Repo) key(id string) string { return r.prefix + "submission:" + id }

// Create stores a new submission record. Submissions are immutable, so a
// duplicate id is always a caller bug.
func (r *Repo) Create(ctx context.Context, sub domsub.Submission) error {
	key := r.key(sub.ID())
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return domain.ErrAlreadyExists
	}

	data, err := submissionToHash(sub)
	if err != nil {
		return err
	}
	if err := r.store.HSet(ctx, key, data); err != nil {
		return fmt.Errorf("hset submission %s: %w", sub.ID(), err)
	}
	return nil
}

// Get retrieves a submission by id.
func (r *Repo) Get(ctx context.Context, id string) (domsub.Submission, error) {
	m, err := r.store.HGetAll(ctx, r.key(id))
	if err != nil {
		return domsub.Submission{}, fmt.Errorf("hgetall submission %s: %w", id, err)
	}
	if len(m) == 0 {
		return domsub.Submission{}, domain.ErrNotFound
	}
	return submissionFromHash(m)
}

// ListByTask returns all submissions for a task, oldest first.
func (r *Repo) ListByTask(ctx context.Context, taskID string) ([]domsub.Submission, error) {
	all, err := r.list(ctx)
	if err != nil {
		return nil, err
	}
	subs := make([]domsub.Submission, 0, len(all))
	for _, s := range all {
		if s.TaskID() == taskID {
			subs = append(subs, s)
		}
	}
	return subs, nil
}

// ListByForm returns all submissions against a form definition, oldest first.
func (r *Repo) ListByForm(ctx context.Context, formID string) ([]domsub.Submission, error) {
	all, err := r.list(ctx)
	if err != nil {
		return nil, err
	}
	subs := make([]domsub.Submission, 0, len(all))
	for _, s := range all {
		if s.FormID() == formID {
			subs = append(subs, s)
		}
	}
	return subs, nil
}

// List returns every stored submission.
func (r *Repo) List(ctx context.Context) ([]domsub.Submission, error) {
	return r.list(ctx)
}

func (r *Repo) list(ctx context.Context) ([]domsub.Submission, error) {
	keys, err := r.store.Scan(ctx, r.key("*"))
	if err != nil {
		return nil, fmt.Errorf("scan submissions: %w", err)
	}
	if len(keys) == 0 {
		return []domsub.Submission{}, nil
	}

	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi submissions: %w", err)
	}

	subs := make([]domsub.Submission, 0, len(results))
	for i, m := range results {
		if len(m) == 0 {
			continue
		}
		sub, err := submissionFromHash(m)
		if err != nil {
			return nil, fmt.Errorf("parse submission %s: %w", keys[i], err)
		}
		subs = append(subs, sub)
	}

	sort.Slice(subs, func(i, j int) bool {
		return subs[i].SubmittedAt() < subs[j].SubmittedAt()
	})
	return subs, nil
}
