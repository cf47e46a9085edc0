// Package task persists work items, their audit trails, and escalation
// rules. Tasks and rules live in redis hashes; each task's audit trail is an
// append-only JSON array under a single key.
package task

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/taskdesk/taskdesk/internal/db"
	"github.com/taskdesk/taskdesk/internal/domain"
	domtask "github.com/taskdesk/taskdesk/internal/domain/task"
)

// store is the consumer interface for task data (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Repo implements usecase/task.Repository.
type Repo struct {
	store  store
	prefix string
}

// New creates a task repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, prefix: keyPrefix}
}

func (r *Repo) taskKey(id string) string  { return r.prefix + "task:" + id }
func (r *Repo) auditKey(id string) string { return r.prefix + "audit:" + id }
func (r *Repo) ruleKey(id string) string  { return r.prefix + "escalation:" + id }

// Create stores a new task.
func (r *Repo) Create(ctx context.Context, t domtask.Task) error {
	key := r.taskKey(t.ID())
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return domain.ErrAlreadyExists
	}
	data, err := taskToHash(t)
	if err != nil {
		return err
	}
	if err := r.store.HSet(ctx, key, data); err != nil {
		return fmt.Errorf("hset task %s: %w", t.ID(), err)
	}
	return nil
}

// Get retrieves a task by id.
func (r *Repo) Get(ctx context.Context, id string) (domtask.Task, error) {
	m, err := r.store.HGetAll(ctx, r.taskKey(id))
	if err != nil {
		return domtask.Task{}, fmt.Errorf("hgetall task %s: %w", id, err)
	}
	if len(m) == 0 {
		return domtask.Task{}, domain.ErrNotFound
	}
	return taskFromHash(m)
}

// List returns all tasks sorted by creation time.
func (r *Repo) List(ctx context.Context) ([]domtask.Task, error) {
	keys, err := r.store.Scan(ctx, r.taskKey("*"))
	if err != nil {
		return nil, fmt.Errorf("scan tasks: %w", err)
	}
	if len(keys) == 0 {
		return []domtask.Task{}, nil
	}

	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi tasks: %w", err)
	}

	tasks := make([]domtask.Task, 0, len(results))
	for i, m := range results {
		if len(m) == 0 {
			continue
		}
		t, err := taskFromHash(m)
		if err != nil {
			return nil, fmt.Errorf("parse task %s: %w", keys[i], err)
		}
		tasks = append(tasks, t)
	}

	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedDate() < tasks[j].CreatedDate()
	})
	return tasks, nil
}

// Update overwrites an existing task.
func (r *Repo) Update(ctx context.Context, t domtask.Task) error {
	key := r.taskKey(t.ID())
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	data, err := taskToHash(t)
	if err != nil {
		return err
	}
	if err := r.store.HSet(ctx, key, data); err != nil {
		return fmt.Errorf("hset task %s: %w", t.ID(), err)
	}
	return nil
}

// AppendAudit appends an entry to a task's audit trail.
func (r *Repo) AppendAudit(ctx context.Context, entry domtask.AuditEntry) error {
	key := r.auditKey(entry.TaskID)
	entries, err := r.readAudit(ctx, key)
	if err != nil {
		return err
	}
	entries = append(entries, auditToRow(entry))

	data, err := marshalAudit(entries)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, key, data); err != nil {
		return fmt.Errorf("set audit %s: %w", entry.TaskID, err)
	}
	return nil
}

// Audit returns a task's audit trail in append order.
func (r *Repo) Audit(ctx context.Context, taskID string) ([]domtask.AuditEntry, error) {
	rows, err := r.readAudit(ctx, r.auditKey(taskID))
	if err != nil {
		return nil, err
	}
	entries := make([]domtask.AuditEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, auditFromRow(row))
	}
	return entries, nil
}

func (r *Repo) readAudit(ctx context.Context, key string) ([]auditRow, error) {
	data, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get audit %s: %w", key, err)
	}
	return unmarshalAudit(data)
}

// CreateRule stores a new escalation rule.
func (r *Repo) CreateRule(ctx context.Context, rule domtask.EscalationRule) error {
	key := r.ruleKey(rule.ID())
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return domain.ErrAlreadyExists
	}
	if err := r.store.HSet(ctx, key, ruleToHash(rule)); err != nil {
		return fmt.Errorf("hset escalation %s: %w", rule.ID(), err)
	}
	return nil
}

// GetRule retrieves an escalation rule by id.
func (r *Repo) GetRule(ctx context.Context, id string) (domtask.EscalationRule, error) {
	m, err := r.store.HGetAll(ctx, r.ruleKey(id))
	if err != nil {
		return domtask.EscalationRule{}, fmt.Errorf("hgetall escalation %s: %w", id, err)
	}
	if len(m) == 0 {
		return domtask.EscalationRule{}, domain.ErrNotFound
	}
	return ruleFromHash(m)
}

// UpdateRule replaces an existing escalation rule.
func (r *Repo) UpdateRule(ctx context.Context, rule domtask.EscalationRule) error {
	key := r.ruleKey(rule.ID())
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	if err := r.store.HSet(ctx, key, ruleToHash(rule)); err != nil {
		return fmt.Errorf("hset escalation %s: %w", rule.ID(), err)
	}
	return nil
}

// ListRules returns all escalation rules sorted by id.
func (r *Repo) ListRules(ctx context.Context) ([]domtask.EscalationRule, error) {
	keys, err := r.store.Scan(ctx, r.ruleKey("*"))
	if err != nil {
		return nil, fmt.Errorf("scan escalations: %w", err)
	}
	if len(keys) == 0 {
		return []domtask.EscalationRule{}, nil
	}

	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi escalations: %w", err)
	}

	rules := make([]domtask.EscalationRule, 0, len(results))
	for i, m := range results {
		if len(m) == 0 {
			continue
		}
		rule, err := ruleFromHash(m)
		if err != nil {
			return nil, fmt.Errorf("parse escalation %s: %w", keys[i], err)
		}
		rules = append(rules, rule)
	}

	sort.Slice(rules, func(i, j int) bool {
		return rules[i].ID() < rules[j].ID()
	})
	return rules, nil
}

// DeleteRule removes an escalation rule.
func (r *Repo) DeleteRule(ctx context.Context, id string) error {
	key := r.ruleKey(id)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del escalation %s: %w", id, err)
	}
	return nil
}
