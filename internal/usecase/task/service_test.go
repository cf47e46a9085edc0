package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/taskdesk/taskdesk/internal/domain"
	domtask "github.com/taskdesk/taskdesk/internal/domain/task"
)

// --- Mocks ---

type mockRepo struct {
	tasks     map[string]domtask.Task
	audits    map[string][]domtask.AuditEntry
	rules     map[string]domtask.EscalationRule
	createErr error
	updateErr error
	auditErr  error
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		tasks:  map[string]domtask.Task{},
		audits: map[string][]domtask.AuditEntry{},
		rules:  map[string]domtask.EscalationRule{},
	}
}

func (m *mockRepo) Create(_ context.Context, t domtask.Task) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.tasks[t.ID()] = t
	return nil
}

func (m *mockRepo) Get(_ context.Context, id string) (domtask.Task, error) {
	t, ok := m.tasks[id]
	if !ok {
		return domtask.Task{}, domain.ErrNotFound
	}
	return t, nil
}

func (m *mockRepo) List(_ context.Context) ([]domtask.Task, error) {
	var tasks []domtask.Task
	for _, t := range m.tasks {
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (m *mockRepo) Update(_ context.Context, t domtask.Task) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.tasks[t.ID()] = t
	return nil
}

func (m *mockRepo) AppendAudit(_ context.Context, entry domtask.AuditEntry) error {
	if m.auditErr != nil {
		return m.auditErr
	}
	m.audits[entry.TaskID] = append(m.audits[entry.TaskID], entry)
	return nil
}

func (m *mockRepo) Audit(_ context.Context, taskID string) ([]domtask.AuditEntry, error) {
	return m.audits[taskID], nil
}

func (m *mockRepo) CreateRule(_ context.Context, rule domtask.EscalationRule) error {
	m.rules[rule.ID()] = rule
	return nil
}

func (m *mockRepo) GetRule(_ context.Context, id string) (domtask.EscalationRule, error) {
	rule, ok := m.rules[id]
	if !ok {
		return domtask.EscalationRule{}, domain.ErrNotFound
	}
	return rule, nil
}

func (m *mockRepo) UpdateRule(_ context.Context, rule domtask.EscalationRule) error {
	if _, ok := m.rules[rule.ID()]; !ok {
		return domain.ErrNotFound
	}
	m.rules[rule.ID()] = rule
	return nil
}

func (m *mockRepo) ListRules(_ context.Context) ([]domtask.EscalationRule, error) {
	var rules []domtask.EscalationRule
	for _, r := range m.rules {
		rules = append(rules, r)
	}
	return rules, nil
}

func (m *mockRepo) DeleteRule(_ context.Context, id string) error {
	if _, ok := m.rules[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.rules, id)
	return nil
}

// --- Helpers ---

const atRiskWindow = 4 * time.Hour

func createTask(t *testing.T, svc *Service, p CreateParams) domtask.Task {
	t.Helper()
	task, err := svc.Create(context.Background(), p, "alice")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return task
}

func baseParams() CreateParams {
	return CreateParams{
		TaskType: "incident",
		Status:   "open",
		Priority: "high",
		DueDate:  time.Now().Add(24 * time.Hour).UnixNano(),
	}
}

func actions(entries []domtask.AuditEntry) []domtask.Action {
	out := make([]domtask.Action, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Action)
	}
	return out
}

// --- Tests ---

func TestCreate_AuditsCreation(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo, atRiskWindow)

	task := createTask(t, svc, baseParams())

	if task.ID() == "" || task.Owner() != "alice" {
		t.Errorf("task = %s owned by %s", task.ID(), task.Owner())
	}
	got := actions(repo.audits[task.ID()])
	if len(got) != 1 || got[0] != domtask.ActionCreated {
		t.Errorf("audit actions = %v, want [created]", got)
	}
}

func TestCreate_PreAssignedAuditsBoth(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo, atRiskWindow)
	p := baseParams()
	a, err := domtask.ToDepartment("eng")
	if err != nil {
		t.Fatalf("ToDepartment: %v", err)
	}
	p.Assignment = a

	task := createTask(t, svc, p)

	got := actions(repo.audits[task.ID()])
	if len(got) != 2 || got[0] != domtask.ActionCreated || got[1] != domtask.ActionAssigned {
		t.Errorf("audit actions = %v, want [created assigned]", got)
	}
}

func TestAssign_ThenReassign(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo, atRiskWindow)
	ctx := context.Background()
	task := createTask(t, svc, baseParams())

	first, err := domtask.ToUser("bob")
	if err != nil {
		t.Fatalf("ToUser: %v", err)
	}
	if _, err := svc.Assign(ctx, task.ID(), first, "alice"); err != nil {
		t.Fatalf("Assign: %v", err)
	}

	second, err := domtask.ToDepartment("eng")
	if err != nil {
		t.Fatalf("ToDepartment: %v", err)
	}
	updated, err := svc.Assign(ctx, task.ID(), second, "alice")
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if updated.Assignment().Department() != "eng" {
		t.Errorf("assignment = %s", updated.Assignment())
	}

	got := actions(repo.audits[task.ID()])
	want := []domtask.Action{domtask.ActionCreated, domtask.ActionAssigned, domtask.ActionReassigned}
	if len(got) != len(want) {
		t.Fatalf("audit actions = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("audit[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestPickup_FromPool(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo, atRiskWindow)
	ctx := context.Background()
	p := baseParams()
	a, _ := domtask.ToDepartment("eng")
	p.Assignment = a
	task := createTask(t, svc, p)

	updated, err := svc.Pickup(ctx, task.ID(), "bob")
	if err != nil {
		t.Fatalf("Pickup: %v", err)
	}
	if updated.Assignment().Kind() != domtask.AssignedToUser || updated.Assignment().User() != "bob" {
		t.Errorf("assignment = %s", updated.Assignment())
	}
}

func TestPickup_RejectsUserAssigned(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo, atRiskWindow)
	ctx := context.Background()
	p := baseParams()
	a, _ := domtask.ToUser("carol")
	p.Assignment = a
	task := createTask(t, svc, p)

	if _, err := svc.Pickup(ctx, task.ID(), "bob"); err == nil {
		t.Fatal("expected error picking up a user-assigned task")
	}
}

func TestListMine_OwnedAndAssigned(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo, atRiskWindow)
	ctx := context.Background()

	owned := createTask(t, svc, baseParams())

	p := baseParams()
	a, _ := domtask.ToUser("alice")
	p.Assignment = a
	assigned, err := svc.Create(ctx, p, "bob")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Create(ctx, baseParams(), "bob"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	mine, err := svc.ListMine(ctx, "alice")
	if err != nil {
		t.Fatalf("ListMine: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("len(mine) = %d, want 2", len(mine))
	}
	ids := map[string]bool{mine[0].ID(): true, mine[1].ID(): true}
	if !ids[owned.ID()] || !ids[assigned.ID()] {
		t.Errorf("mine = %v, want owned %s and assigned %s", ids, owned.ID(), assigned.ID())
	}
}

func TestListPool_DepartmentOnly(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo, atRiskWindow)
	ctx := context.Background()

	p := baseParams()
	a, _ := domtask.ToDepartment("eng")
	p.Assignment = a
	pooled := createTask(t, svc, p)

	createTask(t, svc, baseParams())

	other := baseParams()
	b, _ := domtask.ToDepartment("sales")
	other.Assignment = b
	createTask(t, svc, other)

	pool, err := svc.ListPool(ctx, "eng")
	if err != nil {
		t.Fatalf("ListPool: %v", err)
	}
	if len(pool) != 1 || pool[0].ID() != pooled.ID() {
		t.Fatalf("pool = %v, want only %s", pool, pooled.ID())
	}
}

func TestComplete_AndStatus(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo, atRiskWindow)
	ctx := context.Background()
	task := createTask(t, svc, baseParams())

	if _, err := svc.SetStatus(ctx, task.ID(), "inProgress", "alice"); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	done, err := svc.Complete(ctx, task.ID(), "alice")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if !done.IsCompleted() {
		t.Error("expected completed task")
	}
	if svc.SLA(done) != domtask.SLACompleted {
		t.Errorf("SLA = %s, want completed", svc.SLA(done))
	}

	if _, err := svc.Complete(ctx, task.ID(), "alice"); err == nil {
		t.Fatal("expected error completing twice")
	}
}

func TestSweep_EscalatesOverdue(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo, atRiskWindow)
	ctx := context.Background()

	overdue := baseParams()
	overdue.DueDate = time.Now().Add(-2 * time.Hour).UnixNano()
	hit := createTask(t, svc, overdue)

	fresh := createTask(t, svc, baseParams())

	otherType := baseParams()
	otherType.TaskType = "request"
	otherType.DueDate = time.Now().Add(-2 * time.Hour).UnixNano()
	createTask(t, svc, otherType)

	if _, err := svc.CreateRule(ctx, "incident", 60, "notifyManager"); err != nil {
		t.Fatalf("CreateRule: %v", err)
	}

	hits, err := svc.Sweep(ctx)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if len(hits) != 1 || hits[0].Task.ID() != hit.ID() {
		t.Fatalf("hits = %v, want just the overdue incident", hits)
	}

	got := actions(repo.audits[hit.ID()])
	if got[len(got)-1] != domtask.ActionEscalated {
		t.Errorf("last audit action = %s, want escalated", got[len(got)-1])
	}
	if fresh.ID() == hit.ID() {
		t.Error("fixture ids collided")
	}
}

func TestSweep_NoRules(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo, atRiskWindow)
	createTask(t, svc, baseParams())

	hits, err := svc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("hits = %v, want none", hits)
	}
}

func TestGetAndUpdateRule(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo, atRiskWindow)
	ctx := context.Background()

	rule, err := svc.CreateRule(ctx, "incident", 60, "notify-manager")
	if err != nil {
		t.Fatalf("CreateRule: %v", err)
	}

	got, err := svc.GetRule(ctx, rule.ID())
	if err != nil {
		t.Fatalf("GetRule: %v", err)
	}
	if got.ThresholdMinutes() != 60 {
		t.Errorf("threshold = %d, want 60", got.ThresholdMinutes())
	}

	updated, err := svc.UpdateRule(ctx, rule.ID(), "incident", 120, "page-oncall")
	if err != nil {
		t.Fatalf("UpdateRule: %v", err)
	}
	if updated.ID() != rule.ID() {
		t.Errorf("ID = %s, want %s", updated.ID(), rule.ID())
	}
	if updated.ThresholdMinutes() != 120 || updated.Action() != "page-oncall" {
		t.Errorf("updated = %+v", updated)
	}

	got, err = svc.GetRule(ctx, rule.ID())
	if err != nil {
		t.Fatalf("GetRule after update: %v", err)
	}
	if got.Action() != "page-oncall" {
		t.Errorf("action = %s, want page-oncall", got.Action())
	}
}

func TestUpdateRule_NotFound(t *testing.T) {
	svc := New(newMockRepo(), atRiskWindow)
	_, err := svc.UpdateRule(context.Background(), "ghost", "incident", 60, "notify")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteRule_NotFound(t *testing.T) {
	svc := New(newMockRepo(), atRiskWindow)
	err := svc.DeleteRule(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
