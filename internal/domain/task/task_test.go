package task

import (
	"testing"
	"time"
)

const nowNanos = int64(1700000000000000000)

func makeTask(t *testing.T, assignment Assignment) Task {
	t.Helper()
	tk, err := New("task-1", "tt-onboarding", "st-open", "pr-high",
		"alice", assignment, nowNanos+day, []FormAttachment{{FormDefinitionID: "form-1"}}, nowNanos)
	if err != nil {
		t.Fatalf("task.New: %v", err)
	}
	return tk
}

const day = int64(24 * time.Hour)

func TestNew_Valid(t *testing.T) {
	tk := makeTask(t, Assignment{})
	if tk.Status() != "st-open" || tk.Priority() != "pr-high" {
		t.Errorf("status/priority = %s/%s", tk.Status(), tk.Priority())
	}
	if !tk.Assignment().IsZero() {
		t.Error("new task should be unassigned")
	}
	if tk.IsCompleted() {
		t.Error("new task should not be completed")
	}
}

func TestNew_DuplicateFormAttachment(t *testing.T) {
	_, err := New("task-1", "tt", "st", "pr", "alice", Assignment{}, nowNanos+day,
		[]FormAttachment{{FormDefinitionID: "f"}, {FormDefinitionID: "f"}}, nowNanos)
	if err == nil {
		t.Fatal("expected error for duplicate form attachment")
	}
}

func TestPickup_FromDepartmentPool(t *testing.T) {
	pool, err := ToDepartment("dep-it")
	if err != nil {
		t.Fatalf("ToDepartment: %v", err)
	}
	tk := makeTask(t, pool)

	picked, err := tk.Pickup("bob")
	if err != nil {
		t.Fatalf("Pickup: %v", err)
	}
	if picked.Assignment().Kind() != AssignedToUser || picked.Assignment().User() != "bob" {
		t.Errorf("assignment = %s, want user:bob", picked.Assignment())
	}
	// Original is untouched.
	if tk.Assignment().Kind() != AssignedToDepartment {
		t.Error("pickup mutated the original task")
	}
}

func TestPickup_RejectsUserAssignedTask(t *testing.T) {
	a, _ := ToUser("carol")
	tk := makeTask(t, a)
	if _, err := tk.Pickup("bob"); err == nil {
		t.Fatal("expected error picking up a user-assigned task")
	}
}

func TestComplete_Twice(t *testing.T) {
	tk := makeTask(t, Assignment{})
	done, err := tk.Complete(nowNanos + 1)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if !done.IsCompleted() || done.CompletionDate() != nowNanos+1 {
		t.Errorf("completionDate = %d, want %d", done.CompletionDate(), nowNanos+1)
	}
	if _, err := done.Complete(nowNanos + 2); err == nil {
		t.Fatal("expected error completing twice")
	}
}

func TestMarkFormCompleted(t *testing.T) {
	tk := makeTask(t, Assignment{})
	marked, err := tk.MarkFormCompleted("form-1")
	if err != nil {
		t.Fatalf("MarkFormCompleted: %v", err)
	}
	if !marked.AttachedForms()[0].Completed {
		t.Error("attachment not marked completed")
	}
	if tk.AttachedForms()[0].Completed {
		t.Error("MarkFormCompleted mutated the original task")
	}
	if _, err := tk.MarkFormCompleted("ghost"); err == nil {
		t.Fatal("expected error for unattached form")
	}
}

func TestSLA(t *testing.T) {
	tk := makeTask(t, Assignment{}) // due at nowNanos+day
	window := 4 * time.Hour

	if got := tk.SLA(nowNanos, window); got != SLAOnTrack {
		t.Errorf("SLA(now) = %s, want onTrack", got)
	}
	if got := tk.SLA(nowNanos+day-int64(time.Hour), window); got != SLAAtRisk {
		t.Errorf("SLA(1h before due) = %s, want atRisk", got)
	}
	if got := tk.SLA(nowNanos+day+1, window); got != SLAOverdue {
		t.Errorf("SLA(past due) = %s, want overdue", got)
	}

	done, _ := tk.Complete(nowNanos + 1)
	if got := done.SLA(nowNanos+2*day, window); got != SLACompleted {
		t.Errorf("SLA(completed) = %s, want completed", got)
	}
}

func TestEscalationRule_Matches(t *testing.T) {
	rule, err := NewEscalationRule("esc-1", "tt-onboarding", 60, "notifyManager")
	if err != nil {
		t.Fatalf("NewEscalationRule: %v", err)
	}
	tk := makeTask(t, Assignment{}) // due at nowNanos+day

	if rule.Matches(tk, nowNanos+day+int64(30*time.Minute)) {
		t.Error("rule fired before threshold")
	}
	if !rule.Matches(tk, nowNanos+day+int64(61*time.Minute)) {
		t.Error("rule did not fire past threshold")
	}

	other, _ := New("task-2", "tt-other", "st", "pr", "alice", Assignment{}, nowNanos, nil, nowNanos)
	if rule.Matches(other, nowNanos+day) {
		t.Error("rule fired for a different task type")
	}
}

func TestNewEscalationRule_Invalid(t *testing.T) {
	if _, err := NewEscalationRule("esc-1", "tt", 0, "act"); err == nil {
		t.Fatal("expected error for zero threshold")
	}
	if _, err := NewEscalationRule("esc-1", "", 5, "act"); err == nil {
		t.Fatal("expected error for empty task type")
	}
}
