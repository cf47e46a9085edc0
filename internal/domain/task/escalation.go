package task

import (
	"fmt"
	"time"
)

// EscalationRule triggers an action once tasks of a type run past their due
// date by the threshold.
type EscalationRule struct {
	id               string
	taskType         string
	thresholdMinutes int64
	action           string
}

// NewEscalationRule validates and creates a rule.
func NewEscalationRule(id, taskType string, thresholdMinutes int64, action string) (EscalationRule, error) {
	if id == "" {
		return EscalationRule{}, fmt.Errorf("escalation rule id is required")
	}
	if taskType == "" {
		return EscalationRule{}, fmt.Errorf("escalation rule task type is required")
	}
	if thresholdMinutes <= 0 {
		return EscalationRule{}, fmt.Errorf("escalation threshold must be positive")
	}
	if action == "" {
		return EscalationRule{}, fmt.Errorf("escalation rule action is required")
	}
	return EscalationRule{id: id, taskType: taskType, thresholdMinutes: thresholdMinutes, action: action}, nil
}

// ReconstructEscalationRule creates a rule without validation (hydration).
func ReconstructEscalationRule(id, taskType string, thresholdMinutes int64, action string) EscalationRule {
	return EscalationRule{id: id, taskType: taskType, thresholdMinutes: thresholdMinutes, action: action}
}

// Matches reports whether the rule fires for the task at now (epoch nanos).
func (r EscalationRule) Matches(t Task, now int64) bool {
	if t.TaskType() != r.taskType {
		return false
	}
	return t.OverdueBy(now) >= time.Duration(r.thresholdMinutes)*time.Minute
}

// ID returns the rule id.
func (r EscalationRule) ID() string { return r.id }

// TaskType returns the task type master id the rule applies to.
func (r EscalationRule) TaskType() string { return r.taskType }

// ThresholdMinutes returns how long past due a task may run before escalation.
func (r EscalationRule) ThresholdMinutes() int64 { return r.thresholdMinutes }

// Action returns the configured escalation action label.
func (r EscalationRule) Action() string { return r.action }
