package task

import "time"

// SLAState classifies a task against its due date.
type SLAState string

// SLA states.
const (
	SLAOnTrack   SLAState = "onTrack"
	SLAAtRisk    SLAState = "atRisk"
	SLAOverdue   SLAState = "overdue"
	SLACompleted SLAState = "completed"
)

// SLA derives the task's SLA state at the given instant (epoch nanos).
// atRiskWindow is how long before the due date a task counts as at risk.
func (t Task) SLA(now int64, atRiskWindow time.Duration) SLAState {
	if t.IsCompleted() {
		return SLACompleted
	}
	if now > t.dueDate {
		return SLAOverdue
	}
	if now > t.dueDate-atRiskWindow.Nanoseconds() {
		return SLAAtRisk
	}
	return SLAOnTrack
}

// OverdueBy returns how long the task has been overdue at now, or 0.
func (t Task) OverdueBy(now int64) time.Duration {
	if t.IsCompleted() || now <= t.dueDate {
		return 0
	}
	return time.Duration(now - t.dueDate)
}
