package task

import (
	"fmt"

	"github.com/taskdesk/taskdesk/internal/domain/identity"
)

// AssignmentKind tags the assignment variant.
type AssignmentKind string

// Assignment variants: a task is held by a single user or sits in a
// department pool awaiting pickup.
const (
	AssignedToUser       AssignmentKind = "user"
	AssignedToDepartment AssignmentKind = "department"
)

// Assignment is a closed sum: either a user principal or a department id.
// The zero Assignment means unassigned.
type Assignment struct {
	kind       AssignmentKind
	user       identity.Principal
	department string
}

// ToUser creates a user assignment.
func ToUser(p identity.Principal) (Assignment, error) {
	if p.IsZero() {
		return Assignment{}, fmt.Errorf("assignee principal is required")
	}
	return Assignment{kind: AssignedToUser, user: p}, nil
}

// ToDepartment creates a department pool assignment.
func ToDepartment(departmentID string) (Assignment, error) {
	if departmentID == "" {
		return Assignment{}, fmt.Errorf("department id is required")
	}
	return Assignment{kind: AssignedToDepartment, department: departmentID}, nil
}

// ReconstructAssignment rebuilds an Assignment from wire parts (hydration).
func ReconstructAssignment(kind AssignmentKind, user identity.Principal, department string) Assignment {
	return Assignment{kind: kind, user: user, department: department}
}

// IsZero reports whether the task is unassigned.
func (a Assignment) IsZero() bool { return a.kind == "" }

// Kind returns the populated variant's tag ("" when unassigned).
func (a Assignment) Kind() AssignmentKind { return a.kind }

// User returns the assignee principal (user variant only).
func (a Assignment) User() identity.Principal { return a.user }

// Department returns the pool department id (department variant only).
func (a Assignment) Department() string { return a.department }

func (a Assignment) String() string {
	switch a.kind {
	case AssignedToUser:
		return "user:" + a.user.String()
	case AssignedToDepartment:
		return "department:" + a.department
	}
	return "unassigned"
}
