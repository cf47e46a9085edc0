// Package submission models immutable form submission records and the
// normalizer that builds them from loosely-typed editor state.
package submission

import (
	"fmt"

	"github.com/taskdesk/taskdesk/internal/domain/form/value"
	"github.com/taskdesk/taskdesk/internal/domain/identity"
)

// Input is one answered field: the field id plus its typed value.
type Input struct {
	FieldID string
	Value   value.Value
}

// Submission is the persisted result of applying a form definition to user
// input at a point in time. Append-only: created once, never updated.
// Version is the definition version in effect at submit time and is
// preserved verbatim even after the definition moves on.
type Submission struct {
	id          string
	taskID      string
	formID      string
	version     int64
	inputs      []Input
	submittedBy identity.Principal
	submittedAt int64
}

// Reconstruct creates a Submission without validation (storage hydration).
func Reconstruct(
	id, taskID, formID string, version int64,
	inputs []Input, by identity.Principal, at int64,
) Submission {
	return Submission{
		id: id, taskID: taskID, formID: formID, version: version,
		inputs: inputs, submittedBy: by, submittedAt: at,
	}
}

// ID returns the submission id.
func (s Submission) ID() string { return s.id }

// TaskID returns the task the form was submitted against ("" for standalone).
func (s Submission) TaskID() string { return s.taskID }

// FormID returns the form definition id.
func (s Submission) FormID() string { return s.formID }

// Version returns the definition version in effect at submit time.
func (s Submission) Version() int64 { return s.version }

// Inputs returns the ordered (fieldId, value) pairs.
func (s Submission) Inputs() []Input { return s.inputs }

// SubmittedBy returns the submitting principal.
func (s Submission) SubmittedBy() identity.Principal { return s.submittedBy }

// SubmittedAt returns the submission timestamp (epoch nanos).
func (s Submission) SubmittedAt() int64 { return s.submittedAt }

// Value looks up the value for a field id.
func (s Submission) Value(fieldID string) (value.Value, bool) {
	for _, in := range s.inputs {
		if in.FieldID == fieldID {
			return in.Value, true
		}
	}
	return value.Value{}, false
}

// Decoded returns the generic display form of every answered field, keyed by
// field id. Unsupported variants decode to their marker, never an error.
func (s Submission) Decoded() map[string]any {
	out := make(map[string]any, len(s.inputs))
	for _, in := range s.inputs {
		out[in.FieldID] = in.Value.Decode()
	}
	return out
}

func (s Submission) String() string {
	return fmt.Sprintf("submission %s (form %s v%d, %d values)", s.id, s.formID, s.version, len(s.inputs))
}
