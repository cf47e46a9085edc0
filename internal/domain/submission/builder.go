package submission

import (
	"github.com/taskdesk/taskdesk/internal/domain"
	form "github.com/taskdesk/taskdesk/internal/domain/form"
	"github.com/taskdesk/taskdesk/internal/domain/form/value"
	"github.com/taskdesk/taskdesk/internal/domain/identity"
)

// EditorState is the loosely-typed per-field state a form editor accumulates:
// field id to raw value. Shapes are coerced per the field's declared type,
// never guessed from the runtime type.
type EditorState map[string]any

// Build validates editor state against a definition and encodes it into a
// Submission stamped with the definition's current version. Fields with no
// editor value and required=false are omitted entirely; editor keys that the
// definition does not declare are rejected. All failures are field-scoped
// and recoverable — previously entered editor state stays intact with the
// caller.
func Build(
	def form.Definition,
	state EditorState,
	id, taskID string,
	by identity.Principal,
	now int64,
) (Submission, error) {
	for fieldID := range state {
		if _, ok := def.FieldByID(fieldID); !ok {
			return Submission{}, domain.NewFieldError(fieldID, domain.ErrUnknownField)
		}
	}

	inputs := make([]Input, 0, len(def.Fields()))
	for _, f := range def.Fields() {
		raw, present := state[f.ID()]
		if present && (raw == nil || raw == "") {
			present = false
		}

		c, err := codecFor(f.FieldType())
		if err != nil {
			return Submission{}, domain.NewFieldError(f.ID(), err)
		}

		var v value.Value
		if present {
			v, err = c.encode(raw)
			if err != nil {
				return Submission{}, domain.NewFieldError(f.ID(), err)
			}
		}

		if err := value.Validate(f, v, present); err != nil {
			return Submission{}, err
		}

		// Absence is absence, not a sentinel empty value.
		if !present || v.IsEmpty() {
			continue
		}
		inputs = append(inputs, Input{FieldID: f.ID(), Value: v})
	}

	return Submission{
		id:          id,
		taskID:      taskID,
		formID:      def.ID(),
		version:     def.Version(),
		inputs:      inputs,
		submittedBy: by,
		submittedAt: now,
	}, nil
}
