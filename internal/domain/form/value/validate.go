package value

import (
	"github.com/taskdesk/taskdesk/internal/domain"
	"github.com/taskdesk/taskdesk/internal/domain/form/field"
)

// Validate decides whether a candidate value is acceptable for a field.
// present=false means the editor supplied nothing for the field; v is then
// ignored. Runs once per field at submit time, side-effect-free.
//
// A nil or all-default rule set accepts any value, including absence.
func Validate(f field.Field, v Value, present bool) error {
	rules := f.Rules()
	if rules == nil || rules.IsZero() {
		return nil
	}

	if !present || v.IsEmpty() {
		if rules.Required {
			return domain.NewFieldError(f.ID(), domain.ErrMissingRequiredField)
		}
		return nil
	}

	if f.FieldType().IsText() {
		n := int64(len([]rune(v.TextValue())))
		if rules.MinLength != nil && n < *rules.MinLength {
			return domain.NewFieldError(f.ID(), domain.ErrLengthOutOfRange)
		}
		if rules.MaxLength != nil && n > *rules.MaxLength {
			return domain.NewFieldError(f.ID(), domain.ErrLengthOutOfRange)
		}
	}

	if f.FieldType().IsNumeric() {
		n := v.NumberValue()
		if rules.MinValue != nil && n < *rules.MinValue {
			return domain.NewFieldError(f.ID(), domain.ErrValueOutOfRange)
		}
		if rules.MaxValue != nil && n > *rules.MaxValue {
			return domain.NewFieldError(f.ID(), domain.ErrValueOutOfRange)
		}
	}

	return nil
}
