package field

import "fmt"

// Rules are the optional per-field validation constraints. Bounds are
// pointers: nil means the bound is not declared. A Rules value where every
// attribute is absent or false is equivalent to "no constraints" and is
// collapsed to unset during definition normalization.
type Rules struct {
	Required  bool
	MinLength *int64
	MaxLength *int64
	MinValue  *int64
	MaxValue  *int64
}

// IsZero reports whether the rule set carries no constraints at all.
func (r Rules) IsZero() bool {
	return !r.Required &&
		r.MinLength == nil && r.MaxLength == nil &&
		r.MinValue == nil && r.MaxValue == nil
}

// validate rejects internally inconsistent or inapplicable rule sets for a
// field of the given type.
func (r Rules) validate(t Type) error {
	if (r.MinLength != nil || r.MaxLength != nil) && !t.IsText() {
		return fmt.Errorf("length bounds apply only to text fields, not %s", t.DisplayName())
	}
	if (r.MinValue != nil || r.MaxValue != nil) && !t.IsNumeric() {
		return fmt.Errorf("value bounds apply only to number fields, not %s", t.DisplayName())
	}
	if r.MinLength != nil && *r.MinLength < 0 {
		return fmt.Errorf("minLength must not be negative")
	}
	if r.MinLength != nil && r.MaxLength != nil && *r.MinLength > *r.MaxLength {
		return fmt.Errorf("minLength %d exceeds maxLength %d", *r.MinLength, *r.MaxLength)
	}
	if r.MinValue != nil && r.MaxValue != nil && *r.MinValue > *r.MaxValue {
		return fmt.Errorf("minValue %d exceeds maxValue %d", *r.MinValue, *r.MaxValue)
	}
	return nil
}
