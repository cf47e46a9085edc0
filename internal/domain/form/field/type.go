package field

import "fmt"

// Type is the declared kind of a form field. The set is closed: encoding
// and rendering dispatch exhaustively on it.
type Type string

// Field type constants. NumberTag is the canonical tag for numeric fields;
// it carries a trailing underscore so the tag stays clear of reserved words
// in generated bindings, and is displayed to users as plain "number".
const (
	SingleLine  Type = "singleLine"
	MultiLine   Type = "multiLine"
	NumberTag   Type = "number_"
	Date        Type = "date"
	DateTime    Type = "dateTime"
	Dropdown    Type = "dropdown"
	MultiSelect Type = "multiSelect"
	FileUpload  Type = "fileUpload"
)

// Types lists the full vocabulary in display order.
func Types() []Type {
	return []Type{SingleLine, MultiLine, NumberTag, Date, DateTime, Dropdown, MultiSelect, FileUpload}
}

// IsValid reports whether t is in the closed vocabulary.
func (t Type) IsValid() bool {
	switch t {
	case SingleLine, MultiLine, NumberTag, Date, DateTime, Dropdown, MultiSelect, FileUpload:
		return true
	}
	return false
}

// DisplayName returns the human-facing label for the type.
func (t Type) DisplayName() string {
	if t == NumberTag {
		return "number"
	}
	return string(t)
}

// ParseType maps a tag or display label to the canonical Type. The display
// string "number" maps to the NumberTag alias.
func ParseType(s string) (Type, error) {
	if s == "number" {
		return NumberTag, nil
	}
	t := Type(s)
	if !t.IsValid() {
		return "", fmt.Errorf("unknown field type %q", s)
	}
	return t, nil
}

// IsText reports whether values of this type are text-shaped, which is what
// makes minLength/maxLength rules applicable.
func (t Type) IsText() bool {
	return t == SingleLine || t == MultiLine
}

// IsNumeric reports whether values of this type are numeric, which is what
// makes minValue/maxValue rules applicable.
func (t Type) IsNumeric() bool { return t == NumberTag }

// IsChoice reports whether the type selects from declared options or a
// master list reference.
func (t Type) IsChoice() bool { return t == Dropdown || t == MultiSelect }
