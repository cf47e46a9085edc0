// Package field holds the form field vocabulary: the closed set of field
// types, per-field validation rules, and the field value object itself.
package field

import (
	"fmt"
	"strings"
)

// Option is one selectable value/label pair for choice fields.
type Option struct {
	Value string
	Label string
}

// Field is an immutable value object describing one field of a form
// definition. Rules is nil when the field carries no constraints; Options
// and MasterListRef are unset unless meaningful.
type Field struct {
	id            string
	label         string
	fieldType     Type
	rules         *Rules
	options       []Option
	masterListRef string
}

// New validates, normalizes and creates a Field. Empty option lists, blank
// master list refs and all-default rule sets are collapsed to unset so that
// definition equality stays stable.
func New(id, label string, t Type, rules *Rules, options []Option, masterListRef string) (Field, error) {
	if id == "" {
		return Field{}, fmt.Errorf("field id is required")
	}
	if label == "" {
		return Field{}, fmt.Errorf("field %s: label is required", id)
	}
	if !t.IsValid() {
		return Field{}, fmt.Errorf("field %s: invalid field type %q", id, t)
	}
	if rules != nil {
		if err := rules.validate(t); err != nil {
			return Field{}, fmt.Errorf("field %s: %w", id, err)
		}
		if rules.IsZero() {
			rules = nil
		} else {
			cp := *rules
			rules = &cp
		}
	}
	masterListRef = strings.TrimSpace(masterListRef)
	if len(options) == 0 {
		options = nil
	}
	if (options != nil || masterListRef != "") && !t.IsChoice() {
		return Field{}, fmt.Errorf("field %s: options apply only to choice fields, not %s", id, t.DisplayName())
	}
	for _, o := range options {
		if o.Value == "" {
			return Field{}, fmt.Errorf("field %s: option value is required", id)
		}
	}
	return Field{
		id:            id,
		label:         label,
		fieldType:     t,
		rules:         rules,
		options:       options,
		masterListRef: masterListRef,
	}, nil
}

// Reconstruct creates a Field without validation (storage hydration).
func Reconstruct(id, label string, t Type, rules *Rules, options []Option, masterListRef string) Field {
	return Field{id: id, label: label, fieldType: t, rules: rules, options: options, masterListRef: masterListRef}
}

// ID returns the field id, unique within its definition.
func (f Field) ID() string { return f.id }

// Label returns the display label.
func (f Field) Label() string { return f.label }

// FieldType returns the declared type.
func (f Field) FieldType() Type { return f.fieldType }

// Rules returns the validation rules, or nil when unconstrained.
func (f Field) Rules() *Rules {
	if f.rules == nil {
		return nil
	}
	cp := *f.rules
	return &cp
}

// Required reports whether the field must carry a value at submit time.
func (f Field) Required() bool { return f.rules != nil && f.rules.Required }

// Options returns the declared choice options (nil when unset).
func (f Field) Options() []Option { return f.options }

// MasterListRef returns the external lookup list reference ("" when unset).
// Fixed masters use the form "fixed:<kind>", user-defined lists "list:<id>".
func (f Field) MasterListRef() string { return f.masterListRef }
