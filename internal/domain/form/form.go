// Package form holds the versioned form definition aggregate.
package form

import (
	"fmt"

	"github.com/taskdesk/taskdesk/internal/domain/form/field"
	"github.com/taskdesk/taskdesk/internal/domain/identity"
)

// Definition is the versioned schema artifact a form is filled against:
// an ordered field list with unique ids. Field order is significant and
// preserved. Immutable value object; edits produce a new Definition.
type Definition struct {
	id          string
	name        string
	version     int64
	creator     identity.Principal
	created     int64
	lastUpdated int64
	fields      []field.Field
}

func validateFields(fields []field.Field) error {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f.ID()] {
			return fmt.Errorf("duplicate field id: %s", f.ID())
		}
		seen[f.ID()] = true
	}
	return nil
}

// New validates and creates a Definition at version 1.
// Timestamps are epoch nanoseconds.
func New(id, name string, creator identity.Principal, fields []field.Field, now int64) (Definition, error) {
	if id == "" {
		return Definition{}, fmt.Errorf("definition id is required")
	}
	if name == "" {
		return Definition{}, fmt.Errorf("definition name is required")
	}
	if err := validateFields(fields); err != nil {
		return Definition{}, err
	}
	return Definition{
		id:          id,
		name:        name,
		version:     1,
		creator:     creator,
		created:     now,
		lastUpdated: now,
		fields:      fields,
	}, nil
}

// Reconstruct creates a Definition without validation (storage hydration).
func Reconstruct(
	id, name string, version int64, creator identity.Principal,
	created, lastUpdated int64, fields []field.Field,
) Definition {
	return Definition{
		id: id, name: name, version: version, creator: creator,
		created: created, lastUpdated: lastUpdated, fields: fields,
	}
}

// Update applies an edit, returning the successor Definition. lastUpdated is
// always refreshed; version bumps only when the field list changes, so
// submissions stamped with an older version stay attributable to the field
// set actually in effect when they were made.
func (d Definition) Update(name string, fields []field.Field, now int64) (Definition, error) {
	if name == "" {
		return Definition{}, fmt.Errorf("definition name is required")
	}
	if err := validateFields(fields); err != nil {
		return Definition{}, err
	}
	next := d
	next.name = name
	next.fields = fields
	next.lastUpdated = now
	if !fieldsEqual(d.fields, fields) {
		next.version = d.version + 1
	}
	return next, nil
}

func fieldsEqual(a, b []field.Field) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !fieldEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func fieldEqual(a, b field.Field) bool {
	if a.ID() != b.ID() || a.Label() != b.Label() || a.FieldType() != b.FieldType() ||
		a.MasterListRef() != b.MasterListRef() {
		return false
	}
	if !rulesEqual(a.Rules(), b.Rules()) {
		return false
	}
	ao, bo := a.Options(), b.Options()
	if len(ao) != len(bo) {
		return false
	}
	for i := range ao {
		if ao[i] != bo[i] {
			return false
		}
	}
	return true
}

func rulesEqual(a, b *field.Rules) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if a == nil {
		return true
	}
	return a.Required == b.Required &&
		boundEqual(a.MinLength, b.MinLength) && boundEqual(a.MaxLength, b.MaxLength) &&
		boundEqual(a.MinValue, b.MinValue) && boundEqual(a.MaxValue, b.MaxValue)
}

func boundEqual(a, b *int64) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || *a == *b
}

// ID returns the definition id.
func (d Definition) ID() string { return d.id }

// Name returns the definition name.
func (d Definition) Name() string { return d.name }

// Version returns the monotonically increasing schema version (starts at 1).
func (d Definition) Version() int64 { return d.version }

// Creator returns the authoring principal.
func (d Definition) Creator() identity.Principal { return d.creator }

// Created returns the creation timestamp (epoch nanos).
func (d Definition) Created() int64 { return d.created }

// LastUpdated returns the last edit timestamp (epoch nanos).
func (d Definition) LastUpdated() int64 { return d.lastUpdated }

// Fields returns the ordered field list.
func (d Definition) Fields() []field.Field { return d.fields }

// FieldByID looks up a field by id.
func (d Definition) FieldByID(id string) (field.Field, bool) {
	for _, f := range d.fields {
		if f.ID() == id {
			return f, true
		}
	}
	return field.Field{}, false
}
