// Package master holds administrator-maintained lookup data: the fixed
// masters (departments, categories, statuses, priorities, task types) and
// user-defined master lists.
package master

import "fmt"

// Kind names one of the fixed masters. They all share the same record shape.
type Kind string

// Fixed master kinds.
const (
	Departments Kind = "departments"
	Categories  Kind = "categories"
	Statuses    Kind = "statuses"
	Priorities  Kind = "priorities"
	TaskTypes   Kind = "taskTypes"
)

// Kinds lists every fixed master.
func Kinds() []Kind {
	return []Kind{Departments, Categories, Statuses, Priorities, TaskTypes}
}

// ParseKind validates a kind string.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case Departments, Categories, Statuses, Priorities, TaskTypes:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown master kind %q", s)
}

// Record is one entry of a fixed master.
type Record struct {
	id          string
	name        string
	created     int64
	lastUpdated int64
}

// NewRecord validates and creates a Record. Timestamps are epoch nanos.
func NewRecord(id, name string, now int64) (Record, error) {
	if id == "" {
		return Record{}, fmt.Errorf("record id is required")
	}
	if name == "" {
		return Record{}, fmt.Errorf("record name is required")
	}
	return Record{id: id, name: name, created: now, lastUpdated: now}, nil
}

// ReconstructRecord creates a Record without validation (storage hydration).
func ReconstructRecord(id, name string, created, lastUpdated int64) Record {
	return Record{id: id, name: name, created: created, lastUpdated: lastUpdated}
}

// Rename returns the record with a new name and refreshed lastUpdated.
func (r Record) Rename(name string, now int64) (Record, error) {
	if name == "" {
		return Record{}, fmt.Errorf("record name is required")
	}
	r.name = name
	r.lastUpdated = now
	return r, nil
}

// ID returns the record id.
func (r Record) ID() string { return r.id }

// Name returns the display name.
func (r Record) Name() string { return r.name }

// Created returns the creation timestamp (epoch nanos).
func (r Record) Created() int64 { return r.created }

// LastUpdated returns the last edit timestamp (epoch nanos).
func (r Record) LastUpdated() int64 { return r.lastUpdated }
