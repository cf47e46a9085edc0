package master

import (
	"fmt"
	"strings"
)

// Item is one value/label pair of a master list.
type Item struct {
	Value string
	Label string
}

// List is a user-defined lookup list referenced by choice fields through a
// field's masterListRef.
type List struct {
	id          string
	name        string
	items       []Item
	created     int64
	lastUpdated int64
}

func validateItems(items []Item) error {
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if it.Value == "" {
			return fmt.Errorf("list item value is required")
		}
		if seen[it.Value] {
			return fmt.Errorf("duplicate list item value: %s", it.Value)
		}
		seen[it.Value] = true
	}
	return nil
}

// NewList validates and creates a List.
func NewList(id, name string, items []Item, now int64) (List, error) {
	if id == "" {
		return List{}, fmt.Errorf("list id is required")
	}
	if name == "" {
		return List{}, fmt.Errorf("list name is required")
	}
	if err := validateItems(items); err != nil {
		return List{}, err
	}
	return List{id: id, name: name, items: items, created: now, lastUpdated: now}, nil
}

// ReconstructList creates a List without validation (storage hydration).
func ReconstructList(id, name string, items []Item, created, lastUpdated int64) List {
	return List{id: id, name: name, items: items, created: created, lastUpdated: lastUpdated}
}

// Update replaces the name and items, refreshing lastUpdated.
func (l List) Update(name string, items []Item, now int64) (List, error) {
	if name == "" {
		return List{}, fmt.Errorf("list name is required")
	}
	if err := validateItems(items); err != nil {
		return List{}, err
	}
	l.name = name
	l.items = items
	l.lastUpdated = now
	return l, nil
}

// ID returns the list id.
func (l List) ID() string { return l.id }

// Name returns the list name.
func (l List) Name() string { return l.name }

// Items returns the ordered value/label pairs.
func (l List) Items() []Item { return l.items }

// Created returns the creation timestamp (epoch nanos).
func (l List) Created() int64 { return l.created }

// LastUpdated returns the last edit timestamp (epoch nanos).
func (l List) LastUpdated() int64 { return l.lastUpdated }

// Ref formats for master list references held in field definitions.
// Fixed masters resolve by kind, user-defined lists by id.
const (
	fixedRefPrefix = "fixed:"
	listRefPrefix  = "list:"
)

// FixedRef builds the masterListRef string for a fixed master.
func FixedRef(k Kind) string { return fixedRefPrefix + string(k) }

// ListRef builds the masterListRef string for a user-defined list.
func ListRef(id string) string { return listRefPrefix + id }

// ResolveRef splits a masterListRef into its kind of target. Exactly one of
// the returns is populated; ok=false means the ref is malformed.
func ResolveRef(ref string) (fixed Kind, listID string, ok bool) {
	switch {
	case strings.HasPrefix(ref, fixedRefPrefix):
		k, err := ParseKind(strings.TrimPrefix(ref, fixedRefPrefix))
		if err != nil {
			return "", "", false
		}
		return k, "", true
	case strings.HasPrefix(ref, listRefPrefix):
		id := strings.TrimPrefix(ref, listRefPrefix)
		if id == "" {
			return "", "", false
		}
		return "", id, true
	}
	return "", "", false
}
