package form

import (
	"encoding/json"
	"fmt"
	"strconv"

	domform "github.com/taskdesk/taskdesk/internal/domain/form"
	"github.com/taskdesk/taskdesk/internal/domain/form/field"
	"github.com/taskdesk/taskdesk/internal/domain/identity"
)

// rulesRow is the JSON-serializable validation rule set.
type rulesRow struct {
	Required  bool   `json:"required"`
	MinLength *int64 `json:"minLength,omitempty"`
	MaxLength *int64 `json:"maxLength,omitempty"`
	MinValue  *int64 `json:"minValue,omitempty"`
	MaxValue  *int64 `json:"maxValue,omitempty"`
}

// optionRow is one choice option.
type optionRow struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// fieldRow is the JSON-serializable representation of a field for HSET.
type fieldRow struct {
	ID            string      `json:"id"`
	Label         string      `json:"label"`
	Type          string      `json:"type"`
	Rules         *rulesRow   `json:"rules,omitempty"`
	Options       []optionRow `json:"options,omitempty"`
	MasterListRef string      `json:"masterListRef,omitempty"`
}

// definitionToHash converts a domain Definition to a map for HSET.
func definitionToHash(def domform.Definition) (map[string]string, error) {
	rows := make([]fieldRow, len(def.Fields()))
	for i, f := range def.Fields() {
		row := fieldRow{
			ID:            f.ID(),
			Label:         f.Label(),
			Type:          string(f.FieldType()),
			MasterListRef: f.MasterListRef(),
		}
		if r := f.Rules(); r != nil {
			row.Rules = &rulesRow{
				Required:  r.Required,
				MinLength: r.MinLength,
				MaxLength: r.MaxLength,
				MinValue:  r.MinValue,
				MaxValue:  r.MaxValue,
			}
		}
		for _, o := range f.Options() {
			row.Options = append(row.Options, optionRow{Value: o.Value, Label: o.Label})
		}
		rows[i] = row
	}
	fieldsJSON, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("marshal fields: %w", err)
	}
	return map[string]string{
		"id":           def.ID(),
		"name":         def.Name(),
		"version":      strconv.FormatInt(def.Version(), 10),
		"creator":      def.Creator().String(),
		"created":      strconv.FormatInt(def.Created(), 10),
		"last_updated": strconv.FormatInt(def.LastUpdated(), 10),
		"fields_json":  string(fieldsJSON),
	}, nil
}

// definitionFromHash hydrates a domain Definition from an HGETALL result map.
func definitionFromHash(m map[string]string) (domform.Definition, error) {
	version, err := strconv.ParseInt(m["version"], 10, 64)
	if err != nil {
		return domform.Definition{}, fmt.Errorf("invalid version: %w", err)
	}
	created, err := strconv.ParseInt(m["created"], 10, 64)
	if err != nil {
		return domform.Definition{}, fmt.Errorf("invalid created: %w", err)
	}
	lastUpdated, err := strconv.ParseInt(m["last_updated"], 10, 64)
	if err != nil {
		return domform.Definition{}, fmt.Errorf("invalid last_updated: %w", err)
	}

	var rows []fieldRow
	if fieldsJSON := m["fields_json"]; fieldsJSON != "" {
		if err := json.Unmarshal([]byte(fieldsJSON), &rows); err != nil {
			return domform.Definition{}, fmt.Errorf("unmarshal fields: %w", err)
		}
	}

	fields := make([]field.Field, len(rows))
	for i, row := range rows {
		var rules *field.Rules
		if row.Rules != nil {
			rules = &field.Rules{
				Required:  row.Rules.Required,
				MinLength: row.Rules.MinLength,
				MaxLength: row.Rules.MaxLength,
				MinValue:  row.Rules.MinValue,
				MaxValue:  row.Rules.MaxValue,
			}
		}
		var options []field.Option
		for _, o := range row.Options {
			options = append(options, field.Option{Value: o.Value, Label: o.Label})
		}
		fields[i] = field.Reconstruct(row.ID, row.Label, field.Type(row.Type), rules, options, row.MasterListRef)
	}

	return domform.Reconstruct(
		m["id"], m["name"], version, identity.Principal(m["creator"]),
		created, lastUpdated, fields,
	), nil
}
