package submission

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/taskdesk/taskdesk/internal/domain"
	"github.com/taskdesk/taskdesk/internal/domain/form/field"
	"github.com/taskdesk/taskdesk/internal/domain/form/value"
)

// codec converts one editor value into the typed variant for its field kind.
// One implementation per field type; dispatch goes through codecFor, keyed by
// the field's declared type, never by the runtime shape of the editor value.
type codec interface {
	encode(raw any) (value.Value, error)
}

func codecFor(t field.Type) (codec, error) {
	switch t {
	case field.SingleLine, field.MultiLine:
		return textCodec{}, nil
	case field.NumberTag:
		return numberCodec{}, nil
	case field.Date:
		return dateCodec{kind: value.KindDate, layout: "2006-01-02"}, nil
	case field.DateTime:
		return dateCodec{kind: value.KindDateTime, layout: time.RFC3339}, nil
	case field.Dropdown:
		return singleChoiceCodec{}, nil
	case field.MultiSelect:
		return multiChoiceCodec{}, nil
	case field.FileUpload:
		return fileCodec{}, nil
	}
	return nil, domain.ErrUnknownFieldType
}

type textCodec struct{}

func (textCodec) encode(raw any) (value.Value, error) {
	s, ok := raw.(string)
	if !ok {
		return value.Value{}, domain.ErrValueShapeMismatch
	}
	return value.Text(s), nil
}

type numberCodec struct{}

// encode coerces editor string/number input into an integer. Parse failure
// is a validation error, never a silent default.
func (numberCodec) encode(raw any) (value.Value, error) {
	switch n := raw.(type) {
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return value.Value{}, domain.ErrInvalidNumericInput
		}
		return value.Number(i), nil
	case int:
		return value.Number(int64(n)), nil
	case int64:
		return value.Number(n), nil
	case float64:
		if n != math.Trunc(n) {
			return value.Value{}, domain.ErrInvalidNumericInput
		}
		return value.Number(int64(n)), nil
	}
	return value.Value{}, domain.ErrValueShapeMismatch
}

// dateCodec handles both date and dateTime fields: integer input is taken as
// epoch nanoseconds (the wire unit), string input is parsed with the
// editor-facing layout.
type dateCodec struct {
	kind   value.Kind
	layout string
}

func (c dateCodec) encode(raw any) (value.Value, error) {
	var nanos int64
	switch t := raw.(type) {
	case string:
		parsed, err := time.Parse(c.layout, strings.TrimSpace(t))
		if err != nil {
			return value.Value{}, domain.ErrValueShapeMismatch
		}
		nanos = parsed.UnixNano()
	case int64:
		nanos = t
	case int:
		nanos = int64(t)
	case float64:
		nanos = int64(t)
	default:
		return value.Value{}, domain.ErrValueShapeMismatch
	}
	if c.kind == value.KindDate {
		return value.Date(nanos), nil
	}
	return value.DateTime(nanos), nil
}

type singleChoiceCodec struct{}

func (singleChoiceCodec) encode(raw any) (value.Value, error) {
	s, ok := raw.(string)
	if !ok {
		return value.Value{}, domain.ErrValueShapeMismatch
	}
	return value.SingleChoice(s), nil
}

type multiChoiceCodec struct{}

func (multiChoiceCodec) encode(raw any) (value.Value, error) {
	switch vs := raw.(type) {
	case []string:
		return value.MultipleChoices(vs), nil
	case []any:
		out := make([]string, len(vs))
		for i, item := range vs {
			s, ok := item.(string)
			if !ok {
				return value.Value{}, domain.ErrValueShapeMismatch
			}
			out[i] = s
		}
		return value.MultipleChoices(out), nil
	}
	return value.Value{}, domain.ErrValueShapeMismatch
}

type fileCodec struct{}

func (fileCodec) encode(raw any) (value.Value, error) {
	switch f := raw.(type) {
	case value.FileRef:
		return value.File(f), nil
	case map[string]any:
		ref := value.FileRef{}
		ref.Key, _ = f["key"].(string)
		ref.Name, _ = f["name"].(string)
		ref.ContentType, _ = f["contentType"].(string)
		if size, ok := f["size"].(float64); ok {
			ref.Size = int64(size)
		}
		if ref.Key == "" {
			return value.Value{}, domain.ErrValueShapeMismatch
		}
		return value.File(ref), nil
	}
	return value.Value{}, domain.ErrValueShapeMismatch
}
