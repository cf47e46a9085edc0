package value

import (
	"errors"
	"testing"

	"github.com/taskdesk/taskdesk/internal/domain"
	"github.com/taskdesk/taskdesk/internal/domain/form/field"
)

func ptr(n int64) *int64 { return &n }

func makeField(t *testing.T, ft field.Type, rules *field.Rules) field.Field {
	t.Helper()
	f, err := field.New("f1", "Field", ft, rules, nil, "")
	if err != nil {
		t.Fatalf("field.New: %v", err)
	}
	return f
}

func TestValidate_RequiredAbsent(t *testing.T) {
	f := makeField(t, field.SingleLine, &field.Rules{Required: true})

	err := Validate(f, Value{}, false)
	if !errors.Is(err, domain.ErrMissingRequiredField) {
		t.Fatalf("err = %v, want ErrMissingRequiredField", err)
	}

	var fe *domain.FieldError
	if !errors.As(err, &fe) || fe.FieldID != "f1" {
		t.Errorf("err = %v, want FieldError for f1", err)
	}
}

func TestValidate_RequiredEmptyValue(t *testing.T) {
	f := makeField(t, field.SingleLine, &field.Rules{Required: true})
	if err := Validate(f, Text(""), true); !errors.Is(err, domain.ErrMissingRequiredField) {
		t.Fatalf("err = %v, want ErrMissingRequiredField for blank text", err)
	}

	ms := makeField(t, field.MultiSelect, &field.Rules{Required: true})
	if err := Validate(ms, MultipleChoices(nil), true); !errors.Is(err, domain.ErrMissingRequiredField) {
		t.Fatalf("err = %v, want ErrMissingRequiredField for empty selection", err)
	}
}

func TestValidate_LengthBounds(t *testing.T) {
	f := makeField(t, field.SingleLine, &field.Rules{MinLength: ptr(2), MaxLength: ptr(5)})

	cases := []struct {
		text string
		ok   bool
	}{
		{"a", false},
		{"ab", true},
		{"abc", true},
		{"abcde", true},
		{"abcdef", false},
	}
	for _, c := range cases {
		err := Validate(f, Text(c.text), true)
		if c.ok && err != nil {
			t.Errorf("Validate(%q) = %v, want accept", c.text, err)
		}
		if !c.ok && !errors.Is(err, domain.ErrLengthOutOfRange) {
			t.Errorf("Validate(%q) = %v, want ErrLengthOutOfRange", c.text, err)
		}
	}
}

func TestValidate_LengthCountsRunes(t *testing.T) {
	f := makeField(t, field.SingleLine, &field.Rules{MaxLength: ptr(2)})
	if err := Validate(f, Text("éé"), true); err != nil {
		t.Errorf("two-rune value rejected: %v", err)
	}
}

func TestValidate_ValueBounds(t *testing.T) {
	f := makeField(t, field.NumberTag, &field.Rules{MinValue: ptr(10), MaxValue: ptr(20)})

	if err := Validate(f, Number(9), true); !errors.Is(err, domain.ErrValueOutOfRange) {
		t.Errorf("Validate(9) = %v, want ErrValueOutOfRange", err)
	}
	if err := Validate(f, Number(10), true); err != nil {
		t.Errorf("Validate(10) = %v, want accept", err)
	}
	if err := Validate(f, Number(20), true); err != nil {
		t.Errorf("Validate(20) = %v, want accept", err)
	}
	if err := Validate(f, Number(21), true); !errors.Is(err, domain.ErrValueOutOfRange) {
		t.Errorf("Validate(21) = %v, want ErrValueOutOfRange", err)
	}
}

func TestValidate_NoRulesAcceptsAnything(t *testing.T) {
	f := makeField(t, field.SingleLine, nil)
	if err := Validate(f, Value{}, false); err != nil {
		t.Errorf("absent value rejected without rules: %v", err)
	}
	if err := Validate(f, Text(""), true); err != nil {
		t.Errorf("empty value rejected without rules: %v", err)
	}
}

func TestValidate_OptionalAbsentWithBounds(t *testing.T) {
	// Bounds apply only when a value is present.
	f := makeField(t, field.SingleLine, &field.Rules{MinLength: ptr(2)})
	if err := Validate(f, Value{}, false); err != nil {
		t.Errorf("absent optional value rejected: %v", err)
	}
}
