// Package value models the tagged field value union: exactly one variant is
// populated per value, and the tag must match the originating field's type.
package value

import (
	"fmt"

	"github.com/taskdesk/taskdesk/internal/domain/form/field"
)

// Kind tags the populated variant of a Value.
type Kind string

// Variant tags. These are wire-stable; KindUnsupported never appears on the
// wire, it marks tags this build does not recognize.
const (
	KindText            Kind = "text"
	KindNumber          Kind = "number"
	KindDate            Kind = "date"
	KindDateTime        Kind = "dateTime"
	KindSingleChoice    Kind = "singleChoice"
	KindMultipleChoices Kind = "multipleChoices"
	KindFile            Kind = "file"
	KindUnsupported     Kind = "unsupported"
)

// FileRef references an uploaded blob by storage key.
type FileRef struct {
	Key         string
	Name        string
	Size        int64
	ContentType string
}

// Unsupported is the decode result for a wire tag outside this build's
// vocabulary, so older readers degrade gracefully when the vocabulary grows.
type Unsupported struct {
	Tag string
}

// Value is a closed sum over the field value variants. The zero Value is
// invalid; construct through the variant constructors or Reconstruct.
type Value struct {
	kind    Kind
	text    string
	num     int64
	choices []string
	file    FileRef
	rawTag  string
}

// Text creates a text variant.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Number creates a number variant.
func Number(n int64) Value { return Value{kind: KindNumber, num: n} }

// Date creates a date variant (epoch nanoseconds).
func Date(epochNanos int64) Value { return Value{kind: KindDate, num: epochNanos} }

// DateTime creates a dateTime variant (epoch nanoseconds).
func DateTime(epochNanos int64) Value { return Value{kind: KindDateTime, num: epochNanos} }

// SingleChoice creates a singleChoice variant.
func SingleChoice(v string) Value { return Value{kind: KindSingleChoice, text: v} }

// MultipleChoices creates a multipleChoices variant.
func MultipleChoices(vs []string) Value {
	cp := make([]string, len(vs))
	copy(cp, vs)
	return Value{kind: KindMultipleChoices, choices: cp}
}

// File creates a file variant.
func File(ref FileRef) Value { return Value{kind: KindFile, file: ref} }

// Unknown creates the unsupported marker for an unrecognized wire tag.
func Unknown(tag string) Value { return Value{kind: KindUnsupported, rawTag: tag} }

// Kind returns the populated variant's tag.
func (v Value) Kind() Kind { return v.kind }

// IsZero reports whether no variant is populated.
func (v Value) IsZero() bool { return v.kind == "" }

// IsEmpty reports whether the value is empty in the "required" sense: blank
// text, an empty choice, no selections, or a file with no storage key.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case KindText, KindSingleChoice:
		return v.text == ""
	case KindMultipleChoices:
		return len(v.choices) == 0
	case KindFile:
		return v.file.Key == ""
	}
	return v.IsZero()
}

// TextValue returns the text payload (valid for text and singleChoice).
func (v Value) TextValue() string { return v.text }

// NumberValue returns the integer payload (valid for number, date, dateTime).
func (v Value) NumberValue() int64 { return v.num }

// ChoicesValue returns the multipleChoices payload.
func (v Value) ChoicesValue() []string {
	cp := make([]string, len(v.choices))
	copy(cp, v.choices)
	return cp
}

// FileValue returns the file payload.
func (v Value) FileValue() FileRef { return v.file }

// RawTag returns the original wire tag of an unsupported value, so writers
// can re-emit it instead of flattening it to "unsupported". Empty for every
// recognized variant.
func (v Value) RawTag() string { return v.rawTag }

// Decode extracts the populated variant's payload for generic read-only
// display, regardless of tag. Unsupported values decode to an Unsupported
// marker rather than failing.
func (v Value) Decode() any {
	switch v.kind {
	case KindText, KindSingleChoice:
		return v.text
	case KindNumber, KindDate, KindDateTime:
		return v.num
	case KindMultipleChoices:
		return v.ChoicesValue()
	case KindFile:
		return v.file
	case KindUnsupported:
		return Unsupported{Tag: v.rawTag}
	}
	return nil
}

// MatchesType reports whether the variant tag is the one a field of type t
// produces.
func (v Value) MatchesType(t field.Type) bool {
	return KindFor(t) == v.kind
}

// KindFor maps a field type to the value variant it produces. Returns
// KindUnsupported for types outside the vocabulary.
func KindFor(t field.Type) Kind {
	switch t {
	case field.SingleLine, field.MultiLine:
		return KindText
	case field.NumberTag:
		return KindNumber
	case field.Date:
		return KindDate
	case field.DateTime:
		return KindDateTime
	case field.Dropdown:
		return KindSingleChoice
	case field.MultiSelect:
		return KindMultipleChoices
	case field.FileUpload:
		return KindFile
	}
	return KindUnsupported
}

// Reconstruct rebuilds a Value from its wire parts (storage hydration).
// Unknown kinds yield the unsupported marker.
func Reconstruct(kind string, text string, num int64, choices []string, file FileRef) Value {
	switch Kind(kind) {
	case KindText:
		return Text(text)
	case KindNumber:
		return Number(num)
	case KindDate:
		return Date(num)
	case KindDateTime:
		return DateTime(num)
	case KindSingleChoice:
		return SingleChoice(text)
	case KindMultipleChoices:
		return MultipleChoices(choices)
	case KindFile:
		return File(file)
	}
	return Unknown(kind)
}

func (v Value) String() string {
	return fmt.Sprintf("%s(%v)", v.kind, v.Decode())
}
