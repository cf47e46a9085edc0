package form

import (
	"strings"
	"testing"

	"github.com/taskdesk/taskdesk/internal/domain/form/field"
)

const nowNanos = int64(1700000000000000000)

func makeField(t *testing.T, id string, ft field.Type) field.Field {
	t.Helper()
	f, err := field.New(id, "Label "+id, ft, nil, nil, "")
	if err != nil {
		t.Fatalf("field.New(%s): %v", id, err)
	}
	return f
}

func makeDefinition(t *testing.T, fields ...field.Field) Definition {
	t.Helper()
	d, err := New("form-1", "Intake", "alice", fields, nowNanos)
	if err != nil {
		t.Fatalf("form.New: %v", err)
	}
	return d
}

func TestNew_StartsAtVersionOne(t *testing.T) {
	d := makeDefinition(t, makeField(t, "a", field.SingleLine), makeField(t, "b", field.NumberTag))

	if d.Version() != 1 {
		t.Errorf("Version() = %d, want 1", d.Version())
	}
	if d.Created() != nowNanos || d.LastUpdated() != nowNanos {
		t.Errorf("timestamps = %d/%d, want %d", d.Created(), d.LastUpdated(), nowNanos)
	}
	if d.Creator() != "alice" {
		t.Errorf("Creator() = %q, want alice", d.Creator())
	}
}

func TestNew_DuplicateFieldIDs(t *testing.T) {
	_, err := New("form-1", "Intake", "alice",
		[]field.Field{makeField(t, "a", field.SingleLine), makeField(t, "a", field.NumberTag)}, nowNanos)
	if err == nil {
		t.Fatal("expected error for duplicate field ids")
	}
	if !strings.Contains(err.Error(), "duplicate field id") {
		t.Errorf("error = %q, want duplicate field id", err)
	}
}

func TestNew_PreservesFieldOrder(t *testing.T) {
	d := makeDefinition(t,
		makeField(t, "z", field.SingleLine),
		makeField(t, "a", field.NumberTag),
		makeField(t, "m", field.Date),
	)
	want := []string{"z", "a", "m"}
	for i, f := range d.Fields() {
		if f.ID() != want[i] {
			t.Errorf("Fields()[%d] = %q, want %q", i, f.ID(), want[i])
		}
	}
}

func TestUpdate_NameOnlyKeepsVersion(t *testing.T) {
	f := makeField(t, "a", field.SingleLine)
	d := makeDefinition(t, f)

	next, err := d.Update("Renamed", []field.Field{f}, nowNanos+1)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if next.Version() != 1 {
		t.Errorf("Version() = %d, want 1 after name-only edit", next.Version())
	}
	if next.Name() != "Renamed" {
		t.Errorf("Name() = %q, want Renamed", next.Name())
	}
	if next.LastUpdated() != nowNanos+1 {
		t.Errorf("LastUpdated() = %d, want %d", next.LastUpdated(), nowNanos+1)
	}
}

func TestUpdate_FieldChangeBumpsVersion(t *testing.T) {
	d := makeDefinition(t, makeField(t, "a", field.SingleLine))

	next, err := d.Update(d.Name(),
		[]field.Field{makeField(t, "a", field.SingleLine), makeField(t, "b", field.NumberTag)}, nowNanos+1)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if next.Version() != 2 {
		t.Errorf("Version() = %d, want 2 after field change", next.Version())
	}
	if d.Version() != 1 {
		t.Errorf("original Version() = %d, want 1 (immutability)", d.Version())
	}
}

func TestUpdate_RuleChangeBumpsVersion(t *testing.T) {
	min := int64(2)
	loose := makeField(t, "a", field.SingleLine)
	strict, err := field.New("a", "Label a", field.SingleLine, &field.Rules{MinLength: &min}, nil, "")
	if err != nil {
		t.Fatalf("field.New: %v", err)
	}

	d := makeDefinition(t, loose)
	next, err := d.Update(d.Name(), []field.Field{strict}, nowNanos+1)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if next.Version() != 2 {
		t.Errorf("Version() = %d, want 2 after rule change", next.Version())
	}
}

func TestFieldByID(t *testing.T) {
	d := makeDefinition(t, makeField(t, "a", field.SingleLine))
	if _, ok := d.FieldByID("a"); !ok {
		t.Error("FieldByID(a) not found")
	}
	if _, ok := d.FieldByID("ghost"); ok {
		t.Error("FieldByID(ghost) unexpectedly found")
	}
}
