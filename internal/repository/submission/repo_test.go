package submission

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/taskdesk/taskdesk/internal/domain"
	"github.com/taskdesk/taskdesk/internal/domain/form/value"
	domsub "github.com/taskdesk/taskdesk/internal/domain/submission"
)

const nowNanos = int64(1700000000000000000)

func makeSubmission(t *testing.T, id, taskID string, at int64) domsub.Submission {
	t.Helper()
	inputs := []domsub.Input{
		{FieldID: "name", Value: value.Text("Pat")},
		{FieldID: "count", Value: value.Number(7)},
		{FieldID: "tags", Value: value.MultipleChoices([]string{"a", "b"})},
		{FieldID: "doc", Value: value.File(value.FileRef{
			Key: "blob-1", Name: "doc.pdf", Size: 1024, ContentType: "application/pdf",
		})},
	}
	return domsub.Reconstruct(id, taskID, "form-1", 3, inputs, "alice", at)
}

func TestHashRoundTrip(t *testing.T) {
	sub := makeSubmission(t, "sub-1", "task-1", nowNanos)

	data, err := submissionToHash(sub)
	if err != nil {
		t.Fatalf("submissionToHash: %v", err)
	}
	got, err := submissionFromHash(data)
	if err != nil {
		t.Fatalf("submissionFromHash: %v", err)
	}

	if got.ID() != "sub-1" || got.TaskID() != "task-1" || got.FormID() != "form-1" {
		t.Errorf("round-trip ids = %s/%s/%s", got.ID(), got.TaskID(), got.FormID())
	}
	if got.Version() != 3 || got.SubmittedBy() != "alice" || got.SubmittedAt() != nowNanos {
		t.Errorf("round-trip meta = v%d by %s at %d", got.Version(), got.SubmittedBy(), got.SubmittedAt())
	}
	if len(got.Inputs()) != 4 {
		t.Fatalf("round-trip inputs len = %d, want 4", len(got.Inputs()))
	}

	if v, ok := got.Value("count"); !ok || v.NumberValue() != 7 {
		t.Errorf("count = %v", v)
	}
	if v, ok := got.Value("tags"); !ok || len(v.ChoicesValue()) != 2 {
		t.Errorf("tags = %v", v)
	}
	if v, ok := got.Value("doc"); !ok || v.FileValue().Key != "blob-1" || v.FileValue().Size != 1024 {
		t.Errorf("doc = %v", v)
	}
}

func TestHashRoundTrip_UnknownKindDegrades(t *testing.T) {
	data, err := submissionToHash(makeSubmission(t, "sub-1", "task-1", nowNanos))
	if err != nil {
		t.Fatalf("submissionToHash: %v", err)
	}
	// A record written by a newer build with a wider value vocabulary.
	data["inputs_json"] = `[{"fieldId":"sig","kind":"signature","text":"..."}]`

	got, err := submissionFromHash(data)
	if err != nil {
		t.Fatalf("submissionFromHash: %v", err)
	}
	v, ok := got.Value("sig")
	if !ok || v.Kind() != value.KindUnsupported {
		t.Fatalf("kind = %v, want unsupported", v.Kind())
	}

	// Re-writing the record must keep the newer build's tag intact.
	again, err := submissionToHash(got)
	if err != nil {
		t.Fatalf("submissionToHash: %v", err)
	}
	if !strings.Contains(again["inputs_json"], `"kind":"signature"`) {
		t.Errorf("re-serialized inputs = %s, want original signature tag", again["inputs_json"])
	}
}

func TestCreate_Duplicate(t *testing.T) {
	s := &mockStore{
		existsFn: func(_ context.Context, _ string) (bool, error) { return true, nil },
	}
	repo := New(s, "taskdesk:")

	err := repo.Create(context.Background(), makeSubmission(t, "sub-1", "task-1", nowNanos))
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("err = %v, want ErrAlreadyExists", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo := New(&mockStore{}, "taskdesk:")
	_, err := repo.Get(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListByTask_FiltersAndSorts(t *testing.T) {
	a, _ := submissionToHash(makeSubmission(t, "sub-a", "task-1", nowNanos+50))
	b, _ := submissionToHash(makeSubmission(t, "sub-b", "task-2", nowNanos+10))
	c, _ := submissionToHash(makeSubmission(t, "sub-c", "task-1", nowNanos))
	s := &mockStore{
		scanFn: func(_ context.Context, _ string) ([]string, error) {
			return []string{"k1", "k2", "k3"}, nil
		},
		hgetAllMultiFn: func(_ context.Context, _ []string) ([]map[string]string, error) {
			return []map[string]string{a, b, c}, nil
		},
	}
	repo := New(s, "taskdesk:")

	subs, err := repo.ListByTask(context.Background(), "task-1")
	if err != nil {
		t.Fatalf("ListByTask: %v", err)
	}
	if len(subs) != 2 || subs[0].ID() != "sub-c" || subs[1].ID() != "sub-a" {
		ids := make([]string, 0, len(subs))
		for _, s := range subs {
			ids = append(ids, s.ID())
		}
		t.Errorf("ListByTask = %v, want [sub-c sub-a]", ids)
	}
}
