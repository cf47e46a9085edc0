package master

import (
	"context"
	"errors"
	"testing"

	"github.com/taskdesk/taskdesk/internal/domain"
	dommaster "github.com/taskdesk/taskdesk/internal/domain/master"
)

// --- Mocks ---

type mockRepo struct {
	records      map[string]dommaster.Record
	lists        map[string]dommaster.List
	createRecErr error
	getListErr   error
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		records: map[string]dommaster.Record{},
		lists:   map[string]dommaster.List{},
	}
}

func (m *mockRepo) recKey(kind dommaster.Kind, id string) string {
	return string(kind) + ":" + id
}

func (m *mockRepo) CreateRecord(_ context.Context, kind dommaster.Kind, rec dommaster.Record) error {
	if m.createRecErr != nil {
		return m.createRecErr
	}
	m.records[m.recKey(kind, rec.ID())] = rec
	return nil
}

func (m *mockRepo) GetRecord(_ context.Context, kind dommaster.Kind, id string) (dommaster.Record, error) {
	rec, ok := m.records[m.recKey(kind, id)]
	if !ok {
		return dommaster.Record{}, domain.ErrNotFound
	}
	return rec, nil
}

func (m *mockRepo) ListRecords(_ context.Context, kind dommaster.Kind) ([]dommaster.Record, error) {
	var recs []dommaster.Record
	for key, rec := range m.records {
		if key == m.recKey(kind, rec.ID()) {
			recs = append(recs, rec)
		}
	}
	return recs, nil
}

func (m *mockRepo) UpdateRecord(_ context.Context, kind dommaster.Kind, rec dommaster.Record) error {
	m.records[m.recKey(kind, rec.ID())] = rec
	return nil
}

func (m *mockRepo) DeleteRecord(_ context.Context, kind dommaster.Kind, id string) error {
	key := m.recKey(kind, id)
	if _, ok := m.records[key]; !ok {
		return domain.ErrNotFound
	}
	delete(m.records, key)
	return nil
}

func (m *mockRepo) CreateList(_ context.Context, l dommaster.List) error {
	m.lists[l.ID()] = l
	return nil
}

func (m *mockRepo) GetList(_ context.Context, id string) (dommaster.List, error) {
	if m.getListErr != nil {
		return dommaster.List{}, m.getListErr
	}
	l, ok := m.lists[id]
	if !ok {
		return dommaster.List{}, domain.ErrNotFound
	}
	return l, nil
}

func (m *mockRepo) ListLists(_ context.Context) ([]dommaster.List, error) {
	var lists []dommaster.List
	for _, l := range m.lists {
		lists = append(lists, l)
	}
	return lists, nil
}

func (m *mockRepo) UpdateList(_ context.Context, l dommaster.List) error {
	m.lists[l.ID()] = l
	return nil
}

func (m *mockRepo) DeleteList(_ context.Context, id string) error {
	if _, ok := m.lists[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.lists, id)
	return nil
}

// --- Tests ---

func TestCreateRecord_AndRename(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo)
	ctx := context.Background()

	rec, err := svc.CreateRecord(ctx, dommaster.Departments, "Engineering")
	if err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}
	if rec.ID() == "" || rec.Name() != "Engineering" {
		t.Errorf("record = %s/%s", rec.ID(), rec.Name())
	}

	renamed, err := svc.RenameRecord(ctx, dommaster.Departments, rec.ID(), "Platform")
	if err != nil {
		t.Fatalf("RenameRecord: %v", err)
	}
	if renamed.Name() != "Platform" {
		t.Errorf("name = %q", renamed.Name())
	}
	if renamed.Created() != rec.Created() {
		t.Error("rename must not touch created")
	}
}

func TestCreateRecord_EmptyName(t *testing.T) {
	svc := New(newMockRepo())

	_, err := svc.CreateRecord(context.Background(), dommaster.Statuses, "")
	if err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestRenameRecord_NotFound(t *testing.T) {
	svc := New(newMockRepo())

	_, err := svc.RenameRecord(context.Background(), dommaster.Statuses, "ghost", "x")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListLifecycle(t *testing.T) {
	svc := New(newMockRepo())
	ctx := context.Background()

	l, err := svc.CreateList(ctx, "Regions", []dommaster.Item{
		{Value: "emea", Label: "EMEA"},
	})
	if err != nil {
		t.Fatalf("CreateList: %v", err)
	}

	updated, err := svc.UpdateList(ctx, l.ID(), "Regions", []dommaster.Item{
		{Value: "emea", Label: "EMEA"},
		{Value: "apac", Label: "APAC"},
	})
	if err != nil {
		t.Fatalf("UpdateList: %v", err)
	}
	if len(updated.Items()) != 2 {
		t.Errorf("items len = %d, want 2", len(updated.Items()))
	}

	if err := svc.DeleteList(ctx, l.ID()); err != nil {
		t.Fatalf("DeleteList: %v", err)
	}
	if _, err := svc.GetList(ctx, l.ID()); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound after delete", err)
	}
}

func TestCreateList_DuplicateValues(t *testing.T) {
	svc := New(newMockRepo())

	_, err := svc.CreateList(context.Background(), "Regions", []dommaster.Item{
		{Value: "emea", Label: "EMEA"},
		{Value: "emea", Label: "Europe"},
	})
	if err == nil {
		t.Fatal("expected error for duplicate item values")
	}
}

func TestOptions_FixedRef(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo)
	ctx := context.Background()

	rec, err := svc.CreateRecord(ctx, dommaster.Departments, "Engineering")
	if err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}

	items, err := svc.Options(ctx, dommaster.FixedRef(dommaster.Departments))
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	if len(items) != 1 || items[0].Value != rec.ID() || items[0].Label != "Engineering" {
		t.Errorf("items = %v", items)
	}
}

func TestOptions_ListRef(t *testing.T) {
	svc := New(newMockRepo())
	ctx := context.Background()

	l, err := svc.CreateList(ctx, "Regions", []dommaster.Item{{Value: "emea", Label: "EMEA"}})
	if err != nil {
		t.Fatalf("CreateList: %v", err)
	}

	items, err := svc.Options(ctx, dommaster.ListRef(l.ID()))
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	if len(items) != 1 || items[0].Value != "emea" {
		t.Errorf("items = %v", items)
	}
}

func TestOptions_BadRef(t *testing.T) {
	svc := New(newMockRepo())

	_, err := svc.Options(context.Background(), "bogus")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
