package taskdesk

import (
	"context"
	"fmt"
	"time"

	dommaster "github.com/taskdesk/taskdesk/internal/domain/master"
)

// MasterService manages master data: the fixed masters (departments,
// categories, statuses, priorities, task types) and custom master lists.
type MasterService struct {
	svc masterUseCase
	obs *observer
}

// Kinds lists the fixed master kinds.
func (s *MasterService) Kinds() []string {
	kinds := dommaster.Kinds()
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	return out
}

// CreateRecord adds a record to a fixed master.
func (s *MasterService) CreateRecord(ctx context.Context, kind, name string) (_ MasterRecord, err error) {
	start := time.Now()
	defer func() { s.obs.observe("master.create_record", start, err) }()

	k, err := dommaster.ParseKind(kind)
	if err != nil {
		return MasterRecord{}, fmt.Errorf("create record: %w", err)
	}
	rec, err := s.svc.CreateRecord(ctx, k, name)
	if err != nil {
		return MasterRecord{}, fmt.Errorf("create record: %w", err)
	}
	return fromInternalRecord(rec), nil
}

// Records lists the records of a fixed master.
func (s *MasterService) Records(ctx context.Context, kind string) (_ []MasterRecord, err error) {
	start := time.Now()
	defer func() { s.obs.observe("master.records", start, err) }()

	k, err := dommaster.ParseKind(kind)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	records, err := s.svc.ListRecords(ctx, k)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	out := make([]MasterRecord, len(records))
	for i, rec := range records {
		out[i] = fromInternalRecord(rec)
	}
	return out, nil
}

// RenameRecord changes a record's display name.
func (s *MasterService) RenameRecord(ctx context.Context, kind, id, name string) (_ MasterRecord, err error) {
	start := time.Now()
	defer func() { s.obs.observe("master.rename_record", start, err) }()

	k, err := dommaster.ParseKind(kind)
	if err != nil {
		return MasterRecord{}, fmt.Errorf("rename record: %w", err)
	}
	rec, err := s.svc.RenameRecord(ctx, k, id, name)
	if err != nil {
		return MasterRecord{}, fmt.Errorf("rename record: %w", err)
	}
	return fromInternalRecord(rec), nil
}

// DeleteRecord removes a record from a fixed master.
func (s *MasterService) DeleteRecord(ctx context.Context, kind, id string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("master.delete_record", start, err) }()

	k, err := dommaster.ParseKind(kind)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if err = s.svc.DeleteRecord(ctx, k, id); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}

// CreateList creates a custom master list.
func (s *MasterService) CreateList(ctx context.Context, name string, items []Choice) (_ MasterList, err error) {
	start := time.Now()
	defer func() { s.obs.observe("master.create_list", start, err) }()

	l, err := s.svc.CreateList(ctx, name, toInternalItems(items))
	if err != nil {
		return MasterList{}, fmt.Errorf("create list: %w", err)
	}
	return fromInternalList(l), nil
}

// GetList retrieves a custom master list.
func (s *MasterService) GetList(ctx context.Context, id string) (_ MasterList, err error) {
	start := time.Now()
	defer func() { s.obs.observe("master.get_list", start, err) }()

	l, err := s.svc.GetList(ctx, id)
	if err != nil {
		return MasterList{}, fmt.Errorf("get list: %w", err)
	}
	return fromInternalList(l), nil
}

// Lists returns all custom master lists.
func (s *MasterService) Lists(ctx context.Context) (_ []MasterList, err error) {
	start := time.Now()
	defer func() { s.obs.observe("master.lists", start, err) }()

	lists, err := s.svc.ListLists(ctx)
	if err != nil {
		return nil, fmt.Errorf("list lists: %w", err)
	}
	out := make([]MasterList, len(lists))
	for i, l := range lists {
		out[i] = fromInternalList(l)
	}
	return out, nil
}

// UpdateList replaces a list's name and items.
func (s *MasterService) UpdateList(ctx context.Context, id, name string, items []Choice) (_ MasterList, err error) {
	start := time.Now()
	defer func() { s.obs.observe("master.update_list", start, err) }()

	l, err := s.svc.UpdateList(ctx, id, name, toInternalItems(items))
	if err != nil {
		return MasterList{}, fmt.Errorf("update list: %w", err)
	}
	return fromInternalList(l), nil
}

// DeleteList removes a custom master list.
func (s *MasterService) DeleteList(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("master.delete_list", start, err) }()

	if err = s.svc.DeleteList(ctx, id); err != nil {
		return fmt.Errorf("delete list: %w", err)
	}
	return nil
}

// Options resolves a choice-field ref ("fixed:<kind>" or "list:<id>") to
// its selectable items.
func (s *MasterService) Options(ctx context.Context, ref string) (_ []Choice, err error) {
	start := time.Now()
	defer func() { s.obs.observe("master.options", start, err) }()

	items, err := s.svc.Options(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("resolve options: %w", err)
	}
	out := make([]Choice, len(items))
	for i, it := range items {
		out[i] = Choice{Value: it.Value, Label: it.Label}
	}
	return out, nil
}

func toInternalItems(items []Choice) []dommaster.Item {
	out := make([]dommaster.Item, len(items))
	for i, it := range items {
		out[i] = dommaster.Item{Value: it.Value, Label: it.Label}
	}
	return out
}

func fromInternalRecord(rec dommaster.Record) MasterRecord {
	return MasterRecord{
		ID:          rec.ID(),
		Name:        rec.Name(),
		Created:     rec.Created(),
		LastUpdated: rec.LastUpdated(),
	}
}

func fromInternalList(l dommaster.List) MasterList {
	items := make([]Choice, len(l.Items()))
	for i, it := range l.Items() {
		items[i] = Choice{Value: it.Value, Label: it.Label}
	}
	return MasterList{
		ID:          l.ID(),
		Name:        l.Name(),
		Items:       items,
		Created:     l.Created(),
		LastUpdated: l.LastUpdated(),
	}
}
