package master

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/taskdesk/taskdesk/internal/domain"
	dommaster "github.com/taskdesk/taskdesk/internal/domain/master"
)

// Service handles fixed master records and custom master lists.
type Service struct {
	repo Repository
}

// New creates a master data service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateRecord stores a new record under a fixed master kind.
func (s *Service) CreateRecord(ctx context.Context, kind dommaster.Kind, name string) (dommaster.Record, error) {
	rec, err := dommaster.NewRecord(uuid.NewString(), name, time.Now().UnixNano())
	if err != nil {
		return dommaster.Record{}, fmt.Errorf("validate record: %w", err)
	}
	if err := s.repo.CreateRecord(ctx, kind, rec); err != nil {
		return dommaster.Record{}, fmt.Errorf("create %s record: %w", kind, err)
	}
	return rec, nil
}

// ListRecords returns all records of a fixed master kind.
func (s *Service) ListRecords(ctx context.Context, kind dommaster.Kind) ([]dommaster.Record, error) {
	recs, err := s.repo.ListRecords(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("list %s records: %w", kind, err)
	}
	return recs, nil
}

// RenameRecord changes a record's display name.
func (s *Service) RenameRecord(ctx context.Context, kind dommaster.Kind, id, name string) (dommaster.Record, error) {
	rec, err := s.repo.GetRecord(ctx, kind, id)
	if err != nil {
		return dommaster.Record{}, fmt.Errorf("get %s record: %w", kind, err)
	}
	next, err := rec.Rename(name, time.Now().UnixNano())
	if err != nil {
		return dommaster.Record{}, fmt.Errorf("validate record: %w", err)
	}
	if err := s.repo.UpdateRecord(ctx, kind, next); err != nil {
		return dommaster.Record{}, fmt.Errorf("update %s record: %w", kind, err)
	}
	return next, nil
}

// DeleteRecord removes a record from a fixed master kind.
func (s *Service) DeleteRecord(ctx context.Context, kind dommaster.Kind, id string) error {
	if err := s.repo.DeleteRecord(ctx, kind, id); err != nil {
		return fmt.Errorf("delete %s record: %w", kind, err)
	}
	return nil
}

// CreateList stores a new custom master list.
func (s *Service) CreateList(ctx context.Context, name string, items []dommaster.Item) (dommaster.List, error) {
	l, err := dommaster.NewList(uuid.NewString(), name, items, time.Now().UnixNano())
	if err != nil {
		return dommaster.List{}, fmt.Errorf("validate list: %w", err)
	}
	if err := s.repo.CreateList(ctx, l); err != nil {
		return dommaster.List{}, fmt.Errorf("create list: %w", err)
	}
	return l, nil
}

// GetList retrieves a custom master list by id.
func (s *Service) GetList(ctx context.Context, id string) (dommaster.List, error) {
	l, err := s.repo.GetList(ctx, id)
	if err != nil {
		return dommaster.List{}, fmt.Errorf("get list: %w", err)
	}
	return l, nil
}

// ListLists returns all custom master lists.
func (s *Service) ListLists(ctx context.Context) ([]dommaster.List, error) {
	lists, err := s.repo.ListLists(ctx)
	if err != nil {
		return nil, fmt.Errorf("list lists: %w", err)
	}
	return lists, nil
}

// UpdateList replaces a custom master list's name and items.
func (s *Service) UpdateList(ctx context.Context, id, name string, items []dommaster.Item) (dommaster.List, error) {
	l, err := s.repo.GetList(ctx, id)
	if err != nil {
		return dommaster.List{}, fmt.Errorf("get list: %w", err)
	}
	next, err := l.Update(name, items, time.Now().UnixNano())
	if err != nil {
		return dommaster.List{}, fmt.Errorf("validate list: %w", err)
	}
	if err := s.repo.UpdateList(ctx, next); err != nil {
		return dommaster.List{}, fmt.Errorf("update list: %w", err)
	}
	return next, nil
}

// DeleteList removes a custom master list.
func (s *Service) DeleteList(ctx context.Context, id string) error {
	if err := s.repo.DeleteList(ctx, id); err != nil {
		return fmt.Errorf("delete list: %w", err)
	}
	return nil
}

// Options resolves a choice field's master list reference to selectable
// items. Fixed masters expose their records as value=id, label=name.
func (s *Service) Options(ctx context.Context, ref string) ([]dommaster.Item, error) {
	kind, listID, ok := dommaster.ResolveRef(ref)
	if !ok {
		return nil, fmt.Errorf("reference %q: %w", ref, domain.ErrNotFound)
	}

	if listID != "" {
		l, err := s.repo.GetList(ctx, listID)
		if err != nil {
			return nil, fmt.Errorf("get list: %w", err)
		}
		return l.Items(), nil
	}

	recs, err := s.repo.ListRecords(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("list %s records: %w", kind, err)
	}
	items := make([]dommaster.Item, 0, len(recs))
	for _, rec := range recs {
		items = append(items, dommaster.Item{Value: rec.ID(), Label: rec.Name()})
	}
	return items, nil
}
