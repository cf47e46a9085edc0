// Package master persists fixed master records and custom master lists.
// Fixed masters are keyed by kind then record id; custom lists by list id.
package master

import (
	"context"
	"fmt"
	"sort"

	"github.com/taskdesk/taskdesk/internal/domain"
	dommaster "github.com/taskdesk/taskdesk/internal/domain/master"
)

// store is the consumer interface for master data (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements usecase/master.Repository.
type Repo struct {
	store  store
	prefix string
}

// New creates a master data repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, prefix: keyPrefix}
}

func (r *Repo) recordKey(kind dommaster.Kind, id string) string {
	return r.prefix + "master:" + string(kind) + ":" + id
}

func (r *Repo) listKey(id string) string { return r.prefix + "masterlist:" + id }

// CreateRecord stores a new record under a fixed master kind.
func (r *Repo) CreateRecord(ctx context.Context, kind dommaster.Kind, rec dommaster.Record) error {
	key := r.recordKey(kind, rec.ID())
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return domain.ErrAlreadyExists
	}
	if err := r.store.HSet(ctx, key, recordToHash(rec)); err != nil {
		return fmt.Errorf("hset %s %s: %w", kind, rec.ID(), err)
	}
	return nil
}

// GetRecord retrieves one record of a fixed master kind.
func (r *Repo) GetRecord(ctx context.Context, kind dommaster.Kind, id string) (dommaster.Record, error) {
	m, err := r.store.HGetAll(ctx, r.recordKey(kind, id))
	if err != nil {
		return dommaster.Record{}, fmt.Errorf("hgetall %s %s: %w", kind, id, err)
	}
	if len(m) == 0 {
		return dommaster.Record{}, domain.ErrNotFound
	}
	return recordFromHash(m)
}

// ListRecords returns all records of a fixed master kind sorted by creation time.
func (r *Repo) ListRecords(ctx context.Context, kind dommaster.Kind) ([]dommaster.Record, error) {
	keys, err := r.store.Scan(ctx, r.recordKey(kind, "*"))
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", kind, err)
	}
	if len(keys) == 0 {
		return []dommaster.Record{}, nil
	}

	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi %s: %w", kind, err)
	}

	recs := make([]dommaster.Record, 0, len(results))
	for i, m := range results {
		if len(m) == 0 {
			continue
		}
		rec, err := recordFromHash(m)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", keys[i], err)
		}
		recs = append(recs, rec)
	}

	sort.Slice(recs, func(i, j int) bool {
		return recs[i].Created() < recs[j].Created()
	})
	return recs, nil
}

// UpdateRecord overwrites an existing record.
func (r *Repo) UpdateRecord(ctx context.Context, kind dommaster.Kind, rec dommaster.Record) error {
	key := r.recordKey(kind, rec.ID())
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	if err := r.store.HSet(ctx, key, recordToHash(rec)); err != nil {
		return fmt.Errorf("hset %s %s: %w", kind, rec.ID(), err)
	}
	return nil
}

// DeleteRecord removes a record from a fixed master kind.
func (r *Repo) DeleteRecord(ctx context.Context, kind dommaster.Kind, id string) error {
	key := r.recordKey(kind, id)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s %s: %w", kind, id, err)
	}
	return nil
}

// CreateList stores a new custom master list.
func (r *Repo) CreateList(ctx context.Context, l dommaster.List) error {
	key := r.listKey(l.ID())
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return domain.ErrAlreadyExists
	}
	data, err := listToHash(l)
	if err != nil {
		return err
	}
	if err := r.store.HSet(ctx, key, data); err != nil {
		return fmt.Errorf("hset masterlist %s: %w", l.ID(), err)
	}
	return nil
}

// GetList retrieves a custom master list by id.
func (r *Repo) GetList(ctx context.Context, id string) (dommaster.List, error) {
	m, err := r.store.HGetAll(ctx, r.listKey(id))
	if err != nil {
		return dommaster.List{}, fmt.Errorf("hgetall masterlist %s: %w", id, err)
	}
	if len(m) == 0 {
		return dommaster.List{}, domain.ErrNotFound
	}
	return listFromHash(m)
}

// ListLists returns all custom master lists sorted by creation time.
func (r *Repo) ListLists(ctx context.Context) ([]dommaster.List, error) {
	keys, err := r.store.Scan(ctx, r.listKey("*"))
	if err != nil {
		return nil, fmt.Errorf("scan masterlists: %w", err)
	}
	if len(keys) == 0 {
		return []dommaster.List{}, nil
	}

	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi masterlists: %w", err)
	}

	lists := make([]dommaster.List, 0, len(results))
	for i, m := range results {
		if len(m) == 0 {
			continue
		}
		l, err := listFromHash(m)
		if err != nil {
			return nil, fmt.Errorf("parse masterlist %s: %w", keys[i], err)
		}
		lists = append(lists, l)
	}

	sort.Slice(lists, func(i, j int) bool {
		return lists[i].Created() < lists[j].Created()
	})
	return lists, nil
}

// UpdateList overwrites an existing custom master list.
func (r *Repo) UpdateList(ctx context.Context, l dommaster.List) error {
	key := r.listKey(l.ID())
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	data, err := listToHash(l)
	if err != nil {
		return err
	}
	if err := r.store.HSet(ctx, key, data); err != nil {
		return fmt.Errorf("hset masterlist %s: %w", l.ID(), err)
	}
	return nil
}

// DeleteList removes a custom master list.
func (r *Repo) DeleteList(ctx context.Context, id string) error {
	key := r.listKey(id)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del masterlist %s: %w", id, err)
	}
	return nil
}
