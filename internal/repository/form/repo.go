// Package form persists form definitions in redis hashes.
package form

import (
	"context"
	"fmt"
	"sort"

	"github.com/taskdesk/taskdesk/internal/domain"
	domform "github.com/taskdesk/taskdesk/internal/domain/form"
)

// store is the consumer interface for form definitions (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements usecase/form.Repository.
type Repo struct {
	store  store
	prefix string
}

// New creates a form definition repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, prefix: keyPrefix}
}

func (r *Repo) key(id string) string { return r.prefix + "form:" + id }

// Create stores a new definition; duplicates are rejected.
func (r *Repo) Create(ctx context.Context, def domform.Definition) error {
	key := r.key(def.ID())
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return domain.ErrAlreadyExists
	}

	data, err := definitionToHash(def)
	if err != nil {
		return err
	}
	if err := r.store.HSet(ctx, key, data); err != nil {
		return fmt.Errorf("hset form %s: %w", def.ID(), err)
	}
	return nil
}

// Get retrieves a definition by id.
func (r *Repo) Get(ctx context.Context, id string) (domform.Definition, error) {
	m, err := r.store.HGetAll(ctx, r.key(id))
	if err != nil {
		return domform.Definition{}, fmt.Errorf("hgetall form %s: %w", id, err)
	}
	if len(m) == 0 {
		return domform.Definition{}, domain.ErrNotFound
	}
	return definitionFromHash(m)
}

// List returns all definitions sorted by creation time.
func (r *Repo) List(ctx context.Context) ([]domform.Definition, error) {
	keys, err := r.store.Scan(ctx, r.key("*"))
	if err != nil {
		return nil, fmt.Errorf("scan forms: %w", err)
	}
	if len(keys) == 0 {
		return []domform.Definition{}, nil
	}

	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi forms: %w", err)
	}

	defs := make([]domform.Definition, 0, len(results))
	for i, m := range results {
		if len(m) == 0 {
			continue
		}
		def, err := definitionFromHash(m)
		if err != nil {
			return nil, fmt.Errorf("parse form %s: %w", keys[i], err)
		}
		defs = append(defs, def)
	}

	sort.Slice(defs, func(i, j int) bool {
		return defs[i].Created() < defs[j].Created()
	})
	return defs, nil
}

// Update overwrites an existing definition.
func (r *Repo) Update(ctx context.Context, def domform.Definition) error {
	key := r.key(def.ID())
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}

	data, err := definitionToHash(def)
	if err != nil {
		return err
	}
	if err := r.store.HSet(ctx, key, data); err != nil {
		return fmt.Errorf("hset form %s: %w", def.ID(), err)
	}
	return nil
}

// Delete removes a definition. Deletion is whole-definition only.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := r.key(id)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del form %s: %w", id, err)
	}
	return nil
}
