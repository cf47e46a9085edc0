// Package blob persists file-upload payloads. Bytes live under one key,
// descriptive metadata in a sibling hash, so listings never pull payloads.
package blob

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/taskdesk/taskdesk/internal/db"
	"github.com/taskdesk/taskdesk/internal/domain"
	domblob "github.com/taskdesk/taskdesk/internal/domain/blob"
	"github.com/taskdesk/taskdesk/internal/domain/identity"
)

// store is the consumer interface for blobs (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Repo implements usecase/blob.Repository.
type Repo struct {
	store  store
	prefix string
}

// New creates a blob repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, prefix: keyPrefix}
}

func (r *Repo) dataKey(key string) string { return r.prefix + "blob:data:" + key }
func (r *Repo) metaKey(key string) string { return r.prefix + "blob:meta:" + key }

// Put stores a blob and its metadata.
func (r *Repo) Put(ctx context.Context, meta domblob.Meta, data []byte) error {
	exists, err := r.store.Exists(ctx, r.metaKey(meta.Key))
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return domain.ErrAlreadyExists
	}

	if err := r.store.Set(ctx, r.dataKey(meta.Key), data); err != nil {
		return fmt.Errorf("set blob %s: %w", meta.Key, err)
	}
	fields := map[string]string{
		"key":          meta.Key,
		"name":         meta.Name,
		"content_type": meta.ContentType,
		"size":         strconv.FormatInt(meta.Size, 10),
		"uploaded_by":  string(meta.UploadedBy),
		"uploaded_at":  strconv.FormatInt(meta.UploadedAt, 10),
	}
	if err := r.store.HSet(ctx, r.metaKey(meta.Key), fields); err != nil {
		return fmt.Errorf("hset blob meta %s: %w", meta.Key, err)
	}
	return nil
}

// Get retrieves a blob's payload.
func (r *Repo) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.store.Get(ctx, r.dataKey(key))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get blob %s: %w", key, err)
	}
	return data, nil
}

// Stat retrieves a blob's metadata without its payload.
func (r *Repo) Stat(ctx context.Context, key string) (domblob.Meta, error) {
	m, err := r.store.HGetAll(ctx, r.metaKey(key))
	if err != nil {
		return domblob.Meta{}, fmt.Errorf("hgetall blob meta %s: %w", key, err)
	}
	if len(m) == 0 {
		return domblob.Meta{}, domain.ErrNotFound
	}

	size, err := strconv.ParseInt(m["size"], 10, 64)
	if err != nil {
		return domblob.Meta{}, fmt.Errorf("parse size: %w", err)
	}
	uploadedAt, err := strconv.ParseInt(m["uploaded_at"], 10, 64)
	if err != nil {
		return domblob.Meta{}, fmt.Errorf("parse uploaded_at: %w", err)
	}
	return domblob.Meta{
		Key:         m["key"],
		Name:        m["name"],
		ContentType: m["content_type"],
		Size:        size,
		UploadedBy:  identity.Principal(m["uploaded_by"]),
		UploadedAt:  uploadedAt,
	}, nil
}

// Delete removes a blob and its metadata.
func (r *Repo) Delete(ctx context.Context, key string) error {
	exists, err := r.store.Exists(ctx, r.metaKey(key))
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	if err := r.store.Del(ctx, r.dataKey(key)); err != nil {
		return fmt.Errorf("del blob %s: %w", key, err)
	}
	if err := r.store.Del(ctx, r.metaKey(key)); err != nil {
		return fmt.Errorf("del blob meta %s: %w", key, err)
	}
	return nil
}
