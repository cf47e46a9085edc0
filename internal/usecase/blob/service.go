package blob

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	domblob "github.com/taskdesk/taskdesk/internal/domain/blob"
	"github.com/taskdesk/taskdesk/internal/domain/identity"
)

// ErrTooLarge rejects uploads over the configured size limit.
var ErrTooLarge = fmt.Errorf("blob exceeds size limit")

// Service handles file-upload payloads referenced by fileUpload field values.
type Service struct {
	repo    Repository
	maxSize int64
}

// New creates a blob service. maxSize caps uploads in bytes.
func New(repo Repository, maxSize int64) *Service {
	return &Service{repo: repo, maxSize: maxSize}
}

// Upload stores a payload and returns its metadata, including the generated
// storage key a fileUpload value references.
func (s *Service) Upload(ctx context.Context, name, contentType string, data []byte, by identity.Principal) (domblob.Meta, error) {
	if int64(len(data)) > s.maxSize {
		return domblob.Meta{}, fmt.Errorf("%d bytes: %w", len(data), ErrTooLarge)
	}

	meta, err := domblob.NewMeta(uuid.NewString(), name, contentType, int64(len(data)), by, time.Now().UnixNano())
	if err != nil {
		return domblob.Meta{}, fmt.Errorf("validate blob: %w", err)
	}
	if err := s.repo.Put(ctx, meta, data); err != nil {
		return domblob.Meta{}, fmt.Errorf("store blob: %w", err)
	}
	return meta, nil
}

// Get retrieves a payload and its metadata.
func (s *Service) Get(ctx context.Context, key string) (domblob.Meta, []byte, error) {
	meta, err := s.repo.Stat(ctx, key)
	if err != nil {
		return domblob.Meta{}, nil, fmt.Errorf("stat blob: %w", err)
	}
	data, err := s.repo.Get(ctx, key)
	if err != nil {
		return domblob.Meta{}, nil, fmt.Errorf("get blob: %w", err)
	}
	return meta, data, nil
}

// Stat retrieves metadata without the payload.
func (s *Service) Stat(ctx context.Context, key string) (domblob.Meta, error) {
	meta, err := s.repo.Stat(ctx, key)
	if err != nil {
		return domblob.Meta{}, fmt.Errorf("stat blob: %w", err)
	}
	return meta, nil
}

// Delete removes a blob.
func (s *Service) Delete(ctx context.Context, key string) error {
	if err := s.repo.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}
