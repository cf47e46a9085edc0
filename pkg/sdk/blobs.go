package taskdesk

import (
	"context"
	"fmt"
	"time"

	domblob "github.com/taskdesk/taskdesk/internal/domain/blob"
	"github.com/taskdesk/taskdesk/internal/domain/identity"
)

// BlobService stores file uploads referenced by fileUpload form fields.
type BlobService struct {
	svc   blobUseCase
	actor identity.Principal
	obs   *observer
}

// Upload stores a blob and returns its generated key.
func (s *BlobService) Upload(ctx context.Context, name, contentType string, data []byte) (_ BlobInfo, err error) {
	start := time.Now()
	defer func() { s.obs.observe("blob.upload", start, err) }()

	meta, err := s.svc.Upload(ctx, name, contentType, data, s.actor)
	if err != nil {
		return BlobInfo{}, fmt.Errorf("upload blob: %w", err)
	}
	return fromInternalMeta(meta), nil
}

// Get retrieves a blob's metadata and content.
func (s *BlobService) Get(ctx context.Context, key string) (_ BlobInfo, _ []byte, err error) {
	start := time.Now()
	defer func() { s.obs.observe("blob.get", start, err) }()

	meta, data, err := s.svc.Get(ctx, key)
	if err != nil {
		return BlobInfo{}, nil, fmt.Errorf("get blob: %w", err)
	}
	return fromInternalMeta(meta), data, nil
}

// Stat retrieves a blob's metadata without its content.
func (s *BlobService) Stat(ctx context.Context, key string) (_ BlobInfo, err error) {
	start := time.Now()
	defer func() { s.obs.observe("blob.stat", start, err) }()

	meta, err := s.svc.Stat(ctx, key)
	if err != nil {
		return BlobInfo{}, fmt.Errorf("stat blob: %w", err)
	}
	return fromInternalMeta(meta), nil
}

// Delete removes a blob and its metadata.
func (s *BlobService) Delete(ctx context.Context, key string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("blob.delete", start, err) }()

	if err = s.svc.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}

func fromInternalMeta(m domblob.Meta) BlobInfo {
	return BlobInfo{
		Key:         m.Key,
		Name:        m.Name,
		ContentType: m.ContentType,
		Size:        m.Size,
		UploadedBy:  m.UploadedBy.String(),
		UploadedAt:  m.UploadedAt,
	}
}
