// Package blob models stored file-upload payloads.
package blob

import (
	"fmt"

	"github.com/taskdesk/taskdesk/internal/domain/identity"
)

// Meta describes a stored blob without its payload.
type Meta struct {
	Key         string
	Name        string
	ContentType string
	Size        int64
	UploadedBy  identity.Principal
	UploadedAt  int64
}

// NewMeta validates and creates blob metadata. UploadedAt is epoch nanos.
func NewMeta(key, name, contentType string, size int64, by identity.Principal, now int64) (Meta, error) {
	if key == "" {
		return Meta{}, fmt.Errorf("blob key is required")
	}
	if size < 0 {
		return Meta{}, fmt.Errorf("blob size must not be negative")
	}
	return Meta{
		Key: key, Name: name, ContentType: contentType,
		Size: size, UploadedBy: by, UploadedAt: now,
	}, nil
}
