package blob

import (
	"context"

	domblob "github.com/taskdesk/taskdesk/internal/domain/blob"
)

// Repository defines the storage contract for blobs.
type Repository interface {
	Put(ctx context.Context, meta domblob.Meta, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Stat(ctx context.Context, key string) (domblob.Meta, error)
	Delete(ctx context.Context, key string) error
}
