package form

import (
	"context"

	domform "github.com/taskdesk/taskdesk/internal/domain/form"
)

// Repository defines the storage contract for form definitions.
type Repository interface {
	Create(ctx context.Context, def domform.Definition) error
	Get(ctx context.Context, id string) (domform.Definition, error)
	List(ctx context.Context) ([]domform.Definition, error)
	Update(ctx context.Context, def domform.Definition) error
	Delete(ctx context.Context, id string) error
}
