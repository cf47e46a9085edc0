package master

import (
	"context"

	dommaster "github.com/taskdesk/taskdesk/internal/domain/master"
)

// Repository defines the storage contract for master data.
type Repository interface {
	CreateRecord(ctx context.Context, kind dommaster.Kind, rec dommaster.Record) error
	GetRecord(ctx context.Context, kind dommaster.Kind, id string) (dommaster.Record, error)
	ListRecords(ctx context.Context, kind dommaster.Kind) ([]dommaster.Record, error)
	UpdateRecord(ctx context.Context, kind dommaster.Kind, rec dommaster.Record) error
	DeleteRecord(ctx context.Context, kind dommaster.Kind, id string) error

	CreateList(ctx context.Context, l dommaster.List) error
	GetList(ctx context.Context, id string) (dommaster.List, error)
	ListLists(ctx context.Context) ([]dommaster.List, error)
	UpdateList(ctx context.Context, l dommaster.List) error
	DeleteList(ctx context.Context, id string) error
}
