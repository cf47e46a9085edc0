package identity

import (
	"context"

	domid "github.com/taskdesk/taskdesk/internal/domain/identity"
)

// Repository defines the storage contract for profiles and role assignments.
type Repository interface {
	SaveProfile(ctx context.Context, p domid.Principal, prof domid.Profile) error
	GetProfile(ctx context.Context, p domid.Principal) (domid.Profile, error)
	AssignRole(ctx context.Context, p domid.Principal, role domid.Role) error
	GetRole(ctx context.Context, p domid.Principal) (domid.Role, error)
}
