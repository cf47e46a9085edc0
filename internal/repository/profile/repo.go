// Package profile persists user profiles and role assignments keyed by
// principal.
package profile

import (
	"context"
	"fmt"

	"github.com/taskdesk/taskdesk/internal/domain"
	"github.com/taskdesk/taskdesk/internal/domain/identity"
)

// store is the consumer interface for profiles (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// Repo implements usecase/identity.Repository.
type Repo struct {
	store  store
	prefix string
}

// New creates a profile repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, prefix: keyPrefix}
}

func (r *Repo) profileKey(p identity.Principal) string {
	return r.prefix + "profile:" + string(p)
}

func (r *Repo) roleKey(p identity.Principal) string {
	return r.prefix + "role:" + string(p)
}

// SaveProfile stores or replaces a principal's profile.
func (r *Repo) SaveProfile(ctx context.Context, p identity.Principal, prof identity.Profile) error {
	data := map[string]string{
		"name":       prof.Name(),
		"email":      prof.Email(),
		"department": prof.Department(),
	}
	if err := r.store.HSet(ctx, r.profileKey(p), data); err != nil {
		return fmt.Errorf("hset profile %s: %w", p, err)
	}
	return nil
}

// GetProfile retrieves a principal's profile.
func (r *Repo) GetProfile(ctx context.Context, p identity.Principal) (identity.Profile, error) {
	m, err := r.store.HGetAll(ctx, r.profileKey(p))
	if err != nil {
		return identity.Profile{}, fmt.Errorf("hgetall profile %s: %w", p, err)
	}
	if len(m) == 0 {
		return identity.Profile{}, domain.ErrNotFound
	}
	return identity.ReconstructProfile(m["name"], m["email"], m["department"]), nil
}

// AssignRole stores an explicit role for a principal, overriding the role
// derived from the auth token.
func (r *Repo) AssignRole(ctx context.Context, p identity.Principal, role identity.Role) error {
	if err := r.store.HSet(ctx, r.roleKey(p), map[string]string{"role": string(role)}); err != nil {
		return fmt.Errorf("hset role %s: %w", p, err)
	}
	return nil
}

// GetRole retrieves a principal's assigned role, if any.
func (r *Repo) GetRole(ctx context.Context, p identity.Principal) (identity.Role, error) {
	m, err := r.store.HGetAll(ctx, r.roleKey(p))
	if err != nil {
		return "", fmt.Errorf("hgetall role %s: %w", p, err)
	}
	if len(m) == 0 {
		return "", domain.ErrNotFound
	}
	return identity.ParseRole(m["role"])
}
