package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/taskdesk/taskdesk/internal/domain"
	domid "github.com/taskdesk/taskdesk/internal/domain/identity"
)

// Info is everything the service knows about a caller.
type Info struct {
	Principal  domid.Principal
	Role       domid.Role
	Profile    domid.Profile
	HasProfile bool
}

// Service handles caller profiles and role assignments.
type Service struct {
	repo Repository
}

// New creates an identity service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Whoami resolves a caller's effective role and profile. tokenRole is the
// role carried by the auth token; an explicitly assigned role overrides it.
func (s *Service) Whoami(ctx context.Context, p domid.Principal, tokenRole domid.Role) (Info, error) {
	info := Info{Principal: p, Role: tokenRole}
	if p.IsZero() {
		// Anonymous callers have no stored role or profile. The transport
		// decides what role an anonymous caller carries.
		return info, nil
	}

	role, err := s.repo.GetRole(ctx, p)
	switch {
	case err == nil:
		info.Role = role
	case !errors.Is(err, domain.ErrNotFound):
		return Info{}, fmt.Errorf("get role: %w", err)
	}

	prof, err := s.repo.GetProfile(ctx, p)
	switch {
	case err == nil:
		info.Profile = prof
		info.HasProfile = true
	case !errors.Is(err, domain.ErrNotFound):
		return Info{}, fmt.Errorf("get profile: %w", err)
	}
	return info, nil
}

// SaveProfile stores or replaces a caller's own profile.
func (s *Service) SaveProfile(ctx context.Context, p domid.Principal, name, email, department string) (domid.Profile, error) {
	prof, err := domid.NewProfile(name, email, department)
	if err != nil {
		return domid.Profile{}, fmt.Errorf("validate profile: %w", err)
	}
	if err := s.repo.SaveProfile(ctx, p, prof); err != nil {
		return domid.Profile{}, fmt.Errorf("save profile: %w", err)
	}
	return prof, nil
}

// AssignRole gives a principal an explicit role that overrides the role from
// their auth token.
func (s *Service) AssignRole(ctx context.Context, p domid.Principal, role string) (domid.Role, error) {
	parsed, err := domid.ParseRole(role)
	if err != nil {
		return "", fmt.Errorf("parse role: %w", err)
	}
	if err := s.repo.AssignRole(ctx, p, parsed); err != nil {
		return "", fmt.Errorf("assign role: %w", err)
	}
	return parsed, nil
}
