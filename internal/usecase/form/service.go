package form

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/taskdesk/taskdesk/internal/domain"
	domform "github.com/taskdesk/taskdesk/internal/domain/form"
	"github.com/taskdesk/taskdesk/internal/domain/form/field"
	"github.com/taskdesk/taskdesk/internal/domain/identity"
)

// Service handles form definition CRUD operations.
type Service struct {
	repo Repository
}

// New creates a form definition service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and stores a new form definition at version 1.
func (s *Service) Create(ctx context.Context, name string, creator identity.Principal, fields []field.Field) (domform.Definition, error) {
	def, err := domform.New(uuid.NewString(), name, creator, fields, time.Now().UnixNano())
	if err != nil {
		return domform.Definition{}, fmt.Errorf("validate definition: %w: %w", domain.ErrInvalidDefinition, err)
	}

	if err := s.repo.Create(ctx, def); err != nil {
		return domform.Definition{}, fmt.Errorf("create definition: %w", err)
	}
	return def, nil
}

// Get retrieves a definition by id.
func (s *Service) Get(ctx context.Context, id string) (domform.Definition, error) {
	def, err := s.repo.Get(ctx, id)
	if err != nil {
		return domform.Definition{}, fmt.Errorf("get definition: %w", err)
	}
	return def, nil
}

// List returns all definitions.
func (s *Service) List(ctx context.Context) ([]domform.Definition, error) {
	defs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list definitions: %w", err)
	}
	return defs, nil
}

// Update replaces a definition's name and field list. The version advances
// only when the field list actually changed; a rename alone keeps it.
func (s *Service) Update(ctx context.Context, id, name string, fields []field.Field) (domform.Definition, error) {
	def, err := s.repo.Get(ctx, id)
	if err != nil {
		return domform.Definition{}, fmt.Errorf("get definition: %w", err)
	}

	next, err := def.Update(name, fields, time.Now().UnixNano())
	if err != nil {
		return domform.Definition{}, fmt.Errorf("validate definition: %w: %w", domain.ErrInvalidDefinition, err)
	}

	if err := s.repo.Update(ctx, next); err != nil {
		return domform.Definition{}, fmt.Errorf("update definition: %w", err)
	}
	return next, nil
}

// Delete removes a definition. Deletion is whole-definition only; individual
// fields are removed through Update.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete definition: %w", err)
	}
	return nil
}
