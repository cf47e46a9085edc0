package taskdesk

import (
	"context"
	"fmt"
	"time"

	domform "github.com/taskdesk/taskdesk/internal/domain/form"
	"github.com/taskdesk/taskdesk/internal/domain/form/field"
	"github.com/taskdesk/taskdesk/internal/domain/identity"
	domsub "github.com/taskdesk/taskdesk/internal/domain/submission"
)

// FormService manages form definitions and standalone submissions.
type FormService struct {
	svc    formUseCase
	subSvc submissionUseCase
	actor  identity.Principal
	obs    *observer
}

// Create validates and stores a new form definition at version 1.
func (s *FormService) Create(ctx context.Context, name string, fields []Field) (_ Form, err error) {
	start := time.Now()
	defer func() { s.obs.observe("form.create", start, err) }()

	internal, err := toInternalFields(fields)
	if err != nil {
		return Form{}, fmt.Errorf("create form: %w", err)
	}

	def, err := s.svc.Create(ctx, name, s.actor, internal)
	if err != nil {
		return Form{}, fmt.Errorf("create form: %w", err)
	}
	return fromInternalForm(def), nil
}

// Get retrieves a form definition by id.
func (s *FormService) Get(ctx context.Context, id string) (_ Form, err error) {
	start := time.Now()
	defer func() { s.obs.observe("form.get", start, err) }()

	def, err := s.svc.Get(ctx, id)
	if err != nil {
		return Form{}, fmt.Errorf("get form: %w", err)
	}
	return fromInternalForm(def), nil
}

// List returns all form definitions.
func (s *FormService) List(ctx context.Context) (_ []Form, err error) {
	start := time.Now()
	defer func() { s.obs.observe("form.list", start, err) }()

	defs, err := s.svc.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list forms: %w", err)
	}
	out := make([]Form, len(defs))
	for i, def := range defs {
		out[i] = fromInternalForm(def)
	}
	return out, nil
}

// Update replaces a form's name and fields. Changing the field list bumps
// the version; a pure rename keeps it.
func (s *FormService) Update(ctx context.Context, id, name string, fields []Field) (_ Form, err error) {
	start := time.Now()
	defer func() { s.obs.observe("form.update", start, err) }()

	internal, err := toInternalFields(fields)
	if err != nil {
		return Form{}, fmt.Errorf("update form: %w", err)
	}

	def, err := s.svc.Update(ctx, id, name, internal)
	if err != nil {
		return Form{}, fmt.Errorf("update form: %w", err)
	}
	return fromInternalForm(def), nil
}

// Delete removes a form definition.
func (s *FormService) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("form.delete", start, err) }()

	if err = s.svc.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete form: %w", err)
	}
	return nil
}

// Submit records a standalone submission against a form, outside any task.
func (s *FormService) Submit(ctx context.Context, formID string, values map[string]any) (_ Submission, err error) {
	start := time.Now()
	defer func() { s.obs.observe("form.submit", start, err) }()

	sub, err := s.subSvc.SubmitStandalone(ctx, formID, domsub.EditorState(values), s.actor)
	if err != nil {
		return Submission{}, fmt.Errorf("submit form: %w", err)
	}
	return fromInternalSubmission(sub), nil
}

// Submissions lists every submission made against a form, oldest first.
func (s *FormService) Submissions(ctx context.Context, formID string) (_ []Submission, err error) {
	start := time.Now()
	defer func() { s.obs.observe("form.submissions", start, err) }()

	subs, err := s.subSvc.ListByForm(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	out := make([]Submission, len(subs))
	for i, sub := range subs {
		out[i] = fromInternalSubmission(sub)
	}
	return out, nil
}

func toInternalFields(fields []Field) ([]field.Field, error) {
	out := make([]field.Field, len(fields))
	for i, f := range fields {
		t, err := field.ParseType(f.Type)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.ID, err)
		}

		var rules *field.Rules
		if f.Rules != nil {
			rules = &field.Rules{
				Required:  f.Rules.Required,
				MinLength: f.Rules.MinLength,
				MaxLength: f.Rules.MaxLength,
				MinValue:  f.Rules.MinValue,
				MaxValue:  f.Rules.MaxValue,
			}
		}

		options := make([]field.Option, 0, len(f.Options))
		for _, o := range f.Options {
			options = append(options, field.Option{Value: o.Value, Label: o.Label})
		}

		out[i], err = field.New(f.ID, f.Label, t, rules, options, f.MasterListRef)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.ID, err)
		}
	}
	return out, nil
}

func fromInternalField(f field.Field) Field {
	out := Field{
		ID:            f.ID(),
		Label:         f.Label(),
		Type:          f.FieldType().DisplayName(),
		MasterListRef: f.MasterListRef(),
	}
	if r := f.Rules(); r != nil {
		out.Rules = &Rules{
			Required:  r.Required,
			MinLength: r.MinLength,
			MaxLength: r.MaxLength,
			MinValue:  r.MinValue,
			MaxValue:  r.MaxValue,
		}
	}
	for _, o := range f.Options() {
		out.Options = append(out.Options, Choice{Value: o.Value, Label: o.Label})
	}
	return out
}

func fromInternalForm(def domform.Definition) Form {
	fields := make([]Field, len(def.Fields()))
	for i, f := range def.Fields() {
		fields[i] = fromInternalField(f)
	}
	return Form{
		ID:          def.ID(),
		Name:        def.Name(),
		Version:     def.Version(),
		Creator:     def.Creator().String(),
		Created:     def.Created(),
		LastUpdated: def.LastUpdated(),
		Fields:      fields,
	}
}
