package chi

import (
	"fmt"

	domblob "github.com/taskdesk/taskdesk/internal/domain/blob"
	domform "github.com/taskdesk/taskdesk/internal/domain/form"
	"github.com/taskdesk/taskdesk/internal/domain/form/field"
	"github.com/taskdesk/taskdesk/internal/domain/form/value"
	"github.com/taskdesk/taskdesk/internal/domain/identity"
	dommaster "github.com/taskdesk/taskdesk/internal/domain/master"
	domsub "github.com/taskdesk/taskdesk/internal/domain/submission"
	domtask "github.com/taskdesk/taskdesk/internal/domain/task"
	healthuc "github.com/taskdesk/taskdesk/internal/usecase/health"
	identityuc "github.com/taskdesk/taskdesk/internal/usecase/identity"
)

// --- Forms ---

type rulesPayload struct {
	Required  bool   `json:"required,omitempty"`
	MinLength *int64 `json:"minLength,omitempty"`
	MaxLength *int64 `json:"maxLength,omitempty"`
	MinValue  *int64 `json:"minValue,omitempty"`
	MaxValue  *int64 `json:"maxValue,omitempty"`
}

type optionPayload struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type fieldPayload struct {
	ID            string          `json:"id"`
	Label         string          `json:"label"`
	Type          string          `json:"type"`
	Rules         *rulesPayload   `json:"rules,omitempty"`
	Options       []optionPayload `json:"options,omitempty"`
	MasterListRef string          `json:"masterListRef,omitempty"`
}

type formRequest struct {
	Name   string         `json:"name"`
	Fields []fieldPayload `json:"fields"`
}

type formResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Version     int64          `json:"version"`
	Creator     string         `json:"creator"`
	Created     int64          `json:"created"`
	LastUpdated int64          `json:"lastUpdated"`
	Fields      []fieldPayload `json:"fields"`
}

func fieldFromPayload(p fieldPayload) (field.Field, error) {
	t, err := field.ParseType(p.Type)
	if err != nil {
		return field.Field{}, err
	}

	var rules *field.Rules
	if p.Rules != nil {
		rules = &field.Rules{
			Required:  p.Rules.Required,
			MinLength: p.Rules.MinLength,
			MaxLength: p.Rules.MaxLength,
			MinValue:  p.Rules.MinValue,
			MaxValue:  p.Rules.MaxValue,
		}
	}

	options := make([]field.Option, 0, len(p.Options))
	for _, o := range p.Options {
		options = append(options, field.Option{Value: o.Value, Label: o.Label})
	}

	f, err := field.New(p.ID, p.Label, t, rules, options, p.MasterListRef)
	if err != nil {
		return field.Field{}, fmt.Errorf("field %s: %w", p.ID, err)
	}
	return f, nil
}

func fieldsFromPayload(payloads []fieldPayload) ([]field.Field, error) {
	fields := make([]field.Field, 0, len(payloads))
	for _, p := range payloads {
		f, err := fieldFromPayload(p)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func fieldToPayload(f field.Field) fieldPayload {
	p := fieldPayload{
		ID:            f.ID(),
		Label:         f.Label(),
		Type:          f.FieldType().DisplayName(),
		MasterListRef: f.MasterListRef(),
	}
	if r := f.Rules(); r != nil {
		p.Rules = &rulesPayload{
			Required:  r.Required,
			MinLength: r.MinLength,
			MaxLength: r.MaxLength,
			MinValue:  r.MinValue,
			MaxValue:  r.MaxValue,
		}
	}
	for _, o := range f.Options() {
		p.Options = append(p.Options, optionPayload{Value: o.Value, Label: o.Label})
	}
	return p
}

func formToResponse(def domform.Definition) formResponse {
	fields := make([]fieldPayload, 0, len(def.Fields()))
	for _, f := range def.Fields() {
		fields = append(fields, fieldToPayload(f))
	}
	return formResponse{
		ID:          def.ID(),
		Name:        def.Name(),
		Version:     def.Version(),
		Creator:     def.Creator().String(),
		Created:     def.Created(),
		LastUpdated: def.LastUpdated(),
		Fields:      fields,
	}
}

// --- Submissions ---

type filePayload struct {
	Key         string `json:"key"`
	Name        string `json:"name,omitempty"`
	Size        int64  `json:"size,omitempty"`
	ContentType string `json:"contentType,omitempty"`
}

// valuePayload is the tagged wire shape of a field value. Kind selects which
// payload member is meaningful.
type valuePayload struct {
	Kind    string       `json:"kind"`
	Text    *string      `json:"text,omitempty"`
	Number  *int64       `json:"number,omitempty"`
	Choices []string     `json:"choices,omitempty"`
	File    *filePayload `json:"file,omitempty"`
}

type inputResponse struct {
	FieldID string       `json:"fieldId"`
	Value   valuePayload `json:"value"`
}

type submissionResponse struct {
	ID          string          `json:"id"`
	TaskID      string          `json:"taskId"`
	FormID      string          `json:"formId"`
	Version     int64           `json:"version"`
	Inputs      []inputResponse `json:"inputs"`
	SubmittedBy string          `json:"submittedBy"`
	SubmittedAt int64           `json:"submittedAt"`
}

type submitRequest struct {
	Values map[string]any `json:"values"`
}

func valueToPayload(v value.Value) valuePayload {
	p := valuePayload{Kind: string(v.Kind())}
	switch v.Kind() {
	case value.KindText, value.KindSingleChoice:
		t := v.TextValue()
		p.Text = &t
	case value.KindNumber, value.KindDate, value.KindDateTime:
		n := v.NumberValue()
		p.Number = &n
	case value.KindMultipleChoices:
		p.Choices = v.ChoicesValue()
	case value.KindFile:
		f := v.FileValue()
		p.File = &filePayload{Key: f.Key, Name: f.Name, Size: f.Size, ContentType: f.ContentType}
	case value.KindUnsupported:
		// Re-emit the original tag rather than flattening it.
		p.Kind = v.RawTag()
	}
	return p
}

func submissionToResponse(sub domsub.Submission) submissionResponse {
	inputs := make([]inputResponse, 0, len(sub.Inputs()))
	for _, in := range sub.Inputs() {
		inputs = append(inputs, inputResponse{FieldID: in.FieldID, Value: valueToPayload(in.Value)})
	}
	return submissionResponse{
		ID:          sub.ID(),
		TaskID:      sub.TaskID(),
		FormID:      sub.FormID(),
		Version:     sub.Version(),
		Inputs:      inputs,
		SubmittedBy: sub.SubmittedBy().String(),
		SubmittedAt: sub.SubmittedAt(),
	}
}

// --- Tasks ---

type assignmentPayload struct {
	Kind       string `json:"kind"`
	User       string `json:"user,omitempty"`
	Department string `json:"department,omitempty"`
}

type attachmentPayload struct {
	FormDefinitionID string `json:"formDefinitionId"`
	Completed        bool   `json:"completed"`
}

type taskRequest struct {
	TaskType      string             `json:"taskType"`
	Status        string             `json:"status"`
	Priority      string             `json:"priority"`
	Assignment    *assignmentPayload `json:"assignment,omitempty"`
	DueDate       int64              `json:"dueDate"`
	AttachedForms []string           `json:"attachedForms,omitempty"`
}

type taskResponse struct {
	ID             string              `json:"id"`
	TaskType       string              `json:"taskType"`
	Status         string              `json:"status"`
	Priority       string              `json:"priority"`
	Owner          string              `json:"owner"`
	Assignment     *assignmentPayload  `json:"assignment,omitempty"`
	CreatedDate    int64               `json:"createdDate"`
	DueDate        int64               `json:"dueDate"`
	CompletionDate int64               `json:"completionDate,omitempty"`
	SLA            string              `json:"sla"`
	AttachedForms  []attachmentPayload `json:"attachedForms"`
}

type auditEntryResponse struct {
	TaskID    string `json:"taskId"`
	Action    string `json:"action"`
	User      string `json:"user,omitempty"`
	Timestamp int64  `json:"timestamp"`
	Details   string `json:"details,omitempty"`
}

type escalationRuleRequest struct {
	TaskType         string `json:"taskType"`
	ThresholdMinutes int64  `json:"thresholdMinutes"`
	Action           string `json:"action"`
}

type escalationRuleResponse struct {
	ID               string `json:"id"`
	TaskType         string `json:"taskType"`
	ThresholdMinutes int64  `json:"thresholdMinutes"`
	Action           string `json:"action"`
}

func assignmentFromPayload(p *assignmentPayload) (domtask.Assignment, error) {
	if p == nil {
		return domtask.Assignment{}, nil
	}
	switch domtask.AssignmentKind(p.Kind) {
	case domtask.AssignedToUser:
		return domtask.ToUser(identity.Principal(p.User))
	case domtask.AssignedToDepartment:
		return domtask.ToDepartment(p.Department)
	}
	return domtask.Assignment{}, fmt.Errorf("unknown assignment kind %q", p.Kind)
}

func assignmentToPayload(a domtask.Assignment) *assignmentPayload {
	if a.IsZero() {
		return nil
	}
	return &assignmentPayload{
		Kind:       string(a.Kind()),
		User:       a.User().String(),
		Department: a.Department(),
	}
}

func (s *Server) taskToResponse(t domtask.Task) taskResponse {
	forms := make([]attachmentPayload, 0, len(t.AttachedForms()))
	for _, af := range t.AttachedForms() {
		forms = append(forms, attachmentPayload{
			FormDefinitionID: af.FormDefinitionID,
			Completed:        af.Completed,
		})
	}
	return taskResponse{
		ID:             t.ID(),
		TaskType:       t.TaskType(),
		Status:         t.Status(),
		Priority:       t.Priority(),
		Owner:          t.Owner().String(),
		Assignment:     assignmentToPayload(t.Assignment()),
		CreatedDate:    t.CreatedDate(),
		DueDate:        t.DueDate(),
		CompletionDate: t.CompletionDate(),
		SLA:            string(s.tasks.SLA(t)),
		AttachedForms:  forms,
	}
}

func auditToResponse(e domtask.AuditEntry) auditEntryResponse {
	return auditEntryResponse{
		TaskID:    e.TaskID,
		Action:    string(e.Action),
		User:      e.User.String(),
		Timestamp: e.Timestamp,
		Details:   e.Details,
	}
}

func ruleToResponse(r domtask.EscalationRule) escalationRuleResponse {
	return escalationRuleResponse{
		ID:               r.ID(),
		TaskType:         r.TaskType(),
		ThresholdMinutes: r.ThresholdMinutes(),
		Action:           r.Action(),
	}
}

// --- Masters ---

type recordResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Created     int64  `json:"created"`
	LastUpdated int64  `json:"lastUpdated"`
}

type itemPayload struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type masterListRequest struct {
	Name  string        `json:"name"`
	Items []itemPayload `json:"items"`
}

type masterListResponse struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Items       []itemPayload `json:"items"`
	Created     int64         `json:"created"`
	LastUpdated int64         `json:"lastUpdated"`
}

func recordToResponse(rec dommaster.Record) recordResponse {
	return recordResponse{
		ID:          rec.ID(),
		Name:        rec.Name(),
		Created:     rec.Created(),
		LastUpdated: rec.LastUpdated(),
	}
}

func itemsToPayload(items []dommaster.Item) []itemPayload {
	out := make([]itemPayload, 0, len(items))
	for _, it := range items {
		out = append(out, itemPayload{Value: it.Value, Label: it.Label})
	}
	return out
}

func itemsFromPayload(payloads []itemPayload) []dommaster.Item {
	items := make([]dommaster.Item, 0, len(payloads))
	for _, p := range payloads {
		items = append(items, dommaster.Item{Value: p.Value, Label: p.Label})
	}
	return items
}

func listToResponse(l dommaster.List) masterListResponse {
	return masterListResponse{
		ID:          l.ID(),
		Name:        l.Name(),
		Items:       itemsToPayload(l.Items()),
		Created:     l.Created(),
		LastUpdated: l.LastUpdated(),
	}
}

// --- Identity ---

type profilePayload struct {
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Department string `json:"department,omitempty"`
}

type whoamiResponse struct {
	Principal string          `json:"principal"`
	Role      string          `json:"role"`
	Profile   *profilePayload `json:"profile,omitempty"`
}

type assignRoleRequest struct {
	Role string `json:"role"`
}

func whoamiToResponse(info identityuc.Info) whoamiResponse {
	resp := whoamiResponse{
		Principal: info.Principal.String(),
		Role:      string(info.Role),
	}
	if info.HasProfile {
		resp.Profile = &profilePayload{
			Name:       info.Profile.Name(),
			Email:      info.Profile.Email(),
			Department: info.Profile.Department(),
		}
	}
	return resp
}

// --- Blobs ---

type blobMetaResponse struct {
	Key         string `json:"key"`
	Name        string `json:"name,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Size        int64  `json:"size"`
	UploadedBy  string `json:"uploadedBy,omitempty"`
	UploadedAt  int64  `json:"uploadedAt"`
}

func blobMetaToResponse(m domblob.Meta) blobMetaResponse {
	return blobMetaResponse{
		Key:         m.Key,
		Name:        m.Name,
		ContentType: m.ContentType,
		Size:        m.Size,
		UploadedBy:  m.UploadedBy.String(),
		UploadedAt:  m.UploadedAt,
	}
}

// --- Health ---

type healthResponse struct {
	Status string                          `json:"status"`
	Checks map[string]healthuc.CheckResult `json:"checks"`
}
