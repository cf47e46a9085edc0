package submission

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/taskdesk/taskdesk/internal/domain/form/value"
	"github.com/taskdesk/taskdesk/internal/domain/identity"
	domsub "github.com/taskdesk/taskdesk/internal/domain/submission"
)

// fileRow is the stored shape of a file reference.
type fileRow struct {
	Key         string `json:"key"`
	Name        string `json:"name,omitempty"`
	Size        int64  `json:"size,omitempty"`
	ContentType string `json:"contentType,omitempty"`
}

// inputRow is the stored shape of one field value. The kind tag selects
// which payload column is meaningful; values with a tag outside the current
// vocabulary hydrate as unsupported rather than failing the read.
type inputRow struct {
	FieldID string   `json:"fieldId"`
	Kind    string   `json:"kind"`
	Text    string   `json:"text,omitempty"`
	Number  int64    `json:"number,omitempty"`
	Choices []string `json:"choices,omitempty"`
	File    *fileRow `json:"file,omitempty"`
}

func submissionToHash(sub domsub.Submission) (map[string]string, error) {
	rows := make([]inputRow, 0, len(sub.Inputs()))
	for _, in := range sub.Inputs() {
		row := inputRow{FieldID: in.FieldID, Kind: string(in.Value.Kind())}
		switch in.Value.Kind() {
		case value.KindText, value.KindSingleChoice:
			row.Text = in.Value.TextValue()
		case value.KindNumber, value.KindDate, value.KindDateTime:
			row.Number = in.Value.NumberValue()
		case value.KindMultipleChoices:
			row.Choices = in.Value.ChoicesValue()
		case value.KindFile:
			f := in.Value.FileValue()
			row.File = &fileRow{Key: f.Key, Name: f.Name, Size: f.Size, ContentType: f.ContentType}
		case value.KindUnsupported:
			// Keep the original tag so a future reader can still decode it.
			row.Kind = in.Value.RawTag()
		}
		rows = append(rows, row)
	}
	inputsJSON, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("marshal inputs: %w", err)
	}

	return map[string]string{
		"id":           sub.ID(),
		"task_id":      sub.TaskID(),
		"form_id":      sub.FormID(),
		"version":      strconv.FormatInt(sub.Version(), 10),
		"submitted_by": string(sub.SubmittedBy()),
		"submitted_at": strconv.FormatInt(sub.SubmittedAt(), 10),
		"inputs_json":  string(inputsJSON),
	}, nil
}

func submissionFromHash(m map[string]string) (domsub.Submission, error) {
	version, err := strconv.ParseInt(m["version"], 10, 64)
	if err != nil {
		return domsub.Submission{}, fmt.Errorf("parse version: %w", err)
	}
	submittedAt, err := strconv.ParseInt(m["submitted_at"], 10, 64)
	if err != nil {
		return domsub.Submission{}, fmt.Errorf("parse submitted_at: %w", err)
	}

	var rows []inputRow
	if raw := m["inputs_json"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &rows); err != nil {
			return domsub.Submission{}, fmt.Errorf("unmarshal inputs: %w", err)
		}
	}

	inputs := make([]domsub.Input, 0, len(rows))
	for _, row := range rows {
		var file value.FileRef
		if row.File != nil {
			file = value.FileRef{
				Key:         row.File.Key,
				Name:        row.File.Name,
				Size:        row.File.Size,
				ContentType: row.File.ContentType,
			}
		}
		inputs = append(inputs, domsub.Input{
			FieldID: row.FieldID,
			Value:   value.Reconstruct(row.Kind, row.Text, row.Number, row.Choices, file),
		})
	}

	return domsub.Reconstruct(
		m["id"], m["task_id"], m["form_id"], version,
		inputs, identity.Principal(m["submitted_by"]), submittedAt,
	), nil
}
