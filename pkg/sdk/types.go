package taskdesk

// Rules constrains the values a field accepts. Nil pointer bounds are
// unset.
type Rules struct {
	Required  bool
	MinLength *int64
	MaxLength *int64
	MinValue  *int64
	MaxValue  *int64
}

// Choice is one selectable option of a dropdown or multi-select field.
type Choice struct {
	Value string
	Label string
}

// Field is a single form field definition. Type uses the display names:
// singleLine, multiLine, number, date, dateTime, dropdown, multiSelect,
// fileUpload.
type Field struct {
	ID            string
	Label         string
	Type          string
	Rules         *Rules
	Options       []Choice
	MasterListRef string
}

// Form is a versioned form definition.
type Form struct {
	ID          string
	Name        string
	Version     int64
	Creator     string
	Created     int64
	LastUpdated int64
	Fields      []Field
}

// Assignment routes a task to a user or a department pool.
// Exactly one of User and Department is set; both empty means unassigned.
type Assignment struct {
	User       string
	Department string
}

// FormAttachment links a form definition to a task.
type FormAttachment struct {
	FormDefinitionID string
	Completed        bool
}

// TaskParams carries the caller-supplied parts of a new task.
type TaskParams struct {
	TaskType      string
	Status        string
	Priority      string
	Assignment    Assignment
	DueDate       int64
	AttachedForms []string
}

// Task is a tracked unit of work.
type Task struct {
	ID             string
	TaskType       string
	Status         string
	Priority       string
	Owner          string
	Assignment     Assignment
	CreatedDate    int64
	DueDate        int64
	CompletionDate int64
	SLA            string
	AttachedForms  []FormAttachment
}

// AuditEntry is one event in a task's audit trail.
type AuditEntry struct {
	TaskID    string
	Action    string
	User      string
	Timestamp int64
	Details   string
}

// EscalationRule escalates overdue tasks of a type past a threshold.
type EscalationRule struct {
	ID               string
	TaskType         string
	ThresholdMinutes int64
	Action           string
}

// FileRef points at an uploaded blob inside a submission value.
type FileRef struct {
	Key         string
	Name        string
	Size        int64
	ContentType string
}

// Value is a typed submission value. Kind selects which member is set.
type Value struct {
	Kind    string
	Text    string
	Number  int64
	Choices []string
	File    *FileRef
}

// Input pairs a field id with its submitted value.
type Input struct {
	FieldID string
	Value   Value
}

// Submission is an immutable filled-in form.
type Submission struct {
	ID          string
	TaskID      string
	FormID      string
	Version     int64
	Inputs      []Input
	SubmittedBy string
	SubmittedAt int64
}

// MasterRecord is one entry of a fixed master (departments, statuses, ...).
type MasterRecord struct {
	ID          string
	Name        string
	Created     int64
	LastUpdated int64
}

// MasterList is a custom named list of choice items.
type MasterList struct {
	ID          string
	Name        string
	Items       []Choice
	Created     int64
	LastUpdated int64
}

// BlobInfo describes an uploaded blob.
type BlobInfo struct {
	Key         string
	Name        string
	ContentType string
	Size        int64
	UploadedBy  string
	UploadedAt  int64
}
