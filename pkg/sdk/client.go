package taskdesk

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/taskdesk/taskdesk/internal/db"
	dbRedis "github.com/taskdesk/taskdesk/internal/db/redis"
	domblob "github.com/taskdesk/taskdesk/internal/domain/blob"
	domform "github.com/taskdesk/taskdesk/internal/domain/form"
	"github.com/taskdesk/taskdesk/internal/domain/form/field"
	"github.com/taskdesk/taskdesk/internal/domain/identity"
	dommaster "github.com/taskdesk/taskdesk/internal/domain/master"
	domsub "github.com/taskdesk/taskdesk/internal/domain/submission"
	domtask "github.com/taskdesk/taskdesk/internal/domain/task"
	blobrepo "github.com/taskdesk/taskdesk/internal/repository/blob"
	formrepo "github.com/taskdesk/taskdesk/internal/repository/form"
	masterrepo "github.com/taskdesk/taskdesk/internal/repository/master"
	submissionrepo "github.com/taskdesk/taskdesk/internal/repository/submission"
	taskrepo "github.com/taskdesk/taskdesk/internal/repository/task"
	blobuc "github.com/taskdesk/taskdesk/internal/usecase/blob"
	formuc "github.com/taskdesk/taskdesk/internal/usecase/form"
	masteruc "github.com/taskdesk/taskdesk/internal/usecase/master"
	submissionuc "github.com/taskdesk/taskdesk/internal/usecase/submission"
	taskuc "github.com/taskdesk/taskdesk/internal/usecase/task"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultKeyPrefix        = "taskdesk:"
	defaultMaxBlobSize      = 10 << 20
	defaultAtRiskWindow     = 4 * time.Hour
)

// Internal interfaces so the resource services can be substituted in tests.
type formUseCase interface {
	Create(ctx context.Context, name string, creator identity.Principal, fields []field.Field) (domform.Definition, error)
	Get(ctx context.Context, id string) (domform.Definition, error)
	List(ctx context.Context) ([]domform.Definition, error)
	Update(ctx context.Context, id, name string, fields []field.Field) (domform.Definition, error)
	Delete(ctx context.Context, id string) error
}

type taskUseCase interface {
	Create(ctx context.Context, p taskuc.CreateParams, owner identity.Principal) (domtask.Task, error)
	Get(ctx context.Context, id string) (domtask.Task, error)
	List(ctx context.Context) ([]domtask.Task, error)
	Assign(ctx context.Context, id string, a domtask.Assignment, by identity.Principal) (domtask.Task, error)
	Pickup(ctx context.Context, id string, user identity.Principal) (domtask.Task, error)
	SetStatus(ctx context.Context, id, status string, by identity.Principal) (domtask.Task, error)
	Complete(ctx context.Context, id string, by identity.Principal) (domtask.Task, error)
	Audit(ctx context.Context, id string) ([]domtask.AuditEntry, error)
	SLA(t domtask.Task) domtask.SLAState
	CreateRule(ctx context.Context, taskType string, thresholdMinutes int64, action string) (domtask.EscalationRule, error)
	GetRule(ctx context.Context, id string) (domtask.EscalationRule, error)
	UpdateRule(ctx context.Context, id, taskType string, thresholdMinutes int64, action string) (domtask.EscalationRule, error)
	ListRules(ctx context.Context) ([]domtask.EscalationRule, error)
	DeleteRule(ctx context.Context, id string) error
	Sweep(ctx context.Context) ([]taskuc.Escalation, error)
}

type submissionUseCase interface {
	Validate(ctx context.Context, formID string, state domsub.EditorState) error
	Submit(ctx context.Context, taskID, formID string, state domsub.EditorState, by identity.Principal) (domsub.Submission, error)
	SubmitStandalone(ctx context.Context, formID string, state domsub.EditorState, by identity.Principal) (domsub.Submission, error)
	Get(ctx context.Context, id string) (domsub.Submission, error)
	ListByTask(ctx context.Context, taskID string) ([]domsub.Submission, error)
	ListByForm(ctx context.Context, formID string) ([]domsub.Submission, error)
}

type masterUseCase interface {
	CreateRecord(ctx context.Context, kind dommaster.Kind, name string) (dommaster.Record, error)
	ListRecords(ctx context.Context, kind dommaster.Kind) ([]dommaster.Record, error)
	RenameRecord(ctx context.Context, kind dommaster.Kind, id, name string) (dommaster.Record, error)
	DeleteRecord(ctx context.Context, kind dommaster.Kind, id string) error
	CreateList(ctx context.Context, name string, items []dommaster.Item) (dommaster.List, error)
	GetList(ctx context.Context, id string) (dommaster.List, error)
	ListLists(ctx context.Context) ([]dommaster.List, error)
	UpdateList(ctx context.Context, id, name string, items []dommaster.Item) (dommaster.List, error)
	DeleteList(ctx context.Context, id string) error
	Options(ctx context.Context, ref string) ([]dommaster.Item, error)
}

type blobUseCase interface {
	Upload(ctx context.Context, name, contentType string, data []byte, by identity.Principal) (domblob.Meta, error)
	Get(ctx context.Context, key string) (domblob.Meta, []byte, error)
	Stat(ctx context.Context, key string) (domblob.Meta, error)
	Delete(ctx context.Context, key string) error
}

// Client is the taskdesk SDK entry point.
type Client struct {
	store   db.Store
	actor   identity.Principal
	formSvc formUseCase
	taskSvc taskUseCase
	subSvc  submissionUseCase
	mastSvc masterUseCase
	blobSvc blobUseCase
	obs     *observer
}

// New creates a taskdesk Client and connects to the database.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		keyPrefix:    defaultKeyPrefix,
		maxBlobSize:  defaultMaxBlobSize,
		atRiskWindow: defaultAtRiskWindow,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("taskdesk: database address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("taskdesk: create redis store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("taskdesk: database not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}
	return wireClient(store, cfg, obs), nil
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) *Client {
	formRepo := formrepo.New(store, cfg.keyPrefix)
	submissionRepo := submissionrepo.New(store, cfg.keyPrefix)
	masterRepo := masterrepo.New(store, cfg.keyPrefix)
	taskRepo := taskrepo.New(store, cfg.keyPrefix)
	blobRepo := blobrepo.New(store, cfg.keyPrefix)

	return &Client{
		store:   store,
		actor:   identity.Principal(cfg.actor),
		formSvc: formuc.New(formRepo),
		taskSvc: taskuc.New(taskRepo, cfg.atRiskWindow),
		subSvc:  submissionuc.New(submissionRepo, formRepo, taskRepo, nil),
		mastSvc: masteruc.New(masterRepo),
		blobSvc: blobuc.New(blobRepo, cfg.maxBlobSize),
		obs:     obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Forms returns the form definition service.
func (c *Client) Forms() *FormService {
	return &FormService{svc: c.formSvc, subSvc: c.subSvc, actor: c.actor, obs: c.obs}
}

// Tasks returns the task service.
func (c *Client) Tasks() *TaskService {
	return &TaskService{svc: c.taskSvc, subSvc: c.subSvc, actor: c.actor, obs: c.obs}
}

// Masters returns the master data service.
func (c *Client) Masters() *MasterService {
	return &MasterService{svc: c.mastSvc, obs: c.obs}
}

// Blobs returns the blob storage service.
func (c *Client) Blobs() *BlobService {
	return &BlobService{svc: c.blobSvc, actor: c.actor, obs: c.obs}
}
