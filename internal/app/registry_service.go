// Package app implements the primary ports. Services evaluate the pure core
// guards first, then delegate to the persistence port; every mutation is a
// single repository call so a failed operation leaves no partial state.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/provreg/internal/core/registry"
	"github.com/example/provreg/internal/ports/primary"
	"github.com/example/provreg/internal/ports/secondary"
)

// Audit operation names, persisted in the audit trail.
const (
	OpInit           = "init"
	OpRegisterTask   = "register_task"
	OpPublishVersion = "publish_version"
)

// RegistryServiceImpl implements the RegistryService interface.
type RegistryServiceImpl struct {
	repo  secondary.RegistryRepository
	clock registry.Clock
}

// NewRegistryService creates a new RegistryService with injected dependencies.
func NewRegistryService(repo secondary.RegistryRepository, clock registry.Clock) *RegistryServiceImpl {
	return &RegistryServiceImpl{
		repo:  repo,
		clock: clock,
	}
}

// InitOwner sets the registry owner. The one-shot property is enforced by the
// repository's single owner row, so two racing inits cannot both succeed.
func (s *RegistryServiceImpl) InitOwner(ctx context.Context, req primary.InitRequest) (*primary.OwnerInfo, error) {
	if req.Caller == "" {
		return nil, fmt.Errorf("caller identity required")
	}

	rec := &secondary.OwnerRecord{
		Identity:      req.Caller,
		InitializedAt: time.Now().UTC(),
	}
	if err := s.repo.InitOwner(ctx, rec, s.newAudit(OpInit, req.Caller, "", 0)); err != nil {
		return nil, fmt.Errorf("failed to initialize registry: %w", err)
	}

	return ownerToInfo(rec), nil
}

// RegisterTask creates a new task with latest version 1 and no versions.
func (s *RegistryServiceImpl) RegisterTask(ctx context.Context, req primary.RegisterTaskRequest) (*primary.TaskSummary, error) {
	if req.TaskID == "" {
		return nil, fmt.Errorf("task ID required")
	}

	mctx, err := s.mutateContext(ctx, req.Caller)
	if err != nil {
		return nil, err
	}
	exists, err := s.taskExists(ctx, req.TaskID)
	if err != nil {
		return nil, err
	}

	g := registry.CanRegisterTask(registry.RegisterTaskContext{
		MutateContext: mctx,
		TaskID:        req.TaskID,
		TaskExists:    exists,
	})
	if err := g.Error(); err != nil {
		return nil, err
	}

	rec := &secondary.TaskRecord{
		ID:            req.TaskID,
		LatestVersion: 1,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.repo.CreateTask(ctx, rec, s.newAudit(OpRegisterTask, req.Caller, req.TaskID, 0)); err != nil {
		return nil, fmt.Errorf("failed to register task: %w", err)
	}

	created, err := s.repo.GetTask(ctx, req.TaskID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch registered task: %w", err)
	}
	return taskToSummary(created), nil
}

// PublishVersion appends a new content hash for a registered task. The
// read-increment-insert runs inside one repository transaction.
func (s *RegistryServiceImpl) PublishVersion(ctx context.Context, req primary.PublishVersionRequest) (*primary.Version, error) {
	hash, err := registry.ParseHash(req.Hash)
	if err != nil {
		return nil, err
	}

	mctx, err := s.mutateContext(ctx, req.Caller)
	if err != nil {
		return nil, err
	}
	exists, err := s.taskExists(ctx, req.TaskID)
	if err != nil {
		return nil, err
	}

	g := registry.CanPublishVersion(registry.PublishContext{
		MutateContext: mctx,
		TaskID:        req.TaskID,
		TaskExists:    exists,
	})
	if err := g.Error(); err != nil {
		return nil, err
	}

	rec := &secondary.VersionRecord{
		TaskID:    req.TaskID,
		Hash:      hash[:],
		Timestamp: s.clock.Now(),
	}
	audit := s.newAudit(OpPublishVersion, req.Caller, req.TaskID, 0)
	version, err := s.repo.PublishVersion(ctx, rec, audit)
	if err != nil {
		return nil, fmt.Errorf("failed to publish version: %w", err)
	}
	rec.Version = version

	return versionToDTO(rec), nil
}

// GetLatest returns the most recently published version of a task.
func (s *RegistryServiceImpl) GetLatest(ctx context.Context, taskID string) (*primary.Version, error) {
	rec, err := s.repo.GetLatestVersion(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return versionToDTO(rec), nil
}

// GetVersion returns the version stored at an exact version number.
func (s *RegistryServiceImpl) GetVersion(ctx context.Context, taskID string, version uint64) (*primary.Version, error) {
	rec, err := s.repo.GetVersion(ctx, taskID, version)
	if err != nil {
		return nil, err
	}
	return versionToDTO(rec), nil
}

// History returns all published versions of a task in ascending order.
func (s *RegistryServiceImpl) History(ctx context.Context, taskID string) ([]*primary.Version, error) {
	recs, err := s.repo.ListVersions(ctx, taskID)
	if err != nil {
		return nil, err
	}

	versions := make([]*primary.Version, 0, len(recs))
	for _, rec := range recs {
		versions = append(versions, versionToDTO(rec))
	}
	return versions, nil
}

// ListTasks returns summaries for every registered task.
func (s *RegistryServiceImpl) ListTasks(ctx context.Context) ([]*primary.TaskSummary, error) {
	recs, err := s.repo.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := make([]*primary.TaskSummary, 0, len(recs))
	for _, rec := range recs {
		tasks = append(tasks, taskToSummary(rec))
	}
	return tasks, nil
}

// GetTask returns the summary for one task.
func (s *RegistryServiceImpl) GetTask(ctx context.Context, taskID string) (*primary.TaskSummary, error) {
	rec, err := s.repo.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return taskToSummary(rec), nil
}

// GetOwner reports the owner identity, if initialized.
func (s *RegistryServiceImpl) GetOwner(ctx context.Context) (*primary.OwnerInfo, error) {
	rec, err := s.repo.GetOwner(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read owner: %w", err)
	}
	if rec == nil {
		return &primary.OwnerInfo{Initialized: false}, nil
	}
	return ownerToInfo(rec), nil
}

// ListAudit returns the most recent audit entries, newest first.
func (s *RegistryServiceImpl) ListAudit(ctx context.Context, limit int) ([]*primary.AuditEntry, error) {
	recs, err := s.repo.ListAudit(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}

	entries := make([]*primary.AuditEntry, 0, len(recs))
	for _, rec := range recs {
		entries = append(entries, &primary.AuditEntry{
			ID:      rec.ID,
			Op:      rec.Op,
			Caller:  rec.Caller,
			TaskID:  rec.TaskID,
			Version: rec.Version,
			At:      rec.At.UTC().Format(time.RFC3339),
		})
	}
	return entries, nil
}

// mutateContext loads the persisted owner state into a core guard context.
func (s *RegistryServiceImpl) mutateContext(ctx context.Context, caller string) (registry.MutateContext, error) {
	owner, err := s.repo.GetOwner(ctx)
	if err != nil {
		return registry.MutateContext{}, fmt.Errorf("failed to read owner: %w", err)
	}

	mctx := registry.MutateContext{Caller: registry.Identity(caller)}
	if owner != nil {
		mctx.Owner = registry.Identity(owner.Identity)
		mctx.Initialized = true
	}
	return mctx, nil
}

func (s *RegistryServiceImpl) taskExists(ctx context.Context, taskID string) (bool, error) {
	_, err := s.repo.GetTask(ctx, taskID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, registry.ErrTaskNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check task: %w", err)
}

func (s *RegistryServiceImpl) newAudit(op, caller, taskID string, version uint64) *secondary.AuditRecord {
	return &secondary.AuditRecord{
		ID:      uuid.NewString(),
		Op:      op,
		Caller:  caller,
		TaskID:  taskID,
		Version: version,
		At:      time.Now().UTC(),
	}
}

func taskToSummary(rec *secondary.TaskRecord) *primary.TaskSummary {
	return &primary.TaskSummary{
		ID:             rec.ID,
		LatestVersion:  rec.LatestVersion,
		PublishedCount: rec.PublishedCount,
		CreatedAt:      rec.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func versionToDTO(rec *secondary.VersionRecord) *primary.Version {
	hash, _ := registry.HashFromBytes(rec.Hash)
	return &primary.Version{
		TaskID:    rec.TaskID,
		Version:   rec.Version,
		Hash:      hash.String(),
		Timestamp: rec.Timestamp,
	}
}

func ownerToInfo(rec *secondary.OwnerRecord) *primary.OwnerInfo {
	return &primary.OwnerInfo{
		Identity:      rec.Identity,
		Initialized:   true,
		InitializedAt: rec.InitializedAt.UTC().Format(time.RFC3339),
	}
}
