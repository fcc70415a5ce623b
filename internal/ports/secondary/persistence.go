// Package secondary defines the secondary ports: interfaces the application
// core requires from infrastructure (persistence, identity resolution).
package secondary

import (
	"context"
	"time"
)

// OwnerRecord is the persisted registry owner.
type OwnerRecord struct {
	Identity      string
	InitializedAt time.Time
}

// TaskRecord is the persisted form of a registered task.
type TaskRecord struct {
	ID             string
	LatestVersion  uint64
	PublishedCount uint64
	CreatedAt      time.Time
}

// VersionRecord is the persisted form of one published version.
type VersionRecord struct {
	TaskID    string
	Version   uint64
	Hash      []byte // exactly 32 bytes
	Timestamp uint64 // Unix seconds from the publish clock
}

// AuditRecord is one appended audit trail entry. Audit rows are written in
// the same transaction as the mutation they record.
type AuditRecord struct {
	ID      string
	Op      string
	Caller  string
	TaskID  string
	Version uint64
	At      time.Time
}

// RegistryRepository defines the secondary port for registry persistence.
//
// Mutating methods must be atomic: on any error the store is unchanged.
// Implementations surface the core sentinel errors (registry.ErrTaskNotFound
// and friends) so callers can match with errors.Is.
type RegistryRepository interface {
	// GetOwner returns the owner record, or (nil, nil) when the registry has
	// not been initialized.
	GetOwner(ctx context.Context) (*OwnerRecord, error)

	// InitOwner persists the owner. Fails with ErrAlreadyInitialized if an
	// owner row already exists.
	InitOwner(ctx context.Context, rec *OwnerRecord, audit *AuditRecord) error

	// CreateTask persists a new task with latest version 1 and no versions.
	// Fails with ErrTaskAlreadyExists on a duplicate ID.
	CreateTask(ctx context.Context, rec *TaskRecord, audit *AuditRecord) error

	// GetTask retrieves a task by ID. Fails with ErrTaskNotFound.
	GetTask(ctx context.Context, id string) (*TaskRecord, error)

	// ListTasks returns all tasks ordered by ID.
	ListTasks(ctx context.Context) ([]*TaskRecord, error)

	// PublishVersion atomically reads the task's latest version, inserts the
	// record at latest+1, advances the counter, and appends the audit row.
	// rec.Version is ignored; the assigned version is returned.
	PublishVersion(ctx context.Context, rec *VersionRecord, audit *AuditRecord) (uint64, error)

	// GetVersion retrieves one version by exact (task, number) lookup.
	// Fails with ErrTaskNotFound or ErrNoVersions.
	GetVersion(ctx context.Context, taskID string, version uint64) (*VersionRecord, error)

	// GetLatestVersion retrieves the version at the task's latest counter.
	// Fails with ErrTaskNotFound or ErrNoVersions.
	GetLatestVersion(ctx context.Context, taskID string) (*VersionRecord, error)

	// ListVersions returns every published version of a task, ascending.
	ListVersions(ctx context.Context, taskID string) ([]*VersionRecord, error)

	// ListAudit returns the most recent audit entries, newest first.
	ListAudit(ctx context.Context, limit int) ([]*AuditRecord, error)
}

// IdentityProvider resolves the caller identity supplied by the hosting
// environment when no explicit identity is given.
type IdentityProvider interface {
	CurrentIdentity() (string, error)
}
