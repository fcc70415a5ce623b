// Package primary defines the primary ports: the service interfaces through
// which the CLI and HTTP adapters drive the registry.
package primary

import "context"

// RegistryService defines the primary port for registry operations.
type RegistryService interface {
	// InitOwner sets the registry owner. One-shot.
	InitOwner(ctx context.Context, req InitRequest) (*OwnerInfo, error)

	// RegisterTask creates an empty version store for a new task ID.
	RegisterTask(ctx context.Context, req RegisterTaskRequest) (*TaskSummary, error)

	// PublishVersion appends a new content hash for a registered task.
	PublishVersion(ctx context.Context, req PublishVersionRequest) (*Version, error)

	// GetLatest returns the most recently published version of a task.
	GetLatest(ctx context.Context, taskID string) (*Version, error)

	// GetVersion returns the version stored at an exact version number.
	GetVersion(ctx context.Context, taskID string, version uint64) (*Version, error)

	// History returns all published versions of a task, ascending.
	History(ctx context.Context, taskID string) ([]*Version, error)

	// ListTasks returns summaries for every registered task.
	ListTasks(ctx context.Context) ([]*TaskSummary, error)

	// GetTask returns the summary for one task.
	GetTask(ctx context.Context, taskID string) (*TaskSummary, error)

	// GetOwner reports the owner identity, if initialized.
	GetOwner(ctx context.Context) (*OwnerInfo, error)

	// ListAudit returns the most recent audit entries, newest first.
	ListAudit(ctx context.Context, limit int) ([]*AuditEntry, error)
}

// InitRequest contains parameters for initializing the registry.
type InitRequest struct {
	Caller string
}

// RegisterTaskRequest contains parameters for registering a task.
type RegisterTaskRequest struct {
	Caller string
	TaskID string
}

// PublishVersionRequest contains parameters for publishing a version.
type PublishVersionRequest struct {
	Caller string
	TaskID string
	Hash   string // hex-encoded 32-byte content hash
}

// Version is a published version of a task.
type Version struct {
	TaskID    string
	Version   uint64
	Hash      string // hex-encoded
	Timestamp uint64 // Unix seconds, assigned at publish
}

// TaskSummary describes a registered task.
type TaskSummary struct {
	ID             string
	LatestVersion  uint64
	PublishedCount uint64
	CreatedAt      string // RFC3339
}

// OwnerInfo describes the registry owner.
type OwnerInfo struct {
	Identity      string
	Initialized   bool
	InitializedAt string // RFC3339, empty if not initialized
}

// AuditEntry is one recorded mutation.
type AuditEntry struct {
	ID      string
	Op      string // "init", "register_task", "publish_version"
	Caller  string
	TaskID  string
	Version uint64 // 0 when not applicable
	At      string // RFC3339
}
