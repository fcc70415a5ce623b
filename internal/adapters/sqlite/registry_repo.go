// Package sqlite contains the SQLite implementation of the registry
// persistence port. Every mutating method runs in a single transaction, so a
// failed call leaves the store exactly as it was.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/example/provreg/internal/core/registry"
	"github.com/example/provreg/internal/ports/secondary"
)

// RegistryRepository implements secondary.RegistryRepository with SQLite.
type RegistryRepository struct {
	db *sql.DB
}

// NewRegistryRepository creates a new SQLite registry repository.
func NewRegistryRepository(db *sql.DB) *RegistryRepository {
	return &RegistryRepository{db: db}
}

var _ secondary.RegistryRepository = (*RegistryRepository)(nil)

// GetOwner returns the owner record, or (nil, nil) before initialization.
func (r *RegistryRepository) GetOwner(ctx context.Context) (*secondary.OwnerRecord, error) {
	var (
		identity      string
		initializedAt time.Time
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT identity, initialized_at FROM registry_owner WHERE id = 1",
	).Scan(&identity, &initializedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get owner: %w", err)
	}

	return &secondary.OwnerRecord{
		Identity:      identity,
		InitializedAt: initializedAt,
	}, nil
}

// InitOwner persists the owner. The single-row constraint on registry_owner
// makes this one-shot even under concurrent calls.
func (r *RegistryRepository) InitOwner(ctx context.Context, rec *secondary.OwnerRecord, audit *secondary.AuditRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO registry_owner (id, identity, initialized_at) VALUES (1, ?, ?)",
		rec.Identity, rec.InitializedAt,
	)
	if isConstraintError(err) {
		return fmt.Errorf("owner row exists: %w", registry.ErrAlreadyInitialized)
	}
	if err != nil {
		return fmt.Errorf("failed to set owner: %w", err)
	}

	if err := insertAudit(ctx, tx, audit); err != nil {
		return err
	}
	return tx.Commit()
}

// CreateTask persists a new task with latest version 1 and no versions.
func (r *RegistryRepository) CreateTask(ctx context.Context, rec *secondary.TaskRecord, audit *secondary.AuditRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO tasks (id, latest_version, created_at) VALUES (?, 1, ?)",
		rec.ID, rec.CreatedAt,
	)
	if isConstraintError(err) {
		return fmt.Errorf("task %q: %w", rec.ID, registry.ErrTaskAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	if err := insertAudit(ctx, tx, audit); err != nil {
		return err
	}
	return tx.Commit()
}

const taskSelectCols = "t.id, t.latest_version, t.created_at, (SELECT COUNT(*) FROM versions v WHERE v.task_id = t.id)"

func scanTask(scanner interface {
	Scan(dest ...any) error
}) (*secondary.TaskRecord, error) {
	record := &secondary.TaskRecord{}
	err := scanner.Scan(&record.ID, &record.LatestVersion, &record.CreatedAt, &record.PublishedCount)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// GetTask retrieves a task by its ID.
func (r *RegistryRepository) GetTask(ctx context.Context, id string) (*secondary.TaskRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+taskSelectCols+" FROM tasks t WHERE t.id = ?",
		id,
	)

	record, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("task %q: %w", id, registry.ErrTaskNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return record, nil
}

// ListTasks returns all tasks ordered by ID.
func (r *RegistryRepository) ListTasks(ctx context.Context) ([]*secondary.TaskRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+taskSelectCols+" FROM tasks t ORDER BY t.id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var records []*secondary.TaskRecord
	for rows.Next() {
		record, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// PublishVersion atomically assigns latest+1, inserts the version record,
// advances the counter, and appends the audit row. This read-modify-write in
// one transaction is what keeps version numbers gapless and duplicate-free
// outside a call-serializing host.
func (r *RegistryRepository) PublishVersion(ctx context.Context, rec *secondary.VersionRecord, audit *secondary.AuditRecord) (uint64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var latest uint64
	err = tx.QueryRowContext(ctx,
		"SELECT latest_version FROM tasks WHERE id = ?",
		rec.TaskID,
	).Scan(&latest)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("task %q: %w", rec.TaskID, registry.ErrTaskNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read latest version: %w", err)
	}

	newVersion := latest + 1
	_, err = tx.ExecContext(ctx,
		"INSERT INTO versions (task_id, version, hash, timestamp) VALUES (?, ?, ?, ?)",
		rec.TaskID, newVersion, rec.Hash, rec.Timestamp,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert version: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE tasks SET latest_version = ? WHERE id = ?",
		newVersion, rec.TaskID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to advance latest version: %w", err)
	}

	if audit != nil {
		audit.Version = newVersion
	}
	if err := insertAudit(ctx, tx, audit); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit publish: %w", err)
	}
	return newVersion, nil
}

func (r *RegistryRepository) taskExists(ctx context.Context, taskID string) error {
	var one int
	err := r.db.QueryRowContext(ctx, "SELECT 1 FROM tasks WHERE id = ?", taskID).Scan(&one)
	if err == sql.ErrNoRows {
		return fmt.Errorf("task %q: %w", taskID, registry.ErrTaskNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check task: %w", err)
	}
	return nil
}

func scanVersion(scanner interface {
	Scan(dest ...any) error
}) (*secondary.VersionRecord, error) {
	record := &secondary.VersionRecord{}
	err := scanner.Scan(&record.TaskID, &record.Version, &record.Hash, &record.Timestamp)
	if err != nil {
		return nil, err
	}
	return record, nil
}

const versionSelectCols = "task_id, version, hash, timestamp"

// GetVersion retrieves one version by exact (task, number) lookup.
func (r *RegistryRepository) GetVersion(ctx context.Context, taskID string, version uint64) (*secondary.VersionRecord, error) {
	if err := r.taskExists(ctx, taskID); err != nil {
		return nil, err
	}

	row := r.db.QueryRowContext(ctx,
		"SELECT "+versionSelectCols+" FROM versions WHERE task_id = ? AND version = ?",
		taskID, version,
	)
	record, err := scanVersion(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("task %q version %d: %w", taskID, version, registry.ErrNoVersions)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get version: %w", err)
	}
	return record, nil
}

// GetLatestVersion retrieves the version at the task's latest counter. A
// freshly registered task has no record at its counter and fails with
// ErrNoVersions.
func (r *RegistryRepository) GetLatestVersion(ctx context.Context, taskID string) (*secondary.VersionRecord, error) {
	var latest uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT latest_version FROM tasks WHERE id = ?",
		taskID,
	).Scan(&latest)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("task %q: %w", taskID, registry.ErrTaskNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read latest version: %w", err)
	}

	row := r.db.QueryRowContext(ctx,
		"SELECT "+versionSelectCols+" FROM versions WHERE task_id = ? AND version = ?",
		taskID, latest,
	)
	record, err := scanVersion(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("task %q: %w", taskID, registry.ErrNoVersions)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest version: %w", err)
	}
	return record, nil
}

// ListVersions returns every published version of a task, ascending.
func (r *RegistryRepository) ListVersions(ctx context.Context, taskID string) ([]*secondary.VersionRecord, error) {
	if err := r.taskExists(ctx, taskID); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+versionSelectCols+" FROM versions WHERE task_id = ? ORDER BY version",
		taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}
	defer rows.Close()

	records := []*secondary.VersionRecord{}
	for rows.Next() {
		record, err := scanVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan version: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// ListAudit returns the most recent audit entries, newest first. A limit of
// zero or less returns everything.
func (r *RegistryRepository) ListAudit(ctx context.Context, limit int) ([]*secondary.AuditRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, op, caller, task_id, version, at FROM audit_log ORDER BY at DESC, rowid DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var records []*secondary.AuditRecord
	for rows.Next() {
		var (
			record  secondary.AuditRecord
			taskID  sql.NullString
			version sql.NullInt64
		)
		if err := rows.Scan(&record.ID, &record.Op, &record.Caller, &taskID, &version, &record.At); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		record.TaskID = taskID.String
		if version.Valid {
			record.Version = uint64(version.Int64)
		}
		records = append(records, &record)
	}
	return records, rows.Err()
}

func insertAudit(ctx context.Context, tx *sql.Tx, audit *secondary.AuditRecord) error {
	if audit == nil {
		return nil
	}

	var taskID sql.NullString
	if audit.TaskID != "" {
		taskID = sql.NullString{String: audit.TaskID, Valid: true}
	}
	var version sql.NullInt64
	if audit.Version > 0 {
		version = sql.NullInt64{Int64: int64(audit.Version), Valid: true}
	}

	_, err := tx.ExecContext(ctx,
		"INSERT INTO audit_log (id, op, caller, task_id, version, at) VALUES (?, ?, ?, ?, ?, ?)",
		audit.ID, audit.Op, audit.Caller, taskID, version, audit.At,
	)
	if err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

func isConstraintError(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}
	return false
}
