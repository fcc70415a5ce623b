// Package sqlite_test contains integration tests for the SQLite registry
// repository.
//
// The database schema is loaded in exactly one place: setupTestDB uses
// db.GetSchemaSQL() so tests always run against the authoritative schema.
// Do not hardcode CREATE TABLE statements in test files.
package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/google/uuid"

	"github.com/example/provreg/internal/adapters/sqlite"
	"github.com/example/provreg/internal/db"
	"github.com/example/provreg/internal/ports/secondary"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if _, err := testDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}
	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedOwner initializes the registry with the given owner identity.
func seedOwner(t *testing.T, repo *sqlite.RegistryRepository, identity string) {
	t.Helper()
	err := repo.InitOwner(context.Background(), &secondary.OwnerRecord{
		Identity:      identity,
		InitializedAt: time.Now().UTC(),
	}, testAudit("init", identity, ""))
	if err != nil {
		t.Fatalf("failed to seed owner: %v", err)
	}
}

// seedTask registers a task owned by the seeded identity.
func seedTask(t *testing.T, repo *sqlite.RegistryRepository, caller, taskID string) {
	t.Helper()
	err := repo.CreateTask(context.Background(), &secondary.TaskRecord{
		ID:            taskID,
		LatestVersion: 1,
		CreatedAt:     time.Now().UTC(),
	}, testAudit("register_task", caller, taskID))
	if err != nil {
		t.Fatalf("failed to seed task: %v", err)
	}
}

func testAudit(op, caller, taskID string) *secondary.AuditRecord {
	return &secondary.AuditRecord{
		ID:     uuid.NewString(),
		Op:     op,
		Caller: caller,
		TaskID: taskID,
		At:     time.Now().UTC(),
	}
}

func testHashBytes(b byte) []byte {
	h := make([]byte, 32)
	for i := range h {
		h[i] = b
	}
	return h
}
