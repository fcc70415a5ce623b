package sqlite_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/provreg/internal/adapters/sqlite"
	"github.com/example/provreg/internal/app"
	"github.com/example/provreg/internal/core/registry"
	"github.com/example/provreg/internal/ports/primary"
)

// TestServiceAgainstSQLite drives the full service stack against a real
// SQLite database: init, register, publish, reads, and the audit trail.
func TestServiceAgainstSQLite(t *testing.T) {
	repo := sqlite.NewRegistryRepository(setupTestDB(t))
	clock := registry.NewFakeClock(1700000000)
	svc := app.NewRegistryService(repo, clock)
	ctx := context.Background()

	h1 := strings.Repeat("11", 32)
	h2 := strings.Repeat("22", 32)

	// init by A
	owner, err := svc.InitOwner(ctx, primary.InitRequest{Caller: "A"})
	require.NoError(t, err)
	assert.Equal(t, "A", owner.Identity)

	// register task-1
	summary, err := svc.RegisterTask(ctx, primary.RegisterTaskRequest{Caller: "A", TaskID: "task-1"})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), summary.LatestVersion)

	// no versions yet
	_, err = svc.GetLatest(ctx, "task-1")
	assert.ErrorIs(t, err, registry.ErrNoVersions)

	// first publish lands at version 2
	v, err := svc.PublishVersion(ctx, primary.PublishVersionRequest{Caller: "A", TaskID: "task-1", Hash: h1})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), v.Version)
	assert.Equal(t, uint64(1700000000), v.Timestamp)

	latest, err := svc.GetLatest(ctx, "task-1")
	require.NoError(t, err)
	assert.Equal(t, h1, latest.Hash)

	// interloper rejected, state untouched
	_, err = svc.PublishVersion(ctx, primary.PublishVersionRequest{Caller: "B", TaskID: "task-1", Hash: h2})
	assert.ErrorIs(t, err, registry.ErrUnauthorized)

	latest, err = svc.GetLatest(ctx, "task-1")
	require.NoError(t, err)
	assert.Equal(t, h1, latest.Hash)
	assert.Equal(t, uint64(2), latest.Version)

	// second publish by the owner
	clock.Advance(60)
	v, err = svc.PublishVersion(ctx, primary.PublishVersionRequest{Caller: "A", TaskID: "task-1", Hash: h2})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), v.Version)
	assert.Equal(t, uint64(1700000060), v.Timestamp)

	history, err := svc.History(ctx, "task-1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, h1, history[0].Hash)
	assert.Equal(t, h2, history[1].Hash)

	// audit trail records exactly the successful mutations, newest first
	entries, err := svc.ListAudit(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, app.OpPublishVersion, entries[0].Op)
	assert.Equal(t, uint64(3), entries[0].Version)
	assert.Equal(t, app.OpInit, entries[3].Op)
	for _, e := range entries {
		assert.Equal(t, "A", e.Caller)
		assert.NotEmpty(t, e.ID)
	}
}

// TestVersionsAreImmutable checks that a committed version row survives later
// operations byte for byte.
func TestVersionsAreImmutable(t *testing.T) {
	repo := sqlite.NewRegistryRepository(setupTestDB(t))
	svc := app.NewRegistryService(repo, registry.NewFakeClock(500))
	ctx := context.Background()

	_, err := svc.InitOwner(ctx, primary.InitRequest{Caller: "A"})
	require.NoError(t, err)
	_, err = svc.RegisterTask(ctx, primary.RegisterTaskRequest{Caller: "A", TaskID: "task-1"})
	require.NoError(t, err)

	h1 := strings.Repeat("aa", 32)
	first, err := svc.PublishVersion(ctx, primary.PublishVersionRequest{Caller: "A", TaskID: "task-1", Hash: h1})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err = svc.PublishVersion(ctx, primary.PublishVersionRequest{
			Caller: "A",
			TaskID: "task-1",
			Hash:   strings.Repeat("bb", 32),
		})
		require.NoError(t, err)
	}

	got, err := svc.GetVersion(ctx, "task-1", first.Version)
	require.NoError(t, err)
	assert.Equal(t, h1, got.Hash)
	assert.Equal(t, first.Timestamp, got.Timestamp)
}
