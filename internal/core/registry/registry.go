package registry

import (
	"fmt"
	"sort"
)

// task is the per-task version store: an append-only history keyed by version
// number plus the latest version counter.
//
// A fresh task starts at latestVersion 1 with an empty history. The counter
// is a placeholder until the first publish, which lands at version 2; the
// k-th publish stores version k+1. This numbering is externally observable
// and deliberately preserved.
type task struct {
	latestVersion uint64
	versions      map[uint64]VersionInfo
}

// Registry is the versioned provenance registry: a single owner identity
// gating an append-only, strictly ordered history of content hashes per
// named task.
//
// Registry is a plain state value with no internal locking. Callers are
// expected to serialize access; each method either fully applies its change
// or, on error, leaves the state untouched (guards run before any write).
type Registry struct {
	owner       Identity
	initialized bool
	tasks       map[string]*task
	clock       Clock
}

// New creates an empty, uninitialized registry. The clock supplies publish
// timestamps; pass SystemClock() outside of tests.
func New(clock Clock) *Registry {
	return &Registry{
		tasks: make(map[string]*task),
		clock: clock,
	}
}

// Init sets the registry owner to the caller. It succeeds exactly once;
// later calls fail with ErrAlreadyInitialized and change nothing.
func (r *Registry) Init(caller Identity) error {
	if r.initialized {
		return fmt.Errorf("owned by %q: %w", r.owner, ErrAlreadyInitialized)
	}

	r.owner = caller
	r.initialized = true
	return nil
}

// Owner returns the owner identity and whether the registry is initialized.
func (r *Registry) Owner() (Identity, bool) {
	return r.owner, r.initialized
}

// RegisterTask creates an empty version store under taskID.
func (r *Registry) RegisterTask(caller Identity, taskID string) error {
	_, exists := r.tasks[taskID]
	g := CanRegisterTask(RegisterTaskContext{
		MutateContext: r.mutateContext(caller),
		TaskID:        taskID,
		TaskExists:    exists,
	})
	if err := g.Error(); err != nil {
		return err
	}

	r.tasks[taskID] = &task{
		latestVersion: 1,
		versions:      make(map[uint64]VersionInfo),
	}
	return nil
}

// PublishNewVersion appends an immutable VersionInfo for taskID and advances
// the latest version counter by exactly one. It returns the assigned version
// number.
func (r *Registry) PublishNewVersion(caller Identity, taskID string, hash Hash) (uint64, error) {
	t, exists := r.tasks[taskID]
	g := CanPublishVersion(PublishContext{
		MutateContext: r.mutateContext(caller),
		TaskID:        taskID,
		TaskExists:    exists,
	})
	if err := g.Error(); err != nil {
		return 0, err
	}

	newVersion := t.latestVersion + 1
	t.versions[newVersion] = VersionInfo{
		Hash:      hash,
		Timestamp: r.clock.Now(),
	}
	t.latestVersion = newVersion
	return newVersion, nil
}

// GetLatest returns a copy of the most recently published VersionInfo for
// taskID. Reads are open to any caller.
func (r *Registry) GetLatest(taskID string) (VersionInfo, error) {
	t, exists := r.tasks[taskID]
	if !exists {
		return VersionInfo{}, fmt.Errorf("task %q: %w", taskID, ErrTaskNotFound)
	}

	info, ok := t.versions[t.latestVersion]
	if !ok {
		return VersionInfo{}, fmt.Errorf("task %q: %w", taskID, ErrNoVersions)
	}
	return info, nil
}

// GetVersion returns a copy of the VersionInfo stored at an exact version
// number for taskID.
func (r *Registry) GetVersion(taskID string, version uint64) (VersionInfo, error) {
	t, exists := r.tasks[taskID]
	if !exists {
		return VersionInfo{}, fmt.Errorf("task %q: %w", taskID, ErrTaskNotFound)
	}

	info, ok := t.versions[version]
	if !ok {
		return VersionInfo{}, fmt.Errorf("task %q version %d: %w", taskID, version, ErrNoVersions)
	}
	return info, nil
}

// LatestVersionNumber returns the task's latest version counter. Note that a
// freshly registered task reports 1 with no stored record at that number.
func (r *Registry) LatestVersionNumber(taskID string) (uint64, error) {
	t, exists := r.tasks[taskID]
	if !exists {
		return 0, fmt.Errorf("task %q: %w", taskID, ErrTaskNotFound)
	}
	return t.latestVersion, nil
}

// History returns every published version for taskID in ascending version
// order. A registered task with no publishes yields an empty slice.
func (r *Registry) History(taskID string) ([]PublishedVersion, error) {
	t, exists := r.tasks[taskID]
	if !exists {
		return nil, fmt.Errorf("task %q: %w", taskID, ErrTaskNotFound)
	}

	history := make([]PublishedVersion, 0, len(t.versions))
	for v, info := range t.versions {
		history = append(history, PublishedVersion{Version: v, Info: info})
	}
	sort.Slice(history, func(i, j int) bool {
		return history[i].Version < history[j].Version
	})
	return history, nil
}

// Tasks returns the registered task IDs in lexical order.
func (r *Registry) Tasks() []string {
	ids := make([]string, 0, len(r.tasks))
	for id := range r.tasks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (r *Registry) mutateContext(caller Identity) MutateContext {
	return MutateContext{
		Caller:      caller,
		Owner:       r.owner,
		Initialized: r.initialized,
	}
}
