package registry

import "errors"

// Errors for registry operations. Every failure mode of the protocol maps to
// exactly one of these sentinels; callers match with errors.Is.
var (
	// ErrUnauthorized is returned when the caller is not the registry owner.
	ErrUnauthorized = errors.New("caller is not the registry owner")

	// ErrNotInitialized is returned for mutating calls before an owner is set.
	ErrNotInitialized = errors.New("registry not initialized")

	// ErrAlreadyInitialized is returned when Init is called a second time.
	ErrAlreadyInitialized = errors.New("registry already initialized")

	// ErrTaskAlreadyExists is returned when registering a duplicate task ID.
	ErrTaskAlreadyExists = errors.New("task already registered")

	// ErrTaskNotFound is returned when the task ID is not in the registry.
	ErrTaskNotFound = errors.New("task not found")

	// ErrNoVersions is returned when a task has no published versions yet.
	ErrNoVersions = errors.New("no versions published yet")

	// ErrInvalidHash is returned when a content hash is not exactly 32 bytes.
	ErrInvalidHash = errors.New("content hash must be exactly 32 bytes")
)
