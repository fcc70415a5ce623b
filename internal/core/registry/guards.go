// Package registry contains the pure business logic for the versioned
// provenance registry: the owner gate, task registration, and the per-task
// version store. Guards are pure functions that evaluate preconditions
// without side effects; all state lives in explicit Registry values.
package registry

import "fmt"

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Err     error
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return r.Err
}

// MutateContext provides context for the owner gate.
type MutateContext struct {
	Caller      Identity
	Owner       Identity
	Initialized bool
}

// RegisterTaskContext provides context for task registration guards.
type RegisterTaskContext struct {
	MutateContext
	TaskID     string
	TaskExists bool
}

// PublishContext provides context for version publication guards.
type PublishContext struct {
	MutateContext
	TaskID     string
	TaskExists bool
}

// CanMutate evaluates the owner gate shared by every mutating operation.
// Rules:
// - The registry must have an owner
// - The caller must be that owner
func CanMutate(ctx MutateContext) GuardResult {
	if !ctx.Initialized {
		return GuardResult{
			Allowed: false,
			Err:     fmt.Errorf("no owner set, run init first: %w", ErrNotInitialized),
		}
	}

	if ctx.Caller != ctx.Owner {
		return GuardResult{
			Allowed: false,
			Err:     fmt.Errorf("caller %q: %w", ctx.Caller, ErrUnauthorized),
		}
	}

	return GuardResult{Allowed: true}
}

// CanRegisterTask evaluates whether a task can be registered.
// Rules:
// - Owner gate passes
// - Task ID must not already exist
func CanRegisterTask(ctx RegisterTaskContext) GuardResult {
	if g := CanMutate(ctx.MutateContext); !g.Allowed {
		return g
	}

	if ctx.TaskExists {
		return GuardResult{
			Allowed: false,
			Err:     fmt.Errorf("task %q: %w", ctx.TaskID, ErrTaskAlreadyExists),
		}
	}

	return GuardResult{Allowed: true}
}

// CanPublishVersion evaluates whether a new version can be published.
// Rules:
// - Owner gate passes
// - Task must already be registered
func CanPublishVersion(ctx PublishContext) GuardResult {
	if g := CanMutate(ctx.MutateContext); !g.Allowed {
		return g
	}

	if !ctx.TaskExists {
		return GuardResult{
			Allowed: false,
			Err:     fmt.Errorf("task %q: %w", ctx.TaskID, ErrTaskNotFound),
		}
	}

	return GuardResult{Allowed: true}
}
