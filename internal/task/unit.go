package task

import (
	"context"

	"github.com/masonbuild/mason/internal/config"
	"github.com/masonbuild/mason/internal/env"
)

// Category partitions the hook registry. Workers produce build artifacts;
// plugins post-process or serve them.
type Category string

const (
	CategoryWorkers Category = "workers"
	CategoryPlugins Category = "plugins"
)

// Valid reports whether c names a known registry partition.
func (c Category) Valid() bool {
	return c == CategoryWorkers || c == CategoryPlugins
}

// Handler is the entry point registered for a subscription. Implementations
// must settle sig exactly once on every exit path; the publish engine's
// fan-in depends on it.
type Handler func(ctx context.Context, sig *Signal)

// EntryResolver expands an entry glob pattern into concrete file paths. The
// filesystem collaborator behind it is rooted at the source tree.
type EntryResolver interface {
	Resolve(pattern string) ([]string, error)
}

// Unit is the contract every worker and plugin satisfies.
//
// Lifecycle: Configure is called exactly once at mount time, before the unit
// is registered; Run may then be invoked at most once per publish cycle. A
// unit whose entry patterns match nothing stays mounted and succeeds as a
// no-op.
type Unit interface {
	// Name is the unit's canonical identifier, unique within its category.
	Name() string

	// Category selects the registry partition the unit mounts into.
	Category() Category

	// Hooks lists the aliases the unit responds to in addition to its name.
	// Valid only after Configure.
	Hooks() []string

	// Environments lists the run environments the unit may execute in. An
	// empty list accepts every environment.
	Environments() []string

	// Configure supplies the unit's declarative configuration and resolves
	// its entry patterns into concrete inputs.
	Configure(cfg config.UnitConfig, snap *env.Snapshot, entries EntryResolver) error

	// Run performs the unit of work. It must settle sig exactly once,
	// whether it succeeds, handles an error, or fails.
	Run(ctx context.Context, sig *Signal)
}
