package broker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/masonbuild/mason/internal/task"
	masonerrors "github.com/masonbuild/mason/pkg/errors"
)

func noopHandler(_ context.Context, sig *task.Signal) {
	sig.Resolve()
}

func TestRegistryRegisterInsertsOwnName(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	require.NoError(t, reg.Register("styles", []string{"stylesheets"}, noopHandler, task.CategoryWorkers))

	require.Equal(t, []string{"styles", "stylesheets"}, reg.HooksFor(task.CategoryWorkers, "styles"))
}

func TestRegistryDuplicateNameRejected(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	require.NoError(t, reg.Register("watcher", []string{"watch"}, noopHandler, task.CategoryPlugins))

	err := reg.Register("watcher", nil, noopHandler, task.CategoryPlugins)
	var dup *masonerrors.DuplicateNameError
	require.ErrorAs(t, err, &dup)
	require.Equal(t, "watcher", dup.Name)
	require.Equal(t, "plugins", dup.Category)
}

func TestRegistrySameNameAcrossCategoriesAllowed(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	require.NoError(t, reg.Register("bundle", nil, noopHandler, task.CategoryWorkers))
	require.NoError(t, reg.Register("bundle", nil, noopHandler, task.CategoryPlugins))
}

func TestRegistryResolveDeduplicatesAcrossHooks(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	require.NoError(t, reg.Register("build", []string{"css"}, noopHandler, task.CategoryWorkers))

	matched, unmatched := reg.Resolve(task.CategoryWorkers, []string{"build", "css"})
	require.Len(t, matched, 1)
	require.Equal(t, "build", matched[0].Name)
	require.Empty(t, unmatched)
}

func TestRegistryResolveSharedHookFansOut(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	require.NoError(t, reg.Register("sass", []string{"stylesheets"}, noopHandler, task.CategoryWorkers))
	require.NoError(t, reg.Register("postcss", []string{"stylesheets"}, noopHandler, task.CategoryWorkers))

	matched, unmatched := reg.Resolve(task.CategoryWorkers, []string{"stylesheets"})
	require.Len(t, matched, 2)
	require.Equal(t, "sass", matched[0].Name)
	require.Equal(t, "postcss", matched[1].Name)
	require.Empty(t, unmatched)
}

func TestRegistryResolveReportsUnmatchedHooks(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	require.NoError(t, reg.Register("styles", nil, noopHandler, task.CategoryWorkers))

	matched, unmatched := reg.Resolve(task.CategoryWorkers, []string{"styles", "sprites"})
	require.Len(t, matched, 1)
	require.Equal(t, []string{"sprites"}, unmatched)
}

func TestRegistryResolveRespectsCategoryPartition(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	require.NoError(t, reg.Register("serve", nil, noopHandler, task.CategoryPlugins))

	matched, unmatched := reg.Resolve(task.CategoryWorkers, []string{"serve"})
	require.Empty(t, matched)
	require.Equal(t, []string{"serve"}, unmatched)
}

func TestRegistryResolveKeepsRegistrationOrder(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	require.NoError(t, reg.Register("clean", nil, noopHandler, task.CategoryWorkers))
	require.NoError(t, reg.Register("styles", []string{"stylesheets"}, noopHandler, task.CategoryWorkers))
	require.NoError(t, reg.Register("scripts", []string{"javascripts"}, noopHandler, task.CategoryWorkers))

	matched, _ := reg.Resolve(task.CategoryWorkers, []string{"javascripts", "clean", "stylesheets"})
	require.Len(t, matched, 3)
	require.Equal(t, "clean", matched[0].Name)
	require.Equal(t, "styles", matched[1].Name)
	require.Equal(t, "scripts", matched[2].Name)
}

func TestRegistryHooksUnion(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	require.NoError(t, reg.Register("styles", []string{"stylesheets"}, noopHandler, task.CategoryWorkers))
	require.NoError(t, reg.Register("scripts", []string{"javascripts"}, noopHandler, task.CategoryWorkers))

	require.Equal(t, []string{"javascripts", "scripts", "styles", "stylesheets"}, reg.Hooks(task.CategoryWorkers))
	require.Equal(t, []string{"scripts", "styles"}, reg.Names(task.CategoryWorkers))
}
