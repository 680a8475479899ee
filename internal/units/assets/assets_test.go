package assets

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/masonbuild/mason/internal/config"
	"github.com/masonbuild/mason/internal/env"
	"github.com/masonbuild/mason/internal/fsys"
	"github.com/masonbuild/mason/internal/task"
)

func TestAssetsCopiesPreservingRelativePaths(t *testing.T) {
	t.Parallel()

	source, dest := t.TempDir(), t.TempDir()
	img := filepath.Join(source, "img", "icons", "home.svg")
	require.NoError(t, os.MkdirAll(filepath.Dir(img), 0o755))
	require.NoError(t, os.WriteFile(img, []byte("<svg/>"), 0o644))

	w := New(nil)
	snap := &env.Snapshot{RunEnv: env.Development, SourceRoot: source, DestRoot: dest}
	cfg := config.UnitConfig{
		Hook:  config.HookList{"static"},
		Entry: map[string]string{"images": "img/**/*"},
	}
	require.NoError(t, w.Configure(cfg, snap, fsys.NewResolver(source)))

	sig := task.NewSignal(w.Name(), nil)
	w.Run(context.Background(), sig)
	<-sig.Done()
	require.NoError(t, sig.Err())

	copied, err := os.ReadFile(filepath.Join(dest, "img", "icons", "home.svg"))
	require.NoError(t, err)
	require.Equal(t, "<svg/>", string(copied))
}

func TestAssetsNoEntriesResolves(t *testing.T) {
	t.Parallel()

	source, dest := t.TempDir(), t.TempDir()

	w := New(nil)
	snap := &env.Snapshot{SourceRoot: source, DestRoot: dest}
	require.NoError(t, w.Configure(config.UnitConfig{Entry: map[string]string{"images": "img/**/*"}}, snap, fsys.NewResolver(source)))

	sig := task.NewSignal(w.Name(), nil)
	w.Run(context.Background(), sig)
	<-sig.Done()
	require.NoError(t, sig.Err())
}
