package styles

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

func writeSource(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func configure(t *testing.T, w *Worker, cfg config.UnitConfig, source, dest string) {
	t.Helper()
	snap := &env.Snapshot{RunEnv: env.Development, SourceRoot: source, DestRoot: dest}
	require.NoError(t, w.Configure(cfg, snap, fsys.NewResolver(source)))
}

func TestStylesBundlesAndMinifies(t *testing.T) {
	t.Parallel()

	source, dest := t.TempDir(), t.TempDir()
	writeSource(t, source, "styles/a.css", "body {  color:  red; }\n")
	writeSource(t, source, "styles/b.css", ".btn {\n  margin: 0px;\n}\n")

	w := New(nil)
	configure(t, w, config.UnitConfig{
		Hook:  config.HookList{"stylesheets"},
		Entry: map[string]string{"main": "styles/**/*.css"},
	}, source, dest)

	require.Equal(t, []string{"stylesheets"}, w.Hooks())

	sig := task.NewSignal(w.Name(), nil)
	w.Run(context.Background(), sig)
	<-sig.Done()
	require.NoError(t, sig.Err())

	out, err := os.ReadFile(filepath.Join(dest, "css", "bundle.css"))
	require.NoError(t, err)
	require.Contains(t, string(out), "color:red")
	require.Contains(t, string(out), ".btn")
	require.NotContains(t, string(out), "  ")
}

func TestStylesCustomOutputWithoutMinify(t *testing.T) {
	t.Parallel()

	source, dest := t.TempDir(), t.TempDir()
	writeSource(t, source, "styles/a.css", "body { color: red; }\n")

	disabled := false
	w := New(nil)
	snap := &env.Snapshot{SourceRoot: source, DestRoot: dest}
	cfg := config.UnitConfig{Entry: map[string]string{"main": "styles/*.css"}}
	require.NoError(t, w.Configure(cfg, snap, fsys.NewResolver(source)))
	w.opts.Output = "all.css"
	w.opts.Minify = &disabled

	sig := task.NewSignal(w.Name(), nil)
	w.Run(context.Background(), sig)
	<-sig.Done()
	require.NoError(t, sig.Err())

	out, err := os.ReadFile(filepath.Join(dest, "all.css"))
	require.NoError(t, err)
	require.Equal(t, "body { color: red; }\n", string(out))
}

func TestStylesNoEntriesResolves(t *testing.T) {
	t.Parallel()

	source, dest := t.TempDir(), t.TempDir()

	w := New(nil)
	configure(t, w, config.UnitConfig{
		Entry: map[string]string{"main": "styles/**/*.css"},
	}, source, dest)

	sig := task.NewSignal(w.Name(), nil)
	w.Run(context.Background(), sig)
	<-sig.Done()
	require.NoError(t, sig.Err())

	_, err := os.Stat(filepath.Join(dest, "css", "bundle.css"))
	require.True(t, os.IsNotExist(err))
}

func TestStylesMissingEntryFileRejects(t *testing.T) {
	t.Parallel()

	source, dest := t.TempDir(), t.TempDir()
	writeSource(t, source, "styles/a.css", "body {}\n")

	w := New(nil)
	configure(t, w, config.UnitConfig{
		Entry: map[string]string{"main": "styles/*.css"},
	}, source, dest)

	// Entry vanishes between Configure and Run.
	require.NoError(t, os.Remove(filepath.Join(source, "styles", "a.css")))

	sig := task.NewSignal(w.Name(), nil)
	w.Run(context.Background(), sig)
	<-sig.Done()
	require.Error(t, sig.Err())
}
