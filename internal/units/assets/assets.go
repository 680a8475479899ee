// Package assets implements the static asset worker: it copies matched files
// from the source tree into the destination tree, preserving relative paths.
package assets

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/masonbuild/mason/internal/config"
	"github.com/masonbuild/mason/internal/env"
	"github.com/masonbuild/mason/internal/logger"
	"github.com/masonbuild/mason/internal/task"
)

// Worker copies static assets.
type Worker struct {
	log     *logger.Logger
	hooks   []string
	entries []string
	source  string
	dest    string
}

// New creates the assets worker.
func New(log *logger.Logger) *Worker {
	return &Worker{log: log}
}

var _ task.Unit = (*Worker)(nil)

func (w *Worker) Name() string            { return "assets" }
func (w *Worker) Category() task.Category { return task.CategoryWorkers }
func (w *Worker) Hooks() []string         { return w.hooks }
func (w *Worker) Environments() []string  { return nil }

// Configure stores the unit configuration and resolves the entry globs.
func (w *Worker) Configure(cfg config.UnitConfig, snap *env.Snapshot, entries task.EntryResolver) error {
	w.hooks = cfg.Hook
	w.source = snap.SourceRoot
	w.dest = snap.DestRoot

	resolved, err := task.ResolveEntries(cfg.Entry, entries)
	if err != nil {
		return fmt.Errorf("assets: %w", err)
	}
	w.entries = resolved
	return nil
}

// Run copies every matched file and settles sig exactly once.
func (w *Worker) Run(ctx context.Context, sig *task.Signal) {
	if len(w.entries) == 0 {
		w.log.WithFields(map[string]any{"unit": w.Name()}).Debug("no entries matched, nothing to copy")
		sig.Resolve()
		return
	}

	copied := 0
	for _, entry := range w.entries {
		if err := ctx.Err(); err != nil {
			sig.Reject(err)
			return
		}
		if err := w.copyFile(entry); err != nil {
			w.log.WithFields(map[string]any{"unit": w.Name(), "file": entry}).Error(err, "asset copy failed")
			sig.Reject(err)
			return
		}
		copied++
	}

	w.log.WithFields(map[string]any{"unit": w.Name(), "files": copied}).Success("assets copied")
	sig.Resolve()
}

func (w *Worker) copyFile(src string) error {
	rel, err := filepath.Rel(w.source, src)
	if err != nil {
		return err
	}
	target := filepath.Join(w.dest, rel)

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(target)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
