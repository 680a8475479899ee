// Package clean implements the destination cleaner worker: it empties the
// destination tree so a build starts from a blank slate, keeping the
// directory itself.
package clean

import (
	"context"
	"os"
	"path/filepath"

	"github.com/masonbuild/mason/internal/config"
	"github.com/masonbuild/mason/internal/env"
	"github.com/masonbuild/mason/internal/logger"
	"github.com/masonbuild/mason/internal/task"
)

// Worker empties the destination tree.
type Worker struct {
	log   *logger.Logger
	hooks []string
	dest  string
}

// New creates the clean worker.
func New(log *logger.Logger) *Worker {
	return &Worker{log: log}
}

var _ task.Unit = (*Worker)(nil)

func (w *Worker) Name() string            { return "clean" }
func (w *Worker) Category() task.Category { return task.CategoryWorkers }
func (w *Worker) Hooks() []string         { return w.hooks }
func (w *Worker) Environments() []string  { return nil }

// Configure stores the destination root. The cleaner has no entries.
func (w *Worker) Configure(cfg config.UnitConfig, snap *env.Snapshot, _ task.EntryResolver) error {
	w.hooks = cfg.Hook
	w.dest = snap.DestRoot
	return nil
}

// Run removes the destination tree's children and settles sig exactly once.
func (w *Worker) Run(_ context.Context, sig *task.Signal) {
	entries, err := os.ReadDir(w.dest)
	if err != nil {
		if os.IsNotExist(err) {
			// Nothing to clean.
			sig.Resolve()
			return
		}
		w.log.WithFields(map[string]any{"unit": w.Name()}).Error(err, "reading destination failed")
		sig.Reject(err)
		return
	}

	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(w.dest, entry.Name())); err != nil {
			w.log.WithFields(map[string]any{"unit": w.Name()}).Error(err, "cleaning destination failed")
			sig.Reject(err)
			return
		}
	}

	w.log.WithFields(map[string]any{"unit": w.Name(), "removed": len(entries)}).Success("destination cleaned")
	sig.Resolve()
}
