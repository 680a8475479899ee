// Package watcher implements the file-watch plugin: it observes the source
// tree and republishes the configured worker hooks whenever files change.
// It runs until the publish context is cancelled.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/masonbuild/mason/internal/config"
	"github.com/masonbuild/mason/internal/env"
	"github.com/masonbuild/mason/internal/logger"
	"github.com/masonbuild/mason/internal/task"
)

const defaultDebounce = 200 * time.Millisecond

// Republish triggers a new workers publish cycle for the given hooks. The
// run coordinator supplies it; failures inside a watch rebuild are logged,
// never escalated (watching is a development concern).
type Republish func(ctx context.Context, hooks []string)

// Options is the unit's declarative options block. DebounceMS collapses
// bursts of filesystem events into one rebuild.
type Options struct {
	Hooks      []string `yaml:"hooks"`
	DebounceMS int      `yaml:"debounce_ms"`
}

func (o Options) debounce() time.Duration {
	if o.DebounceMS <= 0 {
		return defaultDebounce
	}
	return time.Duration(o.DebounceMS) * time.Millisecond
}

// Plugin watches the source tree.
type Plugin struct {
	log       *logger.Logger
	hooks     []string
	root      string
	republish Republish
	opts      Options
}

// New creates the watcher plugin.
func New(log *logger.Logger, republish Republish) *Plugin {
	return &Plugin{log: log, republish: republish}
}

var _ task.Unit = (*Plugin)(nil)

func (p *Plugin) Name() string            { return "watcher" }
func (p *Plugin) Category() task.Category { return task.CategoryPlugins }
func (p *Plugin) Hooks() []string         { return p.hooks }

// Environments restricts watching to development runs.
func (p *Plugin) Environments() []string { return []string{env.Development} }

// Configure stores the watch root and the hooks to republish on change.
func (p *Plugin) Configure(cfg config.UnitConfig, snap *env.Snapshot, _ task.EntryResolver) error {
	p.hooks = cfg.Hook
	p.root = snap.SourceRoot

	if err := cfg.DecodeOptions(&p.opts); err != nil {
		return fmt.Errorf("watcher: %w", err)
	}
	return nil
}

// Run watches until ctx is cancelled, then resolves. A watcher that cannot
// be established rejects.
func (p *Plugin) Run(ctx context.Context, sig *task.Signal) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		sig.Reject(err)
		return
	}
	defer w.Close()

	if err := addTree(w, p.root); err != nil {
		sig.Reject(err)
		return
	}

	p.log.WithFields(map[string]any{
		"unit":  p.Name(),
		"root":  p.root,
		"hooks": p.opts.Hooks,
	}).Info("watching source tree")

	var debounce *time.Timer
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			sig.Resolve()
			return

		case event, ok := <-w.Events:
			if !ok {
				sig.Resolve()
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			// New directories join the watch set.
			if event.Op&fsnotify.Create != 0 {
				if err := addTree(w, event.Name); err == nil {
					p.log.WithFields(map[string]any{"path": event.Name}).Debug("watching new path")
				}
			}
			if debounce == nil {
				debounce = time.NewTimer(p.opts.debounce())
			} else {
				debounce.Reset(p.opts.debounce())
			}
			pending = debounce.C

		case <-pending:
			pending = nil
			if p.republish != nil {
				p.log.WithFields(map[string]any{"hooks": p.opts.Hooks}).Info("source changed, rebuilding")
				p.republish(ctx, p.opts.Hooks)
			}

		case err, ok := <-w.Errors:
			if !ok {
				sig.Resolve()
				return
			}
			p.log.WithFields(map[string]any{"unit": p.Name()}).Error(err, "watch error")
		}
	}
}

// addTree registers path and every directory beneath it. Non-directories are
// covered by their parent's watch.
func addTree(w *fsnotify.Watcher, path string) error {
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return w.Add(p)
	})
}
