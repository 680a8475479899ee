// Package styles implements the stylesheet worker: it concatenates the
// configured CSS entries and writes a minified bundle into the destination
// tree.
package styles

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"

	"github.com/masonbuild/mason/internal/config"
	"github.com/masonbuild/mason/internal/env"
	"github.com/masonbuild/mason/internal/logger"
	"github.com/masonbuild/mason/internal/task"
)

const defaultOutput = "css/bundle.css"

// Options is the unit's declarative options block.
type Options struct {
	Output string `yaml:"output"`
	Minify *bool  `yaml:"minify"`
}

// Worker builds the stylesheet bundle.
type Worker struct {
	log     *logger.Logger
	hooks   []string
	entries []string
	dest    string
	opts    Options
}

// New creates the styles worker.
func New(log *logger.Logger) *Worker {
	return &Worker{log: log}
}

var _ task.Unit = (*Worker)(nil)

func (w *Worker) Name() string            { return "styles" }
func (w *Worker) Category() task.Category { return task.CategoryWorkers }
func (w *Worker) Hooks() []string         { return w.hooks }
func (w *Worker) Environments() []string  { return nil }

// Configure stores the unit configuration and resolves the entry globs.
func (w *Worker) Configure(cfg config.UnitConfig, snap *env.Snapshot, entries task.EntryResolver) error {
	w.hooks = cfg.Hook
	w.dest = snap.DestRoot

	if err := cfg.DecodeOptions(&w.opts); err != nil {
		return fmt.Errorf("styles: %w", err)
	}
	if w.opts.Output == "" {
		w.opts.Output = defaultOutput
	}

	resolved, err := task.ResolveEntries(cfg.Entry, entries)
	if err != nil {
		return fmt.Errorf("styles: %w", err)
	}
	w.entries = resolved
	return nil
}

// Run builds the bundle and settles sig exactly once.
func (w *Worker) Run(ctx context.Context, sig *task.Signal) {
	if len(w.entries) == 0 {
		w.log.WithFields(map[string]any{"unit": w.Name()}).Debug("no entries matched, nothing to build")
		sig.Resolve()
		return
	}

	if err := w.build(ctx); err != nil {
		w.log.WithFields(map[string]any{"unit": w.Name()}).Error(err, "stylesheet build failed")
		sig.Reject(err)
		return
	}

	w.log.WithFields(map[string]any{
		"unit":    w.Name(),
		"entries": len(w.entries),
		"output":  w.opts.Output,
	}).Success("stylesheet bundle written")
	sig.Resolve()
}

func (w *Worker) build(ctx context.Context) error {
	var buf bytes.Buffer
	for _, entry := range w.entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := os.ReadFile(entry)
		if err != nil {
			return err
		}
		buf.Write(data)
		if !bytes.HasSuffix(data, []byte("\n")) {
			buf.WriteByte('\n')
		}
	}

	out := buf.Bytes()
	if w.opts.Minify == nil || *w.opts.Minify {
		m := minify.New()
		m.AddFunc("text/css", css.Minify)
		minified, err := m.Bytes("text/css", out)
		if err != nil {
			return fmt.Errorf("minify css: %w", err)
		}
		out = minified
	}

	target := filepath.Join(w.dest, w.opts.Output)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	return os.WriteFile(target, out, 0o644)
}
