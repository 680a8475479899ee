// Package app wires the pipeline together: it mounts units into the hook
// registry and drives the per-run publish cycles with the environment's
// failure policy.
package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/masonbuild/mason/internal/broker"
	"github.com/masonbuild/mason/internal/config"
	"github.com/masonbuild/mason/internal/env"
	"github.com/masonbuild/mason/internal/fsys"
	"github.com/masonbuild/mason/internal/logger"
	"github.com/masonbuild/mason/internal/report"
	"github.com/masonbuild/mason/internal/task"
	"github.com/masonbuild/mason/internal/units/assets"
	"github.com/masonbuild/mason/internal/units/clean"
	"github.com/masonbuild/mason/internal/units/scripts"
	"github.com/masonbuild/mason/internal/units/server"
	"github.com/masonbuild/mason/internal/units/styles"
	"github.com/masonbuild/mason/internal/units/watcher"
)

// App owns one run: a fresh registry, the publish engine bound to it, and
// the unit set mounted from configuration.
type App struct {
	cfg      *config.Config
	snap     *env.Snapshot
	log      *logger.Logger
	registry *broker.Registry
	engine   *broker.Engine
	units    []task.Unit
	mounted  bool
}

// New assembles an App for the given configuration and environment snapshot.
func New(cfg *config.Config, snap *env.Snapshot, log *logger.Logger) *App {
	registry := broker.NewRegistry()
	engine := broker.NewEngine(registry, log)

	a := &App{
		cfg:      cfg,
		snap:     snap,
		log:      log,
		registry: registry,
		engine:   engine,
	}

	// Watch rebuilds reuse the same engine; failures inside a watch cycle
	// are development-time noise, not run failures.
	republish := func(ctx context.Context, hooks []string) {
		if len(hooks) == 0 {
			hooks = registry.Hooks(task.CategoryWorkers)
		}
		res, err := engine.Publish(ctx, task.CategoryWorkers, hooks)
		if err != nil {
			log.Error(err, "watch rebuild aborted")
			return
		}
		for _, name := range res.FailedUnits() {
			log.WithFields(map[string]any{"unit": name}).Error(res.Exceptions[name], "watch rebuild failed")
		}
	}

	a.units = []task.Unit{
		clean.New(log),
		styles.New(log),
		scripts.New(log),
		assets.New(log),
		server.New(log),
		watcher.New(log, republish),
	}

	return a
}

// Units replaces the default unit set. Must be called before Mount.
func (a *App) Units(units []task.Unit) {
	a.units = units
}

// Registry exposes the registry for introspection commands.
func (a *App) Registry() *broker.Registry {
	return a.registry
}

// Mount configures every unit and registers it, gated by the active run
// environment. Registration errors (duplicate names, bad unit config) are
// fatal: they describe a misconfigured system, not a runtime condition.
func (a *App) Mount() error {
	if a.mounted {
		return fmt.Errorf("units already mounted")
	}

	resolver := fsys.NewResolver(a.snap.SourceRoot)

	for _, unit := range a.units {
		uc, ok := a.cfg.Unit(unit.Name())
		if !ok {
			a.log.WithFields(map[string]any{"unit": unit.Name()}).Debug("no configuration block, mounting with defaults")
		}

		if err := unit.Configure(uc, a.snap, resolver); err != nil {
			return err
		}

		handler := task.Gate(a.log, unit.Name(), unit.Environments(), a.snap.RunEnv, unit.Run)
		if err := a.registry.Register(unit.Name(), unit.Hooks(), handler, unit.Category()); err != nil {
			return err
		}
	}

	a.mounted = true
	return nil
}

// Run drives the two publish cycles: workers for the requested tasks, then,
// gated by the activated switches, plugins. In any non-development
// environment a cycle with exceptions aborts the run before plugins start;
// in development exceptions are logged and the run continues.
func (a *App) Run(ctx context.Context, tasks []string, switches []string) (*report.Summary, error) {
	if !a.mounted {
		return nil, fmt.Errorf("units not mounted")
	}

	summary := report.NewSummary(a.cfg.Name)

	workerHooks := tasks
	if len(workerHooks) == 0 {
		workerHooks = intersect(a.registry.Hooks(task.CategoryWorkers), switches)
	}

	start := time.Now()
	workersRes, err := a.engine.Publish(ctx, task.CategoryWorkers, workerHooks)
	if err != nil {
		return summary, err
	}
	summary.AddCycle(task.CategoryWorkers, workersRes, time.Since(start))

	if workersRes.Failed() {
		if !a.snap.Development() {
			return summary, fmt.Errorf("%d worker(s) failed in %s environment", len(workersRes.Exceptions), a.snap.RunEnv)
		}
		for _, name := range workersRes.FailedUnits() {
			a.log.WithFields(map[string]any{"unit": name}).Warn("worker failed, continuing in development")
		}
	}

	pluginHooks := intersect(a.registry.Hooks(task.CategoryPlugins), switches)
	if len(pluginHooks) == 0 {
		a.log.Debug("no plugin hooks activated, skipping plugins cycle")
		return summary, nil
	}

	start = time.Now()
	pluginsRes, err := a.engine.Publish(ctx, task.CategoryPlugins, pluginHooks)
	if err != nil {
		return summary, err
	}
	summary.AddCycle(task.CategoryPlugins, pluginsRes, time.Since(start))

	if pluginsRes.Failed() && !a.snap.Development() {
		return summary, fmt.Errorf("%d plugin(s) failed in %s environment", len(pluginsRes.Exceptions), a.snap.RunEnv)
	}
	for _, name := range pluginsRes.FailedUnits() {
		a.log.WithFields(map[string]any{"unit": name}).Warn("plugin failed, continuing in development")
	}

	return summary, nil
}

func intersect(hooks, switches []string) []string {
	on := make(map[string]struct{}, len(switches))
	for _, s := range switches {
		on[s] = struct{}{}
	}

	var out []string
	for _, hook := range hooks {
		if _, ok := on[hook]; ok {
			out = append(out, hook)
		}
	}
	sort.Strings(out)
	return out
}
