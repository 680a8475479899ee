// Package server implements the development HTTP server plugin: a static
// file server over the destination tree. It runs until the publish context is
// cancelled and resolves on clean shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/masonbuild/mason/internal/config"
	"github.com/masonbuild/mason/internal/env"
	"github.com/masonbuild/mason/internal/logger"
	"github.com/masonbuild/mason/internal/task"
)

const shutdownTimeout = 5 * time.Second

// Options is the unit's declarative options block.
type Options struct {
	Port int `yaml:"port"`
}

// Plugin serves the destination tree over HTTP.
type Plugin struct {
	log   *logger.Logger
	hooks []string
	dir   string
	port  int
}

// New creates the server plugin.
func New(log *logger.Logger) *Plugin {
	return &Plugin{log: log}
}

var _ task.Unit = (*Plugin)(nil)

func (p *Plugin) Name() string            { return "server" }
func (p *Plugin) Category() task.Category { return task.CategoryPlugins }
func (p *Plugin) Hooks() []string         { return p.hooks }

// Environments restricts the dev server to development runs; elsewhere the
// environment gate turns it into a succeeding no-op.
func (p *Plugin) Environments() []string { return []string{env.Development} }

// Configure stores the serving directory and port.
func (p *Plugin) Configure(cfg config.UnitConfig, snap *env.Snapshot, _ task.EntryResolver) error {
	p.hooks = cfg.Hook
	p.dir = snap.DestRoot
	p.port = snap.Port

	var opts Options
	if err := cfg.DecodeOptions(&opts); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if opts.Port > 0 {
		p.port = opts.Port
	}
	return nil
}

// Run serves until ctx is cancelled. A clean shutdown resolves; a listener
// failure rejects.
func (p *Plugin) Run(ctx context.Context, sig *task.Signal) {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
	}))
	r.Handle("/*", http.FileServer(http.Dir(p.dir)))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", p.port),
		Handler: r,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			p.log.WithFields(map[string]any{"unit": p.Name()}).Error(err, "server shutdown failed")
		}
	}()

	p.log.WithFields(map[string]any{
		"unit": p.Name(),
		"addr": srv.Addr,
		"dir":  p.dir,
	}).Info("development server listening")

	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		p.log.WithFields(map[string]any{"unit": p.Name()}).Error(err, "development server failed")
		sig.Reject(err)
		return
	}

	sig.Resolve()
}
