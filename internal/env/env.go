package env

import (
	"os"

	"github.com/masonbuild/mason/internal/config"
)

// Run environment identifiers. The active environment controls failure
// strictness and which units are eligible to run at all.
const (
	Development = "development"
	Staging     = "staging"
	Production  = "production"
)

// EnvVar overrides the configured run environment when set.
const EnvVar = "MASON_ENV"

const defaultPort = 8080

// Snapshot is the immutable, process-wide environment description. It is
// loaded once before any unit is mounted and never mutated afterwards.
type Snapshot struct {
	RunEnv     string
	SourceRoot string
	DestRoot   string
	Port       int
}

// NewSnapshot derives a snapshot from the parsed configuration, applying the
// MASON_ENV override and defaults.
func NewSnapshot(cfg *config.Config) *Snapshot {
	snap := &Snapshot{
		RunEnv: Development,
		Port:   defaultPort,
	}

	if cfg != nil {
		if cfg.Environment != "" {
			snap.RunEnv = cfg.Environment
		}
		snap.SourceRoot = cfg.Paths.Source
		snap.DestRoot = cfg.Paths.Dest
		if cfg.Server.Port > 0 {
			snap.Port = cfg.Server.Port
		}
	}

	if override := os.Getenv(EnvVar); override != "" {
		snap.RunEnv = override
	}

	return snap
}

// Development reports whether the snapshot describes a development run, the
// only environment with a lenient failure policy.
func (s *Snapshot) Development() bool {
	return s != nil && s.RunEnv == Development
}
