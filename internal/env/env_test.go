package env

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/masonbuild/mason/internal/config"
)

func TestNewSnapshotDefaults(t *testing.T) {
	snap := NewSnapshot(&config.Config{
		Paths: config.Paths{Source: "src", Dest: "dist"},
	})

	require.Equal(t, Development, snap.RunEnv)
	require.True(t, snap.Development())
	require.Equal(t, "src", snap.SourceRoot)
	require.Equal(t, "dist", snap.DestRoot)
	require.Equal(t, 8080, snap.Port)
}

func TestNewSnapshotUsesConfiguredValues(t *testing.T) {
	snap := NewSnapshot(&config.Config{
		Environment: Production,
		Paths:       config.Paths{Source: "assets", Dest: "public"},
		Server:      config.Server{Port: 3000},
	})

	require.Equal(t, Production, snap.RunEnv)
	require.False(t, snap.Development())
	require.Equal(t, 3000, snap.Port)
}

func TestNewSnapshotEnvVarOverride(t *testing.T) {
	t.Setenv(EnvVar, Staging)

	snap := NewSnapshot(&config.Config{
		Environment: Development,
		Paths:       config.Paths{Source: "src", Dest: "dist"},
	})

	require.Equal(t, Staging, snap.RunEnv)
	require.False(t, snap.Development())
}
