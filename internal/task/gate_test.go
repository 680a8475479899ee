package task

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/masonbuild/mason/internal/env"
)

func TestGateEmptyAllowedPassesThrough(t *testing.T) {
	t.Parallel()

	invoked := false
	handler := func(_ context.Context, sig *Signal) {
		invoked = true
		sig.Resolve()
	}

	gated := Gate(nil, "styles", nil, env.Production, handler)
	sig := NewSignal("styles", nil)
	gated(context.Background(), sig)

	<-sig.Done()
	require.True(t, invoked)
}

func TestGateMatchingEnvironmentPassesThrough(t *testing.T) {
	t.Parallel()

	invoked := false
	handler := func(_ context.Context, sig *Signal) {
		invoked = true
		sig.Resolve()
	}

	gated := Gate(nil, "server", []string{env.Development}, env.Development, handler)
	sig := NewSignal("server", nil)
	gated(context.Background(), sig)

	<-sig.Done()
	require.True(t, invoked)
}

func TestGateSuppressesUnitOutsideEnvironment(t *testing.T) {
	t.Parallel()

	invoked := false
	handler := func(_ context.Context, sig *Signal) {
		invoked = true
		sig.Reject(nil)
	}

	gated := Gate(nil, "server", []string{env.Development}, env.Production, handler)
	sig := NewSignal("server", nil)
	gated(context.Background(), sig)

	// The stub resolves immediately and never runs the unit.
	<-sig.Done()
	require.False(t, invoked)
	require.NoError(t, sig.Err())
}
