package task

import (
	"context"

	"github.com/masonbuild/mason/internal/logger"
)

// Gate wraps handler with the unit's environment policy. The decision is made
// once, at mount time: outside its accepted environments the unit's handler
// is replaced with a stub that logs a skip notice and immediately resolves.
// Being inapplicable to an environment is never a failure.
func Gate(log *logger.Logger, name string, allowed []string, active string, handler Handler) Handler {
	if len(allowed) == 0 {
		return handler
	}

	for _, environment := range allowed {
		if environment == active {
			return handler
		}
	}

	return func(_ context.Context, sig *Signal) {
		log.WithFields(map[string]any{
			"unit":        name,
			"environment": active,
		}).Info("skipping unit: not enabled in this environment")
		sig.Resolve()
	}
}
