package broker

import (
	"context"
	"sort"
	"sync"

	"github.com/masonbuild/mason/internal/logger"
	"github.com/masonbuild/mason/internal/task"
)

// Result aggregates one publish cycle. Completed holds the names of units
// that signaled success; Exceptions maps a failed unit's name to its failure
// detail. A unit name appears in exactly one of the two, at most once, even
// when it was reachable through several requested hooks.
type Result struct {
	Completed  []string
	Exceptions map[string]error
}

func newResult() *Result {
	return &Result{Exceptions: make(map[string]error)}
}

// Failed reports whether any matched unit signaled failure.
func (r *Result) Failed() bool {
	return len(r.Exceptions) > 0
}

// Empty reports whether the cycle matched no units at all.
func (r *Result) Empty() bool {
	return len(r.Completed) == 0 && len(r.Exceptions) == 0
}

// FailedUnits lists the names in Exceptions, sorted.
func (r *Result) FailedUnits() []string {
	names := make([]string, 0, len(r.Exceptions))
	for name := range r.Exceptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Engine resolves a publish request against the registry, runs every matched
// subscription concurrently, and joins on settlement of all of them.
type Engine struct {
	registry *Registry
	logger   *logger.Logger
}

// NewEngine creates a publish engine bound to a registry.
func NewEngine(registry *Registry, log *logger.Logger) *Engine {
	return &Engine{registry: registry, logger: log}
}

// Publish runs one cycle for the category and requested hook names.
//
// Unit failures are data in the result, never an error. The returned error is
// non-nil only for contract violations: a unit settling its signal twice
// within the cycle. The call does not return until every matched unit has
// settled; a unit that never signals stalls the cycle indefinitely (bounding
// run time is the caller's concern, via the context handed to handlers).
func (e *Engine) Publish(ctx context.Context, category task.Category, requested []string) (*Result, error) {
	result := newResult()

	if len(requested) == 0 {
		e.logger.WithFields(map[string]any{"category": category}).Debug("publish requested with no hooks")
		return result, nil
	}

	matched, unmatched := e.registry.Resolve(category, requested)
	for _, hook := range unmatched {
		e.logger.WithFields(map[string]any{
			"category": category,
			"hook":     hook,
		}).Warn("no unit responds to hook")
	}
	if len(matched) == 0 {
		return result, nil
	}

	var violationsMu sync.Mutex
	var violations []error
	recordViolation := func(err error) {
		e.logger.Error(err, "completion contract violated")
		violationsMu.Lock()
		violations = append(violations, err)
		violationsMu.Unlock()
	}

	outcomes := make([]error, len(matched))
	var wg sync.WaitGroup

	for i, sub := range matched {
		sig := task.NewSignal(sub.Name, recordViolation)

		e.logger.WithFields(map[string]any{
			"category": category,
			"unit":     sub.Name,
		}).Debug("publishing to unit")

		wg.Add(1)
		go func(i int, sub *Subscription, sig *task.Signal) {
			defer wg.Done()

			// The handler may hand work to its own goroutines and return
			// early; the cycle joins on the signal, not on the call.
			sub.Handler(ctx, sig)
			<-sig.Done()
			outcomes[i] = sig.Err()
		}(i, sub, sig)
	}

	wg.Wait()

	for i, sub := range matched {
		if err := outcomes[i]; err != nil {
			result.Exceptions[sub.Name] = err
			continue
		}
		result.Completed = append(result.Completed, sub.Name)
	}

	violationsMu.Lock()
	defer violationsMu.Unlock()
	if len(violations) > 0 {
		return result, violations[0]
	}

	return result, nil
}
