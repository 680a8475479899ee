package broker

import (
	"sort"
	"sync"

	"github.com/masonbuild/mason/internal/task"
	masonerrors "github.com/masonbuild/mason/pkg/errors"
)

// Subscription is one registered unit of work: a canonical name, the hook
// names it responds to (always including its own name), its handler, and the
// registry partition it belongs to. Subscriptions are created once at mount
// time and never removed.
type Subscription struct {
	Name     string
	Hooks    []string
	Handler  task.Handler
	Category task.Category
}

func (s *Subscription) respondsTo(hook string) bool {
	for _, h := range s.Hooks {
		if h == hook {
			return true
		}
	}
	return false
}

// Registry maps hook names to the subscriptions that respond to them,
// partitioned by category. It is mutated only during the mount phase and
// read-only once publishing begins; the lock exists for the mount phase and
// for concurrent reads from the watcher plugin's republish path.
type Registry struct {
	mu    sync.RWMutex
	subs  map[task.Category][]*Subscription
	names map[task.Category]map[string]struct{}
}

// NewRegistry returns an empty registry. Each coordinator owns its own value;
// there is no process-wide instance.
func NewRegistry() *Registry {
	return &Registry{
		subs:  make(map[task.Category][]*Subscription),
		names: make(map[task.Category]map[string]struct{}),
	}
}

// Register adds a subscription under the unit's name plus the supplied hook
// aliases. Registering a name twice within one category fails with a
// DuplicateNameError: two units claiming the same identity is a mount-time
// misconfiguration, never silently overwritten.
func (r *Registry) Register(name string, hooks []string, handler task.Handler, category task.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	taken, ok := r.names[category]
	if !ok {
		taken = make(map[string]struct{})
		r.names[category] = taken
	}
	if _, exists := taken[name]; exists {
		return masonerrors.NewDuplicateNameError(name, string(category))
	}

	sub := &Subscription{
		Name:     name,
		Hooks:    dedupeHooks(name, hooks),
		Handler:  handler,
		Category: category,
	}

	taken[name] = struct{}{}
	r.subs[category] = append(r.subs[category], sub)
	return nil
}

// Resolve returns the deduplicated subscriptions in category whose hooks
// intersect the requested set, in registration order, together with the
// requested hooks that matched nothing. An unmatched hook is informational,
// not an error.
func (r *Registry) Resolve(category task.Category, requested []string) ([]*Subscription, []string) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*Subscription
	seen := make(map[string]struct{})
	var unmatched []string

	for _, hook := range requested {
		hit := false
		for _, sub := range r.subs[category] {
			if !sub.respondsTo(hook) {
				continue
			}
			hit = true
			if _, dup := seen[sub.Name]; dup {
				continue
			}
			seen[sub.Name] = struct{}{}
			matched = append(matched, sub)
		}
		if !hit {
			unmatched = append(unmatched, hook)
		}
	}

	// Keep registration order regardless of request order.
	sort.SliceStable(matched, func(i, j int) bool {
		return r.position(category, matched[i]) < r.position(category, matched[j])
	})

	return matched, unmatched
}

// Names lists the registered unit names in a category, sorted.
func (r *Registry) Names(category task.Category) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.subs[category]))
	for _, sub := range r.subs[category] {
		names = append(names, sub.Name)
	}
	sort.Strings(names)
	return names
}

// Hooks returns the union of hook names declared in a category, sorted.
func (r *Registry) Hooks(category task.Category) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := make(map[string]struct{})
	for _, sub := range r.subs[category] {
		for _, hook := range sub.Hooks {
			set[hook] = struct{}{}
		}
	}

	hooks := make([]string, 0, len(set))
	for hook := range set {
		hooks = append(hooks, hook)
	}
	sort.Strings(hooks)
	return hooks
}

// HooksFor returns the hook set of the named subscription, or nil when the
// name is not registered in the category.
func (r *Registry) HooksFor(category task.Category, name string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, sub := range r.subs[category] {
		if sub.Name == name {
			return append([]string(nil), sub.Hooks...)
		}
	}
	return nil
}

func (r *Registry) position(category task.Category, sub *Subscription) int {
	for i, candidate := range r.subs[category] {
		if candidate == sub {
			return i
		}
	}
	return len(r.subs[category])
}

func dedupeHooks(name string, hooks []string) []string {
	out := []string{name}
	seen := map[string]struct{}{name: {}}
	for _, hook := range hooks {
		if _, dup := seen[hook]; dup {
			continue
		}
		seen[hook] = struct{}{}
		out = append(out, hook)
	}
	return out
}
