package ceed

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// InitFunc initializes a freshly allocated Context for resource. It may mark the
// Context deterministic, attach backend data, create and attach a delegate, and
// fill the dispatch table.
type InitFunc func(resource string, c *Ceed) error

// Entry is one registered backend.
type Entry struct {
	Prefix   string
	Init     InitFunc
	Priority int
}

// Registry is an append-only list of backends. A process usually owns one,
// populated during startup before the first Init call.
type Registry struct {
	mu      sync.RWMutex
	entries []Entry

	sep    string
	depth  int
	logger *slog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRootSeparator sets the text that separates a resource from its options.
func WithRootSeparator(sep string) RegistryOption {
	return func(r *Registry) { r.sep = sep }
}

// WithRootDepth sets how many leading path segments form a resource root.
// A depth of zero or less compares full resource bases.
func WithRootDepth(depth int) RegistryOption {
	return func(r *Registry) { r.depth = depth }
}

// WithLogger sets the logger used by the registry and every Context it creates.
func WithLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) { r.logger = logger }
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		sep:    DefaultRootSeparator,
		depth:  DefaultRootDepth,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Logger returns the registry logger.
func (r *Registry) Logger() *slog.Logger {
	return r.logger
}

// Register appends a backend. Registering a prefix twice fails with
// ErrDuplicateRegistration and leaves the first entry in place.
func (r *Registry) Register(prefix string, init InitFunc, priority int) error {
	if prefix == "" {
		return fmt.Errorf("register: %w: empty prefix", ErrInvalidResource)
	}
	if init == nil {
		return fmt.Errorf("register %q: nil init function", prefix)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if e.Prefix == prefix {
			return fmt.Errorf("register %q: %w", prefix, ErrDuplicateRegistration)
		}
	}
	r.entries = append(r.entries, Entry{Prefix: prefix, Init: init, Priority: priority})
	r.logger.Debug("Registered backend.", "prefix", prefix, "priority", priority)
	return nil
}

// Entries returns a snapshot of the registered backends in registration order.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Root returns the root of resource under this registry's grammar.
func (r *Registry) Root(resource string) string {
	return ResourceRoot(resource, r.sep, r.depth)
}

// Base returns resource without its option suffix.
func (r *Registry) Base(resource string) string {
	return ResourceBase(resource, r.sep)
}

// Options parses the option suffix of resource.
func (r *Registry) Options(resource string) (map[string]string, error) {
	return ParseResourceOptions(resource, r.sep)
}

// Resolve selects the backend for resource. Entries whose prefix has the same
// root as resource are candidates. If some candidates equal the resource base or
// extend it by whole path segments, only those compete. The highest priority
// wins and ties go to the earliest registration.
func (r *Registry) Resolve(resource string) (Entry, error) {
	root := r.Root(resource)
	base := r.Base(resource)

	r.mu.RLock()
	defer r.mu.RUnlock()

	best, bestNarrow := -1, -1
	for i, e := range r.entries {
		if r.Root(e.Prefix) != root {
			continue
		}
		if best < 0 || e.Priority > r.entries[best].Priority {
			best = i
		}
		if e.Prefix == base || strings.HasPrefix(e.Prefix, base+"/") {
			if bestNarrow < 0 || e.Priority > r.entries[bestNarrow].Priority {
				bestNarrow = i
			}
		}
	}
	if bestNarrow >= 0 {
		return r.entries[bestNarrow], nil
	}
	if best < 0 {
		return Entry{}, fmt.Errorf("resolve %q (root %q): %w", resource, root, ErrBackendNotFound)
	}
	return r.entries[best], nil
}

// Init resolves resource and creates a Context with the selected backend.
func (r *Registry) Init(resource string) (*Ceed, error) {
	return r.init(resource, nil)
}

func (r *Registry) init(resource string, parent *Ceed) (*Ceed, error) {
	entry, err := r.Resolve(resource)
	if err != nil {
		return nil, err
	}

	for p := parent; p != nil && !p.sealed; p = p.parent {
		if p.backend == entry.Prefix {
			return nil, fmt.Errorf("init %q: backend %q is already initializing: %w", resource, entry.Prefix, ErrDelegateCycle)
		}
	}

	c := newCeed(r, resource, entry.Prefix, parent)
	if err := entry.Init(resource, c); err != nil {
		c.parent = nil
		if derr := c.Destroy(); derr != nil {
			r.logger.Warn("Cleanup after failed init.", "ceed_id", c.id, "error", derr)
		}
		return nil, err
	}
	c.parent = nil
	c.sealed = true

	r.logger.Debug("Context created.", "ceed_id", c.id, "resource", resource, "backend", entry.Prefix)
	return c, nil
}
