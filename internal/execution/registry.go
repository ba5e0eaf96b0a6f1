package execution

import (
	"fmt"
	"log/slog"
	"sort"
)

// Registry maps runtime names to their Runtime implementations.
// Registration happens at startup before concurrent access, so no mutex is needed.
type Registry struct {
	runtimes map[string]Runtime
	logger   *slog.Logger
}

// NewRegistry creates an empty Registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		runtimes: make(map[string]Runtime),
		logger:   logger.With("component", "runtime-registry"),
	}
}

// Register adds a Runtime to the registry, keyed by its Name().
func (r *Registry) Register(rt Runtime) {
	name := rt.Name()
	r.runtimes[name] = rt
	r.logger.Debug("runtime registered", "runtime", name)
}

// Get returns the Runtime for the given name or an error if none is registered.
func (r *Registry) Get(name string) (Runtime, error) {
	rt, ok := r.runtimes[name]
	if !ok {
		return nil, fmt.Errorf("no runtime registered for %q", name)
	}
	return rt, nil
}

// Names returns the registered runtime names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.runtimes))
	for n := range r.runtimes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
