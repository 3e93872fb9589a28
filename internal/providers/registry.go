package providers

import (
	"fmt"
	"log/slog"
	"sync"
)

// Registry holds the configured providers and tracks which one is active.
// It is safe for concurrent use; config reloads swap providers at runtime.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Provider
	active string
	logger *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]Provider),
		logger: slog.Default(),
	}
}

// SetLogger sets the logger used for registry events.
func (r *Registry) SetLogger(log *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if log != nil {
		r.logger = log
	}
}

// Register adds or replaces a provider. The first registered provider
// becomes active.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName[p.Name()] = p
	if r.active == "" {
		r.active = p.Name()
	}
	r.logger.Info("registered provider", "name", p.Name())
}

// SetActive selects the provider used for processing.
func (r *Registry) SetActive(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byName[name]; !ok {
		return fmt.Errorf("unknown provider %q", name)
	}
	r.active = name
	return nil
}

// Active returns the active provider, or nil if none is registered.
func (r *Registry) Active() Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byName[r.active]
}

// Get returns a provider by name.
func (r *Registry) Get(name string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byName[name]
	return p, ok
}

// List returns the registered provider names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	return names
}
