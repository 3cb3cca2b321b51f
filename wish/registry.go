package wish

import (
	"context"
	"sync"

	"gjinn/core"
)

// Registry hands out one Manager per user, creating and loading it on
// first use. Managers live for the lifetime of the process.
type Registry struct {
	store    Store
	gen      core.Generator
	notifier Notifier
	opts     Options

	mu       sync.Mutex
	managers map[string]*Manager
}

// NewRegistry wires the shared collaborators every per-user manager gets.
func NewRegistry(store Store, gen core.Generator, notifier Notifier, opts Options) *Registry {
	return &Registry{
		store:    store,
		gen:      gen,
		notifier: notifier,
		opts:     opts,
		managers: make(map[string]*Manager),
	}
}

// ForUser returns the user's manager, loading stored state the first time.
func (r *Registry) ForUser(ctx context.Context, userID string) *Manager {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m, ok := r.managers[userID]; ok {
		return m
	}
	m := NewManager(userID, r.store, r.gen, r.notifier, r.opts)
	m.Load(ctx)
	r.managers[userID] = m
	return m
}
