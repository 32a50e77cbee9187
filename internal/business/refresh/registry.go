package refresh

import (
	"context"
	"sort"
	"sync"
)

// Registry holds the cancel functions of running pollers, keyed by name,
// so a poller can be stopped individually or all at once on shutdown.
type Registry struct {
	mu      sync.RWMutex
	cancels map[string]context.CancelFunc
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		cancels: make(map[string]context.CancelFunc),
	}
}

// Register stores the cancel function for name. A poller already registered
// under the same name is cancelled first.
func (r *Registry) Register(name string, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.cancels[name]; ok {
		prev()
	}
	r.cancels[name] = cancel
}

// Cancel stops the named poller. Returns true if it was running.
func (r *Registry) Cancel(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cancel, ok := r.cancels[name]; ok {
		cancel()
		delete(r.cancels, name)
		return true
	}
	return false
}

// Unregister forgets name without cancelling it.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.cancels, name)
}

// IsRunning reports whether name is registered.
func (r *Registry) IsRunning(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.cancels[name]
	return ok
}

// Names lists registered pollers in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.cancels))
	for name := range r.cancels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CancelAll stops every registered poller.
func (r *Registry) CancelAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, cancel := range r.cancels {
		cancel()
		delete(r.cancels, name)
	}
}
