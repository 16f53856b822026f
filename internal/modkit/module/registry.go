package module

import "sync"

// Registry maps module names to their port sets during bootstrap
type Registry struct {
	mu  sync.RWMutex
	reg map[string]any
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry { return &Registry{reg: map[string]any{}} }

// Register stores ports under name, replacing any previous value
func (r *Registry) Register(name string, ports any) {
	r.mu.Lock()
	r.reg[name] = ports
	r.mu.Unlock()
}

// Lookup returns the raw port set for name
func (r *Registry) Lookup(name string) (any, bool) {
	r.mu.RLock()
	v, ok := r.reg[name]
	r.mu.RUnlock()
	return v, ok
}

// Len returns how many modules registered ports
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.reg)
}

// PortsAs fetches and asserts the port set registered for name
func PortsAs[T any](r *Registry, name string) (T, bool) {
	var zero T
	v, ok := r.Lookup(name)
	if !ok {
		return zero, false
	}
	out, ok := v.(T)
	return out, ok
}
