package server

import (
	"fmt"
	"sync"
)

// Registry keeps modules in registration order, keyed by name.
type Registry struct {
	mu     sync.RWMutex
	order  []Module
	byName map[string]Module
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Module)}
}

// Register adds m. Registering two modules with the same name is a
// programming error and panics, like registering an HTTP pattern twice.
func (r *Registry) Register(m Module) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := m.Name()
	if _, dup := r.byName[name]; dup {
		panic(fmt.Sprintf("server: module %q registered twice", name))
	}
	r.byName[name] = m
	r.order = append(r.order, m)
}

// Lookup returns the module registered under name.
func (r *Registry) Lookup(name string) (Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byName[name]
	return m, ok
}

// Modules returns a copy of the registered modules in registration order.
func (r *Registry) Modules() []Module {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Module(nil), r.order...)
}

// modules self-register here from their init functions
var globalRegistry = NewRegistry()

// Register adds a module to the process-wide registry.
func Register(m Module) {
	globalRegistry.Register(m)
}

// Modules returns the modules of the process-wide registry.
func Modules() []Module {
	return globalRegistry.Modules()
}

// ResetGlobalRegistry replaces the process-wide registry with an empty one.
// Tests use it to isolate registrations.
func ResetGlobalRegistry() {
	globalRegistry = NewRegistry()
}
