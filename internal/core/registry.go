package core

import (
	"errors"
	"fmt"
)

// ErrAlreadyRegistered signals a duplicate namespace registration.
var ErrAlreadyRegistered = errors.New("namespace already registered")

// Registry maps module paths to patchable namespaces. Go has no live
// module table to reflect over, so anything a Patch should reach must be
// registered up front: a map[string]any of named slots, a pointer to a
// struct with exported fields, or a *Mock.
type Registry struct {
	namespaces map[string]any
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{namespaces: map[string]any{}}
}

// defaultRegistry backs the package-level registration functions. Tests
// that want isolation can carry their own Registry instead.
//
//nolint:gochecknoglobals // a process-wide namespace table is the point
var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register adds a namespace under the given module path.
func (r *Registry) Register(modulePath string, container any) error {
	if _, exists := r.namespaces[modulePath]; exists {
		return fmt.Errorf("%w: %q", ErrAlreadyRegistered, modulePath)
	}

	r.namespaces[modulePath] = container

	return nil
}

// MustRegister is Register that panics on error, for package init blocks.
func (r *Registry) MustRegister(modulePath string, container any) {
	if err := r.Register(modulePath, container); err != nil {
		panic(err)
	}
}

// Deregister removes a namespace. Removing an unknown path is a no-op.
func (r *Registry) Deregister(modulePath string) {
	delete(r.namespaces, modulePath)
}

// Clear removes every namespace. Test hygiene for suites that share the
// default registry.
func (r *Registry) Clear() {
	r.namespaces = map[string]any{}
}

// lookup returns the namespace registered under the module path.
func (r *Registry) lookup(modulePath string) (any, bool) {
	container, ok := r.namespaces[modulePath]
	return container, ok
}
