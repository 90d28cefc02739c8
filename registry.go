package umock

import "github.com/ntoll/umock/internal/core"

// NewRegistry creates an empty, isolated namespace registry.
func NewRegistry() *Registry {
	return core.NewRegistry()
}

// DefaultRegistry returns the process-wide registry that package-level
// registration and NewPatch use by default.
func DefaultRegistry() *Registry {
	return core.DefaultRegistry()
}

// Register adds a patchable namespace to the default registry under the
// given module path. Containers may be map[string]any, a struct pointer
// with exported fields, or a *Mock.
func Register(modulePath string, container any) error {
	return core.DefaultRegistry().Register(modulePath, container)
}

// MustRegister is Register that panics on error, for package init blocks.
func MustRegister(modulePath string, container any) {
	core.DefaultRegistry().MustRegister(modulePath, container)
}

// Deregister removes a namespace from the default registry.
func Deregister(modulePath string) {
	core.DefaultRegistry().Deregister(modulePath)
}

// ClearRegistry removes every namespace from the default registry. Test
// hygiene for suites that register per-test namespaces.
func ClearRegistry() {
	core.DefaultRegistry().Clear()
}

// ResolveTarget resolves a "module-path:attribute-chain" descriptor
// against the default registry.
func ResolveTarget(descriptor string) (*TargetHandle, error) {
	return core.DefaultRegistry().ResolveTarget(descriptor)
}
