package core

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	// ErrMalformedTarget signals a target descriptor that does not follow
	// the "module-path:attribute-chain" grammar.
	ErrMalformedTarget = errors.New("malformed patch target")

	// ErrTargetNotFound signals a module path or attribute-chain segment
	// that does not resolve.
	ErrTargetNotFound = errors.New("patch target not found")

	// ErrTargetWrite signals a value that cannot be written into the
	// resolved slot.
	ErrTargetWrite = errors.New("cannot write patch target")
)

// TargetHandle is the result of resolving a target descriptor: the owner
// one segment before the end of the chain, plus the final attribute name.
// Read and Write operate on that single slot.
type TargetHandle struct {
	container any
	name      string
}

// ResolveTarget parses a "module-path:attr.chain" descriptor against the
// registry and walks the chain down to a read/write handle. Every
// intermediate segment must already exist.
func (r *Registry) ResolveTarget(descriptor string) (*TargetHandle, error) {
	modulePath, chain, found := strings.Cut(descriptor, ":")
	if !found || modulePath == "" || chain == "" {
		return nil, fmt.Errorf("%w: %q (want \"module-path:attribute-chain\")", ErrMalformedTarget, descriptor)
	}

	segments := strings.Split(chain, ".")
	for _, segment := range segments {
		if segment == "" {
			return nil, fmt.Errorf("%w: %q has an empty chain segment", ErrMalformedTarget, descriptor)
		}
	}

	container, ok := r.lookup(modulePath)
	if !ok {
		return nil, fmt.Errorf("%w: no namespace registered as %q", ErrTargetNotFound, modulePath)
	}

	for _, segment := range segments[:len(segments)-1] {
		next, err := walkAttr(container, segment)
		if err != nil {
			return nil, fmt.Errorf("resolving %q: %w", descriptor, err)
		}

		container = next
	}

	final := segments[len(segments)-1]

	// The final slot must exist before it can be patched.
	if _, err := getAttr(container, final); err != nil {
		return nil, fmt.Errorf("resolving %q: %w", descriptor, err)
	}

	return &TargetHandle{container: container, name: final}, nil
}

// Read returns the current value of the resolved slot.
func (h *TargetHandle) Read() (any, error) {
	return getAttr(h.container, h.name)
}

// Write replaces the value of the resolved slot.
func (h *TargetHandle) Write(value any) error {
	return setAttr(h.container, h.name, value)
}

// getAttr reads one named attribute from a namespace container.
func getAttr(container any, name string) (any, error) {
	switch c := container.(type) {
	case map[string]any:
		value, ok := c[name]
		if !ok {
			return nil, fmt.Errorf("%w: no entry %q", ErrTargetNotFound, name)
		}

		return value, nil
	case *Mock:
		value, err := c.Get(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTargetNotFound, err)
		}

		return value, nil
	}

	field, err := structField(container, name)
	if err != nil {
		return nil, err
	}

	return field.Interface(), nil
}

// walkAttr reads one intermediate segment during chain traversal. It is
// getAttr, except that struct-valued fields are handed on by address so a
// later Write lands on the registered object, not on a copy.
func walkAttr(container any, name string) (any, error) {
	switch container.(type) {
	case map[string]any, *Mock:
		return getAttr(container, name)
	}

	field, err := structField(container, name)
	if err != nil {
		return nil, err
	}

	if field.Kind() == reflect.Struct && field.CanAddr() {
		return field.Addr().Interface(), nil
	}

	return field.Interface(), nil
}

// setAttr writes one named attribute on a namespace container.
func setAttr(container any, name string, value any) error {
	switch c := container.(type) {
	case map[string]any:
		if _, ok := c[name]; !ok {
			return fmt.Errorf("%w: no entry %q", ErrTargetNotFound, name)
		}

		c[name] = value

		return nil
	case *Mock:
		if err := c.Set(name, value); err != nil {
			return fmt.Errorf("%w: %v", ErrTargetWrite, err)
		}

		return nil
	}

	field, err := structField(container, name)
	if err != nil {
		return err
	}

	if !field.CanSet() {
		return fmt.Errorf("%w: field %q is not settable (register a pointer)", ErrTargetWrite, name)
	}

	if value == nil {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}

	valueOf := reflect.ValueOf(value)
	if !valueOf.Type().AssignableTo(field.Type()) {
		return fmt.Errorf("%w: %T is not assignable to field %q (%s)", ErrTargetWrite, value, name, field.Type())
	}

	field.Set(valueOf)

	return nil
}

// structField resolves an exported field on a struct or struct pointer.
func structField(container any, name string) (reflect.Value, error) {
	value := reflect.ValueOf(container)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return reflect.Value{}, fmt.Errorf("%w: nil container for %q", ErrTargetNotFound, name)
		}

		value = value.Elem()
	}

	if value.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("%w: cannot traverse %T for %q", ErrTargetNotFound, container, name)
	}

	field := value.FieldByName(name)
	if !field.IsValid() {
		return reflect.Value{}, fmt.Errorf("%w: no field %q on %s", ErrTargetNotFound, name, value.Type())
	}

	return field, nil
}
