package core

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrAttributeNotInSpec signals access to an attribute outside a
// spec-constrained mock's allowed set.
var ErrAttributeNotInSpec = errors.New("attribute not in mock spec")

// reservedNames are structural method names excluded when deriving a spec
// from a sample object. They come from fmt and the encoding interfaces and
// carry no meaning as mockable collaborator surface.
var reservedNames = map[string]struct{}{
	"String":          {},
	"GoString":        {},
	"Error":           {},
	"Format":          {},
	"MarshalJSON":     {},
	"UnmarshalJSON":   {},
	"MarshalText":     {},
	"UnmarshalText":   {},
	"MarshalBinary":   {},
	"UnmarshalBinary": {},
}

// specGuard decides whether a requested attribute name is permitted, and
// carries the type identity the mock should report. A nil allowed set means
// the mock is unrestricted.
type specGuard struct {
	allowed      map[string]struct{}
	declaredType reflect.Type
}

// specFromNames builds a guard from an explicit allow-list.
func specFromNames(names []string) *specGuard {
	allowed := make(map[string]struct{}, len(names))
	for _, name := range names {
		allowed[name] = struct{}{}
	}

	return &specGuard{allowed: allowed}
}

// specFromSample builds a guard by enumerating a sample object's exported
// members: method names (through the pointer type, so both receiver kinds
// are seen) and struct field names, minus the reserved denylist. The
// sample's type becomes the mock's declared type.
func specFromSample(sample any) *specGuard {
	sampleType := reflect.TypeOf(sample)
	allowed := map[string]struct{}{}

	methodType := sampleType
	if methodType.Kind() != reflect.Pointer {
		methodType = reflect.PointerTo(methodType)
	}

	for i := 0; i < methodType.NumMethod(); i++ {
		name := methodType.Method(i).Name
		if _, reserved := reservedNames[name]; !reserved {
			allowed[name] = struct{}{}
		}
	}

	structType := sampleType
	if structType.Kind() == reflect.Pointer {
		structType = structType.Elem()
	}

	if structType.Kind() == reflect.Struct {
		for i := 0; i < structType.NumField(); i++ {
			field := structType.Field(i)
			if field.IsExported() {
				allowed[field.Name] = struct{}{}
			}
		}
	}

	return &specGuard{allowed: allowed, declaredType: sampleType}
}

// check returns an error when the guard restricts access and the name is
// not in the allowed set.
func (g *specGuard) check(name string) error {
	if g == nil || g.allowed == nil {
		return nil
	}

	if _, ok := g.allowed[name]; !ok {
		return fmt.Errorf("%w: %q", ErrAttributeNotInSpec, name)
	}

	return nil
}

// IsInstanceOf reports whether value conforms to the sample's type. For a
// *Mock it consults the declared type recorded by WithSpecOf; anything else
// is compared on runtime type. This is the explicit conformance check the
// testing framework must use instead of a type assertion - Go's own type
// identity cannot be spoofed by a mock.
func IsInstanceOf(value, sample any) bool {
	want := reflect.TypeOf(sample)

	if mock, ok := value.(*Mock); ok {
		return mock.Type() == want
	}

	return reflect.TypeOf(value) == want
}
