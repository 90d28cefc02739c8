// Package umock provides a small mock/patch library for Go tests: mocks
// that record how they are used, and patches that swap a registered target
// for the duration of a test and guarantee its restoration.
//
// This is the public API entry point. Implementation lives in internal/core.
package umock

import (
	"github.com/ntoll/umock/internal/core"
)

// Mock is a callable, attribute-bearing stand-in object that records
// invocations and whose response is configurable.
type Mock = core.Mock

// Call is the recorded arguments of a single invocation of a Mock.
type Call = core.Call

// CallFunc is a callable side effect: it receives the recorded call and
// its result becomes the mock's return value for that call.
type CallFunc = core.CallFunc

// Option configures a Mock under construction.
type Option = core.Option

// Patch is a temporary, restorable substitution of one registered
// location's value.
type Patch = core.Patch

// PatchOption configures a Patch under construction.
type PatchOption = core.PatchOption

// RestoreFailure is the panic value raised when a patched function panicked
// and restoring the original value failed too; Cause holds the function's
// original panic value.
type RestoreFailure = core.RestoreFailure

// Registry maps module paths to patchable namespaces.
type Registry = core.Registry

// TargetHandle is a resolved patch target: one readable, writable slot.
type TargetHandle = core.TargetHandle

// Matcher defines the interface for flexible value matching.
type Matcher = core.Matcher

// TestReporter is the minimal interface umock needs from test frameworks.
type TestReporter = core.TestReporter

// Sentinel errors, re-exported from internal/core.
var (
	ErrAttributeNotInSpec = core.ErrAttributeNotInSpec
	ErrSequenceExhausted  = core.ErrSequenceExhausted
	ErrBadSideEffect      = core.ErrBadSideEffect
	ErrMalformedTarget    = core.ErrMalformedTarget
	ErrTargetNotFound     = core.ErrTargetNotFound
	ErrTargetWrite        = core.ErrTargetWrite
	ErrAlreadyRegistered  = core.ErrAlreadyRegistered
	ErrPatchActive        = core.ErrPatchActive
	ErrPatchNotActive     = core.ErrPatchNotActive
)

// New creates a Mock configured by the given options.
func New(options ...Option) *Mock {
	return core.New(options...)
}

// WithSpec restricts a mock to an explicit allow-list of attribute names.
func WithSpec(names ...string) Option {
	return core.WithSpec(names...)
}

// WithSpecOf restricts a mock to the exported members of a sample object
// and records the sample's type as the mock's declared type.
func WithSpecOf(sample any) Option {
	return core.WithSpecOf(sample)
}

// WithReturnValue sets the default result of calling a mock.
func WithReturnValue(value any) Option {
	return core.WithReturnValue(value)
}

// WithSideEffect configures a mock's side effect: an error to return, a
// []any sequence to yield from, or a callable.
func WithSideEffect(configured any) Option {
	return core.WithSideEffect(configured)
}

// WithAttr stores a plain attribute on a mock.
func WithAttr(name string, value any) Option {
	return core.WithAttr(name, value)
}

// NewCall builds a Call record from positional arguments, for use as an
// expectation in the assertion helpers.
func NewCall(args ...any) Call {
	return core.NewCall(args...)
}

// NewCallKw builds a Call record from keyword and positional arguments.
func NewCallKw(kwargs map[string]any, args ...any) Call {
	return core.NewCallKw(kwargs, args...)
}

// NewPatch creates an inactive patch for the given target descriptor.
func NewPatch(target string, options ...PatchOption) *Patch {
	return core.NewPatch(target, options...)
}

// WithReplacement installs an explicit substitute instead of an
// auto-created Mock.
func WithReplacement(value any) PatchOption {
	return core.WithReplacement(value)
}

// WithMockOptions forwards options to the Mock auto-created when no
// explicit replacement is given.
func WithMockOptions(options ...Option) PatchOption {
	return core.WithMockOptions(options...)
}

// WithRegistry resolves a patch target against the given registry instead
// of the process-wide default.
func WithRegistry(registry *Registry) PatchOption {
	return core.WithRegistry(registry)
}

// IsInstanceOf reports whether value conforms to the sample's type,
// honoring a mock's declared type. Use this instead of a type assertion
// when the value may be a spec'd mock.
func IsInstanceOf(value, sample any) bool {
	return core.IsInstanceOf(value, sample)
}

// Any returns a matcher that matches any value.
func Any() Matcher {
	return core.Any()
}

// Satisfies returns a matcher that uses a predicate function to check for
// a match.
func Satisfies[T any](predicate func(T) error) Matcher {
	return core.Satisfies(predicate)
}

// MatchValue checks if actual matches expected.
func MatchValue(actual, expected any) (bool, string) {
	return core.MatchValue(actual, expected)
}
