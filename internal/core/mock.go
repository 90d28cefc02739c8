package core

import (
	"fmt"
	"reflect"

	"github.com/akedrou/textdiff"
)

// TestReporter is the minimal interface umock needs from test frameworks.
type TestReporter interface {
	Helper()
	Fatalf(format string, args ...any)
}

// Mock is a callable, attribute-bearing stand-in object. It records every
// invocation, resolves results through an optional side effect, enforces an
// optional spec, and lazily materializes child mocks for attribute access.
//
// A Mock is not synchronized. Call recording, child creation, and
// configuration all assume a single writer, matching the cooperative
// execution model of a test body.
type Mock struct {
	guard       *specGuard
	returnValue any
	returnSet   bool
	effect      *sideEffect
	calls       []Call
	children    map[string]*Mock
	attrs       map[string]any
}

// Option configures a Mock under construction.
type Option func(*Mock)

// WithSpec restricts the mock to an explicit allow-list of attribute names.
func WithSpec(names ...string) Option {
	return func(m *Mock) {
		m.guard = specFromNames(names)
	}
}

// WithSpecOf restricts the mock to the exported members of a sample object
// and records the sample's type as the mock's declared type, so that
// IsInstanceOf checks against the sample succeed.
func WithSpecOf(sample any) Option {
	return func(m *Mock) {
		m.guard = specFromSample(sample)
	}
}

// WithReturnValue sets the default result of calling the mock.
func WithReturnValue(value any) Option {
	return func(m *Mock) {
		m.returnValue = value
		m.returnSet = true
	}
}

// WithSideEffect configures the mock's side effect: an error to return, a
// []any sequence to yield from, or a callable. Panics on an unsupported
// type - misconfiguration is a programmer error, caught at construction.
func WithSideEffect(configured any) Option {
	return func(m *Mock) {
		if err := m.SetSideEffect(configured); err != nil {
			panic(err)
		}
	}
}

// WithAttr stores a plain attribute on the mock. Plain attributes are not
// spec-checked at construction, and a stored attribute is returned ahead of
// the spec check on read.
func WithAttr(name string, value any) Option {
	return func(m *Mock) {
		m.attrs[name] = value
	}
}

// New creates a Mock configured by the given options.
func New(options ...Option) *Mock {
	mock := &Mock{
		children: map[string]*Mock{},
		attrs:    map[string]any{},
	}

	for _, option := range options {
		option(mock)
	}

	return mock
}

// Type returns the mock's declared type if a sample spec set one, else the
// mock's own runtime type.
func (m *Mock) Type() reflect.Type {
	if m.guard != nil && m.guard.declaredType != nil {
		return m.guard.declaredType
	}

	return reflect.TypeOf(m)
}

// Get resolves attribute access on the mock:
//  1. a stored plain attribute wins;
//  2. a spec-constrained mock rejects names outside its allowed set;
//  3. otherwise the named child mock is returned, created on first access.
//
// Repeated access to the same name returns the identical child.
func (m *Mock) Get(name string) (any, error) {
	if value, ok := m.attrs[name]; ok {
		return value, nil
	}

	if err := m.guard.check(name); err != nil {
		return nil, fmt.Errorf("mock has no attribute %q: %w", name, err)
	}

	child, ok := m.children[name]
	if !ok {
		child = New()
		m.children[name] = child
	}

	return child, nil
}

// Attr is the chaining form of Get. It panics when the spec denies the name
// or when the attribute holds a plain value rather than a mock - both are
// programmer errors at the call site.
func (m *Mock) Attr(name string) *Mock {
	value, err := m.Get(name)
	if err != nil {
		panic(err)
	}

	child, ok := value.(*Mock)
	if !ok {
		panic(fmt.Sprintf("attribute %q holds a plain value (%T), not a mock", name, value))
	}

	return child
}

// Set assigns a plain attribute, subject to the spec.
func (m *Mock) Set(name string, value any) error {
	if err := m.guard.check(name); err != nil {
		return fmt.Errorf("cannot set %q: %w", name, err)
	}

	m.attrs[name] = value

	return nil
}

// Delete removes a plain attribute, subject to the spec.
func (m *Mock) Delete(name string) error {
	if err := m.guard.check(name); err != nil {
		return fmt.Errorf("cannot delete %q: %w", name, err)
	}

	delete(m.attrs, name)

	return nil
}

// Call invokes the mock with positional arguments.
func (m *Mock) Call(args ...any) (any, error) {
	return m.CallKw(nil, args...)
}

// CallKw invokes the mock with keyword and positional arguments. The call
// is recorded unconditionally, before the side effect can fail. Resolution
// order: configured error, then sequence, then callable, then the default
// return value (lazily created as a fresh child mock if never set).
func (m *Mock) CallKw(kwargs map[string]any, args ...any) (any, error) {
	m.calls = append(m.calls, Call{Args: args, Kwargs: kwargs})

	if m.effect != nil {
		result, handled, err := m.effect.resolve(m.calls[len(m.calls)-1])
		if err != nil {
			return nil, err
		}

		if handled {
			return result, nil
		}
	}

	return m.ReturnValue(), nil
}

// MustCall invokes the mock and panics on a side-effect error. Intended for
// chained use inside generated proxies and helpers.
func (m *Mock) MustCall(args ...any) any {
	result, err := m.Call(args...)
	if err != nil {
		panic(err)
	}

	return result
}

// ReturnValue returns the mock's default call result, creating and caching
// a fresh unconfigured mock on first read if none was set. The created
// value keeps a stable identity for the mock's lifetime.
func (m *Mock) ReturnValue() any {
	if !m.returnSet {
		m.returnValue = New()
		m.returnSet = true
	}

	return m.returnValue
}

// SetReturnValue replaces the default call result.
func (m *Mock) SetReturnValue(value any) {
	m.returnValue = value
	m.returnSet = true
}

// SetSideEffect replaces the side effect. A nil value clears it.
func (m *Mock) SetSideEffect(configured any) error {
	if configured == nil {
		m.effect = nil
		return nil
	}

	effect, err := newSideEffect(configured)
	if err != nil {
		return err
	}

	m.effect = effect

	return nil
}

// ResetMock clears the recorded call history. Configuration - spec, return
// value, side effect, and cached children - is untouched.
func (m *Mock) ResetMock() {
	m.calls = nil
}

// CallCount returns the number of recorded calls.
func (m *Mock) CallCount() int {
	return len(m.calls)
}

// Called reports whether the mock was invoked at least once.
func (m *Mock) Called() bool {
	return len(m.calls) > 0
}

// CallArgs returns the most recent call, or false if there is none.
func (m *Mock) CallArgs() (Call, bool) {
	if len(m.calls) == 0 {
		return Call{}, false
	}

	return m.calls[len(m.calls)-1], true
}

// CallArgsList returns the recorded calls in invocation order. The returned
// slice is a copy; mutating it does not affect the history.
func (m *Mock) CallArgsList() []Call {
	list := make([]Call, len(m.calls))
	copy(list, m.calls)

	return list
}

// AssertCalled asserts that the mock was called at least once.
func (m *Mock) AssertCalled(t TestReporter) {
	t.Helper()

	if len(m.calls) == 0 {
		t.Fatalf("expected at least one call, but the mock was never called")
	}
}

// AssertCalledOnce asserts that the mock was called exactly once.
func (m *Mock) AssertCalledOnce(t TestReporter) {
	t.Helper()

	if len(m.calls) != 1 {
		t.Fatalf("expected exactly 1 call, got %d:\n%s", len(m.calls), formatCalls(m.calls))
	}
}

// AssertNeverCalled asserts that the mock was never called.
func (m *Mock) AssertNeverCalled(t TestReporter) {
	t.Helper()

	if len(m.calls) != 0 {
		t.Fatalf("expected no calls, got %d:\n%s", len(m.calls), formatCalls(m.calls))
	}
}

// AssertCalledWith asserts that the most recent call was made with the
// given positional arguments. Arguments may be Matchers.
func (m *Mock) AssertCalledWith(t TestReporter, args ...any) {
	t.Helper()
	m.assertLastCall(t, NewCall(args...))
}

// AssertCalledWithKw asserts that the most recent call was made with the
// given keyword and positional arguments. Arguments may be Matchers.
func (m *Mock) AssertCalledWithKw(t TestReporter, kwargs map[string]any, args ...any) {
	t.Helper()
	m.assertLastCall(t, NewCallKw(kwargs, args...))
}

func (m *Mock) assertLastCall(t TestReporter, expected Call) {
	t.Helper()

	if len(m.calls) == 0 {
		t.Fatalf("expected %s, but the mock was never called", expected)
		return
	}

	last := m.calls[len(m.calls)-1]

	if ok, reason := matchCall(last, expected); !ok {
		t.Fatalf("last call mismatch: %s\nexpected: %s\nactual:   %s", reason, expected, last)
	}
}

// AssertCalledOnceWith asserts a single recorded call with the given
// positional arguments.
func (m *Mock) AssertCalledOnceWith(t TestReporter, args ...any) {
	t.Helper()

	m.AssertCalledOnce(t)
	m.assertLastCall(t, NewCall(args...))
}

// AssertAnyCall asserts that some recorded call was made with the given
// positional arguments.
func (m *Mock) AssertAnyCall(t TestReporter, args ...any) {
	t.Helper()
	m.AssertAnyCallKw(t, nil, args...)
}

// AssertAnyCallKw asserts that some recorded call was made with the given
// keyword and positional arguments.
func (m *Mock) AssertAnyCallKw(t TestReporter, kwargs map[string]any, args ...any) {
	t.Helper()

	expected := NewCallKw(kwargs, args...)

	for _, call := range m.calls {
		if ok, _ := matchCall(call, expected); ok {
			return
		}
	}

	t.Fatalf("expected at least one %s\ncalls:\n%s", expected, formatCalls(m.calls))
}

// AssertHasCalls asserts that the expected calls appear in the history.
// With anyOrder false they must form an order-preserving, not necessarily
// contiguous, subsequence of the history. With anyOrder true each expected
// call must match a distinct record, anywhere in the history.
func (m *Mock) AssertHasCalls(t TestReporter, expected []Call, anyOrder bool) {
	t.Helper()

	if anyOrder {
		m.assertHasCallsAnyOrder(t, expected)
		return
	}

	next := 0

	for _, call := range m.calls {
		if next >= len(expected) {
			break
		}

		if ok, _ := matchCall(call, expected[next]); ok {
			next++
		}
	}

	if next < len(expected) {
		t.Fatalf(
			"calls are not an in-order subsequence of the history; first unmatched: %s\n%s",
			expected[next],
			diffCalls(expected, m.calls),
		)
	}
}

func (m *Mock) assertHasCallsAnyOrder(t TestReporter, expected []Call) {
	t.Helper()

	used := make([]bool, len(m.calls))

	for _, want := range expected {
		found := false

		for i, call := range m.calls {
			if used[i] {
				continue
			}

			if ok, _ := matchCall(call, want); ok {
				used[i] = true
				found = true

				break
			}
		}

		if !found {
			t.Fatalf("expected %s somewhere in the history\n%s", want, diffCalls(expected, m.calls))
		}
	}
}

// diffCalls renders a unified diff of the expected calls against the
// recorded history, for assertion diagnostics.
func diffCalls(expected, actual []Call) string {
	diff := textdiff.Unified(
		"expected calls",
		"actual calls",
		formatCalls(expected)+"\n",
		formatCalls(actual)+"\n",
	)
	if diff == "" {
		return ""
	}

	return "diff:\n" + diff
}
