// Package core provides the internal implementation of umock's mock and
// patch infrastructure.
package core

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Call is an immutable record of a single invocation: the positional
// arguments and the keyword arguments it was made with.
type Call struct {
	Args   []any
	Kwargs map[string]any
}

// NewCall builds a Call from positional arguments only.
func NewCall(args ...any) Call {
	return Call{Args: args}
}

// NewCallKw builds a Call from keyword and positional arguments.
func NewCallKw(kwargs map[string]any, args ...any) Call {
	return Call{Args: args, Kwargs: kwargs}
}

// String renders the call the way it would have been written at the call
// site, with keyword arguments in sorted order.
func (c Call) String() string {
	parts := make([]string, 0, len(c.Args))
	for _, arg := range c.Args {
		parts = append(parts, fmt.Sprintf("%#v", arg))
	}

	rendered := "call(" + strings.Join(parts, ", ") + ")"

	if len(c.Kwargs) > 0 {
		keys := make([]string, 0, len(c.Kwargs))
		for key := range c.Kwargs {
			keys = append(keys, key)
		}

		sort.Strings(keys)

		kwParts := make([]string, 0, len(keys))
		for _, key := range keys {
			kwParts = append(kwParts, fmt.Sprintf("%s: %#v", key, c.Kwargs[key]))
		}

		rendered += " {" + strings.Join(kwParts, ", ") + "}"
	}

	return rendered
}

// Equal reports whether two calls are structurally equal.
func (c Call) Equal(other Call) bool {
	if len(c.Args) != len(other.Args) || len(c.Kwargs) != len(other.Kwargs) {
		return false
	}

	for i := range c.Args {
		if !deepEqual(c.Args[i], other.Args[i]) {
			return false
		}
	}

	for key, val := range c.Kwargs {
		otherVal, present := other.Kwargs[key]
		if !present || !deepEqual(val, otherVal) {
			return false
		}
	}

	return true
}

// matchCall checks an actual call against an expected one. Elements of the
// expected call may be Matchers; anything else is compared with DeepEqual.
// Returns false plus a reason on mismatch.
func matchCall(actual, expected Call) (bool, string) {
	if len(actual.Args) != len(expected.Args) {
		return false, fmt.Sprintf("expected %d positional args, got %d", len(expected.Args), len(actual.Args))
	}

	for i, want := range expected.Args {
		ok, msg := MatchValue(actual.Args[i], want)
		if !ok {
			return false, fmt.Sprintf("arg %d: %s", i, msg)
		}
	}

	if len(actual.Kwargs) != len(expected.Kwargs) {
		return false, fmt.Sprintf("expected %d keyword args, got %d", len(expected.Kwargs), len(actual.Kwargs))
	}

	for key, want := range expected.Kwargs {
		got, present := actual.Kwargs[key]
		if !present {
			return false, fmt.Sprintf("missing keyword arg %q", key)
		}

		ok, msg := MatchValue(got, want)
		if !ok {
			return false, fmt.Sprintf("keyword arg %q: %s", key, msg)
		}
	}

	return true, ""
}

// formatCalls renders a call history one call per line, for diagnostics.
func formatCalls(calls []Call) string {
	if len(calls) == 0 {
		return "(no calls)"
	}

	lines := make([]string, len(calls))
	for i, call := range calls {
		lines[i] = call.String()
	}

	return strings.Join(lines, "\n")
}

// deepEqual is DeepEqual with interface-nil awareness, so that a nil
// expected value matches a nil actual regardless of dynamic type.
func deepEqual(actual, expected any) bool {
	if expected == nil || actual == nil {
		return actual == nil && expected == nil
	}

	return reflect.DeepEqual(actual, expected)
}
