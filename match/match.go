// Package match provides matchers for use in umock's argument-aware
// assertions (AssertCalledWith, AssertAnyCall, AssertHasCalls).
// This package is designed to be dot-imported alongside gomega matchers:
//
//	import (
//	    . "github.com/onsi/gomega"
//	    . "github.com/ntoll/umock/match"
//	)
//
//	saver.AssertCalledWith(t, BeNumerically(">", 0), BeAny)
package match

import (
	"github.com/ntoll/umock/internal/core"
)

// Matcher defines the interface for flexible value matching.
// Compatible with gomega.GomegaMatcher via duck typing - any type
// implementing Match and FailureMessage will work.
type Matcher = core.Matcher

// BeAny is a matcher that matches any value.
// Useful when you don't care about a particular argument.
//
//nolint:gochecknoglobals // Intentional exported constant-like value
var BeAny = core.Any()

// Satisfy returns a matcher that uses a predicate function to check for a
// match. The predicate should return nil if the value matches, or an error
// describing the mismatch if it does not.
//
// Example:
//
//	saver.AssertCalledWith(t, Satisfy(func(x int) error {
//	    if x < 0 { return fmt.Errorf("expected positive, got %d", x) }
//	    return nil
//	}))
func Satisfy[T any](predicate func(T) error) Matcher {
	return core.Satisfies(predicate)
}

// MatchValue checks if actual matches expected: with expected's Match
// method when it is a Matcher, by deep equality otherwise.
func MatchValue(actual, expected any) (bool, string) {
	return core.MatchValue(actual, expected)
}
