package properties_test

import (
	"errors"
	"testing"

	"pgregory.net/rapid"

	"github.com/ntoll/umock"
)

// TestCallHistory_Property proves the recording invariants for any call
// sequence: the count matches, the history preserves order, and the last
// record is the last call made.
func TestCallHistory_Property(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		args := rapid.SliceOfN(rapid.Int(), 0, 20).Draw(rt, "args")

		mock := umock.New()

		for _, arg := range args {
			if _, err := mock.Call(arg); err != nil {
				rt.Fatalf("unexpected error: %v", err)
			}
		}

		if mock.CallCount() != len(args) {
			rt.Fatalf("count %d after %d calls", mock.CallCount(), len(args))
		}

		if mock.Called() != (len(args) > 0) {
			rt.Fatalf("Called() inconsistent with %d calls", len(args))
		}

		history := mock.CallArgsList()
		for i, arg := range args {
			if !history[i].Equal(umock.NewCall(arg)) {
				rt.Fatalf("history[%d] = %s, want call(%d)", i, history[i], arg)
			}
		}

		if len(args) > 0 {
			last, ok := mock.CallArgs()
			if !ok || !last.Equal(umock.NewCall(args[len(args)-1])) {
				rt.Fatalf("last record %s does not match last call", last)
			}
		}
	})
}

// TestSequenceSideEffect_Property proves a sequence side effect yields its
// values in configuration order and then exhausts, for any sequence.
func TestSequenceSideEffect_Property(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		values := rapid.SliceOfN(rapid.Int(), 0, 20).Draw(rt, "values")

		sequence := make([]any, len(values))
		for i, value := range values {
			sequence[i] = value
		}

		mock := umock.New(umock.WithSideEffect(sequence))

		for i, want := range values {
			got, err := mock.Call()
			if err != nil {
				rt.Fatalf("call %d: unexpected error %v", i, err)
			}

			if got != want {
				rt.Fatalf("call %d: got %v, want %v", i, got, want)
			}
		}

		if _, err := mock.Call(); !errors.Is(err, umock.ErrSequenceExhausted) {
			rt.Fatalf("expected exhaustion after %d values, got %v", len(values), err)
		}
	})
}

// TestHasCallsSubsequence_Property proves that any subsequence of the
// actual history satisfies the ordered AssertHasCalls form, and any
// permutation-free subset satisfies the anyOrder form.
func TestHasCallsSubsequence_Property(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		args := rapid.SliceOfN(rapid.Int(), 1, 15).Draw(rt, "args")
		keep := rapid.SliceOfN(rapid.Bool(), len(args), len(args)).Draw(rt, "keep")

		mock := umock.New()

		var expected []umock.Call

		for i, arg := range args {
			_, _ = mock.Call(arg)

			if keep[i] {
				expected = append(expected, umock.NewCall(arg))
			}
		}

		// Assertions report through rapid's T, so a property violation
		// fails the shrunk example.
		mock.AssertHasCalls(rt, expected, false)
		mock.AssertHasCalls(rt, expected, true)
	})
}
