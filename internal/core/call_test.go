package core

import (
	"strings"
	"testing"
)

func TestCallString(t *testing.T) {
	t.Parallel()

	t.Run("positional only", func(t *testing.T) {
		t.Parallel()

		got := NewCall(1, "two").String()
		if got != `call(1, "two")` {
			t.Errorf("unexpected rendering: %s", got)
		}
	})

	t.Run("no args", func(t *testing.T) {
		t.Parallel()

		if got := NewCall().String(); got != "call()" {
			t.Errorf("unexpected rendering: %s", got)
		}
	})

	t.Run("kwargs are sorted", func(t *testing.T) {
		t.Parallel()

		got := NewCallKw(map[string]any{"b": 2, "a": 1}).String()
		if got != "call() {a: 1, b: 2}" {
			t.Errorf("unexpected rendering: %s", got)
		}
	})
}

func TestCallEqual(t *testing.T) {
	t.Parallel()

	t.Run("structural equality", func(t *testing.T) {
		t.Parallel()

		left := NewCallKw(map[string]any{"k": []int{1, 2}}, 1, "a")
		right := NewCallKw(map[string]any{"k": []int{1, 2}}, 1, "a")

		if !left.Equal(right) {
			t.Error("expected calls to be equal")
		}
	})

	t.Run("arg mismatch", func(t *testing.T) {
		t.Parallel()

		if NewCall(1).Equal(NewCall(2)) {
			t.Error("expected calls to differ")
		}
	})

	t.Run("kwarg mismatch", func(t *testing.T) {
		t.Parallel()

		left := NewCallKw(map[string]any{"k": 1})
		right := NewCallKw(map[string]any{"k": 2})

		if left.Equal(right) {
			t.Error("expected calls to differ")
		}
	})

	t.Run("arity mismatch", func(t *testing.T) {
		t.Parallel()

		if NewCall(1, 2).Equal(NewCall(1)) {
			t.Error("expected calls to differ")
		}
	})
}

func TestMatchCall(t *testing.T) {
	t.Parallel()

	t.Run("matchers in expected args", func(t *testing.T) {
		t.Parallel()

		actual := NewCall(5, "payload")
		expected := NewCall(Satisfies(func(x int) error { return nil }), Any())

		if ok, reason := matchCall(actual, expected); !ok {
			t.Errorf("expected match, got: %s", reason)
		}
	})

	t.Run("matcher failure carries a reason", func(t *testing.T) {
		t.Parallel()

		actual := NewCall("not an int")
		expected := NewCall(Satisfies(func(int) error { return nil }))

		ok, reason := matchCall(actual, expected)
		if ok {
			t.Fatal("expected mismatch")
		}

		if !strings.Contains(reason, "arg 0") {
			t.Errorf("reason should name the argument: %s", reason)
		}
	})

	t.Run("missing kwarg", func(t *testing.T) {
		t.Parallel()

		actual := NewCallKw(map[string]any{"a": 1})
		expected := NewCallKw(map[string]any{"b": 1})

		ok, reason := matchCall(actual, expected)
		if ok {
			t.Fatal("expected mismatch")
		}

		if !strings.Contains(reason, `"b"`) {
			t.Errorf("reason should name the kwarg: %s", reason)
		}
	})
}

func TestFormatCalls(t *testing.T) {
	t.Parallel()

	if got := formatCalls(nil); got != "(no calls)" {
		t.Errorf("unexpected empty rendering: %s", got)
	}

	got := formatCalls([]Call{NewCall(1), NewCall(2)})
	if got != "call(1)\ncall(2)" {
		t.Errorf("unexpected rendering: %s", got)
	}
}
