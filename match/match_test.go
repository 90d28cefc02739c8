package match_test

import (
	"fmt"
	"testing"

	. "github.com/onsi/gomega" //nolint:revive

	"github.com/ntoll/umock"
	"github.com/ntoll/umock/match"
)

func TestBeAny(t *testing.T) {
	t.Parallel()

	for _, value := range []any{nil, 0, "s", []int{1}} {
		ok, err := match.BeAny.Match(value)
		if err != nil || !ok {
			t.Errorf("BeAny should match %v", value)
		}
	}

	if msg := match.BeAny.FailureMessage(1); msg != "" {
		t.Errorf("unexpected failure message: %s", msg)
	}
}

func TestSatisfy(t *testing.T) {
	t.Parallel()

	positive := match.Satisfy(func(x int) error {
		if x <= 0 {
			return fmt.Errorf("expected positive, got %d", x)
		}

		return nil
	})

	if ok, err := positive.Match(5); err != nil || !ok {
		t.Errorf("expected 5 to satisfy: %v", err)
	}

	if ok, _ := positive.Match(-1); ok {
		t.Error("expected -1 not to satisfy")
	}

	if _, err := positive.Match("not an int"); err == nil {
		t.Error("expected a type mismatch error")
	}
}

func TestMatchValueFallsBackToDeepEqual(t *testing.T) {
	t.Parallel()

	if ok, _ := match.MatchValue([]int{1, 2}, []int{1, 2}); !ok {
		t.Error("expected deep equality to match")
	}

	ok, msg := match.MatchValue(1, 2)
	if ok || msg == "" {
		t.Error("expected a mismatch with a message")
	}
}

func TestGomegaMatchersWorkInAssertions(t *testing.T) {
	t.Parallel()

	// umock is compatible with third-party matchers like Gomega via duck
	// typing. Any object implementing Match(any) (bool, error) and
	// FailureMessage(any) string works.
	mock := umock.New()
	_, _ = mock.Call(7, "payload")

	mock.AssertCalledWith(t, BeNumerically(">", 0), HaveLen(7))
	mock.AssertAnyCall(t, match.BeAny, match.BeAny)
}
