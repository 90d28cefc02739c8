package core

import (
	"errors"
	"testing"
)

// sampleService is a stand-in collaborator for spec derivation tests.
type sampleService struct {
	Endpoint string
	retries  int //nolint:unused // present to prove unexported fields stay hidden
}

func (s *sampleService) Fetch(string) error { return nil }

func (s *sampleService) Close() {}

// String is on the reserved denylist and must not leak into the spec.
func (s *sampleService) String() string { return "sampleService" }

func TestSpecFromNames(t *testing.T) {
	t.Parallel()

	guard := specFromNames([]string{"save", "load"})

	if err := guard.check("save"); err != nil {
		t.Errorf("save should be allowed: %v", err)
	}

	err := guard.check("delete")
	if !errors.Is(err, ErrAttributeNotInSpec) {
		t.Errorf("expected ErrAttributeNotInSpec, got %v", err)
	}
}

func TestSpecFromSample(t *testing.T) {
	t.Parallel()

	guard := specFromSample(&sampleService{})

	for _, name := range []string{"Fetch", "Close", "Endpoint"} {
		if err := guard.check(name); err != nil {
			t.Errorf("%s should be allowed: %v", name, err)
		}
	}

	for _, name := range []string{"String", "retries", "Missing"} {
		if err := guard.check(name); err == nil {
			t.Errorf("%s should be denied", name)
		}
	}
}

func TestSpecFromSampleValueReceiver(t *testing.T) {
	t.Parallel()

	// Methods are enumerated through the pointer type even when the
	// sample is passed by value.
	guard := specFromSample(sampleService{})

	if err := guard.check("Fetch"); err != nil {
		t.Errorf("Fetch should be allowed: %v", err)
	}
}

func TestNilGuardAllowsEverything(t *testing.T) {
	t.Parallel()

	var guard *specGuard

	if err := guard.check("anything"); err != nil {
		t.Errorf("nil guard should allow all names: %v", err)
	}
}

func TestIsInstanceOf(t *testing.T) {
	t.Parallel()

	t.Run("spec'd mock passes against the sample type", func(t *testing.T) {
		t.Parallel()

		mock := New(WithSpecOf(&sampleService{}))

		if !IsInstanceOf(mock, &sampleService{}) {
			t.Error("expected mock to conform to *sampleService")
		}
	})

	t.Run("plain mock does not", func(t *testing.T) {
		t.Parallel()

		if IsInstanceOf(New(), &sampleService{}) {
			t.Error("expected unspec'd mock not to conform")
		}
	})

	t.Run("plain mock conforms to its own type", func(t *testing.T) {
		t.Parallel()

		if !IsInstanceOf(New(), New()) {
			t.Error("expected mock to conform to *Mock")
		}
	})

	t.Run("non-mock values compare on runtime type", func(t *testing.T) {
		t.Parallel()

		if !IsInstanceOf(3, 4) || IsInstanceOf(3, "s") {
			t.Error("expected runtime-type comparison for plain values")
		}
	})
}
