package core

import (
	"errors"
	"fmt"
)

var (
	// ErrPatchActive signals a second Start on an already-active patch.
	ErrPatchActive = errors.New("patch is already active")

	// ErrPatchNotActive signals a Stop on a patch that was never started.
	ErrPatchNotActive = errors.New("patch is not active")
)

// Patch temporarily replaces the value at a registered target location and
// guarantees the original is written back when the patched region exits.
//
// A stopped patch may be started again, so one Patch serves repeated
// scoped blocks. Nested patches on the same slot are unsupported: the
// inner patch would save the outer patch's replacement as its "original"
// and restore the wrong value. Don't stack them.
type Patch struct {
	registry    *Registry
	target      string
	replacement any
	hasReplace  bool
	mockOptions []Option

	// set only while active
	handle *TargetHandle
	saved  any
	active bool
}

// PatchOption configures a Patch under construction.
type PatchOption func(*Patch)

// WithReplacement installs an explicit substitute instead of an
// auto-created Mock.
func WithReplacement(value any) PatchOption {
	return func(p *Patch) {
		p.replacement = value
		p.hasReplace = true
	}
}

// WithMockOptions forwards options to the Mock that is auto-created when
// no explicit replacement is given. A fresh Mock is created per activation.
func WithMockOptions(options ...Option) PatchOption {
	return func(p *Patch) {
		p.mockOptions = append(p.mockOptions, options...)
	}
}

// WithRegistry resolves the target against the given registry instead of
// the process-wide default.
func WithRegistry(registry *Registry) PatchOption {
	return func(p *Patch) {
		p.registry = registry
	}
}

// NewPatch creates an inactive patch for the given target descriptor.
func NewPatch(target string, options ...PatchOption) *Patch {
	patch := &Patch{
		registry: defaultRegistry,
		target:   target,
	}

	for _, option := range options {
		option(patch)
	}

	return patch
}

// Start resolves the target, saves the current value, writes the
// installed value (the explicit replacement, or a fresh Mock), and returns
// what was installed.
func (p *Patch) Start() (any, error) {
	if p.active {
		return nil, fmt.Errorf("%w: %q", ErrPatchActive, p.target)
	}

	handle, err := p.registry.ResolveTarget(p.target)
	if err != nil {
		return nil, err
	}

	saved, err := handle.Read()
	if err != nil {
		return nil, err
	}

	installed := p.replacement
	if !p.hasReplace {
		installed = New(p.mockOptions...)
	}

	if err := handle.Write(installed); err != nil {
		return nil, err
	}

	p.handle = handle
	p.saved = saved
	p.active = true

	return installed, nil
}

// Stop writes the saved original back and deactivates the patch. It never
// re-resolves the target. A restore failure is reported, not swallowed.
func (p *Patch) Stop() error {
	if !p.active {
		return fmt.Errorf("%w: %q", ErrPatchNotActive, p.target)
	}

	err := p.handle.Write(p.saved)

	p.handle = nil
	p.saved = nil
	p.active = false

	if err != nil {
		return fmt.Errorf("restoring %q: %w", p.target, err)
	}

	return nil
}

// RestoreFailure is the panic value raised when the patched function
// panicked and restoring the original value failed too. Cause is the
// function's original panic value, kept intact for callers that recover
// and inspect it.
type RestoreFailure struct {
	Cause      any
	RestoreErr error
}

func (f *RestoreFailure) Error() string {
	return fmt.Sprintf("%v (restore also failed: %v)", f.Cause, f.RestoreErr)
}

func (f *RestoreFailure) Unwrap() error {
	return f.RestoreErr
}

// Do runs fn with the patch active: the scoped-block protocol. The target
// is restored on every exit path - normal return, error, or panic. When
// both fn and the restore fail, both errors are reported.
func (p *Patch) Do(fn func(installed any) error) (err error) {
	installed, err := p.Start()
	if err != nil {
		return err
	}

	defer func() {
		stopErr := p.Stop()
		if stopErr == nil {
			return
		}

		if recovered := recover(); recovered != nil {
			// fn panicked and the restore failed too; the panic wins,
			// carrying the restore failure with it.
			panic(&RestoreFailure{Cause: recovered, RestoreErr: stopErr})
		}

		err = errors.Join(err, stopErr)
	}()

	return fn(installed)
}

// Wrap applies the wrapping protocol: each invocation of the returned
// function is one activation, with the installed value passed as the extra
// argument and the target restored before the wrapper returns or re-panics.
// Start and restore failures panic, since the wrapped signature has no
// error channel.
func (p *Patch) Wrap(fn func(installed any)) func() {
	return func() {
		err := p.Do(func(installed any) error {
			fn(installed)
			return nil
		})
		if err != nil {
			panic(err)
		}
	}
}

// WrapErr is Wrap for functions that return an error.
func (p *Patch) WrapErr(fn func(installed any) error) func() error {
	return func() error {
		return p.Do(fn)
	}
}
