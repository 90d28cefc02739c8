package core

import (
	"errors"
	"fmt"
)

// ErrSequenceExhausted signals that a sequence side effect has no more
// values to yield. It is an exhaustion condition, distinct from ordinary
// failures, in the spirit of an iterator running out.
var ErrSequenceExhausted = errors.New("side effect sequence exhausted")

// ErrBadSideEffect signals a side effect configured with an unsupported type.
var ErrBadSideEffect = errors.New("unsupported side effect")

// CallFunc is a callable side effect. It receives the recorded call and its
// result becomes the mock's return value for that call.
type CallFunc func(call Call) (any, error)

// sideEffect holds a configured side effect plus the cursor state a
// sequence needs. Resolution precedence is fixed:
// error > sequence > callable > none.
type sideEffect struct {
	err      error
	sequence []any
	next     int
	fn       CallFunc
}

// newSideEffect validates and normalizes a configured side effect value.
// Accepted types: error, []any, CallFunc, func(Call) (any, error), and
// func(Call) any.
func newSideEffect(configured any) (*sideEffect, error) {
	switch value := configured.(type) {
	case error:
		return &sideEffect{err: value}, nil
	case []any:
		return &sideEffect{sequence: value}, nil
	case CallFunc:
		return &sideEffect{fn: value}, nil
	case func(Call) (any, error):
		return &sideEffect{fn: value}, nil
	case func(Call) any:
		return &sideEffect{fn: func(call Call) (any, error) {
			return value(call), nil
		}}, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrBadSideEffect, configured)
	}
}

// resolve produces this call's result. handled is false when the side
// effect does not determine a result and the caller should fall through to
// the mock's return value.
func (se *sideEffect) resolve(call Call) (result any, handled bool, err error) {
	switch {
	case se.err != nil:
		return nil, true, se.err
	case se.sequence != nil:
		if se.next >= len(se.sequence) {
			return nil, true, fmt.Errorf("%w: all %d values consumed", ErrSequenceExhausted, len(se.sequence))
		}

		result = se.sequence[se.next]
		se.next++

		return result, true, nil
	case se.fn != nil:
		result, err = se.fn(call)

		return result, true, err
	default:
		return nil, false, nil
	}
}
