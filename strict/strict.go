// Package strict wraps a number system's operations to surface the
// "exception raising" policy as an alternative to the
// default sentinel-returning behavior ("arithmetic produces a well-
// defined sentinel ... and never aborts unless a compile-time flag
// requests exception raising, used by the verification kit"). Every
// number system's Add/Sub/Mul/Div already returns a plain value with a
// sentinel baked in (NaR, NaN, saturated); this package lets a caller —
// chiefly the verify package's exception-raising mode — turn "the result
// is a sentinel" into an explicit (T, error) instead of inspecting the
// result after the fact.
package strict

import "github.com/pkg/errors"

// ArithmeticError reports that an operation's result was a sentinel value
// (NaR/NaN/saturated) rather than a well-defined finite result.
type ArithmeticError struct {
	Op string
}

func (e *ArithmeticError) Error() string {
	return "strict: " + e.Op + " produced a sentinel result"
}

// Check wraps op's result: if isSentinel reports true for the result, it
// returns the result alongside an *ArithmeticError instead of silently
// propagating the sentinel.
func Check[V any](opName string, result V, isSentinel func(V) bool) (V, error) {
	if isSentinel(result) {
		return result, errors.WithStack(&ArithmeticError{Op: opName})
	}
	return result, nil
}

// BinOp adapts a two-operand operation (Add/Sub/Mul/Div) to strict mode.
func BinOp[V any](opName string, op func(a, b V) V, isSentinel func(V) bool) func(a, b V) (V, error) {
	return func(a, b V) (V, error) {
		return Check(opName, op(a, b), isSentinel)
	}
}

// UnaryOp adapts a one-operand operation (Sqrt/Neg) to strict mode.
func UnaryOp[V any](opName string, op func(a V) V, isSentinel func(V) bool) func(a V) (V, error) {
	return func(a V) (V, error) {
		return Check(opName, op(a), isSentinel)
	}
}
