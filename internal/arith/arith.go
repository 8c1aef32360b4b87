// Package arith provides the shared arithmetic primitives used by the
// algebraic and geometric services. All operations are pure; Divide is
// the only one with a failure mode.
package arith

import "errors"

// ErrDivisionByZero is returned by Divide when the divisor is zero.
// None of the currently exposed service operations divide, so this is
// reserved for future ones.
var ErrDivisionByZero = errors.New("arith: division by zero")

// Add returns a + b.
func Add(a, b float64) float64 {
	return a + b
}

// Subtract returns a - b.
func Subtract(a, b float64) float64 {
	return a - b
}

// Multiply returns a * b.
func Multiply(a, b float64) float64 {
	return a * b
}

// Divide returns a / b, or ErrDivisionByZero when b is zero.
func Divide(a, b float64) (float64, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	return a / b, nil
}
