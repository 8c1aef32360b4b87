// Package wire defines the remote contract shared by the service handlers
// and the client facades. It is the only code the two sides have in common:
// request and reply types (gob-encoded by net/rpc) plus the registered
// service and method names.
package wire

// Registered rpc service names.
const (
	AlgebraicService = "Algebraic"
	GeometricService = "Geometric"
)

// Fully qualified method names for rpc.Client.Call.
const (
	MethodExponent   = AlgebraicService + ".Exponent"
	MethodFactorial  = AlgebraicService + ".Factorial"
	MethodSquareArea = GeometricService + ".SquareArea"
	MethodCircleArea = GeometricService + ".CircleArea"
)

// ExponentArgs carries a base raised to a non-negative integer exponent.
type ExponentArgs struct {
	Base     float32
	Exponent uint32
}

// FactorialArgs carries the factorial operand.
type FactorialArgs struct {
	N uint32
}

// SquareAreaArgs carries the side length of a square.
type SquareAreaArgs struct {
	Side float32
}

// CircleAreaArgs carries the radius of a circle.
type CircleAreaArgs struct {
	Radius float32
}

// Result is the single-value reply shared by every operation.
type Result struct {
	Value float32
}
