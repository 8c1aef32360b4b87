// Package ops defines the operation records parsed from a client's input
// file and the line parser that produces them. Parsing is the validation
// boundary: a record that comes out of this package is safe to dispatch.
package ops

import "fmt"

// Domain selects which verbs a parser accepts. Each client watches one
// file and speaks to one service, so it parses exactly one domain.
type Domain string

const (
	DomainAlgebraic Domain = "algebraic"
	DomainGeometric Domain = "geometric"
)

// Operation is a parsed, validated instruction ready for dispatch.
// Exactly one of Power, Factorial, Square or Circle.
type Operation interface {
	// Verb returns the input-file verb that produced the operation.
	Verb() string

	isOperation()
}

// Power raises Base to a non-negative integer Exponent.
type Power struct {
	Base     float64
	Exponent uint32
}

// Factorial computes N!.
type Factorial struct {
	N uint32
}

// Square computes the area of a square with the given side.
type Square struct {
	Side float64
}

// Circle computes the area of a circle with the given radius.
type Circle struct {
	Radius float64
}

func (Power) Verb() string     { return "pow" }
func (Factorial) Verb() string { return "factorial" }
func (Square) Verb() string    { return "square" }
func (Circle) Verb() string    { return "circle" }

func (Power) isOperation()     {}
func (Factorial) isOperation() {}
func (Square) isOperation()    {}
func (Circle) isOperation()    {}

// Record is one parsed line of an input file.
type Record struct {
	Line int    // 1-based line number
	Raw  string // original line text, trimmed
	Op   Operation
}

// ParseError describes a line that could not be turned into an Operation.
// It is never fatal: callers log it and move on to the next line.
type ParseError struct {
	Line   int
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
}
