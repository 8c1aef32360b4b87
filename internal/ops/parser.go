package ops

import (
	"strconv"
	"strings"
)

// NegativeGeometry decides what the parser does with non-positive side
// lengths and radii. The services themselves never reject inputs, so
// this is the only place the choice is enforced.
type NegativeGeometry string

const (
	// NegativeReject refuses lines with a non-positive side or radius.
	NegativeReject NegativeGeometry = "reject"
	// NegativeAllow lets them through; areas may come back negative
	// (the services do no validation of their own).
	NegativeAllow NegativeGeometry = "allow"
)

// Parser turns input-file lines into Operations for one domain.
// The zero value is not usable; use NewParser.
type Parser struct {
	domain   Domain
	negative NegativeGeometry
}

// NewParser returns a parser for the given domain. An empty negative
// policy defaults to NegativeReject.
func NewParser(domain Domain, negative NegativeGeometry) *Parser {
	if negative == "" {
		negative = NegativeReject
	}
	return &Parser{domain: domain, negative: negative}
}

// ParseFile parses a full file snapshot line by line. Blank lines and
// lines starting with '#' are skipped silently. Every other line either
// contributes a Record or a ParseError; one bad line never stops the
// lines after it.
func (p *Parser) ParseFile(content []byte) ([]Record, []*ParseError) {
	var (
		records []Record
		errs    []*ParseError
	)
	for i, line := range strings.Split(string(content), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		op, err := p.ParseLine(i+1, trimmed)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		records = append(records, Record{Line: i + 1, Raw: trimmed, Op: op})
	}
	return records, errs
}

// ParseLine parses a single trimmed line of the form
// "<verb> <comma-separated args>".
func (p *Parser) ParseLine(lineNo int, line string) (Operation, *ParseError) {
	fail := func(reason string) (Operation, *ParseError) {
		return nil, &ParseError{Line: lineNo, Text: line, Reason: reason}
	}

	verb, rest, _ := strings.Cut(line, " ")
	args := splitArgs(rest)

	switch verb {
	case "pow":
		if p.domain != DomainAlgebraic {
			return fail("verb not recognized for geometric input")
		}
		if len(args) != 2 {
			return fail("pow takes base,exponent")
		}
		base, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fail("invalid base")
		}
		exp, err := parseUint32(args[1])
		if err != nil {
			return fail("exponent must be a non-negative integer")
		}
		return Power{Base: base, Exponent: exp}, nil

	case "factorial":
		if p.domain != DomainAlgebraic {
			return fail("verb not recognized for geometric input")
		}
		if len(args) != 1 {
			return fail("factorial takes a single operand")
		}
		n, err := parseUint32(args[0])
		if err != nil {
			return fail("operand must be a non-negative integer")
		}
		return Factorial{N: n}, nil

	case "square":
		if p.domain != DomainGeometric {
			return fail("verb not recognized for algebraic input")
		}
		if len(args) != 1 {
			return fail("square takes a single side length")
		}
		side, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fail("invalid side length")
		}
		if p.negative == NegativeReject && side <= 0 {
			return fail("side length must be positive")
		}
		return Square{Side: side}, nil

	case "circle":
		if p.domain != DomainGeometric {
			return fail("verb not recognized for algebraic input")
		}
		if len(args) != 1 {
			return fail("circle takes a single radius")
		}
		radius, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fail("invalid radius")
		}
		if p.negative == NegativeReject && radius <= 0 {
			return fail("radius must be positive")
		}
		return Circle{Radius: radius}, nil

	default:
		return fail("unknown verb")
	}
}

func splitArgs(rest string) []string {
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return nil
	}
	parts := strings.Split(rest, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func parseUint32(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}
