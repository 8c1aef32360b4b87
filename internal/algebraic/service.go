// Package algebraic implements the server side of the Algebraic remote
// contract: exponentiation and factorial, both built by composing the
// shared arithmetic primitives.
package algebraic

import (
	"fmt"
	"math"

	"calcrpc/internal/arith"
	"calcrpc/internal/wire"

	"go.uber.org/zap"
)

// OverflowPolicy decides what happens when a result exceeds the float32
// range. The inputs themselves are never bounds-checked.
type OverflowPolicy string

const (
	// OverflowSaturate returns +Inf for overflowing results.
	OverflowSaturate OverflowPolicy = "saturate"
	// OverflowFail returns an error when finite inputs produce an
	// infinite result.
	OverflowFail OverflowPolicy = "fail"
)

// Service is the net/rpc handler registered under wire.AlgebraicService.
type Service struct {
	overflow OverflowPolicy
	log      *zap.Logger
}

// New returns a Service. An empty policy defaults to OverflowSaturate.
func New(overflow OverflowPolicy, log *zap.Logger) *Service {
	if overflow == "" {
		overflow = OverflowSaturate
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{overflow: overflow, log: log}
}

// Exponent computes Base^Exponent by repeated multiplication seeded at
// 1.0. Deliberately O(exponent) rather than fast exponentiation; the
// point of the service is composing the primitives, not speed.
func (s *Service) Exponent(args *wire.ExponentArgs, reply *wire.Result) error {
	result := 1.0
	for i := uint32(0); i < args.Exponent; i++ {
		result = arith.Multiply(result, float64(args.Base))
	}
	value := float32(result)
	if err := s.checkOverflow(value, !math.IsInf(float64(args.Base), 0)); err != nil {
		return fmt.Errorf("exponent(%v, %d): %w", args.Base, args.Exponent, err)
	}
	reply.Value = value
	s.log.Debug("exponent",
		zap.Float32("base", args.Base),
		zap.Uint32("exponent", args.Exponent),
		zap.Float32("value", value))
	return nil
}

// Factorial computes N! by repeated multiplication from 1 up to N.
// Factorial(0) is 1.
func (s *Service) Factorial(args *wire.FactorialArgs, reply *wire.Result) error {
	result := 1.0
	for i := uint32(1); i <= args.N; i++ {
		result = arith.Multiply(result, float64(i))
	}
	value := float32(result)
	if err := s.checkOverflow(value, true); err != nil {
		return fmt.Errorf("factorial(%d): %w", args.N, err)
	}
	reply.Value = value
	s.log.Debug("factorial", zap.Uint32("n", args.N), zap.Float32("value", value))
	return nil
}

var errOverflow = fmt.Errorf("result overflows float32 range")

func (s *Service) checkOverflow(value float32, inputsFinite bool) error {
	if s.overflow != OverflowFail {
		return nil
	}
	if inputsFinite && math.IsInf(float64(value), 0) {
		return errOverflow
	}
	return nil
}
