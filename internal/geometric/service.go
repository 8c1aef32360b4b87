// Package geometric implements the server side of the Geometric remote
// contract: square and circle areas via the shared arithmetic primitives.
//
// Inputs are not validated here. Negative sides or radii pass straight
// through; rejecting them is the parser's job on the client side.
package geometric

import (
	"math"

	"calcrpc/internal/arith"
	"calcrpc/internal/wire"

	"go.uber.org/zap"
)

// Service is the net/rpc handler registered under wire.GeometricService.
type Service struct {
	log *zap.Logger
}

// New returns a Service.
func New(log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{log: log}
}

// SquareArea computes side².
func (s *Service) SquareArea(args *wire.SquareAreaArgs, reply *wire.Result) error {
	side := float64(args.Side)
	reply.Value = float32(arith.Multiply(side, side))
	s.log.Debug("square_area",
		zap.Float32("side", args.Side),
		zap.Float32("value", reply.Value))
	return nil
}

// CircleArea computes π·radius².
func (s *Service) CircleArea(args *wire.CircleAreaArgs, reply *wire.Result) error {
	radius := float64(args.Radius)
	reply.Value = float32(arith.Multiply(math.Pi, arith.Multiply(radius, radius)))
	s.log.Debug("circle_area",
		zap.Float32("radius", args.Radius),
		zap.Float32("value", reply.Value))
	return nil
}
