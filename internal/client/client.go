// Package client provides one facade per service. A facade owns its
// connection exclusively: it is created by dialing the service, exposes
// the remote operations as local-looking calls, and is closed when its
// owner is done. A failed dial is terminal; there is no retry policy.
package client

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"net/rpc"
	"os"

	"calcrpc/internal/ops"
	"calcrpc/internal/wire"
)

// Dispatcher is the caller shape the watch runner needs: one parsed
// operation in, one response value out. Both facades implement it.
type Dispatcher interface {
	Dispatch(op ops.Operation) (float32, error)
}

func dial(addr string, tlsCfg *tls.Config) (*rpc.Client, error) {
	var (
		conn net.Conn
		err  error
	)
	if tlsCfg != nil {
		conn, err = tls.Dial("tcp", addr, tlsCfg)
	} else {
		conn, err = net.Dial("tcp", addr)
	}
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", addr, err)
	}
	return rpc.NewClient(conn), nil
}

// LoadTLS builds a client TLS config trusting the server's certificate
// file, for self-signed deployments where the cert doubles as the root.
func LoadTLS(certFile, serverName string) (*tls.Config, error) {
	pem, err := os.ReadFile(certFile)
	if err != nil {
		return nil, fmt.Errorf("read tls cert: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("no certificates found in %s", certFile)
	}
	return &tls.Config{RootCAs: pool, ServerName: serverName}, nil
}

// Algebraic is the facade for the Algebraic service.
type Algebraic struct {
	rpc *rpc.Client
}

// DialAlgebraic connects to the Algebraic service. A nil tlsCfg dials
// plaintext TCP.
func DialAlgebraic(addr string, tlsCfg *tls.Config) (*Algebraic, error) {
	c, err := dial(addr, tlsCfg)
	if err != nil {
		return nil, err
	}
	return &Algebraic{rpc: c}, nil
}

// Exponent computes base^exponent remotely.
func (c *Algebraic) Exponent(base float32, exponent uint32) (float32, error) {
	var reply wire.Result
	if err := c.rpc.Call(wire.MethodExponent, &wire.ExponentArgs{Base: base, Exponent: exponent}, &reply); err != nil {
		return 0, fmt.Errorf("%s: %w", wire.MethodExponent, err)
	}
	return reply.Value, nil
}

// Factorial computes n! remotely.
func (c *Algebraic) Factorial(n uint32) (float32, error) {
	var reply wire.Result
	if err := c.rpc.Call(wire.MethodFactorial, &wire.FactorialArgs{N: n}, &reply); err != nil {
		return 0, fmt.Errorf("%s: %w", wire.MethodFactorial, err)
	}
	return reply.Value, nil
}

// Dispatch invokes the facade method matching the record's tag.
func (c *Algebraic) Dispatch(op ops.Operation) (float32, error) {
	switch o := op.(type) {
	case ops.Power:
		return c.Exponent(float32(o.Base), o.Exponent)
	case ops.Factorial:
		return c.Factorial(o.N)
	default:
		return 0, fmt.Errorf("algebraic facade cannot dispatch %q", op.Verb())
	}
}

// Close releases the connection. The facade is unusable afterwards.
func (c *Algebraic) Close() error {
	return c.rpc.Close()
}

// Geometric is the facade for the Geometric service.
type Geometric struct {
	rpc *rpc.Client
}

// DialGeometric connects to the Geometric service. A nil tlsCfg dials
// plaintext TCP.
func DialGeometric(addr string, tlsCfg *tls.Config) (*Geometric, error) {
	c, err := dial(addr, tlsCfg)
	if err != nil {
		return nil, err
	}
	return &Geometric{rpc: c}, nil
}

// SquareArea computes side² remotely.
func (c *Geometric) SquareArea(side float32) (float32, error) {
	var reply wire.Result
	if err := c.rpc.Call(wire.MethodSquareArea, &wire.SquareAreaArgs{Side: side}, &reply); err != nil {
		return 0, fmt.Errorf("%s: %w", wire.MethodSquareArea, err)
	}
	return reply.Value, nil
}

// CircleArea computes π·radius² remotely.
func (c *Geometric) CircleArea(radius float32) (float32, error) {
	var reply wire.Result
	if err := c.rpc.Call(wire.MethodCircleArea, &wire.CircleAreaArgs{Radius: radius}, &reply); err != nil {
		return 0, fmt.Errorf("%s: %w", wire.MethodCircleArea, err)
	}
	return reply.Value, nil
}

// Dispatch invokes the facade method matching the record's tag.
func (c *Geometric) Dispatch(op ops.Operation) (float32, error) {
	switch o := op.(type) {
	case ops.Square:
		return c.SquareArea(float32(o.Side))
	case ops.Circle:
		return c.CircleArea(float32(o.Radius))
	default:
		return 0, fmt.Errorf("geometric facade cannot dispatch %q", op.Verb())
	}
}

// Close releases the connection. The facade is unusable afterwards.
func (c *Geometric) Close() error {
	return c.rpc.Close()
}
