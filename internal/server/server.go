// Package server runs a single rpc service on a TCP listener, plaintext
// or TLS, until its context is cancelled.
package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"sync"

	"go.uber.org/zap"
)

// Server wraps a net/rpc server with listener lifecycle management.
// One Server hosts one service; the algebraic and geometric services
// run as separate processes and never share a listener.
type Server struct {
	rpc *rpc.Server
	log *zap.Logger

	mu sync.Mutex
	ln net.Listener
}

// New returns an empty Server; call Register then Listen and Serve.
func New(log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{rpc: rpc.NewServer(), log: log}
}

// Register exposes handler's exported methods under the given service
// name. The name must match what the client facades call.
func (s *Server) Register(name string, handler any) error {
	if err := s.rpc.RegisterName(name, handler); err != nil {
		return fmt.Errorf("register %s: %w", name, err)
	}
	return nil
}

// Listen binds the TCP listener. A nil tlsCfg means plaintext. Listen
// must be called before Serve; Addr is valid afterwards, which lets
// tests bind port 0.
func (s *Server) Listen(addr string, tlsCfg *tls.Config) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	if tlsCfg != nil {
		ln = tls.NewListener(ln, tlsCfg)
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	s.log.Info("listening", zap.String("addr", ln.Addr().String()), zap.Bool("tls", tlsCfg != nil))
	return nil
}

// Addr returns the bound listener address. Only valid after Listen.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Serve accepts connections until ctx is cancelled, serving each on its
// own goroutine. It returns nil on cancellation and waits for in-flight
// connections to drain.
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()
	if ln == nil {
		return errors.New("server: Serve called before Listen")
	}

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	var conns sync.WaitGroup
	defer conns.Wait()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				s.log.Info("server stopped")
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		s.log.Debug("connection accepted", zap.String("remote", conn.RemoteAddr().String()))
		conns.Add(1)
		go func() {
			defer conns.Done()
			s.rpc.ServeConn(conn)
		}()
	}
}

// LoadTLS builds a server TLS config from a certificate/key pair.
func LoadTLS(certFile, keyFile string) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("load tls keypair: %w", err)
	}
	return &tls.Config{Certificates: []tls.Certificate{cert}}, nil
}
