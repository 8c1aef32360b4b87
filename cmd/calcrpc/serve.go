package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"calcrpc/internal/algebraic"
	"calcrpc/internal/config"
	"calcrpc/internal/geometric"
	"calcrpc/internal/server"
	"calcrpc/internal/wire"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveAddr string

// serveCmd runs one service (or both) until interrupted
var serveCmd = &cobra.Command{
	Use:   "serve [algebraic|geometric|all]",
	Short: "Run a calculator service",
	Long: `Starts the named rpc service and serves until SIGINT/SIGTERM.

"all" runs both services in one process, each on its own listener.
Addresses come from the config file; --addr overrides them (single
service only).

Example:
  calcrpc serve algebraic
  calcrpc serve geometric --addr 0.0.0.0:7202`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"algebraic", "geometric", "all"},
	RunE:      runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address override (host:port)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var tlsCfg *tls.Config
	if cfg.TLS.Enabled {
		tlsCfg, err = server.LoadTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		if err != nil {
			return err
		}
	}

	type svc struct {
		name    string
		addr    string
		handler any
	}
	var services []svc

	switch args[0] {
	case "algebraic":
		services = append(services, svc{wire.AlgebraicService, cfg.Algebraic.Addr,
			algebraic.New(algebraic.OverflowPolicy(cfg.Algebra.Overflow), logger)})
	case "geometric":
		services = append(services, svc{wire.GeometricService, cfg.Geometric.Addr,
			geometric.New(logger)})
	case "all":
		if serveAddr != "" {
			return fmt.Errorf("--addr cannot be used with \"all\"")
		}
		services = append(services,
			svc{wire.AlgebraicService, cfg.Algebraic.Addr,
				algebraic.New(algebraic.OverflowPolicy(cfg.Algebra.Overflow), logger)},
			svc{wire.GeometricService, cfg.Geometric.Addr,
				geometric.New(logger)})
	default:
		return fmt.Errorf("unknown service %q", args[0])
	}

	if serveAddr != "" {
		services[0].addr = serveAddr
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range services {
		srv := server.New(logger.Named(s.name))
		if err := srv.Register(s.name, s.handler); err != nil {
			return err
		}
		if err := srv.Listen(s.addr, tlsCfg); err != nil {
			return err
		}
		g.Go(func() error { return srv.Serve(gctx) })
	}
	return g.Wait()
}
