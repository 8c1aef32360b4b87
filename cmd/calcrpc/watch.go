package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"calcrpc/internal/client"
	"calcrpc/internal/config"
	"calcrpc/internal/history"
	"calcrpc/internal/ops"
	"calcrpc/internal/watch"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	watchFile string
	watchAddr string
)

// watchCmd runs one file-driven client until interrupted
var watchCmd = &cobra.Command{
	Use:   "watch [algebraic|geometric]",
	Short: "Run a file-driven client for one service",
	Long: `Connects to the named service and watches its input file. Every
time the file is written, its lines are parsed into operations and
dispatched to the service in file order. Malformed lines are skipped
with a warning; a failed remote call skips that record and continues.

The connection is made once at startup; an unreachable service is a
fatal error.

Example:
  calcrpc watch algebraic --file ops/algebraic.txt
  calcrpc watch geometric --addr 10.0.0.5:7202`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"algebraic", "geometric"},
	RunE:      runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchFile, "file", "", "input file override")
	watchCmd.Flags().StringVar(&watchAddr, "addr", "", "service address override (host:port)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var tlsCfg *tls.Config
	if cfg.TLS.Enabled {
		tlsCfg, err = client.LoadTLS(cfg.TLS.CertFile, cfg.TLS.ServerName)
		if err != nil {
			return err
		}
	}

	var (
		domain     ops.Domain
		addr, file string
		dispatcher client.Dispatcher
		closer     io.Closer
	)

	switch args[0] {
	case "algebraic":
		domain, addr, file = ops.DomainAlgebraic, cfg.Algebraic.Addr, cfg.Watch.AlgebraicFile
	case "geometric":
		domain, addr, file = ops.DomainGeometric, cfg.Geometric.Addr, cfg.Watch.GeometricFile
	default:
		return fmt.Errorf("unknown service %q", args[0])
	}
	if watchAddr != "" {
		addr = watchAddr
	}
	if watchFile != "" {
		file = watchFile
	}

	// Connection failures here are terminal; there is no retry policy.
	switch domain {
	case ops.DomainAlgebraic:
		c, err := client.DialAlgebraic(addr, tlsCfg)
		if err != nil {
			return err
		}
		dispatcher, closer = c, c
	case ops.DomainGeometric:
		c, err := client.DialGeometric(addr, tlsCfg)
		if err != nil {
			return err
		}
		dispatcher, closer = c, c
	}
	defer closer.Close()

	var recorder watch.Recorder
	if cfg.History.DatabasePath != "" {
		store, err := history.Open(cfg.History.DatabasePath)
		if err != nil {
			return err
		}
		defer store.Close()
		recorder = store
	}

	runner, err := watch.NewRunner(watch.Options{
		Domain:     domain,
		Path:       file,
		Parser:     ops.NewParser(domain, ops.NegativeGeometry(cfg.Geometry.NegativeInputs)),
		Dispatcher: dispatcher,
		Recorder:   recorder,
		Debounce:   cfg.Watch.DebounceDuration(),
		Log:        logger,
	})
	if err != nil {
		return err
	}

	if err := runner.Start(ctx); err != nil {
		return err
	}
	// Dispatch whatever the file already contains.
	runner.Trigger()

	<-ctx.Done()
	runner.Stop()

	stats := runner.GetStats()
	logger.Info("runner summary",
		zap.Int("batches", stats.Batches),
		zap.Int("dispatched", stats.RecordsDispatched),
		zap.Int("failed", stats.RecordsFailed),
		zap.Int("skipped", stats.LinesSkipped))
	return nil
}
