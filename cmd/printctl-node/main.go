// Command printctl-node runs one fleet node: it advertises itself via
// multicast discovery, enumerates serial printer devices, owns a worker
// per connected printer, and serves the RPC surface to peers and the
// CLI. Grounded on the teacher's main.go flag/signal/shutdown shape.
package main

import (
	"context"
	"flag"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/printctl/printctl-go/internal/agent"
	"github.com/printctl/printctl-go/internal/config"
	"github.com/printctl/printctl-go/internal/discovery"
	"github.com/printctl/printctl-go/internal/logging"
	"github.com/printctl/printctl-go/internal/rpc"
	"github.com/printctl/printctl-go/internal/serialio"
)

func main() {
	configPath := flag.String("config", "printctl.yaml", "path to configuration file")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	logger := logging.New(*verbose)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Warn("using default configuration", "path", *configPath, "error", err)
		cfg = config.Default()
	}

	logger.Info("printctl-node starting", "name", cfg.Discovery.Name, "listen", cfg.ListenAddr())

	registry := serialio.NewRegistry()
	ag := agent.New(cfg.Discovery.Name, registry, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ag.Run(ctx)

	node := discovery.New(cfg.Discovery.Name, map[string]string{
		"package_name":    "printctl-node",
		"package_version": "0.1.0",
	}, logger)
	active, err := node.StartDiscovery(ctx)
	if err != nil {
		logger.Error("discovery failed to start", "error", err)
		os.Exit(1)
	}

	server := rpc.New(ag, logger)
	lis, err := net.Listen("tcp", cfg.ListenAddr())
	if err != nil {
		logger.Error("failed to bind rpc listener", "error", err)
		os.Exit(1)
	}

	serveErrCh := make(chan error, 1)
	go func() { serveErrCh <- server.Serve(lis) }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received signal, shutting down", "signal", sig.String())
	case err := <-serveErrCh:
		if err != nil {
			logger.Error("rpc server exited", "error", err)
		}
	}

	active.StopDiscovery()
	server.Stop()
	cancel()
}
