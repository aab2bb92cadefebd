package main

import (
	"context"
	"os"

	"github.com/aretw0/tauribridge"
	httpadapter "github.com/aretw0/tauribridge/pkg/adapters/http"
	"github.com/aretw0/tauribridge/pkg/adapters/mcp"
	"github.com/aretw0/tauribridge/pkg/config"
	"github.com/aretw0/tauribridge/pkg/executor"
	"github.com/aretw0/tauribridge/pkg/observability"
	"github.com/aretw0/tauribridge/pkg/session"
	"github.com/aretw0/tauribridge/pkg/shutdown"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server",
	Long: `Starts the MCP server and exposes every automation command as a tool.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.

The server tears down every session and tauri-driver on SIGINT, SIGTERM,
when stdin closes, or when an unrecovered fault happens.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("transport", "", "Transport protocol to use: 'stdio' or 'sse'")
	serveCmd.Flags().Int("port", 0, "Port to listen on (only for SSE)")
	serveCmd.Flags().String("base-url", "", "Public base URL of the SSE endpoint")
	serveCmd.Flags().Int("driver-port", 0, "Default tauri-driver port")
	serveCmd.Flags().String("metrics-addr", "", "Serve /metrics and /healthz on this address")
	serveCmd.Flags().Bool("trace", false, "Write command spans to stderr")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyServeFlags(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sup := newSupervisor(cfg, store, logger)
	if n, err := sup.ReapStale(ctx); err != nil {
		logger.Warn("failed to reap stale drivers", "err", err)
	} else if n > 0 {
		logger.Info("reaped stale drivers", "count", n)
	}

	shutdownOpts := []shutdown.Option{
		shutdown.WithExit(os.Exit),
		shutdown.WithHook("store", store.close),
	}
	if cfg.Tracing.Enabled {
		tp, err := observability.NewTracerProvider("tauri-mcp", tauribridge.Version, os.Stderr)
		if err != nil {
			return err
		}
		shutdownOpts = append(shutdownOpts, shutdown.WithHook("tracing", tp.Shutdown))
	}

	metrics := observability.NewMetrics(prometheus.NewRegistry())
	registry := session.NewRegistry(session.WithStore(store), session.WithLogger(logger))
	exec := executor.New(
		executor.WithDefaultWait(cfg.Session.DefaultWait.Std()),
		executor.WithCommandGrace(cfg.Session.CommandGrace.Std()),
		executor.WithMetrics(metrics),
		executor.WithLogger(logger),
	)

	bridge := tauribridge.New(
		tauribridge.WithDriver(sup),
		tauribridge.WithRegistry(registry),
		tauribridge.WithExecutor(exec),
		tauribridge.WithMetrics(metrics),
		tauribridge.WithLogger(logger),
		tauribridge.WithDriverPort(cfg.Driver.Port),
		tauribridge.WithBrowserName(cfg.Session.BrowserName),
		tauribridge.WithCapabilities(cfg.Session.Capabilities),
		tauribridge.WithShutdownOptions(shutdownOpts...),
	)
	coord := bridge.Coordinator()
	coord.Watch(ctx)

	srv := mcp.NewServer(bridge,
		mcp.WithLogger(logger),
		mcp.WithPanicHandler(func(err error) { coord.Trigger(shutdown.CauseFault, err) }),
		mcp.WithMetricsHandler(metrics.Handler()),
	)

	var servers []func(ctx context.Context) error
	if cfg.Metrics.Addr != "" {
		router := httpadapter.NewRouter(bridge.Health,
			httpadapter.WithMetrics(metrics.Handler()),
			httpadapter.WithLogger(logger),
		)
		servers = append(servers, func(ctx context.Context) error {
			return httpadapter.Serve(ctx, cfg.Metrics.Addr, router, logger)
		})
	}

	transport := func(ctx context.Context) error {
		logger.Info("starting MCP server (stdio)")
		return srv.ServeStdio(ctx, os.Stdin, os.Stdout)
	}
	if cfg.Transport.Kind == config.TransportSSE {
		transport = func(ctx context.Context) error {
			logger.Info("starting MCP server (SSE)", "port", cfg.Transport.Port)
			return srv.ServeSSE(ctx, cfg.Transport.Port, cfg.Transport.BaseURL)
		}
	}

	serveUntilShutdown(ctx, coord, transport, servers...)
	return nil
}

// serveUntilShutdown runs the MCP transport next to the auxiliary servers and
// blocks until teardown has finished. A transport that returns cleanly before
// ctx ends means its input stream closed. A failing server triggers an
// asynchronous-error shutdown and a panicking one a fault.
func serveUntilShutdown(ctx context.Context, coord *shutdown.Coordinator, transport func(context.Context) error, servers ...func(context.Context) error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-coord.Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	g, gctx := errgroup.WithContext(ctx)

	for _, serve := range servers {
		g.Go(func() error {
			defer coord.Recover("server")
			return serve(gctx)
		})
	}

	g.Go(func() error {
		defer coord.Recover("transport")
		if err := transport(gctx); err != nil {
			return err
		}
		if gctx.Err() == nil {
			coord.Trigger(shutdown.CauseStreamClosed, nil)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		coord.Trigger(shutdown.CauseAsyncError, err)
	} else {
		coord.Trigger(shutdown.CauseExplicit, nil)
	}

	<-coord.Done()
}

func applyServeFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("transport") {
		cfg.Transport.Kind, _ = flags.GetString("transport")
	}
	if flags.Changed("port") {
		cfg.Transport.Port, _ = flags.GetInt("port")
	}
	if flags.Changed("base-url") {
		cfg.Transport.BaseURL, _ = flags.GetString("base-url")
	}
	if flags.Changed("metrics-addr") {
		cfg.Metrics.Addr, _ = flags.GetString("metrics-addr")
	}
	if flags.Changed("trace") {
		cfg.Tracing.Enabled, _ = flags.GetBool("trace")
	}
}
