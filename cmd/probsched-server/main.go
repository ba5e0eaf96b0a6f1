package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/me/probsched/internal/cmdline"
	"github.com/me/probsched/internal/config"
	"github.com/me/probsched/internal/execution"
	"github.com/me/probsched/internal/logging"
	"github.com/me/probsched/internal/metrics"
	"github.com/me/probsched/internal/server"
	"github.com/me/probsched/internal/simulation"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML config file")
	addr := flag.String("addr", "", "Listen address (overrides server.addr)")
	engine := flag.String("engine", "", "Engine executable (overrides engine.path)")
	runtimeName := flag.String("runtime", "", "Engine runtime: local, docker")
	image := flag.String("image", "", "Engine image for the docker runtime")
	timeout := flag.Duration("timeout", 0, "Engine time limit (default 30s)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", "", "Log format (text, json)")
	noMetrics := flag.Bool("no-metrics", false, "Do not serve /metrics")
	debug := flag.Bool("debug", false, "Shorthand for --log-level=debug")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	setIf(&cfg.Server.Addr, *addr)
	setIf(&cfg.Engine.Path, *engine)
	setIf(&cfg.Engine.Runtime, *runtimeName)
	setIf(&cfg.Engine.Image, *image)
	setIf(&cfg.Log.Level, *logLevel)
	setIf(&cfg.Log.Format, *logFormat)
	if *timeout > 0 {
		cfg.Engine.Timeout = *timeout
	}
	if *noMetrics {
		cfg.Server.Metrics = false
	}
	if *debug {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration:\n%v\n", err)
		os.Exit(1)
	}

	level, _ := logging.ParseLevel(cfg.Log.Level)
	logger := logging.NewLogger(level, cfg.Log.Format)

	rt, err := cfg.Engine.NewRuntime(logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "engine runtime: %v\n", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	runner := simulation.NewRunner(
		cmdline.NewBuilder(cfg.Engine.Path),
		execution.NewInvoker(rt, cfg.Engine.Timeout, logger),
		logger,
		simulation.WithMetrics(metrics.NewCollector(reg)),
	)
	srv := server.New(cfg.Server, runner, logger,
		server.WithGatherer(reg),
		server.WithRuntimeName(rt.Name()),
	)

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server starting",
			"addr", cfg.Server.Addr,
			"engine", cfg.Engine.Path,
			"runtime", rt.Name(),
			"timeout", cfg.Engine.Timeout.String(),
		)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	// An in-flight simulation may need up to the engine time limit to finish.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Engine.Timeout+5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown error: %v\n", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
