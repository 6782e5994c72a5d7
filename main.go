package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phuslu/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/pliu/splayedit/pkg/bench"
	"github.com/pliu/splayedit/pkg/config"
	"github.com/pliu/splayedit/pkg/harness"
	"github.com/pliu/splayedit/pkg/metrics"
	"github.com/pliu/splayedit/pkg/stream"
)

var (
	debug       = flag.Bool("debug", false, "Enable debug logging")
	metricsPort = flag.Int("metrics.port", 0, "Port for the Prometheus metrics server, 0 to disable")
	configPath  = flag.String("config.path", "config.yaml", "Path to the configuration file")
	mode        = flag.String("mode", "", "Workload to run: stdin, bench or stream (overrides the config file)")
)

func main() {
	flag.Parse()

	log.DefaultLogger = log.Logger{
		Caller:     1,
		TimeFormat: "2006-01-02 15:04:05",
		// stdout carries the edited sequence in stdin mode.
		Writer: &log.IOWriter{Writer: os.Stderr},
	}

	if *debug {
		log.DefaultLogger.Level = log.DebugLevel
		log.Debug().Msg("Debug logging enabled")
	}

	cfg, err := config.GetConfigFromFile(*configPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Fatal().Err(err).Msgf("failed to load config from %s", *configPath)
		}
		log.Debug().Msgf("No config file at %s, using defaults", *configPath)
		cfg = &config.Config{}
	}
	if *mode != "" {
		cfg.Mode = *mode
		if err := cfg.Validate(); err != nil {
			log.Fatal().Err(err).Msg("invalid configuration")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info().Msg("Shutdown signal received")
		cancel()
	}()

	metrics.Init()
	g, gctx := errgroup.WithContext(ctx)

	if *metricsPort > 0 {
		srv := newMetricsServer(*metricsPort)
		g.Go(func() error {
			log.Info().Msgf("Starting Prometheus metrics server on %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			// The server has 5 seconds to finish the request it is
			// currently handling.
			shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancelShutdown()
			return srv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		// Workloads other than stream finish on their own; ending the group
		// context then stops the metrics server.
		defer cancel()
		return runWorkload(gctx, cfg)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msgf("%s failed", cfg.GetMode())
	}
	log.Info().Msg("splayedit stopped")
}

func runWorkload(ctx context.Context, cfg *config.Config) error {
	switch cfg.GetMode() {
	case config.ModeStdin:
		return harness.Run(os.Stdin, os.Stdout)
	case config.ModeBench:
		report, err := bench.NewRunner(cfg.GetBench()).Run(ctx)
		if err != nil {
			return err
		}
		if !report.Match {
			return fmt.Errorf("bench %s: results differ", report.RunID)
		}
		return nil
	case config.ModeStream:
		session, err := stream.NewSessionFromConfig(ctx, cfg.GetStream())
		if err != nil {
			return err
		}
		return session.Run(ctx)
	default:
		return fmt.Errorf("unknown mode %q", cfg.Mode)
	}
}

func newMetricsServer(port int) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}
}
