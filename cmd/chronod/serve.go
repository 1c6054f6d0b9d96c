package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/szaher/chronos/internal/config"
	"github.com/szaher/chronos/internal/protocol"
	"github.com/szaher/chronos/internal/server"
	"github.com/szaher/chronos/internal/session"
	"github.com/szaher/chronos/internal/telemetry"
	"github.com/szaher/chronos/internal/timezone"
	"github.com/szaher/chronos/internal/tools"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		port       int
		defaultTZ  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the time server",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runServe(configPath, port, defaultTZ)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to YAML config file")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Listen port (overrides config and PORT)")
	cmd.Flags().StringVar(&defaultTZ, "default-timezone", "", "Default IANA timezone for omitted arguments")

	return cmd
}

func runServe(configPath string, port int, defaultTZ string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if port != 0 {
		cfg.Port = port
	}
	if defaultTZ != "" {
		cfg.DefaultTimezone = defaultTZ
	}

	logger := telemetry.NewLogger(os.Stdout, telemetry.ParseLevel(cfg.LogLevel))

	// The default zone for omitted tool arguments is resolved once at
	// startup and injected into every per-session registry.
	zone := cfg.DefaultTimezone
	if zone == "" {
		zone = timezone.LocalZone()
	}
	if !timezone.IsValid(zone) {
		return fmt.Errorf("default timezone %q is not a recognized IANA timezone", zone)
	}

	metrics := telemetry.NewMetrics()

	newEngine := func() *protocol.Engine {
		registry := tools.NewRegistry(zone, timezone.NewEngine())
		return protocol.NewEngine(registry, logger, metrics, serverName, version)
	}
	sessions := session.NewManager(newEngine, logger)

	srv := server.NewServer(sessions,
		server.WithLogger(logger),
		server.WithMetrics(metrics),
		server.WithVersion(version),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("chronod starting", "port", cfg.Port, "default_timezone", zone)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := srv.ListenAndServe(fmt.Sprintf(":%d", cfg.Port))
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
