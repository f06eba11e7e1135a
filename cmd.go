// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

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

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/go-core-stack/sports-stats-proxy/pkg/config"
	"github.com/go-core-stack/sports-stats-proxy/pkg/gateway"
	"github.com/go-core-stack/sports-stats-proxy/pkg/proxy"
)

func newRootCmd() *cobra.Command {
	var cfg config.Config

	root := &cobra.Command{
		Use:           "sports-stats-proxy",
		Short:         "Relay API-Sports statistics requests with the API key attached",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := setup()
			if err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
		// Without a subcommand pick the mode from the runtime environment.
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Lambda {
				return runLambda(cfg)
			}
			return runServer(cmd.Context(), cfg)
		},
	}

	root.AddCommand(&cobra.Command{
		Use:   "lambda",
		Short: "Serve API Gateway HTTP API events through the Lambda runtime",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLambda(cfg)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run a local HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), cfg)
		},
	})

	return root
}

// setup loads configuration and applies the log level.
func setup() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("load configuration: %w", err)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return config.Config{}, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	log.Logger = log.Level(level)

	if cfg.APIKey == "" {
		// Not fatal: every forwarded request reports the configuration error.
		log.Warn().Msg("API_KEY environment variable is not set")
	}

	return cfg, nil
}

func runLambda(cfg config.Config) error {
	p, err := proxy.New(cfg)
	if err != nil {
		return fmt.Errorf("construct proxy: %w", err)
	}

	log.Info().
		Str("upstream", cfg.Upstream.String()).
		Msg("starting lambda handler")

	lambda.Start(gateway.NewHandler(p))
	return nil
}

func runServer(ctx context.Context, cfg config.Config) error {
	p, err := proxy.New(cfg)
	if err != nil {
		return fmt.Errorf("construct proxy: %w", err)
	}

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      p,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	go func() {
		log.Info().
			Str("listen_addr", cfg.ListenAddr).
			Str("upstream", cfg.Upstream.String()).
			Msg("starting sports stats proxy")
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("proxy server exited unexpectedly")
		}
	}()

	waitForShutdown(ctx, server, cfg.GracefulShutdownTimeout)
	return nil
}

func waitForShutdown(ctx context.Context, srv *http.Server, timeout time.Duration) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	<-stop

	log.Info().Msg("shutting down sports stats proxy")

	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed; forcing close")
		if closeErr := srv.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("forced close failed")
		}
	}

	log.Info().Msg("proxy stopped")
}
