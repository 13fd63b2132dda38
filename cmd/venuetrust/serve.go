package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/venuetrust/internal/api"
	"github.com/dshills/venuetrust/internal/config"
	"github.com/dshills/venuetrust/internal/logging"
	"github.com/dshills/venuetrust/internal/publish"
	"github.com/dshills/venuetrust/internal/store"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the trust scoring HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, map[string]string{
				"http_addr":    "addr",
				"database_url": "database-url",
				"publish":      "publish",
				"s3_region":    "s3-region",
				"redact":       "redact",
			})
			if err != nil {
				return exitError(3, "failed to load config: %v", err)
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.String("addr", ":8080", "Listen address")
	flags.String("database-url", "", "PostgreSQL URL for the venue endpoint")
	flags.String("publish", "", "Publish venue reports to kafka://brokers/topic or s3://bucket/prefix")
	flags.String("s3-region", "", "AWS region for s3:// publish targets")
	flags.Bool("redact", true, "Redact contact details in reports")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	logger := logging.New("venuetrust", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []api.Option{api.WithRedaction(cfg.Redact)}

	if cfg.DatabaseURL != "" {
		pool, err := store.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return exitError(4, "database error: %v", err)
		}
		defer pool.Close()
		opts = append(opts, api.WithStore(store.NewRepository(pool)))
		logger.Info("connected to database")
	} else {
		logger.Warn("no database configured; venue endpoint disabled")
	}

	pub, err := publish.Resolve(ctx, cfg.Publish, cfg.S3Region)
	if err != nil {
		return exitError(4, "publisher error: %v", err)
	}
	if pub != nil {
		defer pub.Close()
		opts = append(opts, api.WithPublisher(pub))
		logger.Info("publishing reports", slog.String("sink", pub.Name()))
	}

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      api.NewServer(logger, version, opts...).Router(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", slog.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return exitError(4, "server error: %v", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return exitError(4, "shutdown failed: %v", err)
	}
	logger.Info("server stopped")
	return nil
}
