package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seo-optimizer/scorer/analyzer"
	"github.com/seo-optimizer/scorer/api"
	"github.com/seo-optimizer/scorer/config"
	"github.com/seo-optimizer/scorer/logging"
	"github.com/seo-optimizer/scorer/stats"
)

const (
	retainMonths    = 12
	shutdownTimeout = 10 * time.Second
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded := config.LoadEnv()

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}
			defer logger.Sync()

			if len(loaded) == 0 {
				logger.Info("no .env file found, using environment variables")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, logger)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	gin.SetMode(cfg.GinMode)

	storage, err := stats.NewStorage(cfg.DataDir, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := storage.Shutdown(); err != nil {
			logger.Error("failed to save usage statistics", zap.Error(err))
		}
	}()
	storage.Cleanup(retainMonths)

	traffic, err := stats.NewTraffic(cfg.DataDir)
	if err != nil {
		return err
	}
	defer func() {
		if err := traffic.Save(); err != nil {
			logger.Error("failed to save traffic statistics", zap.Error(err))
		}
	}()

	seoAnalyzer := analyzer.New(analyzer.Options{
		Profile:         cfg.Profile,
		CacheTTL:        cfg.CacheTTL,
		CacheSize:       cfg.CacheSize,
		LinkCacheTTL:    cfg.LinkCacheTTL,
		LinkCacheSize:   cfg.LinkCacheSize,
		LinkConcurrency: cfg.LinkCheckConcurrency,
		FetchTimeout:    cfg.FetchTimeout,
	}, storage, logger)

	server := api.NewServer(api.Options{
		Profile:        cfg.Profile,
		DevMode:        cfg.DevMode,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	}, seoAnalyzer, storage, traffic, logger)
	defer server.Close()

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("addr", "http://localhost:"+cfg.Port),
			zap.String("mode", cfg.GinMode),
			zap.Bool("devMode", cfg.DevMode),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
