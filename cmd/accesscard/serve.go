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

	"go.uber.org/zap"

	"github.com/bulkexchange/accesscard/internal/config"
	"github.com/bulkexchange/accesscard/internal/imagehost"
	"github.com/bulkexchange/accesscard/internal/observability"
	"github.com/bulkexchange/accesscard/internal/render"
	"github.com/bulkexchange/accesscard/internal/server"
	"github.com/bulkexchange/accesscard/internal/xapi"
)

const shutdownTimeout = 10 * time.Second

func runServe() error {
	cfg, err := config.LoadServer()
	if err != nil {
		return err
	}
	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck // best-effort flush

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := newHTTPServer(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if cfg.X.BearerToken == "" {
		logger.Warn("no X API bearer token configured; profile lookups will fail")
	}

	printServeBanner(os.Stdout, cfg.Addr, cfg.ImageHost)
	return serve(ctx, srv, logger)
}

func newHTTPServer(ctx context.Context, cfg config.Server, logger *zap.Logger) (*http.Server, error) {
	uploader, err := imagehost.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init image host: %w", err)
	}
	profiles := xapi.New(cfg.X.BaseURL, cfg.X.BearerToken, cfg.X.Timeout)
	exporter := render.NewExporter(render.CardRasterizer{}, render.NewAvatarLoader(nil), logger)

	s := server.New(profiles, uploader, exporter, server.WithLogger(logger))
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Router(),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}, nil
}

// serve runs srv until ctx is canceled, then drains in-flight requests.
func serve(ctx context.Context, srv *http.Server, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
