package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Bahjat/seo-analyzer/internal/analyzer"
	"github.com/Bahjat/seo-analyzer/internal/pageinsight"
	"github.com/Bahjat/seo-analyzer/internal/platform/config"
	"github.com/Bahjat/seo-analyzer/internal/platform/logger"
	"github.com/Bahjat/seo-analyzer/internal/platform/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newHandler(cfg config.Config, log *slog.Logger) http.Handler {
	fetcher := pageinsight.NewHTTPClient(
		pageinsight.WithTimeout(cfg.FetchTimeout),
		pageinsight.WithPrivateNetworks(cfg.AllowPrivateNetworks),
	)
	engine := pageinsight.NewEngine(fetcher)
	service := analyzer.NewService(engine, log)

	mux := http.NewServeMux()
	analyzer.NewTransport(service, log).RegisterRoutes(mux)

	var h http.Handler = mux
	if cfg.RateLimitRPS > 0 {
		h = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).Middleware(h)
	}
	h = middleware.Logging(log)(h)
	return middleware.RequestID(h)
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newHandler(cfg, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("http server drained")
	return nil
}
