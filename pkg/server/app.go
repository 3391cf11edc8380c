package server

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"FinSpread/internal/domain/models"
	"FinSpread/internal/usecase"
	"FinSpread/pkg/config"
	xhttp "FinSpread/pkg/http"
	applogger "FinSpread/pkg/logger"
	"FinSpread/pkg/queue"
)

// App encapsulates the application lifecycle for both batch scans and the HTTP service.
// Infrastructure clients are owned by the injector cleanup, not by App.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	scanner    *usecase.SpreadScanner
	handler    xhttp.Handler
	queue      *queue.RedisQueue
	httpServer *xhttp.Server
}

// Option configures optional App infrastructure.
type Option func(*App)

// WithQueue runs the scan queue workers while serving.
func WithQueue(q *queue.RedisQueue) Option {
	return func(a *App) { a.queue = q }
}

// New creates a new App instance.
func New(cfg *config.Config, l *applogger.Logger, scanner *usecase.SpreadScanner, h xhttp.Handler, opts ...Option) *App {
	if l == nil {
		l = applogger.Nop()
	}
	a := &App{cfg: cfg, log: l, scanner: scanner, handler: h}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Logger returns the application logger.
func (a *App) Logger() *applogger.Logger { return a.log }

// Scan runs every symbol and option type once and writes the results to the configured sinks.
func (a *App) Scan(ctx context.Context, symbols []string, types []models.OptionType) []*models.ScanResult {
	a.log.Info("scan started",
		applogger.Strings("symbols", symbols),
		applogger.Int("types", len(types)),
		applogger.Strings("sinks", a.cfg.Output.Sinks))
	results := a.scanner.ScanAll(ctx, symbols, types)

	failed := 0
	for _, r := range results {
		if r.Failed() {
			failed++
		}
	}
	a.log.Info("scan finished", applogger.Int("runs", len(results)), applogger.Int("failed", failed))
	return results
}

// Serve starts the HTTP server and queue workers and blocks until interrupted.
func (a *App) Serve() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.httpServer = xhttp.NewServer([]xhttp.Handler{a.handler},
		xhttp.WithHost(a.cfg.Server.Host),
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithLogger(a.log),
	)

	if a.queue != nil {
		if err := a.queue.Start(ctx); err != nil {
			a.log.Error("queue start error", applogger.Error(err))
			return err
		}
	}

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}

	var runErr error
	select {
	case <-ctx.Done():
		a.log.Info("shutdown signal received")
	case runErr = <-a.httpServer.Errors():
		a.log.Error("http server error", applogger.Error(runErr))
	}

	if err := a.shutdown(context.Background()); err != nil {
		return errors.Join(runErr, err)
	}
	return runErr
}

// shutdown stops the HTTP server first so no new scans are queued, then drains the workers.
func (a *App) shutdown(ctx context.Context) error {
	a.log.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if a.httpServer != nil {
		if err := a.httpServer.Stop(shutdownCtx); err != nil {
			a.log.Error("http shutdown error", applogger.Error(err))
			errs = append(errs, err)
		}
	}
	if a.queue != nil {
		if err := a.queue.Stop(shutdownCtx); err != nil {
			a.log.Warn("queue stop error", applogger.Error(err))
			errs = append(errs, err)
		}
	}

	a.log.Info("shutdown complete")
	return errors.Join(errs...)
}
