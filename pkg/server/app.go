package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"SignalScan/internal/service/finnhub"
	"SignalScan/pkg/config"
	xhttp "SignalScan/pkg/http"
	xlogger "SignalScan/pkg/logger"
)

// App encapsulates the application lifecycle: HTTP server, optional quote
// stream, and signal-driven graceful shutdown.
type App struct {
	cfg        *config.Config
	logger     *xlogger.Logger
	handler    xhttp.Handler
	stream     *finnhub.Stream
	httpServer *xhttp.Server
}

// New creates an App instance with all dependencies.
func New(cfg *config.Config, logger *xlogger.Logger, handler xhttp.Handler, stream *finnhub.Stream) *App {
	return &App{
		cfg:     cfg,
		logger:  logger,
		handler: handler,
		stream:  stream,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metricsPath := a.cfg.Metrics.Path
	if !a.cfg.Metrics.Enabled {
		metricsPath = ""
	} else if metricsPath == "" {
		metricsPath = "/metrics"
	}

	a.httpServer = xhttp.NewServer(a.handler, a.logger,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(metricsPath),
	)

	if a.stream != nil {
		go func() {
			if err := a.stream.Run(ctx); err != nil && ctx.Err() == nil {
				a.logger.Error("quote stream stopped", xlogger.Error(err))
			}
		}()
		a.logger.Info("quote stream enabled")
	}

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", xlogger.Error(err))
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", xlogger.Error(err))
		return err
	}
	return nil
}
