package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/riskibarqy/match-roster/internal/app"
	"github.com/riskibarqy/match-roster/internal/config"
	"github.com/riskibarqy/match-roster/internal/observability"
	"github.com/riskibarqy/match-roster/internal/platform/logging"
	"github.com/sourcegraph/conc"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	var logger *logging.Logger
	if cfg.LogFormat == config.LogFormatConsole {
		logger = logging.NewConsole(cfg.LogLevel)
	} else {
		logger = logging.NewJSON(cfg.LogLevel)
	}
	logger = logger.With("service", cfg.ServiceName, "version", cfg.ServiceVersion, "env", cfg.AppEnv)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}
	stopProfiling, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		os.Exit(1)
	}
	pprofSrv, err := observability.NewPprofServer(cfg, logger)
	if err != nil {
		logger.Error("init pprof", "error", err)
		os.Exit(1)
	}

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}
	srv := application.HTTPServer

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg conc.WaitGroup
	wg.Go(func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			stop()
		}
	})
	wg.Go(func() {
		observability.ServePprof(pprofSrv, logger)
	})
	wg.Go(func() {
		application.RunJanitor(ctx)
	})

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	exitCode := 0
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		exitCode = 1
	}
	if err := observability.StopPprofServer(pprofSrv, logger, shutdownTimeout); err != nil {
		logger.Error("pprof shutdown failed", "error", err)
	}
	wg.Wait()

	if err := stopProfiling(); err != nil {
		logger.Error("pyroscope stop failed", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("uptrace shutdown failed", "error", err)
	}

	logger.Info("http server stopped")
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
