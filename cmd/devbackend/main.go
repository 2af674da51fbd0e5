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

	appref "github.com/Zhima-Mochi/minipay/internal/application/reference"
	"github.com/Zhima-Mochi/minipay/internal/config"
	"github.com/Zhima-Mochi/minipay/internal/infrastructure/id"
	"github.com/Zhima-Mochi/minipay/internal/infrastructure/memory"
	"github.com/Zhima-Mochi/minipay/internal/infrastructure/observability/provider"
	"github.com/Zhima-Mochi/minipay/internal/infrastructure/observability/telemetry"
	"github.com/Zhima-Mochi/minipay/internal/pkg/logging"
	httppresentation "github.com/Zhima-Mochi/minipay/internal/presentation/http"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	fs := pflag.NewFlagSet("devbackend", pflag.ExitOnError)
	config.Flags(fs)
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(fs)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	baseLogger := logging.MustNewLogger(logging.Options{
		Service: cfg.ServiceName + "-backend",
		Env:     cfg.Env,
		File:    cfg.Log.File,
	})
	defer func() { _ = baseLogger.Sync() }()
	zap.ReplaceGlobals(baseLogger)

	systemLogger := logging.WithTrace(baseLogger, logging.SystemTraceID, logging.SystemSpanID)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.ServiceName+"-backend", cfg.Telemetry.OTLPEndpoint)
	if err != nil {
		systemLogger.Fatal("tracer_init_failed", zap.Error(err))
	}

	tel := provider.Standard(cfg.ServiceName+"-backend", baseLogger, prometheus.DefaultRegisterer)

	referenceRepo := memory.NewReferenceRepository()
	issue := appref.NewIssueReferenceUseCase(referenceRepo, id.NewUUIDGenerator(), tel)
	confirm := appref.NewConfirmPaymentUseCase(referenceRepo, tel)

	handler := httppresentation.NewHandler(issue, confirm, tel)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", handler.Router())

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		systemLogger.Info("http_server_start",
			zap.String("addr", server.Addr),
		)
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			systemLogger.Error("http_server_error",
				zap.Error(err),
			)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		systemLogger.Error("http_server_shutdown_error",
			zap.Error(err),
		)
	} else {
		systemLogger.Info("http_server_stopped")
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		systemLogger.Warn("tracer_shutdown_error", zap.Error(err))
	}
}
