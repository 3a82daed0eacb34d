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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/AmineOzil/user-registration/internal/audit"
	httpapi "github.com/AmineOzil/user-registration/internal/http"
	"github.com/AmineOzil/user-registration/internal/platform/config"
	"github.com/AmineOzil/user-registration/internal/platform/httpserver"
	"github.com/AmineOzil/user-registration/internal/platform/logger"
	"github.com/AmineOzil/user-registration/internal/platform/metrics"
	sentryreporter "github.com/AmineOzil/user-registration/internal/platform/sentry"
	"github.com/AmineOzil/user-registration/internal/user/handler"
	userMetrics "github.com/AmineOzil/user-registration/internal/user/metrics"
	"github.com/AmineOzil/user-registration/internal/user/service"
	"github.com/AmineOzil/user-registration/pkg/platform/httputil"
)

const sentryFlushTimeout = 2 * time.Second

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "user-registration: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	log := logger.New(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reporter, err := sentryreporter.New(cfg.Sentry)
	if err != nil {
		return err
	}
	defer reporter.Flush(sentryFlushTimeout)

	users, err := openUserStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer users.close()

	sink, err := openAuditSink(ctx, cfg, log, users.db)
	if err != nil {
		return err
	}
	defer sink.close()
	queue, worker := audit.NewQueue(sink.store, cfg.Audit.QueueSize, log)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	svc := service.New(users.store,
		service.WithLogger(log),
		service.WithAuditPublisher(audit.NewPublisher(queue)),
		service.WithMetrics(userMetrics.New(reg)),
	)
	errWriter := httputil.NewErrorWriter(log, httputil.WithReporter(reporter))

	checks := map[string]httpapi.HealthCheck{"store": users.ping}
	if sink.ping != nil {
		checks["audit"] = sink.ping
	}
	router := httpapi.NewRouter(httpapi.Deps{
		Logger:       log,
		Errors:       errWriter,
		Metrics:      metrics.New(reg, reg),
		HealthChecks: checks,
		Handlers:     []httpapi.RouteRegistrar{handler.New(svc, log, errWriter)},
	})
	srv := httpserver.New(cfg.Addr, router)

	// The worker outlives the server so in-flight audit events are flushed.
	workerCtx, stopWorker := context.WithCancel(context.WithoutCancel(ctx))
	defer stopWorker()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return worker.Run(workerCtx)
	})
	g.Go(func() error {
		log.Info("starting user-registration",
			"addr", cfg.Addr,
			"store", cfg.Store.Backend,
			"sentry", reporter.Enabled(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down", "timeout", cfg.ShutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		stopWorker()
		if err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	err = g.Wait()
	if err != nil {
		log.Error("server stopped", "error", err)
		return err
	}
	log.Info("server stopped")
	return nil
}

func logClose(log *slog.Logger, name string, closeFn func() error) {
	if err := closeFn(); err != nil {
		log.Warn("close failed", "resource", name, "error", err)
	}
}
