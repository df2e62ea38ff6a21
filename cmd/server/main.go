// Command server runs the grievance lifecycle service: HTTP API, Prometheus
// metrics, health probes, and the optional overdue-escalation sweeper.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	"gramseva/internal/grievance/handler"
	"gramseva/internal/grievance/metrics"
	"gramseva/internal/grievance/service"
	grievancestore "gramseva/internal/grievance/store"
	"gramseva/internal/grievance/sweeper"
	"gramseva/internal/platform/config"
	"gramseva/internal/platform/database"
	"gramseva/internal/platform/health"
	"gramseva/internal/platform/logger"
	request "gramseva/internal/platform/middleware/request"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing gramseva",
		"addr", cfg.Addr,
		"sweep_enabled", cfg.SweepEnabled,
	)

	dbCfg := database.DefaultConfig()
	dbCfg.URL = cfg.DatabaseURL
	pool, err := database.New(dbCfg)
	if err != nil {
		log.Error("database init failed", "error", err)
		os.Exit(1)
	}

	var st grievancestore.Store
	if pool != nil {
		st = grievancestore.NewPostgres(pool.DB())
		log.Info("using postgres store")
	} else {
		st = grievancestore.NewInMemoryStore(nil)
		log.Warn("no database configured, using in-memory store")
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	engine := service.New(st,
		service.WithLogger(log),
		service.WithMetrics(m),
		service.WithTracer(otel.Tracer("gramseva/grievance")),
	)

	healthHandler := health.New()
	if pool != nil {
		healthHandler.RegisterCheck("database", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pool.Healthy(ctx)
		})
	}

	router := chi.NewRouter()
	router.Use(request.RequestID)
	router.Use(request.Logger(log))
	router.Use(request.Recovery(log))
	router.Handle("/metrics", promhttp.Handler())
	healthHandler.Register(router)
	handler.New(engine, log).Register(router)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if cfg.SweepEnabled {
		sw := sweeper.New(engine, log, sweeper.WithInterval(cfg.SweepInterval))
		group.Go(func() error {
			if err := sw.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	group.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}

	if pool != nil {
		if err := pool.Close(); err != nil {
			log.Error("closing database pool failed", "error", err)
		}
	}
	log.Info("server stopped")
}
