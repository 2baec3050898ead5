package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/evect-health/fulfillment/internal/api/router"
	"github.com/evect-health/fulfillment/internal/app/bootstrap"
	appconfig "github.com/evect-health/fulfillment/internal/config"
	"github.com/evect-health/fulfillment/internal/fulfillment"
	"github.com/evect-health/fulfillment/internal/knowledge"
	"github.com/evect-health/fulfillment/internal/observability/metrics"
	"github.com/evect-health/fulfillment/pkg/logging"
)

func main() {
	// A missing .env is fine outside local development.
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting eVect fulfillment webhook",
		"env", cfg.Env,
		"port", cfg.Port,
		"knowledge_backend", cfg.KnowledgeBackend,
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	fulfillmentMetrics := metrics.NewFulfillmentMetrics(registry)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 15*time.Second)
	kb, err := bootstrap.BuildKnowledge(startupCtx, cfg, fulfillmentMetrics, logger)
	cancelStartup()
	if err != nil {
		logger.Error("failed to build knowledge source", "error", err)
		os.Exit(1)
	}
	defer kb.Close()

	agent := fulfillment.NewAgent(kb.Source, bootstrap.BuildPolicy(cfg), logger)
	dispatcher := fulfillment.NewDispatcher(agent.Registry(), logger, fulfillmentMetrics)

	readiness := make(map[string]router.ReadinessCheck, len(kb.Checks))
	for name, check := range kb.Checks {
		readiness[name] = check
	}

	r := router.New(&router.Config{
		Logger:          logger,
		Webhook:         fulfillment.NewWebhookHandler(dispatcher, logger),
		WebhookUsername: cfg.WebhookUsername,
		WebhookPassword: cfg.WebhookPassword,
		CacheHandler:    knowledge.NewCacheHandler(kb.Invalidator(), logger),
		AdminAuthSecret: cfg.AdminJWTSecret,
		MetricsHandler:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Readiness:       readiness,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
