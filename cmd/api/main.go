package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/nexodify/forensic-engine/internal/adapters/http"
	"github.com/nexodify/forensic-engine/internal/bootstrap"
	"github.com/nexodify/forensic-engine/internal/config"
	"github.com/nexodify/forensic-engine/internal/observability/logging"
	"github.com/nexodify/forensic-engine/internal/observability/metrics"
)

const serviceName = "api"

func main() {
	cfg := config.Load()
	logger := logging.NewJSONLogger(serviceName, cfg.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpMetrics := metrics.NewHTTPServerMetrics(serviceName)

	app, err := bootstrap.New(ctx, cfg, logger, bootstrap.Options{
		Tokens: func(model string, promptTokens, completionTokens int) {
			httpMetrics.RecordTokenUsage(serviceName, "analysis", model, promptTokens, completionTokens)
		},
	})
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	router := httpadapter.NewRouter(httpadapter.RouterConfig{
		Auth:      app.Auth,
		Ingest:    app.Ingest,
		Analyses:  app.Analyses,
		Forensics: app.Forensics,
		Assistant: app.Assistant,
		Billing:   app.Billing,
		History:   app.History,
		Dashboard: app.Dashboard,
		Admin:     app.Admin,

		Catalog: app.Catalog,
		Metrics: httpMetrics,
		Logger:  logger,

		Traffic: httpadapter.TrafficControlConfig{
			RequestsPerSecond: cfg.APIRateLimitRPS,
			Burst:             cfg.APIRateLimitBurst,
			MaxConcurrent:     cfg.APIMaxConcurrent,
		},
		SessionMaxAge:  cfg.SessionTTLDays * 24 * 60 * 60,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("api listening", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("api server error: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("api shutdown error", "error", err)
	}
}
