package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nexodify/forensic-engine/internal/bootstrap"
	"github.com/nexodify/forensic-engine/internal/config"
	"github.com/nexodify/forensic-engine/internal/core/usecase"
	"github.com/nexodify/forensic-engine/internal/observability/logging"
	"github.com/nexodify/forensic-engine/internal/observability/metrics"
)

const serviceName = "worker"

func main() {
	cfg := config.Load()
	logger := logging.NewJSONLogger(serviceName, cfg.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workerMetrics := metrics.NewWorkerMetrics(serviceName)

	app, err := bootstrap.New(ctx, cfg, logger, bootstrap.Options{
		QueueLag: func(lag time.Duration) {
			workerMetrics.ObserveQueueLag(serviceName, lag)
		},
		Process: usecase.ProcessObservers{
			ExtractedPages: func(pages int) {
				workerMetrics.ObserveExtractedPages(serviceName, pages)
			},
			FallbackVerdict: func(reason string) {
				workerMetrics.RecordFallbackVerdict(serviceName, reason)
			},
		},
	})
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	metricsMux := http.NewServeMux()
	metricsMux.Handle("GET /metrics", workerMetrics.Handler())
	metricsServer := &http.Server{
		Addr:        ":" + cfg.WorkerMetricsPort,
		Handler:     metricsMux,
		ReadTimeout: 10 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	logger.Info("worker subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeAnalysisQueued(ctx, func(handlerCtx context.Context, analysisID string) error {
		processCtx, cancel := context.WithTimeout(handlerCtx, 5*time.Minute)
		defer cancel()

		workerMetrics.StartAnalysis()
		started := time.Now()
		processErr := app.Process.ProcessByID(processCtx, analysisID)
		workerMetrics.FinishAnalysis(serviceName, time.Since(started), processErr)
		if processErr != nil {
			logger.Error("analysis failed", "analysis_id", analysisID, "error", processErr)
		}
		return processErr
	})
	if err != nil {
		log.Fatalf("worker subscribe error: %v", err)
	}
}
