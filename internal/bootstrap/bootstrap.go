package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nexodify/forensic-engine/internal/config"
	"github.com/nexodify/forensic-engine/internal/core/ports"
	"github.com/nexodify/forensic-engine/internal/core/usecase"
	"github.com/nexodify/forensic-engine/internal/export"
	"github.com/nexodify/forensic-engine/internal/infrastructure/authbroker"
	"github.com/nexodify/forensic-engine/internal/infrastructure/extractor/pdfx"
	"github.com/nexodify/forensic-engine/internal/infrastructure/llm"
	"github.com/nexodify/forensic-engine/internal/infrastructure/payments/hostedcheckout"
	"github.com/nexodify/forensic-engine/internal/infrastructure/queue/nats"
	"github.com/nexodify/forensic-engine/internal/infrastructure/repository/postgres"
	"github.com/nexodify/forensic-engine/internal/infrastructure/resilience"
	"github.com/nexodify/forensic-engine/internal/infrastructure/sessioncache"
	"github.com/nexodify/forensic-engine/internal/infrastructure/storage/localfs"
	"github.com/nexodify/forensic-engine/internal/plans"
)

// Options carries per-binary hooks into the shared wiring.
type Options struct {
	// Tokens receives LLM token usage for metrics. Optional.
	Tokens llm.TokenObserver
	// QueueLag receives the enqueue-to-dequeue delay of consumed
	// jobs. Optional, only meaningful for the worker.
	QueueLag func(time.Duration)
	// Process receives processing telemetry. Optional, only
	// meaningful for the worker.
	Process usecase.ProcessObservers
}

type App struct {
	Config  config.Config
	Catalog *plans.Catalog

	Queue ports.MessageQueue

	Auth      ports.AuthService
	Ingest    ports.PeriziaIngestor
	Process   ports.PeriziaProcessor
	Analyses  ports.AnalysisReader
	Forensics ports.ForensicsService
	Assistant ports.AssistantService
	Billing   ports.BillingService
	History   ports.HistoryService
	Dashboard ports.DashboardService
	Admin     ports.AdminService

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger, opts Options) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	users := postgres.NewUserRepository(db)
	sessions := postgres.NewSessionRepository(db)
	analyses := postgres.NewAnalysisRepository(db)
	txns := postgres.NewTransactionRepository(db)
	audit := postgres.NewAuditRepository(db)
	forensicsRepo := postgres.NewForensicsRepository(db)
	assistantRepo := postgres.NewAssistantRepository(db)

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
		QueueLagObserver:   opts.QueueLag,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	catalog, err := plans.Load()
	if err != nil {
		return nil, fmt.Errorf("load plan catalog: %w", err)
	}

	provider, err := llm.NewProvider(llm.Config{
		Provider:       cfg.LLMProvider,
		Model:          cfg.LLMModel,
		APIKey:         cfg.LLMAPIKey,
		BaseURL:        cfg.LLMBaseURL,
		TimeoutSeconds: cfg.LLMTimeoutSeconds,
		MaxTokens:      cfg.LLMMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("init llm provider: %w", err)
	}
	analyzer := llm.NewVerdictAnalyzer(provider, llm.AnalyzerOptions{
		Executor:      executor,
		RatePerMinute: cfg.LLMRatePerMinute,
		Tokens:        opts.Tokens,
	})
	answerer := llm.NewAssistantAnswerer(analyzer)
	visionAnalyzer := llm.NewForensicsAnalyzer(analyzer)

	broker := authbroker.New(cfg.AuthBrokerURL, authbroker.Options{
		ResilienceExecutor: executor,
	})
	checkout := hostedcheckout.New(cfg.CheckoutBaseURL, cfg.CheckoutAPIKey, cfg.CheckoutWebhookSecret, hostedcheckout.Options{
		ResilienceExecutor: executor,
	})
	cache := sessioncache.New(time.Duration(cfg.SessionCacheTTLSeconds) * time.Second)

	extractor := pdfx.NewExtractor(storage)
	exporter := export.NewService(users, txns, logger)

	processor := usecase.NewProcessPeriziaUseCase(analyses, users, extractor, analyzer, cfg.AnalysisTextBudget)
	processor.SetObservers(opts.Process)

	app := &App{
		Config:  cfg,
		Catalog: catalog,
		Queue:   queue,

		Auth: usecase.NewAuthUseCase(broker, users, sessions, cache, catalog,
			cfg.MasterAdminEmail,
			time.Duration(cfg.SessionTTLDays)*24*time.Hour,
			time.Duration(cfg.SessionCacheTTLSeconds)*time.Second),
		Ingest:    usecase.NewIngestPeriziaUseCase(analyses, users, storage, queue, cfg.MaxUploadBytes),
		Process:   processor,
		Analyses:  usecase.NewAnalysisQueryUseCase(analyses),
		Forensics: usecase.NewForensicsUseCase(visionAnalyzer, forensicsRepo, users),
		Assistant: usecase.NewAssistantUseCase(answerer, assistantRepo, analyses, users),
		Billing:   usecase.NewBillingUseCase(checkout, txns, users, catalog),
		History:   usecase.NewHistoryUseCase(analyses, forensicsRepo, assistantRepo),
		Dashboard: usecase.NewDashboardUseCase(analyses, forensicsRepo, assistantRepo),
		Admin:     usecase.NewAdminUseCase(users, analyses, txns, audit, exporter, catalog),

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}
	return app, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
