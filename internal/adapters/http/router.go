package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/nexodify/forensic-engine/internal/core/ports"
	"github.com/nexodify/forensic-engine/internal/observability/metrics"
	"github.com/nexodify/forensic-engine/internal/plans"
)

const serviceName = "api"

type Router struct {
	auth      ports.AuthService
	ingest    ports.PeriziaIngestor
	analyses  ports.AnalysisReader
	forensics ports.ForensicsService
	assistant ports.AssistantService
	billing   ports.BillingService
	history   ports.HistoryService
	dashboard ports.DashboardService
	admin     ports.AdminService

	catalog *plans.Catalog
	metrics *metrics.HTTPServerMetrics
	logger  *slog.Logger

	traffic        TrafficControlConfig
	sessionMaxAge  int
	maxUploadBytes int64
}

type RouterConfig struct {
	Auth      ports.AuthService
	Ingest    ports.PeriziaIngestor
	Analyses  ports.AnalysisReader
	Forensics ports.ForensicsService
	Assistant ports.AssistantService
	Billing   ports.BillingService
	History   ports.HistoryService
	Dashboard ports.DashboardService
	Admin     ports.AdminService

	Catalog *plans.Catalog
	Metrics *metrics.HTTPServerMetrics
	Logger  *slog.Logger

	Traffic        TrafficControlConfig
	SessionMaxAge  int
	MaxUploadBytes int64
}

func NewRouter(cfg RouterConfig) *Router {
	return &Router{
		auth:           cfg.Auth,
		ingest:         cfg.Ingest,
		analyses:       cfg.Analyses,
		forensics:      cfg.Forensics,
		assistant:      cfg.Assistant,
		billing:        cfg.Billing,
		history:        cfg.History,
		dashboard:      cfg.Dashboard,
		admin:          cfg.Admin,
		catalog:        cfg.Catalog,
		metrics:        cfg.Metrics,
		logger:         cfg.Logger,
		traffic:        cfg.Traffic,
		sessionMaxAge:  cfg.SessionMaxAge,
		maxUploadBytes: cfg.MaxUploadBytes,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/{$}", rt.health)
	mux.HandleFunc("GET /api/health", rt.health)
	mux.Handle("GET /metrics", rt.metrics.Handler())

	mux.HandleFunc("POST /api/auth/session", rt.login)
	mux.HandleFunc("GET /api/plans", rt.listPlans)
	mux.HandleFunc("POST /api/webhook/stripe", rt.paymentWebhook)

	authed := func(h http.HandlerFunc) http.Handler {
		return authMiddleware(rt.auth, h)
	}

	mux.Handle("GET /api/auth/me", authed(rt.me))
	mux.Handle("POST /api/auth/logout", authed(rt.logout))

	mux.Handle("POST /api/checkout/create", authed(rt.createCheckout))
	mux.Handle("GET /api/checkout/status/{session_id}", authed(rt.checkoutStatus))

	mux.Handle("POST /api/analysis/perizia", authed(rt.uploadPerizia))
	mux.Handle("GET /api/analysis/perizia/{analysis_id}", authed(rt.getAnalysis))
	mux.Handle("PATCH /api/analysis/perizia/{analysis_id}/headline", authed(rt.correctHeadline))
	mux.Handle("GET /api/analysis/perizia/{analysis_id}/html", authed(rt.reportHTML))
	mux.Handle("GET /api/analysis/perizia/{analysis_id}/pdf", authed(rt.reportPDF))

	mux.Handle("POST /api/analysis/image", authed(rt.analyzeImages))
	mux.Handle("POST /api/analysis/assistant", authed(rt.askAssistant))

	mux.Handle("GET /api/history/perizia", authed(rt.historyAnalyses))
	mux.Handle("GET /api/history/perizia/{analysis_id}", authed(rt.getAnalysis))
	mux.Handle("GET /api/history/images", authed(rt.historyImages))
	mux.Handle("GET /api/history/assistant", authed(rt.historyAssistant))
	mux.Handle("GET /api/dashboard/stats", authed(rt.dashboardStats))

	mux.Handle("GET /api/admin/overview", authed(rt.adminOverview))
	mux.Handle("GET /api/admin/users", authed(rt.adminUsers))
	mux.Handle("PATCH /api/admin/users/{user_id}", authed(rt.adminUpdateUser))
	mux.Handle("GET /api/admin/users/{user_id}/audit", authed(rt.adminAuditTrail))
	mux.Handle("GET /api/admin/export", authed(rt.adminExport))

	var handler http.Handler = mux
	handler = trafficControlMiddleware(rt.traffic, handler)
	handler = rt.metrics.Middleware(serviceName, handler)
	handler = accessLogMiddleware(rt.logger, handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "nexodify-forensic-engine"})
}

func (rt *Router) listPlans(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"plans": rt.catalog.All()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), errorPayload(err))
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
