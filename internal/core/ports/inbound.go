package ports

import (
	"context"
	"io"

	"github.com/nexodify/forensic-engine/internal/core/domain"
)

// PeriziaIngestor is the inbound contract for perizia upload orchestration.
type PeriziaIngestor interface {
	Upload(ctx context.Context, user *domain.User, filename, mimeType string, size int64, body io.Reader) (*domain.Analysis, error)
}

// PeriziaProcessor runs the asynchronous analysis pipeline.
type PeriziaProcessor interface {
	ProcessByID(ctx context.Context, analysisID string) error
}

// AuthService handles broker login, session lookup and logout.
type AuthService interface {
	Login(ctx context.Context, brokerSessionID string) (*domain.User, *domain.Session, error)
	UserByToken(ctx context.Context, token string) (*domain.User, error)
	Logout(ctx context.Context, token string) error
}

// BillingService handles plan checkout and upgrades.
type BillingService interface {
	CreateCheckout(ctx context.Context, user *domain.User, planID, originURL, webhookURL string) (*domain.CheckoutSession, error)
	CheckoutStatus(ctx context.Context, user *domain.User, sessionID string) (*domain.CheckoutSession, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

// AnalysisReader is the inbound read model for a user's own analyses.
type AnalysisReader interface {
	GetOwned(ctx context.Context, user *domain.User, analysisID string) (*domain.Analysis, error)
	CorrectHeadline(ctx context.Context, user *domain.User, analysisID string, correction domain.HeadlineCorrection) (*domain.Analysis, error)
}

// ForensicsService runs image forensic scans.
type ForensicsService interface {
	AnalyzeImages(ctx context.Context, user *domain.User, caseID string, images []string) (*domain.ImageForensics, error)
}

// AssistantService answers free-form questions, optionally in the
// context of a previously scanned case.
type AssistantService interface {
	Ask(ctx context.Context, user *domain.User, question, relatedCaseID string) (*domain.AssistantExchange, error)
}

// HistoryService lists a user's past activity.
type HistoryService interface {
	Analyses(ctx context.Context, user *domain.User, limit, skip int) ([]domain.Analysis, int, error)
	ImageScans(ctx context.Context, user *domain.User, limit, skip int) ([]domain.ImageForensics, int, error)
	AssistantExchanges(ctx context.Context, user *domain.User, limit, skip int) ([]domain.AssistantExchange, int, error)
}

// DashboardService aggregates per-user activity.
type DashboardService interface {
	Stats(ctx context.Context, user *domain.User) (*domain.DashboardStats, error)
}

// AdminService is the master-admin back office.
type AdminService interface {
	Overview(ctx context.Context, admin *domain.User) (*domain.AdminOverview, error)
	Users(ctx context.Context, admin *domain.User, query string, limit, skip int) ([]domain.User, int, error)
	UpdateUser(ctx context.Context, admin *domain.User, targetUserID string, patch domain.AdminUserPatch) (*domain.User, error)
	AuditTrail(ctx context.Context, admin *domain.User, targetUserID string, limit int) ([]domain.AuditEntry, error)
	Export(ctx context.Context, admin *domain.User) ([]byte, error)
}
