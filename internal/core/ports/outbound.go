package ports

import (
	"context"
	"io"
	"time"

	"github.com/nexodify/forensic-engine/internal/core/domain"
)

// UserRepository persists user accounts and quota state.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID, name, picture string) error
	UpdatePlan(ctx context.Context, userID, plan string, quota domain.Quota) error
	AdjustQuota(ctx context.Context, userID, counter string, delta int) error
	List(ctx context.Context, query string, limit, skip int) ([]domain.User, int, error)
	Count(ctx context.Context) (int, error)
}

// SessionRepository persists login sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByToken(ctx context.Context, token string) (*domain.Session, error)
	DeleteByToken(ctx context.Context, token string) error
}

// AnalysisRepository persists perizia scans and their verdicts.
type AnalysisRepository interface {
	Create(ctx context.Context, a *domain.Analysis) error
	GetByID(ctx context.Context, analysisID string) (*domain.Analysis, error)
	GetOwned(ctx context.Context, userID, analysisID string) (*domain.Analysis, error)
	GetByCaseID(ctx context.Context, userID, caseID string) (*domain.Analysis, error)
	UpdateStatus(ctx context.Context, analysisID string, status domain.AnalysisStatus, errMessage string) error
	SaveVerdict(ctx context.Context, analysisID string, pageCount int, verdict *domain.Verdict) error
	SaveHeadline(ctx context.Context, analysisID string, verdict *domain.Verdict, revision int) error
	ListByUser(ctx context.Context, userID string, limit, skip int) ([]domain.Analysis, int, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	Count(ctx context.Context) (int, error)
	SemaforoDistribution(ctx context.Context, userID string) (map[string]int, error)
}

// TransactionRepository persists checkout transactions.
type TransactionRepository interface {
	Create(ctx context.Context, txn *domain.Transaction) error
	GetBySessionID(ctx context.Context, userID, sessionID string) (*domain.Transaction, error)
	MarkPaid(ctx context.Context, sessionID string, status domain.TransactionStatus) error
	List(ctx context.Context, limit, skip int) ([]domain.Transaction, int, error)
	Count(ctx context.Context) (int, error)
}

// AuditRepository records admin actions.
type AuditRepository interface {
	Append(ctx context.Context, entry *domain.AuditEntry) error
	ListByTarget(ctx context.Context, targetUserID string, limit int) ([]domain.AuditEntry, error)
}

// ForensicsRepository persists image forensic runs.
type ForensicsRepository interface {
	Create(ctx context.Context, f *domain.ImageForensics) error
	ListByUser(ctx context.Context, userID string, limit, skip int) ([]domain.ImageForensics, int, error)
	CountByUser(ctx context.Context, userID string) (int, error)
}

// AssistantRepository persists Q&A exchanges.
type AssistantRepository interface {
	Create(ctx context.Context, qa *domain.AssistantExchange) error
	ListByUser(ctx context.Context, userID string, limit, skip int) ([]domain.AssistantExchange, int, error)
	CountByUser(ctx context.Context, userID string) (int, error)
}

// ObjectStorage stores uploaded source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue carries analysis jobs from the API to the worker.
type MessageQueue interface {
	PublishAnalysisQueued(ctx context.Context, analysisID string) error
	SubscribeAnalysisQueued(ctx context.Context, handler func(context.Context, string) error) error
}

// Page is one extracted page of a source PDF.
type Page struct {
	Number int
	Text   string
}

// PeriziaExtractor turns a stored PDF into per-page text.
type PeriziaExtractor interface {
	Extract(ctx context.Context, storagePath string) ([]Page, error)
}

// VerdictAnalyzer produces the structured verdict for extracted text.
type VerdictAnalyzer interface {
	Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.Verdict, error)
}

// ForensicsAnalyzer inspects property photos for visible defects and
// compliance concerns. Images are base64 encoded.
type ForensicsAnalyzer interface {
	AnalyzeImages(ctx context.Context, caseID, runID string, images []string) (*domain.ForensicsResult, error)
}

// AssistantAnswerer answers a free-form question, optionally with case context.
type AssistantAnswerer interface {
	Answer(ctx context.Context, question, caseContext string) (*domain.AssistantAnswer, error)
}

// AuthBroker exchanges a hosted-OAuth session id for a verified identity.
type AuthBroker interface {
	ExchangeSession(ctx context.Context, sessionID string) (*domain.BrokerIdentity, error)
}

// CheckoutProvider is the hosted payment processor.
type CheckoutProvider interface {
	CreateSession(ctx context.Context, amount float64, currency, successURL, cancelURL string, metadata map[string]string) (*domain.CheckoutSession, error)
	GetSessionStatus(ctx context.Context, sessionID string) (*domain.CheckoutSession, error)
	VerifyWebhook(payload []byte, signature string) (*domain.WebhookEvent, error)
}

// BackOfficeExporter renders the admin export workbook.
type BackOfficeExporter interface {
	BackOfficeXLSX(ctx context.Context) ([]byte, error)
}

// SessionCache shortcuts repeated token lookups for the cookie auth path.
type SessionCache interface {
	Get(token string) (*domain.User, bool)
	Set(token string, user *domain.User, ttl time.Duration)
	Delete(token string)
}
