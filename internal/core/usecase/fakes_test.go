package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/nexodify/forensic-engine/internal/core/domain"
	"github.com/nexodify/forensic-engine/internal/core/ports"
)

var errNotImplemented = errors.New("not implemented")

type userRepoFake struct {
	users       map[string]*domain.User
	byEmail     map[string]*domain.User
	quotaCalls  []quotaCall
	quotaErr    error
	createErr   error
	planCalls   []planCall
	listUsers   []domain.User
	listTotal   int
	profileErr  error
	updatedName string
}

type quotaCall struct {
	userID  string
	counter string
	delta   int
}

type planCall struct {
	userID string
	plan   string
	quota  domain.Quota
}

func newUserRepoFake() *userRepoFake {
	return &userRepoFake{
		users:   map[string]*domain.User{},
		byEmail: map[string]*domain.User{},
	}
}

func (f *userRepoFake) add(u *domain.User) {
	f.users[u.UserID] = u
	f.byEmail[u.Email] = u
}

func (f *userRepoFake) Create(_ context.Context, u *domain.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	copied := *u
	f.add(&copied)
	return nil
}

func (f *userRepoFake) GetByID(_ context.Context, userID string) (*domain.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, domain.WrapError(domain.ErrNotFound, "get user", errors.New(userID))
	}
	copied := *u
	return &copied, nil
}

func (f *userRepoFake) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, domain.WrapError(domain.ErrNotFound, "get user by email", errors.New(email))
	}
	copied := *u
	return &copied, nil
}

func (f *userRepoFake) UpdateProfile(_ context.Context, userID, name, picture string) error {
	if f.profileErr != nil {
		return f.profileErr
	}
	if u, ok := f.users[userID]; ok {
		u.Name = name
		u.Picture = picture
	}
	f.updatedName = name
	return nil
}

func (f *userRepoFake) UpdatePlan(_ context.Context, userID, plan string, quota domain.Quota) error {
	f.planCalls = append(f.planCalls, planCall{userID: userID, plan: plan, quota: quota})
	if u, ok := f.users[userID]; ok {
		u.Plan = plan
		u.Quota = quota
	}
	return nil
}

func (f *userRepoFake) AdjustQuota(_ context.Context, userID, counter string, delta int) error {
	if f.quotaErr != nil && delta < 0 {
		return f.quotaErr
	}
	f.quotaCalls = append(f.quotaCalls, quotaCall{userID: userID, counter: counter, delta: delta})
	return nil
}

func (f *userRepoFake) List(context.Context, string, int, int) ([]domain.User, int, error) {
	return f.listUsers, f.listTotal, nil
}

func (f *userRepoFake) Count(context.Context) (int, error) {
	return len(f.users), nil
}

type sessionRepoFake struct {
	sessions  map[string]*domain.Session
	createErr error
	deleted   []string
}

func newSessionRepoFake() *sessionRepoFake {
	return &sessionRepoFake{sessions: map[string]*domain.Session{}}
}

func (f *sessionRepoFake) Create(_ context.Context, s *domain.Session) error {
	if f.createErr != nil {
		return f.createErr
	}
	copied := *s
	f.sessions[s.SessionToken] = &copied
	return nil
}

func (f *sessionRepoFake) GetByToken(_ context.Context, token string) (*domain.Session, error) {
	s, ok := f.sessions[token]
	if !ok {
		return nil, domain.WrapError(domain.ErrUnauthorized, "get session", errors.New("unknown token"))
	}
	copied := *s
	return &copied, nil
}

func (f *sessionRepoFake) DeleteByToken(_ context.Context, token string) error {
	delete(f.sessions, token)
	f.deleted = append(f.deleted, token)
	return nil
}

type analysisRepoFake struct {
	byID        map[string]*domain.Analysis
	createErr   error
	statusCalls []statusCall
	verdicts    map[string]*domain.Verdict
	headlines   map[string]int
	listed      []domain.Analysis
	listedTotal int
	semaforo    map[string]int
	listCalls   []listCall
}

type listCall struct {
	userID      string
	limit, skip int
}

type statusCall struct {
	analysisID string
	status     domain.AnalysisStatus
	errMessage string
}

func newAnalysisRepoFake() *analysisRepoFake {
	return &analysisRepoFake{
		byID:      map[string]*domain.Analysis{},
		verdicts:  map[string]*domain.Verdict{},
		headlines: map[string]int{},
	}
}

func (f *analysisRepoFake) add(a *domain.Analysis) { f.byID[a.AnalysisID] = a }

func (f *analysisRepoFake) Create(_ context.Context, a *domain.Analysis) error {
	if f.createErr != nil {
		return f.createErr
	}
	copied := *a
	f.byID[a.AnalysisID] = &copied
	return nil
}

func (f *analysisRepoFake) GetByID(_ context.Context, analysisID string) (*domain.Analysis, error) {
	a, ok := f.byID[analysisID]
	if !ok {
		return nil, domain.WrapError(domain.ErrNotFound, "get analysis", errors.New(analysisID))
	}
	copied := *a
	return &copied, nil
}

func (f *analysisRepoFake) GetOwned(ctx context.Context, userID, analysisID string) (*domain.Analysis, error) {
	a, err := f.GetByID(ctx, analysisID)
	if err != nil {
		return nil, err
	}
	if a.UserID != userID {
		return nil, domain.WrapError(domain.ErrNotFound, "get analysis", errors.New("not owner"))
	}
	return a, nil
}

func (f *analysisRepoFake) GetByCaseID(_ context.Context, userID, caseID string) (*domain.Analysis, error) {
	for _, a := range f.byID {
		if a.UserID == userID && a.CaseID == caseID {
			copied := *a
			return &copied, nil
		}
	}
	return nil, domain.WrapError(domain.ErrNotFound, "get analysis by case", errors.New(caseID))
}

func (f *analysisRepoFake) UpdateStatus(_ context.Context, analysisID string, status domain.AnalysisStatus, errMessage string) error {
	f.statusCalls = append(f.statusCalls, statusCall{analysisID: analysisID, status: status, errMessage: errMessage})
	if a, ok := f.byID[analysisID]; ok {
		a.Status = status
		a.Error = errMessage
	}
	return nil
}

func (f *analysisRepoFake) SaveVerdict(_ context.Context, analysisID string, pageCount int, verdict *domain.Verdict) error {
	f.verdicts[analysisID] = verdict
	if a, ok := f.byID[analysisID]; ok {
		a.Status = domain.AnalysisReady
		a.PageCount = pageCount
		a.Result = verdict
	}
	return nil
}

func (f *analysisRepoFake) SaveHeadline(_ context.Context, analysisID string, verdict *domain.Verdict, revision int) error {
	f.headlines[analysisID] = revision
	if a, ok := f.byID[analysisID]; ok {
		a.Result = verdict
		a.Revision = revision
	}
	return nil
}

func (f *analysisRepoFake) ListByUser(_ context.Context, userID string, limit, skip int) ([]domain.Analysis, int, error) {
	f.listCalls = append(f.listCalls, listCall{userID: userID, limit: limit, skip: skip})
	return f.listed, f.listedTotal, nil
}

func (f *analysisRepoFake) CountByUser(context.Context, string) (int, error) {
	return f.listedTotal, nil
}

func (f *analysisRepoFake) Count(context.Context) (int, error) {
	return len(f.byID), nil
}

func (f *analysisRepoFake) SemaforoDistribution(context.Context, string) (map[string]int, error) {
	if f.semaforo == nil {
		return map[string]int{}, nil
	}
	return f.semaforo, nil
}

type txnRepoFake struct {
	created     []domain.Transaction
	bySession   map[string]*domain.Transaction
	paidCalls   []string
	markPaidErr error
	listed      []domain.Transaction
}

func newTxnRepoFake() *txnRepoFake {
	return &txnRepoFake{bySession: map[string]*domain.Transaction{}}
}

func (f *txnRepoFake) Create(_ context.Context, txn *domain.Transaction) error {
	copied := *txn
	f.created = append(f.created, copied)
	f.bySession[txn.CheckoutSessionID] = &copied
	return nil
}

func (f *txnRepoFake) GetBySessionID(_ context.Context, userID, sessionID string) (*domain.Transaction, error) {
	txn, ok := f.bySession[sessionID]
	if !ok || txn.UserID != userID {
		return nil, domain.WrapError(domain.ErrNotFound, "get transaction", errors.New(sessionID))
	}
	copied := *txn
	return &copied, nil
}

func (f *txnRepoFake) MarkPaid(_ context.Context, sessionID string, status domain.TransactionStatus) error {
	if f.markPaidErr != nil {
		return f.markPaidErr
	}
	txn, ok := f.bySession[sessionID]
	if !ok || txn.PaymentStatus == domain.PaymentPaid {
		return domain.WrapError(domain.ErrNotFound, "mark paid", errors.New("already settled or unknown"))
	}
	txn.PaymentStatus = domain.PaymentPaid
	txn.Status = status
	f.paidCalls = append(f.paidCalls, sessionID)
	return nil
}

func (f *txnRepoFake) List(context.Context, int, int) ([]domain.Transaction, int, error) {
	return f.listed, len(f.listed), nil
}

func (f *txnRepoFake) Count(context.Context) (int, error) {
	return len(f.created), nil
}

type auditRepoFake struct {
	entries []domain.AuditEntry
}

func (f *auditRepoFake) Append(_ context.Context, e *domain.AuditEntry) error {
	f.entries = append(f.entries, *e)
	return nil
}

func (f *auditRepoFake) ListByTarget(context.Context, string, int) ([]domain.AuditEntry, error) {
	return f.entries, nil
}

type forensicsRepoFake struct {
	created   []domain.ImageForensics
	listCalls []listCall
}

func (f *forensicsRepoFake) Create(_ context.Context, r *domain.ImageForensics) error {
	f.created = append(f.created, *r)
	return nil
}

func (f *forensicsRepoFake) ListByUser(_ context.Context, userID string, limit, skip int) ([]domain.ImageForensics, int, error) {
	f.listCalls = append(f.listCalls, listCall{userID: userID, limit: limit, skip: skip})
	return f.created, len(f.created), nil
}

func (f *forensicsRepoFake) CountByUser(context.Context, string) (int, error) {
	return len(f.created), nil
}

type assistantRepoFake struct {
	created   []domain.AssistantExchange
	listCalls []listCall
}

func (f *assistantRepoFake) Create(_ context.Context, qa *domain.AssistantExchange) error {
	f.created = append(f.created, *qa)
	return nil
}

func (f *assistantRepoFake) ListByUser(_ context.Context, userID string, limit, skip int) ([]domain.AssistantExchange, int, error) {
	f.listCalls = append(f.listCalls, listCall{userID: userID, limit: limit, skip: skip})
	return f.created, len(f.created), nil
}

func (f *assistantRepoFake) CountByUser(context.Context, string) (int, error) {
	return len(f.created), nil
}

type storageFake struct {
	savedKey  string
	savedBody string
	saveErr   error
}

func (f *storageFake) Save(_ context.Context, key string, data io.Reader) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	raw, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.savedKey = key
	f.savedBody = string(raw)
	return nil
}

func (f *storageFake) Open(context.Context, string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}

type queueFake struct {
	published []string
	err       error
}

func (f *queueFake) PublishAnalysisQueued(_ context.Context, analysisID string) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, analysisID)
	return nil
}

func (f *queueFake) SubscribeAnalysisQueued(context.Context, func(context.Context, string) error) error {
	return errNotImplemented
}

type extractorFake struct {
	pages []ports.Page
	err   error
}

func (f *extractorFake) Extract(context.Context, string) ([]ports.Page, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.pages, nil
}

type analyzerFake struct {
	verdict *domain.Verdict
	err     error
	lastReq domain.AnalysisRequest
}

func (f *analyzerFake) Analyze(_ context.Context, req domain.AnalysisRequest) (*domain.Verdict, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.verdict, nil
}

type forensicsAnalyzerFake struct {
	result *domain.ForensicsResult
	err    error
	images []string
}

func (f *forensicsAnalyzerFake) AnalyzeImages(_ context.Context, caseID, runID string, images []string) (*domain.ForensicsResult, error) {
	f.images = images
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &domain.ForensicsResult{
		SchemaVersion: domain.SchemaVersionImageForensicsV1,
		Run:           domain.RunInfo{RunID: runID, CaseID: caseID},
	}, nil
}

type answererFake struct {
	answer      *domain.AssistantAnswer
	err         error
	lastContext string
}

func (f *answererFake) Answer(_ context.Context, question, caseContext string) (*domain.AssistantAnswer, error) {
	f.lastContext = caseContext
	if f.err != nil {
		return nil, f.err
	}
	if f.answer != nil {
		return f.answer, nil
	}
	return &domain.AssistantAnswer{AnswerIT: "risposta", AnswerEN: "answer", NeedsMoreInfo: "NO", MissingInputs: []string{}}, nil
}

type brokerFake struct {
	identity *domain.BrokerIdentity
	err      error
}

func (f *brokerFake) ExchangeSession(context.Context, string) (*domain.BrokerIdentity, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.identity, nil
}

type checkoutFake struct {
	session    *domain.CheckoutSession
	status     *domain.CheckoutSession
	event      *domain.WebhookEvent
	createErr  error
	verifyErr  error
	metadata   map[string]string
	successURL string
}

func (f *checkoutFake) CreateSession(_ context.Context, amount float64, currency, successURL, cancelURL string, metadata map[string]string) (*domain.CheckoutSession, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.metadata = metadata
	f.successURL = successURL
	if f.session != nil {
		return f.session, nil
	}
	return &domain.CheckoutSession{SessionID: "cs_test", URL: "https://checkout.example/cs_test", Status: "open", PaymentStatus: "unpaid", AmountTotal: amount, Currency: currency}, nil
}

func (f *checkoutFake) GetSessionStatus(context.Context, string) (*domain.CheckoutSession, error) {
	if f.status != nil {
		return f.status, nil
	}
	return nil, domain.WrapError(domain.ErrNotFound, "get session status", errors.New("unknown session"))
}

func (f *checkoutFake) VerifyWebhook([]byte, string) (*domain.WebhookEvent, error) {
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return f.event, nil
}

type sessionCacheFake struct {
	byToken map[string]*domain.User
	deleted []string
}

func newSessionCacheFake() *sessionCacheFake {
	return &sessionCacheFake{byToken: map[string]*domain.User{}}
}

func (f *sessionCacheFake) Get(token string) (*domain.User, bool) {
	u, ok := f.byToken[token]
	return u, ok
}

func (f *sessionCacheFake) Set(token string, user *domain.User, _ time.Duration) {
	f.byToken[token] = user
}

func (f *sessionCacheFake) Delete(token string) {
	delete(f.byToken, token)
	f.deleted = append(f.deleted, token)
}
