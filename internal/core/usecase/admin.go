package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nexodify/forensic-engine/internal/core/domain"
	"github.com/nexodify/forensic-engine/internal/core/ports"
	"github.com/nexodify/forensic-engine/internal/plans"
)

// AdminUseCase is the master-admin back office. Every entry point checks
// the caller's admin bit; the HTTP layer is not trusted to gate this.
type AdminUseCase struct {
	users    ports.UserRepository
	analyses ports.AnalysisRepository
	txns     ports.TransactionRepository
	audit    ports.AuditRepository
	exporter ports.BackOfficeExporter
	catalog  *plans.Catalog

	now func() time.Time
}

func NewAdminUseCase(
	users ports.UserRepository,
	analyses ports.AnalysisRepository,
	txns ports.TransactionRepository,
	audit ports.AuditRepository,
	exporter ports.BackOfficeExporter,
	catalog *plans.Catalog,
) *AdminUseCase {
	return &AdminUseCase{
		users:    users,
		analyses: analyses,
		txns:     txns,
		audit:    audit,
		exporter: exporter,
		catalog:  catalog,
		now:      time.Now,
	}
}

func requireMasterAdmin(admin *domain.User, operation string) error {
	if admin == nil || !admin.IsMasterAdmin {
		return domain.WrapError(domain.ErrForbidden, operation, errors.New("master admin only"))
	}
	return nil
}

func (uc *AdminUseCase) Overview(ctx context.Context, admin *domain.User) (*domain.AdminOverview, error) {
	if err := requireMasterAdmin(admin, "admin overview"); err != nil {
		return nil, err
	}
	totalUsers, err := uc.users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	totalAnalyses, err := uc.analyses.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count analyses: %w", err)
	}
	totalTxns, err := uc.txns.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count transactions: %w", err)
	}
	semaforo, err := uc.analyses.SemaforoDistribution(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("semaforo distribution: %w", err)
	}
	recent, _, err := uc.users.List(ctx, "", recentOverviewItems, 0)
	if err != nil {
		return nil, fmt.Errorf("recent signups: %w", err)
	}
	return &domain.AdminOverview{
		TotalUsers:        totalUsers,
		TotalAnalyses:     totalAnalyses,
		TotalTransactions: totalTxns,
		SemaforoCounts:    semaforo,
		RecentSignups:     recent,
	}, nil
}

func (uc *AdminUseCase) Users(ctx context.Context, admin *domain.User, query string, limit, skip int) ([]domain.User, int, error) {
	if err := requireMasterAdmin(admin, "admin list users"); err != nil {
		return nil, 0, err
	}
	limit, skip = clampPage(limit, skip)
	users, total, err := uc.users.List(ctx, query, limit, skip)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

// UpdateUser applies a plan or quota edit to another account and appends
// the change to the audit trail.
func (uc *AdminUseCase) UpdateUser(ctx context.Context, admin *domain.User, targetUserID string, patch domain.AdminUserPatch) (*domain.User, error) {
	if err := requireMasterAdmin(admin, "admin update user"); err != nil {
		return nil, err
	}
	if patch.Empty() {
		return nil, domain.WrapError(domain.ErrInvalidInput, "admin update user", errors.New("empty patch"))
	}

	target, err := uc.users.GetByID(ctx, targetUserID)
	if err != nil {
		return nil, fmt.Errorf("fetch target user: %w", err)
	}

	plan := target.Plan
	quota := target.Quota
	if patch.Plan != nil {
		p, ok := uc.catalog.Get(*patch.Plan)
		if !ok {
			return nil, domain.WrapError(domain.ErrInvalidInput, "admin update user",
				fmt.Errorf("unknown plan %q", *patch.Plan))
		}
		plan = p.PlanID
		quota = p.Quota
	}
	if patch.Quota != nil {
		quota = *patch.Quota
	}

	if err := uc.users.UpdatePlan(ctx, targetUserID, plan, quota); err != nil {
		return nil, fmt.Errorf("apply user patch: %w", err)
	}

	changes, _ := json.Marshal(patch)
	entry := &domain.AuditEntry{
		EntryID:      newID("audit_"),
		AdminID:      admin.UserID,
		TargetUserID: targetUserID,
		Action:       "user_update",
		Changes:      string(changes),
		CreatedAt:    uc.now().UTC(),
	}
	if err := uc.audit.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("append audit entry: %w", err)
	}

	target.Plan = plan
	target.Quota = quota
	return target, nil
}

func (uc *AdminUseCase) AuditTrail(ctx context.Context, admin *domain.User, targetUserID string, limit int) ([]domain.AuditEntry, error) {
	if err := requireMasterAdmin(admin, "admin audit trail"); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}
	entries, err := uc.audit.ListByTarget(ctx, targetUserID, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	return entries, nil
}

func (uc *AdminUseCase) Export(ctx context.Context, admin *domain.User) ([]byte, error) {
	if err := requireMasterAdmin(admin, "admin export"); err != nil {
		return nil, err
	}
	workbook, err := uc.exporter.BackOfficeXLSX(ctx)
	if err != nil {
		return nil, fmt.Errorf("build export workbook: %w", err)
	}
	return workbook, nil
}
