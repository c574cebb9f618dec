package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nexodify/forensic-engine/internal/core/domain"
	"github.com/nexodify/forensic-engine/internal/core/ports"
	"github.com/nexodify/forensic-engine/internal/plans"
)

type BillingUseCase struct {
	provider ports.CheckoutProvider
	txns     ports.TransactionRepository
	users    ports.UserRepository
	catalog  *plans.Catalog

	now func() time.Time
}

func NewBillingUseCase(
	provider ports.CheckoutProvider,
	txns ports.TransactionRepository,
	users ports.UserRepository,
	catalog *plans.Catalog,
) *BillingUseCase {
	return &BillingUseCase{
		provider: provider,
		txns:     txns,
		users:    users,
		catalog:  catalog,
		now:      time.Now,
	}
}

// CreateCheckout opens a hosted checkout for a paid plan and records the
// pending transaction. Amounts always come from the embedded catalog, never
// from the client.
func (uc *BillingUseCase) CreateCheckout(ctx context.Context, user *domain.User, planID, originURL, webhookURL string) (*domain.CheckoutSession, error) {
	plan, ok := uc.catalog.Purchasable(planID)
	if !ok {
		return nil, domain.WrapError(domain.ErrInvalidInput, "create checkout",
			fmt.Errorf("plan %q is not purchasable", planID))
	}

	origin := strings.TrimRight(originURL, "/")
	successURL := origin + "/billing?session_id={CHECKOUT_SESSION_ID}"
	cancelURL := origin + "/billing"
	metadata := map[string]string{
		"user_id": user.UserID,
		"plan_id": plan.PlanID,
		"email":   user.Email,
	}
	if webhookURL != "" {
		metadata["webhook_url"] = webhookURL
	}

	session, err := uc.provider.CreateSession(ctx, plan.Price, plan.Currency, successURL, cancelURL, metadata)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	now := uc.now().UTC()
	txn := &domain.Transaction{
		TransactionID:     newID("txn_"),
		UserID:            user.UserID,
		CheckoutSessionID: session.SessionID,
		PlanID:            plan.PlanID,
		Amount:            plan.Price,
		Currency:          plan.Currency,
		Status:            domain.TxnPending,
		PaymentStatus:     domain.PaymentInitiated,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.txns.Create(ctx, txn); err != nil {
		return nil, fmt.Errorf("record pending transaction: %w", err)
	}
	return session, nil
}

// CheckoutStatus polls the processor for a session the user owns and, on
// the first observation of a settled payment, upgrades the plan. Safe to
// call repeatedly from the post-checkout polling page.
func (uc *BillingUseCase) CheckoutStatus(ctx context.Context, user *domain.User, sessionID string) (*domain.CheckoutSession, error) {
	txn, err := uc.txns.GetBySessionID(ctx, user.UserID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("fetch transaction: %w", err)
	}

	session, err := uc.provider.GetSessionStatus(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("fetch checkout status: %w", err)
	}

	if session.PaymentStatus == "paid" && txn.PaymentStatus != domain.PaymentPaid {
		if err := uc.settle(ctx, sessionID, txn.UserID, txn.PlanID); err != nil {
			return nil, err
		}
	}
	return session, nil
}

// HandleWebhook applies a verified processor notification. Replayed
// webhooks are acknowledged without re-applying the upgrade.
func (uc *BillingUseCase) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := uc.provider.VerifyWebhook(payload, signature)
	if err != nil {
		return fmt.Errorf("verify webhook: %w", err)
	}
	if event.PaymentStatus != "paid" {
		return nil
	}

	userID := event.Metadata["user_id"]
	planID := event.Metadata["plan_id"]
	if userID == "" || planID == "" {
		return domain.WrapError(domain.ErrInvalidInput, "handle webhook",
			errors.New("event metadata missing user_id or plan_id"))
	}
	return uc.settle(ctx, event.SessionID, userID, planID)
}

func (uc *BillingUseCase) settle(ctx context.Context, sessionID, userID, planID string) error {
	if err := uc.txns.MarkPaid(ctx, sessionID, domain.TxnComplete); err != nil {
		if domain.IsKind(err, domain.ErrNotFound) {
			// Already settled by the webhook or the polling path.
			return nil
		}
		return fmt.Errorf("mark transaction paid: %w", err)
	}

	plan, ok := uc.catalog.Get(planID)
	if !ok {
		return fmt.Errorf("settle checkout: unknown plan %q", planID)
	}
	if err := uc.users.UpdatePlan(ctx, userID, plan.PlanID, plan.Quota); err != nil {
		return fmt.Errorf("upgrade plan: %w", err)
	}
	return nil
}
