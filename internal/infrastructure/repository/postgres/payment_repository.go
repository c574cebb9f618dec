package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nexodify/forensic-engine/internal/core/domain"
)

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, txn *domain.Transaction) error {
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now().UTC()
	}
	txn.UpdatedAt = txn.CreatedAt
	_, err := r.db.ExecContext(ctx, `
INSERT INTO transactions (transaction_id, user_id, checkout_session_id, plan_id,
	amount, currency, status, payment_status, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
`, txn.TransactionID, txn.UserID, txn.CheckoutSessionID, txn.PlanID,
		txn.Amount, txn.Currency, txn.Status, txn.PaymentStatus, txn.CreatedAt, txn.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

const transactionColumns = `transaction_id, user_id, checkout_session_id, plan_id,
	amount, currency, status, payment_status, created_at, updated_at`

func scanTransaction(row interface{ Scan(...any) error }) (*domain.Transaction, error) {
	var t domain.Transaction
	err := row.Scan(
		&t.TransactionID,
		&t.UserID,
		&t.CheckoutSessionID,
		&t.PlanID,
		&t.Amount,
		&t.Currency,
		&t.Status,
		&t.PaymentStatus,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TransactionRepository) GetBySessionID(ctx context.Context, userID, sessionID string) (*domain.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+transactionColumns+`
FROM transactions
WHERE checkout_session_id = $1 AND user_id = $2
`, sessionID, userID)
	txn, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "get transaction", fmt.Errorf("session %s", sessionID))
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return txn, nil
}

// MarkPaid flips a pending transaction; already-settled rows are left alone
// so webhook retries stay idempotent.
func (r *TransactionRepository) MarkPaid(ctx context.Context, sessionID string, status domain.TransactionStatus) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE transactions
SET status = $2, payment_status = $3, updated_at = $4
WHERE checkout_session_id = $1 AND payment_status <> $3
`, sessionID, status, domain.PaymentPaid, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("mark transaction paid: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark transaction paid rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrNotFound, "mark transaction paid", fmt.Errorf("session %s already settled or unknown", sessionID))
	}
	return nil
}

func (r *TransactionRepository) List(ctx context.Context, limit, skip int) ([]domain.Transaction, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT `+transactionColumns+`
FROM transactions
ORDER BY created_at DESC
LIMIT $1 OFFSET $2
`, limit, skip)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var list []domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan transaction row: %w", err)
		}
		list = append(list, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate transactions: %w", err)
	}
	return list, total, nil
}

func (r *TransactionRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return total, nil
}
