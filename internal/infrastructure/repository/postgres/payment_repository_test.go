package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/nexodify/forensic-engine/internal/core/domain"
)

func newTxnRepoWithMock(t *testing.T) (*TransactionRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &TransactionRepository{db: db}, mock, func() { _ = db.Close() }
}

func TestMarkPaidSettledSessionReturnsNotFound(t *testing.T) {
	repo, mock, done := newTxnRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE transactions").
		WithArgs("cs_123", string(domain.TxnComplete), string(domain.PaymentPaid), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkPaid(context.Background(), "cs_123", domain.TxnComplete)
	if !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for settled session, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestMarkPaidFlipsPendingSession(t *testing.T) {
	repo, mock, done := newTxnRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE transactions").
		WithArgs("cs_456", string(domain.TxnComplete), string(domain.PaymentPaid), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.MarkPaid(context.Background(), "cs_456", domain.TxnComplete); err != nil {
		t.Fatalf("MarkPaid() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
