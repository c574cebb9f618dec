package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/nexodify/forensic-engine/internal/core/domain"
)

func newUserRepoWithMock(t *testing.T) (*UserRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &UserRepository{db: db}, mock, func() { _ = db.Close() }
}

func TestGetByEmailReturnsNotFound(t *testing.T) {
	repo, mock, done := newUserRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT user_id, email, name, picture, plan").
		WithArgs("nobody@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetByIDScansQuotaColumns(t *testing.T) {
	repo, mock, done := newUserRepoWithMock(t)
	defer done()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"user_id", "email", "name", "picture", "plan", "is_master_admin",
		"perizia_scans_remaining", "image_scans_remaining", "assistant_messages_remaining",
		"created_at", "updated_at",
	}).AddRow("u-1", "a@b.it", "Anna", "", "pro", false, 12, 5, 40, now, now)

	mock.ExpectQuery("SELECT user_id, email, name, picture, plan").
		WithArgs("u-1").
		WillReturnRows(rows)

	user, err := repo.GetByID(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if user.Plan != "pro" {
		t.Fatalf("plan = %q, want pro", user.Plan)
	}
	if user.Quota.PeriziaScansRemaining != 12 {
		t.Fatalf("perizia quota = %d, want 12", user.Quota.PeriziaScansRemaining)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestAdjustQuotaRejectsUnknownCounter(t *testing.T) {
	repo, _, done := newUserRepoWithMock(t)
	defer done()

	err := repo.AdjustQuota(context.Background(), "u-1", "free_lunches", -1)
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAdjustQuotaExhaustedCounterReturnsQuotaExceeded(t *testing.T) {
	repo, mock, done := newUserRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE users").
		WithArgs("u-1", -1, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.AdjustQuota(context.Background(), "u-1", "perizia_scans_remaining", -1)
	if !domain.IsKind(err, domain.ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestAdjustQuotaRefundOnMissingUserReturnsNotFound(t *testing.T) {
	repo, mock, done := newUserRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE users").
		WithArgs("ghost", 1, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.AdjustQuota(context.Background(), "ghost", "perizia_scans_remaining", 1)
	if !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestUpdatePlanReturnsNotFoundWhenNoRowsAffected(t *testing.T) {
	repo, mock, done := newUserRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE users").
		WithArgs("ghost", "pro", 25, 10, 100, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdatePlan(context.Background(), "ghost", "pro", domain.Quota{
		PeriziaScansRemaining:      25,
		ImageScansRemaining:        10,
		AssistantMessagesRemaining: 100,
	})
	if !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
