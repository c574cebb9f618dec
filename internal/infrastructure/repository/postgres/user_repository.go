package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nexodify/forensic-engine/internal/core/domain"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// quotaColumns maps the counter names accepted by AdjustQuota to real
// columns so the delta update can never be injected.
var quotaColumns = map[string]string{
	"perizia_scans_remaining":      "perizia_scans_remaining",
	"image_scans_remaining":        "image_scans_remaining",
	"assistant_messages_remaining": "assistant_messages_remaining",
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.UpdatedAt = user.CreatedAt
	_, err := r.db.ExecContext(ctx, `
INSERT INTO users (user_id, email, name, picture, plan, is_master_admin,
	perizia_scans_remaining, image_scans_remaining, assistant_messages_remaining,
	created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
`, user.UserID, user.Email, user.Name, user.Picture, user.Plan, user.IsMasterAdmin,
		user.Quota.PeriziaScansRemaining, user.Quota.ImageScansRemaining, user.Quota.AssistantMessagesRemaining,
		user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

const userColumns = `user_id, email, name, picture, plan, is_master_admin,
	perizia_scans_remaining, image_scans_remaining, assistant_messages_remaining,
	created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.UserID,
		&u.Email,
		&u.Name,
		&u.Picture,
		&u.Plan,
		&u.IsMasterAdmin,
		&u.Quota.PeriziaScansRemaining,
		&u.Quota.ImageScansRemaining,
		&u.Quota.AssistantMessagesRemaining,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+userColumns+`
FROM users
WHERE user_id = $1
`, userID)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "get user", fmt.Errorf("user %s", userID))
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+userColumns+`
FROM users
WHERE email = $1
`, email)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "get user by email", fmt.Errorf("email %s", email))
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, userID, name, picture string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE users
SET name = $2, picture = $3, updated_at = $4
WHERE user_id = $1
`, userID, name, picture, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return requireRowAffected(res, "update profile", userID)
}

func (r *UserRepository) UpdatePlan(ctx context.Context, userID, plan string, quota domain.Quota) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE users
SET plan = $2,
	perizia_scans_remaining = $3,
	image_scans_remaining = $4,
	assistant_messages_remaining = $5,
	updated_at = $6
WHERE user_id = $1
`, userID, plan, quota.PeriziaScansRemaining, quota.ImageScansRemaining, quota.AssistantMessagesRemaining, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update plan: %w", err)
	}
	return requireRowAffected(res, "update plan", userID)
}

// AdjustQuota applies a delta to one quota counter. Negative deltas are
// rejected by the WHERE clause when the counter would go below zero, which
// surfaces as ErrQuotaExceeded.
func (r *UserRepository) AdjustQuota(ctx context.Context, userID, counter string, delta int) error {
	column, ok := quotaColumns[counter]
	if !ok {
		return domain.WrapError(domain.ErrInvalidInput, "adjust quota", fmt.Errorf("unknown counter %q", counter))
	}
	query := fmt.Sprintf(`
UPDATE users
SET %s = %s + $2, updated_at = $3
WHERE user_id = $1 AND %s + $2 >= 0
`, column, column, column)
	res, err := r.db.ExecContext(ctx, query, userID, delta, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("adjust quota: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("adjust quota rows affected: %w", err)
	}
	if affected == 0 {
		if delta < 0 {
			return domain.WrapError(domain.ErrQuotaExceeded, "adjust quota", fmt.Errorf("counter %s exhausted for user %s", counter, userID))
		}
		return domain.WrapError(domain.ErrNotFound, "adjust quota", fmt.Errorf("user %s", userID))
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, query string, limit, skip int) ([]domain.User, int, error) {
	pattern := "%" + query + "%"

	var total int
	if err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM users
WHERE $1 = '%%' OR email ILIKE $1 OR name ILIKE $1
`, pattern).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT `+userColumns+`
FROM users
WHERE $1 = '%%' OR email ILIKE $1 OR name ILIKE $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3
`, pattern, limit, skip)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate users: %w", err)
	}
	return users, total, nil
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return total, nil
}

func requireRowAffected(res sql.Result, operation, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", operation, err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrNotFound, operation, fmt.Errorf("id %s", id))
	}
	return nil
}
