package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nexodify/forensic-engine/internal/core/domain"
)

type ForensicsRepository struct {
	db *sql.DB
}

func NewForensicsRepository(db *sql.DB) *ForensicsRepository {
	return &ForensicsRepository{db: db}
}

func (r *ForensicsRepository) Create(ctx context.Context, f *domain.ImageForensics) error {
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(f.Result)
	if err != nil {
		return fmt.Errorf("encode forensics result: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO image_forensics (forensics_id, user_id, case_id, run_id, image_count, result, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
`, f.ForensicsID, f.UserID, f.CaseID, f.RunID, f.ImageCount, string(payload), f.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert forensics run: %w", err)
	}
	return nil
}

func (r *ForensicsRepository) ListByUser(ctx context.Context, userID string, limit, skip int) ([]domain.ImageForensics, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM image_forensics WHERE user_id = $1
`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count forensics runs: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT forensics_id, user_id, case_id, run_id, image_count, result, created_at
FROM image_forensics
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3
`, userID, limit, skip)
	if err != nil {
		return nil, 0, fmt.Errorf("list forensics runs: %w", err)
	}
	defer rows.Close()

	var list []domain.ImageForensics
	for rows.Next() {
		var (
			f       domain.ImageForensics
			payload string
		)
		if err := rows.Scan(&f.ForensicsID, &f.UserID, &f.CaseID, &f.RunID, &f.ImageCount, &payload, &f.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan forensics row: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &f.Result); err != nil {
			return nil, 0, fmt.Errorf("decode forensics result: %w", err)
		}
		list = append(list, f)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate forensics runs: %w", err)
	}
	return list, total, nil
}

func (r *ForensicsRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM image_forensics WHERE user_id = $1
`, userID).Scan(&total); err != nil {
		return 0, fmt.Errorf("count forensics runs by user: %w", err)
	}
	return total, nil
}
