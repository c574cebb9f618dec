package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nexodify/forensic-engine/internal/core/domain"
)

type AssistantRepository struct {
	db *sql.DB
}

func NewAssistantRepository(db *sql.DB) *AssistantRepository {
	return &AssistantRepository{db: db}
}

func (r *AssistantRepository) Create(ctx context.Context, qa *domain.AssistantExchange) error {
	if qa.CreatedAt.IsZero() {
		qa.CreatedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(qa.Answer)
	if err != nil {
		return fmt.Errorf("encode assistant answer: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO assistant_qa (qa_id, user_id, case_id, run_id, question, answer, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
`, qa.QAID, qa.UserID, qa.CaseID, qa.RunID, qa.Question, string(payload), qa.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert assistant exchange: %w", err)
	}
	return nil
}

func (r *AssistantRepository) ListByUser(ctx context.Context, userID string, limit, skip int) ([]domain.AssistantExchange, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM assistant_qa WHERE user_id = $1
`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count assistant exchanges: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT qa_id, user_id, case_id, run_id, question, answer, created_at
FROM assistant_qa
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3
`, userID, limit, skip)
	if err != nil {
		return nil, 0, fmt.Errorf("list assistant exchanges: %w", err)
	}
	defer rows.Close()

	var list []domain.AssistantExchange
	for rows.Next() {
		var (
			qa      domain.AssistantExchange
			payload string
		)
		if err := rows.Scan(&qa.QAID, &qa.UserID, &qa.CaseID, &qa.RunID, &qa.Question, &payload, &qa.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan assistant row: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &qa.Answer); err != nil {
			return nil, 0, fmt.Errorf("decode assistant answer: %w", err)
		}
		list = append(list, qa)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate assistant exchanges: %w", err)
	}
	return list, total, nil
}

func (r *AssistantRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM assistant_qa WHERE user_id = $1
`, userID).Scan(&total); err != nil {
		return 0, fmt.Errorf("count assistant exchanges by user: %w", err)
	}
	return total, nil
}
