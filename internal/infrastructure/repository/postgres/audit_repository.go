package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nexodify/forensic-engine/internal/core/domain"
)

type AuditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Append(ctx context.Context, entry *domain.AuditEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO audit_log (entry_id, admin_id, target_user_id, action, changes, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
`, entry.EntryID, entry.AdminID, entry.TargetUserID, entry.Action, entry.Changes, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (r *AuditRepository) ListByTarget(ctx context.Context, targetUserID string, limit int) ([]domain.AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT entry_id, admin_id, target_user_id, action, changes, created_at
FROM audit_log
WHERE target_user_id = $1
ORDER BY created_at DESC
LIMIT $2
`, targetUserID, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		if err := rows.Scan(&e.EntryID, &e.AdminID, &e.TargetUserID, &e.Action, &e.Changes, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}
	return entries, nil
}
