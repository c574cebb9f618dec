package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nexodify/forensic-engine/internal/core/domain"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

func (r *AnalysisRepository) Create(ctx context.Context, a *domain.Analysis) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	a.UpdatedAt = a.CreatedAt
	_, err := r.db.ExecContext(ctx, `
INSERT INTO analyses (analysis_id, user_id, case_id, run_id, revision, case_title,
	file_name, storage_path, page_count, status, error_message, result, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,NULL,$12,$13)
`, a.AnalysisID, a.UserID, a.CaseID, a.RunID, a.Revision, a.CaseTitle,
		a.FileName, a.StoragePath, a.PageCount, a.Status, a.Error, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

const analysisColumns = `analysis_id, user_id, case_id, run_id, revision, case_title,
	file_name, storage_path, page_count, status, error_message, result, created_at, updated_at`

func scanAnalysis(row interface{ Scan(...any) error }) (*domain.Analysis, error) {
	var (
		a      domain.Analysis
		result sql.NullString
		status string
	)
	err := row.Scan(
		&a.AnalysisID,
		&a.UserID,
		&a.CaseID,
		&a.RunID,
		&a.Revision,
		&a.CaseTitle,
		&a.FileName,
		&a.StoragePath,
		&a.PageCount,
		&status,
		&a.Error,
		&result,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Status = domain.AnalysisStatus(status)
	if result.Valid && result.String != "" {
		var verdict domain.Verdict
		if err := json.Unmarshal([]byte(result.String), &verdict); err != nil {
			return nil, fmt.Errorf("decode verdict json: %w", err)
		}
		a.Result = &verdict
	}
	return &a, nil
}

func (r *AnalysisRepository) GetByID(ctx context.Context, analysisID string) (*domain.Analysis, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+analysisColumns+`
FROM analyses
WHERE analysis_id = $1
`, analysisID)
	a, err := scanAnalysis(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "get analysis", fmt.Errorf("analysis %s", analysisID))
		}
		return nil, fmt.Errorf("get analysis: %w", err)
	}
	return a, nil
}

// GetOwned fetches an analysis only when it belongs to the given user, so
// ownership never has to be rechecked in the caller.
func (r *AnalysisRepository) GetOwned(ctx context.Context, userID, analysisID string) (*domain.Analysis, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+analysisColumns+`
FROM analyses
WHERE analysis_id = $1 AND user_id = $2
`, analysisID, userID)
	a, err := scanAnalysis(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "get owned analysis", fmt.Errorf("analysis %s", analysisID))
		}
		return nil, fmt.Errorf("get owned analysis: %w", err)
	}
	return a, nil
}

func (r *AnalysisRepository) GetByCaseID(ctx context.Context, userID, caseID string) (*domain.Analysis, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+analysisColumns+`
FROM analyses
WHERE case_id = $1 AND user_id = $2
ORDER BY revision DESC, created_at DESC
LIMIT 1
`, caseID, userID)
	a, err := scanAnalysis(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "get analysis by case", fmt.Errorf("case %s", caseID))
		}
		return nil, fmt.Errorf("get analysis by case: %w", err)
	}
	return a, nil
}

func (r *AnalysisRepository) UpdateStatus(ctx context.Context, analysisID string, status domain.AnalysisStatus, errMessage string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE analyses
SET status = $2, error_message = $3, updated_at = $4
WHERE analysis_id = $1
`, analysisID, status, errMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update analysis status: %w", err)
	}
	return requireRowAffected(res, "update analysis status", analysisID)
}

func (r *AnalysisRepository) SaveVerdict(ctx context.Context, analysisID string, pageCount int, verdict *domain.Verdict) error {
	payload, err := json.Marshal(verdict)
	if err != nil {
		return fmt.Errorf("encode verdict json: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `
UPDATE analyses
SET status = $2, page_count = $3, result = $4, error_message = '', updated_at = $5
WHERE analysis_id = $1
`, analysisID, domain.AnalysisReady, pageCount, string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save verdict: %w", err)
	}
	return requireRowAffected(res, "save verdict", analysisID)
}

// SaveHeadline persists an owner-corrected verdict with a bumped revision.
func (r *AnalysisRepository) SaveHeadline(ctx context.Context, analysisID string, verdict *domain.Verdict, revision int) error {
	payload, err := json.Marshal(verdict)
	if err != nil {
		return fmt.Errorf("encode verdict json: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `
UPDATE analyses
SET result = $2, revision = $3, updated_at = $4
WHERE analysis_id = $1
`, analysisID, string(payload), revision, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save headline: %w", err)
	}
	return requireRowAffected(res, "save headline", analysisID)
}

func (r *AnalysisRepository) ListByUser(ctx context.Context, userID string, limit, skip int) ([]domain.Analysis, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM analyses WHERE user_id = $1
`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count analyses: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT `+analysisColumns+`
FROM analyses
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3
`, userID, limit, skip)
	if err != nil {
		return nil, 0, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()

	var list []domain.Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan analysis row: %w", err)
		}
		list = append(list, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate analyses: %w", err)
	}
	return list, total, nil
}

func (r *AnalysisRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM analyses WHERE user_id = $1
`, userID).Scan(&total); err != nil {
		return 0, fmt.Errorf("count analyses by user: %w", err)
	}
	return total, nil
}

func (r *AnalysisRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM analyses`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count analyses: %w", err)
	}
	return total, nil
}

// SemaforoDistribution counts ready analyses per overall traffic-light
// status. An empty userID aggregates over all users for the back office.
func (r *AnalysisRepository) SemaforoDistribution(ctx context.Context, userID string) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT result->'semaforo_generale'->>'status' AS semaforo, COUNT(*)
FROM analyses
WHERE ($1 = '' OR user_id = $1) AND status = $2 AND result IS NOT NULL
GROUP BY semaforo
`, userID, domain.AnalysisReady)
	if err != nil {
		return nil, fmt.Errorf("semaforo distribution: %w", err)
	}
	defer rows.Close()

	dist := map[string]int{}
	for rows.Next() {
		var (
			semaforo sql.NullString
			count    int
		)
		if err := rows.Scan(&semaforo, &count); err != nil {
			return nil, fmt.Errorf("scan distribution row: %w", err)
		}
		if semaforo.Valid {
			dist[semaforo.String] = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate distribution: %w", err)
	}
	return dist, nil
}
