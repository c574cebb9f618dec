package usecase

import (
	"context"
	"fmt"

	"github.com/nexodify/forensic-engine/internal/core/domain"
	"github.com/nexodify/forensic-engine/internal/core/ports"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type HistoryUseCase struct {
	analyses  ports.AnalysisRepository
	forensics ports.ForensicsRepository
	assistant ports.AssistantRepository
}

func NewHistoryUseCase(
	analyses ports.AnalysisRepository,
	forensics ports.ForensicsRepository,
	assistant ports.AssistantRepository,
) *HistoryUseCase {
	return &HistoryUseCase{
		analyses:  analyses,
		forensics: forensics,
		assistant: assistant,
	}
}

func clampPage(limit, skip int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if skip < 0 {
		skip = 0
	}
	return limit, skip
}

func (uc *HistoryUseCase) Analyses(ctx context.Context, user *domain.User, limit, skip int) ([]domain.Analysis, int, error) {
	limit, skip = clampPage(limit, skip)
	items, total, err := uc.analyses.ListByUser(ctx, user.UserID, limit, skip)
	if err != nil {
		return nil, 0, fmt.Errorf("list analyses: %w", err)
	}
	return items, total, nil
}

func (uc *HistoryUseCase) ImageScans(ctx context.Context, user *domain.User, limit, skip int) ([]domain.ImageForensics, int, error) {
	limit, skip = clampPage(limit, skip)
	items, total, err := uc.forensics.ListByUser(ctx, user.UserID, limit, skip)
	if err != nil {
		return nil, 0, fmt.Errorf("list image scans: %w", err)
	}
	return items, total, nil
}

func (uc *HistoryUseCase) AssistantExchanges(ctx context.Context, user *domain.User, limit, skip int) ([]domain.AssistantExchange, int, error) {
	limit, skip = clampPage(limit, skip)
	items, total, err := uc.assistant.ListByUser(ctx, user.UserID, limit, skip)
	if err != nil {
		return nil, 0, fmt.Errorf("list assistant exchanges: %w", err)
	}
	return items, total, nil
}
