package usecase

import (
	"context"
	"fmt"

	"github.com/nexodify/forensic-engine/internal/core/domain"
	"github.com/nexodify/forensic-engine/internal/core/ports"
)

// recentOverviewItems bounds the "latest activity" slices on the
// dashboard and the admin overview.
const recentOverviewItems = 5

type DashboardUseCase struct {
	analyses  ports.AnalysisRepository
	forensics ports.ForensicsRepository
	assistant ports.AssistantRepository
}

func NewDashboardUseCase(
	analyses ports.AnalysisRepository,
	forensics ports.ForensicsRepository,
	assistant ports.AssistantRepository,
) *DashboardUseCase {
	return &DashboardUseCase{
		analyses:  analyses,
		forensics: forensics,
		assistant: assistant,
	}
}

func (uc *DashboardUseCase) Stats(ctx context.Context, user *domain.User) (*domain.DashboardStats, error) {
	totalAnalyses, err := uc.analyses.CountByUser(ctx, user.UserID)
	if err != nil {
		return nil, fmt.Errorf("count analyses: %w", err)
	}
	totalImages, err := uc.forensics.CountByUser(ctx, user.UserID)
	if err != nil {
		return nil, fmt.Errorf("count image scans: %w", err)
	}
	totalMsgs, err := uc.assistant.CountByUser(ctx, user.UserID)
	if err != nil {
		return nil, fmt.Errorf("count assistant exchanges: %w", err)
	}
	semaforo, err := uc.analyses.SemaforoDistribution(ctx, user.UserID)
	if err != nil {
		return nil, fmt.Errorf("semaforo distribution: %w", err)
	}
	recent, _, err := uc.analyses.ListByUser(ctx, user.UserID, recentOverviewItems, 0)
	if err != nil {
		return nil, fmt.Errorf("recent analyses: %w", err)
	}

	return &domain.DashboardStats{
		TotalAnalyses:      totalAnalyses,
		TotalImageScans:    totalImages,
		TotalAssistantMsgs: totalMsgs,
		SemaforoCounts:     semaforo,
		RecentAnalyses:     recent,
		Quota:              user.Quota,
		Plan:               user.Plan,
	}, nil
}
