package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nexodify/forensic-engine/internal/core/domain"
	"github.com/nexodify/forensic-engine/internal/core/ports"
)

const imageQuotaCounter = "image_scans_remaining"

const maxImagesPerScan = 10

type ForensicsUseCase struct {
	analyzer ports.ForensicsAnalyzer
	repo     ports.ForensicsRepository
	users    ports.UserRepository

	now func() time.Time
}

func NewForensicsUseCase(
	analyzer ports.ForensicsAnalyzer,
	repo ports.ForensicsRepository,
	users ports.UserRepository,
) *ForensicsUseCase {
	return &ForensicsUseCase{
		analyzer: analyzer,
		repo:     repo,
		users:    users,
		now:      time.Now,
	}
}

// AnalyzeImages charges one image scan, runs the vision analysis over the
// base64 encoded photos and records the outcome.
func (uc *ForensicsUseCase) AnalyzeImages(ctx context.Context, user *domain.User, caseID string, images []string) (*domain.ImageForensics, error) {
	if len(images) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "image forensics", errors.New("no images supplied"))
	}
	if len(images) > maxImagesPerScan {
		return nil, domain.WrapError(domain.ErrInvalidInput, "image forensics",
			fmt.Errorf("at most %d images per scan", maxImagesPerScan))
	}
	for i, img := range images {
		if img == "" {
			return nil, domain.WrapError(domain.ErrInvalidInput, "image forensics",
				fmt.Errorf("image %d is empty", i))
		}
	}

	charged := false
	if !user.IsMasterAdmin {
		if err := uc.users.AdjustQuota(ctx, user.UserID, imageQuotaCounter, -1); err != nil {
			if domain.IsKind(err, domain.ErrQuotaExceeded) {
				return nil, err
			}
			return nil, fmt.Errorf("charge image quota: %w", err)
		}
		charged = true
	}

	record, err := uc.analyzeAndRecord(ctx, user, caseID, images)
	if err != nil && charged {
		if refundErr := uc.users.AdjustQuota(ctx, user.UserID, imageQuotaCounter, 1); refundErr != nil {
			return nil, fmt.Errorf("%w; refund image quota: %v", err, refundErr)
		}
	}
	return record, err
}

func (uc *ForensicsUseCase) analyzeAndRecord(ctx context.Context, user *domain.User, caseID string, images []string) (*domain.ImageForensics, error) {
	if caseID == "" {
		caseID = newID("case_")
	}
	runID := newID("img_run_")

	result, err := uc.analyzer.AnalyzeImages(ctx, caseID, runID, images)
	if err != nil {
		return nil, fmt.Errorf("analyze images: %w", err)
	}

	record := &domain.ImageForensics{
		ForensicsID: newID("forensics_"),
		UserID:      user.UserID,
		CaseID:      caseID,
		RunID:       runID,
		ImageCount:  len(images),
		Result:      *result,
		CreatedAt:   uc.now().UTC(),
	}
	if err := uc.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("record image forensics: %w", err)
	}
	return record, nil
}
