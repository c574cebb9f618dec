package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/nexodify/forensic-engine/internal/core/domain"
	"github.com/nexodify/forensic-engine/internal/core/ports"
)

const periziaQuotaCounter = "perizia_scans_remaining"

type IngestPeriziaUseCase struct {
	analyses ports.AnalysisRepository
	users    ports.UserRepository
	storage  ports.ObjectStorage
	queue    ports.MessageQueue

	maxUploadBytes int64
}

func NewIngestPeriziaUseCase(
	analyses ports.AnalysisRepository,
	users ports.UserRepository,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
	maxUploadBytes int64,
) *IngestPeriziaUseCase {
	return &IngestPeriziaUseCase{
		analyses:       analyses,
		users:          users,
		storage:        storage,
		queue:          queue,
		maxUploadBytes: maxUploadBytes,
	}
}

// Upload accepts a perizia PDF, charges one scan from the owner's quota and
// queues the analysis. The scan is refunded if the job cannot be queued.
func (uc *IngestPeriziaUseCase) Upload(
	ctx context.Context,
	user *domain.User,
	filename, mimeType string,
	size int64,
	body io.Reader,
) (*domain.Analysis, error) {
	if err := validatePDFUpload(filename, mimeType, size, uc.maxUploadBytes); err != nil {
		return nil, err
	}

	charged := false
	if !user.IsMasterAdmin {
		if err := uc.users.AdjustQuota(ctx, user.UserID, periziaQuotaCounter, -1); err != nil {
			if domain.IsKind(err, domain.ErrQuotaExceeded) {
				return nil, err
			}
			return nil, fmt.Errorf("charge scan quota: %w", err)
		}
		charged = true
	}

	analysis, err := uc.createAndQueue(ctx, user, filename, body)
	if err != nil && charged {
		// Best effort refund. Losing it means the user is owed one scan,
		// which support can restore from the error log.
		if refundErr := uc.users.AdjustQuota(ctx, user.UserID, periziaQuotaCounter, 1); refundErr != nil {
			return nil, fmt.Errorf("%w; refund scan quota: %v", err, refundErr)
		}
	}
	return analysis, err
}

func (uc *IngestPeriziaUseCase) createAndQueue(
	ctx context.Context,
	user *domain.User,
	filename string,
	body io.Reader,
) (*domain.Analysis, error) {
	analysisID := newID("analysis_")
	storageKey := fmt.Sprintf("%s/%s.pdf", user.UserID, analysisID)
	now := time.Now().UTC()

	if err := uc.storage.Save(ctx, storageKey, body); err != nil {
		return nil, fmt.Errorf("save source document: %w", err)
	}

	analysis := &domain.Analysis{
		AnalysisID:  analysisID,
		UserID:      user.UserID,
		CaseID:      newID("case_"),
		RunID:       newID("run_"),
		Revision:    1,
		CaseTitle:   caseTitleFromFilename(filename),
		FileName:    sanitizeFilename(filename),
		StoragePath: storageKey,
		Status:      domain.AnalysisQueued,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.analyses.Create(ctx, analysis); err != nil {
		return nil, fmt.Errorf("create analysis record: %w", err)
	}

	if err := uc.queue.PublishAnalysisQueued(ctx, analysis.AnalysisID); err != nil {
		if failErr := uc.analyses.UpdateStatus(ctx, analysis.AnalysisID, domain.AnalysisFailed, "queueing failed"); failErr != nil {
			return nil, fmt.Errorf("publish analysis job: %w; mark failed: %v", err, failErr)
		}
		return nil, fmt.Errorf("publish analysis job: %w", err)
	}

	return analysis, nil
}

func validatePDFUpload(filename, mimeType string, size, maxBytes int64) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".pdf" {
		return domain.WrapError(domain.ErrInvalidInput, "validate upload",
			errors.New("solo file PDF sono supportati / only PDF files are supported"))
	}
	if mimeType != "" && mimeType != "application/pdf" && mimeType != "application/octet-stream" {
		return domain.WrapError(domain.ErrInvalidInput, "validate upload",
			fmt.Errorf("unexpected content type %q", mimeType))
	}
	if maxBytes > 0 && size > maxBytes {
		return domain.WrapError(domain.ErrInvalidInput, "validate upload",
			fmt.Errorf("file exceeds the %d MiB limit", maxBytes>>20))
	}
	return nil
}

func caseTitleFromFilename(name string) string {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.ReplaceAll(base, "_", " ")
	base = strings.TrimSpace(base)
	if base == "" {
		return "Perizia"
	}
	return base
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == ".pdf" {
		return "perizia.pdf"
	}
	return base
}
