package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nexodify/forensic-engine/internal/core/domain"
	"github.com/nexodify/forensic-engine/internal/core/ports"
)

// AnalysisQueryUseCase serves a user's own analyses and owner corrections
// of the extracted headline fields.
type AnalysisQueryUseCase struct {
	analyses ports.AnalysisRepository

	now func() time.Time
}

func NewAnalysisQueryUseCase(analyses ports.AnalysisRepository) *AnalysisQueryUseCase {
	return &AnalysisQueryUseCase{analyses: analyses, now: time.Now}
}

func (uc *AnalysisQueryUseCase) GetOwned(ctx context.Context, user *domain.User, analysisID string) (*domain.Analysis, error) {
	analysis, err := uc.analyses.GetOwned(ctx, user.UserID, analysisID)
	if err != nil {
		return nil, fmt.Errorf("fetch analysis: %w", err)
	}
	return analysis, nil
}

// CorrectHeadline overwrites extracted header fields with owner-supplied
// values and bumps the verdict revision. Corrections carry no evidence:
// they came from the user, not from the document.
func (uc *AnalysisQueryUseCase) CorrectHeadline(ctx context.Context, user *domain.User, analysisID string, correction domain.HeadlineCorrection) (*domain.Analysis, error) {
	if correction.Empty() {
		return nil, domain.WrapError(domain.ErrInvalidInput, "correct headline", errors.New("no fields to update"))
	}

	analysis, err := uc.analyses.GetOwned(ctx, user.UserID, analysisID)
	if err != nil {
		return nil, fmt.Errorf("fetch analysis: %w", err)
	}
	if analysis.Result == nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "correct headline",
			errors.New("analysis has no verdict yet"))
	}

	verdict := *analysis.Result
	applyHeadlineField(&verdict.CaseHeader.Tribunale, correction.Tribunale)
	applyHeadlineField(&verdict.CaseHeader.ProcedureID, correction.ProcedureID)
	applyHeadlineField(&verdict.CaseHeader.Lotto, correction.Lotto)
	applyHeadlineField(&verdict.CaseHeader.Address, correction.Address)

	revision := analysis.Revision + 1
	verdict.Run.Revision = revision
	verdict.Run.GeneratedAtUTC = uc.now().UTC().Format(time.RFC3339)

	if err := uc.analyses.SaveHeadline(ctx, analysisID, &verdict, revision); err != nil {
		return nil, fmt.Errorf("save headline correction: %w", err)
	}

	analysis.Result = &verdict
	analysis.Revision = revision
	return analysis, nil
}

func applyHeadlineField(field *domain.HeaderField, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	field.Value = value
	field.Evidence = nil
}
