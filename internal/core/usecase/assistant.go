package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nexodify/forensic-engine/internal/core/domain"
	"github.com/nexodify/forensic-engine/internal/core/ports"
)

const assistantQuotaCounter = "assistant_messages_remaining"

const maxQuestionRunes = 4000

type AssistantUseCase struct {
	answerer ports.AssistantAnswerer
	repo     ports.AssistantRepository
	analyses ports.AnalysisRepository
	users    ports.UserRepository

	now func() time.Time
}

func NewAssistantUseCase(
	answerer ports.AssistantAnswerer,
	repo ports.AssistantRepository,
	analyses ports.AnalysisRepository,
	users ports.UserRepository,
) *AssistantUseCase {
	return &AssistantUseCase{
		answerer: answerer,
		repo:     repo,
		analyses: analyses,
		users:    users,
		now:      time.Now,
	}
}

// Ask charges one assistant message, answers the question and records the
// exchange. When relatedCaseID names one of the user's analyses its client
// summary is handed to the model as context.
func (uc *AssistantUseCase) Ask(ctx context.Context, user *domain.User, question, relatedCaseID string) (*domain.AssistantExchange, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "assistant ask", errors.New("empty question"))
	}
	if len([]rune(question)) > maxQuestionRunes {
		return nil, domain.WrapError(domain.ErrInvalidInput, "assistant ask",
			fmt.Errorf("question exceeds %d characters", maxQuestionRunes))
	}

	charged := false
	if !user.IsMasterAdmin {
		if err := uc.users.AdjustQuota(ctx, user.UserID, assistantQuotaCounter, -1); err != nil {
			if domain.IsKind(err, domain.ErrQuotaExceeded) {
				return nil, err
			}
			return nil, fmt.Errorf("charge assistant quota: %w", err)
		}
		charged = true
	}

	exchange, err := uc.answerAndRecord(ctx, user, question, relatedCaseID)
	if err != nil && charged {
		if refundErr := uc.users.AdjustQuota(ctx, user.UserID, assistantQuotaCounter, 1); refundErr != nil {
			return nil, fmt.Errorf("%w; refund assistant quota: %v", err, refundErr)
		}
	}
	return exchange, err
}

func (uc *AssistantUseCase) answerAndRecord(ctx context.Context, user *domain.User, question, relatedCaseID string) (*domain.AssistantExchange, error) {
	caseContext, caseID := uc.caseContext(ctx, user, relatedCaseID)

	answer, err := uc.answerer.Answer(ctx, question, caseContext)
	if err != nil {
		return nil, fmt.Errorf("assistant answer: %w", err)
	}

	exchange := &domain.AssistantExchange{
		QAID:      newID("qa_"),
		UserID:    user.UserID,
		CaseID:    caseID,
		RunID:     newID("qa_run_"),
		Question:  question,
		Answer:    *answer,
		CreatedAt: uc.now().UTC(),
	}
	if err := uc.repo.Create(ctx, exchange); err != nil {
		return nil, fmt.Errorf("record assistant exchange: %w", err)
	}
	return exchange, nil
}

// caseContext builds the model context from the referenced case. Unknown
// or foreign case ids degrade to no context rather than failing the
// question the user already paid for.
func (uc *AssistantUseCase) caseContext(ctx context.Context, user *domain.User, relatedCaseID string) (string, string) {
	if relatedCaseID == "" {
		return "", ""
	}
	analysis, err := uc.analyses.GetByCaseID(ctx, user.UserID, relatedCaseID)
	if err != nil || analysis.Result == nil {
		return "", ""
	}
	summary, err := json.Marshal(analysis.Result.SummaryForClient)
	if err != nil {
		return "", analysis.CaseID
	}
	return fmt.Sprintf("Perizia %s (%s): %s", analysis.CaseID, analysis.FileName, summary), analysis.CaseID
}
