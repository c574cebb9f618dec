package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nexodify/forensic-engine/internal/core/domain"
)

func TestAskAnswersAndRecordsExchange(t *testing.T) {
	answerer := &answererFake{}
	repo := &assistantRepoFake{}
	users := newUserRepoFake()
	uc := NewAssistantUseCase(answerer, repo, newAnalysisRepoFake(), users)

	exchange, err := uc.Ask(context.Background(), testUser(), "Posso fare un'offerta?", "")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if !strings.HasPrefix(exchange.QAID, "qa_") || !strings.HasPrefix(exchange.RunID, "qa_run_") {
		t.Fatalf("unexpected ids %s %s", exchange.QAID, exchange.RunID)
	}
	if exchange.Answer.AnswerIT == "" {
		t.Fatalf("expected an answer")
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected exchange persisted")
	}
	if len(users.quotaCalls) != 1 || users.quotaCalls[0].counter != assistantQuotaCounter || users.quotaCalls[0].delta != -1 {
		t.Fatalf("expected one assistant charge, got %v", users.quotaCalls)
	}
}

func TestAskPassesOwnedCaseContext(t *testing.T) {
	analyses := newAnalysisRepoFake()
	a := queuedAnalysis()
	a.Status = domain.AnalysisReady
	a.Result = readyVerdict()
	a.Result.SummaryForClient.SummaryIT = "Immobile senza criticità rilevanti"
	analyses.add(a)
	answerer := &answererFake{}
	uc := NewAssistantUseCase(answerer, &assistantRepoFake{}, analyses, newUserRepoFake())

	exchange, err := uc.Ask(context.Background(), testUser(), "Quanto rischio?", "case_1")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if exchange.CaseID != "case_1" {
		t.Fatalf("expected case linkage, got %q", exchange.CaseID)
	}
	if !strings.Contains(answerer.lastContext, "Immobile senza criticità rilevanti") {
		t.Fatalf("expected case summary in context, got %q", answerer.lastContext)
	}
}

func TestAskForeignCaseDegradesToNoContext(t *testing.T) {
	analyses := newAnalysisRepoFake()
	a := queuedAnalysis()
	a.UserID = "user_other"
	a.Result = readyVerdict()
	analyses.add(a)
	answerer := &answererFake{}
	uc := NewAssistantUseCase(answerer, &assistantRepoFake{}, analyses, newUserRepoFake())

	exchange, err := uc.Ask(context.Background(), testUser(), "Quanto rischio?", "case_1")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if exchange.CaseID != "" || answerer.lastContext != "" {
		t.Fatalf("foreign case leaked: case=%q context=%q", exchange.CaseID, answerer.lastContext)
	}
}

func TestAskEmptyQuestionRejected(t *testing.T) {
	uc := NewAssistantUseCase(&answererFake{}, &assistantRepoFake{}, newAnalysisRepoFake(), newUserRepoFake())

	_, err := uc.Ask(context.Background(), testUser(), "   ", "")
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestAskExhaustedQuotaRejected(t *testing.T) {
	users := newUserRepoFake()
	users.quotaErr = domain.WrapError(domain.ErrQuotaExceeded, "adjust quota", errors.New("exhausted"))
	uc := NewAssistantUseCase(&answererFake{}, &assistantRepoFake{}, newAnalysisRepoFake(), users)

	_, err := uc.Ask(context.Background(), testUser(), "Domanda", "")
	if !domain.IsKind(err, domain.ErrQuotaExceeded) {
		t.Fatalf("expected quota exceeded, got %v", err)
	}
}

func TestAskAnswererFailureRefundsQuota(t *testing.T) {
	users := newUserRepoFake()
	answerer := &answererFake{err: errors.New("model down")}
	uc := NewAssistantUseCase(answerer, &assistantRepoFake{}, newAnalysisRepoFake(), users)

	_, err := uc.Ask(context.Background(), testUser(), "Domanda", "")
	if err == nil {
		t.Fatalf("expected error")
	}
	if len(users.quotaCalls) != 2 || users.quotaCalls[1].delta != 1 {
		t.Fatalf("expected charge then refund, got %v", users.quotaCalls)
	}
}
