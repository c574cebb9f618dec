package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nexodify/forensic-engine/internal/core/domain"
	"github.com/nexodify/forensic-engine/internal/core/ports"
)

func queuedAnalysis() *domain.Analysis {
	return &domain.Analysis{
		AnalysisID:  "analysis_1",
		UserID:      "user_1",
		CaseID:      "case_1",
		RunID:       "run_1",
		Revision:    1,
		FileName:    "perizia.pdf",
		StoragePath: "user_1/analysis_1.pdf",
		Status:      domain.AnalysisQueued,
	}
}

func readyVerdict() *domain.Verdict {
	v := domain.FallbackVerdict("case_1", "run_1", 1, time.Now().UTC())
	v.SemaforoGenerale.Status = domain.SemaforoGreen
	v.QA.Status = domain.QAPass
	return v
}

func TestProcessByIDSavesVerdict(t *testing.T) {
	analyses := newAnalysisRepoFake()
	analyses.add(queuedAnalysis())
	users := newUserRepoFake()
	users.add(testUser())
	extractor := &extractorFake{pages: []ports.Page{
		{Number: 1, Text: "TRIBUNALE DI MILANO"},
		{Number: 2, Text: "Lotto Unico"},
	}}
	analyzer := &analyzerFake{verdict: readyVerdict()}
	uc := NewProcessPeriziaUseCase(analyses, users, extractor, analyzer, 40000)

	if err := uc.ProcessByID(context.Background(), "analysis_1"); err != nil {
		t.Fatalf("ProcessByID() error = %v", err)
	}
	stored, ok := analyses.verdicts["analysis_1"]
	if !ok {
		t.Fatalf("expected verdict persisted")
	}
	if stored.SemaforoGenerale.Status != domain.SemaforoGreen {
		t.Fatalf("unexpected semaforo %s", stored.SemaforoGenerale.Status)
	}
	if analyses.byID["analysis_1"].PageCount != 2 {
		t.Fatalf("expected page count 2, got %d", analyses.byID["analysis_1"].PageCount)
	}
	if analyzer.lastReq.CaseID != "case_1" || analyzer.lastReq.PageCount != 2 {
		t.Fatalf("unexpected analyzer request %+v", analyzer.lastReq)
	}
	if !strings.Contains(analyzer.lastReq.Text, "=== PAGE 1 ===") {
		t.Fatalf("expected page markers in prompt text")
	}
}

func TestProcessByIDReadyAnalysisIsNoop(t *testing.T) {
	analyses := newAnalysisRepoFake()
	a := queuedAnalysis()
	a.Status = domain.AnalysisReady
	analyses.add(a)
	uc := NewProcessPeriziaUseCase(analyses, newUserRepoFake(), &extractorFake{}, &analyzerFake{}, 0)

	if err := uc.ProcessByID(context.Background(), "analysis_1"); err != nil {
		t.Fatalf("ProcessByID() error = %v", err)
	}
	if len(analyses.statusCalls) != 0 {
		t.Fatalf("expected no status updates on redelivery, got %v", analyses.statusCalls)
	}
}

func TestProcessByIDScannedDocumentFailsAndRefunds(t *testing.T) {
	analyses := newAnalysisRepoFake()
	analyses.add(queuedAnalysis())
	users := newUserRepoFake()
	users.add(testUser())
	extractor := &extractorFake{pages: []ports.Page{{Number: 1}, {Number: 2}}}
	uc := NewProcessPeriziaUseCase(analyses, users, extractor, &analyzerFake{}, 0)

	err := uc.ProcessByID(context.Background(), "analysis_1")
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	last := analyses.statusCalls[len(analyses.statusCalls)-1]
	if last.status != domain.AnalysisFailed {
		t.Fatalf("expected failed status, got %s", last.status)
	}
	if len(users.quotaCalls) != 1 || users.quotaCalls[0].delta != 1 {
		t.Fatalf("expected one refund, got %v", users.quotaCalls)
	}
}

func TestProcessByIDAnalyzerFailureStoresFallback(t *testing.T) {
	analyses := newAnalysisRepoFake()
	analyses.add(queuedAnalysis())
	users := newUserRepoFake()
	users.add(testUser())
	extractor := &extractorFake{pages: []ports.Page{{Number: 1, Text: "testo perizia"}}}
	analyzer := &analyzerFake{err: domain.WrapError(domain.ErrInvalidInput, "validate verdict", errors.New("bad json"))}
	uc := NewProcessPeriziaUseCase(analyses, users, extractor, analyzer, 0)

	if err := uc.ProcessByID(context.Background(), "analysis_1"); err != nil {
		t.Fatalf("ProcessByID() error = %v", err)
	}
	stored := analyses.verdicts["analysis_1"]
	if stored == nil {
		t.Fatalf("expected fallback verdict persisted")
	}
	if stored.SemaforoGenerale.Status != domain.SemaforoAmber || stored.QA.Status != domain.QAWarn {
		t.Fatalf("expected conservative fallback, got %s/%s", stored.SemaforoGenerale.Status, stored.QA.Status)
	}
	if len(users.quotaCalls) != 0 {
		t.Fatalf("fallback still consumes the scan, got refunds %v", users.quotaCalls)
	}
}

// A transport without redelivery means an exhausted upstream must end
// the scan in a terminal state, never leave it parked in queued.
func TestProcessByIDExhaustedUpstreamFailsAndRefunds(t *testing.T) {
	analyses := newAnalysisRepoFake()
	analyses.add(queuedAnalysis())
	users := newUserRepoFake()
	users.add(testUser())
	extractor := &extractorFake{pages: []ports.Page{{Number: 1, Text: "testo"}}}
	analyzer := &analyzerFake{err: domain.WrapError(domain.ErrTemporary, "llm completion", errors.New("rate limited"))}
	uc := NewProcessPeriziaUseCase(analyses, users, extractor, analyzer, 0)

	err := uc.ProcessByID(context.Background(), "analysis_1")
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected temporary error, got %v", err)
	}
	if analyses.verdicts["analysis_1"] != nil {
		t.Fatalf("expected no verdict stored for failed scan")
	}
	last := analyses.statusCalls[len(analyses.statusCalls)-1]
	if last.status != domain.AnalysisFailed {
		t.Fatalf("expected terminal failed status, got %s", last.status)
	}
	if len(users.quotaCalls) != 1 || users.quotaCalls[0].delta != 1 || users.quotaCalls[0].counter != periziaQuotaCounter {
		t.Fatalf("expected one scan refund, got %v", users.quotaCalls)
	}
}

func TestJoinPagesAddsPageMarkers(t *testing.T) {
	got := joinPages([]ports.Page{
		{Number: 1, Text: "TRIBUNALE DI MILANO"},
		{Number: 2, Text: "Lotto Unico"},
	}, 0)

	if !strings.Contains(got, "=== PAGE 1 ===\nTRIBUNALE DI MILANO") {
		t.Fatalf("missing page 1 marker:\n%s", got)
	}
	if !strings.Contains(got, "=== PAGE 2 ===\nLotto Unico") {
		t.Fatalf("missing page 2 marker:\n%s", got)
	}
}

func TestJoinPagesKeepsEmptyPageMarker(t *testing.T) {
	got := joinPages([]ports.Page{
		{Number: 1, Text: "testo"},
		{Number: 2},
		{Number: 3, Text: "altro"},
	}, 0)

	if !strings.Contains(got, "=== PAGE 2 ===") {
		t.Fatalf("scanned page marker dropped:\n%s", got)
	}
}

func TestJoinPagesHonorsBudget(t *testing.T) {
	pages := []ports.Page{{Number: 1, Text: strings.Repeat("à", 500)}}
	got := joinPages(pages, 100)
	if n := len([]rune(got)); n != 100 {
		t.Fatalf("len = %d runes, want 100", n)
	}
}

func TestJoinPagesBudgetDisabledWhenNonPositive(t *testing.T) {
	pages := []ports.Page{{Number: 1, Text: strings.Repeat("x", 500)}}
	if got := joinPages(pages, -1); !strings.Contains(got, strings.Repeat("x", 500)) {
		t.Fatalf("text truncated with disabled budget")
	}
}
