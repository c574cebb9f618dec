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

type ProcessPeriziaUseCase struct {
	analyses  ports.AnalysisRepository
	users     ports.UserRepository
	extractor ports.PeriziaExtractor
	analyzer  ports.VerdictAnalyzer

	textBudget int
	now        func() time.Time
	observers  ProcessObservers
}

// ProcessObservers receive processing telemetry. Every field is optional.
type ProcessObservers struct {
	ExtractedPages  func(pages int)
	FallbackVerdict func(reason string)
}

func (uc *ProcessPeriziaUseCase) SetObservers(obs ProcessObservers) {
	uc.observers = obs
}

func NewProcessPeriziaUseCase(
	analyses ports.AnalysisRepository,
	users ports.UserRepository,
	extractor ports.PeriziaExtractor,
	analyzer ports.VerdictAnalyzer,
	textBudget int,
) *ProcessPeriziaUseCase {
	return &ProcessPeriziaUseCase{
		analyses:   analyses,
		users:      users,
		extractor:  extractor,
		analyzer:   analyzer,
		textBudget: textBudget,
		now:        time.Now,
	}
}

// ProcessByID runs one queued analysis to completion. Every scan
// terminates: unreadable documents and exhausted upstream retries fail
// the analysis and refund the scan; an analyzer that responded but could
// not produce a valid verdict degrades to the conservative fallback
// instead, because at that point the document itself was fine.
func (uc *ProcessPeriziaUseCase) ProcessByID(ctx context.Context, analysisID string) error {
	analysis, err := uc.analyses.GetByID(ctx, analysisID)
	if err != nil {
		return fmt.Errorf("fetch analysis by id: %w", err)
	}
	if analysis.Status == domain.AnalysisReady {
		// Redelivered job, nothing to do.
		return nil
	}

	if err := uc.analyses.UpdateStatus(ctx, analysisID, domain.AnalysisProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	pageCount, verdict, err := uc.analyze(ctx, analysis)
	if err != nil {
		if failErr := uc.markFailedAndRefund(ctx, analysis, err); failErr != nil {
			return fmt.Errorf("%w; mark failed: %v", err, failErr)
		}
		return err
	}

	if err := uc.analyses.SaveVerdict(ctx, analysisID, pageCount, verdict); err != nil {
		return fmt.Errorf("save verdict: %w", err)
	}
	return nil
}

func (uc *ProcessPeriziaUseCase) analyze(ctx context.Context, analysis *domain.Analysis) (int, *domain.Verdict, error) {
	pages, err := uc.extractor.Extract(ctx, analysis.StoragePath)
	if err != nil {
		return 0, nil, fmt.Errorf("extract text: %w", err)
	}
	if uc.observers.ExtractedPages != nil {
		uc.observers.ExtractedPages(len(pages))
	}

	text := joinPages(pages, uc.textBudget)
	if strings.TrimSpace(stripPageMarkers(text)) == "" {
		return 0, nil, domain.WrapError(domain.ErrInvalidInput, "extract text",
			errors.New("no extractable text, document appears to be scanned images"))
	}

	verdict, err := uc.analyzer.Analyze(ctx, domain.AnalysisRequest{
		CaseID:    analysis.CaseID,
		RunID:     analysis.RunID,
		FileName:  analysis.FileName,
		PageCount: len(pages),
		Text:      text,
	})
	if err != nil {
		if domain.IsKind(err, domain.ErrTemporary) {
			// The executor already retried with backoff. An upstream
			// that is still down fails the scan so the unit is
			// refunded; the fallback verdict is reserved for a
			// reachable model that produced unusable output.
			return 0, nil, err
		}
		if uc.observers.FallbackVerdict != nil {
			uc.observers.FallbackVerdict("analyzer_error")
		}
		verdict = domain.FallbackVerdict(analysis.CaseID, analysis.RunID, analysis.Revision, uc.now().UTC())
	}
	return len(pages), verdict, nil
}

func (uc *ProcessPeriziaUseCase) markFailedAndRefund(ctx context.Context, analysis *domain.Analysis, cause error) error {
	if err := uc.analyses.UpdateStatus(ctx, analysis.AnalysisID, domain.AnalysisFailed, cause.Error()); err != nil {
		return err
	}
	owner, err := uc.users.GetByID(ctx, analysis.UserID)
	if err != nil {
		return fmt.Errorf("fetch analysis owner: %w", err)
	}
	if owner.IsMasterAdmin {
		// Never charged at upload time.
		return nil
	}
	// The scan was charged at upload time but produced nothing usable.
	if err := uc.users.AdjustQuota(ctx, analysis.UserID, periziaQuotaCounter, 1); err != nil {
		return fmt.Errorf("refund scan quota: %w", err)
	}
	return nil
}

// joinPages renders extracted pages into the single prompt text the
// analyzer consumes, each page headed by a marker the model can cite.
// A non-positive budget disables truncation; otherwise the result is
// cut at the budget in runes.
func joinPages(pages []ports.Page, budget int) string {
	var b strings.Builder
	for _, p := range pages {
		fmt.Fprintf(&b, "=== PAGE %d ===\n", p.Number)
		if p.Text != "" {
			b.WriteString(p.Text)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	text := strings.TrimRight(b.String(), "\n")
	if budget <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= budget {
		return text
	}
	return string(runes[:budget])
}

func stripPageMarkers(text string) string {
	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "=== PAGE ") {
			continue
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
