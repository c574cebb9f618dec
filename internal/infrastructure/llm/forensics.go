package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nexodify/forensic-engine/internal/core/domain"
)

// ForensicsAnalyzer runs the vision prompt over property photos.
type ForensicsAnalyzer struct {
	analyzer *VerdictAnalyzer
}

func NewForensicsAnalyzer(analyzer *VerdictAnalyzer) *ForensicsAnalyzer {
	return &ForensicsAnalyzer{analyzer: analyzer}
}

func (f *ForensicsAnalyzer) AnalyzeImages(ctx context.Context, caseID, runID string, images []string) (*domain.ForensicsResult, error) {
	resp, err := f.analyzer.complete(ctx, "llm.forensics", CompletionRequest{
		System:    imageForensicsPrompt,
		Prompt:    fmt.Sprintf("Analyze these %d property images and produce the forensic findings JSON.", len(images)),
		ForceJSON: true,
		Images:    images,
	})
	if err != nil {
		return nil, err
	}

	var result domain.ForensicsResult
	if err := json.Unmarshal([]byte(extractJSONObject(resp.Text)), &result); err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "decode forensics result", err)
	}
	result.SchemaVersion = domain.SchemaVersionImageForensicsV1
	result.Run = domain.RunInfo{
		RunID:          runID,
		CaseID:         caseID,
		GeneratedAtUTC: time.Now().UTC().Format(time.RFC3339),
	}
	if result.Findings == nil {
		result.Findings = []domain.Finding{}
	}
	if result.MaterialsObserved == nil {
		result.MaterialsObserved = []string{}
	}
	if result.DefectsObserved == nil {
		result.DefectsObserved = []string{}
	}
	if result.ComplianceFlags == nil {
		result.ComplianceFlags = []domain.ComplianceFlag{}
	}
	return &result, nil
}
