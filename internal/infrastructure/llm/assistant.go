package llm

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/nexodify/forensic-engine/internal/core/domain"
)

const (
	defaultDisclaimerIT = "Documento informativo, non è consulenza legale."
	defaultDisclaimerEN = "Informational document, not legal advice."
)

// AssistantAnswerer answers free-form auction and perizia questions.
type AssistantAnswerer struct {
	analyzer *VerdictAnalyzer
}

func NewAssistantAnswerer(analyzer *VerdictAnalyzer) *AssistantAnswerer {
	return &AssistantAnswerer{analyzer: analyzer}
}

func (s *AssistantAnswerer) Answer(ctx context.Context, question, caseContext string) (*domain.AssistantAnswer, error) {
	resp, err := s.analyzer.complete(ctx, "llm.assistant", CompletionRequest{
		System:    assistantSystemPrompt,
		Prompt:    buildAssistantPrompt(question, caseContext),
		ForceJSON: true,
	})
	if err != nil {
		return nil, err
	}

	var answer domain.AssistantAnswer
	if err := json.Unmarshal([]byte(extractJSONObject(resp.Text)), &answer); err != nil || answer.AnswerIT == "" && answer.AnswerEN == "" {
		// Free-text replies still reach the user, bilingual as-is.
		text := strings.TrimSpace(resp.Text)
		answer = domain.AssistantAnswer{
			AnswerIT:      text,
			AnswerEN:      text,
			NeedsMoreInfo: "NO",
		}
	}
	if answer.MissingInputs == nil {
		answer.MissingInputs = []string{}
	}
	if answer.NeedsMoreInfo == "" {
		answer.NeedsMoreInfo = "NO"
	}
	if answer.SafeDisclaimerIT == "" {
		answer.SafeDisclaimerIT = defaultDisclaimerIT
	}
	if answer.SafeDisclaimerEN == "" {
		answer.SafeDisclaimerEN = defaultDisclaimerEN
	}
	return &answer, nil
}
