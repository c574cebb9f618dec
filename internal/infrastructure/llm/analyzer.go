package llm

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/nexodify/forensic-engine/internal/core/domain"
	"github.com/nexodify/forensic-engine/internal/infrastructure/resilience"
	"github.com/nexodify/forensic-engine/internal/schema"
)

// TokenObserver receives the token usage of every completed call.
type TokenObserver func(model string, promptTokens, completionTokens int)

type AnalyzerOptions struct {
	Executor *resilience.Executor
	// RatePerMinute caps outbound calls to the hosted API. Zero
	// disables the limiter.
	RatePerMinute int
	Tokens        TokenObserver
}

// VerdictAnalyzer drives the forensic scan prompt and turns the model
// response into a validated verdict.
type VerdictAnalyzer struct {
	provider Provider
	executor *resilience.Executor
	limiter  *rate.Limiter
	tokens   TokenObserver
	now      func() time.Time
}

func NewVerdictAnalyzer(provider Provider, opts AnalyzerOptions) *VerdictAnalyzer {
	var limiter *rate.Limiter
	if opts.RatePerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(opts.RatePerMinute)/60.0), 1)
	}
	return &VerdictAnalyzer{
		provider: provider,
		executor: opts.Executor,
		limiter:  limiter,
		tokens:   opts.Tokens,
		now:      time.Now,
	}
}

func (a *VerdictAnalyzer) Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.Verdict, error) {
	resp, err := a.complete(ctx, "llm.perizia", CompletionRequest{
		System:    periziaSystemPrompt,
		Prompt:    buildPeriziaPrompt(req.FileName, req.PageCount, req.Text),
		ForceJSON: true,
	})
	if err != nil {
		return nil, err
	}

	cleaned, err := schema.SanitizePeriziaVerdict([]byte(extractJSONObject(resp.Text)), req.CaseID, req.RunID, a.now())
	if err != nil {
		return nil, err
	}
	return schema.ValidatePeriziaVerdict(cleaned)
}

func (a *VerdictAnalyzer) complete(ctx context.Context, operation string, req CompletionRequest) (*CompletionResponse, error) {
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	var resp *CompletionResponse
	call := func(callCtx context.Context) error {
		var err error
		resp, err = a.provider.Complete(callCtx, req)
		return err
	}

	var err error
	if a.executor != nil {
		err = a.executor.Execute(ctx, operation, call, classifyLLMError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return nil, wrapTemporaryIfNeeded(operation, err)
	}
	if a.tokens != nil {
		a.tokens(resp.Model, resp.PromptTokens, resp.CompletionTokens)
	}
	return resp, nil
}
