// Package hostedcheckout integrates the hosted payment processor. The
// processor owns the card form; this service only creates sessions,
// polls their status and consumes signed webhooks.
package hostedcheckout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nexodify/forensic-engine/internal/core/domain"
	"github.com/nexodify/forensic-engine/internal/infrastructure/resilience"
)

type Client struct {
	baseURL       string
	apiKey        string
	webhookSecret string
	httpClient    *http.Client
	executor      *resilience.Executor
}

type Options struct {
	Timeout            time.Duration
	ResilienceExecutor *resilience.Executor
}

func New(baseURL, apiKey, webhookSecret string, options Options) *Client {
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		apiKey:        apiKey,
		webhookSecret: webhookSecret,
		httpClient:    &http.Client{Timeout: timeout},
		executor:      options.ResilienceExecutor,
	}
}

func (c *Client) CreateSession(ctx context.Context, amount float64, currency, successURL, cancelURL string, metadata map[string]string) (*domain.CheckoutSession, error) {
	payload := map[string]any{
		"amount":      amount,
		"currency":    currency,
		"success_url": successURL,
		"cancel_url":  cancelURL,
		"metadata":    metadata,
	}
	var session domain.CheckoutSession
	if err := c.call(ctx, "checkout.create", http.MethodPost, "/v1/checkout/sessions", payload, &session); err != nil {
		return nil, err
	}
	if session.SessionID == "" || session.URL == "" {
		return nil, fmt.Errorf("processor returned incomplete session")
	}
	return &session, nil
}

func (c *Client) GetSessionStatus(ctx context.Context, sessionID string) (*domain.CheckoutSession, error) {
	var session domain.CheckoutSession
	if err := c.call(ctx, "checkout.status", http.MethodGet, "/v1/checkout/sessions/"+sessionID, nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) call(ctx context.Context, operation, method, path string, payload, out any) error {
	do := func(callCtx context.Context) error {
		var body io.Reader
		if payload != nil {
			raw, err := json.Marshal(payload)
			if err != nil {
				return fmt.Errorf("marshal %s request: %w", operation, err)
			}
			body = bytes.NewReader(raw)
		}
		req, err := http.NewRequestWithContext(callCtx, method, c.baseURL+path, body)
		if err != nil {
			return fmt.Errorf("create %s request: %w", operation, err)
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("%s request: %w", operation, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return domain.WrapError(domain.ErrNotFound, operation, fmt.Errorf("unknown checkout session"))
		}
		if resp.StatusCode >= 300 {
			raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			return fmt.Errorf("processor %s status %s: %s", operation, resp.Status, strings.TrimSpace(string(raw)))
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s response: %w", operation, err)
		}
		return nil
	}

	if c.executor != nil {
		return c.executor.Execute(ctx, operation, do, classifyProcessorError)
	}
	return do(ctx)
}

func classifyProcessorError(err error) resilience.ErrorClassification {
	if err == nil {
		return resilience.ErrorClassification{}
	}
	// Session creation must never double-charge on ambiguity, so only
	// clearly-final rejections skip the breaker.
	if domain.IsKind(err, domain.ErrNotFound) {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}
	return resilience.ErrorClassification{Retryable: false, RecordFailure: true}
}
