// Package authbroker talks to the hosted OAuth broker that fronts the
// Google login flow. The SPA finishes the OAuth dance against the
// broker and hands us only an opaque session id to verify.
package authbroker

import (
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
	baseURL    string
	httpClient *http.Client
	executor   *resilience.Executor
}

type Options struct {
	Timeout            time.Duration
	ResilienceExecutor *resilience.Executor
}

func New(baseURL string, options Options) *Client {
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		executor:   options.ResilienceExecutor,
	}
}

// ExchangeSession verifies a broker session id and returns the identity
// behind it. An unknown or expired id maps to ErrUnauthorized.
func (c *Client) ExchangeSession(ctx context.Context, sessionID string) (*domain.BrokerIdentity, error) {
	var identity domain.BrokerIdentity

	call := func(callCtx context.Context) error {
		req, err := http.NewRequestWithContext(callCtx, http.MethodGet, c.baseURL+"/auth/v1/session-data", nil)
		if err != nil {
			return fmt.Errorf("create session-data request: %w", err)
		}
		req.Header.Set("X-Session-ID", sessionID)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("session-data request: %w", err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
				return fmt.Errorf("decode session-data response: %w", err)
			}
			return nil
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusNotFound:
			return domain.WrapError(domain.ErrUnauthorized, "exchange session", fmt.Errorf("broker rejected session id"))
		default:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			return fmt.Errorf("broker session-data status %s: %s", resp.Status, strings.TrimSpace(string(body)))
		}
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, "authbroker.exchange", call, classifyBrokerError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return nil, err
	}
	if identity.Email == "" {
		return nil, domain.WrapError(domain.ErrUnauthorized, "exchange session", fmt.Errorf("broker returned no email"))
	}
	return &identity, nil
}

func classifyBrokerError(err error) resilience.ErrorClassification {
	if err == nil {
		return resilience.ErrorClassification{}
	}
	// Rejections are final; only transport-level failures retry.
	if domain.IsKind(err, domain.ErrUnauthorized) {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}
	return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
}
