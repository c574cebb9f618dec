package hostedcheckout

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/nexodify/forensic-engine/internal/core/domain"
)

// VerifyWebhook checks the HMAC-SHA256 signature the processor puts on
// every notification and decodes the event. The signature header is the
// hex digest of the raw body under the shared webhook secret.
func (c *Client) VerifyWebhook(payload []byte, signature string) (*domain.WebhookEvent, error) {
	if c.webhookSecret == "" {
		return nil, fmt.Errorf("webhook secret not configured")
	}
	mac := hmac.New(sha256.New, []byte(c.webhookSecret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return nil, domain.WrapError(domain.ErrUnauthorized, "verify webhook", fmt.Errorf("signature mismatch"))
	}

	var event domain.WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "verify webhook", fmt.Errorf("decode event: %w", err))
	}
	if event.SessionID == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "verify webhook", fmt.Errorf("event without session id"))
	}
	if event.Metadata == nil {
		event.Metadata = map[string]string{}
	}
	return &event, nil
}
